package seq

import "fmt"

// FormatError is returned when input is not fasta format, or not
// something we can treat as an alignment. Line is 0 if the problem
// is not tied to a line.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("fasta format, line %d: %s", e.Line, e.Msg)
	}
	return "fasta format: " + e.Msg
}

// AlignmentWidthError says that sequence number Ndx (from zero) does
// not have the same length as the first sequence.
type AlignmentWidthError struct {
	Want int
	Got  int
	Ndx  int
	Cmmt string
}

func (e *AlignmentWidthError) Error() string {
	const msg = "sequence lengths are not the same. First sequence length %d, but sequence %d length %d. Sequence starts \"%s\""
	return fmt.Sprintf(msg, e.Want, e.Ndx, e.Got, e.Cmmt)
}

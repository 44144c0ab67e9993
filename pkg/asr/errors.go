package asr

import "fmt"

// DecompressionError says the compressed payload could not be
// unpacked. Err is whatever the decoder or reader complained about.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string {
	return "decompressing probabilities: " + e.Err.Error()
}

func (e *DecompressionError) Unwrap() error { return e.Err }

// FormatError is for probability data with the wrong shape or values.
// Node is empty and Column is -1 when the problem is not in one place.
type FormatError struct {
	Node   string
	Column int
	Msg    string
	Err    error
}

func (e *FormatError) Error() string {
	s := "probability data: "
	if e.Node != "" {
		s += fmt.Sprintf("node %s ", e.Node)
	}
	if e.Column >= 0 {
		s += fmt.Sprintf("column %d ", e.Column)
	}
	s += e.Msg
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *FormatError) Unwrap() error { return e.Err }

// 20 Dec 2017

// Package seq provides functions for aligned sequences,
// which usually begin their lives in fasta format. It can
// read and write them and calculate per-column statistics
// like symbol counts and entropy.
package seq

import (
	"fmt"
	"io"
	"strings"

	. "github.com/ezsea/seq_colour/pkg/seq/common"
)

// Seq is one sequence with its comment.
type Seq struct {
	cmmt string
	seq  []byte
}

// A marker to say what type of sequence we have, protein, DNA, ...
type SeqType byte

const (
	Unchecked SeqType = iota // Has not been looked at yet
	Unknown                  // Really unknown, not a protein or nucleotide
	Protein                  //
	DNA                      //
	RNA                      //
	Ntide                    // Nucleotide
)

// We only read ascii characters, so anything bigger than this is not
// valid.
const (
	MaxSym uint8 = 127
)

// Options contains all the choices passed in from the caller.
type Options struct {
	PadGaps    bool // pad short sequences with gaps instead of failing
	DiffLenSeq bool // false, unless we expect sequences to be different lengths
	RmvGapsWrt bool // Remove gaps on output
}

// Constants
const cmmt_char byte = '>' // and this introduces comments in fasta format

// Alignment is a group of sequences which should all be the same length.
// Once built, it is not changed by any of the calculations, so it can be
// shared between goroutines.
type Alignment struct {
	seqs []Seq
}

// NewSeq makes a sequence from a comment and residues. The residues are
// not copied.
func NewSeq(cmmt string, s []byte) Seq { return Seq{cmmt: cmmt, seq: s} }

// Function GetSeq returns the sequence as the original byte slice
func (s Seq) GetSeq() []byte { return s.seq }

// Function GetCmmt returns the comment, without the leading ">"
func (s Seq) GetCmmt() string { return s.cmmt }

// Function Len
func (s Seq) Len() int { return len(s.seq) }

// ID returns the sequence identifier. Of course it just returns the
// first word in the comment, which is what everybody uses as a name.
func (s Seq) ID() string {
	tmp := strings.Fields(s.cmmt)
	if len(tmp) == 0 {
		return ""
	}
	return tmp[0]
}

// trimStr trims a string to n bytes if it is longer
func trimStr(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// String returns a sequence, with its comment at the start as
// a single string
func (s Seq) String() string {
	return fmt.Sprintf("%c%s\n%s", cmmt_char, s.cmmt, s.seq)
}

// upper maps lower case letters to upper case and leaves everything
// else alone.
func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// checkSyms looks for characters we cannot handle.
func (s Seq) checkSyms() error {
	const symerr = "bad sym \"%c\" at position %d starting \"%s\""
	for i, c := range s.seq {
		if c >= MaxSym {
			return &FormatError{Msg: fmt.Sprintf(symerr, c, i, trimStr(s.cmmt, 40))}
		}
	}
	return nil
}

// NewAlignment takes a set of sequences and checks they can be treated
// as an alignment. If the lengths differ, we fail with an
// AlignmentWidthError unless s_opts asks us to pad with gaps or says
// lengths may differ.
func NewAlignment(seqs []Seq, s_opts *Options) (*Alignment, error) {
	if s_opts == nil {
		s_opts = &Options{}
	}
	if len(seqs) == 0 {
		return nil, &FormatError{Msg: "no sequences found"}
	}
	for _, s := range seqs {
		if err := s.checkSyms(); err != nil {
			return nil, err
		}
	}
	aln := &Alignment{seqs: seqs}
	switch {
	case s_opts.DiffLenSeq:
	case s_opts.PadGaps:
		aln.pad()
	default:
		if err := aln.checkLengths(); err != nil {
			return nil, err
		}
	}
	return aln, nil
}

// checkLengths compares every sequence against the first one.
func (aln *Alignment) checkLengths() error {
	iwant := aln.seqs[0].Len()
	for i := 1; i < len(aln.seqs); i++ {
		if ilen := aln.seqs[i].Len(); ilen != iwant {
			return &AlignmentWidthError{
				Want: iwant, Got: ilen, Ndx: i,
				Cmmt: trimStr(aln.seqs[i].cmmt, 40)}
		}
	}
	return nil
}

// pad extends short sequences with gap characters on the right, up to
// the length of the longest.
func (aln *Alignment) pad() {
	width := 0
	for _, s := range aln.seqs {
		if s.Len() > width {
			width = s.Len()
		}
	}
	for i, s := range aln.seqs {
		if n := width - s.Len(); n > 0 {
			t := make([]byte, width)
			copy(t, s.seq)
			for j := s.Len(); j < width; j++ {
				t[j] = GapChar
			}
			aln.seqs[i].seq = t
		}
	}
}

// GetLen returns the length of the first sequence, which is the
// width of the alignment.
func (aln *Alignment) GetLen() int { return len(aln.seqs[0].seq) }

// NSeq returns the number of sequences
func (aln *Alignment) NSeq() int { return len(aln.seqs) }

// SeqSlc returns the slice of sequences
func (aln *Alignment) SeqSlc() []Seq { return aln.seqs }

// FindNdx Returns the index of the sequence containing a string.
// Numbering starts from zero. We remove any ">", space or tab at the start.
func (aln *Alignment) FindNdx(s string) int {
	s = strings.TrimLeft(s, " >	")

	for i, seq := range aln.seqs {
		if strings.Contains(seq.cmmt, s) {
			return i
		}
	}
	return -1
}

// FindID returns the index of the sequence whose identifier is exactly
// id, or -1.
func (aln *Alignment) FindID(id string) int {
	for i, seq := range aln.seqs {
		if seq.ID() == id {
			return i
		}
	}
	return -1
}

// WriteFasta writes sequences to w, 60 characters per line.
// Empty sequences are skipped.
func WriteFasta(w io.Writer, seqs []Seq, s_opts *Options) error {
	const c_per_line = 60
	if s_opts == nil {
		s_opts = &Options{}
	}
	var t []byte
	for _, seq := range seqs {
		if seq.Len() == 0 {
			continue
		}
		if _, err := fmt.Fprintf(w, "%c%s\n", cmmt_char, seq.cmmt); err != nil {
			return err
		}
		s := seq.seq
		if s_opts.RmvGapsWrt { // remove gap characters on output
			t = t[:0]
			for _, c := range s {
				if !IsGap(c) {
					t = append(t, c)
				}
			}
			s = t
		}
		for ; len(s) > c_per_line; s = s[c_per_line:] {
			if _, err := fmt.Fprintf(w, "%s\n", s[:c_per_line]); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s\n", s); err != nil {
			return err
		}
	}
	return nil
}

// Str2Aln takes some strings and returns them as an alignment.
// sIn is a slice of strings which are the sequences.
// prefix is an optional argument. Sequences need names/comments. If
// prefix is not given, sequences will be called "s0", "s1", ...
// It does not check lengths, so it is mainly for testing.
func Str2Aln(sIn []string, prefix ...string) *Alignment {
	base := "s"
	if prefix != nil {
		base = prefix[0]
	}
	aln := new(Alignment)
	for i, s := range sIn {
		f := Seq{cmmt: fmt.Sprint(base, i), seq: []byte(s)}
		aln.seqs = append(aln.seqs, f)
	}
	return aln
}

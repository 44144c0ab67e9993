// 29 April 2020

// Package squash removes the columns of an alignment where a reference
// sequence has a gap. What is left lines up one to one with the
// residues of the reference, which is what a structure viewer wants
// when it is given colours or attributes.
package squash

import (
	"fmt"
	"strconv"

	"github.com/ezsea/seq_colour/pkg/seq"
	. "github.com/ezsea/seq_colour/pkg/seq/common"
)

// FindRef finds the reference sequence. A plain number like "1" is the
// position of the sequence, counting from one. Anything else is looked
// for in the comment lines and the first match wins.
func FindRef(aln *seq.Alignment, name string) (int, error) {
	if n, err := strconv.Atoi(name); err == nil {
		if n < 1 || n > aln.NSeq() {
			return -1, fmt.Errorf("reference number %d, but only %d sequences", n, aln.NSeq())
		}
		return n - 1, nil
	}
	if ndx := aln.FindNdx(name); ndx != -1 {
		return ndx, nil
	}
	return -1, fmt.Errorf(`could not find "%s" amongst sequences`, name)
}

// Mask is true for every column where ref is not a gap.
func Mask(ref []byte) []bool {
	mask := make([]bool, len(ref))
	for i, c := range ref {
		mask[i] = !IsGap(c)
	}
	return mask
}

// Project keeps the values whose mask entry is true. It works on
// entropies, colours or residues. vals and mask must be the same
// length.
func Project[T any](vals []T, mask []bool) ([]T, error) {
	if len(vals) != len(mask) {
		return nil, fmt.Errorf("projection length mismatch: %d values, mask %d", len(vals), len(mask))
	}
	r := make([]T, 0, len(vals))
	for i, v := range vals {
		if mask[i] {
			r = append(r, v)
		}
	}
	return r, nil
}

// Columns maps alignment columns to positions in the squashed
// alignment. Columns that were removed get -1.
func Columns(mask []bool) []int {
	r := make([]int, len(mask))
	n := 0
	for i, m := range mask {
		if m {
			r[i] = n
			n++
		} else {
			r[i] = -1
		}
	}
	return r
}

// Squash returns a new alignment without the columns where sequence
// ndxref has a gap. The original is left alone.
func Squash(aln *seq.Alignment, ndxref int) (*seq.Alignment, error) {
	seqs := aln.SeqSlc()
	mask := Mask(seqs[ndxref].GetSeq())
	const emsg = "length mismatch ref: %d seq %d len %d"
	out := make([]seq.Seq, len(seqs))
	for i, s := range seqs {
		b, err := Project(s.GetSeq(), mask)
		if err != nil {
			return nil, fmt.Errorf(emsg, len(mask), i, s.Len())
		}
		out[i] = seq.NewSeq(s.GetCmmt(), b)
	}
	return seq.NewAlignment(out, nil)
}

// Mymain reads an alignment, squashes it against the reference and
// writes it out.
func Mymain(ref, infile, outfile string) error {
	s_opts := &seq.Options{DiffLenSeq: true}
	aln, err := seq.Readfile(infile, s_opts)
	if err != nil {
		return fmt.Errorf("%w (the inputfile)", err)
	}
	ndxref, err := FindRef(aln, ref)
	if err != nil {
		return err
	}
	squashed, err := Squash(aln, ndxref)
	if err != nil {
		return err
	}
	fp, err := Create(outfile)
	if err != nil {
		return err
	}
	if err = seq.WriteFasta(fp, squashed.SeqSlc(), nil); err != nil {
		fp.Close()
		return fmt.Errorf("writing squashed alignment: %w", err)
	}
	return fp.Close()
}

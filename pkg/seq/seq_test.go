package seq_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/ezsea/seq_colour/pkg/seq/common"

	. "github.com/ezsea/seq_colour/pkg/seq"
)

const (
	big       = 64 * 1024
	bigminus1 = big - 1
	bigplus1  = big + 1
)

var seq_lengths = []int{10, 30, bigminus1, big, bigplus1}

func cmmtHelp(got, want string, t *testing.T) {
	if got != want {
		t.Fatalf("checking comments wanted \"%s\" got \"%s\"", want, got)
	}
}

// TestComment is to check that comments are read exactly, correctly
func TestComment(t *testing.T) {
	c0 := "testcomment no space"
	c1 := " testcomment with space at start"
	s := "aaa\n"
	seqs := ">" + c0 + "\n" + s + ">" + c1 + "\r\n" + s
	aln, err := ReadFasta(strings.NewReader(seqs), nil)
	if err != nil {
		t.Fatal("bust reading simple seqs in TestComment", err)
	}
	slc := aln.SeqSlc()
	cmmtHelp(slc[0].GetCmmt(), c0, t)
	cmmtHelp(slc[1].GetCmmt(), c1, t)
	cmmtHelp(slc[0].ID(), "testcomment", t)
}

// TestMultiLine checks sequence bodies spread over lines are glued together
func TestMultiLine(t *testing.T) {
	s := ">A first\nMK\nV\n\n>B\nM K L\n>C\nmk\nv"
	aln, err := ParseAlignment(s, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"MKV", "MKL", "mkv"}
	for i, w := range want {
		if got := string(aln.SeqSlc()[i].GetSeq()); got != w {
			t.Fatal("seq", i, "got", got, "want", w)
		}
	}
	if aln.GetLen() != 3 || aln.NSeq() != 3 {
		t.Fatal("wrong size", aln.NSeq(), aln.GetLen())
	}
}

// TestDiffLen checks if we can read sequences of different lengths
func TestDiffLen(t *testing.T) {
	s := `>s1
a
> s2
aa
> s3
aa-a`
	aln, err := ReadFasta(strings.NewReader(s), &Options{DiffLenSeq: true})
	if err != nil {
		t.Fatal("Reading seqs failed", err)
	}
	if ngot := aln.NSeq(); ngot != 3 {
		t.Fatalf("Seqs of diff length got %d wanted 3 seqs", ngot)
	}
	for i, l := range []int{1, 2, 4} {
		if got := aln.SeqSlc()[i].Len(); got != l {
			t.Fatalf("seqs diff length got %d wanted %d", got, l)
		}
	}
}

// TestDiffLenLong has different length sequences that should be much longer
// than one buffer.
func TestDiffLenLong(t *testing.T) {
	ll := []int{10000, 20000, 50000}
	s := ">\n" + strings.Repeat("a", ll[0]) + "\n> s2\n" + strings.Repeat("c", ll[1]) +
		"\n> s3\n" + strings.Repeat("d", ll[2])
	SetFastaRdSize(100)
	defer SetFastaRdSize(DefaultReadSize)
	aln, err := ReadFasta(strings.NewReader(s), &Options{DiffLenSeq: true})
	if err != nil {
		t.Fatal("Reading seqs failed", err)
	}
	for i := 0; i < len(ll); i++ {
		if l := aln.SeqSlc()[i].Len(); l != ll[i] {
			t.Fatalf("long seq wanted %d got %d", ll[i], l)
		}
	}
}

// TestErrorOnDiffSeqs should provoke the error when we expect sequences
// to be the same length, but they are not.
func TestErrorOnDiffSeqs(t *testing.T) {
	texts := []string{
		"> seq1\naaaa\n> seq 2\naaaaa",
		"> seq1\naaaaa\n> seq 2\naaaa",
	}
	for _, txt := range texts {
		aln, err := ReadFasta(strings.NewReader(txt), nil)
		var werr *AlignmentWidthError
		if !errors.As(err, &werr) {
			t.Fatal("wanted AlignmentWidthError, got", err)
		}
		if aln != nil {
			t.Fatal("got an alignment as well as an error")
		}
		if werr.Ndx != 1 {
			t.Fatal("error on wrong sequence", werr.Ndx)
		}
	}
}

// TestPad checks short rows are padded with gaps when we ask for it
func TestPad(t *testing.T) {
	txt := "> s1\nMKV\n> s2\nMK\n> s3\nM"
	aln, err := ParseAlignment(txt, &Options{PadGaps: true})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"MKV", "MK-", "M--"}
	for i, w := range want {
		if got := string(aln.SeqSlc()[i].GetSeq()); got != w {
			t.Fatal("padding got", got, "want", w)
		}
	}
}

// TestNotFasta checks we get a FormatError and nothing else
func TestNotFasta(t *testing.T) {
	bad := []string{
		"not a fasta file",
		"",
		"\n\n",
		"> blah\n",
		"> s1\nabc\n> s2 there is no sequence next",
		"> s1\n\n> s2\nabc",
		"> s1\nab\xc3\xa9",
	}
	for _, s := range bad {
		aln, err := ParseAlignment(s, nil)
		var ferr *FormatError
		if !errors.As(err, &ferr) {
			t.Fatalf("input %q wanted FormatError, got %v", s, err)
		}
		if aln != nil {
			t.Fatalf("input %q gave a partial alignment", s)
		}
	}
}

// TestFormatErrorLine checks the line number is reported
func TestFormatErrorLine(t *testing.T) {
	_, err := ParseAlignment("\n\nACGT\n> s1\nACGT", nil)
	var ferr *FormatError
	if !errors.As(err, &ferr) {
		t.Fatal("wanted FormatError, got", err)
	}
	if ferr.Line != 3 {
		t.Fatal("wanted line 3 got", ferr.Line)
	}
}

// TestReadFastaShort uses buffers of various lengths to catch end of buffer mistakes.
func TestReadFastaShort(t *testing.T) {
	set1 := ">\n" + "abcdefghij\n" +
		"> longer comment" + strings.Repeat(" x", 300) + "\n" +
		strings.Repeat("a", 10) + "\n" + "> longer comment" + strings.Repeat(" x", 3) +
		"\n" + strings.Repeat(" b ", 10) + strings.Repeat(" ", 167)
	bsize := []int{16, 17, 100, 512, DefaultReadSize}
	defer SetFastaRdSize(DefaultReadSize)
	for i, bs := range bsize {
		SetFastaRdSize(bs)
		aln, err := ReadFasta(strings.NewReader(set1), nil)
		if err != nil {
			t.Fatal(err)
		}
		if n := aln.GetLen(); n != 10 {
			t.Fatal("seq num", i, "got", n, "want 10")
		}
		if n := aln.NSeq(); n != 3 {
			t.Fatal("seq loop num", i, "got nseq", n, "want 3")
		}
	}
}

// Put funny characters into the comment lines
var trickyComments = []string{
	">a☺b☻c☹d",
	">>>",
	">",
	">a comment can end in an umlautÜ",
}

// writeTest_with_spaces provides some sequences with different patterns of
// white space and some gap characters mixed in.
func writeTest_with_spaces(f_tmp io.Writer) {
	const b byte = 'B'
	for i, l := range seq_lengths {
		fmt.Fprintln(f_tmp, trickyComments[i%len(trickyComments)])
		for j := 0; j < l; j++ {
			switch {
			case j%11 == 1:
				fmt.Fprint(f_tmp, " ")
			case j%73 == 1:
				fmt.Fprint(f_tmp, "\n")
			}
			fmt.Fprint(f_tmp, string(b))
		}
		fmt.Fprint(f_tmp, "\n")
	}
}

// writeTest_nospaces writes sequences with no spaces so as to check if we
// correctly handle long lines.
func writeTest_nospaces(f_tmp io.Writer) {
	for _, i := range seq_lengths {
		fmt.Fprintln(f_tmp, "> seq", i+1, ">>")
		fmt.Fprintln(f_tmp, strings.Repeat("A", i))
	}
}

// TestReadFasta writes and then reads sequences, once to check that
// we hop over white space and once to make sure we handle long lines.
func TestReadFasta(t *testing.T) {
	for _, spaces := range []bool{false, true} {
		var b strings.Builder
		if spaces {
			writeTest_with_spaces(&b)
		} else {
			writeTest_nospaces(&b)
		}
		aln, err := ReadFasta(strings.NewReader(b.String()), &Options{DiffLenSeq: true})
		if err != nil {
			t.Fatal("Reading seqs failed", err)
		}
		if aln.NSeq() != len(seq_lengths) {
			t.Fatalf("Wrote %d seqs, but read %d. spaces %t", len(seq_lengths), aln.NSeq(), spaces)
		}
		for i, s := range aln.SeqSlc() {
			if s.Len() != seq_lengths[i] {
				t.Fatalf("Seq length expected %d, got %d", seq_lengths[i], s.Len())
			}
		}
	}
}

// TestReadfile goes through a file, so the memory mapping is used
func TestReadfile(t *testing.T) {
	fname, err := common.WrtTemp(">A\nMKV\n>B\nMKL\n>C\nMKV\n")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	aln, err := Readfile(fname, nil)
	if err != nil {
		t.Fatal(err)
	}
	if aln.NSeq() != 3 || aln.GetLen() != 3 {
		t.Fatal("wrong size", aln.NSeq(), aln.GetLen())
	}
	if _, err := Readfile(fname+"notexist", nil); err == nil {
		t.Fatal("missing file should fail")
	}
	empty, err := common.WrtTemp("")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(empty)
	var ferr *FormatError
	if _, err := Readfile(empty, nil); !errors.As(err, &ferr) {
		t.Fatal("empty file wanted FormatError, got", err)
	}
}

func TestWriteFasta(t *testing.T) {
	long := strings.Repeat("ACDE-", 20)
	aln, err := ParseAlignment(">s1 first\n"+long+"\n>s2\n"+long, nil)
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err := WriteFasta(&b, aln.SeqSlc(), &Options{RmvGapsWrt: true}); err != nil {
		t.Fatal(err)
	}
	back, err := ReadFasta(&b, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(back.SeqSlc()[0].GetSeq()); got != strings.Repeat("ACDE", 20) {
		t.Fatal("gaps not removed", got)
	}
	if back.SeqSlc()[0].GetCmmt() != "s1 first" {
		t.Fatal("comment lost", back.SeqSlc()[0].GetCmmt())
	}
}

func TestFind(t *testing.T) {
	aln := Str2Aln([]string{"aa", "bb", "cc"}, "seq")
	if i := aln.FindNdx("> seq1"); i != 1 {
		t.Fatal("FindNdx got", i)
	}
	if i := aln.FindID("seq2"); i != 2 {
		t.Fatal("FindID got", i)
	}
	if i := aln.FindID("seq"); i != -1 {
		t.Fatal("FindID should be exact, got", i)
	}
}

var stypedata = []struct {
	s1    string
	stype SeqType
}{
	{"> s\nACGU\n>ss\nACGT\n\n", Ntide},
	{"> seq1\nACGT-ACGT\n> seq 2\n acgt", DNA},
	{"> seq1\nac gt  \n> seq 2\nACGT-ACGT", DNA},
	{"> s1\n a c    \ng-U\n>s2\naaaa", RNA},
	{"> s\nacgu\n>ss\nacgu\n\n", RNA},
	{"> s\nacgu\n>ss\nACGT\n\n", Ntide},
	{"> s1\nef", Protein},
	{"> s1\nEF", Protein},
	{"> s1\nB", Unknown},
	{"> s1\njb\n>s2\nO", Unknown},
}

// TestTypes checks the code for recognising RNA/DNA/Protein/whatever types.
func TestTypes(t *testing.T) {
	for tnum, x := range stypedata {
		aln, err := ReadFasta(strings.NewReader(x.s1), &Options{DiffLenSeq: true})
		if err != nil {
			t.Fatal("TestTypes broke on ReadFasta", err)
		}
		if st := aln.GetType(); st != x.stype {
			const msg = "seq num %d (numbering from 0) got type %d expected %d"
			t.Fatalf(msg, tnum, st, x.stype)
		}
	}
}

package brokenio_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/ezsea/seq_colour/brokenio"
)

var tochop = [][]byte{
	[]byte(""),
	[]byte("a"),
	[]byte("abc"),
	[]byte("abcdefghij"),
	[]byte("abcdefghijklmn"),
}

var longstring = "0123456789012345678901234567890123456789"

func newRdr(s string) *brokenio.Reader {
	return brokenio.NewReader(io.NopCloser(strings.NewReader(s)))
}

// testFrac - wipe out different fractions of the input buffer.
func testFrac(t *testing.T, inb []byte, frac float32) {
	s := make([]byte, len(inb))
	rdr := newRdr(string(inb))
	rdr.SetProbFail(1)
	rdr.SetFracFail(frac)
	n, err := rdr.Read(s)
	if !bytes.Equal(inb[:n], s[:n]) {
		t.Error("contents of strings changed with string", string(inb), "frac", frac)
	}
	nuls := []byte{0}
	switch frac {
	case 0.0:
		if n := bytes.Count(s, nuls); n > 0 {
			t.Error("want no null bytes, got", n)
		}
		if err != nil && len(inb) > 0 {
			t.Errorf("error reading from string \"%s\"", inb)
		}
	case 1.0: // This should be a string with all nulls and an error
		if n := bytes.Count(s, nuls); n != len(s) {
			t.Error("want", len(s), "nulls, got", n)
		}
		if len(s) > 0 && err == nil {
			t.Error("did not get error reading from", string(inb))
		}
	default:
		nNull := bytes.Count(s, nuls)
		if nNull == 0 && len(inb) > 3 {
			t.Errorf("no nulls found in \"%s\"", string(s))
		}
		if nNull == len(s) && len(s) > 2 {
			t.Error("Wiped out complete string in", string(inb))
		}
	}
}

// TestTrashing takes strings and removes parts of them
func TestTrashing(t *testing.T) {
	for _, frac := range []float32{0, 0.3, 1} {
		for _, inb := range tochop {
			testFrac(t, inb, frac)
		}
	}
}

func forZeroFile(prob float32) (n int, err error) {
	rdr := newRdr(longstring)
	rdr.SetProbZeroFile(prob)
	tmp := make([]byte, len(longstring))
	n, err = rdr.Read(tmp)
	rdr.Close()
	return n, err
}

func TestZeroFile(t *testing.T) {
	n, err := forZeroFile(1)
	if n > 0 {
		t.Error("should have received zero bytes")
	}
	if err != io.EOF {
		t.Errorf("Should have received EOF")
	}
	n, err = forZeroFile(0)
	if n < len(longstring) {
		t.Error("Wanted", len(longstring), "got", n)
	}
	if err != nil {
		t.Errorf("err reading from string")
	}
}

func TestErrAfter(t *testing.T) {
	rdr := newRdr(longstring)
	rdr.SetErrAfter(25)
	b, err := io.ReadAll(rdr)
	if !errors.Is(err, brokenio.ErrBroken) {
		t.Fatal("wanted ErrBroken, got", err)
	}
	if string(b) != longstring[:25] || rdr.NByte() != 25 {
		t.Errorf("got %q, %d bytes", b, rdr.NByte())
	}
}

func TestReaderSimple(t *testing.T) {
	rdr := newRdr(longstring)
	s := make([]byte, len(longstring))
	if rdr.Read(s); string(s) != longstring {
		t.Errorf("simple read fail got %q wanted %q", s, longstring)
	}
}

func Example_setVerbose() {
	rdr := newRdr(longstring)
	rdr.SetVerbose(true)
	tmp := make([]byte, len(longstring))
	rdr.Read(tmp)
	rdr.Close()
	// Output: Closing 1 calls and 40 bytes
}

// TestClose - check if the reader really is calling the correct close method.
func TestClose(t *testing.T) {
	fname := t.TempDir() + "/testclose"
	if err := os.WriteFile(fname, []byte(longstring), 0o644); err != nil {
		t.Fatal(err)
	}
	fp, err := os.Open(fname)
	if err != nil {
		t.Fatal("reading from tempfile, err = ", err)
	}
	rdr := brokenio.NewReader(fp)
	s := make([]byte, len(longstring))
	if n, err := rdr.Read(s); n != len(longstring) || err != nil {
		t.Error("Failed reading from tempfile, n, err = ", n, err)
	}
	if err = rdr.Close(); err != nil {
		t.Error("failed on close of reader")
	}
	if err = fp.Close(); err == nil {
		t.Error("file was not closed by the reader")
	}
}

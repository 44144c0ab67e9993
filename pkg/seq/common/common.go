// 29 Apr 2020

package common

import (
	"fmt"
	"io"
	"os"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

const GapChar byte = '-' // a minus sign is what we write for gaps

// gapSym marks the characters that count as a gap in an alignment column.
// Besides '-', some programs write '.', and stray white space inside a
// column is treated the same way.
var gapSym = [256]bool{
	'-': true, '.': true,
	' ': true, '\t': true, '\n': true, '\r': true, '\v': true, '\f': true,
}

// IsGap says if c is a gap symbol
func IsGap(c byte) bool { return gapSym[c] }

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
func WrtTemp(s string) (string, error) {
	return WrtTempBytes([]byte(s))
}

// WrtTempBytes is WrtTemp for binary data, like compressed test fixtures.
func WrtTempBytes(b []byte) (string, error) {
	f_tmp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", fmt.Errorf("tempfile fail")
	}

	if _, err := f_tmp.Write(b); err != nil {
		f_tmp.Close()
		return "", fmt.Errorf("writing to temp file %v", f_tmp.Name())
	}
	name := f_tmp.Name()
	f_tmp.Close()
	return name, nil
}

// fakecloser turns an io.Writer into a WriteCloser, so os.Stdout and
// files can be handled the same way.
type fakecloser struct {
	io.Writer
}

func (fakecloser) Close() error { return nil }

// Create opens a file for writing. An empty name or "-" means standard
// output, which is not closed when the caller is finished.
func Create(fname string) (io.WriteCloser, error) {
	if fname == "" || fname == "-" {
		return fakecloser{os.Stdout}, nil
	}
	if _, err := os.Stat(fname); err == nil {
		Warn.Println("trashing old version of", fname)
	}
	return os.Create(fname)
}

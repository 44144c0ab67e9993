// brokenio is a wrapper around an io.ReadCloser. It lets us make reads
// fail, so we can see what decoders do with bad input.
// Typical use: You get a file pointer, an http body or a reader over
// some compressed bytes. You write
// reader = brokenio.NewReader(reader) to wrap the old reader.
// Everything then functions as before, but with artificial errors.
// There are three kinds of trouble:
//   - a zero length file: the first read returns io.EOF and nothing else.
//   - trashing: the end of a buffer is overwritten with zeroes and an
//     error is returned.
//   - a hard error after a given number of bytes, like a dropped
//     connection.
// Random choices come from a seeded source, so a test fails the same
// way every time.

package brokenio

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
)

// ErrBroken is returned when the reader gives up after SetErrAfter bytes.
var ErrBroken = errors.New("brokenio: connection dropped")

// A Reader is modelled on the various Readers in the standard library,
// but with variables controlling the frequency of errors.
// Probabilities are the fraction of time an error will take place,
// so a value of 0.05 means failure in 5% of the cases.
// If verbose is true, print out the amount of data when the file is closed.
type Reader struct {
	rdrOrig      io.ReadCloser // Wrapped reader
	rnd          *rand.Rand
	probZeroFile float32 // Probability of returning a zero length file
	probFail     float32
	fracFail     float32
	errAfter     int // -1 means never
	nCalled      int
	nByte        int
	verbose      bool
}

// NewReader returns a new Reader, a wrapper around the old one.
// By default it does not break anything.
func NewReader(rIn io.ReadCloser) *Reader {
	return &Reader{
		rdrOrig:  rIn,
		rnd:      rand.New(rand.NewSource(1)),
		fracFail: 0.5,
		errAfter: -1,
	}
}

// SetSeed changes the random number seed
func (r *Reader) SetSeed(seed int64) { r.rnd = rand.New(rand.NewSource(seed)) }

// SetVerbose sets the verbosity flag to true or false
func (r *Reader) SetVerbose(newV bool) { r.verbose = newV }

// SetFracFail sets the amount of the bytes which will be trashed
func (r *Reader) SetFracFail(frac float32) { r.fracFail = frac }

// SetProbZeroFile sets the rate at which we simply return 0 bytes on the
// first read. It must be a value from 0 to 1. We do not check if the
// argument is valid.
func (r *Reader) SetProbZeroFile(prob float32) { r.probZeroFile = prob }

// SetProbFail set the probability of a read trashing its buffer.
// It must be between zero and 1.
func (r *Reader) SetProbFail(prob float32) { r.probFail = prob }

// SetErrAfter makes the reader return ErrBroken once n bytes have gone
// through.
func (r *Reader) SetErrAfter(n int) { r.errAfter = n }

// NByte is the number of bytes passed on so far
func (r *Reader) NByte() int { return r.nByte }

// trashSlice wipes out the second part of a slice.
// The amount to wipe out is given by a fraction, so 0.3
// will wipe out the second 30 % of a slice
func trashSlice(p []byte, frac float32) (int, error) {
	nkeep := int(float32(len(p)) * (1. - frac))
	if nkeep == len(p) {
		return nkeep, nil
	}
	clear(p[nkeep:])
	return nkeep, fmt.Errorf("randomly wiped out last %d of %d", len(p)-nkeep, len(p))
}

// Read wraps the original reader and sums up the amount of data that
// has gone through.
func (r *Reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.nCalled == 0 && r.probZeroFile > 0 {
		if r.rnd.Float32() < r.probZeroFile {
			return 0, io.EOF
		}
	}
	if r.errAfter >= 0 {
		left := r.errAfter - r.nByte
		if left <= 0 {
			return 0, ErrBroken
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	n, err = r.rdrOrig.Read(p)
	r.nCalled++
	r.nByte += n
	if n > 0 && r.fracFail > 0 && r.rnd.Float32() < r.probFail {
		return trashSlice(p[:n], r.fracFail)
	}
	return n, err
}

// Close wraps the original Close method.
func (r *Reader) Close() error {
	if r.verbose {
		fmt.Println("Closing", r.nCalled, "calls and", r.nByte, "bytes")
	}
	return r.rdrOrig.Close()
}

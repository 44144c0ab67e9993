// Package zwrap takes a file pointer and optionally wraps it so upon
// calling Close, the decompressor will be closed, followed by the
// underlying file.
// Probability files come zstd compressed. Older ones may be gzipped
// and some people just keep plain text, so WrapMaybe looks at the
// first bytes and does the right thing.

package zwrap

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format says how a stream was compressed
type Format byte

const (
	Plain Format = iota
	Zstd
	Gzip
)

func (f Format) String() string {
	switch f {
	case Zstd:
		return "zstd"
	case Gzip:
		return "gzip"
	}
	return "plain"
}

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Sniff guesses the format from the first few bytes.
func Sniff(b []byte) Format {
	switch {
	case bytes.HasPrefix(b, zstdMagic):
		return Zstd
	case bytes.HasPrefix(b, gzipMagic):
		return Gzip
	}
	return Plain
}

// maxDecoded is the biggest thing we are willing to decompress into
// memory. A probability file for a big tree is tens of megabytes.
const maxDecoded = 1 << 30

// decoder is shared for DecodeAll, which is safe for concurrent use.
var decoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0),
	zstd.WithDecoderMaxMemory(maxDecoded))

// FpZ is what we return. It reads decompressed data and closes both
// the decompressor and the source.
type FpZ struct {
	fp     io.ReadCloser
	zrdr   io.Reader
	zclose func() error
	format Format
}

// Close closes the decompressor, then the underlying backing readCloser.
// It should work if the source is a file or an http stream.
func (fc *FpZ) Close() error {
	if fc.zclose == nil {
		return fc.fp.Close()
	}
	var s string
	if e := fc.zclose(); e != nil { // Close decompressor
		s = e.Error()
	}
	if e := fc.fp.Close(); e != nil { // and backing file
		s = s + " " + e.Error()
	}
	if s == "" {
		return nil
	}
	return errors.New(s)
}

// Read makes sure we read from the decompressed stream and
// not the underlying file stream.
func (fc *FpZ) Read(p []byte) (int, error) { return fc.zrdr.Read(p) }

// Format reports what we found in the stream.
func (fc *FpZ) Format() Format { return fc.format }

// newZstd puts a zstd decoder on top of rdr.
func newZstd(fpz *FpZ, rdr io.Reader) error {
	zr, err := zstd.NewReader(rdr, zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxDecoded))
	if err != nil {
		return err
	}
	fpz.zrdr = zr
	fpz.zclose = func() error { zr.Close(); return nil }
	fpz.format = Zstd
	return nil
}

// Wrap takes a source like a file pointer or http stream and wraps it
// in a zstd decoder. Bad data is only noticed on the first Read.
func Wrap(fp io.ReadCloser) (*FpZ, error) {
	fpz := FpZ{fp: fp}
	if err := newZstd(&fpz, fp); err != nil {
		return nil, err
	}
	return &fpz, nil
}

// WrapMaybe will decide if the underlying stream is compressed
// and wrap the file pointer if necessary. It does not need to seek,
// so standard input is fine.
func WrapMaybe(fpIn io.ReadCloser) (*FpZ, error) {
	brdr := bufio.NewReader(fpIn)
	magic, err := brdr.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	fpz := FpZ{fp: fpIn, zrdr: brdr}
	switch Sniff(magic) {
	case Zstd:
		err = newZstd(&fpz, brdr)
	case Gzip:
		var gz *gzip.Reader
		if gz, err = gzip.NewReader(brdr); err == nil {
			fpz.zrdr, fpz.zclose, fpz.format = gz, gz.Close, Gzip
		}
	}
	if err != nil {
		return nil, err
	}
	return &fpz, nil
}

// Decode decompresses a zstd buffer held in memory.
func Decode(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("empty input")
	}
	return decoder.DecodeAll(b, nil)
}

// Encode compresses b with zstd. We only read probability files, but
// tests and the odd tool need to make them.
func Encode(b []byte) []byte {
	enc, _ := zstd.NewWriter(nil) // no options, so cannot fail
	defer enc.Close()
	return enc.EncodeAll(b, nil)
}

package asr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/ezsea/seq_colour/pkg/zwrap"
)

// SumTol is how far a column's probabilities may be from adding up to 1.
const SumTol = 0.01

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// Decompress unpacks a zstd buffer. Any failure, including an empty
// or truncated buffer, is a DecompressionError.
func Decompress(b []byte) ([]byte, error) {
	raw, err := zwrap.Decode(b)
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	return raw, nil
}

// DecompressReader is Decompress for a stream, like an http body.
// Errors from the reader itself also come back as a DecompressionError,
// since we cannot tell them from a broken payload.
func DecompressReader(r io.Reader) ([]byte, error) {
	zr, err := zwrap.Wrap(io.NopCloser(r))
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	if len(raw) == 0 {
		return nil, &DecompressionError{Err: io.ErrUnexpectedEOF}
	}
	return raw, nil
}

// Parse reads the decompressed JSON. The top level must be an object
// keyed by node name. Each value is an array with one object per
// column, mapping single character symbols to probabilities. Every
// column must add up to 1 within SumTol. Anything else is a
// FormatError and there is no store.
func Parse(raw []byte) (*Store, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, &FormatError{Column: -1, Msg: "top level is not an object of nodes", Err: err}
	}
	if top == nil { // the literal null
		return nil, &FormatError{Column: -1, Msg: "top level is null"}
	}
	nodes := make(map[string]Matrix, len(top))
	for name, msg := range top {
		m, err := parseMatrix(name, msg)
		if err != nil {
			return nil, err
		}
		nodes[name] = m
	}
	return &Store{nodes: nodes}, nil
}

var null = []byte("null")

// parseMatrix checks and converts the columns of one node. The json
// package turns null into a zero value without complaint, so nulls are
// looked for here.
func parseMatrix(name string, msg json.RawMessage) (Matrix, error) {
	if bytes.Equal(bytes.TrimSpace(msg), null) {
		return Matrix{}, &FormatError{Node: name, Column: -1, Msg: "null instead of an array of columns"}
	}
	var jcols []map[string]*float64
	if err := json.Unmarshal(msg, &jcols); err != nil {
		return Matrix{}, &FormatError{Node: name, Column: -1, Msg: "not an array of columns", Err: err}
	}
	cols := make([]Column, len(jcols))
	probs := make([]float64, 0, len(canonical))
	for icol, jc := range jcols {
		bad := func(msg string) error { return &FormatError{Node: name, Column: icol, Msg: msg} }
		if jc == nil {
			return Matrix{}, bad("null instead of a column")
		}
		col := make(Column, 0, len(jc))
		probs = probs[:0]
		for k, pp := range jc {
			if len(k) != 1 {
				return Matrix{}, bad(fmt.Sprintf("symbol %q is not one character", k))
			}
			if pp == nil {
				return Matrix{}, bad(fmt.Sprintf("symbol %s has a null probability", k))
			}
			p := *pp
			if p < 0 || math.IsInf(p, 0) || math.IsNaN(p) {
				return Matrix{}, bad(fmt.Sprintf("symbol %s has probability %g", k, p))
			}
			col = append(col, Prob{Sym: upper(k[0]), P: p})
			probs = append(probs, p)
		}
		if sum := floats.Sum(probs); math.Abs(sum-1) > SumTol {
			return Matrix{}, bad(fmt.Sprintf("probabilities sum to %g", sum))
		}
		slices.SortFunc(col, func(a, b Prob) int { return rank(a.Sym) - rank(b.Sym) })
		for i := 1; i < len(col); i++ {
			if col[i].Sym == col[i-1].Sym {
				return Matrix{}, bad(fmt.Sprintf("symbol %c given twice", col[i].Sym))
			}
		}
		cols[icol] = col
	}
	return Matrix{cols: cols}, nil
}

// Load is Parse after Decompress.
func Load(b []byte) (*Store, error) {
	raw, err := Decompress(b)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// LoadReader reads a store from a stream which may be zstd or gzip
// compressed, or plain JSON. r is always closed.
func LoadReader(r io.ReadCloser) (*Store, error) {
	zr, err := zwrap.WrapMaybe(r)
	if err != nil {
		r.Close()
		return nil, &DecompressionError{Err: err}
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		if zr.Format() == zwrap.Plain {
			return nil, err
		}
		return nil, &DecompressionError{Err: err}
	}
	return Parse(raw)
}

// Readfile loads a store from a file.
func Readfile(fname string) (*Store, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	store, err := LoadReader(fp) // closes fp
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	return store, nil
}

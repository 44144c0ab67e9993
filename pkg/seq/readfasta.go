// Reader for fasta format files.

package seq

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/ezsea/seq_colour/pkg/white"
)

const (
	NL       = '\n'
	cmmtChar = '>'
)

const defaultReadSize = 64 * 1024

var rdsize int = defaultReadSize

// setFastaRdSize is only used during testing and benchmarking
func setFastaRdSize(i int) {
	if i < 16 {
		panic("setFastaRdSize given buffer length less than 16")
	}
	rdsize = i
}

// lexer walks through the input a line at a time. Lines can be any
// length, since ReadSlice fragments are glued together.
type lexer struct {
	rdr   *bufio.Reader
	seqs  []Seq
	line  []byte
	nline int
	cmmt  string // comment of the sequence being read
	seq   []byte // partial sequence
	eof   bool
	err   error
}

// next puts the next line in l.line, without the newline.
// It returns false at the end of input or on a read error.
func (l *lexer) next() bool {
	if l.eof {
		return false
	}
	l.line = l.line[:0]
	for {
		frag, err := l.rdr.ReadSlice(NL)
		l.line = append(l.line, frag...)
		if err == bufio.ErrBufferFull {
			continue
		}
		if err != nil {
			if err != io.EOF {
				l.err = err // a real error, not just the end
				return false
			}
			l.eof = true
			if len(l.line) == 0 {
				return false
			}
		}
		break
	}
	l.nline++
	l.line = bytes.TrimRight(l.line, "\r\n")
	return true
}

// header says if the current line starts a new sequence
func (l *lexer) header() bool {
	t := bytes.TrimLeft(l.line, " \t")
	return len(t) > 0 && t[0] == cmmtChar
}

// setCmmt stores everything after the ">" as the comment
func (l *lexer) setCmmt() {
	t := bytes.TrimLeft(l.line, " \t")
	l.cmmt = string(t[1:])
}

// flush finishes off the sequence we have been reading.
func (l *lexer) flush() {
	if len(l.seq) == 0 {
		l.err = &FormatError{Line: l.nline, Msg: "zero length sequence after " + trimStr(l.cmmt, 40)}
		return
	}
	l.seqs = append(l.seqs, Seq{cmmt: l.cmmt, seq: l.seq})
	l.cmmt = ""
	l.seq = nil
}

type stateFn func(*lexer) stateFn

// gstart skips blank lines until the first comment.
// Anything else is not fasta format.
func gstart(l *lexer) stateFn {
	for l.next() {
		if len(bytes.TrimSpace(l.line)) == 0 {
			continue
		}
		if !l.header() {
			l.err = &FormatError{Line: l.nline, Msg: "sequence data before first \">\" comment line"}
			return nil
		}
		l.setCmmt()
		return gseq
	}
	return nil
}

// We are reading a sequence. It runs until the next comment or the
// end of input.
func gseq(l *lexer) stateFn {
	for l.next() {
		if l.header() {
			if l.flush(); l.err != nil {
				return nil
			}
			l.setCmmt()
			continue
		}
		white.Remove(&l.line)
		l.seq = append(l.seq, l.line...)
	}
	if l.err == nil {
		l.flush()
	}
	return nil
}

// ReadFasta reads fasta formatted input and returns an alignment.
// On any error, there is no alignment, not even a partial one.
func ReadFasta(rdr io.Reader, s_opts *Options) (*Alignment, error) {
	l := lexer{rdr: bufio.NewReaderSize(rdr, rdsize)}
	for state := gstart; state != nil; {
		state = state(&l)
	}
	if l.err != nil {
		return nil, l.err
	}
	return NewAlignment(l.seqs, s_opts)
}

// ParseAlignment reads an alignment from a string.
func ParseAlignment(text string, s_opts *Options) (*Alignment, error) {
	return ReadFasta(strings.NewReader(text), s_opts)
}

// Readfile takes a filename and reads sequences from it. An empty
// name or "-" means standard input. Files are memory mapped, which is
// quicker for the big alignments.
func Readfile(fname string, s_opts *Options) (*Alignment, error) {
	if fname == "" || fname == "-" {
		return ReadFasta(os.Stdin, s_opts)
	}
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 { // Cannot map an empty file
		return nil, &FormatError{Msg: "empty file " + fname}
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer mm.Unmap() // sequences are copied out, so this is safe

	return ReadFasta(bytes.NewReader(mm), s_opts)
}

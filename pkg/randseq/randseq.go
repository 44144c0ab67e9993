// 31 July 2020

// Package randseq writes random alignments in fasta format. They are
// used for testing and benchmarks, so a given seed always gives the
// same output.
package randseq

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
)

const (
	nPadWhite = 9 // For padding for adding whitespace to sequences
)

// RandSeqArgs is the set of arguments passed to the main function
type RandSeqArgs struct {
	Iseed int64     // random number seed
	Wrtr  io.Writer // where we write to
	Cmmt  string    // Comment for the sequences
	Nseq  int       // number of sequences
	Len   int       // Length of sequences
	NoGap bool      // Do not add gaps
	NoWht bool      // Do not add white space
	MkErr bool      // Add an error, by changing a length
}

var aaLetters = []byte{'a', 'c', 'd', 'e', 'f', 'g',
	'h', 'i', 'k', 'l', 'm', 'n', 'p', 'q', 'r', 's', 't', 'v', 'w', 'y'}

// alphabet returns the letters to draw from. With gaps, each residue
// is four times as likely as a gap.
func alphabet(noGap bool) []byte {
	letters := append([]byte(nil), aaLetters...)
	if !noGap {
		letters = append(letters, letters...)
		letters = append(letters, letters...)
		letters = append(letters, '-')
	}
	return letters
}

// getseq returns a byte slice with a random sequence in it
func getseq(seqlen int, letters []byte, rnd *rand.Rand) []byte {
	space := seqlen + (seqlen / nPadWhite) // about 10% rubbish white space
	ret := make([]byte, seqlen, space)
	l := int32(len(letters))
	for i := 0; i < seqlen; i++ {
		ret[i] = letters[rnd.Int31n(l)]
	}
	return ret
}

// addInner is used by addspace to add a space or newline
func addInner(s []byte, n int, c byte, spacernd *rand.Rand) []byte {
	for i := 0; i < n; i++ {
		s = append(s, 0)
		pos := spacernd.Int31n(int32(len(s)))
		copy(s[pos+1:], s[pos:])
		s[pos] = c
	}
	return s
}

// addspace is given a byte array and adds white characters at random
// positions. We work out how much space is to be used. We flip a coin.
// Heads we don't add a newline. Tails we make about 1/9 of the spaces
// newlines.
func addspace(s []byte, spacernd *rand.Rand) []byte {
	toAdd := cap(s) - len(s)
	nNL := 0 // Number of new lines to add
	if spacernd.Int31n(2) == 0 {
		nNL = toAdd / 9
	}
	s = addInner(s, toAdd-nNL, ' ', spacernd)
	s = addInner(s, nNL, '\n', spacernd)
	return s
}

// writeseq takes a bytestring which is our sequence. It adds a comment
// and sends it out for writing. The output has comment lines
// "> something 1, > something 2..."
func writeseq(sChan <-chan []byte, args *RandSeqArgs, wg *sync.WaitGroup, err *error) {
	defer wg.Done()

	width := len(fmt.Sprintf("%d", args.Nseq))
	spacernd := rand.New(rand.NewSource(args.Iseed + 1))
	var i int
	for s := range sChan {
		i++
		if *err != nil {
			continue // drain the channel
		}
		if !args.NoWht {
			s = addspace(s, spacernd)
		}
		if _, e := fmt.Fprintf(args.Wrtr, "> %s_%0*d\n%s\n", args.Cmmt, width, i, s); e != nil {
			*err = e
		}
	}
}

// RandSeqMain writes random sequences to an io.Writer.
// If MkErr is set, the last sequence is one residue short.
func RandSeqMain(args *RandSeqArgs) error {
	var wg sync.WaitGroup
	var err error
	letters := alphabet(args.NoGap)
	rnd := rand.New(rand.NewSource(args.Iseed))
	sChan := make(chan []byte)
	wg.Add(1)
	go writeseq(sChan, args, &wg, &err)
	for i := 0; i < args.Nseq; i++ {
		s := getseq(args.Len, letters, rnd)
		if args.MkErr && i == args.Nseq-1 && len(s) > 0 {
			s = s[:len(s)-1]
		}
		sChan <- s
	}
	close(sChan)
	wg.Wait()
	return err
}

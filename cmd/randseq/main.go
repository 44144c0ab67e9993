// 31 July 2020

package main

import (
	"fmt"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/ezsea/seq_colour/pkg/randseq"
	. "github.com/ezsea/seq_colour/pkg/seq/common"
)

func main() {
	const iseed = "1637"
	var args randseq.RandSeqArgs
	var fname string

	app := kingpin.New("randseq", "Random sequences in fasta format for testing.")
	app.Flag("nogap", "do not put gaps in sequences").Short('g').BoolVar(&args.NoGap)
	app.Flag("nowhite", "do not put white space in sequences").Short('w').BoolVar(&args.NoWht)
	app.Flag("error", "provoke errors").Short('e').BoolVar(&args.MkErr)
	app.Flag("seed", "random number seed").Short('r').Default(iseed).Int64Var(&args.Iseed)
	app.Flag("comment", "comment for the sequences").Default("s").StringVar(&args.Cmmt)
	app.Arg("file", "output file, - for stdout").Required().StringVar(&fname)
	app.Arg("nseq", "number of sequences").Required().IntVar(&args.Nseq)
	app.Arg("length", "length of sequences").Required().IntVar(&args.Len)
	kingpin.MustParse(app.Parse(os.Args[1:]))
	if args.Nseq < 1 || args.Len < 1 {
		fmt.Fprintln(os.Stderr, "number and length of sequences must be positive")
		os.Exit(ExitUsageError)
	}

	fp, err := Create(fname)
	if err != nil {
		fmt.Fprintln(os.Stderr, "File for output:", err)
		os.Exit(ExitFailure)
	}
	args.Wrtr = fp
	if err = randseq.RandSeqMain(&args); err == nil {
		err = fp.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}

// 26 April 2020
// Read up a multiple sequence alignment and calculate the entropy
// per column.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/ezsea/seq_colour/pkg/config"
	"github.com/ezsea/seq_colour/pkg/entropy"
	. "github.com/ezsea/seq_colour/pkg/seq/common"
)

const long = `Do not just type type command name. It will wait on input from stdin.
Given no arguments, read and write from stdin / stdout.
Given one argument, read from the given file name, but write to stdout.
Given two arguments, read from the first one, write to the second.`

func main() {
	var flags entropy.CmdFlag
	var infile, outfile string
	var cfgFile, gapPolicy, norm, low, high string
	var workers, nsym int
	var verbose bool

	app := kingpin.New("entropy", "Per column entropy of a multiple sequence alignment, and colours for a structure viewer.\n"+long)
	app.Arg("infile", "alignment in fasta format, - for stdin").Default("-").StringVar(&infile)
	app.Arg("outfile", "csv output, - for stdout").Default("-").StringVar(&outfile)
	app.Flag("chimera", "filename to write chimera format to").Short('c').StringVar(&flags.Chimera)
	app.Flag("colours", "filename for one colour per residue").StringVar(&flags.Colours)
	app.Flag("freqs", "filename for symbol fractions per column").StringVar(&flags.Freqs)
	app.Flag("plot", "entropy plot, .png .svg or .pdf").StringVar(&flags.Plot)
	app.Flag("legend", "png of the colour ramp").StringVar(&flags.Legend)
	app.Flag("offset", "offset for numbering output, renumbering sites").Short('f').IntVar(&flags.Offset)
	app.Flag("ref", "reference sequence, check compatibility").Short('r').StringVar(&flags.RefSeq)
	app.Flag("squash", "only keep columns where the reference has a residue").Short('s').BoolVar(&flags.Squash)
	app.Flag("tree", "newick tree, used with --node").StringVar(&flags.Tree)
	app.Flag("node", "only use sequences of leaves below this node").StringVar(&flags.Node)
	app.Flag("allow-missing", "carry on if leaves have no sequence").BoolVar(&flags.AllowMissing)
	app.Flag("time", "print out timing information").Short('t').BoolVar(&flags.Time)
	app.Flag("config", "config file").StringVar(&cfgFile)
	app.Flag("gaps", "gap policy: total, ignore or char").Short('g').StringVar(&gapPolicy)
	app.Flag("norm", "normalisation: global or observed").StringVar(&norm)
	app.Flag("low", "colour for zero entropy, #rrggbb").StringVar(&low)
	app.Flag("high", "colour for maximum entropy, #rrggbb").StringVar(&high)
	app.Flag("workers", "goroutines for the calculation").IntVar(&workers)
	app.Flag("nsym", "num symbols, guessed by default, 4 for DNA").Short('n').IntVar(&nsym)
	app.Flag("verbose", "say more").Short('v').BoolVar(&verbose)
	kingpin.MustParse(app.Parse(os.Args[1:]))
	RegisterLoggers(verbose)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsageError)
	}
	if err = cfg.Override(gapPolicy, norm, low, high, workers, nsym); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsageError)
	}
	if cfg.File != "" {
		Info.Println("settings from", cfg.File)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = entropy.Mymain(ctx, &flags, cfg, infile, outfile)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}

// 15 March 2024

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/ezsea/seq_colour/pkg/asrinfo"
	"github.com/ezsea/seq_colour/pkg/config"
	. "github.com/ezsea/seq_colour/pkg/seq/common"
)

func main() {
	var flags asrinfo.CmdFlag
	var storefile, outfile, cfgFile, gapPolicy string
	var workers int
	var verbose bool

	app := kingpin.New("asrinfo", "Most probable ancestral residues and where they differ from a reference.")
	app.Arg("store", "ancestral state probabilities, json, may be zstd or gzip compressed").Required().StringVar(&storefile)
	app.Arg("outfile", "output, - for stdout").Default("-").StringVar(&outfile)
	app.Flag("node", "report on this node, may be repeated").Short('n').StringsVar(&flags.Nodes)
	app.Flag("clade", "information content of the leaves below this node, may be repeated").StringsVar(&flags.Clades)
	app.Flag("all", "important residues of every node").Short('a').BoolVar(&flags.All)
	app.Flag("refs", "fasta file of reference sequences, named by node").Short('r').StringVar(&flags.Refs)
	app.Flag("ref", "use this sequence from --refs for every node").StringVar(&flags.Ref)
	app.Flag("tree", "newick tree, needed for --clade").StringVar(&flags.Tree)
	app.Flag("aln", "alignment of the leaves, needed for --clade").StringVar(&flags.Aln)
	app.Flag("colours", "importance colours of a single node").StringVar(&flags.Colours)
	app.Flag("progress", "show progress").BoolVar(&flags.Progress)
	app.Flag("config", "config file").StringVar(&cfgFile)
	app.Flag("gaps", "gap policy for clades: total, ignore or char").Short('g').StringVar(&gapPolicy)
	app.Flag("workers", "goroutines for the calculation").IntVar(&workers)
	app.Flag("verbose", "say more").Short('v').BoolVar(&verbose)
	kingpin.MustParse(app.Parse(os.Args[1:]))
	RegisterLoggers(verbose)

	cfg, err := config.Load(cfgFile)
	if err == nil {
		err = cfg.Override(gapPolicy, "", "", "", workers, 0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsageError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = asrinfo.Mymain(ctx, &flags, cfg, storefile, outfile)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}

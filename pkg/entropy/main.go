// 27 april 2020
package entropy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/andrew-torda/matrix"

	"github.com/ezsea/seq_colour/pkg/clade"
	"github.com/ezsea/seq_colour/pkg/config"
	"github.com/ezsea/seq_colour/pkg/ramp"
	"github.com/ezsea/seq_colour/pkg/seq"
	. "github.com/ezsea/seq_colour/pkg/seq/common"
	"github.com/ezsea/seq_colour/pkg/squash"
)

// ntrpyargs is everything the writers need. All the slices have one
// entry per output position, which is an alignment column, or a residue
// of the reference if we squashed.
type ntrpyargs struct {
	entropy []float64         // sequence entropy
	gapfrac []float64         // fraction of gap entries in column
	compat  []float64         // compatibility of reference sequence
	frac    []float64         // position along the colour ramp
	colours ramp.Colours      // one per position
	cols    []int             // alignment column of each position
	refseq  []byte            // nil or reference sequence
	offset  int               // residue number offset on output
	scale   ramp.Scale        // for the legend labels
	low     uint32            // colour at zero entropy
	high    uint32            // colour at the maximum
	usage   *matrix.FMatrix2d // symbol fractions, rows given by revmap
	revmap  []byte
}

// resnum is what we print for position i
func (args *ntrpyargs) resnum(i int) int { return i + 1 + args.offset }

type CmdFlag struct {
	Chimera      string // write output in format for chimera
	Colours      string // file for one colour per residue
	Freqs        string // csv of symbol fractions per column
	Plot         string // png (or svg, pdf) of the entropy profile
	Legend       string // png of the colour ramp
	Offset       int    // Add this to the residue numbering on output
	RefSeq       string // A reference seq, whose compatibility will be calculated
	Squash       bool   // only keep columns where the reference has a residue
	Tree         string // newick file. With Node, only use the leaves below Node
	Node         string
	AllowMissing bool // carry on if some leaves of the clade have no sequence
	Time         bool // do we want to print out run time ?
}

// cladeAln cuts the alignment down to the leaves under the node.
func cladeAln(flags *CmdFlag, aln *seq.Alignment) (*seq.Alignment, error) {
	if flags.Node == "" {
		return nil, errors.New("a tree was given, but no node to take the clade from")
	}
	b, err := os.ReadFile(flags.Tree)
	if err != nil {
		return nil, fmt.Errorf("tree file: %w", err)
	}
	tree, err := clade.ParseNewick(string(b))
	if err != nil {
		return nil, fmt.Errorf("tree file %s: %w", flags.Tree, err)
	}
	sub, err := clade.Alignment(tree, flags.Node, aln)
	var merr *clade.MissingError
	switch {
	case err == nil:
	case errors.As(err, &merr) && flags.AllowMissing && sub != nil:
		Warn.Println(err)
	default:
		return nil, err
	}
	Info.Println("clade", flags.Node, "has", sub.NSeq(), "sequences")
	return sub, nil
}

// getScale picks the normalisation. For the global one, the alphabet
// size comes from the settings or is guessed from the alignment.
func getScale(cfg *config.Config, aln *seq.Alignment) ramp.Scale {
	if cfg.Norm == ramp.NormObserved {
		return ramp.Observed(aln.MaxEntropyCol(cfg.GapPolicy))
	}
	nsym := cfg.NSym
	if nsym == 0 {
		nsym = aln.GetLogBase(cfg.GapPolicy)
	}
	Info.Println("normalising by an alphabet of", nsym)
	return ramp.Global(seq.MaxEntropy(nsym, cfg.GapPolicy))
}

// project drops the columns where the reference has a gap.
func (args *ntrpyargs) project() error {
	mask := squash.Mask(args.refseq)
	var err error
	if args.entropy, err = squash.Project(args.entropy, mask); err != nil {
		return err
	}
	args.gapfrac, _ = squash.Project(args.gapfrac, mask)
	args.compat, _ = squash.Project(args.compat, mask)
	args.frac, _ = squash.Project(args.frac, mask)
	args.colours, _ = squash.Project(args.colours, mask)
	args.cols, _ = squash.Project(args.cols, mask)
	args.refseq, _ = squash.Project(args.refseq, mask)
	return nil
}

// Mymain is the main function for calculating entropy and writing to a
// file. cfg may be nil, which means the defaults.
func Mymain(ctx context.Context, flags *CmdFlag, cfg *config.Config, infile, outfile string) error {
	var err error
	if cfg == nil {
		cfg = config.Default()
	}
	if flags.Time {
		startTime := time.Now()
		end := func() { // Wrapping in a closure is helpful. Gives the right time.
			fmt.Fprintln(os.Stderr, "finished after", time.Since(startTime).Milliseconds(), "ms")
		}
		defer end()
	}
	if flags.Squash && flags.RefSeq == "" {
		return errors.New("squashing needs a reference sequence")
	}

	aln, err := seq.Readfile(infile, cfg.SeqOptions())
	if err != nil {
		return fmt.Errorf("Fail reading sequences: %w", err)
	}
	if flags.Tree != "" {
		if aln, err = cladeAln(flags, aln); err != nil {
			return err
		}
	}
	var args = &ntrpyargs{ // start setting up things to go
		offset: flags.Offset, // to the printing functions later
		low:    cfg.Low,
		high:   cfg.High,
	}
	if flags.RefSeq != "" {
		ndx, err := squash.FindRef(aln, flags.RefSeq)
		if err != nil {
			return err
		}
		args.refseq = aln.SeqSlc()[ndx].GetSeq()
		args.compat = aln.Compat(args.refseq)
	}
	if args.entropy, err = aln.ProfileContext(ctx, cfg.GapPolicy, cfg.Workers); err != nil {
		return err
	}
	args.gapfrac = aln.GapFrac()
	args.scale = getScale(cfg, aln)
	args.frac = ramp.Fractions(args.entropy, args.scale)
	args.colours = ramp.Map(args.entropy, cfg.Low, cfg.High, args.scale)
	args.cols = make([]int, len(args.entropy))
	for i := range args.cols {
		args.cols[i] = i
	}
	if flags.Freqs != "" {
		args.usage, args.revmap = aln.UsageFrac(cfg.GapPolicy)
	}
	if flags.Squash {
		if err = args.project(); err != nil {
			return err
		}
	}

	if err = writeNtrpy(outfile, args); err != nil {
		return err
	}
	writers := []struct {
		fname string
		f     func(string, *ntrpyargs) error
	}{
		{flags.Chimera, writeChimera},
		{flags.Colours, writeColours},
		{flags.Freqs, writeFreqs},
		{flags.Plot, writePlot},
		{flags.Legend, writeLegend},
	}
	for _, w := range writers {
		if w.fname == "" {
			continue
		}
		if err = w.f(w.fname, args); err != nil {
			return err
		}
	}
	return nil
}

// 15 March 2024

// Package asrinfo reports on ancestral state probabilities. For a node
// it gives the most probable residue at each site and flags the sites
// where this differs from a reference. For a clade it gives the
// information content of the descendants' alignment. It can also scan
// every node in a store.
package asrinfo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/ezsea/seq_colour/pkg/asr"
	"github.com/ezsea/seq_colour/pkg/clade"
	"github.com/ezsea/seq_colour/pkg/compare"
	"github.com/ezsea/seq_colour/pkg/config"
	"github.com/ezsea/seq_colour/pkg/ramp"
	"github.com/ezsea/seq_colour/pkg/seq"
	. "github.com/ezsea/seq_colour/pkg/seq/common"
	"github.com/ezsea/seq_colour/pkg/squash"
)

type CmdFlag struct {
	Nodes    []string // nodes whose probabilities are reported
	Clades   []string // nodes whose descendants are reported
	All      bool     // important residues of every node in the store
	Refs     string   // fasta file of reference sequences, found by node name
	Ref      string   // use this one sequence from Refs for every node
	Tree     string   // newick file, needed for Clades
	Aln      string   // alignment of the leaves, needed for Clades
	Colours  string   // importance colours, only with a single node
	Progress bool     // progress bar for All
}

// Table turns the node lists into comparison state.
func (flags *CmdFlag) Table() compare.Table {
	var t compare.Table
	for _, id := range flags.Nodes {
		if !t.Get(id).Node {
			t = t.ToggleNode(id)
		}
	}
	for _, id := range flags.Clades {
		if !t.Get(id).Descendants {
			t = t.ToggleDescendants(id)
		}
	}
	return t
}

// refSeqs finds the reference for a node.
type refSeqs struct {
	aln   *seq.Alignment
	fixed int // index of the sequence used for everything, or -1
}

func readRefs(flags *CmdFlag, cfg *config.Config) (*refSeqs, error) {
	if flags.Refs == "" {
		if flags.Ref != "" {
			return nil, errors.New("a reference name needs a file of references")
		}
		return &refSeqs{fixed: -1}, nil
	}
	opts := cfg.SeqOptions()
	opts.DiffLenSeq = true // nodes need not all be the same length
	aln, err := seq.Readfile(flags.Refs, opts)
	if err != nil {
		return nil, fmt.Errorf("reference sequences %s: %w", flags.Refs, err)
	}
	r := &refSeqs{aln: aln, fixed: -1}
	if flags.Ref != "" {
		if r.fixed, err = squash.FindRef(aln, flags.Ref); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// get returns nil if there is no reference for node.
func (r *refSeqs) get(node string) []byte {
	if r.aln == nil {
		return nil
	}
	ndx := r.fixed
	if ndx < 0 {
		if ndx = r.aln.FindID(node); ndx < 0 {
			return nil
		}
	}
	return r.aln.SeqSlc()[ndx].GetSeq()
}

// nodeReport writes the most probable symbol of each column. With a
// reference, important columns are marked with a star.
func nodeReport(w io.Writer, id string, m asr.Matrix, ref []byte) (asr.Residues, error) {
	var imp asr.Residues
	var err error
	if ref != nil {
		if imp, err = asr.ImportantResidues(m, ref); err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
	}
	fmt.Fprintln(w, "#", compare.NodeTitle(id))
	fmt.Fprintln(w, "# consensus", string(m.Consensus()))
	head := `"res num","most probable","prob"`
	if ref != nil {
		head += `,"ref","important"`
	}
	fmt.Fprintln(w, head)
	for i := 0; i < m.Width(); i++ {
		sym, p := m.MostProbable(i)
		fmt.Fprintf(w, "%d,%c,%.3f", i+1, sym, p)
		if ref != nil {
			mark := ""
			if imp.Contains(i) {
				mark = "*"
			}
			fmt.Fprintf(w, ",%c,%s", ref[i], mark)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return nil, err
		}
	}
	return imp, nil
}

// leaves holds what is needed for clade reports, read once.
type leaves struct {
	tree *clade.Tree
	aln  *seq.Alignment
}

func readLeaves(flags *CmdFlag, cfg *config.Config) (*leaves, error) {
	if flags.Tree == "" || flags.Aln == "" {
		return nil, errors.New("clades need both a tree and an alignment of the leaves")
	}
	b, err := os.ReadFile(flags.Tree)
	if err != nil {
		return nil, fmt.Errorf("tree file: %w", err)
	}
	tree, err := clade.ParseNewick(string(b))
	if err != nil {
		return nil, fmt.Errorf("tree file %s: %w", flags.Tree, err)
	}
	aln, err := seq.Readfile(flags.Aln, cfg.SeqOptions())
	if err != nil {
		return nil, fmt.Errorf("leaf alignment %s: %w", flags.Aln, err)
	}
	return &leaves{tree: tree, aln: aln}, nil
}

// cladeReport writes the information content of the alignment of the
// leaves below id. This is the maximum entropy for the alphabet less
// the entropy of the column. Missing leaves only give a warning.
func cladeReport(ctx context.Context, w io.Writer, id string, lv *leaves, cfg *config.Config) error {
	aln, err := clade.Alignment(lv.tree, id, lv.aln)
	if err != nil {
		var merr *clade.MissingError
		if !errors.As(err, &merr) || aln == nil {
			return err
		}
		Warn.Println(err)
	}
	profile, err := aln.ProfileContext(ctx, cfg.GapPolicy, cfg.Workers)
	if err != nil {
		return err
	}
	nsym := cfg.NSym
	if nsym == 0 {
		nsym = aln.GetLogBase(cfg.GapPolicy)
	}
	max := seq.MaxEntropy(nsym, cfg.GapPolicy)
	fmt.Fprintln(w, "#", compare.CladeTitle(id))
	fmt.Fprintf(w, "# %d sequences\n", aln.NSeq())
	fmt.Fprintln(w, `"res num","information"`)
	for i, h := range profile {
		if _, err := fmt.Fprintf(w, "%d,%.3f\n", i+1, max-h); err != nil {
			return err
		}
	}
	return nil
}

// scanResult is one line of the scan over all nodes
type scanResult struct {
	node  string
	width int
	imp   asr.Residues
	ref   bool // false if there was no reference for the node
}

// scanAll looks for important residues in every node that has a
// reference. Results come back in node order.
func scanAll(ctx context.Context, store *asr.Store, refs *refSeqs, workers int, progress bool) ([]scanResult, error) {
	nodes := store.Nodes()
	res := make([]scanResult, len(nodes))
	bar := pb.New(len(nodes))
	bar.Output = os.Stderr
	bar.NotPrint = !progress
	bar.Start()
	defer bar.Finish()

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, node := range nodes {
		g.Go(func() error {
			defer bar.Increment()
			if err := ctx.Err(); err != nil {
				return err
			}
			m, _ := store.Lookup(node)
			res[i] = scanResult{node: node, width: m.Width()}
			ref := refs.get(node)
			if ref == nil {
				return nil
			}
			imp, err := asr.ImportantResidues(m, ref)
			if err != nil {
				return fmt.Errorf("node %s: %w", node, err)
			}
			res[i].imp, res[i].ref = imp, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// writeScan prints the columns counting from one.
func writeScan(w io.Writer, res []scanResult) error {
	fmt.Fprintln(w, `"node","width","n important","important"`)
	nref := 0
	for _, r := range res {
		if !r.ref {
			continue
		}
		nref++
		cols := make([]string, len(r.imp))
		for i, c := range r.imp {
			cols[i] = strconv.Itoa(c + 1)
		}
		if _, err := fmt.Fprintf(w, "%s,%d,%d,\"%s\"\n", r.node, r.width, len(r.imp), strings.Join(cols, " ")); err != nil {
			return err
		}
	}
	Info.Println(nref, "of", len(res), "nodes had a reference")
	return nil
}

// writeColours writes the importance colours of one node.
func writeColours(fname string, width int, imp asr.Residues) error {
	fp, err := Create(fname)
	if err != nil {
		return fmt.Errorf("colour file %s: %w", fname, err)
	}
	w := bufio.NewWriter(fp)
	for i, c := range ramp.Importance(width, imp) {
		fmt.Fprintf(w, "%d\t%s\n", i+1, ramp.Hex(c))
	}
	if err = w.Flush(); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

// Mymain loads the store and writes the reports asked for in flags.
// cfg may be nil for the defaults.
func Mymain(ctx context.Context, flags *CmdFlag, cfg *config.Config, storefile, outfile string) error {
	if cfg == nil {
		cfg = config.Default()
	}
	tbl := flags.Table()
	if tbl.Len() == 0 && !flags.All {
		return errors.New("nothing to do, give some nodes, clades or ask for all")
	}
	if flags.Colours != "" && len(flags.Nodes) != 1 {
		return errors.New("colours can only be written for a single node")
	}
	store, err := asr.Readfile(storefile)
	if err != nil {
		return err
	}
	Info.Println("loaded", store.Len(), "nodes from", storefile)
	refs, err := readRefs(flags, cfg)
	if err != nil {
		return err
	}
	var lv *leaves
	if len(flags.Clades) > 0 {
		if lv, err = readLeaves(flags, cfg); err != nil {
			return err
		}
	}

	fp, err := Create(outfile)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fp)
	if err = report(ctx, w, tbl, flags, cfg, store, refs, lv); err != nil {
		fp.Close()
		return err
	}
	if err = w.Flush(); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

func report(ctx context.Context, w io.Writer, tbl compare.Table, flags *CmdFlag,
	cfg *config.Config, store *asr.Store, refs *refSeqs, lv *leaves) error {
	for _, id := range tbl.Nodes() {
		s := tbl.Get(id)
		if s.Node {
			m, ok := store.Lookup(id)
			if !ok {
				return fmt.Errorf("node %s is not in the store", id)
			}
			ref := refs.get(id)
			if flags.Colours != "" && ref == nil {
				return fmt.Errorf("colours for %s need a reference", id)
			}
			imp, err := nodeReport(w, id, m, ref)
			if err != nil {
				return err
			}
			if flags.Colours != "" {
				if err = writeColours(flags.Colours, m.Width(), imp); err != nil {
					return err
				}
			}
		}
		if s.Descendants {
			if err := cladeReport(ctx, w, id, lv, cfg); err != nil {
				return err
			}
		}
	}
	if flags.All {
		res, err := scanAll(ctx, store, refs, cfg.Workers, flags.Progress)
		if err != nil {
			return err
		}
		return writeScan(w, res)
	}
	return nil
}

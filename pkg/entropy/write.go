package entropy

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/ezsea/seq_colour/pkg/ramp"
	. "github.com/ezsea/seq_colour/pkg/seq/common"
)

// wrtAtt writes an array of numbers to an open file pointer in the format
// wanted by chimera for attributes.
func wrtAtt(fp io.Writer, attname string, tmpNums []float64, offset int) error {
	head := "\nattribute: " + attname + "\nmatch mode: 1-to-1\nrecipient: residues"
	fmt.Fprintln(fp, "#", time.Now().Format(time.RFC1123), head)
	for i, v := range tmpNums {
		rnum := i + 1 + offset
		if _, err := fmt.Fprintf(fp, "\t:%d\t%#g\n", rnum, v); err != nil {
			return err
		}
	}
	return nil
}

// presentMin is where a column stops being interesting
const presentMin = 0.6

// interesting is a hack, but useful. If a residue is present at least
// 60 % of the time, save its entropy. If it is not present so often,
// set interesting value to 0.5
func interesting(entropy, present []float64) []float64 {
	tmpnum := make([]float64, len(entropy))
	for i, h := range entropy {
		if present[i] >= presentMin {
			tmpnum[i] = h
		} else {
			tmpnum[i] = 0.5
		}
	}
	return tmpnum
}

// present is 1 - fraction of gaps. For plotting, this is nicer.
func (args *ntrpyargs) present() []float64 {
	tmpnum := make([]float64, len(args.gapfrac))
	for i, v := range args.gapfrac {
		tmpnum[i] = 1 - v
	}
	return tmpnum
}

// withFile opens fname (or stdout for "-"), calls f on a buffered
// writer and makes sure everything is flushed and closed.
func withFile(fname, what string, f func(w io.Writer) error) error {
	fp, err := Create(fname)
	if err != nil {
		return fmt.Errorf("%s file %v: %w", what, fname, err)
	}
	w := bufio.NewWriter(fp)
	if err = f(w); err != nil {
		fp.Close()
		return fmt.Errorf("writing %s file %v: %w", what, fname, err)
	}
	if err = w.Flush(); err != nil {
		fp.Close()
		return fmt.Errorf("writing %s file %v: %w", what, fname, err)
	}
	return fp.Close()
}

// writeChimera writes the entropy information in a form suitable
// for reading in chimera as an attribute file
func writeChimera(fname string, args *ntrpyargs) error {
	return withFile(fname, "chimera", func(fp io.Writer) error {
		if err := wrtAtt(fp, "entropy", args.entropy, args.offset); err != nil {
			return err
		}
		present := args.present()
		if err := wrtAtt(fp, "present", present, args.offset); err != nil {
			return err
		}
		if err := wrtAtt(fp, "interesting", interesting(args.entropy, present), args.offset); err != nil {
			return err
		}
		return wrtAtt(fp, "ramp", args.frac, args.offset)
	})
}

// writeNtrpy write a simple entropy file. If there is no filename or the
// filename is "-", write to standard output.
func writeNtrpy(outfile string, args *ntrpyargs) error {
	headings1 := `"res num","entropy","%frac non-gap","colour"`
	if args.refseq != nil {
		headings1 += `,"res name","compatibility"`
	}
	return withFile(outfile, "output", func(fp io.Writer) error {
		fmt.Fprintln(fp, headings1)
		for i, v := range args.entropy {
			fmt.Fprintf(fp, "%d,%.3f,%.2f,%s", args.resnum(i), v, 1-args.gapfrac[i], ramp.Hex(args.colours[i]))
			if args.refseq != nil {
				fmt.Fprintf(fp, ",%c,%.2f", args.refseq[i], args.compat[i])
			}
			if _, err := fmt.Fprintln(fp); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeColours writes a residue number and a colour on each line.
func writeColours(fname string, args *ntrpyargs) error {
	return withFile(fname, "colour", func(fp io.Writer) error {
		fmt.Fprintf(fp, "# %s to %s, %s normalisation\n",
			ramp.Hex(args.low), ramp.Hex(args.high), args.scale.Norm)
		for i, c := range args.colours {
			if _, err := fmt.Fprintf(fp, "%d\t%s\n", args.resnum(i), ramp.Hex(c)); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeFreqs writes the fraction of each symbol at each position. The
// gap column is always the fraction of sequences with a gap.
func writeFreqs(fname string, args *ntrpyargs) error {
	return withFile(fname, "frequency", func(fp io.Writer) error {
		fmt.Fprint(fp, `"res num"`)
		for _, c := range args.revmap {
			fmt.Fprintf(fp, `,"%c"`, c)
		}
		fmt.Fprintln(fp)
		for i, icol := range args.cols {
			fmt.Fprintf(fp, "%d", args.resnum(i))
			for irow := range args.revmap {
				fmt.Fprintf(fp, ",%.3f", args.usage.Mat[irow][icol])
			}
			if _, err := fmt.Fprintln(fp); err != nil {
				return err
			}
		}
		return nil
	})
}

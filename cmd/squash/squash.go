// 29 April 2020
// Squash an alignment using some specified sequence as a reference.

package main

import (
	"fmt"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	. "github.com/ezsea/seq_colour/pkg/seq/common"
	"github.com/ezsea/seq_colour/pkg/squash"
)

func main() {
	var seqstring, infile, outfile string
	app := kingpin.New("squash", "Remove the columns of an alignment where a reference has a gap.")
	app.Arg("name", "reference, part of its comment or its number counting from 1").Required().StringVar(&seqstring)
	app.Arg("infile", "alignment, - for stdin").Default("-").StringVar(&infile)
	app.Arg("outfile", "output, - for stdout").Default("-").StringVar(&outfile)
	kingpin.MustParse(app.Parse(os.Args[1:]))
	if err := squash.Mymain(seqstring, infile, outfile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}

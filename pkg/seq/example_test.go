// 20 April 2020

package seq_test

import (
	"fmt"
	"log"

	. "github.com/ezsea/seq_colour/pkg/seq"
)

var set1 = `>s1
ACDaae
>s2
CCD-af
> s3
CCQaag`

// printFrac prints one row per symbol, one column per site
func printFrac(aln *Alignment, policy GapPolicy) {
	frac, revmap := aln.UsageFrac(policy)
	for i, c := range revmap {
		fmt.Printf("%c ", c)
		for _, f := range frac.Mat[i] {
			fmt.Printf("%6.2f", f)
		}
		fmt.Println()
	}
}

func ExampleAlignment_Profile() {
	aln, err := ParseAlignment(">A\nMKV\n>B\nMKL\n>C\nMKV\n", nil)
	if err != nil {
		log.Fatal(err)
	}
	for i, h := range aln.Profile(GapsInTotal) {
		fmt.Printf("%d %.3f\n", i, h)
	}
	// Output:
	// 0 0.000
	// 1 0.000
	// 2 0.918
}

func ExampleAlignment_UsageFrac() {
	aln, err := ParseAlignment(set1, nil)
	if err != nil {
		log.Fatal(err)
	}
	printFrac(aln, GapsIgnored)
	// Output:
	// -   0.00  0.00  0.00  0.33  0.00  0.00
	// A   0.33  0.00  0.00  1.00  1.00  0.00
	// C   0.67  1.00  0.00  0.00  0.00  0.00
	// D   0.00  0.00  0.67  0.00  0.00  0.00
	// E   0.00  0.00  0.00  0.00  0.00  0.33
	// F   0.00  0.00  0.00  0.00  0.00  0.33
	// G   0.00  0.00  0.00  0.00  0.00  0.33
	// Q   0.00  0.00  0.33  0.00  0.00  0.00
}

func ExampleGapsInTotal() {
	aln, err := ParseAlignment(set1, nil)
	if err != nil {
		log.Fatal(err)
	}
	printFrac(aln, GapsInTotal)
	// Output:
	// -   0.00  0.00  0.00  0.33  0.00  0.00
	// A   0.33  0.00  0.00  0.67  1.00  0.00
	// C   0.67  1.00  0.00  0.00  0.00  0.00
	// D   0.00  0.00  0.67  0.00  0.00  0.00
	// E   0.00  0.00  0.00  0.00  0.00  0.33
	// F   0.00  0.00  0.00  0.00  0.00  0.33
	// G   0.00  0.00  0.00  0.00  0.00  0.33
	// Q   0.00  0.00  0.33  0.00  0.00  0.00
}

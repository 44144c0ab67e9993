// 6 Apr 2020
// seqcalc does simple, common calculations on an alignment.
// The functions have to live in this package, since they
// need access to the internals of a sequence

package seq

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/andrew-torda/matrix"
	. "github.com/ezsea/seq_colour/pkg/seq/common"
	"golang.org/x/sync/errgroup"
)

// GapPolicy says what happens to gaps when we count symbols in a column.
type GapPolicy byte

const (
	// GapsInTotal leaves gaps out of the alphabet, but a gap row still
	// counts in the denominator. A column that is half gaps has its
	// residue probabilities summing to 0.5.
	GapsInTotal GapPolicy = iota
	// GapsIgnored drops gap rows completely, so probabilities are
	// fractions of the residues present.
	GapsIgnored
	// GapsAreChar treats the gap as one more symbol.
	GapsAreChar
)

var gapPolicyNames = []string{"total", "ignore", "char"}

func (p GapPolicy) String() string {
	if int(p) < len(gapPolicyNames) {
		return gapPolicyNames[p]
	}
	return fmt.Sprintf("GapPolicy(%d)", p)
}

// ParseGapPolicy goes from the names used in config files and flags
// ("total", "ignore", "char") to a GapPolicy.
func ParseGapPolicy(s string) (GapPolicy, error) {
	for i, n := range gapPolicyNames {
		if s == n {
			return GapPolicy(i), nil
		}
	}
	return GapsInTotal, fmt.Errorf("unknown gap policy \"%s\", want one of %v", s, gapPolicyNames)
}

// ColDist is the tally of symbols in one alignment column.
// Symbols are upper case. Gaps have their own bucket. Total is the
// denominator for probabilities, which depends on the gap policy.
type ColDist struct {
	Counts [MaxSym]int32
	Gap    int
	Total  int
}

// Count returns the number of times c (either case) was seen.
func (d *ColDist) Count(c byte) int {
	c = upper(c)
	if c >= MaxSym {
		return 0
	}
	return int(d.Counts[c])
}

// NSym is the number of different symbols with a nonzero count.
func (d *ColDist) NSym() int {
	n := 0
	for _, c := range d.Counts {
		if c != 0 {
			n++
		}
	}
	return n
}

// Symbols returns the symbols seen, in byte order.
func (d *ColDist) Symbols() []byte {
	var r []byte
	for i, c := range d.Counts {
		if c != 0 {
			r = append(r, byte(i))
		}
	}
	return r
}

// ColumnDist counts symbols in column icol.
func (aln *Alignment) ColumnDist(icol int, policy GapPolicy) ColDist {
	var d ColDist
	for _, s := range aln.seqs {
		c := upper(s.seq[icol])
		if IsGap(c) {
			d.Gap++
			continue
		}
		d.Counts[c]++
	}
	nseq := len(aln.seqs)
	switch policy {
	case GapsIgnored:
		d.Total = nseq - d.Gap
	case GapsAreChar:
		d.Counts[GapChar] += int32(d.Gap)
		d.Total = nseq
	default:
		d.Total = nseq
	}
	return d
}

// Entropy is the Shannon entropy in bits of a column.
// Zero probability terms are skipped. With one symbol or an empty
// column, we return exactly zero rather than something calculated.
func Entropy(d ColDist) float64 {
	if d.Total == 0 || d.NSym() <= 1 {
		return 0
	}
	total := float64(d.Total)
	var h float64
	for _, n := range d.Counts {
		if n == 0 {
			continue
		}
		p := float64(n) / total
		h -= p * math.Log2(p)
	}
	return h
}

// Profile is the entropy for each column of an alignment.
type Profile []float64

// Profile calculates the entropy of every column, in order.
func (aln *Alignment) Profile(policy GapPolicy) Profile {
	p := make(Profile, aln.GetLen())
	aln.profileRange(policy, p, 0, len(p))
	return p
}

// profileRange fills in columns [start, end). Each column is
// independent, so disjoint ranges can be done at the same time.
func (aln *Alignment) profileRange(policy GapPolicy, p Profile, start, end int) {
	for icol := start; icol < end; icol++ {
		p[icol] = Entropy(aln.ColumnDist(icol, policy))
	}
}

const minBlock = 256 // columns per goroutine, below this it is not worth it

// ProfileContext is the parallel version of Profile. Columns are split
// into blocks and handed to at most nworker goroutines. nworker <= 0
// means one per CPU. The result is identical to Profile. If ctx is
// cancelled, we return the error and no profile.
func (aln *Alignment) ProfileContext(ctx context.Context, policy GapPolicy, nworker int) (Profile, error) {
	if nworker <= 0 {
		nworker = runtime.NumCPU()
	}
	width := aln.GetLen()
	p := make(Profile, width)
	block := (width + nworker - 1) / nworker
	if block < minBlock {
		block = minBlock
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(nworker)
	for start := 0; start < width; start += block {
		start, end := start, min(start+block, width)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			aln.profileRange(policy, p, start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil { // cancelled after the last block started
		return nil, err
	}
	return p, nil
}

// MaxEntropy is the biggest entropy a column can have. k symbols share
// the non-gap fraction s of the column evenly, so it is
// s log2(k) - s log2(s). With no gaps in the total, s is 1 and this is
// log2(k).
func (d *ColDist) MaxEntropy() float64 {
	k := d.NSym()
	if d.Total == 0 || k <= 1 {
		return 0
	}
	var n int32
	for _, c := range d.Counts {
		n += c
	}
	s := float64(n) / float64(d.Total)
	return s*math.Log2(float64(k)) - s*math.Log2(s)
}

// MaxEntropyCol is the biggest entropy each column could have, given the
// symbols and gaps it has. This is what one needs to normalise by the
// observed alphabet.
func (aln *Alignment) MaxEntropyCol(policy GapPolicy) []float64 {
	m := make([]float64, aln.GetLen())
	for icol := range m {
		d := aln.ColumnDist(icol, policy)
		m[icol] = d.MaxEntropy()
	}
	return m
}

// MaxEntropy is the biggest entropy any column can have with an
// alphabet of nsym symbols. Usually log2(nsym), but when gaps count in
// the total and nsym < e, a column with some gaps beats a full one.
// The peak is at a non-gap fraction of nsym/e, which gives nsym
// log2(e)/e.
func MaxEntropy(nsym int, policy GapPolicy) float64 {
	if nsym <= 1 {
		return 0
	}
	n := float64(nsym)
	max := math.Log2(n)
	if policy == GapsInTotal && n < math.E {
		max = n * math.Log2E / math.E
	}
	return max
}

// GapFrac returns the fraction of gap characters at each position.
func (aln *Alignment) GapFrac() []float64 {
	gf := make([]float64, aln.GetLen())
	nseq := float64(aln.NSeq())
	for _, s := range aln.seqs {
		for i, c := range s.seq {
			if IsGap(c) {
				gf[i]++
			}
		}
	}
	for i := range gf {
		gf[i] /= nseq
	}
	return gf
}

// UsageSite counts how many of each symbol appear at each site in the
// alignment. Rows of the matrix are symbols, given by revmap, so
// counts.Mat[i][icol] is the count of revmap[i] at icol. Gaps are
// folded into GapChar.
// We store it as float32, since it will usually be normalised.
func (aln *Alignment) UsageSite() (counts *matrix.FMatrix2d, revmap []byte) {
	var used [MaxSym]bool
	for _, s := range aln.seqs {
		for _, c := range s.seq {
			c = upper(c)
			if IsGap(c) {
				c = GapChar
			}
			used[c] = true
		}
	}
	var mapping [MaxSym]uint8
	for i, u := range used {
		if u {
			mapping[i] = uint8(len(revmap))
			revmap = append(revmap, byte(i))
		}
	}
	counts = matrix.NewFMatrix2d(len(revmap), aln.GetLen())
	for _, s := range aln.seqs {
		for icol, c := range s.seq {
			c = upper(c)
			if IsGap(c) {
				c = GapChar
			}
			counts.Mat[mapping[c]][icol]++
		}
	}
	return counts, revmap
}

// UsageFrac is UsageSite with counts converted to fractions, using the
// same denominator as ColumnDist for the gap policy. Under GapsInTotal
// and GapsIgnored the gap row is the fraction of gaps in the column.
func (aln *Alignment) UsageFrac(policy GapPolicy) (*matrix.FMatrix2d, []byte) {
	counts, revmap := aln.UsageSite()
	nrow, ncol := counts.Size()
	gaprow := -1
	for i, c := range revmap {
		if c == GapChar {
			gaprow = i
		}
	}
	nseq := float32(aln.NSeq())
	for icol := 0; icol < ncol; icol++ {
		total := nseq
		if policy == GapsIgnored && gaprow >= 0 {
			total -= counts.Mat[gaprow][icol]
		}
		for irow := 0; irow < nrow; irow++ {
			switch {
			case irow == gaprow:
				counts.Mat[irow][icol] /= nseq
			case total != 0:
				counts.Mat[irow][icol] /= total
			}
		}
	}
	return counts, revmap
}

// GetType looks at the symbols used and returns its best guess
// as to the type of alignment.
// It is not cached, so the alignment stays read-only.
func (aln *Alignment) GetType() SeqType {
	var used [MaxSym]bool
	for _, s := range aln.seqs {
		for _, c := range s.seq {
			used[upper(c)] = true
		}
	}
	return guessType(&used)
}

func guessType(used *[MaxSym]bool) SeqType {
	protType := []byte{
		'D', 'E', 'F', 'H', 'I', 'K', 'L', 'M',
		'N', 'P', 'Q', 'R', 'S', 'V', 'W', 'Y'}
	for _, c := range protType { // If we see an amino acid code,
		if used[c] { //          just return protein type.
			return Protein
		}
	}
	if used['T'] && used['U'] {
		return Ntide
	}
	if used['A'] && used['C'] && used['G'] && !used['T'] && !used['U'] {
		return Ntide
	}
	if used['T'] {
		return DNA
	}
	if used['U'] {
		return RNA
	}
	return Unknown
}

// GetLogBase returns the size of the alphabet, which is where the
// maximum entropy comes from. For unknown sequence types, we count the
// symbols in use.
func (aln *Alignment) GetLogBase(policy GapPolicy) (nSym int) {
	extra := 0
	if policy == GapsAreChar {
		extra = 1
	}
	switch aln.GetType() {
	case DNA, RNA, Ntide:
		return 4 + extra
	case Protein:
		return 20 + extra
	}
	_, revmap := aln.UsageSite()
	for _, c := range revmap {
		if c != GapChar {
			nSym++
		}
	}
	return nSym + extra
}

// Compat takes one sequence (a reference). It returns the frequency of
// the reference residue at each position, amongst the other sequences.
// The reference itself is left out of the count.
func (aln *Alignment) Compat(refseq []byte) []float64 {
	compat := make([]float64, aln.GetLen())
	for i, c := range refseq {
		if i >= len(compat) || IsGap(c) {
			continue
		}
		d := aln.ColumnDist(i, GapsIgnored)
		nseq := d.Total
		if nseq <= 1 { // It means, we have a lonely insertion
			continue
		}
		compat[i] = float64(d.Count(c)-1) / float64(nseq-1)
	}
	return compat
}

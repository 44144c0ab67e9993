// 3 March 2024

// Package asr holds ancestral state reconstruction probabilities.
// For every internal node of a tree there is a matrix with one column
// per alignment position, giving the probability of each residue.
// A Store is built once from a compressed JSON payload and is never
// changed afterwards, so it can be read from many goroutines without
// locking.
package asr

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// canonical is the order we use to break ties, and the order symbols
// are kept within a column.
const canonical = "ACDEFGHIKLMNPQRSTVWY"

// rank gives the position of c in the tie breaking order. Symbols
// outside the twenty amino acids come afterwards, in byte order.
func rank(c byte) int {
	if i := strings.IndexByte(canonical, c); i >= 0 {
		return i
	}
	return len(canonical) + int(c)
}

// Prob is one symbol and its probability
type Prob struct {
	Sym byte
	P   float64
}

// Column is the distribution at one position, in canonical order.
type Column []Prob

// P returns the probability of sym, or zero if it is not there.
func (c Column) P(sym byte) float64 {
	for _, p := range c {
		if p.Sym == sym {
			return p.P
		}
	}
	return 0
}

// Matrix is the probability matrix for one node. It cannot be
// modified, so handing it out from a Store is safe.
type Matrix struct {
	cols []Column
}

// Width is the number of columns
func (m Matrix) Width() int { return len(m.cols) }

// Column returns a copy of column icol.
func (m Matrix) Column(icol int) Column { return slices.Clone(m.cols[icol]) }

// MostProbable returns the most likely symbol at icol. Ties go to the
// symbol that comes first in canonical order, so the answer never
// depends on map iteration or input order.
func (m Matrix) MostProbable(icol int) (byte, float64) {
	var best Prob
	for i, p := range m.cols[icol] { // already in canonical order
		if i == 0 || p.P > best.P {
			best = p
		}
	}
	return best.Sym, best.P
}

// Consensus is the most probable symbol in every column.
func (m Matrix) Consensus() []byte {
	s := make([]byte, len(m.cols))
	for i := range m.cols {
		s[i], _ = m.MostProbable(i)
	}
	return s
}

// State is Empty until a store has been successfully loaded. There is
// no way back.
type State byte

const (
	Empty State = iota
	Loaded
)

func (s State) String() string {
	if s == Loaded {
		return "loaded"
	}
	return "empty"
}

// Store maps node identifiers to their probabilities.
// The zero value is an empty store.
type Store struct {
	nodes map[string]Matrix
}

// State says if anything has been loaded.
func (s *Store) State() State {
	if s == nil || s.nodes == nil {
		return Empty
	}
	return Loaded
}

// Lookup finds a node by its exact name. Plenty of nodes have no
// reconstruction, so not finding one is normal and just returns false.
func (s *Store) Lookup(id string) (Matrix, bool) {
	if s == nil {
		return Matrix{}, false
	}
	m, ok := s.nodes[id]
	return m, ok
}

// Len is the number of nodes
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.nodes)
}

// Nodes returns the node names, sorted.
func (s *Store) Nodes() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.nodes))
	for n := range s.nodes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Residues is a sorted set of alignment columns, counting from zero.
type Residues []int

// Contains reports whether icol is in the set.
func (r Residues) Contains(icol int) bool {
	_, found := slices.BinarySearch(r, icol)
	return found
}

// ImportantResidues compares the most probable symbol of each column
// against a reference sequence and returns the columns where they
// differ. Case is ignored. The reference must be as long as the
// matrix is wide.
func ImportantResidues(m Matrix, ref []byte) (Residues, error) {
	if len(ref) != m.Width() {
		return nil, &FormatError{Column: -1,
			Msg: fmt.Sprintf("reference length %d but matrix width %d", len(ref), m.Width())}
	}
	var r Residues
	for i, c := range ref {
		sym, _ := m.MostProbable(i)
		if upper(c) != sym {
			r = append(r, i)
		}
	}
	return r, nil
}

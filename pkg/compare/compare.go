// Package compare keeps track of which tree nodes have been picked for
// comparison. A node can have its reconstructed sequence compared, its
// descendants compared, or both.
// A Table is never changed. Every update returns a new Table, so one
// can be handed to another goroutine or kept as an undo step.
package compare

import "sort"

// State is what has been asked for one node
type State struct {
	Node        bool // compare the ancestral state probabilities
	Descendants bool // compare the alignment of the leaves below
}

// Table maps node names to their State. The zero value is empty and
// ready to use.
type Table struct {
	m map[string]State
}

// Get returns the state of a node. Nodes never mentioned have the zero
// State.
func (t Table) Get(id string) State { return t.m[id] }

// Len is the number of nodes with something switched on.
func (t Table) Len() int { return len(t.m) }

// With returns a copy of t with id set to s. Setting the zero State
// removes the node.
func (t Table) With(id string, s State) Table {
	m := make(map[string]State, len(t.m)+1)
	for k, v := range t.m {
		m[k] = v
	}
	if s == (State{}) {
		delete(m, id)
	} else {
		m[id] = s
	}
	return Table{m: m}
}

// ToggleNode switches the ancestral state comparison of id.
func (t Table) ToggleNode(id string) Table {
	s := t.Get(id)
	s.Node = !s.Node
	return t.With(id, s)
}

// ToggleDescendants switches the descendant comparison of id.
func (t Table) ToggleDescendants(id string) Table {
	s := t.Get(id)
	s.Descendants = !s.Descendants
	return t.With(id, s)
}

// TogglePair is for a branch. If either end is being compared, both
// are removed. Otherwise both are added.
func (t Table) TogglePair(a, b string) Table {
	sa, sb := t.Get(a), t.Get(b)
	on := !(sa.Node || sb.Node)
	sa.Node, sb.Node = on, on
	return t.With(a, sa).With(b, sb)
}

// Nodes returns the names of nodes with anything switched on, sorted.
func (t Table) Nodes() []string {
	names := make([]string, 0, len(t.m))
	for k := range t.m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// NodeTitle and CladeTitle are the headings used for the logo of each
// kind of comparison.
func NodeTitle(id string) string { return "ASR Probability Logo for " + id }

func CladeTitle(id string) string { return "Information Logo of Clade " + id }

// Titles lists the logos to be drawn, in node order, ancestral state
// before clade for the same node.
func (t Table) Titles() []string {
	var titles []string
	for _, id := range t.Nodes() {
		s := t.m[id]
		if s.Node {
			titles = append(titles, NodeTitle(id))
		}
		if s.Descendants {
			titles = append(titles, CladeTitle(id))
		}
	}
	return titles
}

// Colour is the name of the colour a node is drawn with in a tree, or
// "" for the default.
func (t Table) Colour(id string) string {
	s := t.Get(id)
	switch {
	case s.Node:
		return "red"
	case s.Descendants:
		return "green"
	}
	return ""
}

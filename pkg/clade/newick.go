// 20 March 2024

// Package clade reads just enough of a Newick tree to know which
// leaves sit under each node, and builds the alignment of those
// leaves so a clade can be given its own entropy profile.
package clade

import (
	"fmt"
	"strconv"
	"strings"
)

// Node is one node of the tree. Leaves have no children.
type Node struct {
	Name     string
	Length   float64 // branch length, 0 if not given
	Children []*Node
}

// IsLeaf says if the node is terminal
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Leaves returns the names of the leaves below n, in the order they
// appear in the tree. A leaf returns itself.
func (n *Node) Leaves() []string {
	var names []string
	var walk func(*Node)
	walk = func(m *Node) {
		if m.IsLeaf() {
			names = append(names, m.Name)
			return
		}
		for _, c := range m.Children {
			walk(c)
		}
	}
	walk(n)
	return names
}

// Tree holds the root and an index by name.
type Tree struct {
	Root   *Node
	byName map[string]*Node
}

// Find looks up a node by name. If a name is used twice, the first one
// in the file wins.
func (t *Tree) Find(name string) (*Node, bool) {
	n, ok := t.byName[name]
	return n, ok
}

// Internal returns the names of the named internal nodes, root first.
func (t *Tree) Internal() []string {
	var names []string
	var walk func(*Node)
	walk = func(m *Node) {
		if m.IsLeaf() {
			return
		}
		if m.Name != "" {
			names = append(names, m.Name)
		}
		for _, c := range m.Children {
			walk(c)
		}
	}
	walk(t.Root)
	return names
}

// ParseError says where a Newick string went wrong
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("newick: %s at byte %d", e.Msg, e.Pos)
}

type parser struct {
	s   string
	pos int
}

func (p *parser) fail(format string, a ...any) error {
	return &ParseError{Pos: p.pos, Msg: fmt.Sprintf(format, a...)}
}

// skip jumps over white space and [comments].
func (p *parser) skip() error {
	for p.pos < len(p.s) {
		switch c := p.s[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '[':
			end := strings.IndexByte(p.s[p.pos:], ']')
			if end < 0 {
				return p.fail("unterminated comment")
			}
			p.pos += end + 1
		default:
			return nil
		}
	}
	return nil
}

func (p *parser) peek() byte {
	if p.pos < len(p.s) {
		return p.s[p.pos]
	}
	return 0
}

const special = "(),:;[ \t\n\r"

// label reads a quoted or plain name. It may be empty.
func (p *parser) label() (string, error) {
	if err := p.skip(); err != nil {
		return "", err
	}
	if p.peek() != '\'' {
		start := p.pos
		for p.pos < len(p.s) && !strings.ContainsRune(special, rune(p.s[p.pos])) {
			p.pos++
		}
		return p.s[start:p.pos], nil
	}
	var sb strings.Builder
	for p.pos++; p.pos < len(p.s); p.pos++ {
		c := p.s[p.pos]
		if c != '\'' {
			sb.WriteByte(c)
			continue
		}
		if p.pos+1 < len(p.s) && p.s[p.pos+1] == '\'' { // '' is a quote
			sb.WriteByte('\'')
			p.pos++
			continue
		}
		p.pos++
		return sb.String(), nil
	}
	return "", p.fail("unterminated quoted label")
}

// length reads an optional ":number"
func (p *parser) length() (float64, error) {
	if err := p.skip(); err != nil {
		return 0, err
	}
	if p.peek() != ':' {
		return 0, nil
	}
	p.pos++
	if err := p.skip(); err != nil {
		return 0, err
	}
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune(special, rune(p.s[p.pos])) {
		p.pos++
	}
	x, err := strconv.ParseFloat(p.s[start:p.pos], 64)
	if err != nil {
		return 0, &ParseError{Pos: start, Msg: "bad branch length " + strconv.Quote(p.s[start:p.pos])}
	}
	return x, nil
}

// subtree reads a leaf or a bracketed list of subtrees, then the label
// and branch length.
func (p *parser) subtree(depth int) (*Node, error) {
	const maxDepth = 10000
	if depth > maxDepth {
		return nil, p.fail("tree nested too deeply")
	}
	if err := p.skip(); err != nil {
		return nil, err
	}
	n := &Node{}
	if p.peek() == '(' {
		p.pos++
		for {
			child, err := p.subtree(depth + 1)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
			if err := p.skip(); err != nil {
				return nil, err
			}
			c := p.peek()
			if c == ')' {
				p.pos++
				break
			}
			if c != ',' {
				return nil, p.fail("expected , or ) but found %q", c)
			}
			p.pos++
		}
	}
	var err error
	if n.Name, err = p.label(); err != nil {
		return nil, err
	}
	if n.Length, err = p.length(); err != nil {
		return nil, err
	}
	return n, nil
}

// ParseNewick reads one tree. The final ";" is optional.
func ParseNewick(s string) (*Tree, error) {
	p := parser{s: s}
	if err := p.skip(); err != nil {
		return nil, err
	}
	if p.pos == len(s) {
		return nil, p.fail("empty tree")
	}
	root, err := p.subtree(0)
	if err != nil {
		return nil, err
	}
	if err := p.skip(); err != nil {
		return nil, err
	}
	if p.peek() == ';' {
		p.pos++
		if err := p.skip(); err != nil {
			return nil, err
		}
	}
	if p.pos != len(s) {
		return nil, p.fail("junk after end of tree")
	}
	t := &Tree{Root: root, byName: make(map[string]*Node)}
	var index func(*Node)
	index = func(n *Node) {
		if _, seen := t.byName[n.Name]; n.Name != "" && !seen {
			t.byName[n.Name] = n
		}
		for _, c := range n.Children {
			index(c)
		}
	}
	index(root)
	return t, nil
}

package clade

import (
	"fmt"
	"strings"

	"github.com/ezsea/seq_colour/pkg/seq"
)

// MissingError lists leaves under a node that have no sequence.
type MissingError struct {
	Node  string
	Names []string
}

func (e *MissingError) Error() string {
	const maxShow = 10
	names := e.Names
	more := ""
	if len(names) > maxShow {
		names, more = names[:maxShow], fmt.Sprintf(" and %d more", len(e.Names)-maxShow)
	}
	return fmt.Sprintf("missing sequences for %d leaves under %s: %s%s",
		len(e.Names), e.Node, strings.Join(names, ", "), more)
}

// Alignment collects the sequences of the leaves below node, in tree
// order, from an alignment of all leaves. Sequences are matched on the
// first word of the comment.
// If some leaves have no sequence, the alignment of the others comes
// back together with a *MissingError, so the caller can warn and carry
// on. If none are found, there is no alignment.
func Alignment(t *Tree, node string, leafAln *seq.Alignment) (*seq.Alignment, error) {
	n, ok := t.Find(node)
	if !ok {
		return nil, fmt.Errorf("clade: no node called %q in tree", node)
	}
	var seqs []seq.Seq
	var missing []string
	all := leafAln.SeqSlc()
	for _, name := range n.Leaves() {
		ndx := leafAln.FindID(name)
		if ndx < 0 {
			missing = append(missing, name)
			continue
		}
		seqs = append(seqs, seq.NewSeq(name, all[ndx].GetSeq()))
	}
	var merr error
	if len(missing) > 0 {
		merr = &MissingError{Node: node, Names: missing}
	}
	if len(seqs) == 0 {
		return nil, merr
	}
	aln, err := seq.NewAlignment(seqs, nil)
	if err != nil {
		return nil, err
	}
	return aln, merr
}

package clade_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ezsea/seq_colour/pkg/clade"
	"github.com/ezsea/seq_colour/pkg/seq"
)

const tree = `((A:0.1,B:0.2)N2:0.05,(C:0.3,('D x':0.1,E)N4)N3:0.2)N1;`

func TestParse(t *testing.T) {
	tr, err := clade.ParseNewick(tree)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Root.Name != "N1" || len(tr.Root.Children) != 2 {
		t.Fatal("root", tr.Root.Name, len(tr.Root.Children))
	}
	cases := map[string][]string{
		"N1": {"A", "B", "C", "D x", "E"},
		"N2": {"A", "B"},
		"N3": {"C", "D x", "E"},
		"N4": {"D x", "E"},
		"C":  {"C"},
	}
	for node, want := range cases {
		n, ok := tr.Find(node)
		if !ok {
			t.Fatal("could not find", node)
		}
		if diff := cmp.Diff(want, n.Leaves()); diff != "" {
			t.Error(node, diff)
		}
	}
	if diff := cmp.Diff([]string{"N1", "N2", "N3", "N4"}, tr.Internal()); diff != "" {
		t.Error(diff)
	}
	if n, _ := tr.Find("B"); n.Length != 0.2 {
		t.Error("branch length", n.Length)
	}
	if _, ok := tr.Find("N9"); ok {
		t.Error("found a node that is not there")
	}
}

func TestParseOddities(t *testing.T) {
	good := []string{
		"A;",
		"A",
		" ( A , B ) ; ",
		"(A[a comment],B)root;",
		"('it''s',B);",
		"(,);",
		"((A,B),C);\n",
	}
	for _, s := range good {
		if _, err := clade.ParseNewick(s); err != nil {
			t.Errorf("%q: %v", s, err)
		}
	}
	tr, _ := clade.ParseNewick("('it''s',B);")
	if _, ok := tr.Find("it's"); !ok {
		t.Error("quoted quote")
	}
	bad := []string{"", "   ", "(A,B", "(A,B));", "(A:x,B);", "(A,B)C;D", "('A,B);", "(A[,B);"}
	for _, s := range bad {
		_, err := clade.ParseNewick(s)
		var perr *clade.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("%q: wanted ParseError, got %v", s, err)
		}
	}
}

func TestAlignment(t *testing.T) {
	tr, err := clade.ParseNewick(tree)
	if err != nil {
		t.Fatal(err)
	}
	leaves, err := seq.ParseAlignment(">A\nMKV\n>B first\nMKL\n>E\nMRV\n>C\nMKI\n", nil)
	if err != nil {
		t.Fatal(err)
	}
	aln, err := clade.Alignment(tr, "N2", leaves)
	if err != nil {
		t.Fatal(err)
	}
	if aln.NSeq() != 2 || string(aln.SeqSlc()[1].GetSeq()) != "MKL" {
		t.Fatal("N2 alignment", aln.SeqSlc())
	}

	aln, err = clade.Alignment(tr, "N3", leaves)
	var merr *clade.MissingError
	if !errors.As(err, &merr) {
		t.Fatal("wanted MissingError, got", err)
	}
	if diff := cmp.Diff([]string{"D x"}, merr.Names); diff != "" {
		t.Error(diff)
	}
	if aln == nil || aln.NSeq() != 2 {
		t.Fatal("should still get C and E")
	}
	if ids := aln.SeqSlc()[0].ID() + aln.SeqSlc()[1].ID(); ids != "CE" {
		t.Error("tree order lost", ids)
	}

	none, _ := seq.ParseAlignment(">Z\nMKV\n", nil)
	aln, err = clade.Alignment(tr, "N4", none)
	if aln != nil || !errors.As(err, &merr) || len(merr.Names) != 2 {
		t.Fatal("no sequences at all", aln, err)
	}
	if _, err = clade.Alignment(tr, "N99", leaves); err == nil {
		t.Fatal("missing node accepted")
	}
}

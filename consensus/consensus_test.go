// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package consensus_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/js-arias/treesplit/consensus"
	"github.com/js-arias/treesplit/internal/treetest"
	"github.com/js-arias/treesplit/split"
	"github.com/js-arias/treesplit/splitdist"
	"github.com/js-arias/treesplit/taxa"
	"github.com/js-arias/treesplit/tree"
)

func TestRoundTrip(t *testing.T) {
	tests := map[string]struct {
		tree   string
		rooted bool
	}{
		"unrooted": {"(A,(B,C),((D,E),(F,G)));", false},
		"rooted":   {"((A,(B,C)),((D,E),(F,G)));", true},
		"star":     {"(A,B,C,D,E,F,G);", false},
	}

	for name, test := range tests {
		ns := taxa.New("A", "B", "C", "D", "E", "F", "G")
		tr := treetest.MustEncode(t, ns, name, test.tree, test.rooted)
		d := splitdist.New(ns)
		if err := d.Add(tr); err != nil {
			t.Fatalf("%s: unable to add tree: %v", name, err)
		}

		ct, err := consensus.Tree(d, 0, false)
		if err != nil {
			t.Fatalf("%s: unable to build consensus: %v", name, err)
		}
		if ct.IsRooted() != test.rooted {
			t.Errorf("%s: rooted: got %v, want %v", name, ct.IsRooted(), test.rooted)
		}
		got := treetest.Splits(ct)
		want := treetest.Splits(tr)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s: splits: got %v, want %v", name, got, want)
		}
	}
}

func TestDeterminism(t *testing.T) {
	ns := taxa.New("A", "B", "C", "D", "E", "F")
	var trees []string
	for i := 0; i < 5; i++ {
		trees = append(trees, "((A,B),(C,D),(E,F));")
	}
	for i := 0; i < 4; i++ {
		trees = append(trees, "((A,B),((C,D),E),F);")
	}
	trees = append(trees, "((A,C),(B,E),(D,F));")

	d1 := newDist(t, ns, trees)
	rev := make([]string, 0, len(trees))
	for i := len(trees) - 1; i >= 0; i-- {
		rev = append(rev, trees[i])
	}
	d2 := newDist(t, ns, rev)

	ab := split.New(0, 1)
	abef := split.New(0, 1, 4, 5)
	abcd := split.New(0, 1, 2, 3)
	for s, want := range map[split.Split]float64{ab: 0.9, abef: 0.9, abcd: 0.5} {
		if f := d1.Frequency(s); math.Abs(f-want) > 1e-12 {
			t.Errorf("split %s: frequency: got %.3f, want %.3f", ns.Label(s), f, want)
		}
	}

	c1, err := consensus.Tree(d1, consensus.Greedy, false)
	if err != nil {
		t.Fatalf("unable to build consensus: %v", err)
	}
	c2, err := consensus.Tree(d2, consensus.Greedy, false)
	if err != nil {
		t.Fatalf("unable to build consensus: %v", err)
	}
	if c1.Parenthetic() != c2.Parenthetic() {
		t.Errorf("greedy consensus: got %q and %q", c1.Parenthetic(), c2.Parenthetic())
	}

	want := treetest.Splits(treetest.MustEncode(t, ns, "want", "((A,B),(C,D),(E,F));", false))
	if got := treetest.Splits(c1); !reflect.DeepEqual(got, want) {
		t.Errorf("greedy consensus: got %v, want %v", got, want)
	}
	splits := c1.Splits()
	for s, want := range map[split.Split]float64{ab: 0.9, abef: 0.9, abcd: 0.5} {
		id, ok := splits[s]
		if !ok {
			t.Errorf("split %s: not found", ns.Label(s))
			continue
		}
		if sup, _ := c1.Support(id); math.Abs(sup-want) > 1e-12 {
			t.Errorf("split %s: support: got %.3f, want %.3f", ns.Label(s), sup, want)
		}
	}

	// the split E+F has a frequency of exactly 0.5
	mj, err := consensus.Majority(d1, false)
	if err != nil {
		t.Fatalf("unable to build consensus: %v", err)
	}
	want = treetest.Splits(treetest.MustEncode(t, ns, "want", "((A,B),(C,D),E,F);", false))
	if got := treetest.Splits(mj); !reflect.DeepEqual(got, want) {
		t.Errorf("majority consensus: got %v, want %v", got, want)
	}
}

func TestTieBreak(t *testing.T) {
	ns := taxa.New("A", "B", "C", "D")
	var trees []string
	for i := 0; i < 5; i++ {
		trees = append(trees, "(A,C,(B,D));", "(A,B,(C,D));")
	}

	rotated := append([]string{}, trees[1:]...)
	rotated = append(rotated, trees[0])
	for _, order := range [][]string{trees, rotated} {
		d := newDist(t, ns, order)
		ct, err := consensus.Tree(d, consensus.Greedy, false)
		if err != nil {
			t.Fatalf("unable to build consensus: %v", err)
		}

		// A+B has a lower value than A+C
		want := []string{"**.."}
		if got := treetest.Splits(ct); !reflect.DeepEqual(got, want) {
			t.Errorf("greedy consensus: got %v, want %v", got, want)
		}
	}
}

func TestEmpty(t *testing.T) {
	ns := taxa.New("A", "B", "C", "D")
	d := splitdist.New(ns)

	ct, err := consensus.Tree(d, consensus.Greedy, true)
	if err != nil {
		t.Fatalf("unable to build consensus: %v", err)
	}
	if ct.Len() != 5 {
		t.Errorf("nodes: got %d, want %d", ct.Len(), 5)
	}
	want := []string{"A", "B", "C", "D"}
	if got := treetest.Children(ct, ct.Root()); !reflect.DeepEqual(got, want) {
		t.Errorf("star tree: got %v, want %v", got, want)
	}
	for _, id := range ct.Nodes() {
		if l, ok := ct.Length(id); ok {
			t.Errorf("node %d: length %.3f, want undefined", id, l)
		}
	}
	if !ct.IsEncoded() {
		t.Errorf("consensus tree not encoded")
	}
}

func TestSmallNamespace(t *testing.T) {
	ns := taxa.New("A", "B")
	d := splitdist.New(ns)
	if _, err := consensus.Tree(d, consensus.Greedy, false); !errors.Is(err, tree.ErrPrecondition) {
		t.Errorf("two taxa: got error %v, want %v", err, tree.ErrPrecondition)
	}
}

func TestEdgeLengths(t *testing.T) {
	ns := taxa.New("A", "B", "C", "D")
	d := newDist(t, ns, []string{
		"(A:1,B:1,(C:1,D:1):2);",
		"(A:3,B:1,(C:1,D:1):4);",
		"(A,B,(C,D));",
	})

	ct, err := consensus.Tree(d, 0.5, true)
	if err != nil {
		t.Fatalf("unable to build consensus: %v", err)
	}
	splits := ct.Splits()
	cd := splits[split.New(0, 1)]
	if l, ok := ct.Length(cd); !ok || math.Abs(l-3) > 1e-12 {
		t.Errorf("edge C+D: length: got %.3f (%v), want %.3f", l, ok, 3.0)
	}
	a := splits[split.New(0)]
	if l, ok := ct.Length(a); !ok || math.Abs(l-2) > 1e-12 {
		t.Errorf("edge A: length: got %.3f (%v), want %.3f", l, ok, 2.0)
	}
	if sup, _ := ct.Support(a); sup != 1 {
		t.Errorf("edge A: support: got %.3f, want %.3f", sup, 1.0)
	}

	ct, err = consensus.Tree(d, 0.5, false)
	if err != nil {
		t.Fatalf("unable to build consensus: %v", err)
	}
	for _, id := range ct.Nodes() {
		if l, ok := ct.Length(id); ok {
			t.Errorf("without lengths: node %d: length %.3f, want undefined", id, l)
		}
	}

	// splits without length samples
	nd := newDist(t, ns, []string{"(A,B,(C,D));"})
	ct, err = consensus.Tree(nd, 0.5, true)
	if err != nil {
		t.Fatalf("unable to build consensus: %v", err)
	}
	for _, id := range ct.Nodes() {
		if l, ok := ct.Length(id); ok {
			t.Errorf("without samples: node %d: length %.3f, want undefined", id, l)
		}
	}
}

func TestAges(t *testing.T) {
	ns := taxa.New("A", "B", "C", "D")
	d := splitdist.New(ns)
	for i, age := range []float64{10, 20} {
		tr := treetest.MustEncode(t, ns, "t", "((A,B),(C,D));", true)
		tr.SetAge(tr.Root(), age+10)
		ab := tr.Splits()[split.New(0, 1)]
		tr.SetAge(ab, age)
		if err := d.Add(tr); err != nil {
			t.Fatalf("tree %d: unable to add tree: %v", i, err)
		}
	}

	ct, err := consensus.Tree(d, 0.5, true)
	if err != nil {
		t.Fatalf("unable to build consensus: %v", err)
	}
	if a, ok := ct.Age(ct.Root()); !ok || a != 25 {
		t.Errorf("root age: got %.3f (%v), want %.3f", a, ok, 25.0)
	}
	ab := ct.Splits()[split.New(0, 1)]
	if a, ok := ct.Age(ab); !ok || a != 15 {
		t.Errorf("node A+B age: got %.3f (%v), want %.3f", a, ok, 15.0)
	}
	cd := ct.Splits()[split.New(2, 3)]
	if a, ok := ct.Age(cd); ok {
		t.Errorf("node C+D age: got %.3f, want undefined", a)
	}
}

func newDist(t testing.TB, ns *taxa.Namespace, trees []string) *splitdist.Distribution {
	t.Helper()

	d := splitdist.New(ns)
	for _, s := range trees {
		tr := treetest.MustEncode(t, ns, "t", s, false)
		if err := d.Add(tr); err != nil {
			t.Fatalf("unable to add tree %q: %v", s, err)
		}
	}
	return d
}

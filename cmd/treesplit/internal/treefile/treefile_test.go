// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treefile_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/treesplit/cmd/treesplit/internal/treefile"
	"github.com/js-arias/treesplit/taxa"
	"github.com/js-arias/treesplit/tree"
)

func TestReadTimeTree(t *testing.T) {
	data := `# time calibrated phylogenetic tree
tree	node	parent	age	taxon
dinosaurs	0	-1	235000000
dinosaurs	1	0	233500000	Eoraptor lunensis
dinosaurs	2	0	170000000
dinosaurs	3	2	145000000	Ceratosaurus nasicornis
dinosaurs	4	2	71000000	Carnotaurus sastrei
`
	ns := taxa.New()
	trees, err := treefile.Read(strings.NewReader(data), "", "", ns)
	if err != nil {
		t.Fatalf("unable to read trees: %v", err)
	}
	testTrees(t, trees, ns)
}

func TestReadSplitFile(t *testing.T) {
	data := "# treesplit trees\n" +
		"tree\tnode\tparent\tlength\tage\tsupport\ttaxon\n" +
		"dinosaurs\t0\t-1\t\t235\t\t\n" +
		"dinosaurs\t1\t0\t1.5\t\t1\tEoraptor lunensis\n" +
		"dinosaurs\t2\t0\t0.5\t\t0.75\t\n" +
		"dinosaurs\t3\t2\t1\t\t1\tCeratosaurus nasicornis\n" +
		"dinosaurs\t4\t2\t1\t\t1\tCarnotaurus sastrei\n"

	ns := taxa.New()
	trees, err := treefile.Read(strings.NewReader(data), "-", "", ns)
	if err != nil {
		t.Fatalf("unable to read trees: %v", err)
	}
	testTrees(t, trees, ns)

	var w bytes.Buffer
	if err := treefile.Write(&w, "", trees...); err != nil {
		t.Fatalf("unable to write trees: %v", err)
	}
	nt, err := treefile.Read(strings.NewReader(w.String()), "", "", taxa.New())
	if err != nil {
		t.Fatalf("unable to read written trees: %v", err)
	}
	if got, want := nt[0].Parenthetic(), trees[0].Parenthetic(); got != want {
		t.Errorf("written tree: got %q, want %q", got, want)
	}
}

func testTrees(t testing.TB, trees []*tree.Tree, ns *taxa.Namespace) {
	t.Helper()

	if len(trees) != 1 {
		t.Fatalf("trees: got %d, want %d", len(trees), 1)
	}
	tr := trees[0]
	if tr.Name() != "dinosaurs" {
		t.Errorf("tree name: got %q, want %q", tr.Name(), "dinosaurs")
	}
	if tr.IsRooted() {
		t.Errorf("tree %q: read as rooted", tr.Name())
	}
	want := []string{"Carnotaurus sastrei", "Ceratosaurus nasicornis", "Eoraptor lunensis"}
	if got := tr.Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("terms: got %v, want %v", got, want)
	}
	if ns.Len() != 3 {
		t.Errorf("namespace: got %d taxa, want %d", ns.Len(), 3)
	}
	id, _ := tr.TaxNode("Eoraptor lunensis")
	if l, ok := tr.Length(id); !ok || l < 1.5-1e-9 || l > 1.5+1e-9 {
		t.Errorf("length: got %.6f, want %.6f", l, 1.5)
	}
}

func TestReadNewick(t *testing.T) {
	data := `((A,B),(C,D),E);
((A:0.0000004,B:1),(C,E),D);
`
	ns := taxa.New()
	trees, err := treefile.Read(strings.NewReader(data), "", "Sample", ns)
	if err != nil {
		t.Fatalf("unable to read trees: %v", err)
	}
	if len(trees) != 2 {
		t.Fatalf("trees: got %d, want %d", len(trees), 2)
	}
	if name := trees[1].Name(); name != "sample.1" {
		t.Errorf("tree name: got %q, want %q", name, "sample.1")
	}

	// edges without a length are undefined
	tr := trees[0]
	for _, id := range tr.Nodes() {
		if l, ok := tr.Length(id); ok {
			t.Errorf("tree %q: node %d: got length %.6f, want undefined", tr.Name(), id, l)
		}
		if a, ok := tr.Age(id); ok {
			t.Errorf("tree %q: node %d: got age %.6f, want undefined", tr.Name(), id, a)
		}
	}

	tr = trees[1]
	id, _ := tr.TaxNode("A")
	if l, ok := tr.Length(id); !ok || l != 0.0000004 {
		t.Errorf("tree %q: length: got %g (%v), want %g", tr.Name(), l, ok, 0.0000004)
	}
}

// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/treesplit/taxa"
	"github.com/js-arias/treesplit/tree"
)

func TestReadNewick(t *testing.T) {
	data := `[&U] ('Homo sapiens':1,Pan_troglodytes,(Gorilla:1, Pongo:1)0.5:0.5);
(Pongo,('Homo sapiens',Gorilla)[a comment],Pan_troglodytes);
`
	ns := taxa.New()
	trees, err := tree.ReadNewick(strings.NewReader(data), "Apes", ns)
	if err != nil {
		t.Fatalf("unable to read trees: %v", err)
	}
	if len(trees) != 2 {
		t.Fatalf("trees: got %d, want %d", len(trees), 2)
	}
	for i, name := range []string{"apes", "apes.1"} {
		if trees[i].Name() != name {
			t.Errorf("tree %d: name: got %q, want %q", i, trees[i].Name(), name)
		}
		if trees[i].IsRooted() {
			t.Errorf("tree %q: read as rooted", trees[i].Name())
		}
	}

	want := []string{"Gorilla", "Homo sapiens", "Pan troglodytes", "Pongo"}
	if got := trees[0].Terms(); !reflect.DeepEqual(got, want) {
		t.Errorf("terms: got %v, want %v", got, want)
	}
	if ns.Len() != 4 {
		t.Errorf("namespace: got %d taxa, want %d", ns.Len(), 4)
	}

	pt := "('Homo sapiens':1,'Pan troglodytes',(Gorilla:1,Pongo:1)0.50:0.5);"
	if got := trees[0].Parenthetic(); got != pt {
		t.Errorf("tree %q: got %q, want %q", trees[0].Name(), got, pt)
	}
	pt = "(Pongo,('Homo sapiens',Gorilla),'Pan troglodytes');"
	if got := trees[1].Parenthetic(); got != pt {
		t.Errorf("tree %q: got %q, want %q", trees[1].Name(), got, pt)
	}
}

func TestReadNewickErrors(t *testing.T) {
	tests := map[string]string{
		"empty":          "",
		"no tree":        "A;",
		"empty terminal": "(A,,B);",
		"bad length":     "(A,B:x,C);",
		"unclosed":       "(A,B,(C,D);",
		"no semicolon":   "(A,B,C)",
		"empty node":     "(A,(),B);",
	}

	for name, s := range tests {
		if _, err := tree.ReadNewick(strings.NewReader(s), "test", taxa.New()); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}

	if _, err := tree.ReadNewick(strings.NewReader("(A,B,C);"), " ", taxa.New()); err == nil {
		t.Errorf("undefined name: expecting error")
	}
}

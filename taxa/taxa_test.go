// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package taxa_test

import (
	"reflect"
	"testing"

	"github.com/js-arias/treesplit/split"
	"github.com/js-arias/treesplit/taxa"
)

func TestNamespace(t *testing.T) {
	ns := taxa.New("Acer platanoides", "Acer saccharinum", "Acer campbellii")

	if i := ns.Add("Acer  saccharinum "); i != 1 {
		t.Errorf("add: got index %d, want %d", i, 1)
	}
	if i := ns.Add("Acer erythranthum"); i != 3 {
		t.Errorf("add: got index %d, want %d", i, 3)
	}
	if ns.Len() != 4 {
		t.Errorf("len: got %d, want %d", ns.Len(), 4)
	}

	names := []string{"Acer platanoides", "Acer saccharinum", "Acer campbellii", "Acer erythranthum"}
	if got := ns.Names(); !reflect.DeepEqual(got, names) {
		t.Errorf("names: got %v, want %v", got, names)
	}
	for i, n := range names {
		if got := ns.Name(i); got != n {
			t.Errorf("name %d: got %q, want %q", i, got, n)
		}
		b, ok := ns.Bit(n)
		if !ok {
			t.Errorf("bit %q: not found", n)
		}
		if b != split.Bit(i) {
			t.Errorf("bit %q: got %s, want %s", n, b, split.Bit(i))
		}
	}
	if _, ok := ns.Index("Acer rubrum"); ok {
		t.Errorf("index %q: found", "Acer rubrum")
	}

	if all := ns.All(); all != split.New(0, 1, 2, 3) {
		t.Errorf("all: got %s, want %s", all, split.New(0, 1, 2, 3))
	}

	s := split.New(0, 2)
	if l := ns.Label(s); l != "*.*." {
		t.Errorf("label: got %q, want %q", l, "*.*.")
	}
	want := []string{"Acer platanoides", "Acer campbellii"}
	if got := ns.Taxa(s); !reflect.DeepEqual(got, want) {
		t.Errorf("taxa: got %v, want %v", got, want)
	}
}

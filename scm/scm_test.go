// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package scm_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/js-arias/treesplit/internal/treetest"
	"github.com/js-arias/treesplit/scm"
	"github.com/js-arias/treesplit/taxa"
	"github.com/js-arias/treesplit/tree"
)

func TestIdentity(t *testing.T) {
	tests := map[string]string{
		"resolved":    "(A,(B,C),((D,E),(F,G)));",
		"polytomy":    "(A,B,(C,D,E),(F,G));",
		"caterpillar": "(A,B,(C,(D,(E,(F,G)))));",
	}

	for name, s := range tests {
		ns := taxa.New("A", "B", "C", "D", "E", "F", "G")
		tr := treetest.MustEncode(t, ns, name, s, false)
		want := treetest.Splits(tr)

		m := tr.Clone()
		if err := scm.MergePair(m, tr.Clone(), scm.Strict); err != nil {
			t.Fatalf("%s: unable to merge: %v", name, err)
		}
		if got := treetest.Splits(m); !reflect.DeepEqual(got, want) {
			t.Errorf("%s: splits: got %v, want %v", name, got, want)
		}
		if got := m.Terms(); !reflect.DeepEqual(got, tr.Terms()) {
			t.Errorf("%s: terms: got %v, want %v", name, got, tr.Terms())
		}
	}
}

func TestPolytomy(t *testing.T) {
	ns := taxa.New("A", "B", "C", "D", "E", "F")
	m := treetest.MustBuild(t, ns, "t1", "(A,B,(C,D));")
	c := treetest.MustBuild(t, ns, "t2", "(A,B,(E,F));")

	if err := scm.MergePair(m, c, scm.Strict); err != nil {
		t.Fatalf("unable to merge: %v", err)
	}

	want := []string{"A", "B", "C", "D", "E", "F"}
	if got := treetest.Children(m, m.Root()); !reflect.DeepEqual(got, want) {
		t.Errorf("root children: got %v, want %v", got, want)
	}
	if got := treetest.Splits(m); len(got) != 0 {
		t.Errorf("splits: got %v, want none", got)
	}
}

func TestErrors(t *testing.T) {
	ns := taxa.New("A", "B", "C", "D", "E", "F")

	tests := map[string]struct {
		a, b string
		err  error
	}{
		"disjoint":   {"(A,B,C);", "(D,E,F);", scm.ErrInsufficientOverlap},
		"one shared": {"(A,B,C);", "(A,D,E);", scm.ErrInsufficientOverlap},
	}
	for name, test := range tests {
		a := treetest.MustBuild(t, ns, "a", test.a)
		b := treetest.MustBuild(t, ns, "b", test.b)
		if err := scm.MergePair(a, b, scm.Strict); !errors.Is(err, test.err) {
			t.Errorf("%s: got error %v, want %v", name, err, test.err)
		}
	}

	a := treetest.MustBuild(t, ns, "a", "(A,B,(C,D));")
	b := treetest.MustBuild(t, ns, "b", "((A,B),(C,D));")
	b.SetRooted(true)
	if _, err := scm.Merge([]*tree.Tree{a, b}, scm.Strict); !errors.Is(err, scm.ErrRootedUnsupported) {
		t.Errorf("rooted: got error %v, want %v", err, scm.ErrRootedUnsupported)
	}
	if err := scm.MergePair(b, a, scm.Strict); !errors.Is(err, scm.ErrRootedUnsupported) {
		t.Errorf("rooted: got error %v, want %v", err, scm.ErrRootedUnsupported)
	}

	if _, err := scm.Merge(nil, scm.Strict); !errors.Is(err, tree.ErrPrecondition) {
		t.Errorf("no trees: got error %v, want %v", err, tree.ErrPrecondition)
	}

	other := treetest.MustBuild(t, taxa.New("A", "B", "C", "D"), "other", "(A,B,(C,D));")
	if err := scm.MergePair(a, other, scm.Strict); !errors.Is(err, tree.ErrPrecondition) {
		t.Errorf("different namespace: got error %v, want %v", err, tree.ErrPrecondition)
	}
}

func TestMerge(t *testing.T) {
	tests := map[string]struct {
		a, b   string
		policy scm.Policy
		want   string
	}{
		"graft": {
			a:    "(A,B,((C,D),X));",
			b:    "(A,(B,Y),(C,D));",
			want: "(A,(B,Y),((C,D),X));",
		},
		"root subtree": {
			a:    "(A,B,(C,D));",
			b:    "(A,B,(C,D),(X,Y));",
			want: "(A,B,(C,D),(X,Y));",
		},
		"unshared resolution": {
			a:    "(A,(B,C),(D,X));",
			b:    "(A,(B,D),(C,Y));",
			want: "(A,B,(C,Y),(D,X));",
		},
		"partial resolution": {
			a:    "(A,B,(C,D,E));",
			b:    "(A,B,(C,(D,E)),X);",
			want: "(A,B,(C,D,E),X);",
		},
		"strict collision": {
			a:      "(A,B,((C,D),X));",
			b:      "(A,B,((C,D),Y));",
			policy: scm.Strict,
			want:   "(A,B,(C,D,X,Y));",
		},
		"supertree collision": {
			a:      "(A,B,((C,D),X));",
			b:      "(A,B,((C,D),Y));",
			policy: scm.Supertree,
			want:   "(A,B,(Y,(C,D,X)));",
		},
	}

	for name, test := range tests {
		ns := taxa.New("A", "B", "C", "D", "E", "X", "Y")
		a := treetest.MustBuild(t, ns, "a", test.a)
		b := treetest.MustBuild(t, ns, "b", test.b)
		want := treetest.MustEncode(t, ns, "want", test.want, false)

		m, err := scm.Merge([]*tree.Tree{a, b}, test.policy)
		if err != nil {
			t.Errorf("%s: unable to merge: %v", name, err)
			continue
		}
		if got := treetest.Splits(m); !reflect.DeepEqual(got, treetest.Splits(want)) {
			t.Errorf("%s: splits: got %v, want %v", name, got, treetest.Splits(want))
		}
		if got := m.Terms(); !reflect.DeepEqual(got, want.Terms()) {
			t.Errorf("%s: terms: got %v, want %v", name, got, want.Terms())
		}
		if !m.IsEncoded() || m.IsRooted() {
			t.Errorf("%s: merged tree should be encoded and unrooted", name)
		}

		// inputs are not modified
		if got := a.Parenthetic(); got != test.a {
			t.Errorf("%s: input tree modified: got %q, want %q", name, got, test.a)
		}
	}
}

func TestMergeOrder(t *testing.T) {
	ns := taxa.New("A", "B", "C", "D", "X", "Y")
	trees := []string{
		"(A,B,(C,D));",
		"(A,B,(C,D),X);",
		"(A,(B,Y),(C,D));",
	}
	orders := [][]int{
		{0, 1, 2},
		{2, 1, 0},
		{1, 2, 0},
	}

	var want []string
	for i, o := range orders {
		var ts []*tree.Tree
		for _, j := range o {
			ts = append(ts, treetest.MustBuild(t, ns, "t", trees[j]))
		}
		m, err := scm.Merge(ts, scm.Strict)
		if err != nil {
			t.Fatalf("order %v: unable to merge: %v", o, err)
		}
		got := treetest.Splits(m)
		if i == 0 {
			want = got
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("order %v: splits: got %v, want %v", o, got, want)
		}
	}

	exp := treetest.MustEncode(t, ns, "want", "(A,(B,Y),(C,D),X);", false)
	if !reflect.DeepEqual(want, treetest.Splits(exp)) {
		t.Errorf("merge: splits: got %v, want %v", want, treetest.Splits(exp))
	}
}

func TestPolicyString(t *testing.T) {
	if s := scm.Strict.String(); s != "strict" {
		t.Errorf("policy: got %q, want %q", s, "strict")
	}
	if s := scm.Supertree.String(); s != "supertree" {
		t.Errorf("policy: got %q, want %q", s, "supertree")
	}
}

// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package treetest implements helpers
// to build and compare trees in tests.
package treetest

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/js-arias/treesplit/split"
	"github.com/js-arias/treesplit/taxa"
	"github.com/js-arias/treesplit/tree"
)

// Build builds an unrooted tree
// from a parenthetical string,
// for example "(A,B,(C:1.5,D):0.5);".
// The string must have a single tree.
// The tree is not encoded.
func Build(ns *taxa.Namespace, name, s string) (*tree.Tree, error) {
	trees, err := tree.ReadNewick(strings.NewReader(s), name, ns)
	if err != nil {
		return nil, err
	}
	if len(trees) != 1 {
		return nil, fmt.Errorf("tree %q: got %d trees, want 1", name, len(trees))
	}
	return trees[0], nil
}

// MustBuild is like Build,
// but it stops the test on error.
func MustBuild(tb testing.TB, ns *taxa.Namespace, name, s string) *tree.Tree {
	tb.Helper()

	t, err := Build(ns, name, s)
	if err != nil {
		tb.Fatalf("unable to build tree %q: %v", s, err)
	}
	return t
}

// MustEncode builds and encodes a tree,
// and stops the test on error.
func MustEncode(tb testing.TB, ns *taxa.Namespace, name, s string, rooted bool) *tree.Tree {
	tb.Helper()

	t := MustBuild(tb, ns, name, s)
	if _, err := tree.Encode(t, rooted); err != nil {
		tb.Fatalf("unable to encode tree %q: %v", s, err)
	}
	return t
}

// Splits returns the labels of the non-trivial splits
// of an encoded tree,
// normalized if the tree is unrooted,
// sorted alphabetically.
func Splits(t *tree.Tree) []string {
	ns := t.Namespace()
	mask := t.Mask()
	var labels []string
	for s := range t.Splits() {
		if ok, err := split.IsTrivial(s, mask); err != nil || ok {
			continue
		}
		labels = append(labels, ns.Label(s))
	}
	slices.Sort(labels)
	return labels
}

// Children returns the taxon names
// of the terminal children of a node,
// sorted alphabetically.
func Children(t *tree.Tree, id int) []string {
	var names []string
	for _, c := range t.Children(id) {
		if t.IsTerm(c) {
			names = append(names, t.Taxon(c))
		}
	}
	slices.Sort(names)
	return names
}

// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"github.com/js-arias/timetree"
	"github.com/js-arias/treesplit/taxa"
)

// MillionYears is the unit used for ages
// and edge lengths of trees imported
// from time calibrated trees.
const MillionYears = 1_000_000

// FromTimeTree returns a new tree
// from a time calibrated tree.
// The taxa of the terminals are added
// to the namespace.
// Node ages,
// and edge lengths,
// are set in million years.
func FromTimeTree(tt *timetree.Tree, ns *taxa.Namespace, rooted bool) *Tree {
	t := New(tt.Name(), ns, rooted)
	r := tt.Root()
	t.SetAge(t.root, float64(tt.Age(r))/MillionYears)
	t.copyTimeNode(t.root, tt, r)
	return t
}

func (t *Tree) copyTimeNode(id int, tt *timetree.Tree, ttID int) {
	if tt.IsTerm(ttID) {
		t.nodes[id].taxon = t.ns.Add(tt.Taxon(ttID))
		return
	}

	pAge := tt.Age(ttID)
	for _, c := range tt.Children(ttID) {
		nID := t.newNode(id)
		t.nodes[id].children = append(t.nodes[id].children, nID)

		age := tt.Age(c)
		t.SetAge(nID, float64(age)/MillionYears)
		t.SetLength(nID, float64(pAge-age)/MillionYears)
		t.copyTimeNode(nID, tt, c)
	}
}

// FromCollection returns the trees
// of a collection of time calibrated trees,
// in the order of the tree names.
func FromCollection(c *timetree.Collection, ns *taxa.Namespace, rooted bool) []*Tree {
	names := c.Names()
	trees := make([]*Tree, 0, len(names))
	for _, tn := range names {
		tt := c.Tree(tn)
		if tt == nil {
			continue
		}
		trees = append(trees, FromTimeTree(tt, ns, rooted))
	}
	return trees
}

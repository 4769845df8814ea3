// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"slices"
)

// Any structural edit invalidates the split encoding
// of the tree.

// Add adds a new node as the last child
// of the given parent,
// and returns the ID of the new node.
// If taxon is not empty,
// it is added to the namespace of the tree
// and assigned to the new node.
func (t *Tree) Add(parent int, taxon string) (int, error) {
	p, err := t.mustNode(parent)
	if err != nil {
		return -1, err
	}

	id := t.newNode(parent)
	if taxon != "" {
		t.nodes[id].taxon = t.ns.Add(taxon)
	}
	p.children = append(p.children, id)
	t.invalidate()
	return id, nil
}

// AddChild moves a node,
// with all of its descendants,
// to be the last child of the given parent.
func (t *Tree) AddChild(parent, child int) error {
	p, err := t.mustNode(parent)
	if err != nil {
		return err
	}
	c, err := t.mustNode(child)
	if err != nil {
		return err
	}
	if child == t.root {
		return fmt.Errorf("tree %q: moving root node %d: %w", t.name, child, ErrPrecondition)
	}
	if t.IsAncestor(child, parent) {
		return fmt.Errorf("tree %q: node %d is descendant of node %d: %w", t.name, parent, child, ErrPrecondition)
	}

	t.detach(c)
	c.parent = p.id
	p.children = append(p.children, c.id)
	t.invalidate()
	return nil
}

// detach removes a node
// from the children of its parent.
func (t *Tree) detach(n *node) {
	p := t.node(n.parent)
	if p == nil {
		return
	}
	if i := slices.Index(p.children, n.id); i >= 0 {
		p.children = slices.Delete(p.children, i, i+1)
	}
	n.parent = -1
}

// RemoveChild removes a child,
// and all of its descendants,
// from the tree.
func (t *Tree) RemoveChild(parent, child int) error {
	c, err := t.mustNode(child)
	if err != nil {
		return err
	}
	if c.parent != parent {
		return fmt.Errorf("tree %q: node %d is not a child of %d: %w", t.name, child, parent, ErrPrecondition)
	}

	t.detach(c)
	for _, id := range t.preOrder(child, nil) {
		t.nodes[id] = nil
	}
	t.invalidate()
	return nil
}

// MoveFirst moves a node
// to be the first child of its parent.
func (t *Tree) MoveFirst(id int) error {
	n, err := t.mustNode(id)
	if err != nil {
		return err
	}
	p := t.node(n.parent)
	if p == nil {
		return nil
	}
	i := slices.Index(p.children, id)
	if i <= 0 {
		return nil
	}
	copy(p.children[1:i+1], p.children[:i])
	p.children[0] = id
	return nil
}

// Collapse collapses the edge that ends in the given node:
// the children of the node are moved to its parent,
// in the position of the node,
// and the node is removed.
// The length of the collapsed edge is discarded.
func (t *Tree) Collapse(id int) error {
	n, err := t.mustNode(id)
	if err != nil {
		return err
	}
	if id == t.root {
		return fmt.Errorf("tree %q: collapsing root node %d: %w", t.name, id, ErrPrecondition)
	}
	if len(n.children) == 0 {
		return fmt.Errorf("tree %q: collapsing terminal node %d: %w", t.name, id, ErrPrecondition)
	}

	t.splice(n)
	t.invalidate()
	return nil
}

// splice replaces a node with its children.
func (t *Tree) splice(n *node) {
	p := t.nodes[n.parent]
	i := slices.Index(p.children, n.id)
	p.children = slices.Replace(p.children, i, i+1, n.children...)
	for _, c := range n.children {
		t.nodes[c].parent = p.id
	}
	t.nodes[n.id] = nil
}

// CollapseClade removes all the internal nodes
// descendant from a node,
// so all the terminals of the clade
// become children of the node.
func (t *Tree) CollapseClade(id int) error {
	n, err := t.mustNode(id)
	if err != nil {
		return err
	}

	leaves := t.leaves(id, nil)
	if len(leaves) == 1 && leaves[0] == id {
		return nil
	}
	for _, d := range t.preOrder(id, nil) {
		if d == id || len(t.nodes[d].children) == 0 {
			continue
		}
		t.nodes[d] = nil
	}
	n.children = leaves
	for _, l := range leaves {
		t.nodes[l].parent = id
	}
	t.invalidate()
	return nil
}

// Reroot sets the given node as the root of the tree.
// The edges in the path between the node
// and the old root are reversed,
// keeping their lengths.
// The old parent of the node
// is added as its last child.
func (t *Tree) Reroot(id int) error {
	if _, err := t.mustNode(id); err != nil {
		return err
	}
	if id == t.root {
		return nil
	}

	var path []*node
	for n := t.nodes[id]; n != nil; n = t.node(n.parent) {
		path = append(path, n)
	}

	lens := make([]float64, len(path))
	has := make([]bool, len(path))
	for i := 1; i < len(path); i++ {
		lens[i] = path[i-1].length
		has[i] = path[i-1].hasLen
	}

	for i := len(path) - 1; i > 0; i-- {
		u, v := path[i], path[i-1]
		if j := slices.Index(u.children, v.id); j >= 0 {
			u.children = slices.Delete(u.children, j, j+1)
		}
		v.children = append(v.children, u.id)
		u.parent = v.id
		u.length, u.hasLen = lens[i], has[i]
	}
	nr := path[0]
	nr.parent = -1
	nr.length, nr.hasLen = 0, false
	t.root = nr.id
	t.invalidate()
	return nil
}

// Deroot removes the basal bifurcation of a tree.
// If the root has two children,
// the edge of the first non-terminal child is collapsed,
// and its length is added to the edge of its sibling.
// The tree is marked as unrooted.
func (t *Tree) Deroot() {
	t.SetRooted(false)

	r := t.nodes[t.root]
	if len(r.children) != 2 {
		return
	}

	i := 0
	if len(t.nodes[r.children[0]].children) == 0 {
		i = 1
	}
	c := t.nodes[r.children[i]]
	if len(c.children) == 0 {
		// two terminal tree
		return
	}
	sister := t.nodes[r.children[1-i]]
	sister.length, sister.hasLen = addLen(sister.length, sister.hasLen, c.length, c.hasLen)

	t.splice(c)
	t.invalidate()
}

// addLen adds two optional lengths.
func addLen(a float64, hasA bool, b float64, hasB bool) (float64, bool) {
	switch {
	case hasA && hasB:
		return a + b, true
	case hasA:
		return a, true
	case hasB:
		return b, true
	}
	return 0, false
}

// Graft copies a subtree from another tree,
// as a new child of the given parent.
// Both trees must share the same taxon namespace.
// It returns the ID of the copy
// of the subtree root.
func (t *Tree) Graft(parent int, src *Tree, srcID int) (int, error) {
	if src.ns != t.ns {
		return -1, fmt.Errorf("tree %q: grafting from tree %q: different namespace: %w", t.name, src.name, ErrPrecondition)
	}
	if _, err := t.mustNode(parent); err != nil {
		return -1, err
	}
	if _, err := src.mustNode(srcID); err != nil {
		return -1, err
	}

	id := t.graft(parent, src, srcID)
	t.invalidate()
	return id, nil
}

func (t *Tree) graft(parent int, src *Tree, srcID int) int {
	sn := src.nodes[srcID]
	id := t.newNode(parent)
	n := t.nodes[id]
	n.taxon = sn.taxon
	n.length, n.hasLen = sn.length, sn.hasLen
	n.age, n.hasAge = sn.age, sn.hasAge
	n.support, n.hasSup = sn.support, sn.hasSup
	t.nodes[parent].children = append(t.nodes[parent].children, id)

	for _, c := range sn.children {
		t.graft(id, src, c)
	}
	return id
}

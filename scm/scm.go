// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package scm implements the strict consensus merge
// of trees with overlapping,
// but not identical,
// sets of taxa.
//
// The merge of two trees keeps the groups
// of the shared taxa that are found in both trees,
// and adds the taxa found in only one of the trees
// at the positions in which they are found
// in their source tree.
package scm

import (
	"errors"
	"fmt"
	"slices"

	"github.com/js-arias/treesplit/split"
	"github.com/js-arias/treesplit/tree"
)

// Errors returned by a merge.
var (
	// ErrInsufficientOverlap is returned
	// if two trees share less than two taxa.
	ErrInsufficientOverlap = errors.New("insufficient taxon overlap")

	// ErrRootedUnsupported is returned
	// if a rooted tree is merged.
	ErrRootedUnsupported = errors.New("rooted trees unsupported")

	// ErrMalformedGroup is returned
	// if the edges with the same set of shared taxa
	// do not form a path in the tree.
	ErrMalformedGroup = errors.New("malformed split group")
)

// Policy is the way in which a collision is resolved.
// A collision happens when both trees
// have more than one edge
// with the same set of shared taxa.
type Policy int

// Valid merge policies.
const (
	// Strict collapses the edges of both trees
	// and attach all the unshared subtrees
	// to a single node.
	Strict Policy = iota

	// Supertree collapses the edges
	// of the modified tree,
	// but keeps the edges of the consumed tree.
	Supertree
)

// String returns the name of a policy.
func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Supertree:
		return "supertree"
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// Merge returns the strict consensus merge
// of a set of unrooted trees
// defined over the same taxon namespace.
// The trees are merged in order,
// so the first tree is merged with the second one,
// the result with the third,
// and so on.
// The order of the trees can change the result.
//
// The input trees are not modified.
func Merge(trees []*tree.Tree, p Policy) (*tree.Tree, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("scm: no trees to merge: %w", tree.ErrPrecondition)
	}
	for _, t := range trees {
		if t.IsRooted() {
			return nil, fmt.Errorf("scm: tree %q: %w", t.Name(), ErrRootedUnsupported)
		}
	}

	m := trees[0].Clone()
	if _, err := tree.Encode(m, false); err != nil {
		return nil, err
	}
	for _, t := range trees[1:] {
		if err := MergePair(m, t.Clone(), p); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MergePair merges toConsume into toModify.
//
// Both trees are modified:
// at the end toModify is the merged tree
// (encoded as unrooted),
// and toConsume is left with an undefined topology.
func MergePair(toModify, toConsume *tree.Tree, p Policy) error {
	if toModify.IsRooted() || toConsume.IsRooted() {
		return fmt.Errorf("scm: trees %q and %q: %w", toModify.Name(), toConsume.Name(), ErrRootedUnsupported)
	}
	if toModify.Namespace() != toConsume.Namespace() {
		return fmt.Errorf("scm: trees %q and %q: different taxon namespace: %w", toModify.Name(), toConsume.Name(), tree.ErrPrecondition)
	}
	if _, err := tree.Encode(toModify, false); err != nil {
		return err
	}
	if _, err := tree.Encode(toConsume, false); err != nil {
		return err
	}

	shared := toModify.LeafMask().And(toConsume.LeafMask())
	switch n := shared.Count(); {
	case n < 2:
		return fmt.Errorf("scm: trees %q and %q: %d shared taxa: %w", toModify.Name(), toConsume.Name(), n, ErrInsufficientOverlap)
	case n == 2:
		if err := polytomy(toModify, toConsume, shared); err != nil {
			return err
		}
	default:
		mg := &merger{
			shared: shared,
			policy: p,
		}
		if err := mg.merge(toModify, toConsume); err != nil {
			return err
		}
	}

	if _, err := tree.Encode(toModify, false); err != nil {
		return err
	}
	return nil
}

// polytomy merges two trees
// that share exactly two taxa.
// As no group of the shared taxa can be defined,
// both trees are collapsed
// and the unshared terminals of toConsume
// are added to the root of toModify.
func polytomy(toModify, toConsume *tree.Tree, shared split.Split) error {
	if err := toModify.CollapseClade(toModify.Root()); err != nil {
		return err
	}
	if err := toConsume.CollapseClade(toConsume.Root()); err != nil {
		return err
	}
	for _, id := range toConsume.Children(toConsume.Root()) {
		if tx, ok := toConsume.TaxonIndex(id); ok && shared.Has(tx) {
			continue
		}
		if _, err := toModify.Graft(toModify.Root(), toConsume, id); err != nil {
			return err
		}
	}
	return nil
}

// A merger merges two trees
// that share three or more taxa.
type merger struct {
	shared split.Split
	policy Policy

	mod  *side
	cons *side
}

// A side is one of the trees of a merge.
type side struct {
	t *tree.Tree

	// clades of the nodes
	// at the moment of the encoding
	clade map[int]split.Split

	// nodes with the same set of shared taxa,
	// sorted from the root to the tips
	groups map[split.Split][]int
}

func (mg *merger) merge(toModify, toConsume *tree.Tree) error {
	var err error
	mg.mod, err = mg.prepare(toModify)
	if err != nil {
		return err
	}
	mg.cons, err = mg.prepare(toConsume)
	if err != nil {
		return err
	}

	// keep only the groups found in both trees
	if err := discard(mg.mod, mg.cons); err != nil {
		return err
	}
	if err := discard(mg.cons, mg.mod); err != nil {
		return err
	}

	// subtrees without shared taxa
	// attached to the root of toConsume
	for _, id := range toConsume.Children(toConsume.Root()) {
		if mg.cons.clade[id].Overlaps(mg.shared) {
			continue
		}
		if _, err := toModify.Graft(toModify.Root(), toConsume, id); err != nil {
			return err
		}
	}

	keys := make([]split.Split, 0, len(mg.mod.groups))
	for k := range mg.mod.groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, split.Split.Compare)

	for _, k := range keys {
		mp := mg.mod.groups[k]
		cp := mg.cons.groups[k]

		switch {
		case len(cp) == 1:
			if err := mg.graftOff(mp[len(mp)-1], cp[0]); err != nil {
				return err
			}
		case len(mp) == 1:
			if err := mg.rebuild(mp[0], cp); err != nil {
				return err
			}
		default:
			top, err := mg.collapsePath(mp)
			if err != nil {
				return err
			}
			if mg.policy == Supertree {
				if err := mg.rebuild(top, cp); err != nil {
					return err
				}
				continue
			}
			for _, id := range cp {
				if err := mg.graftOff(top, id); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// prepare reroots a tree
// so the terminal of the lowest shared taxon
// is the first child of the root,
// and build the groups of the shared taxa.
func (mg *merger) prepare(t *tree.Tree) (*side, error) {
	ns := t.Namespace()
	anchor := mg.shared.LowestIndex()
	leaf, ok := t.TaxNode(ns.Name(anchor))
	if !ok {
		return nil, fmt.Errorf("scm: tree %q: taxon %q not found: %w", t.Name(), ns.Name(anchor), tree.ErrPrecondition)
	}
	if err := t.Reroot(t.Parent(leaf)); err != nil {
		return nil, err
	}
	if err := t.MoveFirst(leaf); err != nil {
		return nil, err
	}
	if _, err := tree.Encode(t, false); err != nil {
		return nil, err
	}

	s := &side{
		t:      t,
		clade:  make(map[int]split.Split, t.Len()),
		groups: make(map[split.Split][]int),
	}
	for _, id := range t.Nodes() {
		c, _ := t.Split(id)
		s.clade[id] = c
		if id == t.Root() {
			continue
		}
		k := c.And(mg.shared)
		if k.IsZero() || k == mg.shared {
			continue
		}
		s.groups[k] = append(s.groups[k], id)
	}

	for k, g := range s.groups {
		slices.SortFunc(g, func(a, b int) int {
			return s.clade[b].Compare(s.clade[a])
		})
		for i := 1; i < len(g); i++ {
			if t.Parent(g[i]) != g[i-1] {
				return nil, fmt.Errorf("scm: tree %q: group %s: node %d is not a child of %d: %w", t.Name(), ns.Label(k), g[i], g[i-1], ErrMalformedGroup)
			}
		}
	}
	return s, nil
}

// discard collapses the groups of a side
// that are not found in the other side.
func discard(s, other *side) error {
	for k, g := range s.groups {
		if _, ok := other.groups[k]; ok {
			continue
		}
		for _, id := range g {
			if s.t.IsTerm(id) {
				continue
			}
			if err := s.t.Collapse(id); err != nil {
				return err
			}
		}
		delete(s.groups, k)
	}
	return nil
}

// graftOff copies the children of a node of toConsume
// without shared taxa
// as children of a node of toModify.
func (mg *merger) graftOff(dst, src int) error {
	ct := mg.cons.t
	for _, c := range ct.Children(src) {
		if mg.cons.clade[c].Overlaps(mg.shared) {
			continue
		}
		if _, err := mg.mod.t.Graft(dst, ct, c); err != nil {
			return err
		}
	}
	return nil
}

// rebuild copies a path of toConsume
// above a node of toModify.
// Each node of the path,
// but the last one,
// is added as a new node,
// with the subtrees of its source node
// without shared taxa.
// The subtrees of the last node
// are copied into the given node.
func (mg *merger) rebuild(id int, path []int) error {
	mt := mg.mod.t
	ct := mg.cons.t

	parent := mt.Parent(id)
	for _, src := range path[:len(path)-1] {
		n, err := mt.Add(parent, "")
		if err != nil {
			return err
		}
		if l, ok := ct.Length(src); ok {
			mt.SetLength(n, l)
		}
		if err := mg.graftOff(n, src); err != nil {
			return err
		}
		parent = n
	}
	if err := mt.AddChild(parent, id); err != nil {
		return err
	}
	return mg.graftOff(id, path[len(path)-1])
}

// collapsePath collapses the internal nodes of a path
// of toModify into the first node of the path.
func (mg *merger) collapsePath(path []int) (int, error) {
	mt := mg.mod.t
	for _, id := range path[1:] {
		if mt.IsTerm(id) {
			continue
		}
		if err := mt.Collapse(id); err != nil {
			return -1, err
		}
	}
	return path[0], nil
}

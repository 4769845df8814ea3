// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree implements phylogenetic trees
// with taxa from a shared namespace,
// and the encoding of the tree edges
// as splits.
//
// Nodes are stored in an arena
// and addressed by an integer ID.
// Every node,
// except the root,
// owns the edge that connects it with its parent,
// so edge values
// (length, support, and split)
// are accessed with the ID of the head node
// of the edge.
package tree

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/js-arias/treesplit/split"
	"github.com/js-arias/treesplit/taxa"
)

// ErrPrecondition is returned when a tree,
// or an operation on a tree,
// is malformed.
var ErrPrecondition = errors.New("tree precondition violated")

type node struct {
	id       int
	parent   int
	children []int

	// index of the taxon in the namespace,
	// -1 if the node has no taxon.
	taxon int

	length float64
	hasLen bool

	age    float64
	hasAge bool

	support float64
	hasSup  bool

	split split.Split
}

// A Tree is a phylogenetic tree.
type Tree struct {
	name   string
	ns     *taxa.Namespace
	rooted bool

	root  int
	nodes []*node

	// splits of the last encoding,
	// nil if the tree is not encoded.
	splits map[split.Split]int
	mask   split.Split
}

// New creates a new tree with only a root node.
// The tree will use the indicated taxon namespace.
func New(name string, ns *taxa.Namespace, rooted bool) *Tree {
	t := &Tree{
		name:   name,
		ns:     ns,
		rooted: rooted,
	}
	t.root = t.newNode(-1)
	return t
}

func (t *Tree) newNode(parent int) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, &node{
		id:     id,
		parent: parent,
		taxon:  -1,
	})
	return id
}

func (t *Tree) node(id int) *node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return t.nodes[id]
}

func (t *Tree) mustNode(id int) (*node, error) {
	n := t.node(id)
	if n == nil {
		return nil, fmt.Errorf("tree %q: node %d: not found: %w", t.name, id, ErrPrecondition)
	}
	return n, nil
}

// invalidate marks the tree as not encoded.
func (t *Tree) invalidate() {
	t.splits = nil
}

// Name returns the name of the tree.
func (t *Tree) Name() string {
	return t.name
}

// SetName sets the name of the tree.
func (t *Tree) SetName(name string) {
	t.name = name
}

// Namespace returns the taxon namespace of the tree.
func (t *Tree) Namespace() *taxa.Namespace {
	return t.ns
}

// IsRooted returns true if the tree is rooted.
func (t *Tree) IsRooted() bool {
	return t.rooted
}

// SetRooted sets the rooting of the tree.
// Changing the rooting invalidates the split encoding.
func (t *Tree) SetRooted(rooted bool) {
	if rooted != t.rooted {
		t.invalidate()
	}
	t.rooted = rooted
}

// Root returns the ID of the root node.
func (t *Tree) Root() int {
	return t.root
}

// Parent returns the ID of the parent of a node.
// It returns -1 for the root
// or an invalid node.
func (t *Tree) Parent(id int) int {
	n := t.node(id)
	if n == nil {
		return -1
	}
	return n.parent
}

// Children returns the IDs of the children of a node.
func (t *Tree) Children(id int) []int {
	n := t.node(id)
	if n == nil {
		return nil
	}
	return slices.Clone(n.children)
}

// IsTerm returns true if the node is a terminal.
func (t *Tree) IsTerm(id int) bool {
	n := t.node(id)
	if n == nil {
		return false
	}
	return len(n.children) == 0
}

// Taxon returns the taxon name of a node.
func (t *Tree) Taxon(id int) string {
	n := t.node(id)
	if n == nil || n.taxon < 0 {
		return ""
	}
	return t.ns.Name(n.taxon)
}

// TaxonIndex returns the namespace index
// of the taxon of a node.
func (t *Tree) TaxonIndex(id int) (int, bool) {
	n := t.node(id)
	if n == nil || n.taxon < 0 {
		return -1, false
	}
	return n.taxon, true
}

// Length returns the length of the edge
// that ends in the given node.
// The boolean is false
// if the length is undefined.
func (t *Tree) Length(id int) (float64, bool) {
	n := t.node(id)
	if n == nil {
		return 0, false
	}
	return n.length, n.hasLen
}

// SetLength sets the length of the edge
// that ends in the given node.
func (t *Tree) SetLength(id int, length float64) {
	if n := t.node(id); n != nil {
		n.length = length
		n.hasLen = true
	}
}

// ClearLength sets the length of the edge
// that ends in the given node
// as undefined.
func (t *Tree) ClearLength(id int) {
	if n := t.node(id); n != nil {
		n.length = 0
		n.hasLen = false
	}
}

// Age returns the age of a node.
func (t *Tree) Age(id int) (float64, bool) {
	n := t.node(id)
	if n == nil {
		return 0, false
	}
	return n.age, n.hasAge
}

// SetAge sets the age of a node.
func (t *Tree) SetAge(id int, age float64) {
	if n := t.node(id); n != nil {
		n.age = age
		n.hasAge = true
	}
}

// Support returns the support of the edge
// that ends in the given node.
func (t *Tree) Support(id int) (float64, bool) {
	n := t.node(id)
	if n == nil {
		return 0, false
	}
	return n.support, n.hasSup
}

// SetSupport sets the support of the edge
// that ends in the given node.
func (t *Tree) SetSupport(id int, support float64) {
	if n := t.node(id); n != nil {
		n.support = support
		n.hasSup = true
	}
}

// Split returns the split of the edge
// that ends in the given node.
// The split is the set of the taxa
// of the terminals descendant from the node.
// The boolean is false
// if the tree is not encoded.
func (t *Tree) Split(id int) (split.Split, bool) {
	n := t.node(id)
	if n == nil || t.splits == nil {
		return split.Split{}, false
	}
	return n.split, true
}

// IsEncoded returns true if the splits of the tree
// are up to date.
func (t *Tree) IsEncoded() bool {
	return t.splits != nil
}

// Splits returns the splits of the last encoding
// of the tree,
// mapped to the node ID of the edge.
// It returns nil if the tree is not encoded.
func (t *Tree) Splits() map[split.Split]int {
	if t.splits == nil {
		return nil
	}
	return maps.Clone(t.splits)
}

// Mask returns the namespace mask
// used in the last encoding of the tree.
func (t *Tree) Mask() split.Split {
	return t.mask
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.Nodes())
}

// Nodes returns the IDs of the nodes of the tree
// in pre-order.
func (t *Tree) Nodes() []int {
	return t.preOrder(t.root, nil)
}

func (t *Tree) preOrder(id int, ids []int) []int {
	ids = append(ids, id)
	for _, c := range t.nodes[id].children {
		ids = t.preOrder(c, ids)
	}
	return ids
}

// PostOrder returns the IDs of the nodes of the tree
// in post-order.
func (t *Tree) PostOrder() []int {
	return t.postOrder(t.root, nil)
}

func (t *Tree) postOrder(id int, ids []int) []int {
	for _, c := range t.nodes[id].children {
		ids = t.postOrder(c, ids)
	}
	return append(ids, id)
}

// Leaves returns the IDs of the terminal nodes
// in pre-order.
func (t *Tree) Leaves() []int {
	return t.leaves(t.root, nil)
}

func (t *Tree) leaves(id int, ids []int) []int {
	n := t.nodes[id]
	if len(n.children) == 0 {
		return append(ids, id)
	}
	for _, c := range n.children {
		ids = t.leaves(c, ids)
	}
	return ids
}

// Terms returns the taxon names of the terminals
// sorted alphabetically.
func (t *Tree) Terms() []string {
	var terms []string
	for _, id := range t.Leaves() {
		if tx := t.Taxon(id); tx != "" {
			terms = append(terms, tx)
		}
	}
	slices.Sort(terms)
	return terms
}

// TaxNode returns the ID of the terminal node
// with the given taxon.
func (t *Tree) TaxNode(name string) (int, bool) {
	i, ok := t.ns.Index(name)
	if !ok {
		return -1, false
	}
	for _, id := range t.Leaves() {
		if t.nodes[id].taxon == i {
			return id, true
		}
	}
	return -1, false
}

// LeafMask returns the split with the taxa
// of all the terminals of the tree.
func (t *Tree) LeafMask() split.Split {
	var idx []int
	for _, id := range t.Leaves() {
		if tx := t.nodes[id].taxon; tx >= 0 {
			idx = append(idx, tx)
		}
	}
	return split.New(idx...)
}

// IsAncestor returns true if a is an ancestor of d,
// or a and d are the same node.
func (t *Tree) IsAncestor(a, d int) bool {
	for n := t.node(d); n != nil; n = t.node(n.parent) {
		if n.id == a {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the tree.
// The clone shares the taxon namespace
// of the original tree.
func (t *Tree) Clone() *Tree {
	c := &Tree{
		name:   t.name,
		ns:     t.ns,
		rooted: t.rooted,
		root:   t.root,
		nodes:  make([]*node, len(t.nodes)),
		mask:   t.mask,
	}
	for i, n := range t.nodes {
		if n == nil {
			continue
		}
		nn := *n
		nn.children = slices.Clone(n.children)
		c.nodes[i] = &nn
	}
	if t.splits != nil {
		c.splits = maps.Clone(t.splits)
	}
	return c
}

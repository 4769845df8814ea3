// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"maps"

	"github.com/js-arias/treesplit/split"
)

// Encode calculates the split of each edge of the tree
// and returns a map of the splits
// to the ID of the head node of the edge.
// The root is included,
// and its split is the set of all the terminals
// in the tree.
//
// If rooted is false,
// the splits used as keys are normalized
// with the namespace mask,
// and if the root has two children
// the tree is derooted.
//
// Encoding modifies the tree:
// a root with a single child is removed,
// and any other node with a single child
// is replaced by its child
// (edge lengths are added).
// Clone the tree to keep the original topology.
//
// Splits are computed with the namespace at the moment
// of the encoding,
// so trees should be encoded
// after all the taxa are added to the namespace.
//
// If two edges have the same split,
// or a terminal does not have a taxon,
// it returns an error wrapping ErrPrecondition.
func Encode(t *Tree, rooted bool) (map[split.Split]int, error) {
	t.invalidate()
	t.rooted = rooted

	for _, id := range t.PostOrder() {
		n := t.nodes[id]
		if id == t.root || len(n.children) != 1 {
			continue
		}
		c := t.nodes[n.children[0]]
		c.length, c.hasLen = addLen(c.length, c.hasLen, n.length, n.hasLen)
		t.splice(n)
	}
	if r := t.nodes[t.root]; len(r.children) == 1 {
		c := t.nodes[r.children[0]]
		c.parent = -1
		c.length, c.hasLen = 0, false
		t.nodes[t.root] = nil
		t.root = c.id
	}
	if !rooted {
		t.Deroot()
	}

	for _, id := range t.PostOrder() {
		n := t.nodes[id]
		if len(n.children) == 0 {
			if n.taxon < 0 {
				return nil, fmt.Errorf("tree %q: terminal node %d without taxon: %w", t.name, id, ErrPrecondition)
			}
			n.split = split.Bit(n.taxon)
			continue
		}

		var s split.Split
		for _, c := range n.children {
			s = s.Or(t.nodes[c].split)
		}
		n.split = s
	}

	mask := t.ns.All()
	splits := make(map[split.Split]int, len(t.nodes))
	for _, id := range t.Nodes() {
		s := t.nodes[id].split
		if !rooted {
			s = s.Normalize(mask)
		}
		if prev, ok := splits[s]; ok {
			return nil, fmt.Errorf("tree %q: nodes %d and %d: duplicated split %s: %w", t.name, prev, id, s, ErrPrecondition)
		}
		splits[s] = id
	}

	t.splits = splits
	t.mask = mask
	return maps.Clone(splits), nil
}

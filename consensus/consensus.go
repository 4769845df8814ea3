// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package consensus implements the greedy extended majority-rule
// consensus of a distribution of splits.
package consensus

import (
	"slices"

	"github.com/js-arias/treesplit/split"
	"github.com/js-arias/treesplit/splitdist"
	"github.com/js-arias/treesplit/tree"
	"gonum.org/v1/gonum/stat"
)

// Greedy is the minimum frequency
// used to build a greedy consensus tree,
// in which every compatible split is included.
const Greedy = -1

// Name is the name of consensus trees.
const Name = "consensus"

// Majority returns the majority-rule consensus tree
// of a split distribution.
func Majority(d *splitdist.Distribution, edgeLengths bool) (*tree.Tree, error) {
	return Tree(d, 0.5, edgeLengths)
}

// Tree returns the consensus tree
// of a split distribution.
//
// Only splits with a frequency greater than minFreq
// are used.
// Splits are added in decreasing order of frequency,
// and splits with the same frequency
// in increasing order of their value.
// A split incompatible with the splits already in the tree
// is ignored.
//
// The support of each edge is the frequency of its split.
// If edgeLengths is true,
// the length of each edge is the mean of the lengths
// of the split in the distribution;
// if the split has no lengths,
// the length is undefined.
// Node ages are the mean of the observed ages.
//
// The returned tree is encoded.
func Tree(d *splitdist.Distribution, minFreq float64, edgeLengths bool) (*tree.Tree, error) {
	ns := d.Namespace()
	mask := d.Mask()
	rooted := d.IsRooted()

	t := tree.New(Name, ns, rooted)
	clade := map[int]split.Split{
		t.Root(): mask,
	}
	leaf := make(map[int]int)
	for _, i := range mask.Indices() {
		id, err := t.Add(t.Root(), ns.Name(i))
		if err != nil {
			return nil, err
		}
		leaf[i] = id
		clade[id] = split.Bit(i)
	}

	freq := d.Frequencies()
	var cands []split.Split
	for s, f := range freq {
		if f <= minFreq || d.IsTrivial(s) {
			continue
		}
		cands = append(cands, s)
	}
	slices.SortFunc(cands, func(a, b split.Split) int {
		if fa, fb := freq[a], freq[b]; fa != fb {
			if fa > fb {
				return -1
			}
			return 1
		}
		return a.Compare(b)
	})

	for _, s := range cands {
		c := s
		if !rooted {
			// the clade is the side without the first taxon
			c = s.Complement(mask)
		}
		if !c.IsSubset(clade[t.Root()]) {
			continue
		}

		n := leaf[c.LowestIndex()]
		for !c.IsSubset(clade[n]) {
			n = t.Parent(n)
		}
		if clade[n] == c {
			continue
		}

		var in []int
		compatible := true
		for _, ch := range t.Children(n) {
			cs := clade[ch]
			if cs.IsSubset(c) {
				in = append(in, ch)
				continue
			}
			if cs.Overlaps(c) {
				compatible = false
				break
			}
		}
		if !compatible {
			continue
		}

		nn, err := t.Add(n, "")
		if err != nil {
			return nil, err
		}
		for _, ch := range in {
			if err := t.AddChild(nn, ch); err != nil {
				return nil, err
			}
		}
		clade[nn] = c
	}

	t.SetSupport(t.Root(), 1)
	if r := d.Root(); len(r.Ages) > 0 {
		t.SetAge(t.Root(), stat.Mean(r.Ages, nil))
	}
	for id, c := range clade {
		if id == t.Root() {
			continue
		}
		key := c
		if !rooted {
			key = c.Normalize(mask)
		}
		r, ok := d.Record(key)

		if t.IsTerm(id) {
			t.SetSupport(id, 1)
		} else {
			t.SetSupport(id, freq[key])
		}
		if !ok {
			continue
		}
		if edgeLengths && len(r.Lengths) > 0 {
			t.SetLength(id, stat.Mean(r.Lengths, nil))
		}
		if len(r.Ages) > 0 {
			t.SetAge(id, stat.Mean(r.Ages, nil))
		}
	}

	if _, err := tree.Encode(t, rooted); err != nil {
		return nil, err
	}
	return t, nil
}

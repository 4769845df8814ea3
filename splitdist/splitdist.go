// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package splitdist implements a distribution of splits
// accumulated from a sample of trees,
// for example the trees of a bootstrap
// or a posterior sample.
package splitdist

import (
	"errors"
	"fmt"
	"slices"

	"github.com/js-arias/treesplit/split"
	"github.com/js-arias/treesplit/taxa"
	"github.com/js-arias/treesplit/tree"
)

// ErrRootingMismatch is returned when a rooted tree
// is added to a distribution of unrooted trees,
// or vice versa.
var ErrRootingMismatch = errors.New("rooted and unrooted trees mixed")

// A Record stores the observations of a split.
type Record struct {
	// Number of trees with the split
	Count int

	// Lengths of the edges with the split,
	// only for edges with a defined length.
	Lengths []float64

	// Ages of the head nodes of the edges with the split,
	// only for nodes with a defined age.
	Ages []float64
}

// A Distribution is a collection of splits
// taken from a set of trees
// defined over the same taxon namespace.
type Distribution struct {
	ns     *taxa.Namespace
	rooted bool
	mask   split.Split
	trees  int

	recs map[split.Split]*Record

	// the root is not an edge,
	// so its ages are kept apart
	root Record

	freq  map[split.Split]float64
	dirty bool
}

// New creates a new empty distribution
// for the trees of the given namespace.
func New(ns *taxa.Namespace) *Distribution {
	return &Distribution{
		ns:   ns,
		recs: make(map[split.Split]*Record),
	}
}

// Add adds the splits of an encoded tree
// to the distribution.
//
// The first tree added sets
// whether the distribution is rooted or not,
// and the mask used to normalize the splits.
//
// Only the splits of the edges are counted.
// The age of the root is stored
// in the record of the root.
// Adding a tree with a different rooting
// returns ErrRootingMismatch.
func (d *Distribution) Add(t *tree.Tree) error {
	if t.Namespace() != d.ns {
		return fmt.Errorf("tree %q: different taxon namespace: %w", t.Name(), tree.ErrPrecondition)
	}
	if !t.IsEncoded() {
		return fmt.Errorf("tree %q: splits not encoded: %w", t.Name(), tree.ErrPrecondition)
	}
	if d.trees > 0 {
		if t.IsRooted() != d.rooted {
			return fmt.Errorf("tree %q: rooted %v, distribution rooted %v: %w", t.Name(), t.IsRooted(), d.rooted, ErrRootingMismatch)
		}
		if t.Mask() != d.mask {
			return fmt.Errorf("tree %q: encoded with a different taxon mask: %w", t.Name(), tree.ErrPrecondition)
		}
	} else {
		d.rooted = t.IsRooted()
		d.mask = t.Mask()
	}

	root := t.Root()
	d.root.Count++
	if a, ok := t.Age(root); ok {
		d.root.Ages = append(d.root.Ages, a)
	}

	for s, id := range t.Splits() {
		if id == root {
			continue
		}
		r, ok := d.recs[s]
		if !ok {
			r = &Record{}
			d.recs[s] = r
		}
		r.Count++
		if l, ok := t.Length(id); ok {
			r.Lengths = append(r.Lengths, l)
		}
		if a, ok := t.Age(id); ok {
			r.Ages = append(r.Ages, a)
		}
	}
	d.trees++
	d.dirty = true
	return nil
}

// Namespace returns the taxon namespace of the distribution.
func (d *Distribution) Namespace() *taxa.Namespace {
	return d.ns
}

// IsRooted returns true if the splits
// of the distribution are from rooted trees.
func (d *Distribution) IsRooted() bool {
	return d.rooted
}

// Mask returns the mask used to normalize the splits.
// If no tree was added,
// it returns the mask of all the taxa in the namespace.
func (d *Distribution) Mask() split.Split {
	if d.trees == 0 {
		return d.ns.All()
	}
	return d.mask
}

// Trees returns the number of trees
// added to the distribution.
func (d *Distribution) Trees() int {
	return d.trees
}

// Frequencies returns the frequency of each split
// (the proportion of trees that have the split).
// The frequencies are only recalculated
// after a new tree is added.
// The returned map should not be modified.
func (d *Distribution) Frequencies() map[split.Split]float64 {
	if d.freq != nil && !d.dirty {
		return d.freq
	}

	d.freq = make(map[split.Split]float64, len(d.recs))
	for s, r := range d.recs {
		d.freq[s] = float64(r.Count) / float64(d.trees)
	}
	d.dirty = false
	return d.freq
}

// Frequency returns the frequency of a split.
func (d *Distribution) Frequency(s split.Split) float64 {
	return d.Frequencies()[s]
}

// Record returns a copy of the observations of a split.
func (d *Distribution) Record(s split.Split) (Record, bool) {
	r, ok := d.recs[s]
	if !ok {
		return Record{}, false
	}
	return Record{
		Count:   r.Count,
		Lengths: slices.Clone(r.Lengths),
		Ages:    slices.Clone(r.Ages),
	}, true
}

// Root returns a copy of the observations
// of the root nodes of the trees.
// It has no lengths.
func (d *Distribution) Root() Record {
	return Record{
		Count: d.root.Count,
		Ages:  slices.Clone(d.root.Ages),
	}
}

// Splits returns the splits of the distribution
// sorted by frequency in decreasing order.
// Splits with the same frequency
// are sorted by their value.
func (d *Distribution) Splits() []split.Split {
	ls := make([]split.Split, 0, len(d.recs))
	for s := range d.recs {
		ls = append(ls, s)
	}
	slices.SortFunc(ls, func(a, b split.Split) int {
		if ca, cb := d.recs[a].Count, d.recs[b].Count; ca != cb {
			return cb - ca
		}
		return a.Compare(b)
	})
	return ls
}

// IsTrivial returns true if a split is trivial
// in the distribution.
func (d *Distribution) IsTrivial(s split.Split) bool {
	ok, err := split.IsTrivial(s, d.Mask())
	if err != nil {
		return true
	}
	return ok
}

// Compatible returns true if two splits of the distribution
// can be found in the same tree.
func (d *Distribution) Compatible(a, b split.Split) bool {
	return split.Compatible(a, b, d.Mask(), d.rooted)
}

// Considered returns the number of splits
// found in the distribution:
// the total number of splits,
// the number of distinct splits,
// the total number of non-trivial splits,
// and the number of distinct non-trivial splits.
func (d *Distribution) Considered() (total, unique, nonTrivial, nonTrivialUnique int) {
	for s, r := range d.recs {
		total += r.Count
		unique++
		if d.IsTrivial(s) {
			continue
		}
		nonTrivial += r.Count
		nonTrivialUnique++
	}
	return total, unique, nonTrivial, nonTrivialUnique
}

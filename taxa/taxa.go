// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package taxa implements a namespace of taxon names
// in which each taxon has a stable index.
//
// A namespace is shared by all the trees
// of an analysis,
// and the index of a taxon is the bit
// used to represent the taxon
// in a split.
package taxa

import (
	"strings"

	"github.com/js-arias/treesplit/split"
)

// A Namespace is an ordered set of taxon names.
type Namespace struct {
	names []string
	index map[string]int
}

// New creates a new namespace
// with the given taxon names.
func New(names ...string) *Namespace {
	ns := &Namespace{
		index: make(map[string]int, len(names)),
	}
	for _, n := range names {
		ns.Add(n)
	}
	return ns
}

// Add adds a taxon to the namespace
// and returns its index.
// If the taxon is already in the namespace,
// it returns its current index.
//
// Taxon names are canonicalized
// by removing extra spaces.
func (ns *Namespace) Add(name string) int {
	name = canon(name)
	if i, ok := ns.index[name]; ok {
		return i
	}
	i := len(ns.names)
	ns.names = append(ns.names, name)
	ns.index[name] = i
	return i
}

// Index returns the index of a taxon.
func (ns *Namespace) Index(name string) (int, bool) {
	i, ok := ns.index[canon(name)]
	return i, ok
}

// Name returns the name of the taxon
// with the given index.
func (ns *Namespace) Name(i int) string {
	if i < 0 || i >= len(ns.names) {
		return ""
	}
	return ns.names[i]
}

// Len returns the number of taxa in the namespace.
func (ns *Namespace) Len() int {
	return len(ns.names)
}

// Names returns the taxon names
// in index order.
func (ns *Namespace) Names() []string {
	names := make([]string, len(ns.names))
	copy(names, ns.names)
	return names
}

// Bit returns the split with the bit
// of the given taxon.
func (ns *Namespace) Bit(name string) (split.Split, bool) {
	i, ok := ns.Index(name)
	if !ok {
		return split.Split{}, false
	}
	return split.Bit(i), true
}

// All returns a split with the bits
// of all the taxa in the namespace.
func (ns *Namespace) All() split.Split {
	return split.FirstN(len(ns.names))
}

// Taxa returns the names of the taxa in a split.
func (ns *Namespace) Taxa(s split.Split) []string {
	var names []string
	for _, i := range s.Indices() {
		if i >= len(ns.names) {
			break
		}
		names = append(names, ns.names[i])
	}
	return names
}

// Label returns a string representation of a split
// in which the position i is '*'
// if the taxon i is in the split,
// or '.' otherwise.
func (ns *Namespace) Label(s split.Split) string {
	var sb strings.Builder
	for i := range ns.names {
		if s.Has(i) {
			sb.WriteByte('*')
			continue
		}
		sb.WriteByte('.')
	}
	return sb.String()
}

func canon(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

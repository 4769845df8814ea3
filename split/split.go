// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package split implements bit sets of arbitrary width
// used to encode the bipartitions (splits)
// of a set of taxa.
//
// Bit i of a split is set
// if the taxon with index i
// is on the marked side of the bipartition.
//
// A Split is an immutable value.
// Two splits with the same set bits are equal
// under the == operator,
// so splits can be used directly as map keys.
package split

import (
	"errors"
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

// ErrInvalidMask is returned when a split
// has bits outside a reference mask.
var ErrInvalidMask = errors.New("split outside mask")

// A Split is a set of taxon indexes.
//
// The zero value is an empty split.
type Split struct {
	// bytes in little endian order,
	// without trailing zero bytes.
	b string
}

// New returns a split with the given bits set.
// It panics if an index is negative.
func New(idx ...int) Split {
	if len(idx) == 0 {
		return Split{}
	}
	var top int
	for _, i := range idx {
		if i < 0 {
			panic(fmt.Sprintf("split: negative index %d", i))
		}
		if i > top {
			top = i
		}
	}

	b := make([]byte, top/8+1)
	for _, i := range idx {
		b[i/8] |= 1 << (i % 8)
	}
	return fromBytes(b)
}

// Bit returns a split with only the bit i set.
func Bit(i int) Split {
	return New(i)
}

// FirstN returns a split with the n lowest bits set.
func FirstN(n int) Split {
	if n <= 0 {
		return Split{}
	}
	b := make([]byte, (n+7)/8)
	for i := 0; i < n/8; i++ {
		b[i] = 0xff
	}
	if r := n % 8; r != 0 {
		b[len(b)-1] = byte(1<<r) - 1
	}
	return fromBytes(b)
}

func fromBytes(b []byte) Split {
	i := len(b)
	for i > 0 && b[i-1] == 0 {
		i--
	}
	return Split{b: string(b[:i])}
}

// Or returns the union of two splits.
func (s Split) Or(o Split) Split {
	long, short := s.b, o.b
	if len(short) > len(long) {
		long, short = short, long
	}
	b := []byte(long)
	for i := 0; i < len(short); i++ {
		b[i] |= short[i]
	}
	return Split{b: string(b)}
}

// And returns the intersection of two splits.
func (s Split) And(o Split) Split {
	n := min(len(s.b), len(o.b))
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		b[i] = s.b[i] & o.b[i]
	}
	return fromBytes(b)
}

// AndNot returns the bits of s
// that are not set in o.
func (s Split) AndNot(o Split) Split {
	b := []byte(s.b)
	n := min(len(b), len(o.b))
	for i := 0; i < n; i++ {
		b[i] &^= o.b[i]
	}
	return fromBytes(b)
}

// Complement returns the complement of s
// restricted to the given mask.
func (s Split) Complement(mask Split) Split {
	return mask.AndNot(s)
}

// Count returns the number of set bits.
func (s Split) Count() int {
	var c int
	for i := 0; i < len(s.b); i++ {
		c += bits.OnesCount8(s.b[i])
	}
	return c
}

// Has returns true if bit i is set.
func (s Split) Has(i int) bool {
	if i < 0 || i/8 >= len(s.b) {
		return false
	}
	return s.b[i/8]&(1<<(i%8)) != 0
}

// IsZero returns true if no bit is set.
func (s Split) IsZero() bool {
	return len(s.b) == 0
}

// IsSubset returns true if every bit of s
// is also set in o.
func (s Split) IsSubset(o Split) bool {
	if len(s.b) > len(o.b) {
		return false
	}
	for i := 0; i < len(s.b); i++ {
		if s.b[i]&^o.b[i] != 0 {
			return false
		}
	}
	return true
}

// Overlaps returns true if s and o
// share at least one bit.
func (s Split) Overlaps(o Split) bool {
	n := min(len(s.b), len(o.b))
	for i := 0; i < n; i++ {
		if s.b[i]&o.b[i] != 0 {
			return true
		}
	}
	return false
}

// LowestIndex returns the index of the lowest set bit,
// or -1 if the split is empty.
func (s Split) LowestIndex() int {
	for i := 0; i < len(s.b); i++ {
		if s.b[i] != 0 {
			return i*8 + bits.TrailingZeros8(s.b[i])
		}
	}
	return -1
}

// Lowest returns a split with only the lowest set bit of s.
func (s Split) Lowest() Split {
	i := s.LowestIndex()
	if i < 0 {
		return Split{}
	}
	return Bit(i)
}

// Len returns the index of the highest set bit plus one.
func (s Split) Len() int {
	if len(s.b) == 0 {
		return 0
	}
	last := s.b[len(s.b)-1]
	return (len(s.b)-1)*8 + bits.Len8(last)
}

// Indices returns the indexes of the set bits
// in increasing order.
func (s Split) Indices() []int {
	idx := make([]int, 0, s.Count())
	for i := 0; i < len(s.b); i++ {
		v := s.b[i]
		for v != 0 {
			j := bits.TrailingZeros8(v)
			idx = append(idx, i*8+j)
			v &^= 1 << j
		}
	}
	return idx
}

// Compare compares two splits as unsigned integers.
// It returns -1 if s < o,
// 0 if both are equal,
// and +1 if s > o.
func (s Split) Compare(o Split) int {
	if len(s.b) != len(o.b) {
		if len(s.b) < len(o.b) {
			return -1
		}
		return 1
	}
	for i := len(s.b) - 1; i >= 0; i-- {
		if s.b[i] == o.b[i] {
			continue
		}
		if s.b[i] < o.b[i] {
			return -1
		}
		return 1
	}
	return 0
}

// Normalize returns the canonical form of an unrooted split.
// If the lowest bit of the mask is not set in s,
// the complement of s within the mask is returned;
// otherwise s is returned unchanged.
// As the lowest bit of mask is always in the result,
// both sides of a bipartition share the same normalized form.
func (s Split) Normalize(mask Split) Split {
	low := mask.LowestIndex()
	if low < 0 || s.Has(low) {
		return s
	}
	return s.Complement(mask)
}

// IsTrivial returns true if a split,
// restricted to the given mask,
// has less than two bits in one of its sides.
// It returns ErrInvalidMask if the split has bits
// outside the mask.
func IsTrivial(s, mask Split) (bool, error) {
	if !s.IsSubset(mask) {
		return false, fmt.Errorf("split %s, mask %s: %w", s, mask, ErrInvalidMask)
	}
	in := s.Count()
	out := mask.Count() - in
	return in < 2 || out < 2, nil
}

// Compatible returns true if two splits
// can be part of the same tree.
// Rooted splits are compatible if they are nested
// or disjoint.
// Unrooted splits are compatible
// if any of the four intersections between the sides
// of both bipartitions,
// within the mask,
// is empty.
func Compatible(a, b, mask Split, rooted bool) bool {
	if !a.Overlaps(b) || a.IsSubset(b) || b.IsSubset(a) {
		return true
	}
	if rooted {
		return false
	}
	return mask.IsSubset(a.Or(b))
}

// String returns the split as a hexadecimal number.
func (s Split) String() string {
	if len(s.b) == 0 {
		return "0"
	}
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(uint64(s.b[len(s.b)-1]), 16))
	for i := len(s.b) - 2; i >= 0; i-- {
		h := strconv.FormatUint(uint64(s.b[i]), 16)
		if len(h) < 2 {
			sb.WriteByte('0')
		}
		sb.WriteString(h)
	}
	return sb.String()
}

// Parse parses a split
// from its hexadecimal representation.
func Parse(h string) (Split, error) {
	h = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), "0x")
	if h == "" {
		return Split{}, fmt.Errorf("split: empty string")
	}
	b := make([]byte, 0, len(h)/2+1)
	for end := len(h); end > 0; end -= 2 {
		start := max(end-2, 0)
		v, err := strconv.ParseUint(h[start:end], 16, 8)
		if err != nil {
			return Split{}, fmt.Errorf("split: invalid value %q: %v", h, err)
		}
		b = append(b, byte(v))
	}
	return fromBytes(b), nil
}

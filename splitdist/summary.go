// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package splitdist

import (
	"slices"

	"github.com/js-arias/treesplit/split"
	"gonum.org/v1/gonum/stat"
)

// A Summary is a summary of the observations
// of a split.
type Summary struct {
	Split     split.Split
	Count     int
	Frequency float64

	// Edge length statistics,
	// only valid if Lengths > 0.
	Lengths  int
	Length   float64 // mean length
	LengthSD float64 // standard deviation

	// Node age statistics,
	// only valid if Ages > 0.
	Ages      int
	Age       float64 // mean age
	AgeMedian float64
	Age025    float64 // lower bound of the 95% interval
	Age975    float64 // upper bound of the 95% interval
}

// Summary returns the summary of a split.
func (d *Distribution) Summary(s split.Split) (Summary, bool) {
	r, ok := d.recs[s]
	if !ok {
		return Summary{}, false
	}

	sum := Summary{
		Split:     s,
		Count:     r.Count,
		Frequency: d.Frequency(s),
		Lengths:   len(r.Lengths),
		Ages:      len(r.Ages),
	}
	if len(r.Lengths) > 0 {
		sum.Length, sum.LengthSD = stat.MeanStdDev(r.Lengths, nil)
		if len(r.Lengths) == 1 {
			sum.LengthSD = 0
		}
	}
	if len(r.Ages) > 0 {
		ages := slices.Clone(r.Ages)
		slices.Sort(ages)
		sum.Age = stat.Mean(ages, nil)
		sum.AgeMedian = stat.Quantile(0.5, stat.Empirical, ages, nil)
		sum.Age025 = stat.Quantile(0.025, stat.Empirical, ages, nil)
		sum.Age975 = stat.Quantile(0.975, stat.Empirical, ages, nil)
	}
	return sum, true
}

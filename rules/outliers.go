// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rules

import (
	"sort"

	"github.com/danielhkuo/estimation-lab/deck"
)

// DefaultStepsAway is how many cards from the median a vote must be to count as an outlier.
const DefaultStepsAway = 2

// ValueSet is a set of card values.
type ValueSet map[string]struct{}

func (s ValueSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Sorted returns the members in deck order.
func (s ValueSet) Sorted(d deck.Deck) []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return d.Index(out[i]) < d.Index(out[j]) })
	return out
}

type Outliers struct {
	Low  ValueSet
	High ValueSet
}

// ComputeOutliers partitions the cast votes into low and high outliers
// relative to the median card. Votes outside the deck or without a numeric
// value are ignored.
func ComputeOutliers(d deck.Deck, votes []string, stepsAway int) Outliers {
	out := Outliers{Low: ValueSet{}, High: ValueSet{}}

	valid := make([]string, 0, len(votes))
	numeric := make([]float64, 0, len(votes))
	for _, v := range votes {
		n, ok := d.Numeric(v)
		if !ok {
			continue
		}
		valid = append(valid, v)
		numeric = append(numeric, n)
	}
	if len(valid) == 0 {
		return out
	}

	medianValue, ok := d.NearestValue(Median(numeric))
	if !ok {
		return out
	}
	medianIdx := d.Index(medianValue)

	for _, v := range valid {
		idx := d.Index(v)
		if idx <= medianIdx-stepsAway {
			out.Low[v] = struct{}{}
		} else if idx >= medianIdx+stepsAway {
			out.High[v] = struct{}{}
		}
	}
	return out
}

// Median returns the median of values, averaging the middle pair for even
// lengths. The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// IndexSpan returns the distance in cards between the lowest and highest
// numeric vote. ok is false when no vote has a numeric value.
func IndexSpan(d deck.Deck, votes []string) (span int, ok bool) {
	lo, hi := -1, -1
	for _, v := range votes {
		if _, numeric := d.Numeric(v); !numeric {
			continue
		}
		idx := d.Index(v)
		if lo == -1 || idx < lo {
			lo = idx
		}
		if hi == -1 || idx > hi {
			hi = idx
		}
	}
	if lo == -1 {
		return 0, false
	}
	return hi - lo, true
}

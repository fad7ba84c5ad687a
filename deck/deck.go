// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package deck

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Estimation methods
const (
	MethodRefinementPoker = "refinement_poker"
	MethodBusinessValue   = "business_value"
)

// Sentinel card values
const (
	Unsure  = "?"
	Break   = "X"
	Abstain = "ABSTAIN"
)

var (
	ErrUnknownMethod  = errors.New("unknown estimation method")
	ErrDuplicateValue = errors.New("duplicate deck value")
)

// Deck is an ordered set of card labels, index 0 being the lowest card.
type Deck struct {
	name    string
	values  []string
	index   map[string]int
	ordinal bool
}

var (
	Fibonacci = mustNew("FIBONACCI", false, "0", "1", "2", "3", "5", "8", "13", "21", "34", "55", Unsure, Break)
	TShirt    = mustNew("TSHIRT", true, "XS", "S", "M", "L", "XL")
)

// ForMethod returns the deck used by an estimation method.
func ForMethod(method string) (Deck, error) {
	switch method {
	case MethodRefinementPoker:
		return Fibonacci, nil
	case MethodBusinessValue:
		return TShirt, nil
	default:
		return Deck{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}

// New builds a numeric deck from labels in ascending order.
func New(name string, values ...string) (Deck, error) {
	return build(name, false, values)
}

// NewOrdinal builds a deck whose cards are valued by position rather than label.
func NewOrdinal(name string, values ...string) (Deck, error) {
	return build(name, true, values)
}

func build(name string, ordinal bool, values []string) (Deck, error) {
	index := make(map[string]int, len(values))
	for i, v := range values {
		if _, dup := index[v]; dup {
			return Deck{}, fmt.Errorf("%w: %q", ErrDuplicateValue, v)
		}
		index[v] = i
	}
	vals := make([]string, len(values))
	copy(vals, values)
	return Deck{name: name, values: vals, index: index, ordinal: ordinal}, nil
}

func mustNew(name string, ordinal bool, values ...string) Deck {
	d, err := build(name, ordinal, values)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Deck) Name() string { return d.name }

// Values returns a copy of the deck labels in order.
func (d Deck) Values() []string {
	out := make([]string, len(d.values))
	copy(out, d.values)
	return out
}

func (d Deck) Len() int { return len(d.values) }

func (d Deck) Contains(v string) bool {
	_, ok := d.index[v]
	return ok
}

// Index returns the position of v in the deck, or -1 when absent.
func (d Deck) Index(v string) int {
	i, ok := d.index[v]
	if !ok {
		return -1
	}
	return i
}

// Numeric returns the numeric interpretation of a deck value.
// Values outside the deck and sentinels report false.
func (d Deck) Numeric(v string) (float64, bool) {
	i, ok := d.index[v]
	if !ok {
		return 0, false
	}
	if d.ordinal {
		return float64(i), true
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// NearestValue returns the card whose numeric value is closest to target.
// Ties go to the lowest index. Cards without a numeric value are skipped;
// ok is false when the deck has none.
func (d Deck) NearestValue(target float64) (string, bool) {
	best := ""
	bestDiff := math.Inf(1)
	found := false
	for _, v := range d.values {
		n, ok := d.Numeric(v)
		if !ok {
			continue
		}
		diff := math.Abs(target - n)
		if diff < bestDiff {
			best, bestDiff, found = v, diff, true
		}
	}
	return best, found
}

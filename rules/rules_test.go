// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rules

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/estimation-lab/deck"
)

func numericDeck(t *testing.T) deck.Deck {
	t.Helper()
	d, err := deck.New("numeric", "1", "2", "3", "5", "8", "13", "21", "34", "55")
	require.NoError(t, err)
	return d
}

func TestComputeOutliersMedianExample(t *testing.T) {
	d := numericDeck(t)

	out := ComputeOutliers(d, []string{"1", "2", "3", "13", "21"}, DefaultStepsAway)

	assert.Equal(t, []string{"1"}, out.Low.Sorted(d))
	assert.Equal(t, []string{"13", "21"}, out.High.Sorted(d))
}

func TestComputeOutliersIgnoresUnknownAndSentinelVotes(t *testing.T) {
	out := ComputeOutliers(deck.Fibonacci, []string{"?", "X", "ABSTAIN", "4", "banana"}, DefaultStepsAway)
	assert.Empty(t, out.Low)
	assert.Empty(t, out.High)

	out = ComputeOutliers(deck.Fibonacci, []string{"?", "5", "8", "X", "34"}, DefaultStepsAway)
	assert.Empty(t, out.Low)
	assert.Equal(t, []string{"34"}, out.High.Sorted(deck.Fibonacci))
}

func TestComputeOutliersNoVotes(t *testing.T) {
	out := ComputeOutliers(deck.Fibonacci, nil, DefaultStepsAway)
	assert.NotNil(t, out.Low)
	assert.NotNil(t, out.High)
	assert.Empty(t, out.Low)
	assert.Empty(t, out.High)
}

func TestComputeOutliersEvenMedian(t *testing.T) {
	// median of 2,3,8,13 is 5.5 → nearest card 5
	out := ComputeOutliers(deck.Fibonacci, []string{"2", "3", "8", "13"}, DefaultStepsAway)
	assert.Equal(t, []string{"2"}, out.Low.Sorted(deck.Fibonacci))
	assert.Equal(t, []string{"13"}, out.High.Sorted(deck.Fibonacci))
}

func TestComputeOutliersTShirt(t *testing.T) {
	out := ComputeOutliers(deck.TShirt, []string{"XS", "M", "M", "XL"}, DefaultStepsAway)
	assert.Equal(t, []string{"XS"}, out.Low.Sorted(deck.TShirt))
	assert.Equal(t, []string{"XL"}, out.High.Sorted(deck.TShirt))
}

func TestComputeOutliersPartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	d := deck.Fibonacci
	values := d.Values()

	for i := 0; i < 500; i++ {
		n := 1 + rng.Intn(8)
		votes := make([]string, n)
		numeric := []float64{}
		for j := range votes {
			votes[j] = values[rng.Intn(len(values))]
			if x, ok := d.Numeric(votes[j]); ok {
				numeric = append(numeric, x)
			}
		}
		out := ComputeOutliers(d, votes, DefaultStepsAway)

		for v := range out.Low {
			assert.False(t, out.High.Has(v), "vote %q in both sets for %v", v, votes)
		}
		if len(numeric) == 0 {
			assert.Empty(t, out.Low)
			assert.Empty(t, out.High)
			continue
		}

		medianValue, ok := d.NearestValue(Median(numeric))
		require.True(t, ok)
		medianIdx := d.Index(medianValue)
		for _, v := range votes {
			if _, isNum := d.Numeric(v); !isNum || out.Low.Has(v) || out.High.Has(v) {
				continue
			}
			dist := d.Index(v) - medianIdx
			if dist < 0 {
				dist = -dist
			}
			assert.LessOrEqual(t, dist, DefaultStepsAway-1, "vote %q in %v", v, votes)
		}
	}
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, Median([]float64{21, 1, 3, 13, 2}))
	assert.Equal(t, 4.0, Median([]float64{5, 3}))
	assert.Equal(t, 0.0, Median(nil))

	in := []float64{3, 1, 2}
	Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestIndexSpan(t *testing.T) {
	d := numericDeck(t)

	span, ok := IndexSpan(d, []string{"5", "8", "13"})
	require.True(t, ok)
	assert.Equal(t, 2, span)

	span, ok = IndexSpan(d, []string{"1", "5"})
	require.True(t, ok)
	assert.Equal(t, 3, span)

	span, ok = IndexSpan(deck.Fibonacci, []string{"8", "?", "X"})
	require.True(t, ok)
	assert.Equal(t, 0, span)

	_, ok = IndexSpan(deck.Fibonacci, []string{"?"})
	assert.False(t, ok)
}

func TestWindowAndOutliersDisagree(t *testing.T) {
	// span of 1,1,1,3 is 2 (inside the window) but the median sits on 1,
	// so 3 is two cards away and still counts as a high outlier
	votes := []string{"1", "1", "1", "3"}

	span, ok := IndexSpan(deck.Fibonacci, votes)
	require.True(t, ok)
	assert.Equal(t, 2, span)

	out := ComputeOutliers(deck.Fibonacci, votes, DefaultStepsAway)
	assert.True(t, out.High.Has("3"))
}

func TestCanFinalizeMedianExample(t *testing.T) {
	d := numericDeck(t)
	votes := []ParticipantVote{
		{ParticipantID: "A", Vote: "1"},
		{ParticipantID: "B", Vote: "2"},
		{ParticipantID: "C", Vote: "3"},
		{ParticipantID: "D", Vote: "13"},
		{ParticipantID: "E", Vote: "21"},
	}

	check := CanFinalize(d, votes, nil)
	assert.False(t, check.OK)
	assert.Equal(t, []string{"A", "D", "E"}, check.MissingReasons)

	check = CanFinalize(d, votes, map[string]Reasons{
		"A": {Low: "we already have the API"},
		"D": {High: "migration needed"},
		"E": {High: "unknown vendor"},
	})
	assert.True(t, check.OK)
	assert.Empty(t, check.MissingReasons)
}

func TestCanFinalizeWrongPolarityDoesNotCount(t *testing.T) {
	votes := []ParticipantVote{
		{ParticipantID: "a", Vote: "1"},
		{ParticipantID: "b", Vote: "3"},
		{ParticipantID: "c", Vote: "21"},
	}

	check := CanFinalize(deck.Fibonacci, votes, map[string]Reasons{
		"a": {High: "wrong side"},
		"c": {Low: "wrong side"},
	})
	assert.False(t, check.OK)
	assert.Equal(t, []string{"a", "c"}, check.MissingReasons)
}

func TestCanFinalizeSkipsAbsentVotes(t *testing.T) {
	votes := []ParticipantVote{
		{ParticipantID: "a", Vote: "5"},
		{ParticipantID: "b", Vote: ""},
		{ParticipantID: "c", Vote: "8"},
	}
	check := CanFinalize(deck.Fibonacci, votes, nil)
	assert.True(t, check.OK)
}

func TestCanFinalizeReasonsAreMonotonic(t *testing.T) {
	d := numericDeck(t)
	votes := []ParticipantVote{
		{ParticipantID: "A", Vote: "1"},
		{ParticipantID: "B", Vote: "3"},
		{ParticipantID: "C", Vote: "3"},
		{ParticipantID: "D", Vote: "21"},
	}
	reasons := map[string]Reasons{}
	steps := []struct {
		pid string
		r   Reasons
	}{
		{"B", Reasons{High: "irrelevant"}},
		{"A", Reasons{Low: "small"}},
		{"D", Reasons{High: "big"}},
		{"C", Reasons{Low: "extra"}},
	}

	wasOK := CanFinalize(d, votes, reasons).OK
	for _, step := range steps {
		reasons[step.pid] = step.r
		ok := CanFinalize(d, votes, reasons).OK
		if wasOK {
			assert.True(t, ok, "adding a reason for %s turned ok into not ok", step.pid)
		}
		wasOK = ok
	}
	assert.True(t, wasOK)
}

func TestValidateVote(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"8", true},
		{"0", true},
		{"?", true},
		{"X", true},
		{"ABSTAIN", true},
		{"999", false},
		{"abstain", false},
		{"Abstain", false},
		{"x", false},
		{"", false},
		{" 8", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateVote(deck.Fibonacci, tt.value), "value %q", tt.value)
	}

	assert.True(t, ValidateVote(deck.TShirt, "M"))
	assert.False(t, ValidateVote(deck.TShirt, "m"))
	assert.False(t, ValidateVote(deck.TShirt, "8"))
}

func TestSummarizeReasons(t *testing.T) {
	reasons := map[string]Reasons{
		"alice": {Low: "reuse existing client"},
		"bob":   {High: "unclear scope", Low: "maybe not"},
		"carol": {},
	}

	got := SummarizeReasons([]string{"bob", "carol", "alice", "dave"}, reasons)
	assert.Equal(t, "bob: HIGH unclear scope | bob: LOW maybe not | alice: LOW reuse existing client", got)

	assert.Equal(t, "", SummarizeReasons(nil, reasons))
}

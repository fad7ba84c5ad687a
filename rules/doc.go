// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package rules implements the outlier and finalization rules of an estimation
round.

# Outliers

ComputeOutliers finds the median of the cast votes, maps it onto the nearest
card, and flags every vote two or more cards away from it:

	out := rules.ComputeOutliers(deck.Fibonacci, []string{"1", "2", "3", "13", "21"}, rules.DefaultStepsAway)
	// median 3 → low {"1"}, high {"13", "21"}

# Reasons

An outlier voter must explain the vote before the decision is final. A low
outlier needs a LOW reason, a high outlier a HIGH reason:

	check := rules.CanFinalize(d, votes, reasons)
	if !check.OK {
		// check.MissingReasons lists participant ids in vote order
	}

# Window

IndexSpan is a different measure: the distance between the lowest and
highest card cast. The reveal step uses it to decide whether a round may be
finalized. It is not interchangeable with the median-based outlier check.
*/
package rules

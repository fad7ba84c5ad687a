// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package rules

import (
	"strings"

	"github.com/danielhkuo/estimation-lab/deck"
)

// Polarity says which side of the median a reason argues for.
type Polarity string

const (
	PolarityHigh Polarity = "HIGH"
	PolarityLow  Polarity = "LOW"
)

func (p Polarity) Valid() bool {
	return p == PolarityHigh || p == PolarityLow
}

// Reasons holds a participant's justification per polarity. Empty means absent.
type Reasons struct {
	High string
	Low  string
}

// ParticipantVote is one participant's cast vote. An empty Vote means no vote.
type ParticipantVote struct {
	ParticipantID string
	Vote          string
}

type FinalizeCheck struct {
	OK             bool
	MissingReasons []string
}

// CanFinalize reports whether every outlier voter has supplied a reason of
// the matching polarity. Votes are examined in slice order.
func CanFinalize(d deck.Deck, votes []ParticipantVote, reasons map[string]Reasons) FinalizeCheck {
	cast := make([]string, 0, len(votes))
	for _, pv := range votes {
		if pv.Vote != "" {
			cast = append(cast, pv.Vote)
		}
	}
	out := ComputeOutliers(d, cast, DefaultStepsAway)

	missing := []string{}
	for _, pv := range votes {
		if pv.Vote == "" {
			continue
		}
		r := reasons[pv.ParticipantID]
		if out.Low.Has(pv.Vote) && r.Low == "" {
			missing = append(missing, pv.ParticipantID)
		}
		if out.High.Has(pv.Vote) && r.High == "" {
			missing = append(missing, pv.ParticipantID)
		}
	}
	return FinalizeCheck{OK: len(missing) == 0, MissingReasons: missing}
}

// ValidateVote reports whether value is a card of d or the abstain sentinel.
func ValidateVote(d deck.Deck, value string) bool {
	return d.Contains(value) || value == deck.Abstain
}

// SummarizeReasons renders reasons for the audit trail, in the given
// participant order.
func SummarizeReasons(order []string, reasons map[string]Reasons) string {
	pieces := make([]string, 0, len(order))
	for _, pid := range order {
		r, ok := reasons[pid]
		if !ok {
			continue
		}
		if r.High != "" {
			pieces = append(pieces, pid+": HIGH "+r.High)
		}
		if r.Low != "" {
			pieces = append(pieces, pid+": LOW "+r.Low)
		}
	}
	return strings.Join(pieces, " | ")
}

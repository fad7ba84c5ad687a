// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"github.com/danielhkuo/estimation-lab/deck"
	"github.com/danielhkuo/estimation-lab/models"
	"github.com/danielhkuo/estimation-lab/rules"
)

// Readiness is the finalize verdict for the current round.
type Readiness struct {
	Status         string
	CanFinalize    bool     // every outlier has given a matching reason
	MissingReasons []string // outlier participant ids still owing a reason
	AllVoted       bool
	WithinWindow   bool
	Finalizable    bool // finalize_confirm would be accepted now
}

// Readiness reports which outliers still owe a reason and whether the
// revealed results would be accepted by finalize_confirm.
func (e *Engine) Readiness(s *models.Session) (Readiness, error) {
	d, err := deck.ForMethod(s.Method)
	if err != nil {
		return Readiness{}, badRequest("session has unknown method %q", s.Method)
	}

	votes := make([]rules.ParticipantVote, 0, len(s.Participants))
	for _, p := range s.Participants {
		pv := rules.ParticipantVote{ParticipantID: p.ID}
		if p.Voted && p.Vote != nil {
			pv.Vote = *p.Vote
		}
		votes = append(votes, pv)
	}
	check := rules.CanFinalize(d, votes, reasonMap(s.Round.Reasons))

	r := Readiness{
		Status:         s.Round.Status,
		CanFinalize:    check.OK,
		MissingReasons: check.MissingReasons,
	}
	if res := s.Round.Results; res != nil {
		r.AllVoted = res.AllVoted
		r.WithinWindow = res.WithinWindow
		r.Finalizable = res.AllVoted && res.WithinWindow && res.Rounded != nil
	}
	return r, nil
}

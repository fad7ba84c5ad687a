// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/estimation-lab/models"
)

const maxColorLen = 32

func (e *Engine) transferFacilitator(s *models.Session, a TransferFacilitator) error {
	if err := e.requireFacilitator(s, a.Actor()); err != nil {
		return err
	}
	p, err := e.requireParticipant(s, a.ParticipantID)
	if err != nil {
		return err
	}
	if p.ID == s.FacilitatorID {
		return nil
	}
	s.FacilitatorID = p.ID
	e.logActivity(s, fmt.Sprintf("%s is now the facilitator", p.Name))
	return nil
}

func (e *Engine) removeParticipant(s *models.Session, a RemoveParticipant) error {
	if err := e.requireFacilitator(s, a.Actor()); err != nil {
		return err
	}
	p, err := e.requireParticipant(s, a.ParticipantID)
	if err != nil {
		return err
	}
	if p.ID == s.FacilitatorID {
		return preconditionFailed("transfer the facilitator role before leaving")
	}
	id, name := p.ID, p.Name

	kept := make([]models.Participant, 0, len(s.Participants)-1)
	for _, q := range s.Participants {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	s.Participants = kept

	if s.Round.EditorID == id || s.Round.EditRequestedBy == id {
		releaseEditLock(&s.Round)
	}
	reasons := s.Round.Reasons[:0]
	for _, r := range s.Round.Reasons {
		if r.ParticipantID != id {
			reasons = append(reasons, r)
		}
	}
	s.Round.Reasons = reasons

	e.logActivity(s, fmt.Sprintf("%s left", name))
	return nil
}

func (e *Engine) raiseHand(s *models.Session, a RaiseHand) error {
	p, err := e.requireParticipant(s, a.Actor())
	if err != nil {
		return err
	}
	p.HandRaised = a.Raised
	if a.Raised {
		e.logActivity(s, fmt.Sprintf("%s raised a hand", p.Name))
	}
	return nil
}

func (e *Engine) setColor(s *models.Session, a SetColor) error {
	p, err := e.requireParticipant(s, a.Actor())
	if err != nil {
		return err
	}
	p.Color = truncate(strings.TrimSpace(a.Color), maxColorLen)
	return nil
}

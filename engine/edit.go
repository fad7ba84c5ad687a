// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/estimation-lab/models"
)

// suggestEdit asks the facilitator for the edit lock, optionally attaching
// proposed item text.
func (e *Engine) suggestEdit(s *models.Session, a SuggestEdit) error {
	actor := a.Actor()
	p, err := e.requireParticipant(s, actor)
	if err != nil {
		return err
	}
	if actor == s.FacilitatorID {
		return badRequest("the facilitator edits the item directly")
	}
	if s.Round.EditStatus == models.EditGranted {
		return preconditionFailed("%s is already editing", nameOf(s, s.Round.EditorID))
	}

	s.Round.EditStatus = models.EditRequested
	s.Round.EditRequestedBy = actor

	sg := models.Suggestion{
		By:                 actor,
		Title:              truncate(strings.TrimSpace(a.Title), models.MaxTitleLen),
		Description:        truncate(a.Description, models.MaxDescriptionLen),
		AcceptanceCriteria: truncate(a.AcceptanceCriteria, models.MaxDescriptionLen),
	}
	if sg.Title != "" || strings.TrimSpace(sg.Description) != "" || strings.TrimSpace(sg.AcceptanceCriteria) != "" {
		sg.ID = e.newID()
		sg.CreatedAt = e.now()
		s.Round.Suggestions = append(s.Round.Suggestions, sg)
	}
	e.logActivity(s, fmt.Sprintf("%s asked to edit", p.Name))
	return nil
}

func (e *Engine) grantEdit(s *models.Session, a GrantEdit) error {
	if err := e.requireFacilitator(s, a.Actor()); err != nil {
		return err
	}
	target := a.ParticipantID
	if target == "" {
		target = s.Round.EditRequestedBy
	}
	if target == "" {
		return preconditionFailed("no pending edit request")
	}
	p, err := e.requireParticipant(s, target)
	if err != nil {
		return err
	}

	s.Round.EditStatus = models.EditGranted
	s.Round.EditorID = target
	s.Round.EditRequestedBy = ""
	e.logActivity(s, fmt.Sprintf("%s may now edit", p.Name))
	return nil
}

func (e *Engine) finishEdit(s *models.Session, a FinishEdit) error {
	actor := a.Actor()
	if s.Round.EditStatus != models.EditGranted || s.Round.EditorID != actor {
		return preconditionFailed("you are not the current editor")
	}
	releaseEditLock(&s.Round)
	e.logActivity(s, fmt.Sprintf("%s finished editing", nameOf(s, actor)))
	return nil
}

func releaseEditLock(r *models.Round) {
	r.EditStatus = models.EditIdle
	r.EditorID = ""
	r.EditRequestedBy = ""
}

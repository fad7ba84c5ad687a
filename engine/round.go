// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/danielhkuo/estimation-lab/deck"
	"github.com/danielhkuo/estimation-lab/models"
	"github.com/danielhkuo/estimation-lab/rules"
)

// windowSpan is the widest index spread between cast votes that can still be finalized.
const windowSpan = 2

func (e *Engine) start(s *models.Session, a Start) error {
	if err := e.requireFacilitator(s, a.Actor()); err != nil {
		return err
	}

	s.Round = models.Round{
		Status:             models.StatusVoting,
		ItemTitle:          truncate(strings.TrimSpace(a.ItemTitle), models.MaxTitleLen),
		ItemDescription:    truncate(a.ItemDescription, models.MaxDescriptionLen),
		AcceptanceCriteria: truncate(a.AcceptanceCriteria, models.MaxDescriptionLen),
		EditStatus:         models.EditIdle,
	}
	s.ClearVotes()

	if s.Round.ItemTitle != "" {
		e.logActivity(s, fmt.Sprintf("Voting started on %q", s.Round.ItemTitle))
	} else {
		e.logActivity(s, "Voting started")
	}
	return nil
}

// vote casts or, with a nil value, clears a participant's vote.
func (e *Engine) vote(s *models.Session, actor, participantID string, value *string) error {
	if participantID == "" {
		participantID = actor
	}
	p, err := e.requireParticipant(s, participantID)
	if err != nil {
		return err
	}
	if actor != participantID {
		return forbidden("participants can only vote for themselves")
	}

	d, err := deck.ForMethod(s.Method)
	if err != nil {
		return badRequest("session has unknown method %q", s.Method)
	}
	if value != nil && !rules.ValidateVote(d, *value) {
		return badRequest("%q is not a card in the %s deck", *value, d.Name())
	}
	if s.Round.Status != models.StatusVoting {
		return preconditionFailed("round is not accepting votes")
	}

	if value == nil {
		p.Voted = false
		p.Vote = nil
		return nil
	}
	v := *value
	p.Voted = true
	p.Vote = &v
	return nil
}

func (e *Engine) reveal(s *models.Session, a Reveal) error {
	if err := e.requireFacilitator(s, a.Actor()); err != nil {
		return err
	}
	if s.Round.Status != models.StatusVoting && s.Round.Status != models.StatusRevealed {
		return preconditionFailed("nothing to reveal")
	}

	s.Round.Status = models.StatusRevealed
	s.Round.Results = nil
	if s.Method == models.MethodRefinementPoker {
		s.Round.Results = computeResults(deck.Fibonacci, s.Participants)
	}
	e.logActivity(s, "Votes revealed")
	return nil
}

// computeResults summarizes the cast votes. Average and rounded value are
// only set when every participant voted with a numeric card.
func computeResults(d deck.Deck, participants []models.Participant) *models.Results {
	res := &models.Results{AllVoted: len(participants) > 0}

	cast := make([]string, 0, len(participants))
	sum := 0.0
	for _, p := range participants {
		if !p.Voted || p.Vote == nil {
			res.AllVoted = false
			continue
		}
		cast = append(cast, *p.Vote)
		n, ok := d.Numeric(*p.Vote)
		if !ok {
			res.AllVoted = false
			continue
		}
		sum += n
	}

	out := rules.ComputeOutliers(d, cast, rules.DefaultStepsAway)
	for _, p := range participants {
		if !p.Voted || p.Vote == nil {
			continue
		}
		switch {
		case out.Low.Has(*p.Vote):
			res.LowOutliers = append(res.LowOutliers, p.ID)
		case out.High.Has(*p.Vote):
			res.HighOutliers = append(res.HighOutliers, p.ID)
		}
	}

	if !res.AllVoted {
		return res
	}

	res.Unanimous = true
	for _, v := range cast[1:] {
		if v != cast[0] {
			res.Unanimous = false
			break
		}
	}
	span, ok := rules.IndexSpan(d, cast)
	res.WithinWindow = ok && span <= windowSpan

	avg := sum / float64(len(cast))
	res.Average = &avg
	if rounded, ok := d.NearestValue(math.Ceil(avg)); ok {
		res.Rounded = &rounded
	}
	return res
}

func (e *Engine) revote(s *models.Session, a Revote) error {
	if err := e.requireFacilitator(s, a.Actor()); err != nil {
		return err
	}
	if s.Round.ItemTitle == "" {
		return nil
	}

	s.Round.Status = models.StatusVoting
	s.Round.Results = nil
	s.Round.Reasons = nil
	s.ClearVotes()
	e.logActivity(s, fmt.Sprintf("Revote on %q", s.Round.ItemTitle))
	return nil
}

func (e *Engine) update(s *models.Session, a Update) error {
	actor := a.Actor()
	isEditor := s.Round.EditStatus == models.EditGranted && s.Round.EditorID == actor
	if actor != s.FacilitatorID && !isEditor {
		return forbidden("only the facilitator or the granted editor can update the item")
	}

	if a.ItemTitle != nil {
		s.Round.ItemTitle = truncate(strings.TrimSpace(*a.ItemTitle), models.MaxTitleLen)
	}
	if a.ItemDescription != nil {
		s.Round.ItemDescription = truncate(*a.ItemDescription, models.MaxDescriptionLen)
	}
	if a.AcceptanceCriteria != nil {
		s.Round.AcceptanceCriteria = truncate(*a.AcceptanceCriteria, models.MaxDescriptionLen)
	}
	e.logActivity(s, fmt.Sprintf("%s updated the item", nameOf(s, actor)))
	return nil
}

func (e *Engine) finalize(s *models.Session, a FinalizeConfirm) error {
	if err := e.requireFacilitator(s, a.Actor()); err != nil {
		return err
	}
	res := s.Round.Results
	if res == nil || !res.AllVoted || !res.WithinWindow || res.Rounded == nil || res.Average == nil {
		return preconditionFailed("round is not ready to finalize")
	}

	title := s.Round.ItemTitle
	if title == "" {
		title = s.Title
	}
	var approved []models.Task
	for _, t := range s.Round.Tasks {
		if t.Status == models.TaskApproved {
			approved = append(approved, t)
		}
	}

	item := models.FinalizedItem{
		ID:                 e.newID(),
		Title:              title,
		Description:        s.Round.ItemDescription,
		AcceptanceCriteria: s.Round.AcceptanceCriteria,
		Tasks:              approved,
		Value:              *res.Rounded,
		Average:            *res.Average,
		ReasonSummary:      rules.SummarizeReasons(participantOrder(s), reasonMap(s.Round.Reasons)),
		DecidedAt:          e.now(),
	}
	s.FinalizedItems = append(s.FinalizedItems, item)
	s.Round = models.Round{Status: models.StatusIdle, EditStatus: models.EditIdle}
	s.ClearVotes()
	e.logActivity(s, fmt.Sprintf("Finalized %q at %s", item.Title, item.Value))
	return nil
}

func (e *Engine) addReason(s *models.Session, a AddReason) error {
	actor := a.Actor()
	p, err := e.requireParticipant(s, actor)
	if err != nil {
		return err
	}
	polarity := rules.Polarity(strings.ToUpper(strings.TrimSpace(a.Polarity)))
	if !polarity.Valid() {
		return badRequest("polarity must be HIGH or LOW")
	}
	text := truncate(strings.TrimSpace(a.Text), models.MaxReasonLen)
	if text == "" {
		return badRequest("reason text is required")
	}
	if s.Round.Status != models.StatusRevealed {
		return preconditionFailed("reasons can only be given after reveal")
	}
	if !p.Voted || p.Vote == nil {
		return preconditionFailed("only voters can give a reason")
	}

	d, err := deck.ForMethod(s.Method)
	if err != nil {
		return badRequest("session has unknown method %q", s.Method)
	}
	out := rules.ComputeOutliers(d, castVotes(s), rules.DefaultStepsAway)
	switch {
	case polarity == rules.PolarityLow && out.Low.Has(*p.Vote):
	case polarity == rules.PolarityHigh && out.High.Has(*p.Vote):
	default:
		return preconditionFailed("%s is not a %s outlier", p.Name, polarity)
	}

	for i := range s.Round.Reasons {
		r := &s.Round.Reasons[i]
		if r.ParticipantID == actor && r.Polarity == string(polarity) {
			r.Text = text
			return nil
		}
	}
	s.Round.Reasons = append(s.Round.Reasons, models.Reason{
		ParticipantID: actor,
		Polarity:      string(polarity),
		Text:          text,
	})
	e.logActivity(s, fmt.Sprintf("%s explained a %s vote", p.Name, strings.ToLower(string(polarity))))
	return nil
}

func castVotes(s *models.Session) []string {
	out := make([]string, 0, len(s.Participants))
	for _, p := range s.Participants {
		if p.Voted && p.Vote != nil {
			out = append(out, *p.Vote)
		}
	}
	return out
}

func participantOrder(s *models.Session) []string {
	out := make([]string, 0, len(s.Participants))
	for _, p := range s.Participants {
		out = append(out, p.ID)
	}
	return out
}

func reasonMap(reasons []models.Reason) map[string]rules.Reasons {
	out := make(map[string]rules.Reasons, len(reasons))
	for _, r := range reasons {
		cur := out[r.ParticipantID]
		switch rules.Polarity(r.Polarity) {
		case rules.PolarityHigh:
			cur.High = r.Text
		case rules.PolarityLow:
			cur.Low = r.Text
		}
		out[r.ParticipantID] = cur
	}
	return out
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/danielhkuo/estimation-lab/deck"
	"github.com/danielhkuo/estimation-lab/models"
)

const defaultParticipantName = "Guest"

// Engine applies actions to session snapshots. It holds no session state.
type Engine struct {
	now   func() time.Time
	newID func() string
}

type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDs overrides the id generator.
func WithIDs(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SessionParams describes a new session.
type SessionParams struct {
	Title    string
	TeamName string
	Method   string
	Code     string
	TTL      time.Duration
}

// NewSession builds an empty session with an idle round. An empty method
// means refinement poker; any other unknown method is rejected.
func (e *Engine) NewSession(p SessionParams) (*models.Session, error) {
	method := strings.TrimSpace(p.Method)
	if method == "" {
		method = models.MethodRefinementPoker
	}
	if _, err := deck.ForMethod(method); err != nil {
		return nil, badRequest("unknown method %q", p.Method)
	}

	now := e.now()
	s := &models.Session{
		ID:           e.newID(),
		Code:         p.Code,
		TeamName:     truncate(strings.TrimSpace(p.TeamName), models.MaxNameLen),
		Title:        truncate(strings.TrimSpace(p.Title), models.MaxTitleLen),
		Method:       method,
		Participants: []models.Participant{},
		Round:        models.Round{Status: models.StatusIdle, EditStatus: models.EditIdle},
		CreatedAt:    now,
	}
	if p.TTL > 0 {
		exp := now.Add(p.TTL)
		s.ExpiresAt = &exp
	}
	return s, nil
}

// Join adds a participant and returns the new snapshot and their id. The
// first participant of a session without a facilitator becomes facilitator.
func (e *Engine) Join(s *models.Session, name string) (*models.Session, string) {
	next := s.Clone()

	name = truncate(strings.TrimSpace(name), models.MaxNameLen)
	if name == "" {
		name = defaultParticipantName
	}

	p := models.Participant{ID: e.newID(), Name: name, JoinedAt: e.now()}
	next.Participants = append(next.Participants, p)
	if next.FacilitatorID == "" {
		next.FacilitatorID = p.ID
	}
	e.logActivity(next, fmt.Sprintf("%s joined", name))
	return next, p.ID
}

// Apply validates a against the snapshot and returns the resulting snapshot.
// On error the input is untouched and no snapshot is returned.
func (e *Engine) Apply(s *models.Session, a Action) (*models.Session, error) {
	if s == nil {
		return nil, notFound("session not found")
	}
	if a == nil {
		return nil, badRequest("action is required")
	}
	if strings.TrimSpace(a.Actor()) == "" {
		return nil, badRequest("actor_participant_id is required")
	}

	next := s.Clone()

	var err error
	switch a := a.(type) {
	case Start:
		err = e.start(next, a)
	case Vote:
		err = e.vote(next, a.Actor(), a.ParticipantID, a.Value)
	case Unvote:
		err = e.vote(next, a.Actor(), a.ParticipantID, nil)
	case Reveal:
		err = e.reveal(next, a)
	case Revote:
		err = e.revote(next, a)
	case Update:
		err = e.update(next, a)
	case FinalizeConfirm:
		err = e.finalize(next, a)
	case AddReason:
		err = e.addReason(next, a)
	case SuggestEdit:
		err = e.suggestEdit(next, a)
	case GrantEdit:
		err = e.grantEdit(next, a)
	case FinishEdit:
		err = e.finishEdit(next, a)
	case AddTask:
		err = e.addTask(next, a)
	case EditTask:
		err = e.editTask(next, a)
	case RemoveTask:
		err = e.removeTask(next, a)
	case ApproveTask:
		err = e.setTaskStatus(next, a.Actor(), a.TaskID, models.TaskApproved)
	case RejectTask:
		err = e.setTaskStatus(next, a.Actor(), a.TaskID, models.TaskRejected)
	case TransferFacilitator:
		err = e.transferFacilitator(next, a)
	case RemoveParticipant:
		err = e.removeParticipant(next, a)
	case RaiseHand:
		err = e.raiseHand(next, a)
	case SetColor:
		err = e.setColor(next, a)
	default:
		err = badRequest("unknown action %q", a.Name())
	}
	if err != nil {
		return nil, err
	}
	return next, nil
}

func (e *Engine) requireFacilitator(s *models.Session, actor string) error {
	if s.FacilitatorID == "" || s.FacilitatorID != actor {
		return forbidden("only the facilitator can do that")
	}
	return nil
}

func (e *Engine) requireParticipant(s *models.Session, id string) (*models.Participant, error) {
	p := s.Participant(id)
	if p == nil {
		return nil, notFound("participant %s not found", id)
	}
	return p, nil
}

func (e *Engine) logActivity(s *models.Session, text string) {
	s.Activity = append(s.Activity, models.ActivityEntry{At: e.now(), Text: text})
	if n := len(s.Activity); n > models.MaxActivity {
		s.Activity = append([]models.ActivityEntry(nil), s.Activity[n-models.MaxActivity:]...)
	}
}

func nameOf(s *models.Session, id string) string {
	if p := s.Participant(id); p != nil {
		return p.Name
	}
	return "Someone"
}

// truncate caps s at limit runes.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit])
}

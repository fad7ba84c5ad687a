// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/estimation-lab/models"
)

func (e *Engine) addTask(s *models.Session, a AddTask) error {
	p, err := e.requireParticipant(s, a.Actor())
	if err != nil {
		return err
	}
	text := truncate(strings.TrimSpace(a.Text), models.MaxTaskLen)
	if text == "" {
		return badRequest("task text is required")
	}
	if s.Round.Status == models.StatusIdle {
		return preconditionFailed("no active item")
	}

	s.Round.Tasks = append(s.Round.Tasks, models.Task{
		ID:        e.newID(),
		Text:      text,
		By:        p.ID,
		Status:    models.TaskPending,
		CreatedAt: e.now(),
	})
	e.logActivity(s, fmt.Sprintf("%s added a task", p.Name))
	return nil
}

func (e *Engine) editTask(s *models.Session, a EditTask) error {
	t, err := e.ownedTask(s, a.Actor(), a.TaskID)
	if err != nil {
		return err
	}
	text := truncate(strings.TrimSpace(a.Text), models.MaxTaskLen)
	if text == "" {
		return badRequest("task text is required")
	}
	t.Text = text
	return nil
}

func (e *Engine) removeTask(s *models.Session, a RemoveTask) error {
	if _, err := e.ownedTask(s, a.Actor(), a.TaskID); err != nil {
		return err
	}
	tasks := s.Round.Tasks[:0]
	for _, t := range s.Round.Tasks {
		if t.ID != a.TaskID {
			tasks = append(tasks, t)
		}
	}
	s.Round.Tasks = tasks
	e.logActivity(s, fmt.Sprintf("%s removed a task", nameOf(s, a.Actor())))
	return nil
}

func (e *Engine) setTaskStatus(s *models.Session, actor, taskID, status string) error {
	if err := e.requireFacilitator(s, actor); err != nil {
		return err
	}
	if s.Round.Status == models.StatusIdle {
		return preconditionFailed("no active item")
	}
	t := findTask(&s.Round, taskID)
	if t == nil {
		return notFound("task %s not found", taskID)
	}
	t.Status = status
	return nil
}

// ownedTask returns a task the actor may change: their own, or any task for the facilitator.
func (e *Engine) ownedTask(s *models.Session, actor, taskID string) (*models.Task, error) {
	if _, err := e.requireParticipant(s, actor); err != nil {
		return nil, err
	}
	if s.Round.Status == models.StatusIdle {
		return nil, preconditionFailed("no active item")
	}
	t := findTask(&s.Round, taskID)
	if t == nil {
		return nil, notFound("task %s not found", taskID)
	}
	if t.By != actor && s.FacilitatorID != actor {
		return nil, forbidden("only the author or the facilitator can change a task")
	}
	return t, nil
}

func findTask(r *models.Round, id string) *models.Task {
	for i := range r.Tasks {
		if r.Tasks[i].ID == id {
			return &r.Tasks[i]
		}
	}
	return nil
}

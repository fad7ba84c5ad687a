// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/estimation-lab/models"
)

func TestEditLock(t *testing.T) {
	f := newFixture(t, "", "Ann", "Bob")
	f.start("Login")

	f.reject(SuggestEdit{Base: f.by("Fac")}, KindBadRequest)
	f.reject(GrantEdit{Base: f.by("Fac")}, KindPreconditionFailed)
	f.reject(FinishEdit{Base: f.by("Ann")}, KindPreconditionFailed)

	f.apply(SuggestEdit{Base: f.by("Ann"), Title: "Login with SSO"})
	assert.Equal(t, models.EditRequested, f.s.Round.EditStatus)
	assert.Equal(t, f.ids["Ann"], f.s.Round.EditRequestedBy)
	require.Len(t, f.s.Round.Suggestions, 1)
	assert.Equal(t, "Login with SSO", f.s.Round.Suggestions[0].Title)
	assert.Equal(t, f.ids["Ann"], f.s.Round.Suggestions[0].By)

	f.reject(GrantEdit{Base: f.by("Ann")}, KindForbidden)
	f.apply(GrantEdit{Base: f.by("Fac")})
	assert.Equal(t, models.EditGranted, f.s.Round.EditStatus)
	assert.Equal(t, f.ids["Ann"], f.s.Round.EditorID)
	assert.Empty(t, f.s.Round.EditRequestedBy)

	f.reject(SuggestEdit{Base: f.by("Bob")}, KindPreconditionFailed)
	f.reject(FinishEdit{Base: f.by("Bob")}, KindPreconditionFailed)

	f.apply(FinishEdit{Base: f.by("Ann")})
	assert.Equal(t, models.EditIdle, f.s.Round.EditStatus)
	assert.Empty(t, f.s.Round.EditorID)

	f.apply(SuggestEdit{Base: f.by("Bob")})
	assert.Len(t, f.s.Round.Suggestions, 1, "a bare request adds no suggestion")
}

func TestGrantEditExplicitTarget(t *testing.T) {
	f := newFixture(t, "", "Ann", "Bob")
	f.reject(GrantEdit{Base: f.by("Fac"), ParticipantID: "ghost"}, KindNotFound)

	f.apply(SuggestEdit{Base: f.by("Ann")})
	f.apply(GrantEdit{Base: f.by("Fac"), ParticipantID: f.ids["Bob"]})
	assert.Equal(t, f.ids["Bob"], f.s.Round.EditorID)
}

func TestTasks(t *testing.T) {
	f := newFixture(t, "", "Ann", "Bob")
	f.reject(AddTask{Base: f.by("Ann"), Text: "schema"}, KindPreconditionFailed)

	f.start("Login")
	f.reject(AddTask{Base: f.by("Ann"), Text: "  "}, KindBadRequest)
	f.reject(AddTask{Base: Base{ActorParticipantID: "ghost"}, Text: "schema"}, KindNotFound)

	f.apply(AddTask{Base: f.by("Ann"), Text: "schema"})
	require.Len(t, f.s.Round.Tasks, 1)
	task := f.s.Round.Tasks[0]
	assert.Equal(t, f.ids["Ann"], task.By)
	assert.Equal(t, models.TaskPending, task.Status)

	f.reject(EditTask{Base: f.by("Bob"), TaskID: task.ID, Text: "hijack"}, KindForbidden)
	f.reject(EditTask{Base: f.by("Ann"), TaskID: "missing", Text: "x"}, KindNotFound)
	f.reject(EditTask{Base: f.by("Ann"), TaskID: task.ID, Text: ""}, KindBadRequest)
	f.apply(EditTask{Base: f.by("Ann"), TaskID: task.ID, Text: "schema v2"})
	f.apply(EditTask{Base: f.by("Fac"), TaskID: task.ID, Text: "schema v3"})
	assert.Equal(t, "schema v3", f.s.Round.Tasks[0].Text)

	f.reject(ApproveTask{Base: f.by("Ann"), TaskID: task.ID}, KindForbidden)
	f.reject(ApproveTask{Base: f.by("Fac"), TaskID: "missing"}, KindNotFound)
	f.apply(ApproveTask{Base: f.by("Fac"), TaskID: task.ID})
	assert.Equal(t, models.TaskApproved, f.s.Round.Tasks[0].Status)
	f.apply(RejectTask{Base: f.by("Fac"), TaskID: task.ID})
	assert.Equal(t, models.TaskRejected, f.s.Round.Tasks[0].Status)

	f.reject(RemoveTask{Base: f.by("Bob"), TaskID: task.ID}, KindForbidden)
	f.apply(RemoveTask{Base: f.by("Ann"), TaskID: task.ID})
	assert.Empty(t, f.s.Round.Tasks)
}

func TestParticipants(t *testing.T) {
	t.Run("transfer facilitator", func(t *testing.T) {
		f := newFixture(t, "", "Ann")
		f.reject(TransferFacilitator{Base: f.by("Ann"), ParticipantID: f.ids["Ann"]}, KindForbidden)
		f.reject(TransferFacilitator{Base: f.by("Fac"), ParticipantID: "ghost"}, KindNotFound)

		f.apply(TransferFacilitator{Base: f.by("Fac"), ParticipantID: f.ids["Ann"]})
		assert.Equal(t, f.ids["Ann"], f.s.FacilitatorID)
		f.reject(Start{Base: f.by("Fac")}, KindForbidden)
		f.apply(Start{Base: f.by("Ann")})
	})

	t.Run("remove participant", func(t *testing.T) {
		f := newFixture(t, "", "Ann", "Bob")
		f.reject(RemoveParticipant{Base: f.by("Fac"), ParticipantID: f.ids["Fac"]}, KindPreconditionFailed)
		f.reject(RemoveParticipant{Base: f.by("Ann"), ParticipantID: f.ids["Bob"]}, KindForbidden)

		f.apply(SuggestEdit{Base: f.by("Bob")})
		f.apply(GrantEdit{Base: f.by("Fac")})
		f.apply(RemoveParticipant{Base: f.by("Fac"), ParticipantID: f.ids["Bob"]})
		assert.Nil(t, f.s.Participant(f.ids["Bob"]))
		assert.Len(t, f.s.Participants, 2)
		assert.Equal(t, models.EditIdle, f.s.Round.EditStatus)
		assert.Empty(t, f.s.Round.EditorID)
	})

	t.Run("raise hand and color", func(t *testing.T) {
		f := newFixture(t, "", "Ann")
		f.apply(RaiseHand{Base: f.by("Ann"), Raised: true})
		assert.True(t, f.s.Participant(f.ids["Ann"]).HandRaised)
		f.apply(RaiseHand{Base: f.by("Ann")})
		assert.False(t, f.s.Participant(f.ids["Ann"]).HandRaised)

		f.apply(SetColor{Base: f.by("Ann"), Color: " #ff8800 "})
		assert.Equal(t, "#ff8800", f.s.Participant(f.ids["Ann"]).Color)
		f.reject(SetColor{Base: Base{ActorParticipantID: "ghost"}, Color: "red"}, KindNotFound)
	})
}

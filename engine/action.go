// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"encoding/json"
	"strings"
)

// Action names accepted in the envelope's "action" field
const (
	ActionStart               = "start"
	ActionVote                = "vote"
	ActionUnvote              = "unvote"
	ActionReveal              = "reveal"
	ActionRevote              = "revote"
	ActionUpdate              = "update"
	ActionFinalizeConfirm     = "finalize_confirm"
	ActionAddReason           = "add_reason"
	ActionSuggestEdit         = "suggest_edit"
	ActionGrantEdit           = "grant_edit"
	ActionFinishEdit          = "finish_edit"
	ActionAddTask             = "add_task"
	ActionEditTask            = "edit_task"
	ActionRemoveTask          = "remove_task"
	ActionApproveTask         = "approve_task"
	ActionRejectTask          = "reject_task"
	ActionTransferFacilitator = "transfer_facilitator"
	ActionRemoveParticipant   = "remove_participant"
	ActionRaiseHand           = "raise_hand"
	ActionSetColor            = "set_color"
)

// Action is one client request against a session. The concrete types below
// form a closed set; Apply rejects anything else.
type Action interface {
	Name() string
	Actor() string
}

// Base carries the acting participant, required on every action.
type Base struct {
	ActorParticipantID string `json:"actor_participant_id"`
}

func (b Base) Actor() string { return b.ActorParticipantID }

type Start struct {
	Base
	ItemTitle          string `json:"item_title"`
	ItemDescription    string `json:"item_description"`
	AcceptanceCriteria string `json:"acceptance_criteria"`
}

// Vote casts Value for ParticipantID (defaults to the actor). A nil Value clears the vote.
type Vote struct {
	Base
	ParticipantID string  `json:"participant_id"`
	Value         *string `json:"value"`
}

type Unvote struct {
	Base
	ParticipantID string `json:"participant_id"`
}

type Reveal struct{ Base }

type Revote struct{ Base }

// Update overwrites only the fields that are set.
type Update struct {
	Base
	ItemTitle          *string `json:"item_title"`
	ItemDescription    *string `json:"item_description"`
	AcceptanceCriteria *string `json:"acceptance_criteria"`
}

type FinalizeConfirm struct{ Base }

type AddReason struct {
	Base
	Polarity string `json:"polarity"`
	Text     string `json:"text"`
}

type SuggestEdit struct {
	Base
	Title              string `json:"title"`
	Description        string `json:"description"`
	AcceptanceCriteria string `json:"acceptance_criteria"`
}

// GrantEdit hands the edit lock to ParticipantID, or to the pending requester when empty.
type GrantEdit struct {
	Base
	ParticipantID string `json:"participant_id"`
}

type FinishEdit struct{ Base }

type AddTask struct {
	Base
	Text string `json:"text"`
}

type EditTask struct {
	Base
	TaskID string `json:"task_id"`
	Text   string `json:"text"`
}

type RemoveTask struct {
	Base
	TaskID string `json:"task_id"`
}

type ApproveTask struct {
	Base
	TaskID string `json:"task_id"`
}

type RejectTask struct {
	Base
	TaskID string `json:"task_id"`
}

type TransferFacilitator struct {
	Base
	ParticipantID string `json:"participant_id"`
}

type RemoveParticipant struct {
	Base
	ParticipantID string `json:"participant_id"`
}

type RaiseHand struct {
	Base
	Raised bool `json:"raised"`
}

type SetColor struct {
	Base
	Color string `json:"color"`
}

func (Start) Name() string               { return ActionStart }
func (Vote) Name() string                { return ActionVote }
func (Unvote) Name() string              { return ActionUnvote }
func (Reveal) Name() string              { return ActionReveal }
func (Revote) Name() string              { return ActionRevote }
func (Update) Name() string              { return ActionUpdate }
func (FinalizeConfirm) Name() string     { return ActionFinalizeConfirm }
func (AddReason) Name() string           { return ActionAddReason }
func (SuggestEdit) Name() string         { return ActionSuggestEdit }
func (GrantEdit) Name() string           { return ActionGrantEdit }
func (FinishEdit) Name() string          { return ActionFinishEdit }
func (AddTask) Name() string             { return ActionAddTask }
func (EditTask) Name() string            { return ActionEditTask }
func (RemoveTask) Name() string          { return ActionRemoveTask }
func (ApproveTask) Name() string         { return ActionApproveTask }
func (RejectTask) Name() string          { return ActionRejectTask }
func (TransferFacilitator) Name() string { return ActionTransferFacilitator }
func (RemoveParticipant) Name() string   { return ActionRemoveParticipant }
func (RaiseHand) Name() string           { return ActionRaiseHand }
func (SetColor) Name() string            { return ActionSetColor }

// DecodeAction parses an action envelope. Unknown action names, malformed
// payloads and a missing actor are BadRequest errors.
func DecodeAction(data []byte) (Action, error) {
	var env struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, badRequest("invalid action envelope")
	}

	var (
		action Action
		err    error
	)
	switch env.Action {
	case ActionStart:
		action, err = decodeAs[Start](data)
	case ActionVote:
		action, err = decodeAs[Vote](data)
	case ActionUnvote:
		action, err = decodeAs[Unvote](data)
	case ActionReveal:
		action, err = decodeAs[Reveal](data)
	case ActionRevote:
		action, err = decodeAs[Revote](data)
	case ActionUpdate:
		action, err = decodeAs[Update](data)
	case ActionFinalizeConfirm:
		action, err = decodeAs[FinalizeConfirm](data)
	case ActionAddReason:
		action, err = decodeAs[AddReason](data)
	case ActionSuggestEdit:
		action, err = decodeAs[SuggestEdit](data)
	case ActionGrantEdit:
		action, err = decodeAs[GrantEdit](data)
	case ActionFinishEdit:
		action, err = decodeAs[FinishEdit](data)
	case ActionAddTask:
		action, err = decodeAs[AddTask](data)
	case ActionEditTask:
		action, err = decodeAs[EditTask](data)
	case ActionRemoveTask:
		action, err = decodeAs[RemoveTask](data)
	case ActionApproveTask:
		action, err = decodeAs[ApproveTask](data)
	case ActionRejectTask:
		action, err = decodeAs[RejectTask](data)
	case ActionTransferFacilitator:
		action, err = decodeAs[TransferFacilitator](data)
	case ActionRemoveParticipant:
		action, err = decodeAs[RemoveParticipant](data)
	case ActionRaiseHand:
		action, err = decodeAs[RaiseHand](data)
	case ActionSetColor:
		action, err = decodeAs[SetColor](data)
	case "":
		return nil, badRequest("action is required")
	default:
		return nil, badRequest("unknown action %q", env.Action)
	}
	if err != nil {
		return nil, badRequest("invalid %s payload", env.Action)
	}
	if strings.TrimSpace(action.Actor()) == "" {
		return nil, badRequest("actor_participant_id is required")
	}
	return action, nil
}

func decodeAs[T Action](data []byte) (Action, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

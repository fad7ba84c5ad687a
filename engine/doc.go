// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine runs the estimation round state machine over session snapshots.

# Actions

Clients send an action envelope naming the action and the acting participant:

	{"action": "vote", "actor_participant_id": "p1", "value": "5"}

DecodeAction turns the envelope into one of the typed actions (Start, Vote,
Reveal, FinalizeConfirm, ...). Apply checks every guard against a copy of the
snapshot and returns the new snapshot, or an *Error and no snapshot:

	eng := engine.New()
	next, err := eng.Apply(session, engine.Reveal{Base: engine.Base{ActorParticipantID: fid}})

# Round Lifecycle

	idle ──start──▶ voting ──reveal──▶ revealed ──finalize_confirm──▶ idle
	                  ▲                   │
	                  └──────revote───────┘

Start, revote and finalize_confirm clear all votes. Results exist only while
the round is revealed.

# Errors

Every rejection is an *Error with a Kind that maps onto an HTTP status:

	NotFound → 404, Forbidden → 403, BadRequest → 400,
	PreconditionFailed → 412, Conflict → 409

Use errors.Is with the sentinel values (ErrForbidden, ...) to match a kind.
*/
package engine

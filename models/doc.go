// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSessionRequest: title, team_name, method, join_code, ttl_seconds
  - JoinByCodeRequest: code, name
  - SelfJoinRequest: name
  - VoteRequest: participant_id, value (null clears)

Round actions are decoded by the engine package, not here.

# Response Types

Types for JSON responses:

  - CreateSessionResponse: id, code, team_name, join_url, facilitator_key
  - JoinResponse: session_id, participant_id, facilitator_id
  - LookupResponse: id
  - ReadinessResponse: can_finalize, missing_reasons, window verdict
  - HistoryResponse: finalized items with decided_ago
  - ErrorResponse: error, message, missing

# Domain Types

Session is the unit of storage. The whole snapshot is read, changed and
written back for every action:

  - Session: participants, current round, finalized items, activity log
  - Participant: name, vote, raised hand, color
  - Round: status, item text, edit lock, results, tasks, suggestions, reasons
  - Results: average, rounded card, outliers, window verdict
  - FinalizedItem: immutable record of one decided item

Version is the optimistic concurrency token; stores only accept a write
carrying the version they hold.

# Constants

Round status: StatusIdle, StatusVoting, StatusRevealed

Methods: MethodRefinementPoker (Fibonacci deck), MethodBusinessValue (T-shirt deck)

Realtime events: EventSessionJoined, EventSessionUpdated, EventSessionDeleted, EventSubscribed
*/
package models

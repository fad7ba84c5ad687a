package models

import (
	"encoding/json"
	"time"
)

// Round status constants
const (
	StatusIdle     = "idle"
	StatusVoting   = "voting"
	StatusRevealed = "revealed"
)

// Estimation method constants
const (
	MethodRefinementPoker = "refinement_poker"
	MethodBusinessValue   = "business_value"
)

// Edit lock constants
const (
	EditIdle      = "idle"
	EditRequested = "requested"
	EditGranted   = "granted"
)

// Task status constants
const (
	TaskPending  = "pending"
	TaskApproved = "approved"
	TaskRejected = "rejected"
)

// Text limits
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 5000
	MaxNameLen        = 40
	MaxTaskLen        = 500
	MaxReasonLen      = 1000
	MaxActivity       = 50
)

// Request types

type CreateSessionRequest struct {
	Title      string `json:"title"`
	TeamName   string `json:"team_name"`
	Method     string `json:"method"`
	JoinCode   string `json:"join_code"`
	TTLSeconds *int   `json:"ttl_seconds,omitempty"`
}

type JoinByCodeRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type SelfJoinRequest struct {
	Name string `json:"name"`
}

// VoteRequest is the body of the convenience vote route. A null value clears the vote.
type VoteRequest struct {
	ParticipantID string  `json:"participant_id"`
	Value         *string `json:"value"`
}

// Response types

type CreateSessionResponse struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	TeamName       string `json:"team_name"`
	JoinURL        string `json:"join_url"`
	FacilitatorKey string `json:"facilitator_key"`
}

type JoinResponse struct {
	SessionID     string `json:"session_id"`
	ParticipantID string `json:"participant_id"`
	FacilitatorID string `json:"facilitator_id,omitempty"`
}

type LookupResponse struct {
	ID string `json:"id"`
}

type ReadinessResponse struct {
	Status         string   `json:"status"`
	CanFinalize    bool     `json:"can_finalize"`
	MissingReasons []string `json:"missing_reasons"`
	WithinWindow   bool     `json:"within_window"`
	AllVoted       bool     `json:"all_voted"`
	Finalizable    bool     `json:"finalizable"`
}

type HistoryEntry struct {
	FinalizedItem
	DecidedAgo string `json:"decided_ago"`
}

type HistoryResponse struct {
	SessionID string         `json:"session_id"`
	Items     []HistoryEntry `json:"items"`
}

// Domain types

type Participant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Voted      bool      `json:"voted"`
	Vote       *string   `json:"vote,omitempty"`
	Color      string    `json:"color,omitempty"`
	HandRaised bool      `json:"hand_raised,omitempty"`
	JoinedAt   time.Time `json:"joined_at"`
}

type Results struct {
	AllVoted     bool     `json:"all_voted"`
	Unanimous    bool     `json:"unanimous"`
	WithinWindow bool     `json:"within_window"`
	Average      *float64 `json:"average,omitempty"`
	Rounded      *string  `json:"rounded,omitempty"`
	LowOutliers  []string `json:"low_outliers,omitempty"`
	HighOutliers []string `json:"high_outliers,omitempty"`
}

type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	By        string    `json:"by"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Suggestion is proposed item text from a participant without the edit lock.
type Suggestion struct {
	ID                 string    `json:"id"`
	By                 string    `json:"by"`
	Title              string    `json:"title,omitempty"`
	Description        string    `json:"description,omitempty"`
	AcceptanceCriteria string    `json:"acceptance_criteria,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Reason is an outlier voter's justification.
type Reason struct {
	ParticipantID string `json:"participant_id"`
	Polarity      string `json:"polarity"`
	Text          string `json:"text"`
}

type Round struct {
	Status             string       `json:"status"`
	ItemTitle          string       `json:"item_title,omitempty"`
	ItemDescription    string       `json:"item_description,omitempty"`
	AcceptanceCriteria string       `json:"acceptance_criteria,omitempty"`
	EditStatus         string       `json:"edit_status,omitempty"`
	EditorID           string       `json:"editor_id,omitempty"`
	EditRequestedBy    string       `json:"edit_requested_by,omitempty"`
	Results            *Results     `json:"results,omitempty"`
	Tasks              []Task       `json:"tasks,omitempty"`
	Suggestions        []Suggestion `json:"suggestions,omitempty"`
	Reasons            []Reason     `json:"reasons,omitempty"`
}

type FinalizedItem struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	AcceptanceCriteria string    `json:"acceptance_criteria,omitempty"`
	Tasks              []Task    `json:"tasks,omitempty"`
	Value              string    `json:"value"`
	Average            float64   `json:"average"`
	ReasonSummary      string    `json:"reason_summary,omitempty"`
	DecidedAt          time.Time `json:"decided_at"`
}

type ActivityEntry struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
}

// Session is the whole snapshot read, mutated and written back per action.
type Session struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Slug           string          `json:"slug,omitempty"`
	TeamName       string          `json:"team_name,omitempty"`
	Title          string          `json:"title"`
	Method         string          `json:"method"`
	Participants   []Participant   `json:"participants"`
	Round          Round           `json:"round"`
	FacilitatorID  string          `json:"facilitator_id,omitempty"`
	FinalizedItems []FinalizedItem `json:"finalized_items,omitempty"`
	Activity       []ActivityEntry `json:"activity,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	Version        int64           `json:"version"`
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	var out Session
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	return &out
}

// Participant returns the participant with id, or nil.
func (s *Session) Participant(id string) *Participant {
	for i := range s.Participants {
		if s.Participants[i].ID == id {
			return &s.Participants[i]
		}
	}
	return nil
}

// ClearVotes resets every participant's vote.
func (s *Session) ClearVotes() {
	for i := range s.Participants {
		s.Participants[i].Voted = false
		s.Participants[i].Vote = nil
	}
}

// Realtime

const (
	EventSessionJoined  = "session_joined"
	EventSessionUpdated = "session_updated"
	EventSessionDeleted = "session_deleted"
	EventSubscribed     = "subscribed"
)

type Event struct {
	Type               string    `json:"type"`
	SessionID          string    `json:"session_id"`
	Action             string    `json:"action,omitempty"`
	ActorParticipantID string    `json:"actor_participant_id,omitempty"`
	Version            int64     `json:"version"`
	At                 time.Time `json:"at"`
}

// Error response

type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

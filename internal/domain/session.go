package domain

import (
	"time"
)

// State identifies the caller's position in the intake conversation.
type State string

const (
	StateWelcome         State = "welcome"
	StateGatherBatch     State = "gather_batch"
	StateAskName         State = "ask_name"
	StateGatherName      State = "gather_name"
	StateAskType         State = "ask_type"
	StateRecording       State = "recording"
	StateRecordComplete  State = "record_complete"
	StatePlaybackConfirm State = "playback_confirm"
	StateConfirmEdit     State = "confirm_edit"
	StateConfirmAccept   State = "confirm_accept"
	StateOperator        State = "operator"
)

// stateOrder positions each state in the nominal forward flow. The edit loop
// is the only path allowed to move a session to a lower position.
var stateOrder = map[State]int{ //nolint:gochecknoglobals // static lookup table
	StateWelcome:         0,
	StateGatherBatch:     1,
	StateAskName:         2,
	StateGatherName:      3,
	StateAskType:         4,
	StateRecording:       5,
	StateRecordComplete:  6,
	StatePlaybackConfirm: 7,
	StateConfirmEdit:     8,
	StateConfirmAccept:   9,
	StateOperator:        10,
}

// Order returns the state's position in the nominal flow.
func (s State) Order() int { return stateOrder[s] }

// Terminal reports whether the conversation issues no further prompts from s.
func (s State) Terminal() bool { return s == StateConfirmAccept || s == StateOperator }

// Session is the per-call mutable conversation record, keyed by the
// provider's opaque call identifier.
type Session struct {
	CallID        string        `json:"call_id"`
	State         State         `json:"state"`
	CallerNumber  string        `json:"caller_number,omitempty"`
	BatchNumber   string        `json:"batch_number,omitempty"`
	CallerName    string        `json:"caller_name,omitempty"`
	ComplaintType string        `json:"complaint_type,omitempty"`
	RecordingRef  string        `json:"recording_ref,omitempty"`
	Description   string        `json:"description,omitempty"`
	ComplaintID   string        `json:"complaint_id,omitempty"`
	CallStatus    string        `json:"call_status,omitempty"`
	Retries       map[State]int `json:"retries,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Finalized reports whether a complaint ID has been assigned. Once finalized,
// no field other than CallStatus may change.
func (s *Session) Finalized() bool { return s.ComplaintID != "" }

// RetryCount returns the number of re-prompt attempts issued for st.
func (s *Session) RetryCount(st State) int { return s.Retries[st] }

// IncrementRetry bumps the re-prompt counter for st and returns the new count.
func (s *Session) IncrementRetry(st State) int {
	if s.Retries == nil {
		s.Retries = make(map[State]int)
	}
	s.Retries[st]++
	return s.Retries[st]
}

// Clone returns a deep copy so callers never share mutable state with the store.
func (s *Session) Clone() *Session {
	c := *s
	if s.Retries != nil {
		c.Retries = make(map[State]int, len(s.Retries))
		for k, v := range s.Retries {
			c.Retries[k] = v
		}
	}
	return &c
}

// SessionStore is the keyed per-call state container. Update for a given call
// ID is linearizable with respect to other Update/GetOrCreate calls on the
// same ID; operations on distinct IDs never block one another.
type SessionStore interface {
	// GetOrCreate returns a copy of the session for callID, creating it in
	// StateWelcome when the ID has not been seen.
	GetOrCreate(callID string) *Session
	// Get returns a copy of the session, or false when the ID is unknown.
	Get(callID string) (*Session, bool)
	// Update applies fn atomically to the session and returns a copy of the
	// result. Only fields touched by fn (and UpdatedAt) change.
	Update(callID string, fn func(*Session)) (*Session, error)
	// Delete removes the session. Missing IDs are a no-op.
	Delete(callID string)
}

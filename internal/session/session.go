// Package session holds the in-progress dialogue state for each user: which
// prompt is pending and the answers collected so far. It is owned exclusively
// by the dialogue state machine; committed data never lives here.
package session

import "time"

// State identifies a dialogue step a user is currently on.
type State string

const (
	// StateIdle indicates there is no active dialogue with the user.
	StateIdle State = "idle"
	// StateDone marks a dialogue whose answers were committed but whose
	// session was not yet cleared. Reads treat it as absent and purge it,
	// so a crash between commit and clear cannot resurrect the form.
	StateDone State = "done"
)

// Session stores the step marker and partial answers for one user's dialogue.
type Session struct {
	State     State
	Data      map[string]any
	UpdatedAt time.Time
}

// New returns a fresh session positioned at the given step with no answers.
func New(state State) *Session {
	return &Session{
		State: state,
		Data:  make(map[string]any),
	}
}

// Set records an answer value under the given field name.
func (s *Session) Set(field string, value any) {
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[field] = value
}

// String returns a text answer by field name.
func (s *Session) String(field string) (string, bool) {
	v, ok := s.Data[field]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// Float returns a numeric answer by field name.
func (s *Session) Float(field string) (float64, bool) {
	v, ok := s.Data[field]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func (s *Session) clone() *Session {
	data := make(map[string]any, len(s.Data))
	for k, v := range s.Data {
		data[k] = v
	}
	return &Session{State: s.State, Data: data, UpdatedAt: s.UpdatedAt}
}

// Store persists dialogue sessions keyed by Telegram user id.
type Store interface {
	// Get returns the user's active session, or false when none exists.
	Get(userID int64) (*Session, bool)
	// Put stores the session for the user, stamping its update time.
	Put(userID int64, s *Session)
	// Clear removes the user's session.
	Clear(userID int64)
	// InProgress reports whether the user has an active dialogue.
	InProgress(userID int64) bool
}

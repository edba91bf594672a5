// Package session owns the per-session mutable state: the student's
// in-progress schedule, their term, and their self-reported completed
// courses. One session never shares state with another; the embedding app
// passes the state explicitly into each dispatch.
package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coursepilot/coursepilot/advisor/catalog"
	"github.com/coursepilot/coursepilot/advisor/schedule"
)

var (
	ErrStateNotFound   = errors.New("session state not found")
	ErrNilSessionState = errors.New("session state is nil")
	ErrInvalidSession  = errors.New("session id is empty")
)

type SessionState struct {
	SessionID string           `json:"session_id"`
	StudentID string           `json:"student_id,omitempty"`
	Term      catalog.TermCode `json:"term"`

	// Completed is self-reported and may be incomplete; prerequisite
	// findings derived from it are advisory only.
	Completed []catalog.CourseID `json:"completed,omitempty"`

	Schedule *schedule.Schedule `json:"schedule"`

	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSessionState(sessionID, studentID string, term catalog.TermCode, now time.Time) *SessionState {
	return &SessionState{
		SessionID: sessionID,
		StudentID: studentID,
		Term:      term,
		Schedule:  schedule.New(),
		Version:   1,
		UpdatedAt: now.UTC(),
	}
}

func (s *SessionState) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// EnsureSchedule makes sure the schedule container is initialized.
func (s *SessionState) EnsureSchedule() {
	if s.Schedule == nil {
		s.Schedule = schedule.New()
	}
}

// MarkCompleted records a finished course, once.
func (s *SessionState) MarkCompleted(id catalog.CourseID) {
	for _, c := range s.Completed {
		if c == id {
			return
		}
	}
	s.Completed = append(s.Completed, id)
}

// CompletedSet returns the completed courses as a lookup set.
func (s *SessionState) CompletedSet() map[catalog.CourseID]struct{} {
	if s == nil {
		return nil
	}
	set := make(map[catalog.CourseID]struct{}, len(s.Completed))
	for _, c := range s.Completed {
		set[c] = struct{}{}
	}
	return set
}

func (s *SessionState) Validate() error {
	if s == nil {
		return ErrNilSessionState
	}
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	if s.Term == "" {
		return fmt.Errorf("session %s has no term", s.SessionID)
	}
	return nil
}

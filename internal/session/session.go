// Package session holds the per-user walk through one guide: the pointer
// into the guide tree and the lifecycle state machine around it.
package session

import "time"

// Session tracks one user's position in one guide. CurrentIdentifier is
// the only field normal navigation mutates; Status changes only through
// Transition and its named wrappers.
type Session struct {
	ID                string     `json:"session_id"`
	UserID            string     `json:"user_id"`
	GuideID           string     `json:"guide_id"`
	CurrentIdentifier string     `json:"current_step_identifier"`
	Status            Status     `json:"status"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// New starts a session at the given first identifier. Sessions begin in
// Created and activate on first engine access.
func New(id, userID, guideID, firstIdentifier string, now time.Time) *Session {
	return &Session{
		ID:                id,
		UserID:            userID,
		GuideID:           guideID,
		CurrentIdentifier: firstIdentifier,
		Status:            StatusCreated,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Transition moves the session to a new status if the state machine
// allows it.
func (s *Session) Transition(to Status, now time.Time) error {
	if !CanTransition(s.Status, to) {
		return &InvalidTransitionError{From: s.Status, To: to}
	}
	s.Status = to
	s.UpdatedAt = now
	if to == StatusCompleted {
		t := now
		s.CompletedAt = &t
	}
	return nil
}

// Activate moves a Created session to Active. Calling it on a session
// that is already Active is a no-op; any other status is an error.
func (s *Session) Activate(now time.Time) error {
	if s.Status == StatusActive {
		return nil
	}
	return s.Transition(StatusActive, now)
}

// Pause suspends an Active session.
func (s *Session) Pause(now time.Time) error {
	return s.Transition(StatusPaused, now)
}

// Resume reactivates a Paused session.
func (s *Session) Resume(now time.Time) error {
	if s.Status != StatusPaused {
		return &InvalidTransitionError{From: s.Status, To: StatusActive}
	}
	return s.Transition(StatusActive, now)
}

// Complete finishes the session. Terminal: nothing transitions out.
func (s *Session) Complete(now time.Time) error {
	return s.Transition(StatusCompleted, now)
}

// Fail abandons the session from Active or Paused.
func (s *Session) Fail(now time.Time) error {
	return s.Transition(StatusFailed, now)
}

// Restart brings a Failed session back to Active. The pointer keeps its
// last position.
func (s *Session) Restart(now time.Time) error {
	if s.Status != StatusFailed {
		return &InvalidTransitionError{From: s.Status, To: StatusActive}
	}
	return s.Transition(StatusActive, now)
}

// MoveTo repositions the pointer. Status is untouched.
func (s *Session) MoveTo(identifier string, now time.Time) {
	s.CurrentIdentifier = identifier
	s.UpdatedAt = now
}

package session

import "fmt"

// Status represents a session's position in its lifecycle.
type Status string

const (
	StatusCreated   Status = "created"
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// transitions lists the allowed status changes. Completed is terminal.
var transitions = map[Status][]Status{
	StatusCreated:   {StatusActive},
	StatusActive:    {StatusPaused, StatusCompleted, StatusFailed},
	StatusPaused:    {StatusActive, StatusFailed},
	StatusCompleted: {},
	StatusFailed:    {StatusActive},
}

// CanTransition reports whether a status change is allowed.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func Terminal(s Status) bool {
	return len(transitions[s]) == 0
}

// InvalidTransitionError reports a disallowed status change.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition session from %s to %s", e.From, e.To)
}

// InvalidStateError reports an operation attempted while the session is in
// a status that forbids it.
type InvalidStateError struct {
	Status Status
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s while session is %s", e.Op, e.Status)
}

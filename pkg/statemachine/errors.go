package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid transition: from, to, or event cannot be nil")
	ErrInvalidEvent      = errors.New("invalid event: event cannot be nil")
	ErrNoTransition      = errors.New("no transition available")
	ErrRejected          = errors.New("transition rejected by guards")
)

// TransitionError reports an event that could not be applied in State.
// Reason is ErrNoTransition or ErrRejected and is matched by errors.Is.
type TransitionError struct {
	State  string
	Event  string
	Reason error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("state %q, event %q: %v", e.State, e.Event, e.Reason)
}

func (e *TransitionError) Unwrap() error { return e.Reason }

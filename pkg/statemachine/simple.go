package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// SimpleStateMachine is a mutex guarded in-memory StateMachine.
// Transitions are indexed as [from][event] -> candidates in registration order.
type SimpleStateMachine struct {
	currentState State
	transitions  map[string]map[string][]Transition
	observers    []Observer
	mu           sync.RWMutex
}

func newSimpleStateMachine(initialState State) *SimpleStateMachine {
	return &SimpleStateMachine{
		currentState: initialState,
		transitions:  make(map[string]map[string][]Transition),
	}
}

func (sm *SimpleStateMachine) Current() State {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// Is reports whether the machine is currently in the given state.
func (sm *SimpleStateMachine) Is(state State) bool {
	if state == nil {
		return false
	}
	return sm.Current().Name() == state.Name()
}

func (sm *SimpleStateMachine) AddTransition(from, to State, event Event, guards []Guard, actions []Action) error {
	if from == nil || to == nil || event == nil {
		return ErrInvalidTransition
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	fromStateName := from.Name()
	if _, ok := sm.transitions[fromStateName]; !ok {
		sm.transitions[fromStateName] = make(map[string][]Transition)
	}

	// Multiple transitions allowed for same from/event to support guard-based branching
	sm.transitions[fromStateName][event.Name()] = append(sm.transitions[fromStateName][event.Name()], Transition{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  guards,
		Actions: actions,
	})
	return nil
}

func (sm *SimpleStateMachine) Fire(ctx context.Context, event Event, data any) error {
	if event == nil {
		return ErrInvalidEvent
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	from := sm.currentState
	transitions := sm.transitions[from.Name()][event.Name()]
	if len(transitions) == 0 {
		return &TransitionError{State: from.Name(), Event: event.Name(), Reason: ErrNoTransition}
	}

	// First transition with passing guards wins (enables priority ordering)
	next := sm.firstAllowed(ctx, transitions, event, data)
	if next == nil {
		return &TransitionError{State: from.Name(), Event: event.Name(), Reason: ErrRejected}
	}

	// Execute actions before state change; any failure aborts transition
	for _, action := range next.Actions {
		if action == nil {
			continue
		}
		if err := action(ctx, from, next.To, event, data); err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
	}

	sm.currentState = next.To
	for _, observe := range sm.observers {
		observe(ctx, from, next.To, event)
	}
	return nil
}

func (sm *SimpleStateMachine) CanFire(ctx context.Context, event Event, data any) bool {
	if event == nil {
		return false
	}

	sm.mu.RLock()
	defer sm.mu.RUnlock()

	transitions := sm.transitions[sm.currentState.Name()][event.Name()]
	return sm.firstAllowed(ctx, transitions, event, data) != nil
}

func (sm *SimpleStateMachine) firstAllowed(ctx context.Context, transitions []Transition, event Event, data any) *Transition {
	for i, t := range transitions {
		allowed := true
		for _, guard := range t.Guards {
			if guard != nil && !guard(ctx, sm.currentState, event, data) {
				allowed = false
				break
			}
		}
		if allowed {
			return &transitions[i]
		}
	}
	return nil
}

// Package statemachine provides a small, concurrency-safe finite state machine.
//
// States and events are modelled by two minimal interfaces, State and Event.
// StringState and StringEvent cover the common case where a name is all that is
// needed. The machine handles:
//  1. Transition validation and lookup
//  2. Optional Guard evaluation to accept or reject transitions
//  3. Execution of side-effect Actions during transitions
//  4. Observer notification after each applied transition
//
// # Usage
//
//	const (
//	    Disconnected = statemachine.StringState("disconnected")
//	    Connecting   = statemachine.StringState("connecting")
//	    Dial         = statemachine.StringEvent("dial")
//	)
//
//	machine := statemachine.MustNew(Disconnected,
//	    statemachine.WithTransition(Disconnected, Connecting, Dial),
//	    statemachine.WithObserver(func(ctx context.Context, from, to statemachine.State, evt statemachine.Event) {
//	        log.Printf("%s -> %s via %s", from.Name(), to.Name(), evt.Name())
//	    }),
//	)
//
//	_ = machine.Fire(context.Background(), Dial, nil)
//
// # Error Handling
//
// Fire returns a *TransitionError when the event does not apply. Match the
// reason with errors.Is:
//
//	switch {
//	case errors.Is(err, statemachine.ErrNoTransition):
//	case errors.Is(err, statemachine.ErrRejected):
//	}
//
// # Concurrency
//
// SimpleStateMachine uses RWMutex for thread safety. Observers and actions run
// with the write lock held, so they must not call back into the machine.
package statemachine

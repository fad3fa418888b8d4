package supervisor

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/querygate/pkg/logger"
	"github.com/dmitrymomot/querygate/pkg/metrics"
	"github.com/dmitrymomot/querygate/pkg/statemachine"
)

// Connection states.
const (
	Disconnected = statemachine.StringState("disconnected")
	Connecting   = statemachine.StringState("connecting")
	Connected    = statemachine.StringState("connected")
)

const (
	eventDial        = statemachine.StringEvent("dial")
	eventEstablished = statemachine.StringEvent("established")
	eventFailed      = statemachine.StringEvent("failed")
	eventLost        = statemachine.StringEvent("lost")
	eventClose       = statemachine.StringEvent("close")
)

// Dial and established are registered separately because they carry a guard and an action.
var transitions = []statemachine.TransitionDef{
	{From: Connecting, To: Disconnected, Event: eventFailed},
	{From: Connected, To: Disconnected, Event: eventLost},
	{From: Disconnected, To: Disconnected, Event: eventClose},
	{From: Connecting, To: Disconnected, Event: eventClose},
	{From: Connected, To: Disconnected, Event: eventClose},
}

// newMachine builds the connection state machine. canDial guards the dial
// transition and onEstablished runs before the state becomes connected.
func newMachine(l *slog.Logger, canDial statemachine.Guard, onEstablished statemachine.Action) statemachine.StateMachine {
	metrics.SetConnectionState(Disconnected.Name())
	return statemachine.MustNew(Disconnected,
		statemachine.WithTransition(Disconnected, Connecting, eventDial, statemachine.WithGuards(canDial)),
		statemachine.WithTransition(Connecting, Connected, eventEstablished, statemachine.WithActions(onEstablished)),
		statemachine.WithTransitions(transitions),
		statemachine.WithObserver(func(ctx context.Context, from, to statemachine.State, event statemachine.Event) {
			metrics.SetConnectionState(to.Name())
			l.DebugContext(ctx, "connection state changed",
				logger.Component("supervisor"),
				logger.Event(event.Name()),
				slog.String("from", from.Name()),
				logger.State(to.Name()),
			)
		}),
	)
}

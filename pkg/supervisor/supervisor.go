package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/querygate/pkg/async"
	"github.com/dmitrymomot/querygate/pkg/logger"
	"github.com/dmitrymomot/querygate/pkg/metrics"
	"github.com/dmitrymomot/querygate/pkg/pg"
	"github.com/dmitrymomot/querygate/pkg/statemachine"
)

// Dialer opens a new database connection.
type Dialer interface {
	Dial(ctx context.Context) (pg.Handle, error)
}

// DialerFunc adapts a function to Dialer.
type DialerFunc func(ctx context.Context) (pg.Handle, error)

func (f DialerFunc) Dial(ctx context.Context) (pg.Handle, error) { return f(ctx) }

// Supervisor owns the single database connection and its lifecycle.
//
// Lock order: sem, then mu. connectMu is held for a whole connect chain and
// is never taken while holding mu.
type Supervisor struct {
	dialer       Dialer
	logger       *slog.Logger
	maxRetries   int
	retryDelay   time.Duration
	closeTimeout time.Duration

	machine statemachine.StateMachine

	connectMu sync.Mutex

	mu      sync.RWMutex
	retries int
	conn    pg.Handle
	stale   pg.Handle
	pending *async.Future[bool]
	closed  bool

	// sem is a one-slot semaphore serializing use of the handle.
	sem chan struct{}

	baseCtx context.Context
	cancel  context.CancelFunc
}

// New returns a disconnected Supervisor. Nothing is dialed until Connect or Reconnect is called.
func New(dialer Dialer, opts ...Option) *Supervisor {
	if dialer == nil {
		panic("supervisor.New: nil dialer")
	}

	s := &Supervisor{
		dialer:       dialer,
		logger:       logger.Noop(),
		maxRetries:   5,
		retryDelay:   5 * time.Second,
		closeTimeout: 5 * time.Second,
		sem:          make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.baseCtx, s.cancel = context.WithCancel(context.Background())
	s.machine = newMachine(s.logger, s.dialAllowed, s.resetRetries)
	return s
}

// IsConnected reports whether a connection is established.
func (s *Supervisor) IsConnected() bool {
	return s.machine.Is(Connected)
}

// State returns the current connection state name.
func (s *Supervisor) State() string {
	return s.machine.Current().Name()
}

// Retries returns the number of consecutive failed attempts since the last successful connect.
func (s *Supervisor) Retries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retries
}

// Connect establishes the connection, retrying with a fixed delay.
// It returns true immediately when already connected.
//
// The retry counter is reset only by a successful attempt. Once it reaches
// the configured maximum the chain stops and returns false; every later call
// makes exactly one attempt until one succeeds.
func (s *Supervisor) Connect(ctx context.Context) bool {
	s.connectMu.Lock()
	defer s.connectMu.Unlock()

	for {
		if s.IsConnected() {
			return true
		}
		if s.attempt(ctx) {
			return true
		}

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return false
		}
		if s.retries >= s.maxRetries {
			retries := s.retries
			s.mu.Unlock()
			s.logger.ErrorContext(ctx, "database connect retries exhausted",
				logger.Component("supervisor"),
				logger.RetryCount(retries),
			)
			return false
		}
		s.retries++
		retries := s.retries
		s.mu.Unlock()

		metrics.ConnectRetries.Set(float64(retries))
		s.logger.WarnContext(ctx, "retrying database connect",
			logger.Component("supervisor"),
			logger.RetryCount(retries),
			logger.Duration(s.retryDelay),
		)

		if !s.wait(ctx) {
			return false
		}
	}
}

// attempt closes any stale handle and dials once.
func (s *Supervisor) attempt(ctx context.Context) bool {
	s.mu.Lock()
	if !s.machine.CanFire(ctx, eventDial, nil) {
		s.mu.Unlock()
		return false
	}
	stale := s.stale
	s.stale = nil
	s.fire(ctx, eventDial)
	s.mu.Unlock()

	if stale != nil {
		s.closeHandle(stale)
	}

	start := time.Now()
	h, err := s.dialer.Dial(ctx)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		if h != nil {
			s.closeHandle(h)
		}
		return false
	}
	if err != nil {
		s.fire(ctx, eventFailed)
		retries := s.retries
		s.mu.Unlock()

		metrics.RecordConnectAttempt(false, retries)
		s.logger.WarnContext(ctx, "database connect attempt failed",
			logger.Component("supervisor"),
			logger.RetryCount(retries),
			logger.Duration(time.Since(start)),
			logger.Error(err),
		)
		return false
	}

	s.conn = h
	s.fire(ctx, eventEstablished)
	s.mu.Unlock()

	metrics.RecordConnectAttempt(true, 0)
	s.logger.InfoContext(ctx, "database connected",
		logger.Component("supervisor"),
		logger.Duration(time.Since(start)),
	)
	return true
}

// wait sleeps for the retry delay. It returns false if ctx is done or the supervisor was closed.
func (s *Supervisor) wait(ctx context.Context) bool {
	timer := time.NewTimer(s.retryDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	case <-s.baseCtx.Done():
		return false
	}
}

// Reconnect starts Connect in the background and returns its future.
// While a chain is in flight every caller receives the same future.
func (s *Supervisor) Reconnect() *async.Future[bool] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return async.Resolved(false, ErrClosed)
	}
	if s.pending != nil && !s.pending.IsComplete() {
		return s.pending
	}

	s.pending = async.Async(s.baseCtx, s, func(ctx context.Context, sup *Supervisor) (bool, error) {
		return sup.Connect(ctx), nil
	})
	return s.pending
}

// ConnectionLost marks an established connection as unusable.
// The handle is parked and closed by the next connect attempt.
// It returns false if the supervisor was not connected.
func (s *Supervisor) ConnectionLost(cause error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.machine.Is(Connected) {
		return false
	}

	s.stale = s.conn
	s.conn = nil
	// A finishing chain must not absorb the reconnect that follows a loss.
	s.pending = nil
	s.fire(s.baseCtx, eventLost)

	s.logger.Warn("database connection lost",
		logger.Component("supervisor"),
		logger.Error(cause),
	)
	return true
}

// Query runs sql on the active connection. It fails with ErrNotConnected
// without dialing when no connection is established.
// Only one statement runs at a time; waiting for the handle honours ctx and
// fails with ErrBusy wrapping ctx.Err().
func (s *Supervisor) Query(ctx context.Context, sql string, args ...any) (*pg.Result, error) {
	if !s.IsConnected() {
		return nil, ErrNotConnected
	}

	if err := s.acquire(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBusy, err)
	}
	defer s.release()

	s.mu.RLock()
	h := s.conn
	connected := s.machine.Is(Connected)
	s.mu.RUnlock()

	if !connected || h == nil {
		return nil, ErrNotConnected
	}
	return h.Query(ctx, sql, args...)
}

// Disconnect closes every handle and stops pending retries.
// It is terminal: later Connect and Reconnect calls do nothing.
// The retry counter is left as is.
func (s *Supervisor) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancel()

	handles := []pg.Handle{s.conn, s.stale}
	s.conn, s.stale = nil, nil
	s.fire(ctx, eventClose)
	s.mu.Unlock()

	var errs []error
	for _, h := range handles {
		if h == nil {
			continue
		}
		if err := s.closeWithin(ctx, h); err != nil {
			errs = append(errs, err)
		}
	}

	s.logger.InfoContext(ctx, "database disconnected", logger.Component("supervisor"))
	return errors.Join(errs...)
}

// closeHandle closes h best-effort. Errors are logged and swallowed.
// If the handle is still busy after the close timeout it is closed in the background.
func (s *Supervisor) closeHandle(h pg.Handle) {
	ctx, cancel := context.WithTimeout(context.Background(), s.closeTimeout)
	defer cancel()

	if err := s.acquire(ctx); err != nil {
		s.logger.Warn("stale database handle busy, closing in background", logger.Component("supervisor"))
		go func() {
			s.sem <- struct{}{}
			defer s.release()
			ctx, cancel := context.WithTimeout(context.Background(), s.closeTimeout)
			defer cancel()
			_ = h.Close(ctx)
		}()
		return
	}
	defer s.release()

	if err := h.Close(ctx); err != nil {
		s.logger.Debug("closing stale database handle failed",
			logger.Component("supervisor"),
			logger.Error(err),
		)
	}
}

func (s *Supervisor) closeWithin(ctx context.Context, h pg.Handle) error {
	ctx, cancel := context.WithTimeout(ctx, s.closeTimeout)
	defer cancel()

	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	return h.Close(ctx)
}

// dialAllowed and resetRetries run inside machine transitions; callers hold mu.
func (s *Supervisor) dialAllowed(context.Context, statemachine.State, statemachine.Event, any) bool {
	return !s.closed
}

func (s *Supervisor) resetRetries(context.Context, statemachine.State, statemachine.State, statemachine.Event, any) error {
	s.retries = 0
	return nil
}

func (s *Supervisor) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Supervisor) release() {
	<-s.sem
}

// fire applies a transition. Callers hold mu.
func (s *Supervisor) fire(ctx context.Context, event statemachine.Event) {
	if err := s.machine.Fire(ctx, event, nil); err != nil {
		s.logger.ErrorContext(ctx, "unexpected connection state transition",
			logger.Component("supervisor"),
			logger.Event(event.Name()),
			logger.Error(err),
		)
	}
}

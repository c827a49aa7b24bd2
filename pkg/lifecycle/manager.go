package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/sigtalk/pkg/log"
)

// Common lifecycle errors.
var (
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	ErrShutdownTimeout   = errors.New("shutdown timeout")
)

// transitions lists the allowed target states for every state.
var transitions = map[State][]State{
	StateStopped:  {StateStarting},
	StateStarting: {StateRunning, StateStopping, StateCrashed},
	StateRunning:  {StateStopping, StateCrashed},
	StateStopping: {StateStopped, StateCrashed},
	StateCrashed:  {StateStarting},
}

// DefaultManager implements Manager.
type DefaultManager struct {
	mu      sync.RWMutex
	state   State
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	logger  log.Logger
	emitter EventEmitter
}

// NewManager creates a manager in StateStopped.
func NewManager(logger log.Logger, emitter EventEmitter) *DefaultManager {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &DefaultManager{
		state:   StateStopped,
		logger:  logger,
		emitter: emitter,
	}
}

// State returns the current lifecycle state.
func (m *DefaultManager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// TransitionTo moves to newState. It returns an error wrapping
// ErrInvalidTransition when the move is not allowed from the current state.
func (m *DefaultManager) TransitionTo(newState State, reason string) error {
	m.mu.Lock()
	old := m.state
	if !allowed(old, newState) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, old, newState)
	}
	m.state = newState
	m.mu.Unlock()

	if m.emitter != nil {
		m.emitter.OnStateChange(old, newState, reason)
	}
	m.logger.Debug("state transition",
		log.String("from", old.String()),
		log.String("to", newState.String()),
		log.String("reason", reason),
	)
	return nil
}

func allowed(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanStart returns true in StateStopped and StateCrashed.
func (m *DefaultManager) CanStart() bool {
	s := m.State()
	return s == StateStopped || s == StateCrashed
}

// CanStop returns true in StateStarting and StateRunning.
func (m *DefaultManager) CanStop() bool {
	s := m.State()
	return s == StateStarting || s == StateRunning
}

// SetCancel stores the function that Cancel invokes.
func (m *DefaultManager) SetCancel(cancel context.CancelFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancel = cancel
}

// Cancel invokes the stored cancel function, if any.
func (m *DefaultManager) Cancel() {
	m.mu.RLock()
	cancel := m.cancel
	m.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
}

// Go runs fn on a tracked goroutine.
func (m *DefaultManager) Go(fn func()) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		fn()
	}()
}

// WaitWithTimeout waits for all goroutines started with Go.
// Returns ErrShutdownTimeout if the timeout expires.
func (m *DefaultManager) WaitWithTimeout(timeout time.Duration) error {
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		m.logger.Warn("shutdown timeout, forcing exit", log.Duration("timeout", timeout))
		return ErrShutdownTimeout
	}
}

// Ensure DefaultManager implements Manager.
var _ Manager = (*DefaultManager)(nil)

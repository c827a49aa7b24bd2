package lifecycle

import "time"

// State represents the lifecycle state of a component.
type State int

const (
	StateStopped State = iota
	StateStarting
	StateRunning
	StateStopping
	StateCrashed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateStarting:
		return "Starting"
	case StateRunning:
		return "Running"
	case StateStopping:
		return "Stopping"
	case StateCrashed:
		return "Crashed"
	default:
		return "Unknown"
	}
}

// EventEmitter is called when lifecycle state changes.
type EventEmitter interface {
	OnStateChange(previous, current State, reason string)
}

// Manager manages the lifecycle state machine of a component.
type Manager interface {
	// State returns the current lifecycle state.
	State() State

	// CanStart returns true if the component may be started.
	CanStart() bool

	// CanStop returns true if the component may be stopped.
	CanStop() bool

	// TransitionTo attempts to transition to a new state.
	TransitionTo(newState State, reason string) error

	// Go runs fn on a tracked worker goroutine.
	Go(fn func())

	// WaitWithTimeout waits for all workers to finish.
	WaitWithTimeout(timeout time.Duration) error
}

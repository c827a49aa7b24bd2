package lifecycle

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingEmitter) OnStateChange(previous, current State, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, previous.String()+"->"+current.String()+":"+reason)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateStopped, "Stopped"},
		{StateStarting, "Starting"},
		{StateRunning, "Running"},
		{StateStopping, "Stopping"},
		{StateCrashed, "Crashed"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestManager_ValidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
	}{
		{"stopped to starting", StateStopped, StateStarting},
		{"starting to running", StateStarting, StateRunning},
		{"starting to stopping", StateStarting, StateStopping},
		{"starting to crashed", StateStarting, StateCrashed},
		{"running to stopping", StateRunning, StateStopping},
		{"running to crashed", StateRunning, StateCrashed},
		{"stopping to stopped", StateStopping, StateStopped},
		{"stopping to crashed", StateStopping, StateCrashed},
		{"crashed to starting", StateCrashed, StateStarting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(nil, nil)
			m.state = tt.from
			if err := m.TransitionTo(tt.to, "test"); err != nil {
				t.Fatalf("TransitionTo() error = %v", err)
			}
			if m.State() != tt.to {
				t.Errorf("state = %v, want %v", m.State(), tt.to)
			}
		})
	}
}

func TestManager_InvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		from State
		to   State
	}{
		{"stopped to running", StateStopped, StateRunning},
		{"stopped to stopping", StateStopped, StateStopping},
		{"running to starting", StateRunning, StateStarting},
		{"stopping to running", StateStopping, StateRunning},
		{"crashed to running", StateCrashed, StateRunning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(nil, nil)
			m.state = tt.from
			err := m.TransitionTo(tt.to, "test")
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("TransitionTo() error = %v, want ErrInvalidTransition", err)
			}
			if m.State() != tt.from {
				t.Errorf("state changed to %v", m.State())
			}
		})
	}
}

func TestManager_EmitsEvents(t *testing.T) {
	em := &recordingEmitter{}
	m := NewManager(nil, em)

	_ = m.TransitionTo(StateStarting, "serve")
	_ = m.TransitionTo(StateRunning, "listening")

	want := []string{"Stopped->Starting:serve", "Starting->Running:listening"}
	if len(em.events) != len(want) {
		t.Fatalf("events = %v, want %v", em.events, want)
	}
	for i := range want {
		if em.events[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, em.events[i], want[i])
		}
	}
}

func TestManager_CanStartCanStop(t *testing.T) {
	m := NewManager(nil, nil)
	if !m.CanStart() || m.CanStop() {
		t.Error("stopped manager: want CanStart and not CanStop")
	}
	m.state = StateRunning
	if m.CanStart() || !m.CanStop() {
		t.Error("running manager: want CanStop and not CanStart")
	}
	m.state = StateCrashed
	if !m.CanStart() {
		t.Error("crashed manager should be restartable")
	}
}

func TestManager_WaitWithTimeout(t *testing.T) {
	m := NewManager(nil, nil)
	release := make(chan struct{})
	m.Go(func() { <-release })

	if err := m.WaitWithTimeout(20 * time.Millisecond); !errors.Is(err, ErrShutdownTimeout) {
		t.Errorf("WaitWithTimeout() error = %v, want ErrShutdownTimeout", err)
	}

	close(release)
	if err := m.WaitWithTimeout(time.Second); err != nil {
		t.Errorf("WaitWithTimeout() error = %v", err)
	}
}

func TestManager_Cancel(t *testing.T) {
	m := NewManager(nil, nil)
	m.Cancel() // no cancel set, must not panic

	called := false
	m.SetCancel(func() { called = true })
	m.Cancel()
	if !called {
		t.Error("cancel func not invoked")
	}
}

// Package lifecycle provides the start/stop state machine used by the
// receiving server.
//
// # Usage
//
//	m := lifecycle.NewManager(logger, nil)
//	if err := m.TransitionTo(lifecycle.StateStarting, "serve"); err != nil {
//	    return err
//	}
//
//	m.Go(func() { receiver.Run(ctx) })
//
//	// Graceful shutdown
//	m.Cancel()
//	if err := m.WaitWithTimeout(5 * time.Second); err != nil {
//	    return err
//	}
//
// # State Machine
//
// Valid state transitions:
//   - Stopped -> Starting
//   - Starting -> Running, Stopping, Crashed
//   - Running -> Stopping, Crashed
//   - Stopping -> Stopped, Crashed
//   - Crashed -> Starting
package lifecycle

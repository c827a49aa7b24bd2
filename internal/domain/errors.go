package domain

import "errors"

// Domain errors represent error conditions in the sigtalk domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAckTimeout is returned when a bit is not acknowledged within the polling budget.
	ErrAckTimeout = errors.New("sigtalk: acknowledgment timeout")

	// ErrSetupFailure is returned when the notification endpoint cannot be registered.
	ErrSetupFailure = errors.New("sigtalk: notification setup failed")

	// ErrTransportClosed is returned when notifying through a closed transport.
	ErrTransportClosed = errors.New("sigtalk: transport closed")

	// ErrUnknownPeer is returned when a notification is addressed to a peer that does not exist.
	ErrUnknownPeer = errors.New("sigtalk: unknown peer")

	// ErrAlreadyRunning is returned when Start() is called on a running server.
	ErrAlreadyRunning = errors.New("sigtalk: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped server.
	ErrNotRunning = errors.New("sigtalk: not running")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("sigtalk: invalid configuration")
)

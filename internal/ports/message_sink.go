package ports

import (
	"context"

	"github.com/bft-labs/sigtalk/internal/domain"
)

// MessageSink is notified once per finalized message.
type MessageSink interface {
	// MessageFinalized records a completed message. Errors are logged by the
	// caller and never reach the sending peer.
	MessageFinalized(ctx context.Context, msg domain.Received) error
}

// MessageSinkFunc adapts a function to MessageSink.
type MessageSinkFunc func(ctx context.Context, msg domain.Received) error

// MessageFinalized calls f.
func (f MessageSinkFunc) MessageFinalized(ctx context.Context, msg domain.Received) error {
	return f(ctx, msg)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/internal/ports"
)

// MultiSink forwards every message to each sink in order.
type MultiSink []ports.MessageSink

// MessageFinalized calls every sink and joins their errors.
func (m MultiSink) MessageFinalized(ctx context.Context, msg domain.Received) error {
	var errs []error
	for _, s := range m {
		if err := s.MessageFinalized(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ConsoleSink prints received messages for the operator.
type ConsoleSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleSink creates a ConsoleSink writing to w.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	return &ConsoleSink{w: w}
}

// MessageFinalized prints the sender, the text and the detected language.
func (c *ConsoleSink) MessageFinalized(ctx context.Context, msg domain.Received) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := fmt.Fprintf(c.w, "\nMessage received from peer %d: %s\nDetected language: %s\n",
		msg.Peer, msg.Text, msg.Language)
	return err
}

var (
	_ ports.MessageSink = MultiSink(nil)
	_ ports.MessageSink = (*ConsoleSink)(nil)
)

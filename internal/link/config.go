package link

import (
	"context"
	"time"

	"github.com/bft-labs/sigtalk/internal/domain"
)

// SenderConfig tunes the stop-and-wait loop.
type SenderConfig struct {
	// PollInterval is the length of one acknowledgment polling attempt.
	PollInterval time.Duration

	// MaxPolls is the number of attempts before a bit is declared lost.
	MaxPolls int

	// SettleDelay is slept after each acknowledged bit.
	SettleDelay time.Duration
}

// DefaultSenderConfig returns a SenderConfig with a one second ACK budget.
func DefaultSenderConfig() SenderConfig {
	return SenderConfig{
		PollInterval: time.Millisecond,
		MaxPolls:     1000,
		SettleDelay:  50 * time.Microsecond,
	}
}

// AckTimeout returns the total time a bit may wait for its ACK.
func (c SenderConfig) AckTimeout() time.Duration {
	return c.PollInterval * time.Duration(c.MaxPolls)
}

func (c *SenderConfig) setDefaults() {
	d := DefaultSenderConfig()
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.MaxPolls <= 0 {
		c.MaxPolls = d.MaxPolls
	}
	if c.SettleDelay < 0 {
		c.SettleDelay = 0
	}
}

// ReceiverConfig tunes the receiving side.
type ReceiverConfig struct {
	// Capacity is the maximum message length in bytes.
	Capacity int

	// AckDelay is slept before each ACK so the sender is listening.
	AckDelay time.Duration
}

// DefaultReceiverConfig returns the default ReceiverConfig.
func DefaultReceiverConfig() ReceiverConfig {
	return ReceiverConfig{
		Capacity: domain.DefaultCapacity,
		AckDelay: 100 * time.Microsecond,
	}
}

func (c *ReceiverConfig) setDefaults() {
	if c.Capacity <= 0 {
		c.Capacity = domain.DefaultCapacity
	}
	if c.AckDelay < 0 {
		c.AckDelay = 0
	}
}

// sleepCtx sleeps for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

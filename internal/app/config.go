package app

import (
	"fmt"
	"time"

	"github.com/bft-labs/sigtalk/internal/adapters/fs"
	"github.com/bft-labs/sigtalk/internal/adapters/unixgram"
	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/internal/link"
)

// ShutdownTimeout bounds how long Stop waits for the receiver to exit.
const ShutdownTimeout = 5 * time.Second

// Config holds the library configuration shared by Server and Client.
type Config struct {
	// SocketDir is where every process binds its datagram socket.
	SocketDir string

	// LogFile is the append-only message log written by the server.
	LogFile string

	// Capacity is the maximum message length the server keeps.
	Capacity int

	// QueueSize bounds the inbound notification queue.
	QueueSize int

	// PollInterval and MaxPolls define the per-bit ACK budget of the client.
	PollInterval time.Duration
	MaxPolls     int

	// SettleDelay is slept by the client after each acknowledged bit.
	SettleDelay time.Duration

	// AckDelay is slept by the server before each ACK.
	AckDelay time.Duration
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	snd := link.DefaultSenderConfig()
	rcv := link.DefaultReceiverConfig()
	return Config{
		SocketDir:    unixgram.DefaultDir(),
		LogFile:      fs.DefaultLogFile,
		Capacity:     rcv.Capacity,
		QueueSize:    unixgram.DefaultQueueSize,
		PollInterval: snd.PollInterval,
		MaxPolls:     snd.MaxPolls,
		SettleDelay:  snd.SettleDelay,
		AckDelay:     rcv.AckDelay,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.SocketDir == "" {
		return fmt.Errorf("%w: socket dir is required", domain.ErrInvalidConfig)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive", domain.ErrInvalidConfig)
	}
	if c.QueueSize <= 0 {
		return fmt.Errorf("%w: queue size must be positive", domain.ErrInvalidConfig)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive", domain.ErrInvalidConfig)
	}
	if c.MaxPolls <= 0 {
		return fmt.Errorf("%w: max polls must be positive", domain.ErrInvalidConfig)
	}
	if c.SettleDelay < 0 || c.AckDelay < 0 {
		return fmt.Errorf("%w: delays must not be negative", domain.ErrInvalidConfig)
	}
	return nil
}

func (c Config) senderConfig() link.SenderConfig {
	return link.SenderConfig{
		PollInterval: c.PollInterval,
		MaxPolls:     c.MaxPolls,
		SettleDelay:  c.SettleDelay,
	}
}

func (c Config) receiverConfig() link.ReceiverConfig {
	return link.ReceiverConfig{
		Capacity: c.Capacity,
		AckDelay: c.AckDelay,
	}
}

// Package sigtalk sends text between local processes one bit at a time
// over one-shot notifications and detects the language of what arrives.
//
// Example usage:
//
//	srv, err := sigtalk.NewServer(sigtalk.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("serving on", srv.Self())
//
// and from another process:
//
//	err := sigtalk.Send(ctx, sigtalk.DefaultConfig(), peer, "le chat est sur la table")
//	if errors.Is(err, sigtalk.ErrAckTimeout) {
//	    // the receiver went away
//	}
//
// A process owns a single socket endpoint, so a server and a client in the
// same process must talk over an in-process Network instead:
//
//	net := sigtalk.NewNetwork(64)
//	srv, _ := sigtalk.NewServer(cfg, sigtalk.InProcess(net, 2))
//	client, _ := sigtalk.NewClient(cfg, sigtalk.InProcess(net, 1))
package sigtalk

import (
	"context"

	"github.com/bft-labs/sigtalk/internal/adapters/memory"
	"github.com/bft-labs/sigtalk/internal/app"
	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/internal/ports"
	"github.com/bft-labs/sigtalk/pkg/langdetect"
	"github.com/bft-labs/sigtalk/pkg/log"
)

// Config holds the configuration shared by servers and clients.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config = app.Config

// Server receives, classifies and logs messages.
type Server = app.Server

// Client sends messages.
type Client = app.Client

// Option configures a Server or Client.
type Option = app.Option

// PeerID identifies a process endpoint.
type PeerID = domain.PeerID

// Received is a finalized message.
type Received = domain.Received

// Language is a detected language label.
type Language = langdetect.Language

// TransportFactory opens the notification endpoint of a Server or Client.
type TransportFactory = app.TransportFactory

// Network connects endpoints inside one process.
type Network = memory.Network

// Errors callers can match with errors.Is.
var (
	ErrAckTimeout     = domain.ErrAckTimeout
	ErrSetupFailure   = domain.ErrSetupFailure
	ErrUnknownPeer    = domain.ErrUnknownPeer
	ErrAlreadyRunning = domain.ErrAlreadyRunning
	ErrNotRunning     = domain.ErrNotRunning
)

// Options re-exported from the app layer.
var (
	WithLogger     = app.WithLogger
	WithSink       = app.WithSink
	WithClassifier = app.WithClassifier
	WithPlugin     = app.WithPlugin
	WithTransport  = app.WithTransport
)

// NewNetwork creates an in-process network whose endpoints queue up to
// queueSize notifications.
func NewNetwork(queueSize int) *Network {
	return memory.NewNetwork(queueSize)
}

// InProcess binds the Server or Client to endpoint id of net instead of a
// unix socket.
func InProcess(net *Network, id PeerID) Option {
	return app.WithTransport(func(Config, log.Logger) (ports.Transport, error) {
		return net.Endpoint(id), nil
	})
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return app.DefaultConfig()
}

// NewServer creates a Server. The endpoint is bound by Start.
func NewServer(cfg Config, opts ...Option) (*Server, error) {
	return app.NewServer(cfg, opts...)
}

// NewClient creates a Client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	return app.NewClient(cfg, opts...)
}

// Send transmits text to peer with a one-off client.
func Send(ctx context.Context, cfg Config, peer PeerID, text string, opts ...Option) error {
	c, err := app.NewClient(cfg, opts...)
	if err != nil {
		return err
	}
	return c.Send(ctx, peer, text)
}

// Classify returns the most likely language of text.
func Classify(text string) Language {
	return langdetect.Classify(text)
}

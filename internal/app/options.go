package app

import (
	"github.com/bft-labs/sigtalk/internal/adapters/unixgram"
	"github.com/bft-labs/sigtalk/internal/ports"
	"github.com/bft-labs/sigtalk/pkg/langdetect"
	"github.com/bft-labs/sigtalk/pkg/lifecycle"
	"github.com/bft-labs/sigtalk/pkg/log"
)

// TransportFactory opens the notification endpoint of the current process.
type TransportFactory func(cfg Config, logger log.Logger) (ports.Transport, error)

// UnixgramTransport is the default TransportFactory.
func UnixgramTransport(cfg Config, logger log.Logger) (ports.Transport, error) {
	t, err := unixgram.Listen(unixgram.Config{Dir: cfg.SocketDir, QueueSize: cfg.QueueSize}, logger)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Option configures a Server or Client.
type Option func(*options)

type options struct {
	logger     log.Logger
	transport  TransportFactory
	classifier ports.Classifier
	sinks      []ports.MessageSink
	emitter    lifecycle.EventEmitter
	plugins    []Plugin
}

func defaultOptions() options {
	return options{
		logger:     log.NewNoopLogger(),
		transport:  UnixgramTransport,
		classifier: langdetect.Classifier{},
	}
}

// WithLogger sets the logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTransport replaces the unix datagram transport.
func WithTransport(f TransportFactory) Option {
	return func(o *options) {
		if f != nil {
			o.transport = f
		}
	}
}

// WithClassifier replaces the built-in language classifier.
func WithClassifier(c ports.Classifier) Option {
	return func(o *options) {
		if c != nil {
			o.classifier = c
		}
	}
}

// WithSink adds a sink notified after the message log.
func WithSink(s ports.MessageSink) Option {
	return func(o *options) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}

// WithEventHandler registers a callback for server state changes.
func WithEventHandler(e lifecycle.EventEmitter) Option {
	return func(o *options) {
		o.emitter = e
	}
}

package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/sigtalk/internal/adapters/fs"
	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/internal/link"
	"github.com/bft-labs/sigtalk/internal/ports"
	"github.com/bft-labs/sigtalk/pkg/lifecycle"
	"github.com/bft-labs/sigtalk/pkg/log"
)

// Server receives messages on the endpoint of the current process,
// classifies them and appends them to the message log.
type Server struct {
	cfg       Config
	opts      options
	logger    log.Logger
	lifecycle *lifecycle.DefaultManager

	mu        sync.Mutex
	transport ports.Transport
	msgLog    *fs.MessageLog
	plugins   []Plugin
	done      chan struct{}
	runErr    error
}

// NewServer creates a Server. It does not bind the endpoint until Start.
func NewServer(cfg Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		cfg:       cfg,
		opts:      o,
		logger:    o.logger,
		lifecycle: lifecycle.NewManager(o.logger, o.emitter),
	}, nil
}

// Start binds the endpoint, opens the message log and starts the receiver.
// It returns domain.ErrAlreadyRunning if the server is running.
func (s *Server) Start(ctx context.Context) error {
	if !s.lifecycle.CanStart() {
		return domain.ErrAlreadyRunning
	}
	if err := s.lifecycle.TransitionTo(lifecycle.StateStarting, "start requested"); err != nil {
		return err
	}

	if err := s.open(); err != nil {
		_ = s.lifecycle.TransitionTo(lifecycle.StateCrashed, err.Error())
		return err
	}

	sinks := MultiSink{s.msgLog}
	sinks = append(sinks, s.opts.sinks...)
	receiver := link.NewReceiver(s.cfg.receiverConfig(), s.transport, s.opts.classifier, sinks, s.logger)

	runCtx, cancel := context.WithCancel(ctx)
	s.lifecycle.SetCancel(cancel)

	done := make(chan struct{})
	s.mu.Lock()
	s.done = done
	s.runErr = nil
	s.mu.Unlock()

	if err := s.initPlugins(runCtx); err != nil {
		cancel()
		s.release()
		_ = s.lifecycle.TransitionTo(lifecycle.StateCrashed, err.Error())
		return err
	}

	if err := s.lifecycle.TransitionTo(lifecycle.StateRunning, "endpoint bound"); err != nil {
		cancel()
		s.release()
		return err
	}

	s.lifecycle.Go(func() {
		defer close(done)
		err := receiver.Run(runCtx)
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Error("receiver stopped", log.Err(err))
		s.mu.Lock()
		s.runErr = err
		s.mu.Unlock()
		_ = s.lifecycle.TransitionTo(lifecycle.StateCrashed, err.Error())
	})

	s.logger.Info("server started",
		log.Int("pid", int(s.Self())),
		log.String("log_file", s.cfg.LogFile),
	)
	return nil
}

func (s *Server) open() error {
	msgLog, err := fs.OpenMessageLog(s.cfg.LogFile)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSetupFailure, err)
	}
	t, err := s.opts.transport(s.cfg, s.logger)
	if err != nil {
		_ = msgLog.Close()
		if !errors.Is(err, domain.ErrSetupFailure) {
			err = fmt.Errorf("%w: %v", domain.ErrSetupFailure, err)
		}
		return err
	}

	s.mu.Lock()
	s.msgLog = msgLog
	s.transport = t
	s.mu.Unlock()
	return nil
}

func (s *Server) initPlugins(ctx context.Context) error {
	cfg := PluginConfig{
		Self:    s.transport.Self(),
		LogFile: s.cfg.LogFile,
		Logger:  s.logger,
	}
	for _, p := range s.opts.plugins {
		if err := p.Initialize(ctx, cfg); err != nil {
			s.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		s.mu.Lock()
		s.plugins = append(s.plugins, p)
		s.mu.Unlock()
		s.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}
	return nil
}

// release shuts down plugins and closes the transport and the message
// log. Safe to call twice.
func (s *Server) release() {
	s.mu.Lock()
	t, msgLog, plugins := s.transport, s.msgLog, s.plugins
	s.transport, s.msgLog, s.plugins = nil, nil, nil
	s.mu.Unlock()

	for i := len(plugins) - 1; i >= 0; i-- {
		if err := plugins[i].Shutdown(context.Background()); err != nil {
			s.logger.Warn("plugin shutdown failed",
				log.String("plugin", plugins[i].Name()),
				log.Err(err))
		}
	}

	if t != nil {
		if err := t.Close(); err != nil {
			s.logger.Warn("closing transport", log.Err(err))
		}
	}
	if msgLog != nil {
		if err := msgLog.Close(); err != nil {
			s.logger.Warn("closing message log", log.Err(err))
		}
	}
}

// Stop cancels the receiver and releases the endpoint.
// It returns domain.ErrNotRunning if the server is not running.
func (s *Server) Stop() error {
	if !s.lifecycle.CanStop() {
		if s.lifecycle.State() == lifecycle.StateCrashed {
			s.release()
		}
		return domain.ErrNotRunning
	}
	if err := s.lifecycle.TransitionTo(lifecycle.StateStopping, "stop requested"); err != nil {
		return err
	}

	s.lifecycle.Cancel()
	waitErr := s.lifecycle.WaitWithTimeout(ShutdownTimeout)
	s.release()

	if waitErr != nil {
		_ = s.lifecycle.TransitionTo(lifecycle.StateCrashed, waitErr.Error())
		return waitErr
	}
	if err := s.lifecycle.TransitionTo(lifecycle.StateStopped, "stopped"); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// Serve starts the server and blocks until ctx is cancelled or the
// receiver fails. A cancelled ctx is a clean shutdown.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	return s.Wait(ctx)
}

// Wait blocks until ctx is cancelled or the receiver fails, then stops
// the server. It returns the receiver error, if any.
func (s *Server) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-s.Done():
	}

	if runErr := s.Err(); runErr != nil {
		s.release()
		return runErr
	}
	return s.Stop()
}

// Done is closed when the receiver goroutine exits.
func (s *Server) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Err returns the error that stopped the receiver, if any.
func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runErr
}

// Self returns the peer id of the bound endpoint, or domain.NoPeer.
func (s *Server) Self() domain.PeerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transport == nil {
		return domain.NoPeer
	}
	return s.transport.Self()
}

// Status returns the lifecycle state.
func (s *Server) Status() lifecycle.State {
	return s.lifecycle.State()
}

// LogFile returns the path of the message log.
func (s *Server) LogFile() string {
	return s.cfg.LogFile
}

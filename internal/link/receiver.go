package link

import (
	"context"
	"time"

	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/internal/ports"
	"github.com/bft-labs/sigtalk/pkg/log"
)

// Receiver reassembles messages from inbound notifications.
//
// Handle must only be called from one goroutine at a time; Run does this by
// draining the transport queue sequentially. Session state is owned by that
// goroutine and is not locked.
type Receiver struct {
	cfg        ReceiverConfig
	transport  ports.Transport
	classifier ports.Classifier
	sink       ports.MessageSink
	logger     log.Logger
	session    *Session
	now        func() time.Time
}

// NewReceiver creates a Receiver that acknowledges through t, classifies
// finalized messages with c and records them in sink.
func NewReceiver(cfg ReceiverConfig, t ports.Transport, c ports.Classifier, sink ports.MessageSink, logger log.Logger) *Receiver {
	cfg.setDefaults()
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Receiver{
		cfg:        cfg,
		transport:  t,
		classifier: c,
		sink:       sink,
		logger:     logger,
		session:    NewSession(cfg.Capacity),
		now:        time.Now,
	}
}

// Run handles notifications until ctx is cancelled or the transport queue
// closes, in which case it returns domain.ErrTransportClosed.
func (r *Receiver) Run(ctx context.Context) error {
	in := r.transport.Notifications()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-in:
			if !ok {
				return domain.ErrTransportClosed
			}
			r.Handle(ctx, n)
		}
	}
}

// Handle processes a single notification.
func (r *Receiver) Handle(ctx context.Context, n domain.Notification) {
	switch {
	case n.Kind.IsBit():
		r.handleBit(ctx, n)
	case n.Kind == domain.KindEnd:
		r.handleEnd(ctx)
	default:
		r.logger.Debug("ignoring notification",
			log.Stringer("kind", n.Kind),
			log.Int("from", int(n.From)),
		)
	}
}

func (r *Receiver) handleBit(ctx context.Context, n domain.Notification) {
	flushed, stored := r.session.PushBit(n.From, n.Kind == domain.KindBitOne)
	r.acknowledge(ctx, r.session.Peer())

	if flushed && !stored {
		r.logger.Debug("message full, dropping byte",
			log.Int("peer", int(n.From)),
			log.Int("capacity", r.cfg.Capacity),
		)
	}
}

func (r *Receiver) acknowledge(ctx context.Context, peer domain.PeerID) {
	if !peer.Valid() {
		return
	}
	if err := sleepCtx(ctx, r.cfg.AckDelay); err != nil {
		return
	}
	if err := r.transport.Notify(ctx, peer, domain.KindAck); err != nil {
		r.logger.Warn("failed to acknowledge bit",
			log.Int("peer", int(peer)),
			log.Err(err),
		)
	}
}

func (r *Receiver) handleEnd(ctx context.Context) {
	rec, ok := r.session.Finalize(r.now())
	if !ok {
		return
	}
	rec.Language = string(r.classifier.Classify(rec.Text))
	r.logScores(rec)

	r.logger.Info("message received",
		log.Int("peer", int(rec.Peer)),
		log.Int("bytes", len(rec.Text)),
		log.String("language", rec.Language),
		log.Bool("truncated", rec.Truncated),
	)

	if r.sink == nil {
		return
	}
	if err := r.sink.MessageFinalized(ctx, rec); err != nil {
		r.logger.Error("failed to record message",
			log.Int("peer", int(rec.Peer)),
			log.Err(err),
		)
	}
}

// logScores reports every language's score at debug level when the
// classifier can explain its choice.
func (r *Receiver) logScores(rec domain.Received) {
	reporter, ok := r.classifier.(ports.ScoreReporter)
	if !ok {
		return
	}
	for _, sc := range reporter.Scores(rec.Text) {
		r.logger.Debug("language score",
			log.Int("peer", int(rec.Peer)),
			log.String("language", string(sc.Language)),
			log.Float64("total", sc.Total),
			log.Float64("frequency", sc.Frequency),
			log.Int("keywords", sc.Keywords),
		)
	}
}

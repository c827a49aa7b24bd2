package link

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/internal/ports"
	"github.com/bft-labs/sigtalk/pkg/bitcodec"
	"github.com/bft-labs/sigtalk/pkg/log"
)

// AckTimeoutError reports which bit went unacknowledged.
// It matches domain.ErrAckTimeout with errors.Is.
type AckTimeoutError struct {
	Peer     domain.PeerID
	Byte     int
	Bit      int
	Attempts int
}

func (e *AckTimeoutError) Error() string {
	return fmt.Sprintf("%v: peer %d did not acknowledge bit %d of byte %d after %d polls",
		domain.ErrAckTimeout, e.Peer, e.Bit, e.Byte, e.Attempts)
}

func (e *AckTimeoutError) Unwrap() error {
	return domain.ErrAckTimeout
}

// ackWait is the per-bit acknowledgment state.
type ackWait struct {
	acknowledged bool
	attempts     int
}

// Sender transmits messages bit by bit with stop-and-wait acknowledgment.
// A Sender is not safe for concurrent use: the transport's inbound queue
// carries the ACKs of the single message in flight.
type Sender struct {
	cfg       SenderConfig
	transport ports.Transport
	logger    log.Logger
}

// NewSender creates a Sender that notifies through t.
func NewSender(cfg SenderConfig, t ports.Transport, logger log.Logger) *Sender {
	cfg.setDefaults()
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Sender{cfg: cfg, transport: t, logger: logger}
}

// Send transmits message to peer and then notifies END.
// It stops at the first unacknowledged bit and returns an *AckTimeoutError.
func (s *Sender) Send(ctx context.Context, peer domain.PeerID, message []byte) error {
	start := time.Now()

	for i, b := range message {
		for j := 0; j < bitcodec.Width; j++ {
			if err := s.sendBit(ctx, peer, bitcodec.Bit(b, j), i, j); err != nil {
				s.logger.Error("transmission aborted",
					log.Int("peer", int(peer)),
					log.Int("byte", i),
					log.Int("bit", j),
					log.Err(err),
				)
				return err
			}
		}
	}

	s.logger.Debug("sending terminator", log.Int("peer", int(peer)))
	if err := s.transport.Notify(ctx, peer, domain.KindEnd); err != nil {
		return fmt.Errorf("notify %s: %w", domain.KindEnd, err)
	}

	s.logger.Info("message sent",
		log.Int("peer", int(peer)),
		log.Int("bytes", len(message)),
		log.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *Sender) sendBit(ctx context.Context, peer domain.PeerID, bit bool, byteIdx, bitIdx int) error {
	var w ackWait
	s.drainAcks()

	kind := domain.KindForBit(bit)
	if err := s.transport.Notify(ctx, peer, kind); err != nil {
		return fmt.Errorf("notify %s: %w", kind, err)
	}

	if err := s.awaitAck(ctx, peer, &w); err != nil {
		if errors.Is(err, domain.ErrAckTimeout) {
			return &AckTimeoutError{Peer: peer, Byte: byteIdx, Bit: bitIdx, Attempts: w.attempts}
		}
		return err
	}
	return sleepCtx(ctx, s.cfg.SettleDelay)
}

// awaitAck waits for an ACK from peer, counting one attempt per poll interval.
func (s *Sender) awaitAck(ctx context.Context, peer domain.PeerID, w *ackWait) error {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	in := s.transport.Notifications()
	for !w.acknowledged {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-in:
			if !ok {
				return domain.ErrTransportClosed
			}
			if n.Kind == domain.KindAck && n.From == peer {
				w.acknowledged = true
				continue
			}
			s.logger.Debug("ignoring notification while awaiting ACK",
				log.Stringer("kind", n.Kind),
				log.Int("from", int(n.From)),
			)
		case <-ticker.C:
			w.attempts++
			if w.attempts >= s.cfg.MaxPolls {
				return domain.ErrAckTimeout
			}
		}
	}
	return nil
}

// drainAcks discards ACKs that arrived after their bit was already counted.
func (s *Sender) drainAcks() {
	in := s.transport.Notifications()
	for {
		select {
		case _, ok := <-in:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

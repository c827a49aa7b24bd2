package link

import (
	"time"

	"github.com/bft-labs/sigtalk/internal/domain"
)

// State is the receiver session state.
type State int

const (
	StateIdle State = iota
	StateAccumulating
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAccumulating:
		return "Accumulating"
	default:
		return "Unknown"
	}
}

// Session assembles one message at a time from inbound bits. It owns the
// bit accumulator, the message buffer and the identity of the current peer,
// and is reset rather than reallocated after each message.
type Session struct {
	state State
	peer  domain.PeerID
	acc   domain.BitAccumulator
	msg   *domain.Message
}

// NewSession creates an idle session whose messages hold up to capacity bytes.
func NewSession(capacity int) *Session {
	return &Session{
		peer: domain.NoPeer,
		msg:  domain.NewMessage(capacity),
	}
}

// PushBit records from as the current peer and shifts bit in. When a byte
// completes, flushed is true and stored reports whether it fit in the message.
func (s *Session) PushBit(from domain.PeerID, bit bool) (flushed, stored bool) {
	s.state = StateAccumulating
	s.peer = from

	b, full := s.acc.Push(bit)
	if !full {
		return false, false
	}
	return true, s.msg.Append(b)
}

// Finalize returns the completed message and resets the session.
// It returns false, leaving the session untouched, when no byte was received.
func (s *Session) Finalize(now time.Time) (domain.Received, bool) {
	if s.msg.Empty() {
		return domain.Received{}, false
	}

	rec := domain.Received{
		Peer:       s.peer,
		Text:       s.msg.String(),
		ReceivedAt: now,
		Truncated:  s.msg.Dropped() > 0,
	}
	s.Reset()
	return rec, true
}

// Reset returns the session to idle and clears all buffered data.
func (s *Session) Reset() {
	s.msg.Reset()
	s.acc.Reset()
	s.peer = domain.NoPeer
	s.state = StateIdle
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Peer returns the identity of the peer currently transmitting.
func (s *Session) Peer() domain.PeerID { return s.peer }

// Len returns the number of complete bytes held.
func (s *Session) Len() int { return s.msg.Len() }

// PendingBits returns the number of bits of the byte being assembled.
func (s *Session) PendingBits() int { return s.acc.Count() }

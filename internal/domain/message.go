package domain

import "time"

// DefaultCapacity is the default number of bytes a message can hold.
const DefaultCapacity = 1023

// Message is a fixed-capacity byte buffer. Its storage is allocated once and
// reused across sessions.
type Message struct {
	buf     []byte
	n       int
	dropped int
}

// NewMessage creates a message that holds at most capacity bytes.
func NewMessage(capacity int) *Message {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Message{buf: make([]byte, capacity)}
}

// Append adds b if there is room. It returns false and counts the byte as
// dropped once the message is full.
func (m *Message) Append(b byte) bool {
	if m.n >= len(m.buf) {
		m.dropped++
		return false
	}
	m.buf[m.n] = b
	m.n++
	return true
}

// Len returns the number of bytes held.
func (m *Message) Len() int { return m.n }

// Cap returns the message capacity.
func (m *Message) Cap() int { return len(m.buf) }

// Empty returns true if no byte has been appended since the last reset.
func (m *Message) Empty() bool { return m.n == 0 }

// Dropped returns how many bytes were discarded because the message was full.
func (m *Message) Dropped() int { return m.dropped }

// Bytes returns the held bytes. The slice aliases internal storage and is
// only valid until the next Reset.
func (m *Message) Bytes() []byte { return m.buf[:m.n] }

// String copies the held bytes into a string.
func (m *Message) String() string { return string(m.buf[:m.n]) }

// Reset empties the message without releasing its storage.
func (m *Message) Reset() {
	clear(m.buf[:m.n])
	m.n = 0
	m.dropped = 0
}

// Received is a finalized message as handed to the logging collaborator.
type Received struct {
	Peer       PeerID
	Text       string
	Language   string
	ReceivedAt time.Time

	// Truncated is set when bytes were dropped because the message was full.
	Truncated bool
}

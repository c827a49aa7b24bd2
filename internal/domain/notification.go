package domain

import "fmt"

// PeerID is the numeric process identity used to address notifications.
type PeerID int

// NoPeer marks the absence of a transmitting peer between messages.
const NoPeer PeerID = -1

// Valid reports whether the identity can be addressed.
func (p PeerID) Valid() bool {
	return p > 0
}

// Kind is a payload-free notification kind.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindBitOne
	KindBitZero
	KindAck
	KindEnd
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBitOne:
		return "BIT_ONE"
	case KindBitZero:
		return "BIT_ZERO"
	case KindAck:
		return "ACK"
	case KindEnd:
		return "END"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(k))
	}
}

// IsBit reports whether the kind carries a data bit.
func (k Kind) IsBit() bool {
	return k == KindBitOne || k == KindBitZero
}

// KindForBit selects BIT_ONE for 1 and BIT_ZERO for 0.
func KindForBit(bit bool) Kind {
	if bit {
		return KindBitOne
	}
	return KindBitZero
}

// Notification is a single event delivered by a transport.
type Notification struct {
	Kind Kind
	From PeerID
}

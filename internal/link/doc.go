// Package link implements the bit-serial stop-and-wait protocol.
//
// A [Sender] transmits a message one bit per notification, most significant
// bit first, and waits for an ACK from the peer before sending the next bit.
// When every bit has been acknowledged it sends END, which is not
// acknowledged. A missing ACK aborts the whole message with
// domain.ErrAckTimeout.
//
// A [Receiver] consumes notifications from a single goroutine. Bits are
// shifted into a [Session] until eight complete a byte; END finalizes the
// message, classifies its language and hands it to a ports.MessageSink.
//
// Wire kinds:
//
//	BIT_ONE   sender -> receiver   next bit is 1
//	BIT_ZERO  sender -> receiver   next bit is 0
//	ACK       receiver -> sender   last bit received
//	END       sender -> receiver   message complete
//
// The protocol assumes notifications are delivered in order and are never
// merged. Process signals do not guarantee that; the transports in
// internal/adapters do.
package link

package ports

import (
	"context"

	"github.com/bft-labs/sigtalk/internal/domain"
)

// Transport delivers notifications addressed by process identity.
type Transport interface {
	// Self returns the identity peers use to address this endpoint.
	Self() domain.PeerID

	// Notify sends a payload-free notification of the given kind to a peer.
	// It returns domain.ErrUnknownPeer when the peer cannot be reached and
	// domain.ErrTransportClosed after Close.
	Notify(ctx context.Context, to domain.PeerID, kind domain.Kind) error

	// Notifications returns the bounded queue of inbound notifications.
	// The channel is closed when the transport is closed.
	Notifications() <-chan domain.Notification

	// Close releases the endpoint.
	Close() error
}

// Package memory provides an in-process transport. Notifications are
// delivered losslessly and in order through bounded channels, which makes it
// suitable for tests and for embedding a sender and receiver in one process.
package memory

import (
	"context"
	"sync"

	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/internal/ports"
)

// DefaultQueueSize is the per-endpoint inbound queue length.
const DefaultQueueSize = 64

// Network routes notifications between endpoints by identity.
type Network struct {
	mu        sync.RWMutex
	endpoints map[domain.PeerID]*Endpoint
	queueSize int
}

// NewNetwork creates an empty network whose endpoints buffer up to
// queueSize notifications each.
func NewNetwork(queueSize int) *Network {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Network{
		endpoints: make(map[domain.PeerID]*Endpoint),
		queueSize: queueSize,
	}
}

// Endpoint registers and returns the endpoint for id. Registering an id that
// is already in use replaces the previous endpoint, which is closed.
func (n *Network) Endpoint(id domain.PeerID) *Endpoint {
	e := &Endpoint{
		id:     id,
		net:    n,
		queue:  make(chan domain.Notification, n.queueSize),
		closed: make(chan struct{}),
	}

	n.mu.Lock()
	prev := n.endpoints[id]
	n.endpoints[id] = e
	n.mu.Unlock()

	if prev != nil {
		prev.shutdown()
	}
	return e
}

func (n *Network) lookup(id domain.PeerID) *Endpoint {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.endpoints[id]
}

func (n *Network) remove(e *Endpoint) {
	n.mu.Lock()
	if n.endpoints[e.id] == e {
		delete(n.endpoints, e.id)
	}
	n.mu.Unlock()
}

// Endpoint is one addressable member of a Network.
type Endpoint struct {
	id    domain.PeerID
	net   *Network
	queue chan domain.Notification

	// mu guards queue against a close racing a send: senders hold the read
	// lock, shutdown takes the write lock after closed is signalled.
	mu        sync.RWMutex
	closed    chan struct{}
	closeOnce sync.Once
}

// Self returns the endpoint identity.
func (e *Endpoint) Self() domain.PeerID { return e.id }

// Notifications returns the inbound queue.
func (e *Endpoint) Notifications() <-chan domain.Notification { return e.queue }

// Notify delivers kind to the endpoint registered as to. It blocks while the
// target queue is full.
func (e *Endpoint) Notify(ctx context.Context, to domain.PeerID, kind domain.Kind) error {
	select {
	case <-e.closed:
		return domain.ErrTransportClosed
	default:
	}

	target := e.net.lookup(to)
	if target == nil {
		return domain.ErrUnknownPeer
	}
	return target.deliver(ctx, domain.Notification{Kind: kind, From: e.id})
}

func (e *Endpoint) deliver(ctx context.Context, n domain.Notification) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	select {
	case <-e.closed:
		return domain.ErrUnknownPeer
	default:
	}

	select {
	case e.queue <- n:
		return nil
	case <-e.closed:
		return domain.ErrUnknownPeer
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close unregisters the endpoint and closes its queue.
func (e *Endpoint) Close() error {
	e.net.remove(e)
	e.shutdown()
	return nil
}

func (e *Endpoint) shutdown() {
	e.closeOnce.Do(func() {
		close(e.closed)
		e.mu.Lock()
		close(e.queue)
		e.mu.Unlock()
	})
}

// Ensure Endpoint implements ports.Transport.
var _ ports.Transport = (*Endpoint)(nil)

package app

import (
	"context"
	"fmt"

	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/internal/link"
)

// Client sends messages from the endpoint of the current process.
type Client struct {
	cfg  Config
	opts options
}

// NewClient creates a Client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{cfg: cfg, opts: o}, nil
}

// Send binds an endpoint, transmits text to peer and releases the endpoint.
// A missed acknowledgement returns an error matching domain.ErrAckTimeout.
func (c *Client) Send(ctx context.Context, peer domain.PeerID, text string) error {
	if !peer.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrUnknownPeer, peer)
	}
	t, err := c.opts.transport(c.cfg, c.opts.logger)
	if err != nil {
		return err
	}
	defer t.Close()

	sender := link.NewSender(c.cfg.senderConfig(), t, c.opts.logger)
	return sender.Send(ctx, peer, []byte(text))
}

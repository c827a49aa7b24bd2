package app

import (
	"context"

	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/pkg/log"
)

// Plugin runs alongside a Server. Plugins are initialized in registration
// order once the endpoint is bound and shut down in reverse order.
type Plugin interface {
	Name() string
	Initialize(ctx context.Context, cfg PluginConfig) error
	Shutdown(ctx context.Context) error
}

// PluginConfig is what a plugin learns about the server it extends.
type PluginConfig struct {
	Self    domain.PeerID
	LogFile string
	Logger  log.Logger
}

// WithPlugin registers a plugin.
func WithPlugin(p Plugin) Option {
	return func(o *options) {
		if p != nil {
			o.plugins = append(o.plugins, p)
		}
	}
}

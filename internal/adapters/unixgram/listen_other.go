//go:build !linux

package unixgram

import (
	"fmt"

	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/pkg/log"
)

// Listen is only available on linux, where datagrams carry the sender pid.
func Listen(cfg Config, logger log.Logger) (*Transport, error) {
	return nil, fmt.Errorf("%w: unix credentials passing requires linux", domain.ErrSetupFailure)
}

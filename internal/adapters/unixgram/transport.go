// Package unixgram implements the notification transport over unix datagram
// sockets.
//
// Every process binds <dir>/<pid>.sock. A notification is a single-byte
// datagram holding the kind, so addressing stays purely numeric and no
// payload travels besides the kind. The sender identity is taken from the
// kernel-supplied SCM_CREDENTIALS ancillary data rather than from the
// datagram, which mirrors how a signal handler learns si_pid.
//
// Local datagram sockets preserve ordering and never merge two sends, so the
// link layer does not depend on timing to keep bits apart.
package unixgram

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"

	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/internal/ports"
	"github.com/bft-labs/sigtalk/pkg/log"
)

// ErrEndpointInUse is wrapped by Listen when the current process already
// has a bound endpoint in the same directory.
var ErrEndpointInUse = errors.New("endpoint already bound in this process")

// DefaultQueueSize is the inbound queue length.
const DefaultQueueSize = 64

// Config configures a transport endpoint.
type Config struct {
	// Dir holds one socket per participating process.
	Dir string

	// QueueSize bounds the inbound notification queue.
	QueueSize int
}

// DefaultDir returns the default socket directory.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "sigtalk")
}

// SocketPath returns the socket path of the process with the given identity.
func SocketPath(dir string, id domain.PeerID) string {
	return filepath.Join(dir, strconv.Itoa(int(id))+".sock")
}

// Transport is a bound datagram endpoint for the current process.
type Transport struct {
	self   domain.PeerID
	dir    string
	path   string
	conn   *net.UnixConn
	queue  chan domain.Notification
	logger log.Logger

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Self returns the process identity.
func (t *Transport) Self() domain.PeerID { return t.self }

// Path returns the bound socket path.
func (t *Transport) Path() string { return t.path }

// Notifications returns the inbound queue. It is closed after Close.
func (t *Transport) Notifications() <-chan domain.Notification { return t.queue }

// Notify sends kind to the process identified by to.
func (t *Transport) Notify(ctx context.Context, to domain.PeerID, kind domain.Kind) error {
	select {
	case <-t.done:
		return domain.ErrTransportClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !to.Valid() {
		return fmt.Errorf("%w: %d", domain.ErrUnknownPeer, to)
	}

	addr := &net.UnixAddr{Name: SocketPath(t.dir, to), Net: "unixgram"}
	if _, err := t.conn.WriteToUnix([]byte{byte(kind)}, addr); err != nil {
		if errors.Is(err, syscall.ENOENT) || errors.Is(err, syscall.ECONNREFUSED) {
			return fmt.Errorf("%w: %d", domain.ErrUnknownPeer, to)
		}
		if errors.Is(err, net.ErrClosed) {
			return domain.ErrTransportClosed
		}
		return fmt.Errorf("notify %d: %w", to, err)
	}
	return nil
}

// Close stops the reader, closes the queue and removes the socket file.
func (t *Transport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.done)
		err = t.conn.Close()
		t.wg.Wait()
		close(t.queue)
		if rmErr := os.Remove(t.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
			err = rmErr
		}
	})
	return err
}

// Ensure Transport implements ports.Transport.
var _ ports.Transport = (*Transport)(nil)

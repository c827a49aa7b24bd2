//go:build linux

package unixgram

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/bft-labs/sigtalk/internal/domain"
	"github.com/bft-labs/sigtalk/pkg/log"
)

// Listen binds the socket of the current process and starts reading.
// Any failure is reported as domain.ErrSetupFailure.
func Listen(cfg Config, logger log.Logger) (*Transport, error) {
	if cfg.Dir == "" {
		cfg.Dir = DefaultDir()
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}

	if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: create socket dir: %v", domain.ErrSetupFailure, err)
	}

	self := domain.PeerID(os.Getpid())
	path := SocketPath(cfg.Dir, self)

	if err := removeStale(path); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSetupFailure, err)
	}

	conn, err := net.ListenUnixgram("unixgram", &net.UnixAddr{Name: path, Net: "unixgram"})
	if err != nil {
		return nil, fmt.Errorf("%w: bind %s: %v", domain.ErrSetupFailure, path, err)
	}
	if err := enablePassCred(conn); err != nil {
		conn.Close()
		os.Remove(path)
		return nil, fmt.Errorf("%w: enable SO_PASSCRED: %v", domain.ErrSetupFailure, err)
	}

	t := &Transport{
		self:   self,
		dir:    cfg.Dir,
		path:   path,
		conn:   conn,
		queue:  make(chan domain.Notification, cfg.QueueSize),
		logger: logger,
		done:   make(chan struct{}),
	}
	t.wg.Add(1)
	go t.readLoop()
	return t, nil
}

// removeStale deletes a socket file left behind by an earlier process with
// the same pid. A socket that still accepts datagrams belongs to an endpoint
// of this process and is left alone.
func removeStale(path string) error {
	if _, err := os.Lstat(path); os.IsNotExist(err) {
		return nil
	}

	conn, err := net.DialUnix("unixgram", nil, &net.UnixAddr{Name: path, Net: "unixgram"})
	if err == nil {
		conn.Close()
		return fmt.Errorf("%w: %s", ErrEndpointInUse, path)
	}
	if !errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Errorf("probe %s: %w", path, err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale socket: %w", err)
	}
	return nil
}

func enablePassCred(conn *net.UnixConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}
	var serr error
	if err := raw.Control(func(fd uintptr) {
		serr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_PASSCRED, 1)
	}); err != nil {
		return err
	}
	return serr
}

func (t *Transport) readLoop() {
	defer t.wg.Done()

	buf := make([]byte, 16)
	oob := make([]byte, unix.CmsgSpace(unix.SizeofUcred))
	for {
		n, oobn, _, _, err := t.conn.ReadMsgUnix(buf, oob)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			t.logger.Warn("read notification", log.Err(err))
			continue
		}
		if n != 1 {
			t.logger.Debug("ignoring malformed datagram", log.Int("bytes", n))
			continue
		}
		from, ok := peerFromControl(oob[:oobn])
		if !ok {
			t.logger.Debug("ignoring datagram without credentials")
			continue
		}

		select {
		case t.queue <- domain.Notification{Kind: domain.Kind(buf[0]), From: from}:
		case <-t.done:
			return
		}
	}
}

// peerFromControl extracts the sending pid from SCM_CREDENTIALS.
func peerFromControl(oob []byte) (domain.PeerID, bool) {
	msgs, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return domain.NoPeer, false
	}
	for i := range msgs {
		if msgs[i].Header.Level != unix.SOL_SOCKET || msgs[i].Header.Type != unix.SCM_CREDENTIALS {
			continue
		}
		cred, err := unix.ParseUnixCredentials(&msgs[i])
		if err != nil {
			return domain.NoPeer, false
		}
		return domain.PeerID(cred.Pid), true
	}
	return domain.NoPeer, false
}

package endpoint

import (
	"net"
	"strconv"
	"sync"
	"syscall"
	"time"

	hermeserrors "github.com/hermes-org/acceptance-tests/internal/errors"
	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
	"github.com/hermes-org/acceptance-tests/internal/hermes/statemachine"
)

// DownstreamConnection is the inbound server role: it listens, accepts
// exactly one peer, and refuses (with a Notification) any further accept
// attempt while that peer is connected (spec §4.D).
type DownstreamConnection struct {
	*base
	listener net.Listener

	acceptedOnce sync.Once
	acceptedCh   chan struct{}
}

// NewDownstreamConnection builds an unlistening downstream endpoint.
func NewDownstreamConnection() *DownstreamConnection {
	return &DownstreamConnection{
		base:       newBase(statemachine.NewDownstreamStateMachine(), "downstream"),
		acceptedCh: make(chan struct{}),
	}
}

// Connect binds and listens on host:port with address reuse, then spawns
// the accept loop.
func (d *DownstreamConnection) Connect(host string, port int) error {
	lc := net.ListenConfig{Control: setReuseAddr}
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	ln, err := lc.Listen(d.ctx, "tcp", addr)
	if err != nil {
		return hermeserrors.NewConnectionLost("downstream.Connect", err)
	}
	d.listener = ln
	d.log.Debug("listening for downstream peer", "addr", addr)
	d.startAcceptLoop()
	return nil
}

// Addr returns the bound listening address; callers pass port 0 to Connect
// to let the OS pick a free port and read it back here (used by tests and
// by callers that want to report the chosen port).
func (d *DownstreamConnection) Addr() net.Addr {
	if d.listener == nil {
		return nil
	}
	return d.listener.Addr()
}

// WaitForConnection blocks until a peer has been accepted or timeout
// elapses.
func (d *DownstreamConnection) WaitForConnection(timeout time.Duration) error {
	select {
	case <-d.acceptedCh:
		return nil
	case <-time.After(timeout):
		return hermeserrors.NewConnectionLost("downstream.WaitForConnection",
			errNoConnection(timeout))
	}
}

// startAcceptLoop accepts the first peer and starts its receive loop; any
// subsequent peer is sent a ConnectionRefused Notification and closed,
// while the first peer's connection remains untouched (spec §8 "Boundary
// behaviors").
func (d *DownstreamConnection) startAcceptLoop() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for {
			conn, err := d.listener.Accept()
			if err != nil {
				select {
				case <-d.ctx.Done():
					return
				default:
				}
				d.setBackgroundError(hermeserrors.NewConnectionLost("downstream.acceptLoop", err))
				return
			}

			d.mu.Lock()
			haveConn := d.conn != nil
			if !haveConn {
				d.conn = conn
			}
			d.mu.Unlock()

			if haveConn {
				refuseConnection(conn)
				continue
			}

			d.acceptedOnce.Do(func() { close(d.acceptedCh) })
			d.startReceiveLoop(conn)
		}
	}()
}

func refuseConnection(conn net.Conn) {
	notif := message.NewNotification(message.NotificationConnectionRefused, message.SeverityError,
		"a peer is already connected")
	raw, err := notif.ToBytes()
	if err == nil {
		_, _ = conn.Write(raw)
	}
	_ = conn.Close()
}

func (d *DownstreamConnection) startReceiveLoop(conn net.Conn) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		buf := make([]byte, 4096)
		for {
			select {
			case <-d.ctx.Done():
				return
			default:
			}
			_ = conn.SetReadDeadline(time.Now().Add(listenerPollInterval))
			n, err := conn.Read(buf)
			if n > 0 {
				msgs, decErr := d.decoder.Feed(buf[:n])
				d.enqueue(msgs)
				if decErr != nil {
					d.setBackgroundError(decErr)
					return
				}
			}
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					continue
				}
				select {
				case <-d.ctx.Done():
				default:
					d.setBackgroundError(hermeserrors.NewConnectionLost("downstream.receiveLoop", err))
				}
				return
			}
		}
	}()
}

// Close additionally closes the listener socket before joining goroutines.
func (d *DownstreamConnection) Close() error {
	if d.listener != nil {
		_ = d.listener.Close()
	}
	return d.base.Close()
}

func setReuseAddr(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}

type noConnectionError struct{ timeout time.Duration }

func errNoConnection(timeout time.Duration) error { return &noConnectionError{timeout: timeout} }

func (e *noConnectionError) Error() string {
	return "no peer connected within " + e.timeout.String()
}

package endpoint

import (
	"context"
	"net"
	"strconv"
	"time"

	hermeserrors "github.com/hermes-org/acceptance-tests/internal/errors"
	"github.com/hermes-org/acceptance-tests/internal/hermes/statemachine"
)

// UpstreamConnection is the outbound client role: it dials a downstream
// peer and drives the upstream view of the protocol state machine
// (spec §4.D).
type UpstreamConnection struct {
	*base
}

// NewUpstreamConnection builds an unconnected upstream endpoint.
func NewUpstreamConnection() *UpstreamConnection {
	return &UpstreamConnection{base: newBase(statemachine.NewUpstreamStateMachine(), "upstream")}
}

// Connect resolves host, attempts each resolved address in turn, and on the
// first success starts the background receive loop. Fails with
// *ConnectionLost if no address succeeds.
func (u *UpstreamConnection) Connect(host string, port int) error {
	addrs, err := net.DefaultResolver.LookupIPAddr(context.Background(), host)
	if err != nil || len(addrs) == 0 {
		return hermeserrors.NewConnectionLost("upstream.Connect",
			&dialError{host: host, port: port, cause: err})
	}

	dialer := net.Dialer{Timeout: DefaultSocketTimeout}
	var lastErr error
	for _, addr := range addrs {
		target := net.JoinHostPort(addr.String(), strconv.Itoa(port))
		conn, err := dialer.Dial("tcp", target)
		if err != nil {
			lastErr = err
			continue
		}
		u.conn = conn
		u.log.Debug("connection to downstream interface successfully opened", "host", host, "port", port)
		u.startReceiveLoop()
		return nil
	}
	return hermeserrors.NewConnectionLost("upstream.Connect", &dialError{host: host, port: port, cause: lastErr})
}

// startReceiveLoop reads from the socket on a background goroutine, feeding
// bytes into the decoder and enqueuing decoded messages, until Close is
// called or the socket errors.
func (u *UpstreamConnection) startReceiveLoop() {
	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		buf := make([]byte, 4096)
		for {
			select {
			case <-u.ctx.Done():
				return
			default:
			}
			_ = u.conn.SetReadDeadline(time.Now().Add(listenerPollInterval))
			n, err := u.conn.Read(buf)
			if n > 0 {
				msgs, decErr := u.decoder.Feed(buf[:n])
				u.enqueue(msgs)
				if decErr != nil {
					u.setBackgroundError(decErr)
					return
				}
			}
			if err != nil {
				if ne, ok := err.(net.Error); ok && ne.Timeout() {
					continue
				}
				select {
				case <-u.ctx.Done():
				default:
					u.setBackgroundError(hermeserrors.NewConnectionLost("upstream.receiveLoop", err))
				}
				return
			}
		}
	}()
}

type dialError struct {
	host  string
	port  int
	cause error
}

func (e *dialError) Error() string {
	return "cannot connect to " + e.host + ":" + strconv.Itoa(e.port) + ": " + errString(e.cause)
}

func errString(err error) string {
	if err == nil {
		return "no addresses resolved"
	}
	return err.Error()
}

package scenario

import (
	"time"

	"github.com/hermes-org/acceptance-tests/internal/hermes/endpoint"
	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
)

// downstreamWaitTimeout is the 10s wait_for_connection timeout the plain
// downstream context uses (spec §4.E item 3); the handshake variant reuses
// it too, since the spec gives no separate figure for that path.
const downstreamWaitTimeout = 10 * time.Second

// WithUpstream opens an upstream (client) connection to env's configured
// peer, runs fn, and closes the connection on every exit path, including a
// panic recovered and re-raised by fn itself (spec §4.E item 1).
func WithUpstream(env *Environment, fn func(conn *endpoint.UpstreamConnection) error) error {
	conn := endpoint.NewUpstreamConnection()
	defer conn.Close()
	if err := conn.Connect(env.Host, env.Port); err != nil {
		return err
	}
	return fn(conn)
}

// WithUpstreamHandshake opens an upstream connection, exchanges
// ServiceDescription, and runs fn (spec §4.E item 2).
func WithUpstreamHandshake(env *Environment, fromFunc string, fn func(conn *endpoint.UpstreamConnection) error) error {
	return WithUpstream(env, func(conn *endpoint.UpstreamConnection) error {
		if _, err := conn.SendMsg(env.ServiceDescriptionMessage()); err != nil {
			return err
		}
		if err := env.RunWaitForMsg(message.TagServiceDescription, fromFunc); err != nil {
			return err
		}
		if _, err := conn.ExpectMessage(message.TagServiceDescription, 0); err != nil {
			return err
		}
		return fn(conn)
	})
}

// WithDownstream binds and listens on env's configured local port, waits up
// to 10s for the peer to connect, emits CLIENT_CONNECTED, and runs fn (spec
// §4.E item 3).
func WithDownstream(env *Environment, fromFunc string, fn func(conn *endpoint.DownstreamConnection) error) error {
	conn := endpoint.NewDownstreamConnection()
	defer conn.Close()
	if err := conn.Connect(env.Host, env.ListenPort); err != nil {
		return err
	}
	if err := conn.WaitForConnection(downstreamWaitTimeout); err != nil {
		return err
	}
	addr := ""
	if a := conn.Addr(); a != nil {
		addr = a.String()
	}
	if err := env.RunCallback(CbEvent{Kind: CbClientConnected, Address: addr}, fromFunc); err != nil && err != ErrSkip {
		return err
	}
	return fn(conn)
}

// WithDownstreamHandshake binds, listens, accepts, then expects the peer's
// ServiceDescription before sending ours (spec §4.E item 4).
func WithDownstreamHandshake(env *Environment, fromFunc string, fn func(conn *endpoint.DownstreamConnection) error) error {
	return WithDownstream(env, fromFunc, func(conn *endpoint.DownstreamConnection) error {
		if err := env.RunWaitForMsg(message.TagServiceDescription, fromFunc); err != nil {
			return err
		}
		if _, err := conn.ExpectMessage(message.TagServiceDescription, 0); err != nil {
			return err
		}
		if _, err := conn.SendMsg(env.ServiceDescriptionMessage()); err != nil {
			return err
		}
		return fn(conn)
	})
}

package scenario

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/hermes-org/acceptance-tests/internal/hermes/endpoint"
	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
	"github.com/stretchr/testify/require"
)

func portOf(t *testing.T, addr net.Addr) int {
	t.Helper()
	_, portStr, err := net.SplitHostPort(addr.String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return port
}

// TestContextsComposeAFullHandshake drives the server side of the handshake
// (the sequence WithDownstreamHandshake runs) on one goroutine and
// WithUpstreamHandshake on the foreground, proving the client context helper
// interoperates end to end over loopback (spec §4.E items 2 and 4).
func TestContextsComposeAFullHandshake(t *testing.T) {
	// Bind the server's listener directly (rather than through
	// WithDownstream) so the test can learn the ephemeral port before the
	// client dials; the handshake sequence itself still runs through the
	// DownstreamConnection exactly as WithDownstreamHandshake drives it.
	down := endpoint.NewDownstreamConnection()
	require.NoError(t, down.Connect("127.0.0.1", 0))
	defer down.Close()
	port := portOf(t, down.Addr())

	serverEnv := NewEnvironment()
	serverEnv.Host = "127.0.0.1"

	done := make(chan error, 1)
	go func() {
		done <- func() error {
			if err := down.WaitForConnection(2 * time.Second); err != nil {
				return err
			}
			if _, err := down.ExpectMessage(message.TagServiceDescription, 2*time.Second); err != nil {
				return err
			}
			if _, err := down.SendMsg(serverEnv.ServiceDescriptionMessage()); err != nil {
				return err
			}
			_, err := down.SendMsg(message.NewCheckAlive(message.CheckAliveOptions{}))
			return err
		}()
	}()

	clientEnv := NewEnvironment()
	clientEnv.Host = "127.0.0.1"
	clientEnv.Port = port

	// Keep the client connected until the server goroutine has finished its
	// sends; closing earlier would make the server's last send report the
	// closed peer as ConnectionLost.
	var serverErr error
	err := WithUpstreamHandshake(clientEnv, "client", func(conn *endpoint.UpstreamConnection) error {
		serverErr = <-done
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, serverErr)
}

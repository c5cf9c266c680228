package endpoint

import (
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
	"github.com/hermes-org/acceptance-tests/internal/hermes/statemachine"
)

func portOf(t *testing.T, addr net.Addr) int {
	t.Helper()
	_, portStr, err := net.SplitHostPort(addr.String())
	if err != nil {
		t.Fatalf("splitting addr %s: %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parsing port %s: %v", portStr, err)
	}
	return port
}

func startDownstream(t *testing.T) *DownstreamConnection {
	t.Helper()
	d := NewDownstreamConnection()
	if err := d.Connect("127.0.0.1", 0); err != nil {
		t.Fatalf("downstream Connect: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestHandshakeOverLoopback(t *testing.T) {
	down := startDownstream(t)
	port := portOf(t, down.Addr())

	up := NewUpstreamConnection()
	if err := up.Connect("127.0.0.1", port); err != nil {
		t.Fatalf("upstream Connect: %v", err)
	}
	defer up.Close()

	if err := down.WaitForConnection(2 * time.Second); err != nil {
		t.Fatalf("WaitForConnection: %v", err)
	}

	sd := message.NewServiceDescription("Hermes Test API", "1", message.ServiceDescriptionOptions{})
	if _, err := up.SendMsg(sd); err != nil {
		t.Fatalf("upstream SendMsg: %v", err)
	}
	if _, err := down.ExpectMessage(message.TagServiceDescription, 2*time.Second); err != nil {
		t.Fatalf("downstream ExpectMessage: %v", err)
	}

	reply := message.NewServiceDescription("DownstreamId", "1", message.ServiceDescriptionOptions{})
	if _, err := down.SendMsg(reply); err != nil {
		t.Fatalf("downstream SendMsg: %v", err)
	}
	if _, err := up.ExpectMessage(message.TagServiceDescription, 2*time.Second); err != nil {
		t.Fatalf("upstream ExpectMessage: %v", err)
	}

	if up.sm.State() != statemachine.StateNotAvailableNotReady {
		t.Fatalf("upstream ended in %s, want NotAvailableNotReady", up.sm.State())
	}
	if down.sm.State() != statemachine.StateNotAvailableNotReady {
		t.Fatalf("downstream ended in %s, want NotAvailableNotReady", down.sm.State())
	}
}

func TestExpectMessageDiscardsNonMatching(t *testing.T) {
	down := startDownstream(t)
	port := portOf(t, down.Addr())

	up := NewUpstreamConnection()
	if err := up.Connect("127.0.0.1", port); err != nil {
		t.Fatalf("upstream Connect: %v", err)
	}
	defer up.Close()
	if err := down.WaitForConnection(2 * time.Second); err != nil {
		t.Fatalf("WaitForConnection: %v", err)
	}

	if _, err := up.SendTagAndBytes(message.TagCheckAlive, checkAliveRaw(t)); err != nil {
		t.Fatalf("SendTagAndBytes CheckAlive: %v", err)
	}
	sd := message.NewServiceDescription("Hermes Test API", "1", message.ServiceDescriptionOptions{})
	if _, err := up.SendMsg(sd); err != nil {
		t.Fatalf("SendMsg ServiceDescription: %v", err)
	}
	if _, err := up.SendTagAndBytes(message.TagCheckAlive, checkAliveRaw(t)); err != nil {
		t.Fatalf("SendTagAndBytes CheckAlive: %v", err)
	}

	msg, err := down.ExpectMessage(message.TagServiceDescription, 2*time.Second)
	if err != nil {
		t.Fatalf("ExpectMessage: %v", err)
	}
	if msg.Tag != message.TagServiceDescription {
		t.Fatalf("expected ServiceDescription, got %s", msg.Tag)
	}
}

func TestSecondConnectionIsRefused(t *testing.T) {
	down := startDownstream(t)
	port := portOf(t, down.Addr())

	a := NewUpstreamConnection()
	if err := a.Connect("127.0.0.1", port); err != nil {
		t.Fatalf("client A Connect: %v", err)
	}
	defer a.Close()
	if err := down.WaitForConnection(2 * time.Second); err != nil {
		t.Fatalf("WaitForConnection: %v", err)
	}

	raw, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
	if err != nil {
		t.Fatalf("raw dial for client B: %v", err)
	}
	defer raw.Close()

	_ = raw.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 4096)
	n, err := raw.Read(buf)
	if err != nil {
		t.Fatalf("reading refusal from client B socket: %v", err)
	}
	parsed, err := parseRaw(buf[:n])
	if err != nil {
		t.Fatalf("parsing refusal message: %v", err)
	}
	if parsed.Tag != message.TagNotification {
		t.Fatalf("expected Notification, got %s", parsed.Tag)
	}
	code, _ := parsed.Get("NotificationCode")
	if code != "2" {
		t.Fatalf("expected NotificationCode 2 (ConnectionRefused), got %s", code)
	}

	if _, err := a.SendTagAndBytes(message.TagCheckAlive, checkAliveRaw(t)); err != nil {
		t.Fatalf("client A send should still succeed: %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	down := startDownstream(t)
	if err := down.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := down.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func checkAliveRaw(t *testing.T) []byte {
	t.Helper()
	raw, err := message.NewCheckAlive(message.CheckAliveOptions{}).ToBytes()
	if err != nil {
		t.Fatalf("building CheckAlive: %v", err)
	}
	return raw
}

func parseRaw(raw []byte) (*message.Message, error) {
	return message.Parse(raw)
}

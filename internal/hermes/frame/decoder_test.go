package frame

import (
	"bytes"
	"strings"
	"testing"

	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
)

func checkAliveBytes(t *testing.T) []byte {
	t.Helper()
	raw, err := message.NewCheckAlive(message.CheckAliveOptions{}).ToBytes()
	if err != nil {
		t.Fatalf("building CheckAlive bytes: %v", err)
	}
	return raw
}

func TestFeedSingleMessage(t *testing.T) {
	d := NewDecoder()
	msgs, err := d.Feed(checkAliveBytes(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Tag != message.TagCheckAlive {
		t.Fatalf("unexpected tag: %s", msgs[0].Tag)
	}
}

func TestFeedPartialThenCompletion(t *testing.T) {
	d := NewDecoder()
	raw := checkAliveBytes(t)
	split := len(raw) / 2

	msgs, err := d.Feed(raw[:split])
	if err != nil {
		t.Fatalf("unexpected error on partial feed: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected no messages yet, got %d", len(msgs))
	}

	msgs, err = d.Feed(raw[split:])
	if err != nil {
		t.Fatalf("unexpected error completing message: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message after completion, got %d", len(msgs))
	}
}

func TestFeedCoalescedMessagesInOneWrite(t *testing.T) {
	sd, err := message.NewServiceDescription("DownstreamId", "1", message.ServiceDescriptionOptions{}).ToBytes()
	if err != nil {
		t.Fatalf("building ServiceDescription: %v", err)
	}
	ca := checkAliveBytes(t)

	var combined bytes.Buffer
	combined.Write(ca)
	combined.Write(sd)
	combined.Write(ca)

	d := NewDecoder()
	msgs, err := d.Feed(combined.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 coalesced messages, got %d", len(msgs))
	}
	if msgs[0].Tag != message.TagCheckAlive || msgs[1].Tag != message.TagServiceDescription || msgs[2].Tag != message.TagCheckAlive {
		t.Fatalf("unexpected tag order: %v %v %v", msgs[0].Tag, msgs[1].Tag, msgs[2].Tag)
	}
}

func TestFeedOversizeWithoutTerminatorIsFramingError(t *testing.T) {
	d := NewDecoder()
	oversize := []byte(strings.Repeat("x", message.MaxMessageSize+1))
	_, err := d.Feed(oversize)
	if err == nil {
		t.Fatalf("expected framing error for oversize buffer without terminator")
	}
}

func TestFeedExactlyMaxSizeIsAccepted(t *testing.T) {
	sd := message.NewServiceDescription("DownstreamId", "1", message.ServiceDescriptionOptions{})
	raw, err := sd.ToBytes()
	if err != nil {
		t.Fatalf("building message: %v", err)
	}
	// Splice padding before the terminator so the total is exactly MaxMessageSize,
	// mirroring the oversize-tolerance scenario (spec §8 scenario 2).
	pad := message.MaxMessageSize - len(raw)
	padded := append(raw[:len(raw)-len("</Hermes>")], []byte(strings.Repeat("x", pad))...)
	padded = append(padded, []byte("</Hermes>")...)

	d := NewDecoder()
	msgs, err := d.Feed(padded)
	if err != nil {
		t.Fatalf("unexpected error for exact max-size message: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
}

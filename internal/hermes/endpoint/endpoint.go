// Package endpoint implements the two connection shapes a Hermes
// conformance run drives: an outbound UpstreamConnection (client) and an
// inbound DownstreamConnection (server), sharing a base that owns the
// pending-bytes decoder, the message deque, the state machine, and the
// background listener goroutine (spec §3 Endpoint, §4.D, §5).
package endpoint

import (
	"context"
	"net"
	"sync"
	"time"

	hermeserrors "github.com/hermes-org/acceptance-tests/internal/errors"
	"github.com/hermes-org/acceptance-tests/internal/hermes/frame"
	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
	"github.com/hermes-org/acceptance-tests/internal/hermes/statemachine"
	"github.com/hermes-org/acceptance-tests/internal/logger"
)

const (
	// DefaultSocketTimeout bounds each dial attempt in
	// UpstreamConnection.Connect. No read or write deadline is derived from
	// it once the socket is connected.
	DefaultSocketTimeout = 20 * time.Second
	// DefaultExpectTimeout bounds ExpectMessage's wall-clock wait.
	DefaultExpectTimeout = 20 * time.Second
	// listenerPollInterval is how often the background listener checks its
	// shutdown flag between read attempts (spec §4.D "500 ms poll").
	listenerPollInterval = 500 * time.Millisecond
	// expectPollInterval is how often ExpectMessage re-checks the deque
	// while waiting for a new message to arrive.
	expectPollInterval = 100 * time.Millisecond
	// postSendDelay lets the peer start responding before the caller moves
	// on, matching the original send_msg's fixed sleep.
	postSendDelay = 20 * time.Millisecond
)

// base is embedded by UpstreamConnection and DownstreamConnection. It owns
// everything both roles need once a peer socket exists: the decoder, the
// message deque, the state machine, and the listener lifecycle.
type base struct {
	mu   sync.Mutex
	conn net.Conn

	decoder *frame.Decoder
	deque   []*message.Message
	sm      *statemachine.StateMachine

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once

	bgMu  sync.Mutex
	bgErr error

	log *logger.Logger
}

func newBase(sm *statemachine.StateMachine, role string) *base {
	ctx, cancel := context.WithCancel(context.Background())
	return &base{
		decoder: frame.NewDecoder(),
		sm:      sm,
		ctx:     ctx,
		cancel:  cancel,
		log:     logger.Get().WithComponent("ipc_hermes").WithConn(role, ""),
	}
}

func (b *base) setBackgroundError(err error) {
	b.bgMu.Lock()
	defer b.bgMu.Unlock()
	if b.bgErr == nil {
		b.bgErr = err
	}
}

func (b *base) takeBackgroundError() error {
	b.bgMu.Lock()
	defer b.bgMu.Unlock()
	return b.bgErr
}

func (b *base) enqueue(msgs []*message.Message) {
	if len(msgs) == 0 {
		return
	}
	b.mu.Lock()
	b.deque = append(b.deque, msgs...)
	b.mu.Unlock()
}

func (b *base) popFront() (*message.Message, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.deque) == 0 {
		return nil, false
	}
	msg := b.deque[0]
	b.deque = b.deque[1:]
	return msg, true
}

// SendMsg routes msg through the state machine's send side, writes its
// serialization, and surfaces any background listener error as
// *ConnectionLost (spec §4.D "Common surface"). An illegal send raises
// *StateMachineError; use SendIllegalMsg for negative-path scenarios that
// deliberately inject a message illegal in the current state.
func (b *base) SendMsg(msg *message.Message) (int, error) {
	return b.send(msg.Tag, true, func() ([]byte, error) { return msg.ToBytes() })
}

// SendIllegalMsg sends msg in "strict-send-off" mode: an illegal tag for
// the current state is logged and sent anyway instead of raising, the mode
// spec §4.B reserves for negative-path scenarios that probe a peer's
// handling of protocol violations.
func (b *base) SendIllegalMsg(msg *message.Message) (int, error) {
	return b.send(msg.Tag, false, func() ([]byte, error) { return msg.ToBytes() })
}

// SendTagAndBytes drives the state machine with tag but writes raw bytes
// verbatim, for tests that inject malformed or oversize payloads.
func (b *base) SendTagAndBytes(tag message.Tag, raw []byte) (int, error) {
	return b.send(tag, true, func() ([]byte, error) { return raw, nil })
}

func (b *base) send(tag message.Tag, raiseOnError bool, encode func() ([]byte, error)) (int, error) {
	if err := b.sm.OnSendTag(tag, raiseOnError); err != nil {
		return 0, err
	}
	raw, err := encode()
	if err != nil {
		return 0, hermeserrors.NewParseError("endpoint.send", err)
	}
	b.log.Debug("sending", "tag", string(tag))
	n, err := b.conn.Write(raw)
	if err != nil {
		return n, hermeserrors.NewConnectionLost("endpoint.send", err)
	}
	time.Sleep(postSendDelay)
	if bgErr := b.takeBackgroundError(); bgErr != nil {
		return n, hermeserrors.NewConnectionLost("endpoint.send", bgErr)
	}
	return n, nil
}

// ExpectMessage pops messages off the deque in arrival order, applying the
// receive-side state transition to each (which may raise), until one whose
// tag matches is found; non-matching messages are consumed and discarded.
// It polls at expectPollInterval while the deque is empty, up to timeout.
func (b *base) ExpectMessage(tag message.Tag, timeout time.Duration) (*message.Message, error) {
	if timeout <= 0 {
		timeout = DefaultExpectTimeout
	}
	b.log.Debug("waiting for", "tag", string(tag))
	deadline := time.Now().Add(timeout)

	for {
		for {
			msg, ok := b.popFront()
			if !ok {
				break
			}
			if err := b.sm.OnRecv(msg); err != nil {
				return nil, err
			}
			if msg.Tag == tag {
				return msg, nil
			}
		}
		if bgErr := b.takeBackgroundError(); bgErr != nil {
			return nil, hermeserrors.NewConnectionLost("endpoint.ExpectMessage", bgErr)
		}
		if time.Now().After(deadline) {
			return nil, hermeserrors.NewConnectionLost("endpoint.ExpectMessage",
				errTimeout(tag, timeout))
		}
		time.Sleep(expectPollInterval)
	}
}

// Close sets the shutdown flag, joins the listener goroutine, and closes
// the socket. Safe to call multiple times and on partially-initialized
// endpoints.
func (b *base) Close() error {
	b.closeOnce.Do(func() {
		b.cancel()
		if b.conn != nil {
			_ = b.conn.Close()
		}
		b.wg.Wait()
	})
	return nil
}

type timeoutError struct {
	tag     message.Tag
	timeout time.Duration
}

func errTimeout(tag message.Tag, timeout time.Duration) error {
	return &timeoutError{tag: tag, timeout: timeout}
}

func (e *timeoutError) Error() string {
	return "expected message <" + string(e.tag) + "> but timed out after " + e.timeout.String()
}

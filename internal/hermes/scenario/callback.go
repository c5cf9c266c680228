package scenario

import (
	"errors"
	"fmt"

	"github.com/hermes-org/acceptance-tests/internal/hermes/message"
)

// CbKind is the closed set of callback events a scenario can emit (spec
// §4.E "Callback channel").
type CbKind int

const (
	CbUnknown CbKind = iota
	CbBeforeTestCase
	CbAfterTestCase
	CbProgress
	CbWaitForMsg
	CbHermesVersion
	CbClientConnected
	CbWarning
	CbError
)

func (k CbKind) String() string {
	switch k {
	case CbBeforeTestCase:
		return "BEFORE_TEST_CASE"
	case CbAfterTestCase:
		return "AFTER_TEST_CASE"
	case CbProgress:
		return "PROGRESS"
	case CbWaitForMsg:
		return "WAIT_FOR_MSG"
	case CbHermesVersion:
		return "HERMES_VERSION"
	case CbClientConnected:
		return "CLIENT_CONNECTED"
	case CbWarning:
		return "WARNING"
	case CbError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// CbEvent is a tagged variant over the event kinds §4.E lists; only the
// fields relevant to Kind are populated. Rendering the event to text is the
// callback edge's job, not the core's (spec §9 "Dynamic callback signature").
type CbEvent struct {
	Kind    CbKind
	Tag     message.Tag // CbWaitForMsg
	Version string      // CbHermesVersion
	Address string      // CbClientConnected
	Text    string       // CbProgress, CbWarning, CbError
}

// Render produces the human-readable text a UI/CLI collaborator can display
// verbatim.
func (e CbEvent) Render() string {
	switch e.Kind {
	case CbBeforeTestCase:
		return "starting test case"
	case CbAfterTestCase:
		return "test case finished"
	case CbProgress:
		return e.Text
	case CbWaitForMsg:
		return fmt.Sprintf("waiting for message <%s>", e.Tag)
	case CbHermesVersion:
		return fmt.Sprintf("system under test reports IPC-Hermes version %s", e.Version)
	case CbClientConnected:
		return fmt.Sprintf("peer connected from %s", e.Address)
	case CbWarning:
		return "warning: " + e.Text
	case CbError:
		return "error: " + e.Text
	default:
		return e.Text
	}
}

// Callback is the out-of-band channel the core uses to prompt an external
// operator/driver (spec §6 "Callback contract"). fromFunc names the
// scenario invoking it. Implementations may be called from an internal
// worker thread and are responsible for marshaling to their own event loop.
type Callback func(text string, fromFunc string, event CbEvent)

// ErrSkip is returned by RunCallback when no callback is registered; a
// scenario that cannot proceed without operator interaction should
// propagate it so RunTest records a skip rather than a failure (spec §4.E
// "If no callback is registered and a scenario invokes one, the scenario is
// skipped, not failed").
var ErrSkip = errors.New("scenario requires a callback but none is registered")

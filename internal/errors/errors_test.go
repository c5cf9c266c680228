package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestIsConnectionLostClassification(t *testing.T) {
	root := stdErrors.New("root")
	wrapped := fmt.Errorf("adding context: %w", root)
	cl := NewConnectionLost("endpoint.read", wrapped)
	if !IsConnectionLost(cl) {
		t.Fatalf("expected IsConnectionLost=true for connection-lost error")
	}
	if !IsHermesError(cl) {
		t.Fatalf("expected IsHermesError=true for connection-lost error")
	}
	if !stdErrors.Is(cl, root) {
		t.Fatalf("expected errors.Is to find root cause")
	}
	var ce *ConnectionLost
	if !stdErrors.As(cl, &ce) {
		t.Fatalf("expected errors.As to *ConnectionLost")
	}
	if ce.Op != "endpoint.read" {
		t.Fatalf("unexpected op: %s", ce.Op)
	}
}

func TestIsStateMachineErrorClassification(t *testing.T) {
	sm := NewStateMachineError("NotAvailableNotReady", "BoardAvailable", nil)
	if !IsStateMachineError(sm) {
		t.Fatalf("expected IsStateMachineError=true")
	}
	if IsConnectionLost(sm) {
		t.Fatalf("state machine error should NOT be connection lost")
	}
	want := "illegal msg BoardAvailable in state NotAvailableNotReady"
	if got := sm.Error(); got != want {
		t.Fatalf("unexpected message: got %q want %q", got, want)
	}
}

func TestOtherHermesKindsClassify(t *testing.T) {
	pe := NewParseError("message.Parse", stdErrors.New("unexpected root element"))
	if !IsHermesError(pe) {
		t.Fatalf("expected parse error classified as hermes error")
	}
	ve := NewValidationError("validator.ServiceDescription", stdErrors.New("missing MachineId"))
	if !IsHermesError(ve) {
		t.Fatalf("expected validation error classified as hermes error")
	}
	cfg := NewConfigError("config.Load", stdErrors.New("missing [system.under.test]"))
	if !IsHermesError(cfg) {
		t.Fatalf("expected config error classified as hermes error")
	}
}

func TestUnwrapChains(t *testing.T) {
	base := stdErrors.New("EOF")
	l1 := fmt.Errorf("read: %w", base)
	l2 := NewConnectionLost("endpoint.recvLoop", l1)
	if !stdErrors.Is(l2, base) {
		t.Fatalf("errors.Is should reach base cause")
	}
	var hm hermesMarker
	if !stdErrors.As(l2, &hm) {
		t.Fatalf("expected to match hermesMarker via As")
	}
}

func TestNilSafety(t *testing.T) {
	if IsHermesError(nil) {
		t.Fatalf("nil should not be a hermes error")
	}
	if IsConnectionLost(nil) {
		t.Fatalf("nil should not be connection lost")
	}
	if IsStateMachineError(nil) {
		t.Fatalf("nil should not be state machine error")
	}
}

func TestConstructorWithoutCause(t *testing.T) {
	pe := NewParseError("message.Parse", nil)
	if pe == nil {
		t.Fatalf("constructor returned nil")
	}
	if errStr := pe.Error(); errStr == "" {
		t.Fatalf("expected non-empty error string")
	}
}

func TestNilErrBranchesAndStrings(t *testing.T) {
	p := NewParseError("op1", nil)
	if s := p.Error(); s == "" || s == "parse error:" {
		t.Fatalf("unexpected parse error string: %q", s)
	}

	c := NewConnectionLost("op2", nil)
	if s := c.Error(); s == "" || s == "connection lost:" {
		t.Fatalf("unexpected connection lost string: %q", s)
	}

	v := NewValidationError("op3", nil)
	if s := v.Error(); s == "" {
		t.Fatalf("empty validation error string")
	}

	cfg := NewConfigError("op4", nil)
	if s := cfg.Error(); s == "" {
		t.Fatalf("empty config error string")
	}

	sm := NewStateMachineError("Idle", "Unknown", nil)
	if s := sm.Error(); s == "" {
		t.Fatalf("empty state machine error string")
	}
}

func TestNegativePredicates(t *testing.T) {
	plain := stdErrors.New("plain")
	if IsHermesError(plain) {
		t.Fatalf("plain error shouldn't classify as a hermes error")
	}
	if IsConnectionLost(plain) {
		t.Fatalf("plain error shouldn't be connection lost")
	}
	if IsStateMachineError(plain) {
		t.Fatalf("plain error shouldn't be state machine error")
	}
}

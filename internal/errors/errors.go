// Package errors defines the typed error kinds raised across the Hermes
// conformance harness: ParseError, StateMachineError, ConnectionLost,
// ValidationError, and ConfigError (spec §7).
package errors

import (
	stdErrors "errors"
	"fmt"
)

// hermesMarker is implemented by every error type in this package so callers
// can classify "is this one of ours" without a type switch per kind.
type hermesMarker interface {
	error
	isHermes()
}

// ParseError indicates malformed or non-conformant Hermes XML.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse error: %s", e.Op)
	}
	return fmt.Sprintf("parse error: %s: %v", e.Op, e.Err)
}
func (e *ParseError) Unwrap() error { return e.Err }
func (e *ParseError) isHermes()     {}

// StateMachineError indicates a tag was illegal in the current state,
// either on send (strict mode) or receive (always fatal). It carries the
// state and tag so callers can render "Illegal msg <tag> in state <state>"
// the way the original Python StateMachineError does.
type StateMachineError struct {
	State string
	Tag   string
	Err   error
}

func (e *StateMachineError) Error() string {
	return fmt.Sprintf("illegal msg %s in state %s", e.Tag, e.State)
}
func (e *StateMachineError) Unwrap() error { return e.Err }
func (e *StateMachineError) isHermes()     {}

// ConnectionLost indicates a socket was closed, refused, timed out, or a
// framing buffer overran without yielding a terminator.
type ConnectionLost struct {
	Op  string
	Err error
}

func (e *ConnectionLost) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("connection lost: %s", e.Op)
	}
	return fmt.Sprintf("connection lost: %s: %v", e.Op, e.Err)
}
func (e *ConnectionLost) Unwrap() error { return e.Err }
func (e *ConnectionLost) isHermes()     {}

// ValidationError indicates a field validator assertion failed.
type ValidationError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("validation error: %s", e.Op)
	}
	return fmt.Sprintf("validation error: %s: %v", e.Op, e.Err)
}
func (e *ValidationError) Unwrap() error { return e.Err }
func (e *ValidationError) isHermes()     {}

// ConfigError indicates missing or malformed required configuration.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("config error: %s", e.Op)
	}
	return fmt.Sprintf("config error: %s: %v", e.Op, e.Err)
}
func (e *ConfigError) Unwrap() error { return e.Err }
func (e *ConfigError) isHermes()     {}

// Constructors (encourage contextual wrapping with %w when used by callers).
func NewParseError(op string, cause error) error { return &ParseError{Op: op, Err: cause} }
func NewStateMachineError(state, tag string, cause error) error {
	return &StateMachineError{State: state, Tag: tag, Err: cause}
}
func NewConnectionLost(op string, cause error) error { return &ConnectionLost{Op: op, Err: cause} }
func NewValidationError(op string, cause error) error {
	return &ValidationError{Op: op, Err: cause}
}
func NewConfigError(op string, cause error) error { return &ConfigError{Op: op, Err: cause} }

// IsHermesError returns true if the error chain contains any of this
// package's typed error kinds.
func IsHermesError(err error) bool {
	if err == nil {
		return false
	}
	var hm hermesMarker
	return stdErrors.As(err, &hm)
}

// IsConnectionLost returns true if err is (or wraps) a *ConnectionLost.
func IsConnectionLost(err error) bool {
	var cl *ConnectionLost
	return stdErrors.As(err, &cl)
}

// IsStateMachineError returns true if err is (or wraps) a *StateMachineError.
func IsStateMachineError(err error) bool {
	var sm *StateMachineError
	return stdErrors.As(err, &sm)
}

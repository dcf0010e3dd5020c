package jsbsim

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrClosed is returned when a command is issued on a closed Client.
	ErrClosed = errors.New("client is closed")
)

// LaunchError indicates the simulator process could not be started, or
// exited before announcing readiness on its standard output.
type LaunchError struct {
	Cause   error
	Message string
}

func (e *LaunchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("launch error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("launch error: %s", e.Message)
}

func (e *LaunchError) Unwrap() error {
	return e.Cause
}

// ExecutableNotFoundError indicates the simulator binary was not found.
type ExecutableNotFoundError struct {
	Path  string
	Cause error
}

func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("simulator executable not found at %q: %v", e.Path, e.Cause)
}

func (e *ExecutableNotFoundError) Unwrap() error {
	return e.Cause
}

// ProtocolError indicates the console replied with a line that does not
// match the expected response for the command issued. Line carries the raw
// offending response for diagnostics.
type ProtocolError struct {
	Command string
	Line    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s: unexpected response %q", e.Command, e.Line)
}

// ParseError indicates a get response was received but its value segment
// could not be converted into the requested type.
type ParseError struct {
	Cause error
	Key   string
	Raw   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: property %s: cannot parse %q: %v", e.Key, e.Raw, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

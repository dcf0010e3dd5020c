package jsbsim

import (
	"fmt"
	"strconv"
	"strings"
)

// Hold asks the simulator to enter the suspended hold state. Any response
// line counts as success; the console's hold acknowledgement is not
// validated, deliberately asymmetric with Resume.
func (c *Client) Hold() error {
	_, err := c.roundTrip("hold")
	return err
}

// Resume resumes simulation execution after a hold.
func (c *Client) Resume() error {
	line, err := c.roundTrip("resume")
	if err != nil {
		return err
	}
	if !strings.HasSuffix(line, "Resuming") {
		return &ProtocolError{Command: "resume", Line: line}
	}
	return nil
}

// Iterate advances the simulation by steps iterations. No upper bound is
// enforced on steps; the simulator accepts whatever the caller asks for.
func (c *Client) Iterate(steps int) error {
	command := fmt.Sprintf("iterate %d", steps)
	line, err := c.roundTrip(command)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(line, "Iterations performed") {
		return &ProtocolError{Command: command, Line: line}
	}
	return nil
}

// Set assigns value to the named simulator property. The value is rendered
// in its natural textual form.
func (c *Client) Set(key string, value any) error {
	command := fmt.Sprintf("set %s %v", key, value)
	line, err := c.roundTrip(command)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(line, "set successful") {
		return &ProtocolError{Command: command, Line: line}
	}
	return nil
}

// GetString reads the named property as its raw textual value.
func (c *Client) GetString(key string) (string, error) {
	return Get[string](c, key)
}

// Value is the set of types a simulator property can be parsed into.
type Value interface {
	int | int32 | int64 | uint | uint16 | uint64 | float32 | float64 | bool | string
}

// Get reads the named property and parses it into T. The console replies
// with "<key> = <value>"; a response with zero or more than one '=' is a
// ProtocolError, and a right-hand side that does not parse as T is a
// ParseError. Both are returned in every build configuration; there is no
// debug-only shape assertion.
func Get[T Value](c *Client, key string) (T, error) {
	var zero T

	command := "get " + key
	line, err := c.roundTrip(command)
	if err != nil {
		return zero, err
	}

	parts := strings.Split(line, "=")
	if len(parts) != 2 {
		return zero, &ProtocolError{Command: command, Line: line}
	}

	raw := strings.TrimSpace(parts[1])
	value, err := parseValue[T](raw)
	if err != nil {
		return zero, &ParseError{Key: key, Raw: raw, Cause: err}
	}
	return value, nil
}

// parseValue converts the textual value segment of a get response into T
// using the strconv parser for the concrete type.
func parseValue[T Value](raw string) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *string:
		*p = raw
	case *bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return out, err
		}
		*p = v
	case *int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return out, err
		}
		*p = v
	case *int32:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return out, err
		}
		*p = int32(v)
	case *int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return out, err
		}
		*p = v
	case *uint:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return out, err
		}
		*p = uint(v)
	case *uint16:
		v, err := strconv.ParseUint(raw, 10, 16)
		if err != nil {
			return out, err
		}
		*p = uint16(v)
	case *uint64:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return out, err
		}
		*p = v
	case *float32:
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return out, err
		}
		*p = float32(v)
	case *float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return out, err
		}
		*p = v
	}
	return out, nil
}

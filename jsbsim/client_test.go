package jsbsim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTimeout bounds every command in these tests so a framing bug shows up
// as a deadline error instead of a hung suite.
const testTimeout = 2 * time.Second

// fakeConsole is an in-process console server speaking the newline
// protocol: it greets with a banner and prompt, then answers each command
// line with whatever the handler returns (which may include prompt and
// blank-line noise). A quit command closes the connection.
type fakeConsole struct {
	ln       net.Listener
	mu       sync.Mutex
	commands []string
	quit     chan struct{}
}

func startFakeConsole(t *testing.T, handler func(cmd string) string) *fakeConsole {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	fc := &fakeConsole{ln: ln, quit: make(chan struct{})}

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		_, _ = io.WriteString(conn, "JSBSim console connected\n\nJSBSim>\n")

		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			cmd := strings.TrimSpace(scanner.Text())
			fc.mu.Lock()
			fc.commands = append(fc.commands, cmd)
			fc.mu.Unlock()

			if cmd == "quit" {
				close(fc.quit)
				return
			}
			if handler != nil {
				_, _ = io.WriteString(conn, handler(cmd))
			}
		}
	}()

	return fc
}

func (fc *fakeConsole) addr() string {
	return fc.ln.Addr().String()
}

func (fc *fakeConsole) received() []string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]string(nil), fc.commands...)
}

func dialFake(t *testing.T, fc *fakeConsole) *Client {
	t.Helper()
	c, err := Dial(fc.addr(), WithCommandTimeout(testTimeout))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// echoProperty answers get commands from a static property table and
// acknowledges everything else.
func echoProperty(props map[string]string) func(string) string {
	return func(cmd string) string {
		if key, ok := strings.CutPrefix(cmd, "get "); ok {
			return fmt.Sprintf("%s = %s\nJSBSim>\n", key, props[key])
		}
		return "ok\n"
	}
}

func TestDial_ConsumesBanner(t *testing.T) {
	t.Parallel()
	fc := startFakeConsole(t, echoProperty(map[string]string{
		PropSimTimeSec: "0.0025",
	}))

	c := dialFake(t, fc)

	// The banner must already be gone: the first command's response is the
	// first thing readResponse sees.
	got, err := Get[float64](c, PropSimTimeSec)
	require.NoError(t, err)
	assert.Equal(t, 0.0025, got)
}

func TestReadResponse_SkipsPromptAndBlankNoise(t *testing.T) {
	t.Parallel()
	fc := startFakeConsole(t, func(cmd string) string {
		return "\n\nJSBSim>\n   \nJSBSim Resuming\nJSBSim>\n"
	})

	c := dialFake(t, fc)
	require.NoError(t, c.Resume())
}

func TestHold_AcceptsAnyResponse(t *testing.T) {
	t.Parallel()
	fc := startFakeConsole(t, func(cmd string) string {
		return "no such thing as a hold acknowledgement\n"
	})

	c := dialFake(t, fc)
	assert.NoError(t, c.Hold())
}

func TestResume_RequiresSuffix(t *testing.T) {
	t.Parallel()
	fc := startFakeConsole(t, func(cmd string) string {
		return "Holding\n"
	})

	c := dialFake(t, fc)
	err := c.Resume()

	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, "resume", protoErr.Command)
	assert.Equal(t, "Holding", protoErr.Line)
}

func TestIterate_SendsStepCount(t *testing.T) {
	t.Parallel()
	fc := startFakeConsole(t, func(cmd string) string {
		return "120 Iterations performed\n"
	})

	c := dialFake(t, fc)
	require.NoError(t, c.Iterate(120))
	assert.Contains(t, fc.received(), "iterate 120")
}

func TestIterate_RejectsUnexpectedResponse(t *testing.T) {
	t.Parallel()
	fc := startFakeConsole(t, func(cmd string) string {
		return "cannot iterate while running\n"
	})

	c := dialFake(t, fc)
	err := c.Iterate(10)

	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, "cannot iterate while running", protoErr.Line)
}

func TestSet_RendersValueNaturally(t *testing.T) {
	t.Parallel()
	fc := startFakeConsole(t, func(cmd string) string {
		return "fcs/throttle-cmd-norm set successful\n"
	})

	c := dialFake(t, fc)
	require.NoError(t, c.Set(PropThrottleCmdNorm, 1.0))
	require.NoError(t, c.Set(PropThrottleCmdNorm, 0.5))
	require.NoError(t, c.Set(PropThrottleCmdNorm, "0.25"))

	got := fc.received()
	assert.Contains(t, got, "set fcs/throttle-cmd-norm 1")
	assert.Contains(t, got, "set fcs/throttle-cmd-norm 0.5")
	assert.Contains(t, got, "set fcs/throttle-cmd-norm 0.25")
}

func TestSet_RejectsUnexpectedResponse(t *testing.T) {
	t.Parallel()
	fc := startFakeConsole(t, func(cmd string) string {
		return "unknown property\n"
	})

	c := dialFake(t, fc)
	err := c.Set("no/such/prop", 1)

	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestGet_ParsesTypes(t *testing.T) {
	t.Parallel()
	fc := startFakeConsole(t, echoProperty(map[string]string{
		"f": "0.3025",
		"i": "-42",
		"b": "0",
		"s": "Concorde",
	}))

	c := dialFake(t, fc)

	f, err := Get[float64](c, "f")
	require.NoError(t, err)
	assert.Equal(t, 0.3025, f)

	i, err := Get[int](c, "i")
	require.NoError(t, err)
	assert.Equal(t, -42, i)

	b, err := Get[bool](c, "b")
	require.NoError(t, err)
	assert.False(t, b)

	s, err := c.GetString("s")
	require.NoError(t, err)
	assert.Equal(t, "Concorde", s)
}

func TestGet_MalformedResponses(t *testing.T) {
	t.Parallel()
	responses := map[string]string{
		"get no-separator":  "no separator here\n",
		"get two-separator": "a = b = c\n",
		"get not-a-number":  "not-a-number = abc\n",
	}
	fc := startFakeConsole(t, func(cmd string) string {
		return responses[cmd]
	})

	c := dialFake(t, fc)

	// Zero '=' in the response: protocol error carrying the raw line.
	_, err := Get[float64](c, "no-separator")
	var protoErr *ProtocolError
	require.ErrorAs(t, err, &protoErr)
	assert.Equal(t, "no separator here", protoErr.Line)

	// More than one '=': same, deterministically, not an assertion.
	_, err = Get[float64](c, "two-separator")
	require.ErrorAs(t, err, &protoErr)

	// Well-shaped response whose value does not parse as the target type.
	_, err = Get[float64](c, "not-a-number")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "not-a-number", parseErr.Key)
	assert.Equal(t, "abc", parseErr.Raw)
	assert.Error(t, parseErr.Unwrap())
}

func TestSetGet_RoundTrip(t *testing.T) {
	t.Parallel()
	props := map[string]string{}
	var mu sync.Mutex
	fc := startFakeConsole(t, func(cmd string) string {
		mu.Lock()
		defer mu.Unlock()
		if rest, ok := strings.CutPrefix(cmd, "set "); ok {
			key, value, _ := strings.Cut(rest, " ")
			props[key] = value
			return key + " set successful\n"
		}
		if key, ok := strings.CutPrefix(cmd, "get "); ok {
			return fmt.Sprintf("%s = %s\nJSBSim>\n", key, props[key])
		}
		return "ok\n"
	})

	c := dialFake(t, fc)

	require.NoError(t, c.Set(PropThrottleCmdNorm, 1.0))
	got, err := Get[float64](c, PropThrottleCmdNorm)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

// The Client must own one reader for its whole life: a response that
// arrives in the same TCP segment as earlier data has to survive until the
// command that consumes it.
func TestReader_KeepsBytesBufferedAcrossCommands(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		// Banner, prompt, and the next response all in one write. The
		// handshake must consume only the banner line; the rest stays
		// buffered for the upcoming get.
		_, _ = io.WriteString(conn, "JSBSim console connected\nJSBSim>\nsimulation/sim-time-sec = 1.5\n")
		_, _ = io.Copy(io.Discard, conn)
	}()

	c, err := Dial(ln.Addr().String(), WithCommandTimeout(testTimeout))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	got, err := Get[float64](c, PropSimTimeSec)
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)
}

func TestClose_SendsQuitAndIsIdempotent(t *testing.T) {
	t.Parallel()
	fc := startFakeConsole(t, nil)

	c, err := Dial(fc.addr(), WithCommandTimeout(testTimeout))
	require.NoError(t, err)

	require.NoError(t, c.Close())

	select {
	case <-fc.quit:
	case <-time.After(testTimeout):
		t.Fatal("console never received quit")
	}

	// Second close is a no-op.
	require.NoError(t, c.Close())

	// Commands after close fail fast.
	err = c.Hold()
	assert.True(t, errors.Is(err, ErrClosed))
}

// Not parallel: the file descriptor census must not race other tests'
// sockets.
func TestDial_HandshakeFailureClosesSocket(t *testing.T) {
	if _, err := os.Stat("/proc/self/fd"); err != nil {
		t.Skip("no /proc/self/fd on this platform")
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	// A console that accepts and hangs up before greeting: every
	// handshake read fails with EOF.
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	before := openFDCount(t)
	for i := 0; i < 20; i++ {
		_, err := Dial(ln.Addr().String())
		require.Error(t, err)
	}

	assert.LessOrEqual(t, openFDCount(t), before+2,
		"failed handshakes must not leak sockets")
}

func openFDCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	require.NoError(t, err)
	return len(entries)
}

func TestDial_HandshakeHonorsCommandTimeout(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	// Accept, then stay silent: no banner, no prompt, nothing.
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_, _ = io.Copy(io.Discard, conn)
	}()

	start := time.Now()
	_, err = Dial(ln.Addr().String(), WithCommandTimeout(100*time.Millisecond))

	require.Error(t, err)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
	assert.Less(t, time.Since(start), testTimeout, "Dial must give up at the deadline")
}

func TestCommandTimeout_UnresponsiveConsole(t *testing.T) {
	t.Parallel()
	fc := startFakeConsole(t, func(cmd string) string {
		return "" // swallow every command
	})

	c, err := Dial(fc.addr(), WithCommandTimeout(100*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	err = c.Hold()
	require.Error(t, err)
	var netErr net.Error
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
}

package jsbsim

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"time"
)

// promptSentinel is the interactive prompt line the console emits between
// responses. It is protocol noise, never a response.
const promptSentinel = "JSBSim>"

// Client is a connection to a simulator console. It owns the socket and,
// when it spawned the simulator itself, the simulator process.
//
// A Client is not safe for concurrent use: the console protocol is strictly
// one command, one response, and the Client assumes exclusive sequential
// ownership by one caller.
type Client struct {
	conn net.Conn

	// reader lives as long as the connection. Response bytes that arrive
	// early stay buffered here for the next read; recreating the reader
	// per call would silently discard them.
	reader *bufio.Reader

	proc   *launchedProcess
	addr   string
	config clientConfig
	closed bool
}

// Dial attaches to an already-running simulator console at address and
// consumes the startup banner. The returned Client is ready for commands.
func Dial(address string, opts ...Option) (*Client, error) {
	config := defaultClientConfig()
	for _, opt := range opts {
		opt(&config)
	}

	conn, err := net.Dial("tcp", address)
	if err != nil {
		return nil, err
	}

	return newClient(conn, nil, address, config)
}

// Launch spawns a simulator instance per cfg, waits for it to announce
// readiness on stdout, and connects to its console. The listening socket
// may lag the readiness marker, so the connection is retried with backoff.
// On any failure after the spawn, the spawned process is killed and waited
// on before the error is returned.
func Launch(ctx context.Context, cfg LaunchConfig, opts ...Option) (*Client, error) {
	config := defaultClientConfig()
	for _, opt := range opts {
		opt(&config)
	}

	proc, err := launchProcess(ctx, cfg, config.logger)
	if err != nil {
		return nil, err
	}

	address := net.JoinHostPort("localhost", strconv.Itoa(int(cfg.Port)))

	var conn net.Conn
	for attempt := 1; ; attempt++ {
		conn, err = net.Dial("tcp", address)
		if err == nil {
			break
		}
		if attempt >= config.connectAttempts {
			proc.shutdown(config.logger)
			return nil, err
		}
		config.logger.Debug("console not accepting yet, retrying",
			"address", address, "attempt", attempt, "error", err)
		time.Sleep(config.connectBackoff)
	}

	client, err := newClient(conn, proc, address, config)
	if err != nil {
		proc.shutdown(config.logger)
		return nil, err
	}
	return client, nil
}

// newClient wraps an open console socket and performs the handshake: one
// response read that discards the startup banner. A Client is never
// observable in a connected-but-not-handshaken state. newClient owns conn
// from here on: on handshake failure the socket is closed, never returned
// half-open to the caller.
func newClient(conn net.Conn, proc *launchedProcess, address string, config clientConfig) (*Client, error) {
	c := &Client{
		conn:   conn,
		reader: bufio.NewReader(conn),
		proc:   proc,
		addr:   address,
		config: config,
	}

	// The handshake read honors the configured command deadline; a console
	// that accepts but never greets must not block Dial forever.
	if err := c.armDeadline(); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := c.readResponse(); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// Addr returns the console address the Client is connected to.
func (c *Client) Addr() string {
	return c.addr
}

// sendLine writes one command line, newline-terminated, to the console.
func (c *Client) sendLine(line string) error {
	if c.closed {
		return ErrClosed
	}
	if err := c.armDeadline(); err != nil {
		return err
	}
	_, err := c.conn.Write([]byte(line + "\n"))
	return err
}

// readResponse reads the next logical response line: the first line that,
// after trimming, is neither empty nor the prompt sentinel. Interleaved
// prompt and blank noise is invisible to callers. Returns the trimmed line.
func (c *Client) readResponse() (string, error) {
	if c.closed {
		return "", ErrClosed
	}
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || trimmed == promptSentinel {
			continue
		}
		return trimmed, nil
	}
}

// roundTrip sends a command and reads its single logical response.
func (c *Client) roundTrip(command string) (string, error) {
	if err := c.sendLine(command); err != nil {
		return "", err
	}
	return c.readResponse()
}

// armDeadline applies the optional per-command deadline. With no timeout
// configured the socket stays fully blocking, which is the console
// protocol's native behavior.
func (c *Client) armDeadline() error {
	if c.config.commandTimeout <= 0 {
		return nil
	}
	return c.conn.SetDeadline(time.Now().Add(c.config.commandTimeout))
}

// Close releases the connection. It best-effort asks the console to quit
// (the socket may already be half-closed; send errors are ignored), closes
// the socket, and, if this Client spawned the simulator, kills and waits on
// the process unconditionally. Unclean exits are reported through the
// Client's logger, never as an error. Close is idempotent.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	_, _ = c.conn.Write([]byte("quit\n"))
	err := c.conn.Close()

	// Take ownership of the process handle before reaping so a second
	// teardown attempt can never double-terminate it.
	proc := c.proc
	c.proc = nil
	if proc != nil {
		proc.shutdown(c.config.logger)
	}

	return err
}

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mark-goodall/jsbsim-go/jsbsim"
)

const (
	shellPrompt     = "jsb> "
	historyFileName = ".jsbconsole_history"
	historySize     = 500
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive console session",
	Long: `shell opens an interactive session against the simulator console.
Commands: get <property>, set <property> <value>, hold, resume,
step <n>, quit. With a TTY, line editing and history are available;
piped input is read line by line.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	c, err := openClient(cmd.Context())
	if err != nil {
		return err
	}
	defer c.Close()

	out := cmd.OutOrStdout()
	next, closeInput := lineSource()
	defer closeInput()

	for {
		line, err := next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		output, quit, err := dispatch(c, line)
		if err != nil {
			fmt.Fprintln(out, "error:", err)
			continue
		}
		if output != "" {
			fmt.Fprintln(out, output)
		}
		if quit {
			return nil
		}
	}
}

// dispatch executes one shell line against the client. It returns the text
// to print, whether the session should end, and any command error. A blank
// line is a no-op.
func dispatch(c *jsbsim.Client, line string) (output string, quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false, nil
	}

	switch fields[0] {
	case "get":
		if len(fields) != 2 {
			return "", false, fmt.Errorf("usage: get <property>")
		}
		value, err := c.GetString(fields[1])
		if err != nil {
			return "", false, err
		}
		return value, false, nil

	case "set":
		if len(fields) != 3 {
			return "", false, fmt.Errorf("usage: set <property> <value>")
		}
		if err := c.Set(fields[1], fields[2]); err != nil {
			return "", false, err
		}
		return "ok", false, nil

	case "hold":
		return "held", false, c.Hold()

	case "resume":
		if err := c.Resume(); err != nil {
			return "", false, err
		}
		return "resumed", false, nil

	case "step", "iterate":
		if len(fields) != 2 {
			return "", false, fmt.Errorf("usage: %s <n>", fields[0])
		}
		steps, err := strconv.Atoi(fields[1])
		if err != nil {
			return "", false, fmt.Errorf("step count must be an integer: %w", err)
		}
		if err := c.Iterate(steps); err != nil {
			return "", false, err
		}
		return fmt.Sprintf("stepped %d", steps), false, nil

	case "quit", "exit":
		return "", true, nil

	default:
		return "", false, fmt.Errorf("unknown command %q", fields[0])
	}
}

// lineSource returns a prompt-and-read function: readline with history on a
// TTY, a plain scanner otherwise.
func lineSource() (next func() (string, error), cleanup func()) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		scanner := bufio.NewScanner(os.Stdin)
		return func() (string, error) {
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return "", err
				}
				return "", io.EOF
			}
			return scanner.Text(), nil
		}, func() {}
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:       shellPrompt,
		HistoryFile:  filepath.Join(homeDir(), historyFileName),
		HistoryLimit: historySize,
	})
	if err != nil {
		// Degrade to basic input rather than refusing the session.
		fmt.Fprintf(os.Stderr, "readline init failed (%v), using basic input\n", err)
		scanner := bufio.NewScanner(os.Stdin)
		return func() (string, error) {
			fmt.Print(shellPrompt)
			if !scanner.Scan() {
				return "", io.EOF
			}
			return scanner.Text(), nil
		}, func() {}
	}

	return func() (string, error) {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return line, err
	}, func() { rl.Close() }
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

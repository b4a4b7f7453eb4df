//go:build !windows

// Package expect drives the selectpro binary on a pseudo terminal using
// go-expect, the way a user at a keyboard would.
package expect

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sync"
	"syscall"
	"testing"
	"time"

	expect "github.com/Netflix/go-expect"
)

// Key sequences as a terminal sends them.
const (
	KeyUp        = "\x1b[A"
	KeyDown      = "\x1b[B"
	KeyRight     = "\x1b[C"
	KeyLeft      = "\x1b[D"
	KeyEnter     = "\r"
	KeyTab       = "\t"
	KeyBackspace = "\x7f"
	KeyCtrlA     = "\x01"
	KeyCtrlC     = "\x03"
	KeyCtrlR     = "\x12"
)

var (
	buildOnce sync.Once
	binPath   string
	buildErr  error
)

// Binary builds cmd/selectpro once per test run and returns its path.
func Binary(t *testing.T) string {
	t.Helper()
	buildOnce.Do(func() {
		root, err := moduleRoot()
		if err != nil {
			buildErr = err
			return
		}
		dir, err := os.MkdirTemp("", "selectpro-expect-")
		if err != nil {
			buildErr = err
			return
		}
		binPath = filepath.Join(dir, "selectpro")
		cmd := exec.Command("go", "build", "-o", binPath, "./cmd/selectpro")
		cmd.Dir = root
		cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("go build failed: %w\n%s", err, out)
		}
	})
	if buildErr != nil {
		t.Fatal(buildErr)
	}
	return binPath
}

func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("cannot find go.mod in any parent directory")
		}
		dir = parent
	}
}

// Session is one selectpro process attached to a pseudo terminal. The
// terminal is its controlling tty; stdout is captured separately.
type Session struct {
	Console *expect.Console
	Timeout time.Duration

	cmd    *exec.Cmd
	stdout *bytes.Buffer
	done   chan struct{}
	err    error
}

// SessionOption configures a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	timeout    time.Duration
	env        []string
	showOutput bool
}

// WithTimeout sets the default timeout for expect operations.
func WithTimeout(d time.Duration) SessionOption {
	return func(c *sessionConfig) {
		c.timeout = d
	}
}

// WithEnv adds environment variables to the process.
func WithEnv(env ...string) SessionOption {
	return func(c *sessionConfig) {
		c.env = append(c.env, env...)
	}
}

// WithOutput copies the terminal output to stdout for debugging.
func WithOutput(show bool) SessionOption {
	return func(c *sessionConfig) {
		c.showOutput = show
	}
}

// Start runs the selectpro binary with args. Config, state and data
// directories point at a temp dir so the user's files are never touched.
func Start(t *testing.T, args []string, opts ...SessionOption) *Session {
	t.Helper()
	cfg := &sessionConfig{timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(cfg)
	}

	consoleOpts := []expect.ConsoleOpt{expect.WithDefaultTimeout(cfg.timeout)}
	if cfg.showOutput {
		consoleOpts = append(consoleOpts, expect.WithStdout(os.Stdout))
	}
	console, err := expect.NewConsole(consoleOpts...)
	if err != nil {
		t.Fatalf("failed to create console: %v", err)
	}

	home := t.TempDir()
	s := &Session{
		Console: console,
		Timeout: cfg.timeout,
		stdout:  &bytes.Buffer{},
		done:    make(chan struct{}),
	}

	cmd := exec.Command(Binary(t), args...) //nolint:gosec // G204: test binary
	cmd.Stdin = console.Tty()
	cmd.Stdout = s.stdout
	cmd.Stderr = console.Tty()
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true, Setctty: true, Ctty: 0}
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"XDG_CONFIG_HOME="+filepath.Join(home, "config"),
		"XDG_STATE_HOME="+filepath.Join(home, "state"),
		"XDG_DATA_HOME="+filepath.Join(home, "data"),
		"NO_COLOR=",
	)
	cmd.Env = append(cmd.Env, cfg.env...)

	if err := cmd.Start(); err != nil {
		console.Close()
		t.Fatalf("failed to start selectpro: %v", err)
	}
	s.cmd = cmd
	go func() {
		s.err = cmd.Wait()
		close(s.done)
	}()

	t.Cleanup(s.Close)
	return s
}

// Send writes text to the terminal.
func (s *Session) Send(text string) error {
	_, err := s.Console.Send(text)
	return err
}

// SendKey writes a special key (use Key* constants).
func (s *Session) SendKey(key string) error {
	return s.Send(key)
}

// Expect waits for str to appear on the terminal.
func (s *Session) Expect(str string) (string, error) {
	return s.Console.ExpectString(str)
}

// ExpectTimeout waits for str with a specific timeout.
func (s *Session) ExpectTimeout(str string, timeout time.Duration) (string, error) {
	return s.Console.Expect(expect.String(str), expect.WithTimeout(timeout))
}

// ExpectRegex waits for a regex match on the terminal.
func (s *Session) ExpectRegex(pattern string) (string, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", fmt.Errorf("invalid regex: %w", err)
	}
	return s.Console.Expect(expect.Regexp(re))
}

// Wait waits for the process to exit and returns its exit code and
// everything it wrote to stdout.
func (s *Session) Wait() (int, string, error) {
	select {
	case <-s.done:
	case <-time.After(s.Timeout):
		return -1, s.stdout.String(), fmt.Errorf("selectpro did not exit within %s", s.Timeout)
	}
	var exitErr *exec.ExitError
	switch {
	case s.err == nil:
		return 0, s.stdout.String(), nil
	case errors.As(s.err, &exitErr):
		return exitErr.ExitCode(), s.stdout.String(), nil
	default:
		return -1, s.stdout.String(), s.err
	}
}

// Close kills the process if it is still running and closes the terminal.
func (s *Session) Close() {
	select {
	case <-s.done:
	default:
		if s.cmd != nil && s.cmd.Process != nil {
			s.cmd.Process.Kill()
			<-s.done
		}
	}
	s.Console.Close()
}

// WriteFile writes content to name under a fresh temp dir and returns the
// path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// SkipIfShort skips the test if running in short mode.
func SkipIfShort(t interface {
	Skip(args ...interface{})
}, reason string) {
	if testing.Short() {
		t.Skip("skipping in short mode: " + reason)
	}
}

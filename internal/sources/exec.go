package sources

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"

	"github.com/runger/selectpro/pkg/picker"
)

// QueryPlaceholder is replaced by the current filter in exec arguments.
const QueryPlaceholder = "{q}"

// QueryEnv carries the current filter to exec commands.
const QueryEnv = "SELECTPRO_QUERY"

// DefaultExecTimeout bounds a single exec fetch.
const DefaultExecTimeout = 5 * time.Second

// maxStderr is how much of a failing command's stderr ends up in the error.
const maxStderr = 200

// ErrEmptyCommand is returned for a blank command line.
var ErrEmptyCommand = errors.New("command produced empty argv")

// ExecSource filters options by running an external command for every
// filter change. The command prints one option per line in the same
// format ParseLines reads.
type ExecSource struct {
	argv    []string
	timeout time.Duration
	dir     string
	log     *slog.Logger
}

// Compile-time check that ExecSource implements picker.Source.
var _ picker.Source[string] = (*ExecSource)(nil)

// NewExecSource splits command with POSIX shell rules. No shell is
// involved, so the filter text can never be interpreted as shell syntax.
func NewExecSource(command string, timeout time.Duration, logger *slog.Logger) (*ExecSource, error) {
	argv, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("splitting command: %w", err)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	if timeout <= 0 {
		timeout = DefaultExecTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ExecSource{argv: argv, timeout: timeout, log: logger}, nil
}

// WithDir sets the working directory of the command.
func (s *ExecSource) WithDir(dir string) *ExecSource {
	s.dir = dir
	return s
}

// Args returns the argument vector for a filter.
func (s *ExecSource) Args(filter string) []string {
	args := make([]string, len(s.argv))
	for i, a := range s.argv {
		args[i] = strings.ReplaceAll(a, QueryPlaceholder, filter)
	}
	return args
}

// Fetch runs the command and parses its output.
func (s *ExecSource) Fetch(ctx context.Context, filter string) ([]picker.Item[string], error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := s.Args(filter)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = s.dir
	cmd.Env = append(os.Environ(), QueryEnv+"="+filter)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	s.log.Debug("exec fetch",
		"command", args[0],
		"filter", filter,
		"duration_ms", time.Since(start).Milliseconds(),
		"bytes", stdout.Len(),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s: %w", args[0], ctxErr)
		}
		if msg := firstLine(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("%s: %w", args[0], err)
	}

	return ParseLines(&stdout)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return picker.MiddleTruncate(picker.Sanitize(s), maxStderr)
}

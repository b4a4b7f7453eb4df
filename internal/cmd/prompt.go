package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/runger/selectpro/internal/config"
	applog "github.com/runger/selectpro/internal/log"
	"github.com/runger/selectpro/pkg/picker"
)

// minTermWidth is the narrowest terminal the prompt is drawn on.
const minTermWidth = 20

// Output formats.
const (
	outputPlain = "plain"
	outputJSON  = "json"
)

func validateOutput(format string) error {
	switch format {
	case outputPlain, outputJSON:
		return nil
	default:
		return fmt.Errorf("--output must be \"plain\" or \"json\" (got %q)", format)
	}
}

// terminal is the TTY the prompt is drawn on.
type terminal struct {
	in, out *os.File
}

func (t *terminal) Close() {
	t.in.Close()
	if t.out != t.in {
		t.out.Close()
	}
}

// openTerminal checks that the prompt can be drawn and opens the TTY.
func openTerminal() (*terminal, error) {
	if os.Getenv("TERM") == "dumb" {
		return nil, errors.New("TERM=dumb is not supported")
	}

	in, out, err := openTTY()
	if err != nil {
		return nil, err
	}
	t := &terminal{in: in, out: out}

	if w := termWidth(out); w > 0 && w < minTermWidth {
		t.Close()
		return nil, fmt.Errorf("terminal too narrow (%d columns, need at least %d)", w, minTermWidth)
	}

	// When invoked via $(selectpro ...), stdout is a pipe so lipgloss
	// defaults to Ascii (no color). Detect from the real tty instead.
	lipgloss.SetColorProfile(termenv.NewOutput(out).ColorProfile())
	return t, nil
}

// loadConfig loads the config file and opens the log it names.
func loadConfig() (*config.Config, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	path := cfg.Log.File
	if path == "" {
		path = config.DefaultPaths().LogFile()
	}
	logger, closer := openLog(path, cfg.Log.Level)
	return cfg, logger, func() { closer.Close() }, nil
}

// openLog opens the log file. Logging is best effort: an unusable file
// yields a discarding logger, and a bad level is reported through the
// logger that did open.
func openLog(path, level string) (*slog.Logger, io.Closer) {
	logger, closer, err := applog.NewFile(path, level)
	if err == nil {
		return logger, closer
	}
	if errors.Is(err, applog.ErrUnknownLevel) {
		logger.Warn("invalid log level, using warn", "log_level", level, "error", err)
		return logger, closer
	}
	return slog.New(slog.DiscardHandler), closer
}

// runPrompt shows the prompt on the terminal and writes the answer to w.
func runPrompt(ctx context.Context, pc picker.Config[string], w io.Writer, format string) error {
	lock, err := acquireLock(sessionLockPath(config.DefaultPaths().StateDir))
	if err != nil {
		return err
	}
	defer lock.Release()

	tty, err := openTerminal()
	if err != nil {
		return err
	}
	defer tty.Close()

	answer, err := picker.Run(ctx, pc, tea.WithInput(tty.in), tea.WithOutput(tty.out))
	if err != nil {
		if errors.Is(err, picker.ErrCancelled) {
			applog.LogOutcome(pc.Logger, "cancelled", 0)
		} else {
			pc.Logger.Error("prompt failed", "error", err)
		}
		return err
	}

	applog.LogOutcome(pc.Logger, "submitted", len(answer.Values))
	return writeAnswer(w, answer, format)
}

// writeAnswer prints the chosen values: one per line in plain format, a
// JSON string (or null) for single prompts and a JSON array for multiple.
func writeAnswer(w io.Writer, answer picker.Answer[string], format string) error {
	if format == outputJSON {
		var v any
		if answer.Multiple {
			values := answer.Values
			if values == nil {
				values = []string{}
			}
			v = values
		} else if value, ok := answer.Value(); ok {
			v = value
		}
		return json.NewEncoder(w).Encode(v)
	}

	for _, value := range answer.Values {
		if _, err := fmt.Fprintln(w, value); err != nil {
			return err
		}
	}
	return nil
}

// matcherFor maps the config matcher name to a matcher.
func matcherFor(name string) picker.Matcher[string] {
	switch name {
	case "exact":
		return picker.Contains[string]
	case "fuzzy":
		return picker.FuzzyMatch[string]
	default:
		return picker.ContainsFold[string]
	}
}

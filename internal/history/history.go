// Package history reads shell history files and offers them as a picker
// option source.
package history

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxEntries is the maximum number of entries kept from a history file.
const MaxEntries = 25000

// Shells lists the supported shell names.
var Shells = []string{"bash", "zsh", "fish"}

// DetectShell returns the shell name based on the SHELL env var, or "" if
// it is unset or unsupported.
func DetectShell() string {
	shell := os.Getenv("SHELL")
	if shell == "" {
		return ""
	}
	switch base := filepath.Base(shell); base {
	case "bash", "zsh", "fish":
		return base
	default:
		return ""
	}
}

// ResolveShell maps "auto" or "" to the detected shell.
func ResolveShell(shell string) (string, error) {
	if shell == "auto" || shell == "" {
		shell = DetectShell()
		if shell == "" {
			return "", fmt.Errorf("cannot detect shell from SHELL=%q; pass --shell", os.Getenv("SHELL"))
		}
	}
	switch shell {
	case "bash", "zsh", "fish":
		return shell, nil
	default:
		return "", fmt.Errorf("unsupported shell: %s (must be %s)", shell, strings.Join(Shells, ", "))
	}
}

// DefaultPath returns the history file of shell. HISTFILE wins for bash
// and zsh; fish follows XDG_DATA_HOME.
func DefaultPath(shell string) string {
	if shell == "fish" {
		if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
			return filepath.Join(dataHome, "fish", "fish_history")
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".local", "share", "fish", "fish_history")
	}

	if histFile := os.Getenv("HISTFILE"); histFile != "" {
		return histFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	switch shell {
	case "bash":
		return filepath.Join(home, ".bash_history")
	case "zsh":
		return filepath.Join(home, ".zsh_history")
	default:
		return ""
	}
}

// Parse parses history text written by shell.
func Parse(shell string, r io.Reader) ([]Entry, error) {
	switch shell {
	case "bash":
		return ParseBash(r)
	case "zsh":
		return ParseZsh(r)
	case "fish":
		return ParseFish(r)
	default:
		return nil, fmt.Errorf("unsupported shell: %s", shell)
	}
}

// Load reads the history of shell from path, or from the shell's default
// file when path is empty. A missing file yields no entries. At most
// MaxEntries of the most recent entries are returned, oldest first.
func Load(shell, path string) ([]Entry, error) {
	shell, err := ResolveShell(shell)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultPath(shell)
	}
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path) //nolint:gosec // G304: path is from user's HISTFILE or well-known default
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	defer file.Close()

	entries, err := Parse(shell, file)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return trimToLimit(entries, MaxEntries), nil
}

// trimToLimit returns the last n entries from a slice.
func trimToLimit(entries []Entry, n int) []Entry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

// NewestFirst returns entries in reverse order. With dedupe set only the
// most recent occurrence of each command is kept.
func NewestFirst(entries []Entry, dedupe bool) []Entry {
	out := make([]Entry, 0, len(entries))
	seen := make(map[string]bool)
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if dedupe {
			if seen[e.Command] {
				continue
			}
			seen[e.Command] = true
		}
		out = append(out, e)
	}
	return out
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/selectpro/pkg/picker"
)

// Exit codes.
// These match the expectations of shell scripts:
//
//	0 = selection made (use the result)
//	1 = cancelled by user
//	2 = fallback (no TTY, bad flags, unreadable options, etc.)
const (
	exitSuccess   = 0
	exitCancelled = 1
	exitFallback  = 2
)

// Command groups shown in help output.
const (
	groupPick  = "pick"
	groupSetup = "setup"
)

var rootCmd = &cobra.Command{
	Use:   "selectpro",
	Short: "searchable list picker for the terminal",
	Long: `selectpro - searchable, optionally multi-select list picker

Options come from a file, from stdin, from a command run for every
filter change, or from an SQLite query. The chosen value(s) are printed
to stdout; the prompt itself is drawn on the terminal.

Examples:
  ls | selectpro -m "Pick a file"
  selectpro --multiple --file options.yaml
  selectpro --exec 'git branch --list "*{q}*" --format "%(refname:short)"'
  selectpro --sqlite notes.db --query 'SELECT id, title FROM notes WHERE title LIKE ?'`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyColorMode()
	},
	RunE: runPick,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupPick, Title: "Pickers:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colorize command output: auto, always, or never")

	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return execute(context.Background(), os.Args[1:], os.Stderr)
}

func execute(ctx context.Context, args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	code := exitCode(err)
	if code == exitFallback {
		fmt.Fprintf(stderr, "selectpro: %v\n", err)
	}
	return code
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, picker.ErrCancelled):
		return exitCancelled
	default:
		return exitFallback
	}
}

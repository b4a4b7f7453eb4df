package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runger/selectpro/internal/config"
	"github.com/runger/selectpro/internal/history"
	applog "github.com/runger/selectpro/internal/log"
	"github.com/runger/selectpro/internal/redact"
	"github.com/runger/selectpro/pkg/picker"
)

var (
	historyShell    string
	historyFile     string
	historyQuery    string
	historyLimit    int
	historyMultiple bool
	historyNoDedupe bool
	historyOutput   string
)

var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Pick a command from shell history",
	GroupID: groupPick,
	Long: `Pick a command from your shell history, newest first.

The history file of the detected shell is read once; every filter change
searches it again and shows the newest matches.

Examples:
  selectpro history                     # Detect the shell from $SHELL
  selectpro history --shell fish        # Read fish history
  selectpro history --query git         # Start with a filter
  eval "$(selectpro history)"           # Run the chosen command`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.StringVar(&historyShell, "shell", "", "Shell whose history to read: bash, zsh, or fish (default from config)")
	f.StringVar(&historyFile, "file", "", "History file (default: the shell's history file)")
	f.StringVar(&historyQuery, "query", "", "Initial search query")
	f.IntVar(&historyLimit, "limit", 0, "Maximum matches shown per search (default from config)")
	f.BoolVar(&historyMultiple, "multiple", false, "Allow selecting several commands")
	f.BoolVar(&historyNoDedupe, "no-dedupe", false, "Show repeated commands every time they occur")
	f.StringVar(&historyOutput, "output", outputPlain, "Output format: plain or json")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if err := validateOutput(historyOutput); err != nil {
		return err
	}
	if historyLimit < 0 {
		return errors.New("--limit must be a positive integer")
	}

	cfg, logger, closeLog, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLog()

	src, err := historySource(cfg)
	if err != nil {
		return err
	}

	pc := picker.DefaultConfig[string]().Merge(cfg.Override())
	pc.Message = "History"
	pc.Source = src
	pc.Multiple = historyMultiple
	pc.InitialFilter = historyQuery
	pc.Logger = logger

	applog.LogSession(logger, "history", "history", pc.Multiple)
	return runPrompt(cmd.Context(), pc, cmd.OutOrStdout(), historyOutput)
}

// historySource loads the history file named by the flags or the config.
func historySource(cfg *config.Config) (*history.Source, error) {
	shell := historyShell
	if shell == "" {
		shell = cfg.History.Shell
	}
	path := historyFile
	if path == "" {
		path = cfg.History.File
	}
	limit := historyLimit
	if limit == 0 {
		limit = cfg.History.Limit
	}

	shell, err := history.ResolveShell(shell)
	if err != nil {
		return nil, err
	}
	entries, err := history.Load(shell, path)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		if path == "" {
			path = history.DefaultPath(shell)
		}
		return nil, fmt.Errorf("no %s history found in %s", shell, path)
	}

	var opts []history.SourceOption
	if cfg.History.Redact {
		opts = append(opts, history.WithRedactor(redact.New()))
	}
	if cfg.History.MarkDestructive {
		opts = append(opts, history.WithDestructiveMarks())
	}

	dedupe := cfg.History.Dedupe && !historyNoDedupe
	return history.NewSource(history.NewestFirst(entries, dedupe), limit, matcherFor(cfg.Picker.Matcher), opts...), nil
}

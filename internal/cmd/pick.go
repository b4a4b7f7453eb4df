package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/runger/selectpro/internal/config"
	applog "github.com/runger/selectpro/internal/log"
	"github.com/runger/selectpro/internal/sources"
	"github.com/runger/selectpro/pkg/picker"
)

// pickOpts holds the flags of the default pick command.
type pickOpts struct {
	message        string
	multiple       bool
	pageSize       int
	loop           bool
	defaults       []string
	filter         string
	file           string
	format         string
	exec           string
	execTimeout    time.Duration
	sqlite         string
	query          string
	fuzzy          bool
	caseSensitive  bool
	toggleAll      bool
	confirmDelete  bool
	clearOnSelect  bool
	showSelections string
	noFilter       bool
	required       bool
	placeholder    string
	emptyText      string
	json           bool
	output         string
}

var pickFlags pickOpts

func init() {
	registerPickFlags(rootCmd)
}

// registerPickFlags binds the pick flags of cmd to pickFlags.
func registerPickFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&pickFlags.message, "message", "m", "", "Prompt message")
	f.BoolVar(&pickFlags.multiple, "multiple", false, "Allow selecting several options")
	f.IntVar(&pickFlags.pageSize, "page-size", picker.DefaultPageSize, "Number of rows shown at once")
	f.BoolVar(&pickFlags.loop, "loop", true, "Wrap the cursor around the list")
	f.StringArrayVar(&pickFlags.defaults, "default", nil, "Pre-selected value (repeatable)")
	f.StringVar(&pickFlags.filter, "filter", "", "Initial filter text")
	f.StringVarP(&pickFlags.file, "file", "f", "", "Option file (yaml, json, toml or plain lines; - for stdin)")
	f.StringVar(&pickFlags.format, "format", "auto", "Option file format: auto, yaml, json, toml, or lines")
	f.StringVar(&pickFlags.exec, "exec", "", "Command printing options for the filter ({q} is replaced by the filter)")
	f.DurationVar(&pickFlags.execTimeout, "exec-timeout", 0, "Timeout of one --exec run (default from config)")
	f.StringVar(&pickFlags.sqlite, "sqlite", "", "SQLite database to query")
	f.StringVar(&pickFlags.query, "query", "", "SQL query for --sqlite; one ? is bound to %filter%")
	f.BoolVar(&pickFlags.fuzzy, "fuzzy", false, "Fuzzy filter matching")
	f.BoolVar(&pickFlags.caseSensitive, "case-sensitive", false, "Case-sensitive filter matching")
	f.BoolVar(&pickFlags.toggleAll, "toggle-all", false, "Enable ctrl+a to toggle all options")
	f.BoolVar(&pickFlags.confirmDelete, "confirm-delete", false, "Require two presses to remove a selection")
	f.BoolVar(&pickFlags.clearOnSelect, "clear-filter-on-select", false, "Clear the filter after toggling an option")
	f.StringVar(&pickFlags.showSelections, "show-selections", "", "Keep selected options listed: none, append, or prepend")
	f.BoolVar(&pickFlags.noFilter, "no-filter", false, "Hide the filter input")
	f.BoolVar(&pickFlags.required, "required", false, "Reject an empty answer")
	f.StringVar(&pickFlags.placeholder, "placeholder", "", "Placeholder of the empty filter input")
	f.StringVar(&pickFlags.emptyText, "empty-text", "", "Text shown when nothing matches")
	f.BoolVar(&pickFlags.json, "json", false, "Print the result as JSON (same as --output json)")
	f.StringVar(&pickFlags.output, "output", outputPlain, "Output format: plain or json")

	cmd.MarkFlagsMutuallyExclusive("file", "exec", "sqlite")
	cmd.MarkFlagsMutuallyExclusive("fuzzy", "case-sensitive")
	cmd.MarkFlagsRequiredTogether("sqlite", "query")
}

func runPick(cmd *cobra.Command, args []string) error {
	opts := pickFlags
	if opts.json {
		opts.output = outputJSON
	}
	if err := validateOutput(opts.output); err != nil {
		return err
	}

	cfg, logger, closeLog, err := loadConfig()
	if err != nil {
		return err
	}
	defer closeLog()

	pc, err := buildPickConfig(cmd, opts, cfg)
	if err != nil {
		return err
	}
	pc.Logger = logger

	closer, err := attachOptions(&pc, opts, cfg, logger, os.Stdin, !term.IsTerminal(int(os.Stdin.Fd())))
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	applog.LogSession(logger, "pick", sourceKind(opts), pc.Multiple)
	return runPrompt(cmd.Context(), pc, cmd.OutOrStdout(), opts.output)
}

// buildPickConfig layers the flags that were set over the config file
// over the built-in defaults.
func buildPickConfig(cmd *cobra.Command, opts pickOpts, cfg *config.Config) (picker.Config[string], error) {
	pc := picker.DefaultConfig[string]().Merge(cfg.Override())
	pc.Filter = matcherFor(cfg.Picker.Matcher)

	flags := cmd.Flags()
	var o picker.Override
	if flags.Changed("page-size") {
		if opts.pageSize <= 0 {
			return pc, errors.New("--page-size must be a positive integer")
		}
		o.PageSize = &opts.pageSize
	}
	if flags.Changed("loop") {
		o.Loop = &opts.loop
	}
	if flags.Changed("toggle-all") {
		o.CanToggleAll = &opts.toggleAll
	}
	if flags.Changed("confirm-delete") {
		o.ConfirmDelete = &opts.confirmDelete
	}
	if flags.Changed("clear-filter-on-select") {
		o.ClearFilterOnSelect = &opts.clearOnSelect
	}
	if flags.Changed("required") {
		o.Required = &opts.required
	}
	if flags.Changed("no-filter") {
		enable := !opts.noFilter
		o.EnableFilter = &enable
	}
	if opts.placeholder != "" {
		o.Placeholder = &opts.placeholder
	}
	if opts.emptyText != "" {
		o.EmptyText = &opts.emptyText
	}
	if opts.showSelections != "" {
		placement, err := picker.ParsePlacement(opts.showSelections)
		if err != nil {
			return pc, fmt.Errorf("--show-selections: %w", err)
		}
		o.ShowSelections = &placement
	}
	pc = pc.Merge(o)

	switch {
	case opts.fuzzy:
		pc.Filter = picker.FuzzyMatch[string]
	case opts.caseSensitive:
		pc.Filter = picker.Contains[string]
	}

	pc.Multiple = opts.multiple
	pc.Default = opts.defaults
	pc.InitialFilter = opts.filter
	pc.Message = opts.message
	if pc.Message == "" {
		pc.Message = "Select an option"
		if pc.Multiple {
			pc.Message = "Select options"
		}
	}
	return pc, nil
}

// attachOptions sets the options or the source of pc from the flags. Piped
// stdin is read when no source flag is given. The returned closer, if any,
// releases the source.
func attachOptions(pc *picker.Config[string], opts pickOpts, cfg *config.Config, logger *slog.Logger, stdin io.Reader, stdinPiped bool) (io.Closer, error) {
	switch {
	case opts.exec != "":
		timeout := opts.execTimeout
		if timeout <= 0 {
			timeout = time.Duration(cfg.Picker.ExecTimeoutMs) * time.Millisecond
		}
		src, err := sources.NewExecSource(opts.exec, timeout, logger)
		if err != nil {
			return nil, fmt.Errorf("--exec: %w", err)
		}
		pc.Source = src
		return nil, nil

	case opts.sqlite != "":
		src, err := sources.OpenSQLite(opts.sqlite, opts.query, logger)
		if err != nil {
			return nil, fmt.Errorf("--sqlite: %w", err)
		}
		pc.Source = src
		return src, nil
	}

	format, err := sources.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}

	var items []picker.Item[string]
	switch {
	case opts.file != "" && opts.file != "-":
		items, err = sources.LoadFile(opts.file, format)
	case opts.file == "-" || stdinPiped:
		items, err = readOptions(stdin, format)
	default:
		return nil, errors.New("no options: pass --file, --exec or --sqlite, or pipe options on stdin")
	}
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("no options to choose from")
	}
	pc.Options = items
	return nil, nil
}

func readOptions(r io.Reader, format sources.Format) ([]picker.Item[string], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}
	if format == sources.FormatAuto {
		format = sources.FormatLines
	}
	return sources.Parse(data, format)
}

func sourceKind(opts pickOpts) string {
	switch {
	case opts.exec != "":
		return "exec"
	case opts.sqlite != "":
		return "sqlite"
	case opts.file != "" && opts.file != "-":
		return "file"
	default:
		return "stdin"
	}
}

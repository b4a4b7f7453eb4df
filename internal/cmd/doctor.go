package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/runger/selectpro/internal/config"
	"github.com/runger/selectpro/internal/history"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Short:   "Check that prompts can be shown",
	GroupID: groupSetup,
	Long: `Run diagnostic checks for selectpro.

This command checks:
- Terminal availability, type and width
- Color support
- Configuration validity
- Log file location
- Shell history for 'selectpro history'

Examples:
  selectpro doctor`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

type checkResult struct {
	name    string
	status  string // "ok", "warn", "error"
	message string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	results := make([]checkResult, 0, 8)
	results = append(results, checkTerminal()...)
	results = append(results, checkConfiguration())
	results = append(results, checkLogFile())
	results = append(results, checkHistory())

	return printResults(cmd.OutOrStdout(), results)
}

func printResults(w io.Writer, results []checkResult) error {
	fmt.Fprintf(w, "%sselectpro Doctor%s\n", colorBold, colorReset)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintln(w)

	hasErrors := false
	hasWarnings := false

	for _, r := range results {
		var statusIcon string
		switch r.status {
		case "ok":
			statusIcon = colorGreen + "[OK]" + colorReset
		case "warn":
			statusIcon = colorYellow + "[WARN]" + colorReset
			hasWarnings = true
		case "error":
			statusIcon = colorRed + "[ERROR]" + colorReset
			hasErrors = true
		}

		fmt.Fprintf(w, "  %s %s\n", statusIcon, r.name)
		if r.message != "" {
			fmt.Fprintf(w, "       %s%s%s\n", colorDim, r.message, colorReset)
		}
	}

	fmt.Fprintln(w)

	if hasErrors {
		fmt.Fprintf(w, "%sSome checks failed. Please fix the errors above.%s\n", colorRed, colorReset)
		return fmt.Errorf("doctor found errors")
	}

	if hasWarnings {
		fmt.Fprintf(w, "%sAll critical checks passed, but there are warnings.%s\n", colorYellow, colorReset)
	} else {
		fmt.Fprintf(w, "%sAll checks passed!%s\n", colorGreen, colorReset)
	}

	return nil
}

func checkTerminal() []checkResult {
	if os.Getenv("TERM") == "dumb" {
		return []checkResult{{name: "Terminal", status: "error", message: "TERM=dumb is not supported"}}
	}

	in, out, err := openTTY()
	if err != nil {
		return []checkResult{{name: "Terminal", status: "error", message: err.Error()}}
	}
	defer func() { (&terminal{in: in, out: out}).Close() }()

	results := []checkResult{{name: "Terminal", status: "ok", message: out.Name()}}

	switch w := termWidth(out); {
	case w == 0:
		results = append(results, checkResult{name: "Terminal width", status: "warn", message: "Unknown"})
	case w < minTermWidth:
		results = append(results, checkResult{
			name:    "Terminal width",
			status:  "error",
			message: fmt.Sprintf("%d columns, need at least %d", w, minTermWidth),
		})
	default:
		results = append(results, checkResult{name: "Terminal width", status: "ok", message: fmt.Sprintf("%d columns", w)})
	}

	results = append(results, colorCheck(termenv.NewOutput(out).ColorProfile()))
	return results
}

func colorCheck(p termenv.Profile) checkResult {
	switch p {
	case termenv.TrueColor:
		return checkResult{name: "Colors", status: "ok", message: "true color"}
	case termenv.ANSI256:
		return checkResult{name: "Colors", status: "ok", message: "256 colors"}
	case termenv.ANSI:
		return checkResult{name: "Colors", status: "ok", message: "16 colors"}
	default:
		return checkResult{name: "Colors", status: "warn", message: "No color support; prompts are drawn in plain text"}
	}
}

func checkConfiguration() checkResult {
	paths := config.DefaultPaths()
	configFile := paths.ConfigFile()

	if _, err := config.LoadFromFile(configFile); err != nil {
		return checkResult{
			name:    "Configuration",
			status:  "error",
			message: fmt.Sprintf("Failed to load: %v", err),
		}
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return checkResult{
			name:    "Configuration",
			status:  "ok",
			message: "Using defaults (no config file)",
		}
	}

	return checkResult{
		name:    "Configuration",
		status:  "ok",
		message: configFile,
	}
}

func checkLogFile() checkResult {
	path, err := logFilePath()
	if err != nil {
		return checkResult{name: "Log file", status: "warn", message: err.Error()}
	}

	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return checkResult{
			name:    "Log file",
			status:  "warn",
			message: fmt.Sprintf("Missing: %s (will be created when needed)", dir),
		}
	}
	return checkResult{name: "Log file", status: "ok", message: path}
}

func checkHistory() checkResult {
	cfg, err := config.Load()
	if err != nil {
		return checkResult{name: "Shell history", status: "warn", message: err.Error()}
	}

	shell, err := history.ResolveShell(cfg.History.Shell)
	if err != nil {
		return checkResult{name: "Shell history", status: "warn", message: err.Error()}
	}

	path := cfg.History.File
	if path == "" {
		path = history.DefaultPath(shell)
	}
	if _, err := os.Stat(path); err != nil {
		return checkResult{
			name:    "Shell history",
			status:  "warn",
			message: fmt.Sprintf("No %s history at %s", shell, path),
		}
	}
	return checkResult{name: "Shell history", status: "ok", message: fmt.Sprintf("%s: %s", shell, path)}
}

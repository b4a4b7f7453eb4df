package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

type historyGlobals struct {
	shell    string
	file     string
	query    string
	output   string
	limit    int
	multiple bool
	noDedupe bool
}

func withHistoryGlobals(t *testing.T, g historyGlobals) {
	t.Helper()
	old := historyGlobals{
		shell:    historyShell,
		file:     historyFile,
		query:    historyQuery,
		output:   historyOutput,
		limit:    historyLimit,
		multiple: historyMultiple,
		noDedupe: historyNoDedupe,
	}
	historyShell = g.shell
	historyFile = g.file
	historyQuery = g.query
	historyOutput = g.output
	historyLimit = g.limit
	historyMultiple = g.multiple
	historyNoDedupe = g.noDedupe

	t.Cleanup(func() {
		historyShell = old.shell
		historyFile = old.file
		historyQuery = old.query
		historyOutput = old.output
		historyLimit = old.limit
		historyMultiple = old.multiple
		historyNoDedupe = old.noDedupe
	})
}

// parsePickFlags parses args into a fresh pick command and returns it with
// the resulting options. pickFlags is restored when the test ends.
func parsePickFlags(t *testing.T, args ...string) (*cobra.Command, pickOpts) {
	t.Helper()
	old := pickFlags
	t.Cleanup(func() { pickFlags = old })

	pickFlags = pickOpts{}
	cmd := &cobra.Command{Use: "pick"}
	registerPickFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, pickFlags
}

// isolateConfig points every XDG directory at a temp dir so tests never
// read or write the user's configuration.
func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir+"/config")
	t.Setenv("XDG_DATA_HOME", dir+"/data")
	t.Setenv("XDG_STATE_HOME", dir+"/state")
	t.Setenv("SELECTPRO_DEBUG", "")
	t.Setenv("SELECTPRO_LOG_LEVEL", "")
	t.Setenv("SELECTPRO_LOG_FILE", "")
	t.Setenv("SELECTPRO_PAGE_SIZE", "")
	t.Setenv("SELECTPRO_HELP_MODE", "")
	return dir
}

// runCLI executes the root command with args and returns the exit code
// and what was written to stdout and stderr.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	code := execute(context.Background(), args, &stderr)
	return code, stdout.String(), stderr.String()
}

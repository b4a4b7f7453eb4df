package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/runger/selectpro/internal/config"
)

var (
	logsFollow bool
	logsLines  int
)

var logsCmd = &cobra.Command{
	Use:     "logs",
	Short:   "View selectpro logs",
	GroupID: groupSetup,
	Long: `View the selectpro log file.

Prompts log fetches, configuration problems and their outcome as JSON
lines. Raise the level with 'selectpro config log.level debug' or
SELECTPRO_DEBUG=1.

Examples:
  selectpro logs              # Show last 50 lines
  selectpro logs -f           # Follow log output
  selectpro logs --lines=100  # Show last 100 lines`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output")
	logsCmd.Flags().IntVarP(&logsLines, "lines", "n", 50, "Number of lines to show")
}

func runLogs(cmd *cobra.Command, args []string) error {
	logFile, err := logFilePath()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		fmt.Fprintf(w, "No log file found at: %s\n", logFile)
		return nil
	}

	if logsFollow {
		return followLogs(cmd.Context(), w, logFile)
	}

	return tailLogs(w, logFile, logsLines)
}

func logFilePath() (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Log.File != "" {
		return cfg.Log.File, nil
	}
	return config.DefaultPaths().LogFile(), nil
}

// tailLogs prints the last n lines of filename.
func tailLogs(w io.Writer, filename string, n int) error {
	if n <= 0 {
		return nil
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	ring := make([]string, n)
	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ring[count%n] = scanner.Text()
		count++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	if count == 0 {
		fmt.Fprintln(w, "Log file is empty.")
		return nil
	}

	start := 0
	if count > n {
		start = count - n
	}
	for i := start; i < count; i++ {
		fmt.Fprintln(w, ring[i%n])
	}
	return nil
}

// followLogs prints lines appended to filename until ctx is done.
func followLogs(ctx context.Context, w io.Writer, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	fmt.Fprintf(w, "Following %s (Ctrl+C to stop)...\n\n", filename)

	reader := bufio.NewReader(f)
	var partial string
	for {
		line, err := reader.ReadString('\n')
		if err == nil {
			fmt.Fprint(w, partial+line)
			partial = ""
			continue
		}
		if err != io.EOF {
			return fmt.Errorf("error reading log: %w", err)
		}
		partial += line

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(100 * time.Millisecond):
		}
	}
}

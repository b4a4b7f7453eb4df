package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/runger/selectpro/pkg/picker"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, exitSuccess},
		{"cancelled", picker.ErrCancelled, exitCancelled},
		{"wrapped cancel", fmt.Errorf("history: %w", picker.ErrCancelled), exitCancelled},
		{"other error", errors.New("no TTY available"), exitFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestVersionCmd(t *testing.T) {
	code, out, _ := runCLI(t, "version")

	assert.Equal(t, exitSuccess, code)
	assert.True(t, strings.HasPrefix(out, "selectpro "+Version+"\n"))
	assert.Contains(t, out, "commit: "+GitCommit)
}

func TestUnknownCommandFallsBack(t *testing.T) {
	code, _, stderr := runCLI(t, "frobnicate")

	assert.Equal(t, exitFallback, code)
	assert.Contains(t, stderr, "selectpro:")
	assert.Contains(t, stderr, "frobnicate")
}

func TestRootCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"history", "config", "doctor", "logs", "version"} {
		assert.True(t, names[want], "missing command %q", want)
	}
}

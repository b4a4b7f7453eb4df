package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keepColors restores the color globals and the --color flag after a test.
func keepColors(t *testing.T) {
	t.Helper()
	mode, red, bold := colorMode, colorRed, colorBold
	t.Cleanup(func() {
		require.NoError(t, rootCmd.PersistentFlags().Set("color", mode))
		colorMode, colorRed, colorBold = mode, red, bold
	})
}

func TestApplyColorMode(t *testing.T) {
	tests := []struct {
		mode    string
		noColor string
		want    bool
	}{
		{"always", "1", true},
		{"never", "", false},
		{"auto", "", false}, // stdout is not a terminal under go test
		{"bogus", "1", false},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			keepColors(t)
			t.Setenv("NO_COLOR", tt.noColor)
			if tt.want {
				disableColors()
			} else {
				enableColors()
			}

			colorMode = tt.mode
			applyColorMode()

			assert.Equal(t, tt.want, colorRed != "")
		})
	}
}

func TestColorFlag_ConfigOutput(t *testing.T) {
	isolateConfig(t)
	keepColors(t)

	code, out, _ := runCLI(t, "--color", "always", "config")
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "always", colorMode)
	assert.Contains(t, out, "\033[1mConfiguration Keys\033[0m")
	assert.Contains(t, out, "\033[0;36mpicker.page_size\033[0m = 10")

	code, out, _ = runCLI(t, "--color", "never", "config")
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "never", colorMode)
	assert.NotContains(t, out, "\033[")
	assert.Contains(t, out, "picker.page_size = 10")
}

func TestColorFlag_GetUnsetIsDimmed(t *testing.T) {
	isolateConfig(t)
	keepColors(t)

	code, out, _ := runCLI(t, "--color", "always", "config", "log.file")
	require.Equal(t, exitSuccess, code)
	assert.Equal(t, "\033[2m(not set)\033[0m\n", out)
}

func TestShouldDisableColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, shouldDisableColors(), "NO_COLOR")

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")
	assert.True(t, shouldDisableColors(), "TERM=dumb")

	t.Setenv("TERM", "xterm-256color")
	assert.True(t, shouldDisableColors(), "stdout is a pipe")
}

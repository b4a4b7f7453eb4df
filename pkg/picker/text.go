package picker

import (
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// ansiRE matches CSI, OSC and two-byte ANSI escape sequences.
var ansiRE = regexp.MustCompile(`\x1b(?:` +
	`\[[0-9;?]*[A-Za-z]` +
	`|` +
	`\].*?(?:\x1b\\|\x07)` +
	`|` +
	`[()#*+\-./][A-Za-z0-9]` +
	`)`)

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// Sanitize makes an option label safe to draw on a single terminal line:
// escape sequences are dropped, invalid UTF-8 is replaced and control
// characters become spaces.
func Sanitize(s string) string {
	s = strings.ToValidUTF8(StripANSI(s), "�")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return ' '
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}

// PrettyEscapeLiterals replaces literal escape spellings such as "\033[" or
// "\x1b[" with a readable "<ESC>[" token. It is meant for display only.
func PrettyEscapeLiterals(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return escapeLiterals.Replace(s)
}

var escapeLiterals = strings.NewReplacer(
	`\033[`, "<ESC>[",
	`\033]`, "<ESC>]",
	`\x1b[`, "<ESC>[",
	`\x1B[`, "<ESC>[",
	`\x1b]`, "<ESC>]",
	`\x1B]`, "<ESC>]",
	`\e[`, "<ESC>[",
	`\e]`, "<ESC>]",
)

// MiddleTruncate shortens s to at most maxWidth display columns by replacing
// its middle with an ellipsis. Below three columns it truncates from the
// right.
func MiddleTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	room := maxWidth - 1
	head := runewidth.Truncate(s, (room+1)/2, "")
	tail := runewidth.TruncateLeft(s, runewidth.StringWidth(s)-room/2, "")
	return head + "…" + tail
}

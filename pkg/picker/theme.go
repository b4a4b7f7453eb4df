package picker

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// HelpMode controls when key hints are rendered.
type HelpMode string

const (
	HelpAuto   HelpMode = "auto"   // Hints until the user starts navigating
	HelpAlways HelpMode = "always" // Hints on every frame
	HelpNever  HelpMode = "never"  // No hints
)

// ParseHelpMode parses "auto", "always" or "never".
func ParseHelpMode(s string) (HelpMode, error) {
	switch HelpMode(s) {
	case HelpAuto, HelpAlways, HelpNever:
		return HelpMode(s), nil
	case "":
		return HelpAuto, nil
	default:
		return HelpAuto, fmt.Errorf("unknown help mode %q (want auto, always or never)", s)
	}
}

// Icons are the glyphs used by the renderer.
type Icons struct {
	Checked     string
	Unchecked   string
	Cursor      string
	InputCursor string
	Idle        string // Prefix while waiting for input
	Done        string // Prefix once submitted
	Info        string // Shown before the empty text
}

// Styles are the Lip Gloss styles used by the renderer.
type Styles struct {
	Message          lipgloss.Style
	Answer           lipgloss.Style
	Highlight        lipgloss.Style
	Error            lipgloss.Style
	Help             lipgloss.Style
	Key              lipgloss.Style
	Disabled         lipgloss.Style
	Placeholder      lipgloss.Style
	EmptyText        lipgloss.Style
	Description      lipgloss.Style
	Separator        lipgloss.Style
	FocusedSelection lipgloss.Style
}

// Theme bundles icons, styles and the loading spinner.
type Theme struct {
	Icon     Icons
	Style    Styles
	Spinner  spinner.Spinner
	HelpMode HelpMode
}

// DefaultTheme returns the built-in theme. Checkboxes are only drawn in
// multi-select mode.
func DefaultTheme(multiple bool) Theme {
	var (
		green = lipgloss.Color("2")
		blue  = lipgloss.Color("4")
		cyan  = lipgloss.Color("6")
		red   = lipgloss.Color("1")
		dim   = lipgloss.NewStyle().Faint(true)
	)

	icons := Icons{
		Cursor:      ">",
		InputCursor: lipgloss.NewStyle().Foreground(cyan).Render(">>"),
		Idle:        lipgloss.NewStyle().Foreground(blue).Render("?"),
		Done:        lipgloss.NewStyle().Foreground(green).Render("✔"),
		Info:        lipgloss.NewStyle().Foreground(blue).Render("ℹ"),
	}
	if multiple {
		icons.Checked = "[" + lipgloss.NewStyle().Foreground(green).Render("✔") + "]"
		icons.Unchecked = "[ ]"
	}

	return Theme{
		Icon: icons,
		Style: Styles{
			Message:          lipgloss.NewStyle().Bold(true),
			Answer:           lipgloss.NewStyle().Foreground(cyan),
			Highlight:        lipgloss.NewStyle().Foreground(cyan),
			Error:            lipgloss.NewStyle().Foreground(red),
			Help:             dim,
			Key:              lipgloss.NewStyle().Foreground(cyan).Bold(true),
			Disabled:         dim,
			Placeholder:      dim,
			EmptyText:        lipgloss.NewStyle().Bold(true),
			Description:      dim,
			Separator:        dim,
			FocusedSelection: lipgloss.NewStyle().Reverse(true),
		},
		Spinner:  spinner.Dot,
		HelpMode: HelpAuto,
	}
}

// ThemeOverride holds optional theme settings. Nil fields keep the value of
// the theme they are merged into.
type ThemeOverride struct {
	Checked     *string
	Unchecked   *string
	Cursor      *string
	InputCursor *string
	Idle        *string
	Done        *string

	// Colors accept anything lipgloss.Color does ("212", "#ff8800").
	MessageColor   *string
	AnswerColor    *string
	HighlightColor *string
	ErrorColor     *string
	HelpColor      *string
	KeyColor       *string

	HelpMode *HelpMode
	Spinner  *spinner.Spinner
}

// Merge returns t with every non-nil field of o applied.
func (t Theme) Merge(o ThemeOverride) Theme {
	setString(&t.Icon.Checked, o.Checked)
	setString(&t.Icon.Unchecked, o.Unchecked)
	setString(&t.Icon.Cursor, o.Cursor)
	setString(&t.Icon.InputCursor, o.InputCursor)
	setString(&t.Icon.Idle, o.Idle)
	setString(&t.Icon.Done, o.Done)

	t.Style.Message = withColor(t.Style.Message, o.MessageColor)
	t.Style.Answer = withColor(t.Style.Answer, o.AnswerColor)
	t.Style.Highlight = withColor(t.Style.Highlight, o.HighlightColor)
	t.Style.Error = withColor(t.Style.Error, o.ErrorColor)
	t.Style.Help = withColor(t.Style.Help, o.HelpColor)
	t.Style.Key = withColor(t.Style.Key, o.KeyColor)

	if o.HelpMode != nil {
		t.HelpMode = *o.HelpMode
	}
	if o.Spinner != nil {
		t.Spinner = *o.Spinner
	}
	return t
}

// Merge layers n over o: fields set in n win.
func (o ThemeOverride) Merge(n ThemeOverride) ThemeOverride {
	pick := func(a, b *string) *string {
		if b != nil {
			return b
		}
		return a
	}
	out := ThemeOverride{
		Checked:        pick(o.Checked, n.Checked),
		Unchecked:      pick(o.Unchecked, n.Unchecked),
		Cursor:         pick(o.Cursor, n.Cursor),
		InputCursor:    pick(o.InputCursor, n.InputCursor),
		Idle:           pick(o.Idle, n.Idle),
		Done:           pick(o.Done, n.Done),
		MessageColor:   pick(o.MessageColor, n.MessageColor),
		AnswerColor:    pick(o.AnswerColor, n.AnswerColor),
		HighlightColor: pick(o.HighlightColor, n.HighlightColor),
		ErrorColor:     pick(o.ErrorColor, n.ErrorColor),
		HelpColor:      pick(o.HelpColor, n.HelpColor),
		KeyColor:       pick(o.KeyColor, n.KeyColor),
		HelpMode:       o.HelpMode,
		Spinner:        o.Spinner,
	}
	if n.HelpMode != nil {
		out.HelpMode = n.HelpMode
	}
	if n.Spinner != nil {
		out.Spinner = n.Spinner
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func withColor(s lipgloss.Style, color *string) lipgloss.Style {
	if color == nil || *color == "" {
		return s
	}
	return s.Foreground(lipgloss.Color(*color))
}

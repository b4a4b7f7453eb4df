package picker

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const moreOptionsHint = "(Use arrow keys to reveal more options)"

// Render draws one frame of the prompt. pager keeps the scroll position
// between frames and may be nil.
func Render[V comparable](ctx RenderContext[V], pager *Pager) string {
	th := ctx.Theme
	prefix := renderPrefix(ctx)
	message := th.Style.Message.Render(ctx.Message)

	if ctx.Status == StatusSubmitted {
		return prefix + " " + message + " " + th.Style.Answer.Render(renderAnswer(ctx.Selections))
	}

	top, bottom := renderHelp(ctx)
	chips := renderSelections(ctx)

	var input string
	switch {
	case !ctx.EnableFilter:
		if chips != "" {
			input = " " + th.Style.Answer.Render(chips)
		}
	case ctx.Status != StatusUnloaded:
		input = "\n" + th.Icon.InputCursor + " "
		if chips == "" && ctx.Filter == "" {
			input += th.Style.Placeholder.Render(ctx.Placeholder)
		} else {
			if chips != "" {
				input += th.Style.Answer.Render(chips) + " "
			}
			input += filterView(ctx)
		}
	}

	var b strings.Builder
	b.WriteString(prefix + " " + message + top + input)

	page := renderPage(ctx, pager)
	if page != "" || bottom != "" || ctx.Error != "" {
		b.WriteString("\n")
		b.WriteString(page)
		b.WriteString(bottom)
		if ctx.Error != "" {
			if page != "" || bottom != "" {
				b.WriteString("\n")
			}
			b.WriteString(th.Style.Error.Render(ctx.Error))
		}
	}
	return b.String()
}

func renderPrefix[V comparable](ctx RenderContext[V]) string {
	switch ctx.Host {
	case HostDone:
		return ctx.Theme.Icon.Done
	case HostIdle:
		return ctx.Theme.Icon.Idle
	default:
		if ctx.SpinnerFrame != "" {
			return ctx.SpinnerFrame
		}
		return ctx.Theme.Icon.Idle
	}
}

func filterView[V comparable](ctx RenderContext[V]) string {
	if ctx.InputView != "" {
		return ctx.InputView
	}
	return ctx.Filter
}

// renderSelections draws the selection chips. The focused chip is
// highlighted, in the error style once a delete is armed.
func renderSelections[V comparable](ctx RenderContext[V]) string {
	if len(ctx.Selections) == 0 {
		return ""
	}
	parts := make([]string, 0, len(ctx.Selections))
	for _, sel := range ctx.Selections {
		label := Sanitize(sel.Label())
		if sel.Focused {
			style := ctx.Theme.Style.FocusedSelection
			if ctx.ConfirmDelete {
				style = style.Inherit(ctx.Theme.Style.Error)
			}
			label = style.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

func renderAnswer[V comparable](selections []Selection[V]) string {
	labels := make([]string, 0, len(selections))
	for _, sel := range selections {
		labels = append(labels, Sanitize(sel.Label()))
	}
	return strings.Join(labels, ", ")
}

func renderPage[V comparable](ctx RenderContext[V], pager *Pager) string {
	th := ctx.Theme
	if len(ctx.Items) == 0 {
		if ctx.Status == StatusUnloaded {
			return ""
		}
		return th.Icon.Info + " " + th.Style.EmptyText.Render(ctx.EmptyText)
	}
	if pager == nil {
		pager = &Pager{}
	}

	active := ctx.Cursor
	if active < 0 || active >= len(ctx.Items) {
		active = 0
	}
	lines := pager.Lines(len(ctx.Items), active, ctx.PageSize, ctx.Loop, func(i int, isActive bool) string {
		return renderRow(ctx, ctx.Items[i], isActive && ctx.Cursor >= 0)
	})

	if ctx.Cursor >= 0 && ctx.Cursor < len(ctx.Items) {
		if desc := ctx.Items[ctx.Cursor].Description; desc != "" {
			lines = append(lines, th.Style.Description.Render(truncate(Sanitize(desc), ctx.Width)))
		}
	}
	return strings.Join(lines, "\n")
}

func renderRow[V comparable](ctx RenderContext[V], item DisplayItem[V], active bool) string {
	th := ctx.Theme
	if item.Separator {
		return " " + th.Style.Separator.Render(item.SeparatorText)
	}

	label := Sanitize(item.Label)
	if item.Disabled {
		reason := item.DisabledReason
		if reason == "" {
			reason = "(disabled)"
		}
		return th.Style.Disabled.Render(truncate("-[x] "+label+" "+reason, ctx.Width))
	}

	cursor := strings.Repeat(" ", lipgloss.Width(th.Icon.Cursor))
	if active {
		cursor = th.Icon.Cursor
	}
	box := th.Icon.Unchecked
	if item.Checked {
		box = th.Icon.Checked
	}
	lead := cursor + box + " "
	if ctx.Width > 0 {
		label = MiddleTruncate(label, ctx.Width-lipgloss.Width(lead))
	}
	if active {
		return th.Style.Highlight.Render(lead + label)
	}
	return lead + label
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return MiddleTruncate(s, width)
}

// renderHelp returns the key hints shown after the message and the hint
// shown below a paginated list.
func renderHelp[V comparable](ctx RenderContext[V]) (top, bottom string) {
	th := ctx.Theme
	if th.HelpMode == HelpNever {
		return "", ""
	}
	always := th.HelpMode == HelpAlways
	b, used := ctx.Behaviors, ctx.Used

	if ctx.Instructions != nil {
		top = ctx.Instructions(ctx)
	} else {
		k := th.Style.Key.Render
		var keys []string
		if (b.Select || b.Deselect) && (always || !(used.Select || used.Deselect)) {
			if ctx.Multiple {
				keys = append(keys, k("tab")+" to select/deselect")
			}
			if ctx.CanToggleAll {
				keys = append(keys, k("ctrl")+" + "+k("a")+" to toggle all")
			}
			keys = append(keys, k("enter")+" to proceed")
		}
		if ctx.Multiple && b.DeleteOption && len(ctx.Selections) > 0 && (always || !used.DeleteOption) {
			hint := k("backspace")
			if ctx.FocusedSelection >= 0 {
				hint += " " + th.Style.Highlight.Render("again")
			}
			keys = append(keys, hint+" to remove option")
		}
		if b.Blur && ctx.FocusedSelection >= 0 && (always || !used.Blur) {
			keys = append(keys, k("up/down")+" or "+k("esc")+" to exit")
		}
		if len(keys) > 0 {
			top = " (Press " + strings.Join(keys, ", ") + ")"
		}
	}

	if len(ctx.Items) > ctx.PageSize && b.SetCursor && (always || !used.SetCursor) {
		bottom = "\n" + th.Style.Help.Render(moreOptionsHint)
	}
	return top, bottom
}

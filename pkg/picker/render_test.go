package picker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func renderStore(s *Store[string]) RenderContext[string] {
	return BuildContext(s, DefaultTheme(s.Multiple()))
}

func TestRender_UnloadedShowsOnlyMessage(t *testing.T) {
	cfg := DefaultConfig[string]()
	cfg.Message = "Pick"
	cfg.Theme.HelpMode = ptr(HelpNever)
	s := NewStore(cfg)

	ctx := BuildContext(s, DefaultTheme(false).Merge(cfg.Theme))

	assert.Equal(t, "? Pick", Render(ctx, nil))
}

func TestRender_LoadingUsesSpinnerFrame(t *testing.T) {
	s, _ := remoteStore(t, func(c *Config[string]) { c.Message = "Pick" })
	ctx := renderStore(s)
	ctx.SpinnerFrame = "⣾"

	assert.True(t, strings.HasPrefix(Render(ctx, nil), "⣾ Pick"))
}

func TestRender_MultipleRows(t *testing.T) {
	s := staticStore(t, Values("a", "b"), func(c *Config[string]) {
		c.Message = "Pick"
		c.Multiple = true
	})
	s.Toggle()

	out := Render(renderStore(s), nil)
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "? Pick (Press tab to select/deselect, enter to proceed, backspace to remove option)")
	assert.Equal(t, ">> a ", lines[1])
	assert.Equal(t, ">[✔] a", lines[2])
	assert.Equal(t, " [ ] b", lines[3])
}

func TestRender_SingleRowsHaveNoCheckbox(t *testing.T) {
	s := staticStore(t, Values("a", "b"), func(c *Config[string]) { c.Message = "Pick" })

	out := Render(renderStore(s), nil)

	assert.Contains(t, out, "\n> a\n  b")
	assert.Contains(t, out, ">> Type to search")
}

func TestRender_DisabledAndSeparators(t *testing.T) {
	items := []Item[string]{
		Opt(Option[string]{Value: "a"}),
		Sep[string]("-- more --"),
		Opt(Option[string]{Value: "b", Disabled: true}),
		Opt(Option[string]{Value: "c", DisabledReason: "(sold out)"}),
	}
	s := staticStore(t, items, nil)

	out := Render(renderStore(s), nil)

	assert.Contains(t, out, "\n -- more --")
	assert.Contains(t, out, "-[x] b (disabled)")
	assert.Contains(t, out, "-[x] c (sold out)")
}

func TestRender_EmptyText(t *testing.T) {
	s := staticStore(t, Values("a"), func(c *Config[string]) { c.EmptyText = "Nothing here" })
	s.SetFilter("zzz")

	out := Render(renderStore(s), nil)

	assert.Contains(t, out, "ℹ Nothing here")
}

func TestRender_MoreOptionsHint(t *testing.T) {
	var vals []string
	for i := range 12 {
		vals = append(vals, fmt.Sprintf("item %d", i))
	}
	s := staticStore(t, Values(vals...), nil)

	ctx := renderStore(s)
	out := Render(ctx, nil)
	assert.Contains(t, out, moreOptionsHint)
	assert.NotContains(t, out, "item 10", "only one page is drawn")

	ctx.Used.SetCursor = true
	assert.NotContains(t, Render(ctx, nil), moreOptionsHint)

	ctx.Theme.HelpMode = HelpAlways
	assert.Contains(t, Render(ctx, nil), moreOptionsHint)
}

func TestRender_AutoHelpDropsLearnedKeys(t *testing.T) {
	s := staticStore(t, Values("a"), func(c *Config[string]) { c.Multiple = true })

	ctx := renderStore(s)
	ctx.Used = Behaviors{Select: true, Deselect: true}

	assert.NotContains(t, Render(ctx, nil), "(Press")
}

func TestRender_Instructions(t *testing.T) {
	s := staticStore(t, Values("a"), func(c *Config[string]) {
		c.Message = "Pick"
		c.Instructions = func(ctx RenderContext[string]) string {
			return fmt.Sprintf(" [%d options]", len(ctx.Items))
		}
	})

	assert.True(t, strings.HasPrefix(Render(renderStore(s), nil), "? Pick [1 options]"))
}

func TestRender_Error(t *testing.T) {
	s := staticStore(t, Values("a"), func(c *Config[string]) {
		c.Multiple = true
		c.Required = true
	})
	s.Submit()

	out := Render(renderStore(s), nil)

	assert.True(t, strings.HasSuffix(out, "\n"+requiredMessage))
}

func TestRender_Submitted(t *testing.T) {
	s := staticStore(t, Values("a", "b"), func(c *Config[string]) {
		c.Message = "Pick"
		c.Multiple = true
	})
	s.Toggle()
	s.MoveCursor(MoveDown)
	s.Toggle()
	_, ok := s.Submit()
	require.True(t, ok)

	assert.Equal(t, "✔ Pick a, b", Render(renderStore(s), nil))
}

func TestRender_FilterDisabledShowsChipsInline(t *testing.T) {
	s := staticStore(t, Values("a"), func(c *Config[string]) {
		c.Message = "Pick"
		c.Multiple = true
		c.EnableFilter = false
		c.Theme.HelpMode = ptr(HelpNever)
	})
	s.Toggle()
	ctx := BuildContext(s, DefaultTheme(true).Merge(s.cfg.Theme))

	lines := strings.Split(Render(ctx, nil), "\n")

	assert.Equal(t, "? Pick a", lines[0])
}

func ptr[T any](v T) *T { return &v }

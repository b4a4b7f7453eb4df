package picker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock source ---

type mockSource struct {
	mu      sync.Mutex
	items   []Item[string]
	err     error
	block   bool // Wait for ctx to be cancelled
	filters []string
	ctxErr  error
}

func (s *mockSource) Fetch(ctx context.Context, filter string) ([]Item[string], error) {
	s.mu.Lock()
	s.filters = append(s.filters, filter)
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		s.mu.Lock()
		s.ctxErr = ctx.Err()
		s.mu.Unlock()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	var out []Item[string]
	for _, it := range s.items {
		if strings.Contains(it.Label(), filter) {
			out = append(out, it)
		}
	}
	return out, nil
}

func newTestModel(cfg Config[string]) Model[string] {
	m := NewModel(context.Background(), cfg)
	m.width = 80
	return m
}

func staticConfig(vals ...string) Config[string] {
	cfg := DefaultConfig[string]()
	cfg.Message = "Pick"
	cfg.Options = Values(vals...)
	return cfg
}

func remoteConfig(src Source[string]) Config[string] {
	cfg := DefaultConfig[string]()
	cfg.Message = "Pick"
	cfg.Source = src
	return cfg
}

// runCmd executes a tea.Cmd synchronously and returns the resulting message.
func runCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// drainBatch runs a batch cmd and feeds every resulting message into the
// model, returning the cmd produced by the last message.
func drainBatch(t *testing.T, m Model[string], batchCmd tea.Cmd) (Model[string], tea.Cmd) {
	t.Helper()
	msg := runCmd(batchCmd)
	if msg == nil {
		return m, nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var lastCmd tea.Cmd
		for _, cmd := range batch {
			sub := runCmd(cmd)
			if sub == nil {
				continue
			}
			var result tea.Model
			result, lastCmd = m.Update(sub)
			m = result.(Model[string])
		}
		return m, lastCmd
	}
	result, cmd := m.Update(msg)
	return result.(Model[string]), cmd
}

// update feeds one message into the model.
func update(t *testing.T, m Model[string], msg tea.Msg) (Model[string], tea.Cmd) {
	t.Helper()
	result, cmd := m.Update(msg)
	return result.(Model[string]), cmd
}

// initAndLoad runs the full Init -> fetch cycle.
func initAndLoad(t *testing.T, m Model[string]) Model[string] {
	t.Helper()
	m, fetchCmd := drainBatch(t, m, m.Init())
	if m.store.Local() {
		require.Nil(t, fetchCmd)
		return m
	}
	require.Equal(t, StatusFiltering, m.store.Status())
	msg := runCmd(fetchCmd)
	require.NotNil(t, msg)
	m, _ = update(t, m, msg)
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func isQuit(cmd tea.Cmd) bool {
	_, ok := runCmd(cmd).(tea.QuitMsg)
	return ok
}

// --- Init ---

func TestModel_InitStatic(t *testing.T) {
	m := initAndLoad(t, newTestModel(staticConfig("apple", "banana")))

	assert.Equal(t, StatusLoaded, m.store.Status())
	assert.Contains(t, m.View(), "apple")
	assert.Contains(t, m.View(), "banana")
}

func TestModel_InitRemote(t *testing.T) {
	src := &mockSource{items: Values("apple", "banana")}
	m := initAndLoad(t, newTestModel(remoteConfig(src)))

	assert.Equal(t, StatusLoaded, m.store.Status())
	assert.Equal(t, []string{""}, src.filters)
	assert.Len(t, m.store.DisplayItems(), 2)
}

func TestModel_InitRemoteError(t *testing.T) {
	src := &mockSource{err: errors.New("connection refused")}
	m := initAndLoad(t, newTestModel(remoteConfig(src)))

	assert.Equal(t, StatusUnloaded, m.store.Status())
	assert.Contains(t, m.View(), "connection refused")
}

// --- Filtering ---

func TestModel_TypingFiltersStaticListImmediately(t *testing.T) {
	m := initAndLoad(t, newTestModel(staticConfig("apple", "banana", "cherry")))

	m, _ = update(t, m, keyRunes("an"))

	assert.Equal(t, "an", m.store.Filter())
	assert.Equal(t, StatusLoaded, m.store.Status())
	assert.Equal(t, []string{"banana"}, labels(m.store.DisplayItems()))
}

func TestModel_TypingDebouncesRemoteFetch(t *testing.T) {
	src := &mockSource{items: Values("apple", "banana")}
	m := initAndLoad(t, newTestModel(remoteConfig(src)))

	m, cmd := update(t, m, keyRunes("a"))
	assert.NotNil(t, cmd)
	assert.Equal(t, StatusFiltering, m.store.Status())
	first := m.store.Seq()

	m, _ = update(t, m, keyRunes("n"))
	latest := m.store.Seq()
	require.Greater(t, latest, first)

	// The superseded timer does nothing.
	m, cmd = update(t, m, debounceMsg{req: FetchRequest{Seq: first, Filter: "a"}})
	assert.Nil(t, cmd)

	m, cmd = update(t, m, debounceMsg{req: FetchRequest{Seq: latest, Filter: "an"}})
	require.NotNil(t, cmd)
	m, _ = update(t, m, runCmd(cmd))

	assert.Equal(t, []string{"", "an"}, src.filters)
	assert.Equal(t, StatusLoaded, m.store.Status())
	assert.Equal(t, []string{"banana"}, labels(m.store.DisplayItems()))
}

func TestModel_StaleFetchResultIgnored(t *testing.T) {
	src := &mockSource{items: Values("apple", "banana")}
	m := initAndLoad(t, newTestModel(remoteConfig(src)))
	m, _ = update(t, m, keyRunes("x"))

	stale := fetchDoneMsg[string]{result: FetchResult[string]{Seq: m.store.Seq() - 1, Items: Values("old")}}
	m, _ = update(t, m, stale)

	assert.Equal(t, StatusFiltering, m.store.Status())
	assert.Equal(t, []string{"apple", "banana"}, labels(m.store.DisplayItems()))
}

func TestModel_SupersededFetchIsCancelled(t *testing.T) {
	src := &mockSource{items: Values("apple")}
	m := initAndLoad(t, newTestModel(remoteConfig(src)))

	src.block = true
	m, _ = update(t, m, keyRunes("a"))
	m, fetch := update(t, m, debounceMsg{req: FetchRequest{Seq: m.store.Seq(), Filter: "a"}})
	require.NotNil(t, fetch)

	// Typing again cancels the in-flight fetch before it even runs.
	m, _ = update(t, m, keyRunes("b"))
	msg := runCmd(fetch)

	assert.ErrorIs(t, src.ctxErr, context.Canceled)
	m, _ = update(t, m, msg)
	assert.Equal(t, StatusFiltering, m.store.Status(), "cancelled result is stale")
	assert.Empty(t, m.store.Error())
}

func TestModel_ReloadRefetches(t *testing.T) {
	src := &mockSource{items: Values("apple")}
	m := initAndLoad(t, newTestModel(remoteConfig(src)))

	src.items = Values("apple", "apricot")
	m, cmd := update(t, m, keyType(tea.KeyCtrlR))
	require.NotNil(t, cmd)
	m, _ = update(t, m, runCmd(cmd))

	assert.Len(t, m.store.DisplayItems(), 2)
}

// --- Selection ---

func TestModel_TabTogglesAndEnterSubmits(t *testing.T) {
	cfg := staticConfig("apple", "banana")
	cfg.Multiple = true
	m := initAndLoad(t, newTestModel(cfg))

	m, _ = update(t, m, keyType(tea.KeyTab))
	m, _ = update(t, m, keyType(tea.KeyDown))
	m, _ = update(t, m, keyType(tea.KeyTab))
	m, cmd := update(t, m, keyType(tea.KeyEnter))

	assert.True(t, isQuit(cmd))
	answer, ok := m.Answer()
	require.True(t, ok)
	assert.Equal(t, []string{"apple", "banana"}, answer.Values)
	assert.Contains(t, m.View(), "apple, banana")
}

func TestModel_EnterSubmitsSingleCursor(t *testing.T) {
	m := initAndLoad(t, newTestModel(staticConfig("apple", "banana")))

	m, _ = update(t, m, keyType(tea.KeyDown))
	m, cmd := update(t, m, keyType(tea.KeyEnter))

	assert.True(t, isQuit(cmd))
	answer, ok := m.Answer()
	require.True(t, ok)
	v, _ := answer.Value()
	assert.Equal(t, "banana", v)
}

func TestModel_EnterWhileLoadingDoesNothing(t *testing.T) {
	src := &mockSource{block: true}
	m := newTestModel(remoteConfig(src))
	m, _ = drainBatch(t, m, m.Init())

	m, cmd := update(t, m, keyType(tea.KeyEnter))

	assert.Nil(t, cmd)
	_, ok := m.Answer()
	assert.False(t, ok)
}

func TestModel_RequiredShowsError(t *testing.T) {
	cfg := staticConfig("apple")
	cfg.Multiple = true
	cfg.Required = true
	m := initAndLoad(t, newTestModel(cfg))

	m, cmd := update(t, m, keyType(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), requiredMessage)
}

func TestModel_EscCancels(t *testing.T) {
	m := initAndLoad(t, newTestModel(staticConfig("apple")))

	m, cmd := update(t, m, keyType(tea.KeyEsc))

	assert.True(t, isQuit(cmd))
	assert.True(t, m.Cancelled())
	assert.Empty(t, m.View())
	_, ok := m.Answer()
	assert.False(t, ok)
}

func TestModel_CtrlAToggleAll(t *testing.T) {
	cfg := staticConfig("a", "b", "c")
	cfg.Multiple = true
	cfg.CanToggleAll = true
	m := initAndLoad(t, newTestModel(cfg))

	assert.Contains(t, m.View(), "to toggle all")
	m, _ = update(t, m, keyType(tea.KeyCtrlA))

	assert.Len(t, m.store.Selections(), 3)
	assert.NotContains(t, m.View(), "to toggle all", "hint hidden once used")
}

func TestModel_ClearFilterOnSelect(t *testing.T) {
	cfg := staticConfig("apple", "banana")
	cfg.Multiple = true
	cfg.ClearFilterOnSelect = true
	m := initAndLoad(t, newTestModel(cfg))

	m, _ = update(t, m, keyRunes("ban"))
	m, _ = update(t, m, keyType(tea.KeyTab))

	assert.Equal(t, []string{"banana"}, values(m.store.Selections()))
	assert.Equal(t, "", m.store.Filter())
	assert.Equal(t, "", m.input.Value())
	assert.Len(t, m.store.DisplayItems(), 2)
}

// --- Selection focus ---

func TestModel_BackspaceFocusesAndDeletes(t *testing.T) {
	cfg := staticConfig("apple", "banana")
	cfg.Multiple = true
	cfg.ConfirmDelete = true
	m := initAndLoad(t, newTestModel(cfg))
	m, _ = update(t, m, keyType(tea.KeyTab))
	m, _ = update(t, m, keyType(tea.KeyDown))
	m, _ = update(t, m, keyType(tea.KeyTab))

	m, _ = update(t, m, keyType(tea.KeyBackspace))
	assert.Equal(t, 1, m.store.FocusedSelection())

	m, _ = update(t, m, keyType(tea.KeyBackspace))
	assert.True(t, m.store.ConfirmDelete())
	assert.Contains(t, m.View(), "again")

	m, _ = update(t, m, keyType(tea.KeyBackspace))
	assert.Equal(t, []string{"apple"}, values(m.store.Selections()))
	assert.Equal(t, 0, m.store.FocusedSelection())

	m, _ = update(t, m, keyType(tea.KeyEsc))
	assert.Equal(t, -1, m.store.FocusedSelection())
	assert.False(t, m.Cancelled(), "esc only blurs while a selection has focus")
}

func TestModel_ChipFocusArrowsAndTyping(t *testing.T) {
	cfg := staticConfig("apple", "banana")
	cfg.Multiple = true
	m := initAndLoad(t, newTestModel(cfg))
	m, _ = update(t, m, keyType(tea.KeyTab))
	m, _ = update(t, m, keyType(tea.KeyDown))
	m, _ = update(t, m, keyType(tea.KeyTab))
	m, _ = update(t, m, keyType(tea.KeyBackspace))

	m, _ = update(t, m, keyType(tea.KeyLeft))
	assert.Equal(t, 0, m.store.FocusedSelection())
	m, _ = update(t, m, keyType(tea.KeyRight))
	assert.Equal(t, 1, m.store.FocusedSelection())

	m, _ = update(t, m, keyRunes("b"))
	assert.Equal(t, -1, m.store.FocusedSelection())
	assert.Equal(t, "b", m.store.Filter())
}

func TestModel_BackspaceEditsNonEmptyFilter(t *testing.T) {
	cfg := staticConfig("apple")
	cfg.Multiple = true
	m := initAndLoad(t, newTestModel(cfg))
	m, _ = update(t, m, keyType(tea.KeyTab))
	m, _ = update(t, m, keyRunes("ap"))

	m, _ = update(t, m, keyType(tea.KeyBackspace))

	assert.Equal(t, "a", m.store.Filter())
	assert.Equal(t, -1, m.store.FocusedSelection())
}

func TestModel_FilterDisabledIgnoresTyping(t *testing.T) {
	cfg := staticConfig("apple", "banana")
	cfg.EnableFilter = false
	m := initAndLoad(t, newTestModel(cfg))

	m, _ = update(t, m, keyRunes("ban"))

	assert.Equal(t, "", m.store.Filter())
	assert.Len(t, m.store.DisplayItems(), 2)
}

// --- View ---

func TestModel_WindowSizeTruncatesLabels(t *testing.T) {
	m := initAndLoad(t, newTestModel(staticConfig(strings.Repeat("x", 200))))

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 40, Height: 20})

	for _, line := range strings.Split(m.View(), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 40, line)
	}
}

func TestModel_ThemeOverride(t *testing.T) {
	cfg := staticConfig("apple")
	cfg.Theme.Cursor = ptr("→")
	m := initAndLoad(t, newTestModel(cfg))

	assert.Contains(t, m.View(), "→ apple")
}

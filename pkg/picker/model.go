package picker

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// fetchDoneMsg is sent when an async Source.Fetch completes.
type fetchDoneMsg[V comparable] struct {
	result FetchResult[V]
}

// debounceMsg fires after the input delay. The request only runs if it is
// still the store's latest.
type debounceMsg struct {
	req FetchRequest
}

// initMsg is sent by Init so that the first load runs through Update.
type initMsg struct{}

// Model is the Bubble Tea model of a prompt. Run drives it; embed it
// directly to place a prompt inside a larger program.
type Model[V comparable] struct {
	cfg   Config[V]
	store *Store[V]
	theme Theme
	keys  keyMap
	input textinput.Model
	spin  spinner.Model
	pager *Pager
	log   *slog.Logger

	width     int
	used      Behaviors // Actions the user has performed
	cancelled bool

	// ctx is the parent of every fetch context; cancelFetch cancels the
	// in-flight fetch.
	ctx         context.Context
	cancelFetch context.CancelFunc
}

// NewModel creates a prompt model. ctx bounds every fetch it issues.
func NewModel[V comparable](ctx context.Context, cfg Config[V]) Model[V] {
	if ctx == nil {
		ctx = context.Background()
	}
	store := NewStore(cfg)
	cfg = store.cfg

	theme := DefaultTheme(cfg.Multiple).Merge(cfg.Theme)

	ti := textinput.New()
	ti.Prompt = ""
	ti.SetValue(cfg.InitialFilter)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = theme.Spinner

	return Model[V]{
		cfg:   cfg,
		store: store,
		theme: theme,
		keys:  defaultKeyMap(),
		input: ti,
		spin:  sp,
		pager: &Pager{},
		log:   cfg.Logger,
		ctx:   ctx,
	}
}

// Store exposes the state store of the prompt.
func (m Model[V]) Store() *Store[V] {
	return m.store
}

// Answer returns the submitted answer and whether the prompt was submitted.
func (m Model[V]) Answer() (Answer[V], bool) {
	if m.store.Status() != StatusSubmitted {
		return Answer[V]{}, false
	}
	return m.store.Answer(), true
}

// Cancelled reports whether the user dismissed the prompt.
func (m Model[V]) Cancelled() bool {
	return m.cancelled
}

// Init implements tea.Model.
func (m Model[V]) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spin.Tick,
		func() tea.Msg { return initMsg{} },
	)
}

// Update implements tea.Model.
func (m Model[V]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case initMsg:
		return m, m.startFetch(m.store.Start())

	case debounceMsg:
		return m.handleDebounce(msg)

	case fetchDoneMsg[V]:
		return m.handleFetchDone(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model[V]) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.store.Status() == StatusSubmitted || m.cancelled {
		return m, nil
	}
	if m.store.FocusedSelection() >= 0 {
		if handled, cmd := m.handleSelectionKey(msg); handled {
			return m, cmd
		}
	}

	s := m.store
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.cancelled = true
		m.cancelInflight()
		m.log.Debug("cancelled")
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		if _, ok := s.Submit(); ok {
			m.cancelInflight()
			m.input.Blur()
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if !s.Toggle() {
			return m, nil
		}
		m.used.Select, m.used.Deselect = true, true
		if m.cfg.ClearFilterOnSelect && m.input.Value() != "" {
			m.input.SetValue("")
			return m, m.applyFilter()
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleAll):
		if s.ToggleAll() {
			m.used.Select, m.used.Deselect = true, true
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		return m.move(MoveUp)
	case key.Matches(msg, m.keys.Down):
		return m.move(MoveDown)
	case key.Matches(msg, m.keys.Home):
		return m.move(MoveHome)
	case key.Matches(msg, m.keys.End):
		return m.move(MoveEnd)
	case key.Matches(msg, m.keys.PageUp):
		return m.move(MovePageUp)
	case key.Matches(msg, m.keys.PageDown):
		return m.move(MovePageDown)

	case key.Matches(msg, m.keys.Reload):
		return m, m.startFetch(s.Reload())

	case key.Matches(msg, m.keys.FocusSelections) && m.input.Value() == "":
		if m.cfg.Multiple && s.FocusLastSelection() {
			m.used.Blur = true
		}
		return m, nil
	}

	if !m.cfg.EnableFilter {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, tea.Batch(cmd, m.applyFilter())
}

// handleSelectionKey handles keys while a selection chip has focus. It
// reports false for keys that should fall through to the list.
func (m *Model[V]) handleSelectionKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	s := m.store
	switch {
	case key.Matches(msg, m.keys.Delete):
		if s.DeleteSelection() {
			m.used.DeleteOption = true
		}
		return true, nil
	case key.Matches(msg, m.keys.FocusPrev):
		s.MoveSelectionFocus(-1)
		return true, nil
	case key.Matches(msg, m.keys.FocusNext):
		s.MoveSelectionFocus(1)
		return true, nil
	case key.Matches(msg, m.keys.Blur):
		s.BlurSelection()
		return true, nil
	case msg.Type == tea.KeyCtrlC:
		return false, nil
	}
	// Anything else returns focus to the list and is handled there.
	s.BlurSelection()
	return false, nil
}

func (m Model[V]) move(mv Move) (tea.Model, tea.Cmd) {
	if m.store.MoveCursor(mv) {
		m.used.SetCursor = true
	}
	return m, nil
}

// applyFilter pushes the input text into the store. Static lists are
// filtered at once; remote fetches are debounced.
func (m *Model[V]) applyFilter() tea.Cmd {
	req := m.store.SetFilter(m.input.Value())
	if req == nil {
		return nil
	}
	m.cancelInflight()
	r := *req
	return tea.Tick(m.cfg.InputDelay, func(time.Time) tea.Msg {
		return debounceMsg{req: r}
	})
}

func (m Model[V]) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.req.Seq != m.store.Seq() || m.store.Status() != StatusFiltering {
		return m, nil // Superseded while waiting.
	}
	return m, m.startFetch(&msg.req)
}

// startFetch cancels any in-flight fetch and returns a tea.Cmd running req
// against the source.
func (m *Model[V]) startFetch(req *FetchRequest) tea.Cmd {
	if req == nil {
		return nil
	}
	m.cancelInflight()

	ctx, cancel := context.WithCancel(m.ctx)
	m.cancelFetch = cancel

	src := m.cfg.Source
	r := *req
	return func() tea.Msg {
		return fetchDoneMsg[V]{result: Fetch(ctx, src, r)}
	}
}

func (m Model[V]) handleFetchDone(msg fetchDoneMsg[V]) (tea.Model, tea.Cmd) {
	if m.store.ApplyFetch(msg.result) {
		m.cancelInflight()
	}
	return m, nil
}

// cancelInflight cancels any in-progress fetch context.
func (m *Model[V]) cancelInflight() {
	if m.cancelFetch != nil {
		m.cancelFetch()
		m.cancelFetch = nil
	}
}

// Context returns the render snapshot of the current frame.
func (m Model[V]) Context() RenderContext[V] {
	ctx := BuildContext(m.store, m.theme)
	ctx.Used = m.used
	ctx.Width = m.width
	ctx.SpinnerFrame = m.spin.View()
	if m.input.Value() != "" {
		ctx.InputView = m.input.View()
	}
	return ctx
}

// View implements tea.Model.
func (m Model[V]) View() string {
	if m.cancelled {
		return ""
	}
	return Render(m.Context(), m.pager)
}

package picker

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Move is a cursor movement.
type Move int

const (
	MoveUp Move = iota
	MoveDown
	MoveHome
	MoveEnd
	MovePageUp
	MovePageDown
)

// requiredMessage is shown when a Required prompt is submitted empty.
const requiredMessage = "At least one option must be selected."

// Store is the selection and filter state machine behind a prompt.
//
// A Store is not safe for concurrent use. Every transition is expected to
// run on one goroutine, typically a Bubble Tea Update. Fetches are issued as
// FetchRequests; the caller runs them (see Fetch) and hands the result back
// through ApplyFetch. Transitions that are not valid in the current state are
// silent no-ops.
type Store[V comparable] struct {
	cfg   Config[V]
	local bool
	log   *slog.Logger

	status     Status
	options    []Item[V]
	filter     string
	display    []DisplayItem[V]
	cursor     int
	selections []Selection[V]
	focused    int
	confirmDel bool

	err          string
	errValidates bool // err came from Required/Validate and clears on the next action

	seq      uint64
	started  bool
	loaded   bool
	defaults []V
	cfgErr   error
	answer   Answer[V]

	listeners map[int]func()
	nextID    int
}

// NewStore creates a Store in StatusUnloaded. Call Start to load options.
func NewStore[V comparable](cfg Config[V]) *Store[V] {
	cfg = cfg.withDefaults()
	s := &Store[V]{
		cfg:      cfg,
		local:    cfg.Source == nil,
		log:      cfg.Logger,
		status:   StatusUnloaded,
		filter:   cfg.InitialFilter,
		cursor:   -1,
		focused:  -1,
		defaults: slices.Clone(cfg.Default),
	}
	if cfg.Source != nil && cfg.Options != nil {
		s.addConfigError(&ConfigurationError{
			Field:  "options",
			Reason: "both a static list and a source were given; the source is used",
		})
	}
	return s
}

// Subscribe registers fn to be called after every transition. The returned
// function removes the subscription.
func (s *Store[V]) Subscribe(fn func()) func() {
	if s.listeners == nil {
		s.listeners = make(map[int]func())
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Store[V]) notify() {
	for _, fn := range s.listeners {
		fn()
	}
}

// --- Accessors ---

// Status returns the current status.
func (s *Store[V]) Status() Status { return s.status }

// Options returns the most recently loaded option list, unfiltered for
// static lists.
func (s *Store[V]) Options() []Item[V] { return slices.Clone(s.options) }

// Filter returns the current filter text.
func (s *Store[V]) Filter() string { return s.filter }

// Cursor returns the index of the active row in DisplayItems, or -1.
func (s *Store[V]) Cursor() int { return s.cursor }

// DisplayItems returns the rows to render.
func (s *Store[V]) DisplayItems() []DisplayItem[V] { return slices.Clone(s.display) }

// Selections returns the chosen values in selection order.
func (s *Store[V]) Selections() []Selection[V] {
	out := slices.Clone(s.selections)
	for i := range out {
		out[i].Focused = i == s.focused
	}
	return out
}

// FocusedSelection returns the index of the focused selection, or -1 when
// the list has focus.
func (s *Store[V]) FocusedSelection() int { return s.focused }

// ConfirmDelete reports whether the next delete removes the focused
// selection.
func (s *Store[V]) ConfirmDelete() bool { return s.confirmDel }

// Error returns the message of the last failed fetch or rejected submit.
func (s *Store[V]) Error() string { return s.err }

// Seq returns the sequence number of the most recently issued fetch.
func (s *Store[V]) Seq() uint64 { return s.seq }

// Multiple reports whether the store is in multi-select mode.
func (s *Store[V]) Multiple() bool { return s.cfg.Multiple }

// Local reports whether options are filtered locally.
func (s *Store[V]) Local() bool { return s.local }

// Behaviors returns the enabled user actions.
func (s *Store[V]) Behaviors() Behaviors { return s.cfg.Behaviors }

// ConfigError returns the configuration problems found so far, or nil.
func (s *Store[V]) ConfigError() error { return s.cfgErr }

// Answer returns the submitted answer. It is only meaningful once Status is
// StatusSubmitted.
func (s *Store[V]) Answer() Answer[V] { return s.answer }

// Current returns the row under the cursor.
func (s *Store[V]) Current() (DisplayItem[V], bool) {
	if s.cursor < 0 || s.cursor >= len(s.display) {
		return DisplayItem[V]{}, false
	}
	return s.display[s.cursor], true
}

// CanToggleAll reports whether ToggleAll is available: multi-select,
// enabled in the config, and no filter narrowing the list.
func (s *Store[V]) CanToggleAll() bool {
	return s.cfg.Multiple && s.cfg.CanToggleAll && s.filter == ""
}

// --- Loading ---

// Start loads the initial options. Static lists load synchronously and nil
// is returned; otherwise the first FetchRequest is returned.
func (s *Store[V]) Start() *FetchRequest {
	if s.started || s.status == StatusSubmitted {
		return nil
	}
	s.started = true
	defer s.notify()

	if !s.local {
		return s.issue()
	}

	s.options = slices.Clone(s.cfg.Options)
	s.status = StatusLoaded
	s.loaded = true
	s.reindex()
	s.resolveDefaults()
	s.refreshPreferDefault()
	return nil
}

// Reload re-issues a fetch for the current filter. It returns nil for
// static lists.
func (s *Store[V]) Reload() *FetchRequest {
	if s.done() || s.local {
		return nil
	}
	defer s.notify()
	s.disarm()
	return s.issue()
}

func (s *Store[V]) issue() *FetchRequest {
	s.seq++
	s.status = StatusFiltering
	s.log.Debug("fetch issued", "seq", s.seq, "filter", s.filter)
	return &FetchRequest{Seq: s.seq, Filter: s.filter}
}

// ApplyFetch applies a fetch result. Results of superseded requests are
// discarded and false is returned.
func (s *Store[V]) ApplyFetch(res FetchResult[V]) bool {
	if s.done() {
		return false
	}
	if res.Seq != s.seq {
		s.log.Debug("stale fetch discarded", "seq", res.Seq, "latest", s.seq)
		return false
	}
	defer s.notify()

	if res.Err != nil {
		s.setError(res.Err.Message(), false)
		if s.loaded {
			s.status = StatusLoaded
		} else {
			s.status = StatusUnloaded
		}
		s.log.Warn("fetch failed", "seq", res.Seq, "filter", res.Err.Filter, "error", res.Err.Cause)
		return true
	}

	active, hasActive := s.activeValue()
	first := !s.loaded

	s.err, s.errValidates = "", false
	s.options = res.Items
	s.status = StatusLoaded
	s.loaded = true
	s.reindex()

	if first {
		s.resolveDefaults()
		s.refreshPreferDefault()
	} else {
		s.refresh(active, hasActive)
	}
	s.log.Debug("fetch applied", "seq", res.Seq, "options", len(res.Items))
	return true
}

// SetFilter changes the filter text. Static lists are re-filtered at once
// and nil is returned; otherwise a FetchRequest for the new text is returned.
func (s *Store[V]) SetFilter(text string) *FetchRequest {
	if s.done() {
		return nil
	}
	defer s.notify()
	s.disarm()

	if text == s.filter {
		return nil
	}
	s.filter = text

	if !s.local {
		return s.issue()
	}
	active, ok := s.activeValue()
	s.refresh(active, ok)
	return nil
}

// --- Selection ---

// Toggle selects or deselects the row under the cursor. It reports whether
// the selections changed.
func (s *Store[V]) Toggle() bool {
	if s.done() {
		return false
	}
	defer s.notify()
	s.disarm()

	if s.status != StatusLoaded {
		return false
	}
	row, ok := s.Current()
	if !ok || !row.Selectable() {
		return false
	}

	if i := s.selectionIndex(row.Value); i >= 0 {
		if !s.cfg.Behaviors.Deselect {
			return false
		}
		s.removeSelection(i)
	} else {
		if !s.cfg.Behaviors.Select {
			return false
		}
		s.addSelection(row.Value, row.Label)
	}
	s.refreshKeepCursor()
	return true
}

// ToggleAll selects every selectable option, or clears the selections when
// all of them are already selected.
func (s *Store[V]) ToggleAll() bool {
	if s.done() {
		return false
	}
	defer s.notify()
	s.disarm()

	if s.status != StatusLoaded || !s.CanToggleAll() {
		return false
	}

	var candidates []int
	allSelected := true
	for i, it := range s.options {
		if !it.selectable() {
			continue
		}
		candidates = append(candidates, i)
		if s.selectionIndex(it.Value) < 0 {
			allSelected = false
		}
	}
	if len(candidates) == 0 {
		return false
	}

	if allSelected {
		if !s.cfg.Behaviors.Deselect {
			return false
		}
		s.selections = nil
		s.focused = -1
	} else {
		if !s.cfg.Behaviors.Select {
			return false
		}
		for _, i := range candidates {
			it := s.options[i]
			if s.selectionIndex(it.Value) < 0 {
				s.selections = append(s.selections, Selection[V]{Value: it.Value, Name: it.Label(), Index: i})
			}
		}
	}
	s.refreshKeepCursor()
	return true
}

// --- Cursor ---

// MoveCursor moves the cursor between selectable rows. Up and Down wrap
// around when the config enables Loop.
func (s *Store[V]) MoveCursor(m Move) bool {
	if s.done() {
		return false
	}
	defer s.notify()
	s.disarm()

	if s.status != StatusLoaded || !s.cfg.Behaviors.SetCursor {
		return false
	}
	first, last := firstSelectable(s.display), lastSelectable(s.display)
	if first < 0 {
		return false
	}

	next := s.cursor
	switch m {
	case MoveHome:
		next = first
	case MoveEnd:
		next = last
	case MoveUp, MoveDown:
		dir := 1
		if m == MoveUp {
			dir = -1
		}
		switch {
		case s.cursor < 0:
			next = first
		case !s.cfg.Loop && dir < 0 && s.cursor <= first:
			return false
		case !s.cfg.Loop && dir > 0 && s.cursor >= last:
			return false
		default:
			next = s.wrapStep(s.cursor, dir)
		}
	case MovePageUp, MovePageDown:
		dir := 1
		if m == MovePageUp {
			dir = -1
		}
		if next < 0 {
			next = first
		}
		for n := 0; n < s.cfg.PageSize; n++ {
			cand := s.step(next, dir)
			if cand < 0 {
				break
			}
			next = cand
		}
	}

	if next == s.cursor {
		return false
	}
	s.setCursor(next)
	return true
}

// SetCursor puts the cursor on row i if that row is selectable.
func (s *Store[V]) SetCursor(i int) bool {
	if s.done() {
		return false
	}
	defer s.notify()
	s.disarm()

	if !s.cfg.Behaviors.SetCursor || i < 0 || i >= len(s.display) || !s.display[i].Selectable() {
		return false
	}
	s.setCursor(i)
	return true
}

// step returns the next selectable row from i in direction dir without
// wrapping, or -1.
func (s *Store[V]) step(i, dir int) int {
	for j := i + dir; j >= 0 && j < len(s.display); j += dir {
		if s.display[j].Selectable() {
			return j
		}
	}
	return -1
}

// wrapStep is step with wrap-around.
func (s *Store[V]) wrapStep(i, dir int) int {
	n := len(s.display)
	j := i
	for range n {
		j = (j + dir + n) % n
		if s.display[j].Selectable() {
			return j
		}
	}
	return i
}

func (s *Store[V]) setCursor(i int) {
	if s.cursor >= 0 && s.cursor < len(s.display) {
		s.display[s.cursor].Focused = false
	}
	s.cursor = i
	if i >= 0 {
		s.display[i].Focused = true
	}
}

// --- Selection focus ---

// FocusSelection moves keyboard focus from the list to selection i.
func (s *Store[V]) FocusSelection(i int) bool {
	if s.done() {
		return false
	}
	defer s.notify()
	s.disarm()

	if !s.cfg.Behaviors.Blur || i < 0 || i >= len(s.selections) {
		return false
	}
	s.focused = i
	return true
}

// FocusLastSelection focuses the most recent selection.
func (s *Store[V]) FocusLastSelection() bool {
	return s.FocusSelection(len(s.selections) - 1)
}

// MoveSelectionFocus moves focus delta selections to the right, clamped.
func (s *Store[V]) MoveSelectionFocus(delta int) bool {
	if s.focused < 0 {
		s.disarmAndNotify()
		return false
	}
	next := min(max(s.focused+delta, 0), len(s.selections)-1)
	if next == s.focused {
		s.disarmAndNotify()
		return false
	}
	return s.FocusSelection(next)
}

// BlurSelection returns keyboard focus to the list.
func (s *Store[V]) BlurSelection() bool {
	if s.done() {
		return false
	}
	defer s.notify()
	s.disarm()

	if !s.cfg.Behaviors.Blur || s.focused < 0 {
		return false
	}
	s.focused = -1
	return true
}

// DeleteSelection removes the focused selection. With ConfirmDelete the
// first press only arms the deletion and the second consecutive press
// removes the selection. It reports whether a selection was removed.
func (s *Store[V]) DeleteSelection() bool {
	if s.done() {
		return false
	}
	defer s.notify()
	s.clearValidation()

	if s.focused < 0 || !s.cfg.Behaviors.DeleteOption {
		s.confirmDel = false
		return false
	}
	if s.cfg.ConfirmDelete && !s.confirmDel {
		s.confirmDel = true
		return false
	}
	s.confirmDel = false

	i := s.focused
	s.selections = slices.Delete(s.selections, i, i+1)
	switch {
	case len(s.selections) == 0:
		s.focused = -1
	case i > 0:
		s.focused = i - 1
	default:
		s.focused = 0
	}
	s.refreshKeepCursor()
	return true
}

// --- Submit ---

// Submit finalizes the prompt. In single-select mode the row under the
// cursor is chosen when nothing was selected explicitly. It returns false
// before Start, while options are loading, or when Required/Validate
// reject the answer. After a failed first load it resolves with no value.
func (s *Store[V]) Submit() (Answer[V], bool) {
	if s.done() {
		return s.answer, false
	}
	defer s.notify()
	s.disarm()

	if !s.started || s.status == StatusFiltering {
		return Answer[V]{}, false
	}
	cur, hasCur := s.Current()
	if hasCur && !cur.Selectable() {
		return Answer[V]{}, false
	}

	selections := s.selections
	if !s.cfg.Multiple && len(selections) == 0 && hasCur {
		selections = []Selection[V]{{Value: cur.Value, Name: cur.Label, Index: s.optionIndex(cur.Value)}}
	}
	values := make([]V, 0, len(selections))
	for _, sel := range selections {
		values = append(values, sel.Value)
	}

	if s.cfg.Required && len(values) == 0 {
		s.setError(requiredMessage, true)
		return Answer[V]{}, false
	}
	if s.cfg.Validate != nil {
		if err := s.cfg.Validate(values); err != nil {
			s.setError(err.Error(), true)
			return Answer[V]{}, false
		}
	}

	s.selections = selections
	s.focused = -1
	s.err, s.errValidates = "", false
	s.answer = Answer[V]{Values: values, Multiple: s.cfg.Multiple}
	s.status = StatusSubmitted
	s.log.Debug("submitted", "count", len(values))
	return s.answer, true
}

// --- Internals ---

func (s *Store[V]) done() bool {
	return s.status == StatusSubmitted
}

// disarm resets the delete confirmation. Every action except a delete does.
func (s *Store[V]) disarm() {
	s.confirmDel = false
	s.clearValidation()
}

func (s *Store[V]) disarmAndNotify() {
	if s.done() {
		return
	}
	s.disarm()
	s.notify()
}

func (s *Store[V]) clearValidation() {
	if s.errValidates {
		s.err, s.errValidates = "", false
	}
}

func (s *Store[V]) setError(msg string, validation bool) {
	s.err = msg
	s.errValidates = validation
}

func (s *Store[V]) addConfigError(err error) {
	s.cfgErr = errors.Join(s.cfgErr, err)
	s.log.Warn("configuration error", "error", err)
}

func (s *Store[V]) activeValue() (V, bool) {
	row, ok := s.Current()
	if !ok {
		var zero V
		return zero, false
	}
	return row.Value, true
}

func (s *Store[V]) selectionIndex(v V) int {
	for i, sel := range s.selections {
		if sel.Value == v {
			return i
		}
	}
	return -1
}

func (s *Store[V]) optionIndex(v V) int {
	for i, it := range s.options {
		if !it.IsSeparator() && it.Value == v {
			return i
		}
	}
	return -1
}

func (s *Store[V]) addSelection(v V, name string) {
	sel := Selection[V]{Value: v, Name: name, Index: s.optionIndex(v)}
	if !s.cfg.Multiple {
		s.selections = []Selection[V]{sel}
		s.focused = -1
		return
	}
	s.selections = append(s.selections, sel)
}

func (s *Store[V]) removeSelection(i int) {
	s.selections = slices.Delete(s.selections, i, i+1)
	switch {
	case s.focused == i:
		s.focused = -1
	case s.focused > i:
		s.focused--
	}
}

// reindex re-resolves selection indices against the current options by
// value and picks up renamed labels.
func (s *Store[V]) reindex() {
	for i := range s.selections {
		idx := s.optionIndex(s.selections[i].Value)
		s.selections[i].Index = idx
		if idx >= 0 {
			s.selections[i].Name = s.options[idx].Label()
		}
	}
}

// resolveDefaults turns the configured default values into selections. It
// runs once, on the first successful load.
func (s *Store[V]) resolveDefaults() {
	defaults := s.defaults
	s.defaults = nil
	if len(defaults) == 0 {
		return
	}
	if !s.cfg.Multiple && len(defaults) > 1 {
		defaults = defaults[:1]
	}

	var missing []string
	for _, v := range defaults {
		idx := s.optionIndex(v)
		if idx < 0 {
			missing = append(missing, fmt.Sprint(v))
			continue
		}
		if s.selectionIndex(v) >= 0 {
			continue
		}
		s.addSelection(v, s.options[idx].Label())
	}
	if len(missing) > 0 {
		s.addConfigError(&ConfigurationError{
			Field:  "default",
			Reason: "no option matches " + strings.Join(missing, ", "),
		})
	}
}

func (s *Store[V]) project() []DisplayItem[V] {
	return Project(s.options, s.filter, s.selections, ProjectOptions[V]{
		Local:     s.local,
		Match:     s.cfg.Filter,
		Placement: s.cfg.ShowSelections,
	})
}

// refresh recomputes the rows and re-clamps the cursor: it stays on prefer
// when that value is still a selectable row, otherwise it moves to the first
// selectable row, or -1 when there is none.
func (s *Store[V]) refresh(prefer V, hasPrefer bool) {
	s.display = s.project()
	s.cursor = -1
	next := -1
	if hasPrefer {
		if i := rowOf(s.display, prefer); i >= 0 && s.display[i].Selectable() {
			next = i
		}
	}
	if next < 0 {
		next = firstSelectable(s.display)
	}
	s.setCursor(next)
}

func (s *Store[V]) refreshKeepCursor() {
	active, ok := s.activeValue()
	s.refresh(active, ok)
}

func (s *Store[V]) refreshPreferDefault() {
	if len(s.selections) > 0 {
		s.refresh(s.selections[0].Value, true)
		return
	}
	var zero V
	s.refresh(zero, false)
}

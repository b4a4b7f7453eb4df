package picker

import "fmt"

// Placement controls where selections missing from the filtered view are
// shown.
type Placement int

const (
	ShowSelectionsNone    Placement = iota // Hide them
	ShowSelectionsAppend                   // After the filtered options
	ShowSelectionsPrepend                  // Before the filtered options
)

// ParsePlacement parses "none", "append" or "prepend".
func ParsePlacement(s string) (Placement, error) {
	switch s {
	case "", "none":
		return ShowSelectionsNone, nil
	case "append":
		return ShowSelectionsAppend, nil
	case "prepend":
		return ShowSelectionsPrepend, nil
	default:
		return ShowSelectionsNone, fmt.Errorf("unknown placement %q (want none, append or prepend)", s)
	}
}

func (p Placement) String() string {
	switch p {
	case ShowSelectionsAppend:
		return "append"
	case ShowSelectionsPrepend:
		return "prepend"
	default:
		return "none"
	}
}

// DisplayItem is a render-ready row.
type DisplayItem[V comparable] struct {
	Separator     bool
	SeparatorText string

	Value          V
	Label          string
	Description    string
	Checked        bool
	Disabled       bool
	DisabledReason string
	Focused        bool // The cursor is on this row
}

// Selectable reports whether the cursor may rest on the row.
func (d DisplayItem[V]) Selectable() bool {
	return !d.Separator && !d.Disabled
}

// ProjectOptions controls Project.
type ProjectOptions[V comparable] struct {
	// Local filters options with Match. Otherwise options are assumed to be
	// filtered by their source already.
	Local     bool
	Match     Matcher[V]
	Placement Placement
}

// Project derives the rows to render. Separators are always kept.
func Project[V comparable](options []Item[V], filter string, selections []Selection[V], opts ProjectOptions[V]) []DisplayItem[V] {
	match := opts.Match
	if match == nil {
		match = ContainsFold[V]
	}

	checked := make(map[V]struct{}, len(selections))
	for _, s := range selections {
		checked[s.Value] = struct{}{}
	}

	rows := make([]DisplayItem[V], 0, len(options))
	shown := make(map[V]struct{}, len(options))
	for _, it := range options {
		if it.IsSeparator() {
			rows = append(rows, DisplayItem[V]{Separator: true, SeparatorText: it.SeparatorText()})
			continue
		}
		if opts.Local && filter != "" && !match(it.Option, filter) {
			continue
		}
		_, isChecked := checked[it.Value]
		shown[it.Value] = struct{}{}
		rows = append(rows, DisplayItem[V]{
			Value:          it.Value,
			Label:          it.Label(),
			Description:    it.Description,
			Checked:        isChecked,
			Disabled:       it.IsDisabled(),
			DisabledReason: it.DisabledReason,
		})
	}

	if opts.Placement == ShowSelectionsNone || len(selections) == 0 {
		return rows
	}

	var missing []DisplayItem[V]
	for _, s := range selections {
		if _, ok := shown[s.Value]; ok {
			continue
		}
		missing = append(missing, DisplayItem[V]{Value: s.Value, Label: s.Label(), Checked: true})
	}
	if len(missing) == 0 {
		return rows
	}
	if opts.Placement == ShowSelectionsPrepend {
		return append(missing, rows...)
	}
	return append(rows, missing...)
}

func firstSelectable[V comparable](rows []DisplayItem[V]) int {
	for i, r := range rows {
		if r.Selectable() {
			return i
		}
	}
	return -1
}

func lastSelectable[V comparable](rows []DisplayItem[V]) int {
	for i := len(rows) - 1; i >= 0; i-- {
		if rows[i].Selectable() {
			return i
		}
	}
	return -1
}

func rowOf[V comparable](rows []DisplayItem[V], v V) int {
	for i, r := range rows {
		if !r.Separator && r.Value == v {
			return i
		}
	}
	return -1
}

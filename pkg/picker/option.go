package picker

import "fmt"

// DefaultSeparator is the text used for separators created without a label.
const DefaultSeparator = "──────────────"

// Option is one selectable entry.
type Option[V comparable] struct {
	Value       V
	Name        string // Display label; defaults to the stringified Value
	Description string

	// Disabled options are shown but can never be selected or focused.
	// A non-empty DisabledReason disables the option as well and is shown
	// in place of the generic "(disabled)" marker.
	Disabled       bool
	DisabledReason string
}

// Label returns the display label of the option.
func (o Option[V]) Label() string {
	if o.Name != "" {
		return o.Name
	}
	return fmt.Sprint(o.Value)
}

// IsDisabled reports whether the option is disabled.
func (o Option[V]) IsDisabled() bool {
	return o.Disabled || o.DisabledReason != ""
}

// Item is an entry of an option list: either an Option or a Separator.
type Item[V comparable] struct {
	Option[V]
	separator bool
	text      string
}

// Opt wraps an Option into an Item.
func Opt[V comparable](o Option[V]) Item[V] {
	return Item[V]{Option: o}
}

// Sep returns a separator item. An empty text uses DefaultSeparator.
func Sep[V comparable](text string) Item[V] {
	if text == "" {
		text = DefaultSeparator
	}
	return Item[V]{separator: true, text: text}
}

// Values builds a list of plain options, one per value.
func Values[V comparable](values ...V) []Item[V] {
	items := make([]Item[V], 0, len(values))
	for _, v := range values {
		items = append(items, Opt(Option[V]{Value: v}))
	}
	return items
}

// IsSeparator reports whether the item is a separator.
func (i Item[V]) IsSeparator() bool {
	return i.separator
}

// SeparatorText returns the separator label, or "" for options.
func (i Item[V]) SeparatorText() string {
	return i.text
}

func (i Item[V]) selectable() bool {
	return !i.separator && !i.IsDisabled()
}

// Selection is a chosen value.
type Selection[V comparable] struct {
	Value V
	Name  string

	// Index is the position of the value in the most recently loaded
	// option list, or -1 when the latest load did not contain it.
	Index int

	// Focused is set on the selection that keyboard focus is on, if any.
	Focused bool
}

// Label returns the display label of the selection.
func (s Selection[V]) Label() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprint(s.Value)
}

// Answer is the result of a submitted prompt.
type Answer[V comparable] struct {
	Values   []V // In selection order
	Multiple bool
}

// Value returns the single chosen value. The boolean is false when nothing
// was chosen.
func (a Answer[V]) Value() (V, bool) {
	if len(a.Values) == 0 {
		var zero V
		return zero, false
	}
	return a.Values[0], true
}

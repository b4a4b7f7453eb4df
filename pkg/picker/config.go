package picker

import (
	"log/slog"
	"time"
)

// Default values applied by DefaultConfig and to zero fields of a Config.
const (
	DefaultPageSize    = 10
	DefaultInputDelay  = 50 * time.Millisecond
	DefaultEmptyText   = "No results."
	DefaultPlaceholder = "Type to search"
)

// Behaviors lists the user actions a host allows. A disabled behavior turns
// the matching transition into a no-op.
type Behaviors struct {
	Select       bool // Add a value to the selections
	Deselect     bool // Remove a value by toggling it off
	DeleteOption bool // Remove a focused selection with backspace
	Blur         bool // Move focus between the list and the selections
	SetCursor    bool // Move the cursor
}

// AllBehaviors enables every action.
func AllBehaviors() Behaviors {
	return Behaviors{Select: true, Deselect: true, DeleteOption: true, Blur: true, SetCursor: true}
}

// Config configures a prompt. Start from DefaultConfig: boolean fields that
// default to true are not inferred from their zero values.
type Config[V comparable] struct {
	Message string

	// Exactly one of Options and Source should be set. Options are filtered
	// locally with Filter; a Source receives the filter text and filters on
	// its side.
	Options []Item[V]
	Source  Source[V]

	Multiple bool
	PageSize int
	Loop     bool

	// Default values are pre-selected once the options are first loaded.
	// Single-select prompts only use the first value.
	Default       []V
	InitialFilter string

	Filter       Matcher[V]
	EmptyText    string
	Placeholder  string
	Instructions func(RenderContext[V]) string // Replaces the generated key hints
	Theme        ThemeOverride

	Behaviors           Behaviors
	CanToggleAll        bool
	ConfirmDelete       bool // Removing a focused selection takes two presses
	ClearFilterOnSelect bool
	ShowSelections      Placement
	EnableFilter        bool

	// Required rejects an empty answer; Validate can reject any answer.
	// Rejections are shown as the prompt error.
	Required bool
	Validate func(values []V) error

	// InputDelay debounces fetches issued while typing. Static option
	// lists are filtered immediately.
	InputDelay time.Duration

	Logger *slog.Logger
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig[V comparable]() Config[V] {
	return Config[V]{
		PageSize:     DefaultPageSize,
		Loop:         true,
		EmptyText:    DefaultEmptyText,
		Placeholder:  DefaultPlaceholder,
		Behaviors:    AllBehaviors(),
		EnableFilter: true,
		InputDelay:   DefaultInputDelay,
	}
}

func (c Config[V]) withDefaults() Config[V] {
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.EmptyText == "" {
		c.EmptyText = DefaultEmptyText
	}
	if c.Placeholder == "" {
		c.Placeholder = DefaultPlaceholder
	}
	if c.InputDelay <= 0 {
		c.InputDelay = DefaultInputDelay
	}
	if c.Filter == nil {
		c.Filter = ContainsFold[V]
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// BehaviorsOverride holds optional Behaviors fields.
type BehaviorsOverride struct {
	Select       *bool
	Deselect     *bool
	DeleteOption *bool
	Blur         *bool
	SetCursor    *bool
}

// Override holds optional Config fields, typically read from a config file.
// Nil fields keep the value of the Config they are merged into.
type Override struct {
	PageSize            *int
	Loop                *bool
	EmptyText           *string
	Placeholder         *string
	CanToggleAll        *bool
	ConfirmDelete       *bool
	ClearFilterOnSelect *bool
	ShowSelections      *Placement
	EnableFilter        *bool
	Required            *bool
	InputDelay          *time.Duration
	Behaviors           BehaviorsOverride
	Theme               ThemeOverride
}

// Merge returns c with every non-nil field of o applied.
func (c Config[V]) Merge(o Override) Config[V] {
	if o.PageSize != nil {
		c.PageSize = *o.PageSize
	}
	setBool(&c.Loop, o.Loop)
	setString(&c.EmptyText, o.EmptyText)
	setString(&c.Placeholder, o.Placeholder)
	setBool(&c.CanToggleAll, o.CanToggleAll)
	setBool(&c.ConfirmDelete, o.ConfirmDelete)
	setBool(&c.ClearFilterOnSelect, o.ClearFilterOnSelect)
	setBool(&c.EnableFilter, o.EnableFilter)
	setBool(&c.Required, o.Required)
	if o.ShowSelections != nil {
		c.ShowSelections = *o.ShowSelections
	}
	if o.InputDelay != nil {
		c.InputDelay = *o.InputDelay
	}

	setBool(&c.Behaviors.Select, o.Behaviors.Select)
	setBool(&c.Behaviors.Deselect, o.Behaviors.Deselect)
	setBool(&c.Behaviors.DeleteOption, o.Behaviors.DeleteOption)
	setBool(&c.Behaviors.Blur, o.Behaviors.Blur)
	setBool(&c.Behaviors.SetCursor, o.Behaviors.SetCursor)

	c.Theme = c.Theme.Merge(o.Theme)
	return c
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

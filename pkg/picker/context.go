package picker

// RenderContext is an immutable snapshot of everything a renderer needs to
// draw one frame.
type RenderContext[V comparable] struct {
	Message     string
	Status      Status
	Host        HostStatus
	Filter      string
	Placeholder string
	EmptyText   string

	Items            []DisplayItem[V]
	Cursor           int
	Selections       []Selection[V]
	FocusedSelection int
	ConfirmDelete    bool
	Error            string

	Multiple     bool
	CanToggleAll bool
	EnableFilter bool
	Behaviors    Behaviors
	// Used lists the actions the user has performed at least once. The
	// automatic help mode stops hinting at them.
	Used     Behaviors
	PageSize int
	Loop     bool
	Theme    Theme

	// Filled in by the terminal layer.
	InputView    string // The filter input as drawn, cursor included
	SpinnerFrame string
	Width        int

	Instructions func(RenderContext[V]) string
}

// BuildContext snapshots the store for rendering.
func BuildContext[V comparable](s *Store[V], theme Theme) RenderContext[V] {
	cfg := s.cfg
	return RenderContext[V]{
		Message:          cfg.Message,
		Status:           s.Status(),
		Host:             s.Status().Host(),
		Filter:           s.Filter(),
		Placeholder:      cfg.Placeholder,
		EmptyText:        cfg.EmptyText,
		Items:            s.DisplayItems(),
		Cursor:           s.Cursor(),
		Selections:       s.Selections(),
		FocusedSelection: s.FocusedSelection(),
		ConfirmDelete:    s.ConfirmDelete(),
		Error:            s.Error(),
		Multiple:         cfg.Multiple,
		CanToggleAll:     s.CanToggleAll(),
		EnableFilter:     cfg.EnableFilter,
		Behaviors:        cfg.Behaviors,
		PageSize:         cfg.PageSize,
		Loop:             cfg.Loop,
		Theme:            theme,
		Instructions:     cfg.Instructions,
	}
}

package picker

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of a prompt. Keys not bound here edit the
// filter text.
type keyMap struct {
	Submit    key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Up        key.Binding
	Down      key.Binding
	Home      key.Binding
	End       key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Reload    key.Binding
	Cancel    key.Binding

	// Only active while a selection has focus.
	Delete    key.Binding
	FocusPrev key.Binding
	FocusNext key.Binding
	Blur      key.Binding

	// Backspace on an empty filter moves focus to the selections.
	FocusSelections key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "proceed")),
		Toggle:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "select/deselect")),
		ToggleAll: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("ctrl+a", "toggle all")),
		Up:        key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Home:      key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first")),
		End:       key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last")),
		PageUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "page down")),
		Reload:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		Cancel:    key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel")),

		Delete:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "remove option")),
		FocusPrev: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous option")),
		FocusNext: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next option")),
		Blur:      key.NewBinding(key.WithKeys("up", "down", "esc"), key.WithHelp("up/down", "exit")),

		FocusSelections: key.NewBinding(key.WithKeys("backspace")),
	}
}

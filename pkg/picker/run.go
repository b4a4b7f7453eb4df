package picker

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the prompt and blocks until the user submits or cancels it, or
// ctx is done. A cancelled prompt returns ErrCancelled.
func Run[V comparable](ctx context.Context, cfg Config[V], opts ...tea.ProgramOption) (Answer[V], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	m := NewModel(ctx, cfg)
	if err := m.store.ConfigError(); err != nil {
		m.log.Warn("prompt configuration", "error", err)
	}

	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return Answer[V]{}, fmt.Errorf("picker: %w", ctx.Err())
		}
		return Answer[V]{}, fmt.Errorf("picker: run program: %w", err)
	}

	fm, ok := final.(Model[V])
	if !ok {
		return Answer[V]{}, fmt.Errorf("picker: unexpected model type %T", final)
	}
	if answer, ok := fm.Answer(); ok {
		return answer, nil
	}
	return Answer[V]{}, ErrCancelled
}

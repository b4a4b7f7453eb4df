// Package picker implements a searchable, optionally multi-select list
// prompt for the terminal.
//
// The package is split in two layers. The Store holds the selection and
// filter state machine and can be embedded in custom UIs on its own. The
// Model wraps a Store as a Bubble Tea program, mapping key presses to Store
// transitions, running option fetches as commands and rendering the result.
//
// Options come either from a static list, which is filtered locally, or from
// a Source, which receives the filter text and is expected to filter on its
// side. Every fetch is tagged with a sequence number and only the result of
// the most recently issued fetch is applied.
//
//	answer, err := picker.Run(ctx, cfg)
//	if errors.Is(err, picker.ErrCancelled) {
//		return
//	}
//	v, ok := answer.Value()
package picker

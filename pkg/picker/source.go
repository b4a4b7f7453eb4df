package picker

import (
	"context"
	"fmt"
)

// Source supplies options for a filter text. Implementations are expected to
// do the filtering themselves; the picker only annotates what they return.
type Source[V comparable] interface {
	Fetch(ctx context.Context, filter string) ([]Item[V], error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc[V comparable] func(ctx context.Context, filter string) ([]Item[V], error)

// Fetch calls f.
func (f SourceFunc[V]) Fetch(ctx context.Context, filter string) ([]Item[V], error) {
	return f(ctx, filter)
}

// FetchRequest is a fetch issued by a Store.
type FetchRequest struct {
	Seq    uint64 // Monotonically increasing, for stale response detection
	Filter string
}

// FetchResult carries the outcome of a FetchRequest back to the Store.
type FetchResult[V comparable] struct {
	Seq   uint64 // Must match the Store's latest Seq to be applied
	Items []Item[V]
	Err   *FetchError
}

// Fetch runs req against src. Errors and panics raised by the source are
// returned as a FetchError in the result.
func Fetch[V comparable](ctx context.Context, src Source[V], req FetchRequest) (res FetchResult[V]) {
	res.Seq = req.Seq
	if src == nil {
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			res.Items = nil
			res.Err = &FetchError{Filter: req.Filter, Cause: fmt.Errorf("source panicked: %v", r)}
		}
	}()

	items, err := src.Fetch(ctx, req.Filter)
	if err != nil {
		res.Err = &FetchError{Filter: req.Filter, Cause: err}
		return res
	}
	res.Items = items
	return res
}

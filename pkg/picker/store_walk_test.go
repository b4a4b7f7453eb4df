package picker

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	walkRuns  = 500
	walkSteps = 40
)

func walkUniverse() []Item[string] {
	return []Item[string]{
		Opt(Option[string]{Value: "apple"}),
		Opt(Option[string]{Value: "banana"}),
		Sep[string]("fruit"),
		Opt(Option[string]{Value: "cherry", Disabled: true}),
		Opt(Option[string]{Value: "date"}),
		Opt(Option[string]{Value: "elder", DisabledReason: "out of season"}),
		Sep[string](""),
		Opt(Option[string]{Value: "fig"}),
		Opt(Option[string]{Value: "grape"}),
	}
}

var walkFilters = []string{"", "a", "an", "E", "g", "zz"}

// checkInvariants fails the test when the store breaks one of the
// properties that must hold after every transition.
func checkInvariants(t *testing.T, s *Store[string], trace []string) {
	t.Helper()
	fail := func(format string, args ...any) {
		t.Helper()
		t.Fatalf("%s\nafter: %s", fmt.Sprintf(format, args...), strings.Join(trace, " "))
	}

	sels := s.Selections()
	seen := map[string]bool{}
	for _, sel := range sels {
		if seen[sel.Value] {
			fail("duplicate selection %q", sel.Value)
		}
		seen[sel.Value] = true
	}
	if !s.Multiple() && len(sels) > 1 {
		fail("single mode holds %d selections", len(sels))
	}

	opts := s.Options()
	for _, sel := range sels {
		idx := slices.IndexFunc(opts, func(it Item[string]) bool {
			return !it.IsSeparator() && it.Value == sel.Value
		})
		if sel.Index != idx {
			fail("selection %q has index %d, options have it at %d", sel.Value, sel.Index, idx)
		}
	}

	rows := s.DisplayItems()
	if c := s.Cursor(); c != -1 {
		if c < 0 || c >= len(rows) {
			fail("cursor %d out of range [0,%d)", c, len(rows))
		}
		if !rows[c].Selectable() {
			fail("cursor %d rests on an unselectable row %+v", c, rows[c])
		}
	}

	if f := s.FocusedSelection(); f < -1 || f >= len(sels) {
		fail("focused selection %d out of range for %d selections", f, len(sels))
	}
}

// walkStep applies one random action and reports its name and whether it
// was a delete.
func walkStep(rng *rand.Rand, s *Store[string]) (string, bool) {
	switch rng.IntN(11) {
	case 0, 1:
		s.Toggle()
		return "toggle", false
	case 2:
		s.ToggleAll()
		return "toggleAll", false
	case 3:
		m := Move(rng.IntN(int(MovePageDown) + 1))
		s.MoveCursor(m)
		return fmt.Sprintf("move(%d)", m), false
	case 4:
		i := rng.IntN(12) - 1
		s.SetCursor(i)
		return fmt.Sprintf("setCursor(%d)", i), false
	case 5:
		f := walkFilters[rng.IntN(len(walkFilters))]
		s.SetFilter(f)
		return fmt.Sprintf("filter(%q)", f), false
	case 6:
		s.FocusLastSelection()
		return "focusLast", false
	case 7:
		d := rng.IntN(3) - 1
		s.MoveSelectionFocus(d)
		return fmt.Sprintf("focusMove(%d)", d), false
	case 8:
		s.BlurSelection()
		return "blur", false
	default:
		s.DeleteSelection()
		return "delete", true
	}
}

func TestStore_RandomWalkStatic(t *testing.T) {
	for run := range walkRuns {
		rng := rand.New(rand.NewPCG(uint64(run), 7))
		multiple := run%2 == 0

		cfg := DefaultConfig[string]()
		cfg.Options = walkUniverse()
		cfg.Multiple = multiple
		cfg.CanToggleAll = true
		cfg.ConfirmDelete = run%3 == 0
		cfg.Loop = run%4 < 2
		cfg.PageSize = 3
		s := NewStore(cfg)
		require.Nil(t, s.Start())

		trace := []string{fmt.Sprintf("run=%d multiple=%v", run, multiple)}
		checkInvariants(t, s, trace)
		for range walkSteps {
			name, deleted := walkStep(rng, s)
			trace = append(trace, name)
			checkInvariants(t, s, trace)
			if !deleted && s.ConfirmDelete() {
				t.Fatalf("%s left the delete armed\nafter: %s", name, strings.Join(trace, " "))
			}
		}
	}
}

// subset returns the universe items whose values match filter, keeping
// separators, in a random order when shuffle is set.
func subset(rng *rand.Rand, filter string, shuffle bool) []Item[string] {
	var out []Item[string]
	for _, it := range walkUniverse() {
		if it.IsSeparator() || ContainsFold(it.Option, filter) {
			out = append(out, it)
		}
	}
	if shuffle {
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

func TestStore_RandomWalkRemote(t *testing.T) {
	for run := range walkRuns {
		rng := rand.New(rand.NewPCG(uint64(run), 11))

		cfg := DefaultConfig[string]()
		cfg.Source = SourceFunc[string](func(context.Context, string) ([]Item[string], error) {
			return nil, nil
		})
		cfg.Multiple = run%2 == 1
		cfg.CanToggleAll = true
		cfg.Default = []string{"banana", "zz"}
		s := NewStore(cfg)

		pending := []*FetchRequest{s.Start()}
		trace := []string{fmt.Sprintf("run=%d", run)}
		latest := func() uint64 { return s.Seq() }

		for range walkSteps {
			if len(pending) > 0 && rng.IntN(3) == 0 {
				i := rng.IntN(len(pending))
				req := pending[i]
				pending = slices.Delete(pending, i, i+1)

				res := FetchResult[string]{Seq: req.Seq}
				if rng.IntN(5) == 0 {
					res.Err = &FetchError{Filter: req.Filter, Cause: errors.New("boom")}
				} else {
					res.Items = subset(rng, req.Filter, rng.IntN(2) == 0)
				}
				before := s.Options()
				applied := s.ApplyFetch(res)
				trace = append(trace, fmt.Sprintf("apply(%d)", req.Seq))

				if applied != (req.Seq == latest()) {
					t.Fatalf("seq %d applied=%v with latest %d\nafter: %s", req.Seq, applied, latest(), strings.Join(trace, " "))
				}
				if !applied || res.Err != nil {
					require.Equal(t, before, s.Options(), "stale or failed fetch changed the options")
				}
			} else {
				name, _ := walkStep(rng, s)
				trace = append(trace, name)
				if s.Status() == StatusFiltering && (len(pending) == 0 || pending[len(pending)-1].Seq != s.Seq()) {
					pending = append(pending, &FetchRequest{Seq: s.Seq(), Filter: s.Filter()})
				}
			}
			checkInvariants(t, s, trace)
		}
	}
}

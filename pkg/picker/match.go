package picker

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Matcher decides whether an option is kept for a non-empty filter text.
// The Store applies it to static option lists only; sources filter themselves.
type Matcher[V comparable] func(o Option[V], filter string) bool

// ContainsFold matches options whose label or stringified value contains the
// filter, ignoring case.
func ContainsFold[V comparable](o Option[V], filter string) bool {
	f := strings.ToLower(filter)
	if strings.Contains(strings.ToLower(o.Label()), f) {
		return true
	}
	return strings.Contains(strings.ToLower(fmt.Sprint(o.Value)), f)
}

// Contains is the case-sensitive variant of ContainsFold.
func Contains[V comparable](o Option[V], filter string) bool {
	return strings.Contains(o.Label(), filter) || strings.Contains(fmt.Sprint(o.Value), filter)
}

// FuzzyMatch matches options whose label contains the filter characters in
// order, as fzf-style pickers do.
func FuzzyMatch[V comparable](o Option[V], filter string) bool {
	return len(fuzzy.Find(filter, []string{o.Label()})) > 0
}

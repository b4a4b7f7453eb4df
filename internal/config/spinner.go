package config

import (
	"slices"

	"github.com/charmbracelet/bubbles/spinner"
)

var spinners = map[string]spinner.Spinner{
	"line":      spinner.Line,
	"dot":       spinner.Dot,
	"minidot":   spinner.MiniDot,
	"jump":      spinner.Jump,
	"pulse":     spinner.Pulse,
	"points":    spinner.Points,
	"globe":     spinner.Globe,
	"moon":      spinner.Moon,
	"monkey":    spinner.Monkey,
	"meter":     spinner.Meter,
	"hamburger": spinner.Hamburger,
	"ellipsis":  spinner.Ellipsis,
}

// SpinnerByName returns the loading spinner with the given name. An empty
// name selects the default dot spinner.
func SpinnerByName(name string) (spinner.Spinner, bool) {
	if name == "" {
		return spinner.Dot, true
	}
	sp, ok := spinners[name]
	return sp, ok
}

// SpinnerNames lists the accepted spinner names, sorted.
func SpinnerNames() []string {
	names := make([]string, 0, len(spinners))
	for name := range spinners {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

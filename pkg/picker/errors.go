package picker

import (
	"errors"
	"fmt"
)

// ErrCancelled is returned by Run when the user dismisses the prompt.
var ErrCancelled = errors.New("picker: cancelled")

// FetchError reports a failed option fetch. The prompt keeps the previously
// loaded options and shows the cause.
type FetchError struct {
	Filter string
	Cause  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch options (filter %q): %v", e.Filter, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Message returns the text shown to the user.
func (e *FetchError) Message() string {
	if e.Cause == nil {
		return "failed to load options"
	}
	return e.Cause.Error()
}

// ConfigurationError reports a configuration value that could not be
// applied. It is never fatal: the prompt starts without the offending value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("picker: invalid %s: %s", e.Field, e.Reason)
}

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/runger/selectpro/internal/redact"
	"github.com/runger/selectpro/pkg/picker"
)

// DefaultLimit caps the number of entries returned per search.
const DefaultLimit = 500

// Source searches history entries. Each Fetch scans the entries newest
// first and returns at most Limit matches, so filtering happens in the
// source rather than in the picker.
type Source struct {
	entries []Entry
	limit   int
	match   picker.Matcher[string]
	now     func() time.Time

	redactor        *redact.Redactor
	markDestructive bool
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithRedactor masks secrets in the displayed label. The chosen value is
// always the command as written.
func WithRedactor(r *redact.Redactor) SourceOption {
	return func(s *Source) { s.redactor = r }
}

// WithDestructiveMarks appends a warning to the description of commands
// that destroy data.
func WithDestructiveMarks() SourceOption {
	return func(s *Source) { s.markDestructive = true }
}

// Compile-time check that Source implements picker.Source.
var _ picker.Source[string] = (*Source)(nil)

// NewSource builds a source over entries, which must be newest first (see
// NewestFirst). A nil matcher matches case-insensitively.
func NewSource(entries []Entry, limit int, match picker.Matcher[string], opts ...SourceOption) *Source {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if match == nil {
		match = picker.ContainsFold[string]
	}
	s := &Source{entries: entries, limit: limit, match: match, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Len returns the number of searchable entries.
func (s *Source) Len() int {
	return len(s.entries)
}

// Fetch returns the newest entries matching filter.
func (s *Source) Fetch(ctx context.Context, filter string) ([]picker.Item[string], error) {
	now := s.now()
	var items []picker.Item[string]
	for i, e := range s.entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		opt := picker.Option[string]{
			Value: e.Command,
			Name:  s.label(e.Command),
		}
		if filter != "" && !s.match(opt, filter) {
			continue
		}
		opt.Description = s.describe(now, e)
		items = append(items, picker.Opt(opt))
		if len(items) >= s.limit {
			break
		}
	}
	return items, nil
}

func (s *Source) label(command string) string {
	label := picker.PrettyEscapeLiterals(picker.Sanitize(command))
	if s.redactor != nil {
		label = s.redactor.Redact(label)
	}
	return label
}

func (s *Source) describe(now time.Time, e Entry) string {
	var desc string
	if !e.Timestamp.IsZero() {
		desc = Age(now, e.Timestamp)
	}
	if !s.markDestructive {
		return desc
	}
	if name, ok := redact.Destructive(e.Command); ok {
		if desc != "" {
			desc += " · "
		}
		desc += "destructive: " + name
	}
	return desc
}

// Age formats how long ago t was, relative to now.
func Age(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d/(24*time.Hour)))
	default:
		return t.Format("2006-01-02")
	}
}

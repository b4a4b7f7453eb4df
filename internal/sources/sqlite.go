package sources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/runger/selectpro/pkg/picker"
)

// SQLite query errors.
var (
	ErrTooManyParams = errors.New("query may contain at most one '?' placeholder")
	ErrNoColumns     = errors.New("query must return between 1 and 4 columns")
)

// SQLSource filters options with an SQL query. A single '?' in the query
// is bound to "%filter%", so a typical query reads:
//
//	SELECT id, title, summary FROM notes WHERE title LIKE ? ORDER BY updated DESC
//
// Result columns are value[, name[, description[, disabled]]]. LIKE
// wildcards typed into the filter are passed through.
type SQLSource struct {
	db    *sql.DB
	query string
	bind  bool
	log   *slog.Logger
}

// Compile-time check that SQLSource implements picker.Source.
var _ picker.Source[string] = (*SQLSource)(nil)

// OpenSQLite opens the database at path read-only.
func OpenSQLite(path, query string, logger *slog.Logger) (*SQLSource, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc.org/sqlite uses _pragma=name(value) syntax
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	src, err := NewSQLSource(db, query, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return src, nil
}

// NewSQLSource wraps an open database. The caller keeps ownership of db
// unless it was opened by OpenSQLite.
func NewSQLSource(db *sql.DB, query string, logger *slog.Logger) (*SQLSource, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query is required")
	}
	n := countParams(query)
	if n > 1 {
		return nil, ErrTooManyParams
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLSource{db: db, query: query, bind: n == 1, log: logger}, nil
}

// countParams counts '?' placeholders outside quoted strings, quoted
// identifiers and comments.
func countParams(query string) int {
	n := 0
	for i := 0; i < len(query); i++ {
		switch c := query[i]; c {
		case '?':
			n++
		case '\'', '"', '`':
			end := strings.IndexByte(query[i+1:], c)
			if end < 0 {
				return n
			}
			i += end + 1
		case '[':
			end := strings.IndexByte(query[i+1:], ']')
			if end < 0 {
				return n
			}
			i += end + 1
		case '-':
			if strings.HasPrefix(query[i:], "--") {
				end := strings.IndexByte(query[i:], '\n')
				if end < 0 {
					return n
				}
				i += end
			}
		case '/':
			if strings.HasPrefix(query[i:], "/*") {
				end := strings.Index(query[i+2:], "*/")
				if end < 0 {
					return n
				}
				i += end + 3
			}
		}
	}
	return n
}

// Close closes the database connection.
func (s *SQLSource) Close() error {
	return s.db.Close()
}

// Fetch runs the query for a filter.
func (s *SQLSource) Fetch(ctx context.Context, filter string) ([]picker.Item[string], error) {
	var args []any
	if s.bind {
		args = append(args, "%"+filter+"%")
	}

	rows, err := s.db.QueryContext(ctx, s.query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if len(cols) < 1 || len(cols) > 4 {
		return nil, ErrNoColumns
	}

	var items []picker.Item[string]
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if !vals[0].Valid {
			continue
		}
		items = append(items, picker.Opt(rowOption(vals)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	s.log.Debug("sqlite fetch", "filter", filter, "rows", len(items))
	return items, nil
}

func rowOption(vals []sql.NullString) picker.Option[string] {
	opt := picker.Option[string]{Value: vals[0].String}
	if len(vals) > 1 {
		opt.Name = picker.Sanitize(vals[1].String)
	}
	if len(vals) > 2 {
		opt.Description = picker.Sanitize(vals[2].String)
	}
	if len(vals) > 3 {
		opt.Disabled, opt.DisabledReason = disabledText(vals[3].String)
	}
	return opt
}

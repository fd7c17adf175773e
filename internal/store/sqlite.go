package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/holiday"
	"github.com/javiermolinar/almanac/internal/schedule"
	"github.com/javiermolinar/almanac/internal/timespan"
)

// SQLite stores a schedule in a SQLite database.
type SQLite struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// NewSQLite opens the database at path, creating its directory, and runs
// migrations.
func NewSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, path: path, logger: logger}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Path returns the database file.
func (s *SQLite) Path() string { return s.path }

// Save replaces the stored schedule with a snapshot of c.
func (s *SQLite) Save(ctx context.Context, c *schedule.Container) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM date_events`); err != nil {
		return fmt.Errorf("clearing date events: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM repeat_events`); err != nil {
		return fmt.Errorf("clearing repeat events: %w", err)
	}

	dateStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO date_events (position, name, event_date, start_time, end_time)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = dateStmt.Close() }()

	for i, e := range c.DateEvents() {
		if _, err := dateStmt.ExecContext(ctx,
			i,
			e.Name(),
			e.Date().Format(dateutil.DateLayout),
			e.Start().String(),
			e.End().String(),
		); err != nil {
			return fmt.Errorf("inserting date event %q: %w", e.Name(), err)
		}
	}

	repeatStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO repeat_events (position, name, unit, day_of, start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = repeatStmt.Close() }()

	for i, e := range c.RepeatEvents() {
		if _, err := repeatStmt.ExecContext(ctx,
			i,
			e.Name(),
			e.Unit().String(),
			e.DayOf(),
			e.Start().String(),
			e.End().String(),
		); err != nil {
			return fmt.Errorf("inserting repeat event %q: %w", e.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("schedule saved",
		zap.Int("date_events", c.DateLen()),
		zap.Int("repeat_events", c.RepeatLen()),
	)
	return nil
}

// Load reads the stored schedule into a new container.
func (s *SQLite) Load(ctx context.Context) (*schedule.Container, error) {
	dates, err := s.loadDateEvents(ctx)
	if err != nil {
		return nil, err
	}
	repeats, err := s.loadRepeatEvents(ctx)
	if err != nil {
		return nil, err
	}

	c := schedule.New()
	c.SetDateEvents(dates)
	c.SetRepeatEvents(repeats)
	return c, nil
}

func (s *SQLite) loadDateEvents(ctx context.Context) ([]*event.DateEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, event_date, start_time, end_time
		FROM date_events
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying date events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*event.DateEvent
	for rows.Next() {
		var name, date, start, end string
		if err := rows.Scan(&name, &date, &start, &end); err != nil {
			return nil, fmt.Errorf("scanning date event: %w", err)
		}
		d, err := parseDate(date)
		if err != nil {
			return nil, fmt.Errorf("parsing date of %q: %w", name, err)
		}
		from, to, err := parseSpan(start, end)
		if err != nil {
			return nil, fmt.Errorf("parsing times of %q: %w", name, err)
		}
		events = append(events, event.NewDateEvent(name, d, from, to))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating date events: %w", err)
	}
	return events, nil
}

func (s *SQLite) loadRepeatEvents(ctx context.Context) ([]*event.RepeatEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, unit, day_of, start_time, end_time
		FROM repeat_events
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying repeat events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []*event.RepeatEvent
	for rows.Next() {
		var (
			name, unit, start, end string
			dayOf                  int
		)
		if err := rows.Scan(&name, &unit, &dayOf, &start, &end); err != nil {
			return nil, fmt.Errorf("scanning repeat event: %w", err)
		}
		e, err := decodeRepeat(name, unit, dayOf, start, end)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating repeat events: %w", err)
	}
	return events, nil
}

// LoadHolidays returns the cached holidays of year.
func (s *SQLite) LoadHolidays(ctx context.Context, year int) ([]holiday.Holiday, bool, error) {
	var cached int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM holiday_years WHERE year = ?`, year,
	).Scan(&cached); err != nil {
		return nil, false, fmt.Errorf("querying holiday year %d: %w", year, err)
	}
	if cached == 0 {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, holiday_date
		FROM holidays
		WHERE year = ?
		ORDER BY position
	`, year)
	if err != nil {
		return nil, false, fmt.Errorf("querying holidays: %w", err)
	}
	defer func() { _ = rows.Close() }()

	holidays := []holiday.Holiday{}
	for rows.Next() {
		var name, date string
		if err := rows.Scan(&name, &date); err != nil {
			return nil, false, fmt.Errorf("scanning holiday: %w", err)
		}
		d, err := parseDate(date)
		if err != nil {
			return nil, false, fmt.Errorf("parsing date of holiday %q: %w", name, err)
		}
		holidays = append(holidays, holiday.Holiday{Name: name, Date: d})
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating holidays: %w", err)
	}
	return holidays, true, nil
}

// SaveHolidays replaces the cached holidays of year.
func (s *SQLite) SaveHolidays(ctx context.Context, year int, holidays []holiday.Holiday) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM holidays WHERE year = ?`, year); err != nil {
		return fmt.Errorf("clearing holidays: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO holiday_years (year, fetched_at) VALUES (?, ?)
		ON CONFLICT(year) DO UPDATE SET fetched_at = excluded.fetched_at
	`, year, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("recording holiday year: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO holidays (year, position, name, holiday_date) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, h := range holidays {
		if _, err := stmt.ExecContext(ctx, year, i, h.Name, h.Date.Format(dateutil.DateLayout)); err != nil {
			return fmt.Errorf("inserting holiday %q: %w", h.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// parseDate parses a stored date. SQLite may hand back a DATE value as
// "2006-01-02T00:00:00Z"; only the date part is kept.
func parseDate(s string) (time.Time, error) {
	if len(s) > len(dateutil.DateLayout) && s[len(dateutil.DateLayout)] == 'T' {
		s = s[:len(dateutil.DateLayout)]
	}
	t, err := time.Parse(dateutil.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
	}
	return t, nil
}

func parseSpan(start, end string) (timespan.Clock, timespan.Clock, error) {
	from, err := timespan.Parse(start)
	if err != nil {
		return 0, 0, fmt.Errorf("start %q: %w", start, err)
	}
	to, err := timespan.Parse(end)
	if err != nil {
		return 0, 0, fmt.Errorf("end %q: %w", end, err)
	}
	return from, to, nil
}

func decodeRepeat(name, unit string, dayOf int, start, end string) (*event.RepeatEvent, error) {
	u, err := event.ParseUnit(unit)
	if err != nil {
		return nil, fmt.Errorf("repeat event %q: %w", name, err)
	}
	from, to, err := parseSpan(start, end)
	if err != nil {
		return nil, fmt.Errorf("parsing times of %q: %w", name, err)
	}
	e, err := event.NewRepeatEvent(name, event.RepeatKey{Unit: u, DayOf: dayOf}, from, to)
	if err != nil {
		return nil, fmt.Errorf("repeat event %q: %w", name, err)
	}
	return e, nil
}

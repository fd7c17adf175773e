package store

import "fmt"

// migrate runs database migrations.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS date_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			position   INTEGER NOT NULL,
			name       TEXT NOT NULL,
			event_date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time   TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_date_events_date ON date_events(event_date);

		CREATE TABLE IF NOT EXISTS repeat_events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			position   INTEGER NOT NULL,
			name       TEXT NOT NULL,
			unit       TEXT NOT NULL CHECK(unit IN ('week', 'month')),
			day_of     INTEGER NOT NULL CHECK(day_of BETWEEN 1 AND 31),
			start_time TEXT NOT NULL,
			end_time   TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS holiday_years (
			year       INTEGER PRIMARY KEY,
			fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS holidays (
			year         INTEGER NOT NULL REFERENCES holiday_years(year) ON DELETE CASCADE,
			position     INTEGER NOT NULL,
			name         TEXT NOT NULL,
			holiday_date TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_holidays_year ON holidays(year);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}

	return nil
}

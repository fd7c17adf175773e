package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/javiermolinar/almanac/internal/config"
	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/holiday"
	"github.com/javiermolinar/almanac/internal/schedule"
	"github.com/javiermolinar/almanac/internal/timespan"
)

type storeFactory struct {
	name string
	open func(t *testing.T) Store
}

func factories() []storeFactory {
	return []storeFactory{
		{name: "sqlite", open: func(t *testing.T) Store { return newTestSQLite(t) }},
		{name: "yaml", open: func(t *testing.T) Store { return newTestYAML(t) }},
	}
}

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "data", "almanac.db"), nil)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestYAML(t *testing.T) *YAMLFile {
	t.Helper()
	f, err := NewYAMLFile(filepath.Join(t.TempDir(), "data", "almanac.yaml"), nil)
	if err != nil {
		t.Fatalf("NewYAMLFile failed: %v", err)
	}
	return f
}

func sampleSchedule(t *testing.T) *schedule.Container {
	t.Helper()
	c := schedule.New()
	june3 := dateutil.Date(2025, 6, 3)
	c.AddDateEvent(event.NewDateEvent("Dentist", june3, timespan.MustParse("10:00"), timespan.MustParse("11:00")))
	c.AddDateEvent(event.NewDateEvent("Standup", june3, timespan.MustParse("10:00"), timespan.MustParse("10:15")))
	c.AddDateEvent(event.NewFullDayEvent("Trip", dateutil.Date(2025, 6, 1)))

	gym, err := event.NewWeeklyEvent("Gym", 2, timespan.MustParse("18:00"), timespan.MustParse("19:00"))
	if err != nil {
		t.Fatalf("NewWeeklyEvent: %v", err)
	}
	rent, err := event.NewMonthlyEvent("Rent", 31, timespan.Midnight, timespan.EndOfDay)
	if err != nil {
		t.Fatalf("NewMonthlyEvent: %v", err)
	}
	c.AddRepeatEvent(gym)
	c.AddRepeatEvent(rent)
	return c
}

func dateNames(c *schedule.Container) []string {
	out := []string{}
	for _, e := range c.DateEvents() {
		out = append(out, e.Name())
	}
	return out
}

func repeatNames(c *schedule.Container) []string {
	out := []string{}
	for _, e := range c.RepeatEvents() {
		out = append(out, e.Name())
	}
	return out
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		driver  string
		want    string
		wantErr error
	}{
		{driver: "sqlite", want: "*store.SQLite"},
		{driver: "", want: "*store.SQLite"},
		{driver: "YAML", want: "*store.YAMLFile"},
		{driver: "postgres", wantErr: ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s, err := Open(config.StorageConfig{Driver: tt.driver, Path: filepath.Join(dir, tt.driver+"store")}, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Open() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			defer func() { _ = s.Close() }()
			if got := reflect.TypeOf(s).String(); got != tt.want {
				t.Errorf("Open() type = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			s := f.open(t)
			c, err := s.Load(context.Background())
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if c.Len() != 0 {
				t.Errorf("Len() = %d, want 0", c.Len())
			}
		})
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			s := f.open(t)
			ctx := context.Background()
			want := sampleSchedule(t)

			if err := s.Save(ctx, want); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}

			if g, w := dateNames(got), dateNames(want); !reflect.DeepEqual(g, w) {
				t.Errorf("date events = %v, want %v", g, w)
			}
			if g, w := repeatNames(got), repeatNames(want); !reflect.DeepEqual(g, w) {
				t.Errorf("repeat events = %v, want %v", g, w)
			}
			for i, e := range want.DateEvents() {
				if !e.Equal(got.DateEvent(i)) {
					t.Errorf("date event %d = %+v, want %+v", i, got.DateEvent(i), e)
				}
			}
			for i, e := range want.RepeatEvents() {
				if !e.Equal(got.RepeatEvent(i)) {
					t.Errorf("repeat event %d = %+v, want %+v", i, got.RepeatEvent(i), e)
				}
			}

			// The index must be rebuilt: Tuesday 2025-06-03 has Gym.
			repeats := got.RepeatEventsForDate(dateutil.Date(2025, 6, 3))
			if len(repeats) != 1 || repeats[0].Name() != "Gym" {
				t.Errorf("RepeatEventsForDate = %v, want [Gym]", repeatNamesOf(repeats))
			}
			if r := got.RepeatEventsBetween(dateutil.Date(2025, 6, 3), dateutil.Date(2025, 6, 4)); len(r) != 1 {
				t.Errorf("RepeatEventsBetween = %v, want [Gym]", repeatNamesOf(r))
			}
		})
	}
}

func repeatNamesOf(events []*event.RepeatEvent) []string {
	out := []string{}
	for _, e := range events {
		out = append(out, e.Name())
	}
	return out
}

func TestSave_ReplacesSnapshot(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			s := f.open(t)
			ctx := context.Background()

			c := sampleSchedule(t)
			if err := s.Save(ctx, c); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			c.RemoveDateEvent(c.DateEvent(0))
			c.RemoveRepeatEvent(c.RepeatEvent(0))
			if err := s.Save(ctx, c); err != nil {
				t.Fatalf("second Save failed: %v", err)
			}

			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got.DateLen() != 2 || got.RepeatLen() != 1 {
				t.Errorf("loaded %d date and %d repeat events, want 2 and 1", got.DateLen(), got.RepeatLen())
			}
		})
	}
}

func TestHolidayCache(t *testing.T) {
	march13 := dateutil.Date(2003, 3, 13)
	holidays := []holiday.Holiday{
		{Name: "Saint Patrick", Date: dateutil.Date(2003, 3, 17)},
		{Name: "A", Date: march13},
		{Name: "B", Date: march13},
	}

	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			s := f.open(t)
			ctx := context.Background()

			if _, ok, err := s.LoadHolidays(ctx, 2003); err != nil || ok {
				t.Fatalf("LoadHolidays before save = ok %v, err %v; want miss", ok, err)
			}

			if err := s.SaveHolidays(ctx, 2003, holidays); err != nil {
				t.Fatalf("SaveHolidays failed: %v", err)
			}
			got, ok, err := s.LoadHolidays(ctx, 2003)
			if err != nil || !ok {
				t.Fatalf("LoadHolidays = ok %v, err %v", ok, err)
			}
			if !reflect.DeepEqual(got, holidays) {
				t.Errorf("LoadHolidays = %v, want %v", got, holidays)
			}

			// An empty year is still a cached year.
			if err := s.SaveHolidays(ctx, 2004, nil); err != nil {
				t.Fatalf("SaveHolidays(empty) failed: %v", err)
			}
			got, ok, err = s.LoadHolidays(ctx, 2004)
			if err != nil || !ok || len(got) != 0 {
				t.Errorf("LoadHolidays(2004) = %v, ok %v, err %v; want empty hit", got, ok, err)
			}

			// Saving again replaces the year.
			if err := s.SaveHolidays(ctx, 2003, holidays[:1]); err != nil {
				t.Fatalf("SaveHolidays(replace) failed: %v", err)
			}
			got, _, _ = s.LoadHolidays(ctx, 2003)
			if len(got) != 1 {
				t.Errorf("after replace got %d holidays, want 1", len(got))
			}
		})
	}
}

func TestHolidayCache_SurvivesScheduleSave(t *testing.T) {
	for _, f := range factories() {
		t.Run(f.name, func(t *testing.T) {
			s := f.open(t)
			ctx := context.Background()

			h := []holiday.Holiday{{Name: "New Year", Date: dateutil.Date(2025, 1, 1)}}
			if err := s.SaveHolidays(ctx, 2025, h); err != nil {
				t.Fatalf("SaveHolidays failed: %v", err)
			}
			if err := s.Save(ctx, sampleSchedule(t)); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			got, ok, err := s.LoadHolidays(ctx, 2025)
			if err != nil || !ok || len(got) != 1 {
				t.Errorf("LoadHolidays = %v, ok %v, err %v", got, ok, err)
			}
		})
	}
}

func TestCalendarUsesStoreAsCache(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()
	want := []holiday.Holiday{{Name: "Labour Day", Date: dateutil.Date(2025, 5, 1)}}
	if err := s.SaveHolidays(ctx, 2025, want); err != nil {
		t.Fatalf("SaveHolidays failed: %v", err)
	}

	cal := holiday.NewCalendar(nil, s, false, nil)
	got, err := cal.Holidays(ctx, 2025, true)
	if err != nil {
		t.Fatalf("Holidays failed: %v", err)
	}
	if len(got) != 1 || got[0].Name() != "Labour Day" {
		t.Errorf("Holidays = %v, want [Labour Day]", got)
	}
}

func TestYAMLFile_Permissions(t *testing.T) {
	f := newTestYAML(t)
	if err := f.Save(context.Background(), sampleSchedule(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	info, err := os.Stat(f.Path())
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("permissions = %o, want 600", perm)
	}

	entries, err := os.ReadDir(filepath.Dir(f.Path()))
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the data file", len(entries))
	}
}

func TestYAMLFile_InvalidDocument(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "syntax", content: "date_events: [unclosed"},
		{name: "bad date", content: "date_events:\n  - name: x\n    date: 2025/06/01\n    start: \"09:00\"\n    end: \"10:00\"\n"},
		{name: "bad unit", content: "repeat_events:\n  - name: x\n    unit: year\n    day_of: 1\n    start: \"09:00\"\n    end: \"10:00\"\n"},
		{name: "bad weekday", content: "repeat_events:\n  - name: x\n    unit: week\n    day_of: 9\n    start: \"09:00\"\n    end: \"10:00\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "almanac.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			f, err := NewYAMLFile(path, nil)
			if err != nil {
				t.Fatalf("NewYAMLFile failed: %v", err)
			}
			if _, err := f.Load(context.Background()); err == nil {
				t.Error("Load expected error")
			}
		})
	}
}

func TestNewYAMLFile_EmptyPath(t *testing.T) {
	if _, err := NewYAMLFile("", nil); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestSQLite_BadStoredTime(t *testing.T) {
	s := newTestSQLite(t)
	_, err := s.db.Exec(`INSERT INTO date_events (position, name, event_date, start_time, end_time) VALUES (0, 'x', '2025-06-01', '9am', '10:00')`)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if _, err := s.Load(context.Background()); err == nil {
		t.Error("Load expected error for malformed time")
	}
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "almanac.db")
	ctx := context.Background()

	s, err := NewSQLite(path, nil)
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	if err := s.Save(ctx, sampleSchedule(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	s, err = NewSQLite(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = s.Close() }()
	c, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "2025-06-01", want: "2025-06-01"},
		{input: "2025-06-01T00:00:00Z", want: "2025-06-01"},
		{input: "01/06/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseDate(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDate(%q) error = %v", tt.input, err)
			}
			if got.Format(dateutil.DateLayout) != tt.want || got.Location() != dateutil.Date(2025, 1, 1).Location() {
				t.Errorf("parseDate(%q) = %v, want %s UTC", tt.input, got, tt.want)
			}
		})
	}
}

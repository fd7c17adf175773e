package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/almanac/internal/config"
	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/holiday"
	"github.com/javiermolinar/almanac/internal/logging"
	"github.com/javiermolinar/almanac/internal/store"
)

func TestMain(m *testing.M) {
	DisableColor()
	os.Exit(m.Run())
}

type testEnv struct {
	cfg   *config.Config
	store *store.YAMLFile
	cal   *holiday.Calendar
	now   time.Time
}

// newTestEnv returns an environment whose clock reads Sunday 2025-06-01 10:00.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Storage = config.StorageConfig{Driver: store.DriverYAML, Path: filepath.Join(dir, "almanac.yaml")}
	cfg.Log.Path = filepath.Join(dir, "almanac.log")
	cfg.Display.ConfirmToDelete = false

	st, err := store.NewYAMLFile(cfg.Storage.Path, logging.Nop())
	if err != nil {
		t.Fatalf("NewYAMLFile failed: %v", err)
	}

	return &testEnv{
		cfg:   cfg,
		store: st,
		cal:   holiday.NewCalendar(nil, st, false, logging.Nop()),
		now:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

// run executes one command on a fresh App sharing the environment's store.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	app := NewApp(e.cfg,
		WithStore(e.store),
		WithCalendar(e.cal),
		WithLogger(logging.Nop()),
		WithClock(func() time.Time { return e.now }),
	)
	defer func() { _ = app.Close() }()

	var out bytes.Buffer
	app.Root().SetOut(&out)
	app.Root().SetErr(&out)
	app.Root().SetIn(strings.NewReader(stdin))
	app.SetArgs(args)
	err := app.Root().Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, "", args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out := newTestEnv(t).mustRun(t, "version")
	assertContains(t, out, "almanac dev")
}

func TestAdd(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "add", "Dentist", "--date=2025-06-03", "--start=10:00", "--end=11:00")
	assertContains(t, out, "Added 2025/06/03 10:00~11:00: Dentist")

	out = env.mustRun(t, "add", "Trip", "--date=tomorrow")
	assertContains(t, out, "Added 2025/06/02: Trip")

	out = env.mustRun(t, "add", "Call", "--date=2025-06-03", "--start=23:30")
	assertContains(t, out, "23:30~23:59")

	c, err := env.store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.DateLen() != 3 {
		t.Errorf("DateLen() = %d, want 3", c.DateLen())
	}
}

func TestAdd_WarnsOnConflict(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Dentist", "--date=2025-06-03", "--start=10:00", "--end=11:00")

	out := env.mustRun(t, "add", "Standup", "--date=2025-06-03", "--start=10:30", "--end=10:45")
	assertContains(t, out, "Warning: overlaps 2025/06/03 10:00~11:00: Dentist")

	// Touching endpoints overlap.
	out = env.mustRun(t, "add", "Lunch", "--date=2025-06-03", "--start=11:00", "--end=12:00")
	assertContains(t, out, "Warning:")
}

func TestAdd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "blank name", args: []string{"add", "  "}, wantErr: event.ErrEmptyName},
		{name: "end without start", args: []string{"add", "x", "--end=10:00"}, wantErr: errEndWithoutStart},
		{name: "bad date", args: []string{"add", "x", "--date=someday"}, wantErr: dateutil.ErrInvalidDateFormat},
		{name: "bad weekday", args: []string{"add-weekly", "x", "--day=funday"}, wantErr: dateutil.ErrInvalidWeekday},
		{name: "bad month day", args: []string{"add-monthly", "x", "--day=32"}, wantErr: event.ErrInvalidDayOfMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestEnv(t).run(t, "", tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddRepeatAndList(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add-weekly", "Gym", "--day=tuesday", "--start=18:00")
	env.mustRun(t, "add-monthly", "Rent", "--day=1")
	env.mustRun(t, "add", "Dentist", "--date=2025-06-03", "--start=10:00", "--end=11:00")

	out := env.mustRun(t, "list", "--start=2025-06-03")
	assertContains(t, out, "Events 2025/06/03", "Dentist", "Recurring", "Gym")
	if strings.Contains(out, "Rent") {
		t.Errorf("Rent is on the 1st, not listed for the 3rd:\n%s", out)
	}

	out = env.mustRun(t, "list", "--start=2025-06-01", "--end=2025-06-30")
	assertContains(t, out, "Events 2025/06/01 - 2025/06/30", "Gym", "Rent")
}

func TestList_Empty(t *testing.T) {
	out := newTestEnv(t).mustRun(t, "list")
	assertContains(t, out, "No events found")
}

func TestList_EndBeforeStart(t *testing.T) {
	_, err := newTestEnv(t).run(t, "", "list", "--start=2025-06-10", "--end=2025-06-01")
	if !errors.Is(err, dateutil.ErrEndDateBeforeStart) {
		t.Errorf("error = %v, want ErrEndDateBeforeStart", err)
	}
}

func TestList_ShowsHolidays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if err := env.store.SaveHolidays(ctx, 2025, []holiday.Holiday{
		{Name: "Canada Day", Date: dateutil.Date(2025, 7, 1)},
	}); err != nil {
		t.Fatalf("SaveHolidays failed: %v", err)
	}

	out := env.mustRun(t, "list", "--start=2025-07-01")
	assertContains(t, out, "Holidays", "Canada Day")

	env.cfg.Holidays.ShowOnEvents = false
	out = env.mustRun(t, "list", "--start=2025-07-01")
	if strings.Contains(out, "Canada Day") {
		t.Errorf("holidays listed with show_on_events off:\n%s", out)
	}
}

// yearCounter is a holiday provider that records the years it is asked for.
type yearCounter struct {
	years []int
}

func (p *yearCounter) Holidays(_ context.Context, year int) ([]holiday.Holiday, error) {
	p.years = append(p.years, year)
	return []holiday.Holiday{{Name: "Canada Day", Date: dateutil.Date(year, 7, 1)}}, nil
}

func TestList_WideRangeBoundsHolidayFetches(t *testing.T) {
	env := newTestEnv(t)
	provider := &yearCounter{}
	env.cal = holiday.NewCalendar(provider, env.store, true, logging.Nop())

	out := env.mustRun(t, "list", "--start=0001-01-01", "--end=9999-12-31")
	assertContains(t, out, "Holidays", "2025/07/01")

	if len(provider.years) != 11 {
		t.Fatalf("fetched %d years, want 11: %v", len(provider.years), provider.years)
	}
	if first, last := provider.years[0], provider.years[len(provider.years)-1]; first != 2020 || last != 2030 {
		t.Errorf("fetched years %d..%d, want 2020..2030", first, last)
	}
}

func TestList_RelativeDates(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Dentist", "--date=2025-06-02", "--start=10:00")

	out := env.mustRun(t, "list", "--start=tomorrow")
	assertContains(t, out, "Dentist")

	_, err := env.run(t, "", "list", "--end=yesterday")
	if !errors.Is(err, dateutil.ErrEndDateBeforeStart) {
		t.Errorf("error = %v, want ErrEndDateBeforeStart", err)
	}
}

func TestRemove(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Display.ConfirmToDelete = true
	env.mustRun(t, "add", "Dentist", "--date=2025-06-03", "--start=10:00")
	env.mustRun(t, "add-weekly", "Gym", "--day=tue", "--start=18:00")

	out, err := env.run(t, "n\n", "remove", "Dentist", "--date=2025-06-03")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	assertContains(t, out, "Remove 2025/06/03 10:00~11:00: Dentist? [y/N]", "Cancelled.")

	out, err = env.run(t, "y\n", "remove", "Dentist", "--date=2025-06-03")
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	assertContains(t, out, "Removed")

	out = env.mustRun(t, "remove", "Gym", "--weekday=tuesday", "--yes")
	assertContains(t, out, "Removed Tuesday 18:00~19:00: Gym")

	c, err := env.store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after removals, want 0", c.Len())
	}
}

func TestRemove_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add-monthly", "Rent", "--day=1")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "no selector", args: []string{"remove", "Rent"}, wantErr: errSelector},
		{name: "two selectors", args: []string{"remove", "Rent", "--monthday=1", "--weekday=mon"}, wantErr: errSelector},
		{name: "wrong day", args: []string{"remove", "Rent", "--monthday=2"}, wantErr: ErrEventNotFound},
		{name: "wrong name", args: []string{"remove", "Mortgage", "--monthday=1"}, wantErr: ErrEventNotFound},
		{name: "not on date", args: []string{"remove", "Rent", "--date=2025-06-01"}, wantErr: ErrEventNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, "", tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRename(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add-weekly", "Gym", "--day=tuesday", "--start=18:00")

	out := env.mustRun(t, "rename", "Gym", "Climbing", "--weekday=tuesday")
	assertContains(t, out, `Renamed "Gym" to "Climbing"`)

	out = env.mustRun(t, "find", "climb")
	assertContains(t, out, "Climbing")

	if _, err := env.run(t, "", "rename", "Climbing", " ", "--weekday=tuesday"); !errors.Is(err, event.ErrEmptyName) {
		t.Errorf("rename to blank: error = %v, want ErrEmptyName", err)
	}
}

func TestFind(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Dentist appointment", "--date=2025-06-03")
	env.mustRun(t, "add-monthly", "Pay dentist", "--day=5")

	out := env.mustRun(t, "find", "DENTIST")
	assertContains(t, out, "Dentist appointment", "Pay dentist")

	out = env.mustRun(t, "find", "gym")
	assertContains(t, out, `No events match "gym".`)
}

func TestConflicts(t *testing.T) {
	env := newTestEnv(t)
	out := env.mustRun(t, "conflicts")
	assertContains(t, out, "No conflicts.")

	env.mustRun(t, "add", "Workshop", "--date=2025-06-03", "--start=09:00", "--end=12:00")
	env.mustRun(t, "add", "Call", "--date=2025-06-03", "--start=09:30", "--end=09:45")
	env.mustRun(t, "add", "Review", "--date=2025-06-03", "--start=11:00", "--end=11:30")

	out = env.mustRun(t, "conflicts")
	assertContains(t, out,
		"2025/06/03 09:00~12:00: Workshop  overlaps  09:30~09:45: Call",
		"2025/06/03 09:00~12:00: Workshop  overlaps  11:00~11:30: Review",
	)
}

func TestMonth(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add-weekly", "Gym", "--day=tuesday")
	if err := env.store.SaveHolidays(context.Background(), 2025, []holiday.Holiday{
		{Name: "Some Holiday", Date: dateutil.Date(2025, 6, 24)},
		{Name: "Other Holiday", Date: dateutil.Date(2025, 6, 5)},
	}); err != nil {
		t.Fatalf("SaveHolidays failed: %v", err)
	}

	out := env.mustRun(t, "month", "--month=2025-06")
	assertContains(t, out, "June 2025", "Sun Mon Tue Wed Thu Fri Sat", "  3*", "  5!", " 24+")

	env.cfg.Display.ShowRepeats = false
	out = env.mustRun(t, "month", "--month=2025-06")
	if strings.Contains(out, "  3*") {
		t.Errorf("recurring events marked with show_repeats off:\n%s", out)
	}
}

func TestMonth_BadFormat(t *testing.T) {
	_, err := newTestEnv(t).run(t, "", "month", "--month=June")
	if !errors.Is(err, dateutil.ErrInvalidMonthFormat) {
		t.Errorf("error = %v, want ErrInvalidMonthFormat", err)
	}
}

func TestHolidays(t *testing.T) {
	env := newTestEnv(t)
	if err := env.store.SaveHolidays(context.Background(), 2025, []holiday.Holiday{
		{Name: "New Year", Date: dateutil.Date(2025, 1, 1)},
		{Name: "Canada Day", Date: dateutil.Date(2025, 7, 1)},
		{Name: "Christmas", Date: dateutil.Date(2025, 12, 25)},
	}); err != nil {
		t.Fatalf("SaveHolidays failed: %v", err)
	}

	out := env.mustRun(t, "holidays")
	assertContains(t, out, "Holidays 2025", "New Year", "Canada Day", "Christmas")

	out = env.mustRun(t, "holidays", "--next=1")
	assertContains(t, out, "Canada Day")
	if strings.Contains(out, "New Year") {
		t.Errorf("--next listed a past holiday:\n%s", out)
	}

	out = env.mustRun(t, "holidays", "--year=1999")
	assertContains(t, out, "No holidays for 1999.")
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "add", "Dentist", "--date=2025-06-03", "--start=10:00")
	env.mustRun(t, "add-weekly", "Gym", "--day=tuesday", "--start=18:00")

	path := filepath.Join(t.TempDir(), "out.ics")
	out := env.mustRun(t, "export", path)
	assertContains(t, out, "Exported 2 events")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	assertContains(t, string(data), "BEGIN:VCALENDAR", "SUMMARY:Dentist", "FREQ=WEEKLY")

	out = env.mustRun(t, "export", "-")
	assertContains(t, out, "BEGIN:VCALENDAR")
}

func TestConfig_CreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	out, err := newTestEnv(t).run(t, "n\n", "config", "--path="+path)
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	assertContains(t, out, "Creating with default values", "[display]", "theme             = mocha")

	if _, err := os.Stat(path); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestConfig_Edit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	// Answers: edit, theme, confirm, dim, web, source, country, ics url,
	// driver, path.
	input := "y\nlatte\nfalse\n\n\n\nfr\n\nyaml\n\n"
	if _, err := newTestEnv(t).run(t, input, "config", "--path="+path); err != nil {
		t.Fatalf("config failed: %v", err)
	}

	cfg, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Display.Theme != "latte" || cfg.Display.ConfirmToDelete || cfg.Holidays.Country != "FR" || cfg.Storage.Driver != "yaml" {
		t.Errorf("saved config = %+v", cfg)
	}
}

func TestParseSpan(t *testing.T) {
	tests := []struct {
		start, end string
		want       string
		wantErr    bool
	}{
		{want: "00:00~23:59"},
		{start: "09:00", want: "09:00~10:00"},
		{start: "23:15", want: "23:15~23:59"},
		{start: "09:00", end: "09:30", want: "09:00~09:30"},
		{end: "09:30", wantErr: true},
		{start: "9am", wantErr: true},
		{start: "09:00", end: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end, func(t *testing.T) {
			from, to, err := parseSpan(tt.start, tt.end)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseSpan(%q, %q) expected error", tt.start, tt.end)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSpan error = %v", err)
			}
			if got := from.String() + "~" + to.String(); got != tt.want {
				t.Errorf("parseSpan = %s, want %s", got, tt.want)
			}
		})
	}
}

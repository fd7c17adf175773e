package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/holiday"
	"github.com/javiermolinar/almanac/internal/schedule"
)

// YAMLFile stores a schedule in a single human-editable YAML document.
// Every write replaces the file atomically.
type YAMLFile struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

type yamlDocument struct {
	DateEvents   []yamlDateEvent       `yaml:"date_events"`
	RepeatEvents []yamlRepeatEvent     `yaml:"repeat_events"`
	Holidays     map[int][]yamlHoliday `yaml:"holidays,omitempty"`
}

type yamlDateEvent struct {
	Name  string `yaml:"name"`
	Date  string `yaml:"date"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type yamlRepeatEvent struct {
	Name  string `yaml:"name"`
	Unit  string `yaml:"unit"`
	DayOf int    `yaml:"day_of"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type yamlHoliday struct {
	Name string `yaml:"name"`
	Date string `yaml:"date"`
}

// NewYAMLFile returns a store backed by the YAML file at path. The file is
// created on the first write.
func NewYAMLFile(path string, logger *zap.Logger) (*YAMLFile, error) {
	if path == "" {
		return nil, errors.New("yaml store path is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &YAMLFile{path: path, logger: logger}, nil
}

// Path returns the YAML file.
func (f *YAMLFile) Path() string { return f.path }

// Save replaces the stored schedule with a snapshot of c. Cached holidays
// are kept.
func (f *YAMLFile) Save(_ context.Context, c *schedule.Container) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}

	doc.DateEvents = make([]yamlDateEvent, 0, c.DateLen())
	for _, e := range c.DateEvents() {
		doc.DateEvents = append(doc.DateEvents, yamlDateEvent{
			Name:  e.Name(),
			Date:  e.Date().Format(dateutil.DateLayout),
			Start: e.Start().String(),
			End:   e.End().String(),
		})
	}
	doc.RepeatEvents = make([]yamlRepeatEvent, 0, c.RepeatLen())
	for _, e := range c.RepeatEvents() {
		doc.RepeatEvents = append(doc.RepeatEvents, yamlRepeatEvent{
			Name:  e.Name(),
			Unit:  e.Unit().String(),
			DayOf: e.DayOf(),
			Start: e.Start().String(),
			End:   e.End().String(),
		})
	}

	if err := f.write(doc); err != nil {
		return err
	}
	f.logger.Debug("schedule saved",
		zap.String("path", f.path),
		zap.Int("date_events", c.DateLen()),
		zap.Int("repeat_events", c.RepeatLen()),
	)
	return nil
}

// Load reads the stored schedule into a new container. A missing file
// yields an empty schedule.
func (f *YAMLFile) Load(_ context.Context) (*schedule.Container, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, err
	}

	dates := make([]*event.DateEvent, 0, len(doc.DateEvents))
	for _, d := range doc.DateEvents {
		date, err := parseDate(d.Date)
		if err != nil {
			return nil, fmt.Errorf("parsing date of %q: %w", d.Name, err)
		}
		from, to, err := parseSpan(d.Start, d.End)
		if err != nil {
			return nil, fmt.Errorf("parsing times of %q: %w", d.Name, err)
		}
		dates = append(dates, event.NewDateEvent(d.Name, date, from, to))
	}

	repeats := make([]*event.RepeatEvent, 0, len(doc.RepeatEvents))
	for _, r := range doc.RepeatEvents {
		e, err := decodeRepeat(r.Name, r.Unit, r.DayOf, r.Start, r.End)
		if err != nil {
			return nil, err
		}
		repeats = append(repeats, e)
	}

	c := schedule.New()
	c.SetDateEvents(dates)
	c.SetRepeatEvents(repeats)
	return c, nil
}

// LoadHolidays returns the cached holidays of year.
func (f *YAMLFile) LoadHolidays(_ context.Context, year int) ([]holiday.Holiday, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return nil, false, err
	}
	cached, ok := doc.Holidays[year]
	if !ok {
		return nil, false, nil
	}

	holidays := make([]holiday.Holiday, 0, len(cached))
	for _, h := range cached {
		d, err := parseDate(h.Date)
		if err != nil {
			return nil, false, fmt.Errorf("parsing date of holiday %q: %w", h.Name, err)
		}
		holidays = append(holidays, holiday.Holiday{Name: h.Name, Date: d})
	}
	return holidays, true, nil
}

// SaveHolidays replaces the cached holidays of year.
func (f *YAMLFile) SaveHolidays(_ context.Context, year int, holidays []holiday.Holiday) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	if doc.Holidays == nil {
		doc.Holidays = make(map[int][]yamlHoliday)
	}
	cached := make([]yamlHoliday, 0, len(holidays))
	for _, h := range holidays {
		cached = append(cached, yamlHoliday{Name: h.Name, Date: h.Date.Format(dateutil.DateLayout)})
	}
	doc.Holidays[year] = cached
	return f.write(doc)
}

// Close is a no-op; the file is not held open between calls.
func (f *YAMLFile) Close() error { return nil }

func (f *YAMLFile) read() (*yamlDocument, error) {
	doc := &yamlDocument{}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.path, err)
	}
	return doc, nil
}

// write replaces the file through a temp file in the same directory.
func (f *YAMLFile) write(doc *yamlDocument) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".almanac-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}

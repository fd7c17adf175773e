package holiday

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/schedule"
)

// Cache persists fetched holidays by year.
type Cache interface {
	// LoadHolidays returns the cached holidays of year and whether the year
	// was cached at all.
	LoadHolidays(ctx context.Context, year int) ([]Holiday, bool, error)
	SaveHolidays(ctx context.Context, year int, holidays []Holiday) error
}

// Calendar holds holidays per year as sorted, unmerged full-day events.
// A year not yet held is read from the cache, then fetched from the
// provider when web loading is enabled. It is safe for concurrent use.
type Calendar struct {
	provider    Provider
	cache       Cache
	loadFromWeb bool
	logger      *zap.Logger

	mu    sync.Mutex
	years map[int][]*event.MultiEvent
}

// NewCalendar creates a Calendar. provider and cache may be nil.
func NewCalendar(provider Provider, cache Cache, loadFromWeb bool, logger *zap.Logger) *Calendar {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Calendar{
		provider:    provider,
		cache:       cache,
		loadFromWeb: loadFromWeb,
		logger:      logger,
		years:       make(map[int][]*event.MultiEvent),
	}
}

// Set replaces the holidays held for year.
func (c *Calendar) Set(year int, holidays []Holiday) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.years[year] = toEvents(holidays)
}

// Years returns the years currently held, ascending.
func (c *Calendar) Years() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	years := make([]int, 0, len(c.years))
	for y := range c.years {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// Holidays returns the holidays of year, merged per day when merge is set.
func (c *Calendar) Holidays(ctx context.Context, year int, merge bool) ([]*event.MultiEvent, error) {
	events, err := c.year(ctx, year)
	if err != nil {
		return nil, err
	}
	if merge {
		return event.MergeEvents(events), nil
	}
	return event.SplitEvents(events), nil
}

// ForMonth returns the holidays of one month. Like Holidays.
func (c *Calendar) ForMonth(ctx context.Context, year int, month time.Month, merge bool) ([]*event.MultiEvent, error) {
	events, err := c.Holidays(ctx, year, merge)
	if err != nil {
		return nil, err
	}
	return schedule.EventsBetweenDates(events, dateutil.FirstOfMonth(year, month), dateutil.LastOfMonth(year, month)), nil
}

// ForDate returns the holidays on date. Like Holidays.
func (c *Calendar) ForDate(ctx context.Context, date time.Time, merge bool) ([]*event.MultiEvent, error) {
	date = dateutil.TruncateToDay(date)
	events, err := c.Holidays(ctx, date.Year(), merge)
	if err != nil {
		return nil, err
	}
	return schedule.EventsBetweenDates(events, date, date), nil
}

// HasHolidays returns one flag per day of the month, day d at index d-1,
// set when a holiday falls on that day.
func (c *Calendar) HasHolidays(ctx context.Context, year int, month time.Month, merge bool) ([]bool, error) {
	events, err := c.ForMonth(ctx, year, month, merge)
	if err != nil {
		return nil, err
	}
	marks := make([]bool, dateutil.DaysIn(year, month))
	for _, e := range events {
		marks[e.Date().Day()-1] = true
	}
	return marks, nil
}

// NextHolidays returns up to n holidays dated on or after from, one per
// name, looking into the following year when needed.
func (c *Calendar) NextHolidays(ctx context.Context, from time.Time, n int) ([]*event.MultiEvent, error) {
	from = dateutil.TruncateToDay(from)
	out := make([]*event.MultiEvent, 0, n)
	for _, year := range []int{from.Year(), from.Year() + 1} {
		events, err := c.Holidays(ctx, year, false)
		if err != nil {
			return nil, err
		}
		for _, e := range schedule.EventsBetweenDates(events, from, dateutil.MaxDate) {
			if len(out) == n {
				return out, nil
			}
			out = append(out, e)
		}
	}
	return out, nil
}

// year returns the held events of year, loading them first if needed.
func (c *Calendar) year(ctx context.Context, year int) ([]*event.MultiEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if events, ok := c.years[year]; ok {
		return events, nil
	}

	if c.cache != nil {
		holidays, ok, err := c.cache.LoadHolidays(ctx, year)
		if err != nil {
			return nil, fmt.Errorf("loading cached holidays: %w", err)
		}
		if ok {
			c.logger.Debug("holidays cache hit", zap.Int("year", year), zap.Int("count", len(holidays)))
			c.years[year] = toEvents(holidays)
			return c.years[year], nil
		}
	}

	if !c.loadFromWeb || c.provider == nil {
		return []*event.MultiEvent{}, nil
	}

	holidays, err := c.provider.Holidays(ctx, year)
	if err != nil {
		c.logger.Error("fetching holidays failed", zap.Int("year", year), zap.Error(err))
		return nil, fmt.Errorf("fetching holidays for %d: %w", year, err)
	}
	c.years[year] = toEvents(holidays)

	if c.cache != nil {
		if err := c.cache.SaveHolidays(ctx, year, holidays); err != nil {
			// The fetched year is still usable from memory.
			c.logger.Warn("saving holidays to cache failed", zap.Int("year", year), zap.Error(err))
		}
	}
	return c.years[year], nil
}

func toEvents(holidays []Holiday) []*event.MultiEvent {
	events := make([]*event.MultiEvent, 0, len(holidays))
	for _, h := range holidays {
		events = append(events, event.NewFullDayMultiEvent(h.Name, h.Date))
	}
	slices.SortStableFunc(events, event.CompareMultiEvents)
	return events
}

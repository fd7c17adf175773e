package holiday

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/javiermolinar/almanac/internal/dateutil"
)

// ICSProvider reads holidays from an iCalendar feed. Yearly recurring
// entries are expanded into the requested year.
type ICSProvider struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewICSProvider creates a provider for the feed at url.
func NewICSProvider(url string, logger *zap.Logger) (*ICSProvider, error) {
	if url == "" {
		return nil, errors.New("holiday ics_url is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ICSProvider{
		url:        url,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}, nil
}

// Holidays fetches the feed and returns the holidays falling in year.
func (p *ICSProvider) Holidays(ctx context.Context, year int) ([]Holiday, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching holiday feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	holidays, err := ParseICS(resp.Body, year, p.logger)
	if err != nil {
		return nil, err
	}
	p.logger.Info("fetched holiday feed", zap.Int("year", year), zap.Int("count", len(holidays)))
	return holidays, nil
}

// ParseICS returns the events of an iCalendar stream that fall in year,
// each as a holiday on its start date. Events with a bad DTSTART or RRULE
// are skipped with a warning. logger may be nil.
func ParseICS(r io.Reader, year int, logger *zap.Logger) ([]Holiday, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing holiday feed: %w", err)
	}

	from := dateutil.Date(year, time.January, 1)
	to := dateutil.Date(year, time.December, 31)

	out := make([]Holiday, 0)
	for _, ve := range cal.Events() {
		summary := ve.GetProperty(ical.ComponentPropertySummary)
		dtstart := ve.GetProperty(ical.ComponentPropertyDtStart)
		if summary == nil || dtstart == nil {
			continue
		}
		name := strings.TrimSpace(summary.Value)
		start, err := parseICSDate(dtstart.Value)
		if err != nil {
			logger.Warn("skipping holiday with bad date", zap.String("name", name), zap.String("date", dtstart.Value))
			continue
		}

		if rule := ve.GetProperty(ical.ComponentPropertyRrule); rule != nil {
			r, err := rrule.StrToRRule(rule.Value)
			if err != nil {
				logger.Warn("skipping holiday with bad rule", zap.String("name", name), zap.String("rrule", rule.Value), zap.Error(err))
				continue
			}
			r.DTStart(start)
			for _, occ := range r.Between(from, to, true) {
				out = append(out, Holiday{Name: name, Date: dateutil.TruncateToDay(occ)})
			}
			continue
		}

		if start.Year() == year {
			out = append(out, Holiday{Name: name, Date: start})
		}
	}
	return out, nil
}

// parseICSDate reads the calendar date of a DATE or DATE-TIME value.
func parseICSDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if len(v) < 8 {
		return time.Time{}, fmt.Errorf("invalid ics date %q", v)
	}
	return time.Parse("20060102", v[:8])
}

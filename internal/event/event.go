// Package event defines the commitments a schedule holds.
//
// Every commitment is one of a closed set of variants: a DateEvent anchored
// to one calendar date (and its aggregating form, MultiEvent), or a
// RepeatEvent anchored to a weekly or monthly cadence. All variants satisfy
// Event; the interface is sealed so callers can switch on Kind exhaustively.
package event

import (
	"errors"
	"strings"
	"time"

	"github.com/javiermolinar/almanac/internal/timespan"
)

// Validation errors.
var (
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrInvalidWeekday    = errors.New("weekday must be between 1 (Monday) and 7 (Sunday)")
	ErrInvalidDayOfMonth = errors.New("day of month must be between 1 and 31")
)

// DefaultLength is the span given to events created from a single moment.
const DefaultLength = timespan.Hour

// Kind identifies the variant of an Event.
type Kind int

const (
	KindDate Kind = iota
	KindWeekly
	KindMonthly
)

func (k Kind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindWeekly:
		return "weekly"
	case KindMonthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// Event is the behaviour shared by every schedule commitment.
type Event interface {
	Name() string
	Start() timespan.Clock
	End() timespan.Clock
	IsFullDay() bool
	Kind() Kind

	// IsOnDate reports whether the event happens on the given calendar date.
	IsOnDate(date time.Time) bool
	// IsOnDateTime reports whether the event covers the given moment.
	IsOnDateTime(t time.Time) bool

	// TimeScaleString renders the event's anchor: a date, a weekday name,
	// or an ordinal day of month.
	TimeScaleString() string
	TimeOnlyString() string
	TimeString() string

	sealed()
}

// ValidateName returns ErrEmptyName if name is blank.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// span holds the fields common to all variants. start <= end always.
type span struct {
	name  string
	start timespan.Clock
	end   timespan.Clock
}

func newSpan(name string, start, end timespan.Clock) span {
	if start > end {
		start, end = end, start
	}
	return span{name: name, start: start, end: end}
}

// Name returns the event name.
func (s *span) Name() string { return s.name }

// SetName renames the event. It is the only mutation an event allows.
func (s *span) SetName(name string) { s.name = name }

// Start returns the start time of day.
func (s *span) Start() timespan.Clock { return s.start }

// End returns the end time of day.
func (s *span) End() timespan.Clock { return s.end }

// Length returns end minus start.
func (s *span) Length() timespan.Clock { return timespan.Diff(s.start, s.end) }

// IsFullDay reports whether the span runs from 00:00 to 23:59.
func (s *span) IsFullDay() bool {
	return s.start == timespan.Midnight && s.end == timespan.EndOfDay
}

// IsOnTime reports whether c lies within the span, inclusive.
func (s *span) IsOnTime(c timespan.Clock) bool {
	return timespan.Between(c, s.start, s.end)
}

// TimeOnlyString renders the span: empty for a full day, "HH:MM" when the
// span is a single instant, "HH:MM~HH:MM" otherwise.
func (s *span) TimeOnlyString() string {
	switch {
	case s.IsFullDay():
		return ""
	case s.start == s.end:
		return s.start.String()
	default:
		return s.start.String() + "~" + s.end.String()
	}
}

func (s *span) equal(o *span) bool {
	return s.name == o.name && s.start == o.start && s.end == o.end
}

// timeString joins an anchor rendering with the span rendering.
func timeString(scale string, s *span) string {
	if s.IsFullDay() {
		return scale
	}
	return scale + " " + s.TimeOnlyString()
}

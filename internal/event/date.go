package event

import (
	"time"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/timespan"
)

// DateEvent is an event anchored to one calendar date.
type DateEvent struct {
	span
	date time.Time
}

// NewDateEvent creates a DateEvent. A start after end is swapped.
func NewDateEvent(name string, date time.Time, start, end timespan.Clock) *DateEvent {
	return &DateEvent{span: newSpan(name, start, end), date: dateutil.TruncateToDay(date)}
}

// NewDateEventAt creates a DateEvent starting at the given moment, lasting
// DefaultLength capped at the end of the day.
func NewDateEventAt(name string, at time.Time) *DateEvent {
	start := timespan.Of(at)
	return NewDateEvent(name, at, start, timespan.AddCapped(start, DefaultLength))
}

// NewFullDayEvent creates a DateEvent covering the whole of date.
func NewFullDayEvent(name string, date time.Time) *DateEvent {
	return NewDateEvent(name, date, timespan.Midnight, timespan.EndOfDay)
}

func (*DateEvent) sealed() {}

// Kind returns KindDate.
func (*DateEvent) Kind() Kind { return KindDate }

// Date returns the calendar date of the event.
func (e *DateEvent) Date() time.Time { return e.date }

// StartInstant returns the date combined with the start time.
func (e *DateEvent) StartInstant() time.Time { return e.start.On(e.date) }

// EndInstant returns the date combined with the end time.
func (e *DateEvent) EndInstant() time.Time { return e.end.On(e.date) }

// IsOnDate reports whether date is the event's date.
func (e *DateEvent) IsOnDate(date time.Time) bool {
	return e.date.Equal(dateutil.TruncateToDay(date))
}

// IsOnDateTime reports whether t falls on the event's date within its span.
func (e *DateEvent) IsOnDateTime(t time.Time) bool {
	return e.IsOnDate(t) && e.IsOnTime(timespan.Of(t))
}

// TimeScaleString returns the date as 2006/01/02.
func (e *DateEvent) TimeScaleString() string {
	return e.date.Format(dateutil.DisplayLayout)
}

// TimeString returns the date followed by the time span.
func (e *DateEvent) TimeString() string {
	return timeString(e.TimeScaleString(), &e.span)
}

// Compare orders date events by date, then start time.
func (e *DateEvent) Compare(o *DateEvent) int {
	return e.StartInstant().Compare(o.StartInstant())
}

// Equal reports whether both events have the same name, date and span.
func (e *DateEvent) Equal(o *DateEvent) bool {
	return e.span.equal(&o.span) && e.date.Equal(o.date)
}

// Overlaps reports whether o starts no later than e ends. Touching
// endpoints overlap. e must not sort after o.
func (e *DateEvent) Overlaps(o *DateEvent) bool {
	return !o.StartInstant().After(e.EndInstant())
}

// CompareDateEvents is DateEvent.Compare in function form, for slices.SortStableFunc.
func CompareDateEvents(a, b *DateEvent) int { return a.Compare(b) }

// Package dateutil provides naive calendar-date helpers.
//
// Dates are represented as time.Time values at midnight UTC. The UTC location
// carries no meaning beyond making two equal calendar dates equal instants;
// nothing in the schedule models time zones.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidMonthFormat = errors.New("month must be in YYYY-MM format")
	ErrEndDateBeforeStart = errors.New("end date must be on or after start date")
	ErrInvalidWeekday     = errors.New("weekday must be a day name (monday..sunday)")
)

// Layouts used across the application.
const (
	DateLayout    = "2006-01-02"
	MonthLayout   = "2006-01"
	DisplayLayout = "2006/01/02"
)

// Sentinel bounds for open-ended queries. They behave as ordinary dates.
var (
	MinDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses a range relative to now. Both ends accept the forms of
// ParseRelativeDate; an empty start means today and an empty end means the
// start date. It returns ErrEndDateBeforeStart if end is before start.
func NewDateRange(startDate, endDate string, now time.Time) (*DateRange, error) {
	start, err := ParseRelativeDate(startDate, now)
	if err != nil {
		return nil, err
	}

	end := start
	if endDate != "" {
		end, err = ParseRelativeDate(endDate, now)
		if err != nil {
			return nil, err
		}
	}

	if end.Before(start) {
		return nil, ErrEndDateBeforeStart
	}

	return &DateRange{Start: start, End: end}, nil
}

// Years returns the calendar years the range touches, ascending.
func (r *DateRange) Years() []int {
	years := make([]int, 0, r.End.Year()-r.Start.Year()+1)
	for y := r.Start.Year(); y <= r.End.Year(); y++ {
		years = append(years, y)
	}
	return years
}

// Date returns midnight UTC of the given calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Today returns the current local calendar date.
func Today() time.Time {
	return TruncateToDay(time.Now())
}

// TruncateToDay returns the calendar date of t's wall clock as midnight UTC.
func TruncateToDay(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseMonth parses a month string in YYYY-MM format.
// If the string is empty, returns the current month.
func ParseMonth(s string) (year int, month time.Month, err error) {
	if s == "" {
		today := Today()
		return today.Year(), today.Month(), nil
	}
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return 0, 0, ErrInvalidMonthFormat
	}
	return t.Year(), t.Month(), nil
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "tomorrow", "yesterday"
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Next prefixed: "next-monday" through "next-sunday", "next-week"
//
// All inputs are case-insensitive. Past dates are allowed.
// Returns ErrInvalidDateFormat for unrecognized input.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "next-week":
		return today.AddDate(0, 0, 7), nil
	}

	// "next-monday", "next-tuesday", etc.
	if strings.HasPrefix(input, "next-") {
		weekdayName := strings.TrimPrefix(input, "next-")
		if targetDay, ok := weekdayMap[weekdayName]; ok {
			return nextWeekday(today, targetDay), nil
		}
		return time.Time{}, ErrInvalidDateFormat
	}

	if targetDay, ok := weekdayMap[input]; ok {
		return nextWeekday(today, targetDay), nil
	}

	result, err := time.Parse(DateLayout, input)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	current := today.Weekday()
	daysUntil := int(target) - int(current)
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}

// ParseWeekday parses a weekday name (case-insensitive, full or three-letter)
// and returns its ISO number, Monday=1 through Sunday=7.
func ParseWeekday(s string) (int, error) {
	input := strings.ToLower(strings.TrimSpace(s))
	for name, wd := range weekdayMap {
		if input == name || (len(input) == 3 && strings.HasPrefix(name, input)) {
			return ISOFromWeekday(wd), nil
		}
	}
	return 0, fmt.Errorf("%w, got %q", ErrInvalidWeekday, s)
}

// ISOWeekday returns t's ISO weekday number, Monday=1 through Sunday=7.
func ISOWeekday(t time.Time) int {
	return ISOFromWeekday(t.Weekday())
}

// ISOFromWeekday converts a time.Weekday to its ISO number.
func ISOFromWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// WeekdayFromISO converts an ISO weekday number (1..7) to a time.Weekday.
func WeekdayFromISO(n int) time.Weekday {
	return time.Weekday(n % 7)
}

// FullWeekday returns the full English name of an ISO weekday.
func FullWeekday(iso int) string {
	return WeekdayFromISO(iso).String()
}

// ShortWeekday returns the three-letter English name of an ISO weekday.
func ShortWeekday(iso int) string {
	return FullWeekday(iso)[:3]
}

// WeekdaysFrom returns all seven ISO weekdays in order, starting at start.
func WeekdaysFrom(start int) [7]int {
	var out [7]int
	for i := range out {
		v := start + i
		if v > 7 {
			v -= 7
		}
		out[i] = v
	}
	return out
}

// DaysBetweenWeekdays returns how many days it takes to get from ISO weekday
// first forward to ISO weekday second, in [0, 6].
func DaysBetweenWeekdays(first, second int) int {
	if first > second {
		return 7 - (first - second)
	}
	return second - first
}

// StartOfWeek returns the Sunday that begins the calendar row containing t.
func StartOfWeek(t time.Time) time.Time {
	t = TruncateToDay(t)
	return t.AddDate(0, 0, -DaysBetweenWeekdays(7, ISOWeekday(t)))
}

// EndOfWeek returns the Saturday that ends the calendar row containing t.
func EndOfWeek(t time.Time) time.Time {
	t = TruncateToDay(t)
	return t.AddDate(0, 0, DaysBetweenWeekdays(ISOWeekday(t), 6))
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return Date(year, month+1, 0).Day()
}

// FirstOfMonth returns the first day of the month.
func FirstOfMonth(year int, month time.Month) time.Time {
	return Date(year, month, 1)
}

// LastOfMonth returns the last day of the month.
func LastOfMonth(year int, month time.Month) time.Time {
	return Date(year, month, DaysIn(year, month))
}

// DayNumber returns a serial day number for t's calendar date. Consecutive
// dates have consecutive numbers over the whole MinDate..MaxDate range.
func DayNumber(t time.Time) int64 {
	return TruncateToDay(t).Unix() / 86400
}

// DaysBetween returns the number of days from a to b (negative if b is earlier).
func DaysBetween(a, b time.Time) int64 {
	return DayNumber(b) - DayNumber(a)
}

// WeeksBetween returns the number of complete weeks from a to b.
func WeeksBetween(a, b time.Time) int64 {
	return DaysBetween(a, b) / 7
}

// MonthsBetween returns the number of complete months from a to b. A month is
// complete once b's day of month reaches a's day of month, so Jan 31 to
// Feb 28 is zero months and Jan 31 to Mar 1 is one.
func MonthsBetween(a, b time.Time) int64 {
	total := int64(b.Year()-a.Year())*12 + int64(b.Month()-a.Month())
	days := b.Day() - a.Day()
	switch {
	case total > 0 && days < 0:
		total--
	case total < 0 && days > 0:
		total++
	}
	return total
}

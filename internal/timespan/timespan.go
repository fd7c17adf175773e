// Package timespan provides time-of-day arithmetic for schedule events.
//
// Times of day are naive: a Clock carries no date and no location.
package timespan

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrInvalidClock = errors.New("time must be in HH:MM format")
	ErrTimeOverflow = errors.New("time sum exceeds end of day")
)

// Clock is a time of day in minutes since midnight, from 00:00 to 23:59.
type Clock int

const (
	// Midnight is 00:00.
	Midnight Clock = 0
	// EndOfDay is 23:59, the latest representable time of day.
	EndOfDay Clock = 23*60 + 59
	// Hour is a one hour length.
	Hour Clock = 60
)

// New returns the Clock for hour:minute, clamped into [00:00, 23:59].
func New(hour, minute int) Clock {
	return clamp(Clock(hour*60 + minute))
}

// Of returns the time of day of t, dropping seconds.
func Of(t time.Time) Clock {
	return New(t.Hour(), t.Minute())
}

// Parse parses a "HH:MM" string.
func Parse(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidClock
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return New(t.Hour(), t.Minute()), nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and package-level constants.
func MustParse(s string) Clock {
	c, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("timespan: %q: %v", s, err))
	}
	return c
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On returns date at this time of day, in date's location.
func (c Clock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, date.Location())
}

// Add returns a+b, or ErrTimeOverflow if the sum passes 23:59.
func Add(a, b Clock) (Clock, error) {
	if Diff(a, EndOfDay) < b {
		return 0, ErrTimeOverflow
	}
	return a + b, nil
}

// AddCapped returns a+b, capped at 23:59.
func AddCapped(a, b Clock) Clock {
	if Diff(a, EndOfDay) > b {
		return a + b
	}
	return EndOfDay
}

// Diff returns the absolute difference between two times of day.
func Diff(a, b Clock) Clock {
	if a > b {
		return a - b
	}
	return b - a
}

// Between reports whether c lies in [start, end], inclusive.
func Between(c, start, end Clock) bool {
	return c >= start && c <= end
}

// InstantBetween reports whether t lies in [start, end], inclusive.
func InstantBetween(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// BetweenLoop reports whether value lies between left and right on a cyclic
// domain such as weekdays or days of a month. When wraps is false the range
// is the plain interval [left, right]; when it is true the range runs from
// left past the end of the cycle and around to right.
func BetweenLoop(value, left, right int, wraps bool) bool {
	if !wraps {
		return left <= value && value <= right
	}
	return value >= left || value <= right
}

func clamp(c Clock) Clock {
	if c < Midnight {
		return Midnight
	}
	if c > EndOfDay {
		return EndOfDay
	}
	return c
}

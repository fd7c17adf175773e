// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/schedule"
)

// ScheduleLoader loads the stored schedule.
type ScheduleLoader interface {
	Load(ctx context.Context) (*schedule.Container, error)
}

// HolidaySource returns the holidays of a month.
type HolidaySource interface {
	ForMonth(ctx context.Context, year int, month time.Month, merge bool) ([]*event.MultiEvent, error)
}

// ScheduleLoadedMsg is sent when the schedule has been (re)loaded.
type ScheduleLoadedMsg struct {
	Schedule *schedule.Container
}

// HolidaysLoadedMsg is sent when the holidays of a month are loaded.
type HolidaysLoadedMsg struct {
	Year     int
	Month    time.Month
	Holidays []*event.MultiEvent
}

// StoreChangedMsg is sent when the store file changes on disk.
type StoreChangedMsg struct{}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadSchedule loads the schedule from s.
func LoadSchedule(s ScheduleLoader) tea.Cmd {
	return func() tea.Msg {
		c, err := s.Load(context.Background())
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ScheduleLoadedMsg{Schedule: c}
	}
}

// LoadHolidays loads the holidays of one month from src.
func LoadHolidays(src HolidaySource, year int, month time.Month, merge bool) tea.Cmd {
	if src == nil {
		return nil
	}
	return func() tea.Msg {
		holidays, err := src.ForMonth(context.Background(), year, month, merge)
		if err != nil {
			return ErrMsg{Err: err}
		}
		return HolidaysLoadedMsg{Year: year, Month: month, Holidays: holidays}
	}
}

// WaitForChange blocks until changes fires. A nil channel yields no command.
func WaitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return StoreChangedMsg{}
	}
}

// ClearStatusAfter clears the status message after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

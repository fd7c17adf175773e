package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/tui/commands"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case commands.ScheduleLoadedMsg:
		m.loading = false
		m.err = nil
		if msg.Schedule != nil {
			m.schedule = msg.Schedule
		}
		return m, nil

	case commands.HolidaysLoadedMsg:
		// Drop results for a month the cursor already left.
		if msg.Year != m.cursor.Year() || msg.Month != m.cursor.Month() {
			return m, nil
		}
		m.holidays = msg.Holidays
		m.holidayYear = msg.Year
		m.holidayMonth = msg.Month
		return m, nil

	case commands.StoreChangedMsg:
		m.logger.Debug("store changed, reloading")
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, commands.LoadSchedule(m.store))
		}
		cmds = append(cmds, commands.WaitForChange(m.changes))
		return m, tea.Batch(cmds...)

	case commands.ErrMsg:
		m.loading = false
		m.err = msg.Err
		m.logger.Warn("tui command failed", zap.Error(msg.Err))
		return m, nil

	case commands.ClearStatusMsg:
		m.status = ""
		return m, nil
	}
	return m, nil
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PrevDay):
		return m.moveTo(m.cursor.AddDate(0, 0, -1))
	case key.Matches(msg, m.keys.NextDay):
		return m.moveTo(m.cursor.AddDate(0, 0, 1))
	case key.Matches(msg, m.keys.PrevWeek):
		return m.moveTo(m.cursor.AddDate(0, 0, -7))
	case key.Matches(msg, m.keys.NextWeek):
		return m.moveTo(m.cursor.AddDate(0, 0, 7))
	case key.Matches(msg, m.keys.PrevMonth):
		return m.moveTo(addMonths(m.cursor, -1))
	case key.Matches(msg, m.keys.NextMonth):
		return m.moveTo(addMonths(m.cursor, 1))
	case key.Matches(msg, m.keys.Today):
		m.today = dateutil.TruncateToDay(m.now())
		return m.moveTo(m.today)

	case key.Matches(msg, m.keys.Reload):
		if m.store == nil {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(commands.LoadSchedule(m.store), m.loadHolidays())

	case key.Matches(msg, m.keys.Yank):
		if err := m.copy(m.agendaText()); err != nil {
			m.err = fmt.Errorf("copying agenda: %w", err)
			return m, nil
		}
		m.status = "Copied agenda for " + m.cursor.Format(dateutil.DateLayout)
		return m, commands.ClearStatusAfter(statusTimeout)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

// moveTo places the cursor on date and loads holidays on a month change.
func (m Model) moveTo(date time.Time) (tea.Model, tea.Cmd) {
	prev := m.cursor
	m.cursor = dateutil.TruncateToDay(date)
	m.err = nil
	if prev.Year() == m.cursor.Year() && prev.Month() == m.cursor.Month() {
		return m, nil
	}
	m.holidays = nil
	return m, m.loadHolidays()
}

// addMonths moves t by n months, clamping the day to the target month.
func addMonths(t time.Time, n int) time.Time {
	first := dateutil.FirstOfMonth(t.Year(), t.Month()).AddDate(0, n, 0)
	day := min(t.Day(), dateutil.DaysIn(first.Year(), first.Month()))
	return dateutil.Date(first.Year(), first.Month(), day)
}

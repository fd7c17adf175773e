package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/almanac/internal/config"
	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/holiday"
	"github.com/javiermolinar/almanac/internal/schedule"
	"github.com/javiermolinar/almanac/internal/store"
	"github.com/javiermolinar/almanac/internal/tui/commands"
	"github.com/javiermolinar/almanac/internal/tui/theme"
)

// memoryPath is the SQLite path that never touches disk.
const memoryPath = ":memory:"

// statusTimeout is how long a status message stays on screen.
const statusTimeout = 3 * time.Second

// Options configures the TUI.
type Options struct {
	Config   *config.Config
	Store    store.Store
	Calendar *holiday.Calendar
	Logger   *zap.Logger
	Now      func() time.Time
}

// Model is the main TUI model: a month calendar with an agenda of the day
// under the cursor.
type Model struct {
	config   *config.Config
	store    commands.ScheduleLoader
	calendar commands.HolidaySource
	logger   *zap.Logger
	styles   *Styles
	keys     KeyMap
	help     help.Model
	now      func() time.Time

	schedule *schedule.Container
	cursor   time.Time
	today    time.Time

	// Holidays of the displayed month.
	holidays     []*event.MultiEvent
	holidayYear  int
	holidayMonth time.Month

	width   int
	height  int
	loading bool
	status  string
	err     error

	changes <-chan struct{}
	copy    func(string) error
}

// NewModel creates a Model from opts.
func NewModel(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	t, err := theme.Load(cfg.Display.Theme)
	if err != nil {
		logger.Warn("loading theme", zap.String("theme", cfg.Display.Theme), zap.Error(err))
	}

	today := dateutil.TruncateToDay(now())
	m := Model{
		config:   cfg,
		logger:   logger,
		styles:   NewStyles(t),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		now:      now,
		schedule: schedule.New(),
		cursor:   today,
		today:    today,
		loading:  opts.Store != nil,
		copy:     clipboard.WriteAll,
	}
	if opts.Store != nil {
		m.store = opts.Store
	}
	if opts.Calendar != nil {
		m.calendar = opts.Calendar
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, commands.LoadSchedule(m.store))
	}
	cmds = append(cmds, m.loadHolidays(), commands.WaitForChange(m.changes))
	return tea.Batch(cmds...)
}

// loadHolidays fetches the holidays of the cursor month when they are shown.
func (m Model) loadHolidays() tea.Cmd {
	if m.calendar == nil {
		return nil
	}
	if !m.config.Holidays.ShowOnCalendar && !m.config.Holidays.ShowOnEvents {
		return nil
	}
	return commands.LoadHolidays(m.calendar, m.cursor.Year(), m.cursor.Month(), m.config.Holidays.Merge)
}

// Cursor returns the date under the cursor.
func (m Model) Cursor() time.Time { return m.cursor }

// Run starts the TUI and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	m := NewModel(opts)

	if opts.Store != nil && opts.Store.Path() != memoryPath {
		w, err := NewStoreWatcher(opts.Store.Path(), m.logger)
		if err != nil {
			m.logger.Warn("watching store", zap.String("path", opts.Store.Path()), zap.Error(err))
		} else {
			defer w.Close()
			m.changes = w.C
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

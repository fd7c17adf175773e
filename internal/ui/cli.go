package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/almanac/internal/config"
	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/holiday"
	"github.com/javiermolinar/almanac/internal/logging"
	"github.com/javiermolinar/almanac/internal/schedule"
	"github.com/javiermolinar/almanac/internal/store"
	"github.com/javiermolinar/almanac/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// ErrEventNotFound is returned when no event matches a name and selector.
var ErrEventNotFound = errors.New("event not found")

// App holds the CLI application state.
type App struct {
	config   *config.Config
	store    store.Store
	calendar *holiday.Calendar
	logger   *zap.Logger
	root     *cobra.Command
	debug    bool // Enable debug logging
	now      func() time.Time

	ownsStore  bool
	ownsLogger bool
}

// Option configures an App.
type Option func(*App)

// WithStore uses s instead of opening the configured store. The caller
// keeps ownership of s.
func WithStore(s store.Store) Option {
	return func(a *App) { a.store = s }
}

// WithCalendar uses cal instead of building one from the configuration.
func WithCalendar(cal *holiday.Calendar) Option {
	return func(a *App) { a.calendar = cal }
}

// WithLogger uses logger instead of the configured log file.
func WithLogger(logger *zap.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithClock sets the source of "now" for relative dates and dimming.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// NewApp creates a new CLI application for cfg.
func NewApp(cfg *config.Config, opts ...Option) *App {
	a := &App{config: cfg, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}

	a.root = &cobra.Command{
		Use:   "almanac",
		Short: "A terminal calendar for dated and recurring events",
		Long: `Almanac keeps one-off events, weekly and monthly recurring events,
and public holidays, and shows them as a month calendar.

Run without arguments to open the calendar browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			return tui.Run(cmd.Context(), tui.Options{
				Config:   a.config,
				Store:    a.store,
				Calendar: a.calendar,
				Logger:   a.logger,
				Now:      a.now,
			})
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.addWeeklyCmd())
	a.root.AddCommand(a.addMonthlyCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.renameCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.findCmd())
	a.root.AddCommand(a.conflictsCmd())
	a.root.AddCommand(a.monthCmd())
	a.root.AddCommand(a.holidaysCmd())
	a.root.AddCommand(a.exportCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "almanac %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.ExecuteContext(context.Background())
}

// SetArgs overrides the command line arguments, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// Root returns the root command.
func (a *App) Root() *cobra.Command {
	return a.root
}

// Close releases the store and flushes the logger when the App opened them.
func (a *App) Close() error {
	var err error
	if a.ownsStore && a.store != nil {
		err = a.store.Close()
	}
	if a.ownsLogger && a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

// setup opens whatever the options did not provide.
func (a *App) setup() error {
	if a.logger == nil {
		logger, err := logging.New(a.config.Log, a.debug)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		a.logger = logger
		a.ownsLogger = true
	}
	if a.store == nil {
		s, err := store.Open(a.config.Storage, a.logger)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		a.store = s
		a.ownsStore = true
	}
	if a.calendar == nil {
		var provider holiday.Provider
		if a.config.Holidays.LoadFromWeb {
			p, err := holiday.NewProvider(a.config.Holidays, a.logger)
			if err != nil {
				return fmt.Errorf("creating holiday provider: %w", err)
			}
			provider = p
		}
		a.calendar = holiday.NewCalendar(provider, a.store, a.config.Holidays.LoadFromWeb, a.logger)
	}
	return nil
}

func (a *App) load(ctx context.Context) (*schedule.Container, error) {
	if err := a.setup(); err != nil {
		return nil, err
	}
	c, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading schedule: %w", err)
	}
	return c, nil
}

func (a *App) save(ctx context.Context, c *schedule.Container) error {
	if err := a.store.Save(ctx, c); err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	return nil
}

func (a *App) today() time.Time {
	return dateutil.TruncateToDay(a.now())
}

package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/schedule"
	"github.com/javiermolinar/almanac/internal/timespan"
)

var errEndWithoutStart = errors.New("--end requires --start")

func (a *App) addCmd() *cobra.Command {
	var (
		date  string
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add an event on a date",
		Long: `Add a one-off event on a date.

Without --start the event lasts the whole day. Without --end it lasts one hour.
Dates accept YYYY-MM-DD, today, tomorrow, yesterday, a weekday name or next-<weekday>.`,
		Example: `  almanac add "Dentist" --date=2025-06-03 --start=10:00 --end=11:00
  almanac add "Trip" --date=next-friday`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := event.ValidateName(args[0]); err != nil {
				return err
			}
			d, err := dateutil.ParseRelativeDate(date, a.now())
			if err != nil {
				return err
			}
			from, to, err := parseSpan(start, end)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := a.load(ctx)
			if err != nil {
				return err
			}
			e := event.NewDateEvent(args[0], d, from, to)
			c.AddDateEvent(e)
			if err := a.save(ctx, c); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added %s: %s\n", e.TimeString(), e.Name())
			warnConflicts(out, c, e)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Event date (default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")

	return cmd
}

func (a *App) addWeeklyCmd() *cobra.Command {
	var (
		day   string
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "add-weekly [name]",
		Short: "Add an event that repeats every week",
		Example: `  almanac add-weekly "Gym" --day=tuesday --start=18:00
  almanac add-weekly "Review" --day=fri --start=15:00 --end=16:30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekday, err := dateutil.ParseWeekday(day)
			if err != nil {
				return err
			}
			return a.addRepeat(cmd, args[0], event.WeekKey(weekday), start, end)
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Weekday (monday..sunday, required)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	_ = cmd.MarkFlagRequired("day")

	return cmd
}

func (a *App) addMonthlyCmd() *cobra.Command {
	var (
		day   int
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "add-monthly [name]",
		Short: "Add an event that repeats every month",
		Long: `Add an event on a day of every month.

Months shorter than the day are skipped: an event on the 31st never happens in April.`,
		Example: `  almanac add-monthly "Rent" --day=1
  almanac add-monthly "Book club" --day=15 --start=19:00 --end=21:00`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.addRepeat(cmd, args[0], event.MonthKey(day), start, end)
		},
	}

	cmd.Flags().IntVar(&day, "day", 0, "Day of month (1-31, required)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM)")
	_ = cmd.MarkFlagRequired("day")

	return cmd
}

func (a *App) addRepeat(cmd *cobra.Command, name string, key event.RepeatKey, start, end string) error {
	if err := event.ValidateName(name); err != nil {
		return err
	}
	from, to, err := parseSpan(start, end)
	if err != nil {
		return err
	}
	e, err := event.NewRepeatEvent(name, key, from, to)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	c, err := a.load(ctx)
	if err != nil {
		return err
	}
	c.AddRepeatEvent(e)
	if err := a.save(ctx, c); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", e.TimeString(), e.Name())
	return nil
}

// parseSpan turns optional --start/--end flags into a time span. No start
// means the whole day; no end means one hour, capped at the end of the day.
func parseSpan(start, end string) (timespan.Clock, timespan.Clock, error) {
	if start == "" {
		if end != "" {
			return 0, 0, errEndWithoutStart
		}
		return timespan.Midnight, timespan.EndOfDay, nil
	}
	from, err := timespan.Parse(start)
	if err != nil {
		return 0, 0, fmt.Errorf("--start: %w", err)
	}
	if end == "" {
		return from, timespan.AddCapped(from, event.DefaultLength), nil
	}
	to, err := timespan.Parse(end)
	if err != nil {
		return 0, 0, fmt.Errorf("--end: %w", err)
	}
	return from, to, nil
}

// warnConflicts prints every conflict involving e.
func warnConflicts(w io.Writer, c *schedule.Container, e *event.DateEvent) {
	for _, conflict := range c.Conflicts() {
		var other *event.DateEvent
		switch e {
		case conflict.First:
			other = conflict.Second
		case conflict.Second:
			other = conflict.First
		default:
			continue
		}
		fmt.Fprintf(w, "%s overlaps %s: %s\n", formatWarn("Warning:"), other.TimeString(), other.Name())
	}
}

package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/schedule"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events in a date range",
		Long: `List one-off events, recurring events and holidays within a date range.

If no dates are specified, lists today's events.
If only --start is specified, lists events for that single day.
If both --start and --end are specified, lists events in that range (inclusive).`,
		Example: `  almanac list
  almanac list --start=2025-06-01
  almanac list --start=2025-06-01 --end=2025-06-30`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dr, err := dateutil.NewDateRange(startDate, endDate, a.now())
			if err != nil {
				return err
			}
			start, end := dr.Start, dr.End

			ctx := cmd.Context()
			c, err := a.load(ctx)
			if err != nil {
				return err
			}

			dates := c.DateEventsBetween(start, end)
			repeats := c.RepeatEventsBetween(start, end)
			var holidays []*event.MultiEvent
			if a.config.Holidays.ShowOnEvents {
				holidays, err = a.holidaysBetween(ctx, dr)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if len(dates)+len(repeats)+len(holidays) == 0 {
				fmt.Fprintln(out, "No events found in the specified date range.")
				return nil
			}

			opts := a.printOpts()
			title := start.Format(dateutil.DisplayLayout)
			if !end.Equal(start) {
				title += " - " + end.Format(dateutil.DisplayLayout)
			}
			printSection(out, "Events "+title, dates, opts)
			printSection(out, "Recurring", repeats, opts)
			printSection(out, "Holidays", holidays, opts)
			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (defaults to start date)")

	return cmd
}

func (a *App) findCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "find [query]",
		Short:   "Search events by name",
		Long:    `Lists every recurring and one-off event whose name contains the query, ignoring case.`,
		Example: `  almanac find dentist`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			found := c.Search(args[0])
			if len(found) == 0 {
				fmt.Fprintf(out, "No events match %q.\n", args[0])
				return nil
			}
			opts := a.printOpts()
			for _, e := range found {
				PrintEventRow(out, e, opts)
			}
			return nil
		},
	}
}

func (a *App) conflictsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List overlapping one-off events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !c.HasDateEventConflict() {
				fmt.Fprintln(out, "No conflicts.")
				return nil
			}
			for _, conflict := range c.Conflicts() {
				fmt.Fprintf(out, "%s %s: %s  overlaps  %s: %s\n",
					formatWarn("!"),
					conflict.First.TimeString(), conflict.First.Name(),
					conflict.Second.TimeOnlyString(), conflict.Second.Name(),
				)
			}
			return nil
		},
	}
}

func printSection[E event.Event](w io.Writer, title string, events []E, opts PrintOpts) {
	if len(events) == 0 {
		return
	}
	fmt.Fprintf(w, "=== %s ===\n", formatHeader(title))
	for _, e := range events {
		PrintEventRow(w, e, opts)
	}
	fmt.Fprintln(w)
}

func (a *App) printOpts() PrintOpts {
	return PrintOpts{
		DimPast: a.config.Display.DimPastEvents,
		Today:   a.today(),
	}
}

// holidayYearWindow bounds how many years around today a listing loads
// holidays for, so a wide range cannot trigger one fetch per year.
const holidayYearWindow = 5

func (a *App) holidaysBetween(ctx context.Context, dr *dateutil.DateRange) ([]*event.MultiEvent, error) {
	this := a.today().Year()
	var out []*event.MultiEvent
	for _, year := range dr.Years() {
		if year < this-holidayYearWindow || year > this+holidayYearWindow {
			continue
		}
		holidays, err := a.calendar.Holidays(ctx, year, a.config.Holidays.Merge)
		if err != nil {
			return nil, fmt.Errorf("loading holidays: %w", err)
		}
		out = append(out, schedule.EventsBetweenDates(holidays, dr.Start, dr.End)...)
	}
	return out, nil
}

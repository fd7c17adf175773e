package ui

import (
	"github.com/spf13/cobra"

	"github.com/javiermolinar/almanac/internal/dateutil"
)

func (a *App) monthCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show a month calendar",
		Long: `Print a month calendar marking days with events and holidays.

Which events mark a day follows display.show_dates, display.show_repeats and
holidays.show_on_calendar.`,
		Example: `  almanac month
  almanac month --month=2025-06`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, m, err := dateutil.ParseMonth(month)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := a.load(ctx)
			if err != nil {
				return err
			}

			grid := MonthGrid{
				Year:   year,
				Month:  m,
				Events: c.HasEvents(year, m, a.config.Display.ShowDates, a.config.Display.ShowRepeats),
				Today:  a.today(),
			}
			if a.config.Holidays.ShowOnCalendar {
				grid.Holidays, err = a.calendar.HasHolidays(ctx, year, m, a.config.Holidays.Merge)
				if err != nil {
					return err
				}
			}
			RenderMonth(cmd.OutOrStdout(), grid)
			return nil
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM, default: current month)")
	return cmd
}

package ui

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (a *App) holidaysCmd() *cobra.Command {
	var (
		year int
		next int
	)

	cmd := &cobra.Command{
		Use:   "holidays",
		Short: "List public holidays",
		Long: `List the public holidays of a year, or the next few from today.

Holidays come from the local cache. With holidays.load_from_web set, a year
missing from the cache is fetched from holidays.source and cached.`,
		Example: `  almanac holidays
  almanac holidays --year=2026
  almanac holidays --next=3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			opts := a.printOpts()

			if next > 0 {
				upcoming, err := a.calendar.NextHolidays(ctx, opts.Today, next)
				if err != nil {
					return err
				}
				if len(upcoming) == 0 {
					fmt.Fprintln(out, "No upcoming holidays.")
					return nil
				}
				for _, h := range upcoming {
					PrintEventRow(out, h, opts)
				}
				return nil
			}

			if year == 0 {
				year = opts.Today.Year()
			}
			holidays, err := a.calendar.Holidays(ctx, year, a.config.Holidays.Merge)
			if err != nil {
				return err
			}
			a.logger.Debug("listing holidays", zap.Int("year", year), zap.Int("count", len(holidays)))
			if len(holidays) == 0 {
				fmt.Fprintf(out, "No holidays for %d.\n", year)
				return nil
			}
			printSection(out, fmt.Sprintf("Holidays %d", year), holidays, opts)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current year)")
	cmd.Flags().IntVar(&next, "next", 0, "Show the next N holidays from today")
	return cmd
}

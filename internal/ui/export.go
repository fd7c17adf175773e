package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/export"
)

func (a *App) exportCmd() *cobra.Command {
	var (
		from     string
		holidays bool
	)

	cmd := &cobra.Command{
		Use:   "export [file.ics]",
		Short: "Export events as iCalendar",
		Long: `Write every event to an iCalendar file. Use - for standard output.

Recurring events are written once with a recurrence rule starting at their
first occurrence on or after --from.`,
		Example: `  almanac export calendar.ics
  almanac export - --from=2025-01-01 --holidays`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, err := dateutil.ParseRelativeDate(from, a.now())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := a.load(ctx)
			if err != nil {
				return err
			}

			opts := export.Options{From: anchor, Now: a.now}
			if holidays {
				var hs []*event.MultiEvent
				hs, err = a.calendar.Holidays(ctx, anchor.Year(), a.config.Holidays.Merge)
				if err != nil {
					return err
				}
				opts.Holidays = hs
			}

			var w io.Writer = cmd.OutOrStdout()
			if args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating %s: %w", args[0], err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := export.Write(w, c, opts); err != nil {
				return err
			}
			a.logger.Info("schedule exported", zap.String("path", args[0]), zap.Int("events", c.Len()))
			if args[0] != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d events to %s\n", c.Len()+len(opts.Holidays), args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Anchor date for recurring events (default: today)")
	cmd.Flags().BoolVar(&holidays, "holidays", false, "Include the holidays of the anchor year")
	return cmd
}

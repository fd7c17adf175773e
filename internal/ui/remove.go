package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/schedule"
)

var errSelector = errors.New("exactly one of --date, --weekday or --monthday is required")

// selector picks the event a name refers to by where it sits in the calendar.
type selector struct {
	date     string
	weekday  string
	monthDay int
}

func (s *selector) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.date, "date", "", "Date of a one-off event")
	cmd.Flags().StringVar(&s.weekday, "weekday", "", "Weekday of a weekly event")
	cmd.Flags().IntVar(&s.monthDay, "monthday", 0, "Day of month of a monthly event")
}

// find returns the first event named name at the selected position.
func (s *selector) find(c *schedule.Container, name string, a *App) (event.Event, error) {
	set := 0
	for _, ok := range []bool{s.date != "", s.weekday != "", s.monthDay != 0} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, errSelector
	}

	switch {
	case s.date != "":
		d, err := dateutil.ParseRelativeDate(s.date, a.now())
		if err != nil {
			return nil, err
		}
		if e, ok := event.Find(c.DateEventsForDate(d), name); ok {
			return e, nil
		}
		return nil, fmt.Errorf("%w: %q on %s", ErrEventNotFound, name, d.Format(dateutil.DisplayLayout))
	case s.weekday != "":
		wd, err := dateutil.ParseWeekday(s.weekday)
		if err != nil {
			return nil, err
		}
		return findRepeat(c, name, event.WeekKey(wd))
	default:
		key := event.MonthKey(s.monthDay)
		if err := key.Validate(); err != nil {
			return nil, err
		}
		return findRepeat(c, name, key)
	}
}

func findRepeat(c *schedule.Container, name string, key event.RepeatKey) (event.Event, error) {
	var bucket []*event.RepeatEvent
	for _, e := range c.RepeatEvents() {
		if e.Key() == key {
			bucket = append(bucket, e)
		}
	}
	if e, ok := event.Find(bucket, name); ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %q %s", ErrEventNotFound, name, key)
}

func (a *App) removeCmd() *cobra.Command {
	var (
		sel selector
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "remove [name]",
		Short: "Remove an event",
		Example: `  almanac remove "Dentist" --date=2025-06-03
  almanac remove "Gym" --weekday=tuesday --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.load(ctx)
			if err != nil {
				return err
			}
			e, err := sel.find(c, args[0], a)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.config.Display.ConfirmToDelete && !yes {
				question := fmt.Sprintf("Remove %s: %s?", e.TimeString(), e.Name())
				if !promptYesNo(cmd.InOrStdin(), out, question) {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			c.Remove(e)
			if err := a.save(ctx, c); err != nil {
				return err
			}
			a.logger.Info("event removed", zap.String("name", e.Name()), zap.Stringer("kind", e.Kind()))
			fmt.Fprintf(out, "Removed %s: %s\n", e.TimeString(), e.Name())
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

func (a *App) renameCmd() *cobra.Command {
	var sel selector

	cmd := &cobra.Command{
		Use:     "rename [old] [new]",
		Short:   "Rename an event",
		Example: `  almanac rename "Gym" "Climbing" --weekday=tuesday`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := event.ValidateName(args[1]); err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := a.load(ctx)
			if err != nil {
				return err
			}
			e, err := sel.find(c, args[0], a)
			if err != nil {
				return err
			}

			e.(interface{ SetName(string) }).SetName(args[1])
			if err := a.save(ctx, c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", args[0], args[1])
			return nil
		},
	}

	sel.register(cmd)
	return cmd
}

func promptYesNo(in io.Reader, out io.Writer, question string) bool {
	reader := bufio.NewReader(in)
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

package schedule

import (
	"slices"
	"testing"
	"time"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
)

func datedEvents(dates ...time.Time) []*event.DateEvent {
	out := make([]*event.DateEvent, len(dates))
	for i, d := range dates {
		out[i] = event.NewFullDayEvent(d.Format(dateutil.DateLayout), d)
	}
	return out
}

func TestEventsBetweenDates(t *testing.T) {
	d := dateutil.Date
	events := datedEvents(
		d(2025, 1, 1), d(2025, 1, 3), d(2025, 1, 3), d(2025, 1, 5), d(2025, 1, 9),
	)

	tests := []struct {
		name        string
		left, right time.Time
		want        []int
	}{
		{"everything", dateutil.MinDate, dateutil.MaxDate, []int{0, 1, 2, 3, 4}},
		{"exact single date", d(2025, 1, 3), d(2025, 1, 3), []int{1, 2}},
		{"inner range", d(2025, 1, 2), d(2025, 1, 6), []int{1, 2, 3}},
		{"bounds on elements", d(2025, 1, 1), d(2025, 1, 9), []int{0, 1, 2, 3, 4}},
		{"gap between elements", d(2025, 1, 6), d(2025, 1, 8), nil},
		{"before all", d(2024, 12, 1), d(2024, 12, 31), nil},
		{"after all", d(2025, 1, 10), d(2025, 2, 1), nil},
		{"left open", dateutil.MinDate, d(2025, 1, 3), []int{0, 1, 2}},
		{"right open", d(2025, 1, 4), dateutil.MaxDate, []int{3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EventsBetweenDates(events, tt.left, tt.right)
			if got == nil {
				t.Fatal("got nil, want non-nil slice")
			}
			want := make([]*event.DateEvent, 0)
			for _, i := range tt.want {
				want = append(want, events[i])
			}
			if !slices.Equal(got, want) {
				t.Errorf("got %d events, want %d", len(got), len(want))
			}
		})
	}
}

func TestEventsBetweenDates_MatchesLinearScan(t *testing.T) {
	start := dateutil.Date(2025, 3, 1)
	var dates []time.Time
	for i := 0; i < 40; i++ {
		// Irregular spacing with repeats.
		dates = append(dates, start.AddDate(0, 0, (i*i)%23))
	}
	slices.SortFunc(dates, time.Time.Compare)
	events := datedEvents(dates...)

	for l := -2; l < 26; l++ {
		for r := l; r < 26; r++ {
			left, right := start.AddDate(0, 0, l), start.AddDate(0, 0, r)
			var want []*event.DateEvent
			for _, e := range events {
				if !e.Date().Before(left) && !e.Date().After(right) {
					want = append(want, e)
				}
			}
			got := EventsBetweenDates(events, left, right)
			if len(got) != len(want) || (len(want) > 0 && !slices.Equal(got, want)) {
				t.Fatalf("[%v, %v]: got %d events, want %d", left, right, len(got), len(want))
			}
		}
	}
}

func TestEventsBetweenDates_ReturnsCopy(t *testing.T) {
	events := datedEvents(dateutil.Date(2025, 1, 1), dateutil.Date(2025, 1, 2))
	got := EventsBetweenDates(events, dateutil.MinDate, dateutil.MaxDate)
	got[0] = nil
	if events[0] == nil {
		t.Error("modifying the result changed the source")
	}
}

func TestEventsBetweenDates_Empty(t *testing.T) {
	got := EventsBetweenDates([]*event.DateEvent{}, dateutil.MinDate, dateutil.MaxDate)
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil", got)
	}
}

func TestFindRightIndex_NoMatchSentinel(t *testing.T) {
	events := datedEvents(dateutil.Date(2025, 1, 5), dateutil.Date(2025, 1, 6))
	if got := FindRightIndex(events, dateutil.Date(2025, 1, 4), 0); got != -1 {
		t.Errorf("got %d, want -1", got)
	}
	if got := FindRightIndex(events, dateutil.Date(2025, 1, 5), 1); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
	if got := FindLeftIndex(events, dateutil.Date(2025, 2, 1)); got != 2 {
		t.Errorf("FindLeftIndex past end = %d, want 2", got)
	}
}

package schedule

import (
	"sort"
	"time"
)

// Dated is anything anchored to a calendar date.
type Dated interface {
	Date() time.Time
}

// EventsBetweenDates returns a copy of the run of events whose date lies in
// [left, right]. events must be sorted by date. The result is never nil.
func EventsBetweenDates[E Dated](events []E, left, right time.Time) []E {
	n := len(events)
	if n == 0 || events[0].Date().After(right) || events[n-1].Date().Before(left) {
		return []E{}
	}
	lo := FindLeftIndex(events, left)
	hi := FindRightIndex(events, right, lo)
	if lo > hi {
		return []E{}
	}
	out := make([]E, hi-lo+1)
	copy(out, events[lo:hi+1])
	return out
}

// FindLeftIndex returns the smallest index whose date is on or after left,
// or len(events) if there is none.
func FindLeftIndex[E Dated](events []E, left time.Time) int {
	return sort.Search(len(events), func(i int) bool {
		return !events[i].Date().Before(left)
	})
}

// FindRightIndex returns the largest index at or after from whose date is on
// or before right. It returns from-1 when events[from] is already after
// right.
func FindRightIndex[E Dated](events []E, right time.Time, from int) int {
	if from >= len(events) {
		return from - 1
	}
	tail := events[from:]
	return from + sort.Search(len(tail), func(i int) bool {
		return tail[i].Date().After(right)
	}) - 1
}

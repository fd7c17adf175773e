package event

import (
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/almanac/internal/timespan"
)

// MultiEvent is a DateEvent that stands for several same-day entries at
// once, such as two holidays falling on the same date.
type MultiEvent struct {
	DateEvent
	otherNames []string
}

// NewMultiEvent creates a MultiEvent with no linked names.
func NewMultiEvent(name string, date time.Time, start, end timespan.Clock) *MultiEvent {
	return &MultiEvent{DateEvent: *NewDateEvent(name, date, start, end)}
}

// NewFullDayMultiEvent creates a MultiEvent covering the whole of date.
func NewFullDayMultiEvent(name string, date time.Time) *MultiEvent {
	return NewMultiEvent(name, date, timespan.Midnight, timespan.EndOfDay)
}

// OtherNames returns a copy of the linked names, in link order.
func (e *MultiEvent) OtherNames() []string {
	return slices.Clone(e.otherNames)
}

// Names returns the event name followed by its linked names.
func (e *MultiEvent) Names() []string {
	return append([]string{e.name}, e.otherNames...)
}

// HasLinks reports whether other events have been folded into e.
func (e *MultiEvent) HasLinks() bool { return len(e.otherNames) > 0 }

// MergedName joins all names with ", ".
func (e *MultiEvent) MergedName() string {
	return strings.Join(e.Names(), ", ")
}

// AddLink folds other into e: other's name, then its own linked names, are
// appended to e's linked names. other is not modified.
func (e *MultiEvent) AddLink(other *MultiEvent) {
	e.otherNames = append(e.otherNames, other.name)
	e.otherNames = append(e.otherNames, other.otherNames...)
}

// Split reverses AddLink: it returns one new event per linked name, with e's
// date and span, and clears e's linked names. e keeps its own name.
func (e *MultiEvent) Split() []*MultiEvent {
	out := make([]*MultiEvent, 0, len(e.otherNames))
	for _, name := range e.otherNames {
		out = append(out, NewMultiEvent(name, e.date, e.start, e.end))
	}
	e.otherNames = nil
	return out
}

// Clone returns a deep copy of e.
func (e *MultiEvent) Clone() *MultiEvent {
	c := *e
	c.otherNames = slices.Clone(e.otherNames)
	return &c
}

// Equal reports whether both events have the same name, date, span and
// linked names.
func (e *MultiEvent) Equal(o *MultiEvent) bool {
	return e.DateEvent.Equal(&o.DateEvent) && slices.Equal(e.otherNames, o.otherNames)
}

// CompareMultiEvents orders multi events like DateEvent.Compare.
func CompareMultiEvents(a, b *MultiEvent) int {
	return a.DateEvent.Compare(&b.DateEvent)
}

// MergeEvents folds every run of same-date events into its first member.
// events must be sorted by date. The input and its events are not modified.
func MergeEvents(events []*MultiEvent) []*MultiEvent {
	out := make([]*MultiEvent, len(events))
	for i, e := range events {
		out[i] = e.Clone()
	}
	for i := len(out) - 1; i > 0; i-- {
		if out[i-1].date.Equal(out[i].date) {
			out[i-1].AddLink(out[i])
			out = slices.Delete(out, i, i+1)
		}
	}
	return out
}

// SplitEvents expands every merged event back into one event per name. Each
// event is followed by the events split from it. The input and its events
// are not modified.
func SplitEvents(events []*MultiEvent) []*MultiEvent {
	out := make([]*MultiEvent, 0, len(events))
	for _, e := range events {
		c := e.Clone()
		split := c.Split()
		out = append(out, c)
		out = append(out, split...)
	}
	return out
}

// MergeOrSplitEvents merges events when merge is true and splits them
// otherwise.
func MergeOrSplitEvents(events []*MultiEvent, merge bool) []*MultiEvent {
	if merge {
		return MergeEvents(events)
	}
	return SplitEvents(events)
}

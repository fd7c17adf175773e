// Package schedule holds a person's commitments and answers calendar queries
// over them.
//
// A Container keeps date events and recurring events in two sorted
// sequences. Recurring events are also indexed by RepeatKey; every recurring
// event lives in both structures, and the only way in or out is through the
// Container's methods, which update both at once.
//
// A Container is not safe for concurrent use.
package schedule

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
)

// Container owns a set of date events and recurring events.
type Container struct {
	dateEvents   []*event.DateEvent
	repeatEvents []*event.RepeatEvent
	repeatIndex  map[event.RepeatKey][]*event.RepeatEvent
}

// New returns an empty Container.
func New() *Container {
	return &Container{repeatIndex: make(map[event.RepeatKey][]*event.RepeatEvent)}
}

// AddDateEvent inserts e after any events that compare equal to it.
func (c *Container) AddDateEvent(e *event.DateEvent) {
	c.dateEvents = insertSorted(c.dateEvents, e, event.CompareDateEvents)
}

// AddRepeatEvent inserts e into the sorted sequence and its key's bucket.
func (c *Container) AddRepeatEvent(e *event.RepeatEvent) {
	c.repeatEvents = insertSorted(c.repeatEvents, e, event.CompareRepeatEvents)
	c.repeatIndex[e.Key()] = insertSorted(c.repeatIndex[e.Key()], e, event.CompareRepeatEvents)
}

// Add inserts a date or recurring event.
func (c *Container) Add(e event.Event) {
	switch e := e.(type) {
	case *event.DateEvent:
		c.AddDateEvent(e)
	case *event.MultiEvent:
		c.AddDateEvent(&e.DateEvent)
	case *event.RepeatEvent:
		c.AddRepeatEvent(e)
	}
}

// RemoveDateEvent removes the first stored event equal to e by name, date
// and span. It reports false if there is none.
func (c *Container) RemoveDateEvent(e *event.DateEvent) bool {
	lo := lowerBound(c.dateEvents, e, event.CompareDateEvents)
	for i := lo; i < len(c.dateEvents) && c.dateEvents[i].Compare(e) == 0; i++ {
		if c.dateEvents[i].Equal(e) {
			c.dateEvents = slices.Delete(c.dateEvents, i, i+1)
			return true
		}
	}
	return false
}

// RemoveRepeatEvent removes the first stored event equal to e by name, key
// and span. It reports false if there is none.
//
// It panics if the event is found in its bucket but not in the sorted
// sequence, since that means the Container has been corrupted.
func (c *Container) RemoveRepeatEvent(e *event.RepeatEvent) bool {
	key := e.Key()
	bucket := c.repeatIndex[key]
	i := slices.IndexFunc(bucket, e.Equal)
	if i < 0 {
		return false
	}
	target := bucket[i]
	if bucket = slices.Delete(bucket, i, i+1); len(bucket) == 0 {
		delete(c.repeatIndex, key)
	} else {
		c.repeatIndex[key] = bucket
	}

	lo := lowerBound(c.repeatEvents, target, event.CompareRepeatEvents)
	for j := lo; j < len(c.repeatEvents) && c.repeatEvents[j].Compare(target) == 0; j++ {
		if c.repeatEvents[j] == target {
			c.repeatEvents = slices.Delete(c.repeatEvents, j, j+1)
			return true
		}
	}
	panic("schedule: repeat index out of sync with repeat events")
}

// Remove removes a date or recurring event.
func (c *Container) Remove(e event.Event) bool {
	switch e := e.(type) {
	case *event.DateEvent:
		return c.RemoveDateEvent(e)
	case *event.MultiEvent:
		return c.RemoveDateEvent(&e.DateEvent)
	case *event.RepeatEvent:
		return c.RemoveRepeatEvent(e)
	}
	return false
}

// SetDateEvents replaces every date event. events need not be sorted.
func (c *Container) SetDateEvents(events []*event.DateEvent) {
	c.dateEvents = slices.Clone(events)
	slices.SortStableFunc(c.dateEvents, event.CompareDateEvents)
}

// SetRepeatEvents replaces every recurring event and rebuilds the index.
// events need not be sorted.
func (c *Container) SetRepeatEvents(events []*event.RepeatEvent) {
	c.repeatEvents = slices.Clone(events)
	slices.SortStableFunc(c.repeatEvents, event.CompareRepeatEvents)
	c.repeatIndex = make(map[event.RepeatKey][]*event.RepeatEvent)
	for _, e := range c.repeatEvents {
		c.repeatIndex[e.Key()] = append(c.repeatIndex[e.Key()], e)
	}
}

// Clear removes every event.
func (c *Container) Clear() {
	c.dateEvents = nil
	c.repeatEvents = nil
	c.repeatIndex = make(map[event.RepeatKey][]*event.RepeatEvent)
}

// DateEvents returns a copy of the sorted date events.
func (c *Container) DateEvents() []*event.DateEvent {
	return append([]*event.DateEvent{}, c.dateEvents...)
}

// RepeatEvents returns a copy of the sorted recurring events.
func (c *Container) RepeatEvents() []*event.RepeatEvent {
	return append([]*event.RepeatEvent{}, c.repeatEvents...)
}

// Events returns the recurring events followed by the date events.
func (c *Container) Events() []event.Event {
	out := make([]event.Event, 0, c.Len())
	for _, e := range c.repeatEvents {
		out = append(out, e)
	}
	for _, e := range c.dateEvents {
		out = append(out, e)
	}
	return out
}

// Len returns the total number of events.
func (c *Container) Len() int { return len(c.dateEvents) + len(c.repeatEvents) }

// DateLen returns the number of date events.
func (c *Container) DateLen() int { return len(c.dateEvents) }

// RepeatLen returns the number of recurring events.
func (c *Container) RepeatLen() int { return len(c.repeatEvents) }

// DateEvent returns the i-th date event in sorted order. It panics if i is
// out of range.
func (c *Container) DateEvent(i int) *event.DateEvent { return c.dateEvents[i] }

// RepeatEvent returns the i-th recurring event in sorted order. It panics if
// i is out of range.
func (c *Container) RepeatEvent(i int) *event.RepeatEvent { return c.repeatEvents[i] }

// DateEventsContain reports whether a date event is named name.
func (c *Container) DateEventsContain(name string) bool {
	return event.Contains(c.dateEvents, name)
}

// RepeatEventsContain reports whether a recurring event is named name.
func (c *Container) RepeatEventsContain(name string) bool {
	return event.Contains(c.repeatEvents, name)
}

// Search returns every event whose name contains query, ignoring case,
// recurring events first.
func (c *Container) Search(query string) []event.Event {
	return event.Search(c.Events(), strings.TrimSpace(query))
}

// DateEventsBetween returns the date events dated within [start, end].
func (c *Container) DateEventsBetween(start, end time.Time) []*event.DateEvent {
	return EventsBetweenDates(c.dateEvents, dateutil.TruncateToDay(start), dateutil.TruncateToDay(end))
}

// DateEventsForDate returns the date events on date.
func (c *Container) DateEventsForDate(date time.Time) []*event.DateEvent {
	return c.DateEventsBetween(date, date)
}

// DateEventsForMonth returns the date events in the given month.
func (c *Container) DateEventsForMonth(year int, month time.Month) []*event.DateEvent {
	return c.DateEventsBetween(dateutil.FirstOfMonth(year, month), dateutil.LastOfMonth(year, month))
}

// RepeatEventsForDate returns the recurring events that occur on date:
// the weekly bucket for its weekday, then the monthly bucket for its day.
func (c *Container) RepeatEventsForDate(date time.Time) []*event.RepeatEvent {
	out := make([]*event.RepeatEvent, 0)
	for _, key := range event.KeysForDate(date) {
		out = append(out, c.repeatIndex[key]...)
	}
	return out
}

// EventsForDate returns every event occurring on date, recurring first.
func (c *Container) EventsForDate(date time.Time) []event.Event {
	var out []event.Event
	for _, e := range c.RepeatEventsForDate(date) {
		out = append(out, e)
	}
	for _, e := range c.DateEventsForDate(date) {
		out = append(out, e)
	}
	return out
}

// RepeatEventsBetween returns, in sorted order, every recurring event that
// occurs at least once in [start, end].
func (c *Container) RepeatEventsBetween(start, end time.Time) []*event.RepeatEvent {
	start, end = dateutil.TruncateToDay(start), dateutil.TruncateToDay(end)
	out := make([]*event.RepeatEvent, 0)
	if end.Before(start) {
		return out
	}
	for _, key := range c.keys() {
		if repeatKeyInRange(key, start, end) {
			out = append(out, c.repeatIndex[key]...)
		}
	}
	return out
}

// keys returns the index keys in event order.
func (c *Container) keys() []event.RepeatKey {
	keys := make([]event.RepeatKey, 0, len(c.repeatIndex))
	for k := range c.repeatIndex {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, event.RepeatKey.Compare)
	return keys
}

func insertSorted[E any](events []E, e E, cmp func(a, b E) int) []E {
	i := sort.Search(len(events), func(i int) bool {
		return cmp(events[i], e) > 0
	})
	return slices.Insert(events, i, e)
}

func lowerBound[E any](events []E, e E, cmp func(a, b E) int) int {
	return sort.Search(len(events), func(i int) bool {
		return cmp(events[i], e) >= 0
	})
}

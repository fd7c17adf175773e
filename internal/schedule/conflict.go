package schedule

import "github.com/javiermolinar/almanac/internal/event"

// Conflict is a pair of date events whose time spans overlap.
type Conflict struct {
	First  *event.DateEvent
	Second *event.DateEvent
}

// HasDateEventConflict reports whether any two date events overlap.
// Touching endpoints count as overlapping.
//
// Only adjacent events are compared: events are sorted by start instant, so
// if any event overlaps a later one it also overlaps its immediate successor.
func (c *Container) HasDateEventConflict() bool {
	for i := 1; i < len(c.dateEvents); i++ {
		if c.dateEvents[i-1].Overlaps(c.dateEvents[i]) {
			return true
		}
	}
	return false
}

// Conflicts returns every overlapping pair, in start order. Each event is
// paired with the earlier event that reaches furthest into the day, so a
// long event overlapping several short ones is reported once per short one.
func (c *Container) Conflicts() []Conflict {
	out := make([]Conflict, 0)
	if len(c.dateEvents) == 0 {
		return out
	}
	reach := c.dateEvents[0]
	for _, next := range c.dateEvents[1:] {
		if reach.Overlaps(next) {
			out = append(out, Conflict{First: reach, Second: next})
		}
		if next.EndInstant().After(reach.EndInstant()) {
			reach = next
		}
	}
	return out
}

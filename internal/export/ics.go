// Package export writes a schedule as an iCalendar document.
//
// Recurring events become a single VEVENT with an RRULE anchored at their
// first occurrence on or after Options.From. They are never expanded.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/javiermolinar/almanac/internal/dateutil"
	"github.com/javiermolinar/almanac/internal/event"
	"github.com/javiermolinar/almanac/internal/schedule"
)

// ProductID identifies the generator in PRODID.
const ProductID = "-//almanac//almanac calendar//EN"

// floatingLayout is a DATE-TIME without a zone: the same wall time in every
// calendar that imports it.
const floatingLayout = "20060102T150405"

// uidNamespace scopes the name-based UIDs of exported events, so exporting
// the same schedule twice yields the same UIDs.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/javiermolinar/almanac"))

var isoWeekdays = [...]rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU}

// Options controls an export.
type Options struct {
	// From anchors recurring events. Zero means today.
	From time.Time
	// Holidays are exported as all-day events when set.
	Holidays []*event.MultiEvent
	// Now stamps DTSTAMP. Nil means time.Now.
	Now func() time.Time
}

// Calendar builds the iCalendar document for c.
func Calendar(c *schedule.Container, opts Options) *ical.Calendar {
	from := opts.From
	if from.IsZero() {
		from = dateutil.Today()
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	stamp := now().UTC()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	ids := uidSet{}
	for _, e := range c.DateEvents() {
		addDateEvent(cal, ids, e, stamp)
	}
	for _, e := range c.RepeatEvents() {
		addRepeatEvent(cal, ids, e, from, stamp)
	}
	for _, h := range opts.Holidays {
		ve := cal.AddEvent(ids.next("holiday", h.MergedName(), h.Date().Format(dateutil.DateLayout)))
		ve.SetDtStampTime(stamp)
		ve.SetSummary(h.MergedName())
		ve.SetAllDayStartAt(h.Date())
		ve.SetAllDayEndAt(h.Date().AddDate(0, 0, 1))
		ve.SetProperty(ical.ComponentPropertyCategories, "Holiday")
	}
	return cal
}

// Write serializes the iCalendar document for c to w.
func Write(w io.Writer, c *schedule.Container, opts Options) error {
	if _, err := io.WriteString(w, Calendar(c, opts).Serialize()); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	return nil
}

// RRule returns the recurrence rule of a repeat key, e.g.
// "FREQ=WEEKLY;BYDAY=MO" or "FREQ=MONTHLY;BYMONTHDAY=31".
func RRule(key event.RepeatKey) string {
	opt := rrule.ROption{}
	switch key.Unit {
	case event.UnitWeek:
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{isoWeekdays[key.DayOf-1]}
	default:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = []int{key.DayOf}
	}
	return opt.RRuleString()
}

func addDateEvent(cal *ical.Calendar, ids uidSet, e *event.DateEvent, stamp time.Time) {
	date := e.Date().Format(dateutil.DateLayout)
	ve := cal.AddEvent(ids.next("date", e.Name(), date, e.Start().String(), e.End().String()))
	ve.SetDtStampTime(stamp)
	ve.SetSummary(e.Name())
	if e.IsFullDay() {
		ve.SetAllDayStartAt(e.Date())
		ve.SetAllDayEndAt(e.Date().AddDate(0, 0, 1))
		return
	}
	ve.SetProperty(ical.ComponentPropertyDtStart, e.StartInstant().Format(floatingLayout))
	ve.SetProperty(ical.ComponentPropertyDtEnd, e.EndInstant().Format(floatingLayout))
}

func addRepeatEvent(cal *ical.Calendar, ids uidSet, e *event.RepeatEvent, from, stamp time.Time) {
	first := e.NextOccurrence(from)
	ve := cal.AddEvent(ids.next("repeat", e.Name(), e.Unit().String(), strconv.Itoa(e.DayOf()), e.Start().String(), e.End().String()))
	ve.SetDtStampTime(stamp)
	ve.SetSummary(e.Name())
	if e.IsFullDay() {
		ve.SetAllDayStartAt(first)
		ve.SetAllDayEndAt(first.AddDate(0, 0, 1))
	} else {
		ve.SetProperty(ical.ComponentPropertyDtStart, e.Start().On(first).Format(floatingLayout))
		ve.SetProperty(ical.ComponentPropertyDtEnd, e.End().On(first).Format(floatingLayout))
	}
	ve.SetProperty(ical.ComponentPropertyRrule, RRule(e.Key()))
}

// uidSet derives UIDs from event identities. Identical events get their
// ordinal appended from the second one on, so each keeps a distinct UID.
type uidSet map[string]int

func (s uidSet) next(parts ...string) string {
	key := strings.Join(parts, "\x00")
	n := s[key]
	s[key] = n + 1
	if n > 0 {
		key += "\x00" + strconv.Itoa(n)
	}
	return uuid.NewSHA1(uidNamespace, []byte(key)).String() + "@almanac"
}

// Package events resolves event dates and derives the list, month and day
// views of the events page. Every function here is pure: inputs are never
// mutated and nothing is cached between calls.
package events

import (
	"errors"
	"strings"
	"time"

	"springwell/internal/model"
)

// ErrUnresolvable means no rule could turn a record's date fields into an
// instant. Such records are excluded from all date-based views.
var ErrUnresolvable = errors.New("event date is unresolvable")

var monthsByName = map[string]time.Month{
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// Offset forms besides RFC 3339 proper.
var offsetLayouts = []string{
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
}

// Layouts without an offset are read in the caller's location.
var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// Resolve returns the canonical start instant of rec.
//
// A parsable "start" wins. Otherwise startMonth/startDay/startYear are
// combined into the start of that date in loc. Anything else, including an
// impossible date such as April 31, yields ErrUnresolvable.
func Resolve(rec model.EventRecord, loc *time.Location) (time.Time, error) {
	t, _, err := resolve(rec, loc)
	return t, err
}

func resolve(rec model.EventRecord, loc *time.Location) (time.Time, model.ResolutionRule, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, ok := ParseInstant(rec.Start, loc); ok {
		return t, model.ResolvedFromISO, nil
	}
	if t, ok := fromComponents(rec, loc); ok {
		return t, model.ResolvedFromComponents, nil
	}
	return time.Time{}, "", ErrUnresolvable
}

// ParseInstant parses the ISO-8601 forms found in events.json.
// A bare date is UTC midnight; a date-time without offset is read in loc.
func ParseInstant(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func fromComponents(rec model.EventRecord, loc *time.Location) (time.Time, bool) {
	month, ok := monthsByName[strings.ToLower(rec.StartMonth)]
	if !ok || rec.StartYear == nil || rec.StartDay == nil {
		return time.Time{}, false
	}
	year, day := *rec.StartYear, *rec.StartDay
	if year <= 0 || day < 1 {
		return time.Time{}, false
	}

	// time.Date normalizes overflow (April 31 -> May 1); reject instead.
	if c := time.Date(year, month, day, 0, 0, 0, 0, time.UTC); c.Day() != day || c.Month() != month {
		return time.Time{}, false
	}
	return model.DayStart(year, month, day, loc), true
}

// ResolveAll resolves a batch of records, keeping input order. It returns
// the resolvable events and how many records were dropped.
func ResolveAll(records []model.EventRecord, loc *time.Location) ([]model.ResolvedEvent, int) {
	out := make([]model.ResolvedEvent, 0, len(records))
	dropped := 0
	for _, rec := range records {
		ev, err := resolveEvent(rec, loc)
		if err != nil {
			dropped++
			continue
		}
		out = append(out, ev)
	}
	return out, dropped
}

func resolveEvent(rec model.EventRecord, loc *time.Location) (model.ResolvedEvent, error) {
	start, rule, err := resolve(rec, loc)
	if err != nil {
		return model.ResolvedEvent{}, err
	}
	ev := model.ResolvedEvent{
		Record: rec,
		Start:  start,
		Rule:   rule,
	}
	if end, ok := ParseInstant(rec.End, loc); ok {
		ev.End = &end
	}
	return ev, nil
}

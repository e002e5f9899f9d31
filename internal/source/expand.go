package source

import (
	"errors"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	appLog "springwell/internal/log"
	"springwell/internal/model"
)

const defaultMaxOccurrencesPerEvent = 5000

// ExpandConfig controls how recurrence expansion is performed.
type ExpandConfig struct {
	// Location is the zone all-day dates are expressed in. Nil means time.Local.
	Location *time.Location

	// RangeStart / RangeEnd bound recurring occurrences (inclusive).
	// Non-recurring events are always kept.
	RangeStart time.Time
	RangeEnd   time.Time

	// MaxOccurrencesPerEvent caps a single RRULE. Zero means
	// defaultMaxOccurrencesPerEvent.
	MaxOccurrencesPerEvent int
}

// ExpandResult wraps the produced records and the UIDs that hit the cap.
type ExpandResult struct {
	Records         []model.EventRecord
	TruncatedEvents []string
}

// Expand turns parsed VEVENTs into event records:
//
//   - a non-recurring VEVENT becomes one record with ID = UID
//   - a recurring VEVENT becomes one record per occurrence inside the range,
//     with ID "<uid>@<RFC3339 start>"; EXDATEs are removed and
//     RECURRENCE-ID overrides replace the matching occurrence
//   - all-day VEVENTs carry component dates (month name, day, year) so the
//     resolver places them at local midnight
func Expand(events []ParsedEvent, cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.RangeEnd.Before(cfg.RangeStart) {
		return result, errors.New("expand: RangeEnd is before RangeStart")
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.MaxOccurrencesPerEvent <= 0 {
		cfg.MaxOccurrencesPerEvent = defaultMaxOccurrencesPerEvent
	}

	baseByUID := make(map[string][]ParsedEvent)
	overridesByUID := make(map[string][]ParsedEvent)
	uids := make([]string, 0)

	for _, ev := range events {
		if _, seen := baseByUID[ev.UID]; !seen {
			if _, seenOv := overridesByUID[ev.UID]; !seenOv {
				uids = append(uids, ev.UID)
			}
		}
		if ev.IsOverride && ev.Recurrence != nil {
			overridesByUID[ev.UID] = append(overridesByUID[ev.UID], ev)
		} else {
			baseByUID[ev.UID] = append(baseByUID[ev.UID], ev)
		}
	}
	sort.Strings(uids)

	result.Records = make([]model.EventRecord, 0, len(events))

	for _, uid := range uids {
		bases := baseByUID[uid]
		ov := overridesByUID[uid]

		// Overrides without a base are standalone instances.
		if len(bases) == 0 {
			for _, o := range ov {
				result.Records = append(result.Records, toRecord(o, o.Start, o.End, instanceID(o.UID, *o.Recurrence), cfg.Location))
			}
			continue
		}

		truncated := false
		for _, ev := range bases {
			if ev.RawRRule == "" {
				result.Records = append(result.Records, toRecord(ev, ev.Start, ev.End, ev.UID, cfg.Location))
				continue
			}
			recs, hitCap := expandRecurring(ev, ov, cfg)
			truncated = truncated || hitCap
			result.Records = append(result.Records, recs...)
		}

		if truncated {
			result.TruncatedEvents = append(result.TruncatedEvents, uid)
			appLog.Warn("expand: truncated occurrences for UID due to cap",
				"uid", uid,
				"cap", cfg.MaxOccurrencesPerEvent,
			)
		}
	}

	return result, nil
}

func expandRecurring(ev ParsedEvent, overrides []ParsedEvent, cfg ExpandConfig) ([]model.EventRecord, bool) {
	out := make([]model.EventRecord, 0)

	opt, err := rrule.StrToROption(ev.RawRRule)
	if err != nil {
		appLog.Error("expand: failed to parse RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return out, false
	}
	opt.Dtstart = ev.Start
	r, err := rrule.NewRRule(*opt)
	if err != nil {
		appLog.Error("expand: invalid RRULE", err, "uid", ev.UID, "rrule", ev.RawRRule)
		return out, false
	}

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	occTimes := set.Between(cfg.RangeStart.In(ev.Start.Location()), cfg.RangeEnd.In(ev.Start.Location()), true)

	hitCap := false
	if len(occTimes) > cfg.MaxOccurrencesPerEvent {
		occTimes = occTimes[:cfg.MaxOccurrencesPerEvent]
		hitCap = true
	}

	dur := ev.End.Sub(ev.Start)
	for _, occStart := range occTimes {
		id := instanceID(ev.UID, occStart)
		if o, ok := findOverride(overrides, occStart); ok {
			out = append(out, toRecord(o, o.Start, o.End, id, cfg.Location))
			continue
		}
		out = append(out, toRecord(ev, occStart, occStart.Add(dur), id, cfg.Location))
	}

	return out, hitCap
}

// findOverride finds an override whose RECURRENCE-ID equals start.
func findOverride(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, ov := range overrides {
		if ov.Recurrence != nil && ov.Recurrence.Equal(start) {
			return ov, true
		}
	}
	return ParsedEvent{}, false
}

func instanceID(uid string, start time.Time) string {
	return uid + "@" + start.UTC().Format(time.RFC3339)
}

func toRecord(ev ParsedEvent, start, end time.Time, id string, loc *time.Location) model.EventRecord {
	rec := model.EventRecord{
		ID:          id,
		Title:       ev.Summary,
		Description: ev.Description,
		Location:    ev.Location,
	}

	if ev.AllDay {
		day := start.In(loc)
		y, d := day.Year(), day.Day()
		rec.StartMonth = day.Month().String()
		rec.StartDay = &d
		rec.StartYear = &y
		return rec
	}

	rec.Start = start.UTC().Format(time.RFC3339)
	if end.After(start) {
		rec.End = end.UTC().Format(time.RFC3339)
	}
	return rec
}

package events

import (
	"slices"
	"time"

	"springwell/internal/model"
)

// CellEventLimit is how many events a month cell shows before collapsing
// the rest into a "+N more" marker.
const CellEventLimit = 3

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{y, m, d}
}

// BuildMonthGrid lays out target as 42 consecutive days starting on the
// Sunday on or before the 1st, with every resolvable event bucketed into the
// day (in loc) it starts on.
func BuildMonthGrid(records []model.EventRecord, target model.YearMonth, loc *time.Location) model.MonthGrid {
	if loc == nil {
		loc = time.Local
	}

	// Day arithmetic runs on UTC civil dates; loc can skip a midnight.
	first := time.Date(target.Year, target.Month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(first.Weekday()) // Sunday == 0

	buckets := bucketByDay(records, loc)

	grid := model.MonthGrid{Target: target}
	for i := range model.GridCells {
		civil := time.Date(target.Year, target.Month, 1-offset+i, 0, 0, 0, 0, time.UTC)
		k := keyOf(civil)
		evs := buckets[k]
		if evs == nil {
			evs = []model.ResolvedEvent{}
		}
		grid.Cells[i] = model.MonthCell{
			Date:    model.DayStart(k.year, k.month, k.day, loc),
			Events:  evs,
			InMonth: target.Contains(civil),
		}
	}
	return grid
}

// EventsOn returns the events starting on the calendar day of day (in loc),
// earliest first.
func EventsOn(records []model.EventRecord, day time.Time, loc *time.Location) []model.ResolvedEvent {
	if loc == nil {
		loc = time.Local
	}
	evs := bucketByDay(records, loc)[keyOf(day.In(loc))]
	if evs == nil {
		return []model.ResolvedEvent{}
	}
	return evs
}

func bucketByDay(records []model.EventRecord, loc *time.Location) map[dayKey][]model.ResolvedEvent {
	resolved, _ := ResolveAll(records, loc)

	buckets := make(map[dayKey][]model.ResolvedEvent)
	for _, ev := range resolved {
		k := keyOf(ev.Start.In(loc))
		buckets[k] = append(buckets[k], ev)
	}
	for _, evs := range buckets {
		slices.SortStableFunc(evs, byStartAsc)
	}
	return buckets
}

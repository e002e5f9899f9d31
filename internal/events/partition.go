package events

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"springwell/internal/model"
)

// folder is stateless and safe for concurrent use.
var folder = cases.Fold()

// Matches reports whether query occurs, case-insensitively, in the
// record's title, description or location. An empty (or blank) query
// matches everything.
func Matches(rec model.EventRecord, query string) bool {
	q := strings.TrimSpace(query)
	if q == "" {
		return true
	}
	text := rec.Title + " " + rec.Description + " " + rec.Location
	return strings.Contains(folder.String(text), folder.String(q))
}

// Partition splits the resolvable records matching query into upcoming
// (start >= now, soonest first) and past (most recent first).
func Partition(records []model.EventRecord, now time.Time, query string, loc *time.Location) model.Partition {
	resolved, dropped := ResolveAll(records, loc)

	p := model.Partition{
		Upcoming:     []model.ResolvedEvent{},
		Past:         []model.ResolvedEvent{},
		Unresolvable: dropped,
	}
	for _, ev := range resolved {
		if !Matches(ev.Record, query) {
			p.Filtered++
			continue
		}
		if ev.Start.Before(now) {
			p.Past = append(p.Past, ev)
		} else {
			p.Upcoming = append(p.Upcoming, ev)
		}
	}

	slices.SortStableFunc(p.Upcoming, byStartAsc)
	slices.SortStableFunc(p.Past, func(a, b model.ResolvedEvent) int {
		return byStartAsc(b, a)
	})
	return p
}

func byStartAsc(a, b model.ResolvedEvent) int {
	return a.Start.Compare(b.Start)
}

// Package services computes upcoming recurring worship service times.
package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"springwell/internal/config"
	"springwell/internal/model"
)

// Occurrence is one upcoming service.
type Occurrence struct {
	Name     string    `json:"name"`
	Location string    `json:"location,omitempty"`
	Start    time.Time `json:"start"`
}

type service struct {
	name     string
	location string
	opt      rrule.ROption
}

// Schedule holds validated recurrence rules.
type Schedule struct {
	loc      *time.Location
	services []service
}

// ErrUnanchored is returned for a COUNT or INTERVAL>1 rule without DTSTART.
var ErrUnanchored = errors.New("COUNT and INTERVAL need a DTSTART")

// NewSchedule parses every configured rule. Rules are evaluated in loc, so
// BYHOUR=13 means 13:00 site time across DST changes. A rule may carry its
// own anchor ("DTSTART:20250105T130000\nRRULE:..." or a DTSTART= part);
// without one it repeats from the start of the current day.
func NewSchedule(cfgs []config.ServiceConfig, loc *time.Location) (*Schedule, error) {
	if loc == nil {
		loc = time.Local
	}
	s := &Schedule{loc: loc, services: make([]service, 0, len(cfgs))}
	for _, c := range cfgs {
		opt, err := rrule.StrToROptionInLocation(c.RRule, loc)
		if err != nil {
			return nil, fmt.Errorf("service %q: %w", c.Name, err)
		}
		if opt.Dtstart.IsZero() && (opt.Count > 0 || opt.Interval > 1) {
			return nil, fmt.Errorf("service %q: %w", c.Name, ErrUnanchored)
		}
		if _, err := rrule.NewRRule(*opt); err != nil {
			return nil, fmt.Errorf("service %q: %w", c.Name, err)
		}
		s.services = append(s.services, service{name: c.Name, location: c.Location, opt: *opt})
	}
	return s, nil
}

// Next returns the next n occurrences at or after now across all services,
// ascending by start.
func (s *Schedule) Next(now time.Time, n int) []Occurrence {
	out := make([]Occurrence, 0)
	if n <= 0 {
		return out
	}

	local := now.In(s.loc)
	today := model.DayStart(local.Year(), local.Month(), local.Day(), s.loc)

	for _, svc := range s.services {
		opt := svc.opt
		if opt.Dtstart.IsZero() {
			opt.Dtstart = today
		}
		r, err := rrule.NewRRule(opt)
		if err != nil {
			continue
		}
		next := r.Iterator()
		for count := 0; count < n; {
			t, ok := next()
			if !ok {
				break
			}
			if t.Before(now) {
				continue
			}
			out = append(out, Occurrence{Name: svc.name, Location: svc.location, Start: t})
			count++
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

package model

import (
	"fmt"
	"time"
)

// MonthOf returns the calendar month t falls in, as seen from loc.
func MonthOf(t time.Time, loc *time.Location) YearMonth {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	return YearMonth{Year: lt.Year(), Month: lt.Month()}
}

// ParseYearMonth parses "2006-01".
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", s, err)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// DayStart is the first instant of the calendar date year-month-day in loc.
// Where a DST jump skips midnight the day begins at the transition, so the
// result always falls on the requested date.
func DayStart(year int, month time.Month, day int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	wy, wm, wd := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	t := time.Date(wy, wm, wd, 0, 0, 0, 0, loc)
	if y, m, d := t.Date(); y != wy || m != wm || d != wd {
		if _, end := t.ZoneBounds(); !end.IsZero() {
			t = end
		}
	}
	return t
}

// First is the start of the 1st of the month in loc.
func (ym YearMonth) First(loc *time.Location) time.Time {
	return DayStart(ym.Year, ym.Month, 1, loc)
}

func (ym YearMonth) Next() YearMonth {
	return ym.add(1)
}

func (ym YearMonth) Prev() YearMonth {
	return ym.add(-1)
}

func (ym YearMonth) add(n int) YearMonth {
	t := time.Date(ym.Year, ym.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether the calendar date of t (in its own location)
// lies in this month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

package events

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springwell/internal/model"
)

func intPtr(n int) *int { return &n }

var chicago = time.FixedZone("CST", -6*3600)

func TestResolve_PrefersISOStart(t *testing.T) {
	rec := model.EventRecord{
		ID:         "1",
		Start:      "2025-09-07T10:30:00-05:00",
		StartMonth: "January",
		StartDay:   intPtr(1),
		StartYear:  intPtr(2020),
	}

	got, err := Resolve(rec, chicago)
	require.NoError(t, err)

	want := time.Date(2025, time.September, 7, 15, 30, 0, 0, time.UTC)
	assert.True(t, want.Equal(got), "got %s", got)
}

func TestResolve_ComponentFallback(t *testing.T) {
	rec := model.EventRecord{StartMonth: "March", StartDay: intPtr(5), StartYear: intPtr(2024)}

	got, err := Resolve(rec, nil)
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.Local).Equal(got))

	got, err = Resolve(rec, chicago)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, chicago), got)
}

func TestResolve_ComponentDateWithoutMidnight(t *testing.T) {
	tests := []struct {
		zone  string
		month string
		day   int
		year  int
	}{
		{"America/Havana", "March", 10, 2024},
		{"America/Sao_Paulo", "November", 4, 2018},
	}

	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			loc, err := time.LoadLocation(tt.zone)
			require.NoError(t, err)

			rec := model.EventRecord{StartMonth: tt.month, StartDay: intPtr(tt.day), StartYear: intPtr(tt.year)}
			got, err := Resolve(rec, loc)
			require.NoError(t, err)

			// Clocks jump from 00:00 to 01:00, so the day starts at 01:00.
			assert.Equal(t, tt.day, got.Day())
			assert.Equal(t, tt.month, got.Month().String())
			assert.Equal(t, 1, got.Hour())
		})
	}
}

func TestResolve_UnparsableStartFallsThrough(t *testing.T) {
	rec := model.EventRecord{
		Start:      "next sunday",
		StartMonth: "MARCH",
		StartDay:   intPtr(5),
		StartYear:  intPtr(2024),
	}

	got, err := Resolve(rec, chicago)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, chicago), got)
}

func TestResolve_Unresolvable(t *testing.T) {
	tests := []struct {
		name string
		rec  model.EventRecord
	}{
		{"no date at all", model.EventRecord{Title: "x"}},
		{"garbage start only", model.EventRecord{Start: "soon"}},
		{"abbreviated month", model.EventRecord{StartMonth: "Mar", StartDay: intPtr(5), StartYear: intPtr(2024)}},
		{"unknown month", model.EventRecord{StartMonth: "Smarch", StartDay: intPtr(5), StartYear: intPtr(2024)}},
		{"missing day", model.EventRecord{StartMonth: "March", StartYear: intPtr(2024)}},
		{"missing year", model.EventRecord{StartMonth: "March", StartDay: intPtr(5)}},
		{"day zero", model.EventRecord{StartMonth: "March", StartDay: intPtr(0), StartYear: intPtr(2024)}},
		{"april 31st", model.EventRecord{StartMonth: "April", StartDay: intPtr(31), StartYear: intPtr(2024)}},
		{"feb 29th non leap", model.EventRecord{StartMonth: "February", StartDay: intPtr(29), StartYear: intPtr(2023)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.rec, chicago)
			assert.True(t, errors.Is(err, ErrUnresolvable), "err = %v", err)
		})
	}
}

func TestParseInstant_Forms(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-09-07T10:30:00Z", time.Date(2025, 9, 7, 10, 30, 0, 0, time.UTC)},
		{"2025-09-07T10:30:00.250+00:00", time.Date(2025, 9, 7, 10, 30, 0, 250e6, time.UTC)},
		{"2025-09-07T10:30:00", time.Date(2025, 9, 7, 10, 30, 0, 0, chicago)},
		{"2025-09-07T10:30", time.Date(2025, 9, 7, 10, 30, 0, 0, chicago)},
		{"2025-09-07", time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC)},
		{"  2025-09-07T10:30:00Z  ", time.Date(2025, 9, 7, 10, 30, 0, 0, time.UTC)},
		{"2025-09-07T10:30:00-0500", time.Date(2025, 9, 7, 15, 30, 0, 0, time.UTC)},
		{"2025-09-07T10:30-05:00", time.Date(2025, 9, 7, 15, 30, 0, 0, time.UTC)},
		{"2025-09-07 10:30:00", time.Date(2025, 9, 7, 10, 30, 0, 0, chicago)},
		{"2025-09-07 10:30", time.Date(2025, 9, 7, 10, 30, 0, 0, chicago)},
		{"2025-09-07 10:30:00+09:00", time.Date(2025, 9, 7, 1, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := ParseInstant(tt.in, chicago)
		require.True(t, ok, "input %q", tt.in)
		assert.True(t, tt.want.Equal(got), "input %q: got %s want %s", tt.in, got, tt.want)
	}

	for _, bad := range []string{"", "2025-13-01", "Sept 7", "2025-09-07T25:00:00Z"} {
		_, ok := ParseInstant(bad, chicago)
		assert.False(t, ok, "input %q", bad)
	}
}

func TestResolveAll(t *testing.T) {
	records := []model.EventRecord{
		{ID: "a", Start: "2025-01-02T00:00:00Z", End: "2025-01-02T02:00:00Z"},
		{ID: "b"},
		{ID: "c", StartMonth: "june", StartDay: intPtr(1), StartYear: intPtr(2025), End: "not a date"},
	}

	got, dropped := ResolveAll(records, chicago)
	require.Len(t, got, 2)
	assert.Equal(t, 1, dropped)

	assert.Equal(t, "a", got[0].Record.ID)
	assert.Equal(t, model.ResolvedFromISO, got[0].Rule)
	require.NotNil(t, got[0].End)
	assert.Equal(t, 2*time.Hour, got[0].End.Sub(got[0].Start))

	assert.Equal(t, "c", got[1].Record.ID)
	assert.Equal(t, model.ResolvedFromComponents, got[1].Rule)
	assert.Nil(t, got[1].End)

	// Input must be left untouched.
	assert.Equal(t, "not a date", records[2].End)
}

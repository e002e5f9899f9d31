package model

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearMonthNavigation(t *testing.T) {
	dec := YearMonth{Year: 2024, Month: time.December}

	assert.Equal(t, YearMonth{Year: 2025, Month: time.January}, dec.Next())
	assert.Equal(t, YearMonth{Year: 2024, Month: time.November}, dec.Prev())
	assert.Equal(t, YearMonth{Year: 2023, Month: time.December}, YearMonth{Year: 2024, Month: time.January}.Prev())
	assert.Equal(t, "2024-12", dec.String())
}

func TestParseYearMonth(t *testing.T) {
	ym, err := ParseYearMonth("2024-03")
	require.NoError(t, err)
	assert.Equal(t, YearMonth{Year: 2024, Month: time.March}, ym)

	_, err = ParseYearMonth("March 2024")
	assert.Error(t, err)
	_, err = ParseYearMonth("2024-13")
	assert.Error(t, err)
}

func TestMonthOf(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 2024-03-01T02:00Z is still February 29th five hours west of UTC.
	instant := time.Date(2024, time.March, 1, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, YearMonth{Year: 2024, Month: time.February}, MonthOf(instant, loc))
	assert.Equal(t, YearMonth{Year: 2024, Month: time.March}, MonthOf(instant, time.UTC))
}

func TestYearMonthFirstAndContains(t *testing.T) {
	ym := YearMonth{Year: 2024, Month: time.March}
	first := ym.First(time.UTC)

	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), first)
	assert.True(t, ym.Contains(first))
	assert.False(t, ym.Contains(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDayStart(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 10, 0, 0, 0, 0, chicago), DayStart(2024, time.March, 10, chicago))

	// Overflowing components are normalized like time.Date.
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), DayStart(2024, time.February, 30, time.UTC))
}

func TestDayStart_MidnightSkippedByDST(t *testing.T) {
	tests := []struct {
		zone  string
		year  int
		month time.Month
		day   int
	}{
		{"America/Havana", 2024, time.March, 10},
		{"America/Sao_Paulo", 2018, time.November, 4},
		{"America/Santiago", 2024, time.September, 8},
	}

	for _, tt := range tests {
		t.Run(tt.zone, func(t *testing.T) {
			loc, err := time.LoadLocation(tt.zone)
			require.NoError(t, err)

			got := DayStart(tt.year, tt.month, tt.day, loc)
			y, m, d := got.Date()
			assert.Equal(t, []int{tt.year, int(tt.month), tt.day}, []int{y, int(m), d})
			assert.Equal(t, 1, got.Hour(), "day begins when clocks jump to 01:00")

			// Nothing earlier on the same date exists.
			prev := got.Add(-time.Second)
			assert.NotEqual(t, tt.day, prev.Day())

			first := YearMonth{Year: tt.year, Month: tt.month}.First(loc)
			assert.Equal(t, 1, first.Day())
		})
	}
}

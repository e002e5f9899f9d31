package events

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springwell/internal/model"
)

func TestExportICS(t *testing.T) {
	records := []model.EventRecord{
		{ID: "svc-1", Title: "Sunday Service", Location: "Main Hall", Start: "2025-09-07T10:30:00-05:00", End: "2025-09-07T12:00:00-05:00"},
		{Title: "Picnic", StartMonth: "June", StartDay: intPtr(14), StartYear: intPtr(2025)},
	}
	resolved, dropped := ResolveAll(records, time.UTC)
	require.Zero(t, dropped)

	now := time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, ExportICS(&buf, resolved, now))

	out := buf.String()
	assert.Contains(t, out, "PRODID:"+ProductID)
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Contains(t, out, "DTSTART:20250907T153000Z")
	assert.Contains(t, out, "DTEND:20250907T170000Z")

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, cal.Events(), 2)

	first := cal.Events()[0]
	assert.Equal(t, "svc-1", first.Id())
	assert.Equal(t, "Sunday Service", first.GetProperty(ics.ComponentPropertySummary).Value)

	// No end: DTEND mirrors DTSTART.
	second := cal.Events()[1]
	start, err := second.GetStartAt()
	require.NoError(t, err)
	end, err := second.GetEndAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(end))
	assert.True(t, time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC).Equal(start))
	assert.NotEmpty(t, second.Id())
}

func TestEventUID_StableForIDlessRecords(t *testing.T) {
	ev := model.ResolvedEvent{
		Record: model.EventRecord{Title: "Picnic"},
		Start:  time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC),
	}
	other := ev
	other.Start = other.Start.Add(24 * time.Hour)

	assert.Equal(t, EventUID(ev), EventUID(ev))
	assert.NotEqual(t, EventUID(ev), EventUID(other))

	ev.Record.ID = "given"
	assert.Equal(t, "given", EventUID(ev))
}

func TestFindByID(t *testing.T) {
	records := []model.EventRecord{
		{ID: "ok", Start: "2025-01-01T00:00:00Z"},
		{ID: "broken", Start: "nope"},
	}

	ev, ok := FindByID(records, "ok", time.UTC)
	require.True(t, ok)
	assert.Equal(t, "ok", ev.Record.ID)

	_, ok = FindByID(records, "broken", time.UTC)
	assert.False(t, ok)
	_, ok = FindByID(records, "missing", time.UTC)
	assert.False(t, ok)
}

package events

import (
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"springwell/internal/model"
)

// ProductID is the PRODID stamped on exported calendars.
const ProductID = "-//Springwell Church//EN"

// uidNamespace scopes generated UIDs for records that carry no id.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://springwell.church/events"))

// ExportICS writes evs as a single VCALENDAR. DTEND falls back to DTSTART
// when the record has no parsable end.
func ExportICS(w io.Writer, evs []model.ResolvedEvent, now time.Time) error {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetCalscale("GREGORIAN")

	for _, ev := range evs {
		vev := cal.AddEvent(EventUID(ev))
		vev.SetDtStampTime(now.UTC())
		vev.SetStartAt(ev.Start.UTC())
		end := ev.Start
		if ev.End != nil {
			end = *ev.End
		}
		vev.SetEndAt(end.UTC())
		vev.SetSummary(ev.Record.Title)
		if ev.Record.Description != "" {
			vev.SetDescription(ev.Record.Description)
		}
		if ev.Record.Location != "" {
			vev.SetLocation(ev.Record.Location)
		}
	}

	return cal.SerializeTo(w)
}

// EventUID is the record id, or a stable name-based UUID for id-less records.
func EventUID(ev model.ResolvedEvent) string {
	if ev.Record.ID != "" {
		return ev.Record.ID
	}
	name := ev.Record.Title + "|" + ev.Start.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uidNamespace, []byte(name)).String()
}

// FindByID resolves the record with the given id. Unknown ids and records
// whose date cannot be resolved both report false.
func FindByID(records []model.EventRecord, id string, loc *time.Location) (model.ResolvedEvent, bool) {
	for _, rec := range records {
		if rec.ID != id {
			continue
		}
		ev, err := resolveEvent(rec, loc)
		if err != nil {
			return model.ResolvedEvent{}, false
		}
		return ev, true
	}
	return model.ResolvedEvent{}, false
}

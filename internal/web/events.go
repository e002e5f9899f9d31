package web

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"springwell/internal/events"
	appLog "springwell/internal/log"
	"springwell/internal/model"
)

const (
	stateOK    = "ok"
	stateEmpty = "empty"

	msgEventsFailed = "failed to load events"
)

// eventDTO is a JSON-friendly view of a resolved event.
type eventDTO struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Location    string     `json:"location,omitempty"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	Rule        string     `json:"rule"`
}

func toDTOs(evs []model.ResolvedEvent, loc *time.Location) []eventDTO {
	out := make([]eventDTO, 0, len(evs))
	for _, ev := range evs {
		d := eventDTO{
			ID:          ev.Record.ID,
			Title:       ev.Record.Title,
			Description: ev.Record.Description,
			Location:    ev.Record.Location,
			Start:       ev.Start.In(loc),
			Rule:        string(ev.Rule),
		}
		if ev.End != nil {
			end := ev.End.In(loc)
			d.End = &end
		}
		out = append(out, d)
	}
	return out
}

// eventsResponse is the JSON response shape for /api/events.
type eventsResponse struct {
	State        string     `json:"state"`
	Query        string     `json:"query,omitempty"`
	Upcoming     []eventDTO `json:"upcoming"`
	Past         []eventDTO `json:"past"`
	Unresolvable int        `json:"unresolvable"`
	Filtered     int        `json:"filtered"`
	Now          time.Time  `json:"now"`
}

// handleEvents returns the events page lists.
//
// GET /api/events?q=youth
//   - q: case-insensitive substring over title, description and location
//
// past holds at most past_limit events, most recent first.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if snap.EventsErr != nil {
		writeError(w, http.StatusServiceUnavailable, msgEventsFailed)
		return
	}

	loc := s.store.Location()
	now := s.now()
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	p := events.Partition(snap.Events, now, query, loc)

	past := p.Past
	if limit := s.cfg.PastLimit; limit > 0 && len(past) > limit {
		past = past[:limit]
	}

	state := stateOK
	if len(p.Upcoming) == 0 && len(past) == 0 {
		state = stateEmpty
	}

	appLog.Debug("api events request",
		"query", query,
		"upcoming", len(p.Upcoming),
		"past", len(p.Past),
		"unresolvable", p.Unresolvable,
	)

	writeJSON(w, http.StatusOK, eventsResponse{
		State:        state,
		Query:        query,
		Upcoming:     toDTOs(p.Upcoming, loc),
		Past:         toDTOs(past, loc),
		Unresolvable: p.Unresolvable,
		Filtered:     p.Filtered,
		Now:          now.In(loc),
	})
}

type cellDTO struct {
	Date    string     `json:"date"`
	InMonth bool       `json:"in_month"`
	Today   bool       `json:"today"`
	Events  []eventDTO `json:"events"`
	More    int        `json:"more"`
}

type calendarResponse struct {
	Month string    `json:"month"`
	Prev  string    `json:"prev"`
	Next  string    `json:"next"`
	Cells []cellDTO `json:"cells"`
}

// handleCalendar returns the 42-cell month grid.
//
// GET /api/events/calendar?month=2025-03 (default: current month)
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if snap.EventsErr != nil {
		writeError(w, http.StatusServiceUnavailable, msgEventsFailed)
		return
	}

	loc := s.store.Location()
	now := s.now().In(loc)

	target := model.MonthOf(now, loc)
	if m := r.URL.Query().Get("month"); m != "" {
		ym, err := model.ParseYearMonth(m)
		if err != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}
		target = ym
	}

	grid := events.BuildMonthGrid(snap.Events, target, loc)
	today := now.Format(time.DateOnly)

	cells := make([]cellDTO, 0, len(grid.Cells))
	for _, c := range grid.Cells {
		date := c.Date.Format(time.DateOnly)
		cells = append(cells, cellDTO{
			Date:    date,
			InMonth: c.InMonth,
			Today:   date == today,
			Events:  toDTOs(c.Visible(events.CellEventLimit), loc),
			More:    c.MoreCount(events.CellEventLimit),
		})
	}

	writeJSON(w, http.StatusOK, calendarResponse{
		Month: target.String(),
		Prev:  target.Prev().String(),
		Next:  target.Next().String(),
		Cells: cells,
	})
}

type dayResponse struct {
	Date   string     `json:"date"`
	Events []eventDTO `json:"events"`
}

// handleDay lists every event on one calendar day.
//
// GET /api/events/day?date=2025-03-09
func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if snap.EventsErr != nil {
		writeError(w, http.StatusServiceUnavailable, msgEventsFailed)
		return
	}

	loc := s.store.Location()
	civil, err := time.Parse(time.DateOnly, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	day := model.DayStart(civil.Year(), civil.Month(), civil.Day(), loc)

	writeJSON(w, http.StatusOK, dayResponse{
		Date:   day.Format(time.DateOnly),
		Events: toDTOs(events.EventsOn(snap.Events, day, loc), loc),
	})
}

// handleEventsICS exports every resolvable event as one calendar.
func (s *Server) handleEventsICS(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	if snap.EventsErr != nil {
		writeError(w, http.StatusServiceUnavailable, msgEventsFailed)
		return
	}

	resolved, _ := events.ResolveAll(snap.Events, s.store.Location())
	s.writeICS(w, resolved, "springwell-events.ics")
}

// handleEventICS exports one event: GET /api/events/{id}.ics
func (s *Server) handleEventICS(w http.ResponseWriter, r *http.Request) {
	id, ok := strings.CutSuffix(chi.URLParam(r, "file"), ".ics")
	if !ok || id == "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if unescaped, err := url.PathUnescape(id); err == nil {
		id = unescaped
	}

	snap := s.store.Snapshot()
	if snap.EventsErr != nil {
		writeError(w, http.StatusServiceUnavailable, msgEventsFailed)
		return
	}

	ev, found := events.FindByID(snap.Events, id, s.store.Location())
	if !found {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	s.writeICS(w, []model.ResolvedEvent{ev}, "event.ics")
}

func (s *Server) writeICS(w http.ResponseWriter, evs []model.ResolvedEvent, filename string) {
	var buf bytes.Buffer
	if err := events.ExportICS(&buf, evs, s.now()); err != nil {
		appLog.Error("ics export failed", err, "events", len(evs))
		writeError(w, http.StatusInternalServerError, "failed to export events")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

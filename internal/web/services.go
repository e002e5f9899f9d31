package web

import (
	"net/http"

	"springwell/internal/services"
)

const (
	defaultServiceCount = 4
	maxServiceCount     = 50
)

type servicesResponse struct {
	Services []services.Occurrence `json:"services"`
}

// handleServices lists upcoming service times.
//
// GET /api/services?n=4
func (s *Server) handleServices(w http.ResponseWriter, r *http.Request) {
	n := parseIntDefault(r.URL.Query().Get("n"), defaultServiceCount)
	if n <= 0 {
		n = defaultServiceCount
	}
	if n > maxServiceCount {
		n = maxServiceCount
	}

	resp := servicesResponse{Services: []services.Occurrence{}}
	if s.schedule != nil {
		resp.Services = s.schedule.Next(s.now(), n)
		loc := s.store.Location()
		for i := range resp.Services {
			resp.Services[i].Start = resp.Services[i].Start.In(loc)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

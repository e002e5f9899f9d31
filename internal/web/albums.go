package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"springwell/internal/gallery"
	"springwell/internal/model"
)

const (
	msgAlbumsFailed  = "failed to load albums"
	msgAlbumNotFound = "album not found"
)

type albumsResponse struct {
	Albums []gallery.AlbumSummary `json:"albums"`
}

func (s *Server) handleAlbums(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()
	if snap.AlbumsErr != nil {
		writeError(w, http.StatusServiceUnavailable, msgAlbumsFailed)
		return
	}
	writeJSON(w, http.StatusOK, albumsResponse{Albums: gallery.Summaries(snap.Albums)})
}

type albumResponse struct {
	Name   string        `json:"name"`
	Slug   string        `json:"slug"`
	Photos []model.Photo `json:"photos"`
}

// lookupAlbum writes the error response itself when ok is false.
func (s *Server) lookupAlbum(w http.ResponseWriter, r *http.Request) (model.Album, bool) {
	snap := s.store.Snapshot()
	if snap.AlbumsErr != nil {
		writeError(w, http.StatusServiceUnavailable, msgAlbumsFailed)
		return model.Album{}, false
	}
	album, ok := gallery.FindBySlug(snap.Albums, chi.URLParam(r, "slug"))
	if !ok {
		writeError(w, http.StatusNotFound, msgAlbumNotFound)
		return model.Album{}, false
	}
	return album, true
}

func (s *Server) handleAlbum(w http.ResponseWriter, r *http.Request) {
	album, ok := s.lookupAlbum(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, albumResponse{
		Name:   album.Name,
		Slug:   gallery.Slugify(album.Name),
		Photos: gallery.Photos(album),
	})
}

// handlePhoto is one lightbox step: GET /api/albums/{slug}/photos/{index}
func (s *Server) handlePhoto(w http.ResponseWriter, r *http.Request) {
	album, ok := s.lookupAlbum(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	view, err := gallery.Lightbox(gallery.Photos(album), index)
	if err != nil {
		writeError(w, http.StatusNotFound, "photo not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"springwell/internal/catalog"
	"springwell/internal/config"
	appLog "springwell/internal/log"
	"springwell/internal/services"
)

// Server serves the JSON API the site pages read and the static site itself.
type Server struct {
	cfg      *config.Config
	store    *catalog.Store
	schedule *services.Schedule
	static   fs.FS
	now      func() time.Time
}

// embeddedStatic is the placeholder site served when no site_dir is
// configured.
//
//go:embed all:static
var embeddedStatic embed.FS

// NewServer constructs a new Server. schedule may be nil.
func NewServer(cfg *config.Config, store *catalog.Store, schedule *services.Schedule) *Server {
	return &Server{
		cfg:      cfg,
		store:    store,
		schedule: schedule,
		static:   siteFS(cfg.SiteDir),
		now:      time.Now,
	}
}

func siteFS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	sub, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		appLog.Error("failed to initialize embedded static filesystem", err)
		return nil
	}
	return sub
}

// Handler returns the router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/preview.png", s.handlePreview)

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.handleEvents)
		r.Get("/events.ics", s.handleEventsICS)
		r.Get("/events/calendar", s.handleCalendar)
		r.Get("/events/day", s.handleDay)
		r.Get("/events/{file}", s.handleEventICS)

		r.Get("/albums", s.handleAlbums)
		r.Get("/albums/{slug}", s.handleAlbum)
		r.Get("/albums/{slug}/photos/{index}", s.handlePhoto)

		r.Get("/services", s.handleServices)

		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			writeError(w, http.StatusNotFound, "not found")
		})
	})

	r.NotFound(s.staticFileServer().ServeHTTP)

	return r
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	appLog.Info("HTTP server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handlePreview serves the last captured page preview from disk.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	// http.ServeFile answers 404 for a missing file.
	http.ServeFile(w, r, s.cfg.Preview.Output)
}

// staticFileServer serves the site build. Paths without a file fall back to
// "<path>.html" and then to index.html, so client-side routes load the app.
func (s *Server) staticFileServer() http.Handler {
	if s.static == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "site not available", http.StatusServiceUnavailable)
		})
	}

	fileServer := http.FileServer(http.FS(s.static))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path

		// Never answer an API path with HTML.
		if p == "/api" || strings.HasPrefix(p, "/api/") {
			writeError(w, http.StatusNotFound, "not found")
			return
		}

		name := strings.TrimPrefix(path.Clean(p), "/")
		if name == "" {
			name = "."
		}
		if _, err := fs.Stat(s.static, name); err == nil {
			fileServer.ServeHTTP(w, r)
			return
		}
		if path.Ext(name) != "" {
			http.NotFound(w, r)
			return
		}
		if _, err := fs.Stat(s.static, name+".html"); err == nil {
			http.ServeFileFS(w, r, s.static, name+".html")
			return
		}
		http.ServeFileFS(w, r, s.static, "index.html")
	})
}

// requestLogger logs one line per request on the application logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !appLog.Enabled(appLog.LevelDebug) {
			next.ServeHTTP(w, r)
			return
		}
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			appLog.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"request_id", chimw.GetReqID(r.Context()),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

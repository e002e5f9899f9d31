// Package catalog holds the most recently loaded events and albums documents
// and keeps them fresh: on a cron schedule, and when local source files change.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"springwell/internal/config"
	appLog "springwell/internal/log"
	"springwell/internal/model"
	"springwell/internal/source"
)

// ErrNotLoaded is reported for a document before the first Refresh.
var ErrNotLoaded = errors.New("document not loaded yet")

const maxConcurrentFeeds = 4

// Snapshot is an immutable view of the loaded documents. A document that
// failed to load has its error set and its data empty; the other document
// is unaffected.
type Snapshot struct {
	Events    []model.EventRecord
	EventsErr error

	Albums    model.AlbumsDocument
	AlbumsErr error

	LoadedAt time.Time
}

// Store owns the current Snapshot.
type Store struct {
	loader *source.Loader
	events config.EventsConfig
	albums config.SourceConfig
	loc    *time.Location
	now    func() time.Time

	// serializes Refresh; readers never block
	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
}

// New creates a Store. Nothing is loaded until Refresh is called.
func New(loader *source.Loader, cfg *config.Config, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	s := &Store{
		loader: loader,
		events: cfg.Events,
		albums: cfg.Albums,
		loc:    loc,
		now:    time.Now,
	}
	s.snap.Store(&Snapshot{
		Events:    []model.EventRecord{},
		EventsErr: ErrNotLoaded,
		Albums:    model.AlbumsDocument{Albums: []model.Album{}},
		AlbumsErr: ErrNotLoaded,
	})
	return s
}

// Snapshot returns the current view. Never nil.
func (s *Store) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Location is the display timezone the store was built with.
func (s *Store) Location() *time.Location {
	return s.loc
}

// LocalPaths lists the configured sources that are files on disk,
// ICS feeds included.
func (s *Store) LocalPaths() []string {
	locations := []string{s.events.Source, s.albums.Source}
	for _, feed := range s.events.ICS {
		locations = append(locations, feed.URL)
	}

	paths := make([]string, 0, len(locations))
	for _, loc := range locations {
		if loc != "" && !source.IsRemote(loc) {
			paths = append(paths, loc)
		}
	}
	return paths
}

// Refresh reloads both documents concurrently and swaps in a new Snapshot.
// The returned error joins the per-document failures; the snapshot is
// replaced either way.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := &Snapshot{}
	var g errgroup.Group

	g.Go(func() error {
		next.Events, next.EventsErr = s.loadEvents(ctx)
		return nil
	})
	g.Go(func() error {
		next.Albums, next.AlbumsErr = s.loadAlbums(ctx)
		return nil
	})
	_ = g.Wait()

	next.LoadedAt = s.now()
	s.snap.Store(next)

	if next.EventsErr != nil {
		appLog.Error("events load failed", next.EventsErr, "source", s.events.Source)
	}
	if next.AlbumsErr != nil {
		appLog.Error("albums load failed", next.AlbumsErr, "source", s.albums.Source)
	}
	appLog.Info("catalog refreshed",
		"events", len(next.Events),
		"albums", len(next.Albums.Albums),
		"events_ok", next.EventsErr == nil,
		"albums_ok", next.AlbumsErr == nil,
	)

	return errors.Join(next.EventsErr, next.AlbumsErr)
}

func (s *Store) loadEvents(ctx context.Context) ([]model.EventRecord, error) {
	records := make([]model.EventRecord, 0)

	if s.events.Source != "" {
		body, err := s.loader.Load(ctx, "events", s.events.Source)
		if err != nil {
			return []model.EventRecord{}, fmt.Errorf("load events: %w", err)
		}
		doc, err := source.DecodeEvents(body)
		if err != nil {
			return []model.EventRecord{}, err
		}
		records = append(records, doc.Events...)
	}

	if len(s.events.ICS) == 0 {
		return records, nil
	}

	// A broken feed is logged and skipped; it does not fail the events view.
	feeds := make([][]model.EventRecord, len(s.events.ICS))
	var g errgroup.Group
	g.SetLimit(maxConcurrentFeeds)
	for i, feed := range s.events.ICS {
		g.Go(func() error {
			recs, err := s.loadFeed(ctx, feed)
			if err != nil {
				appLog.Error("ics feed failed", err, "id", feed.ID, "name", feed.Name)
				return nil
			}
			feeds[i] = recs
			return nil
		})
	}
	_ = g.Wait()

	for _, recs := range feeds {
		records = append(records, recs...)
	}
	return records, nil
}

func (s *Store) loadFeed(ctx context.Context, feed config.ICSConfig) ([]model.EventRecord, error) {
	id := feed.ID
	if id == "" {
		id = feed.Name
	}
	body, err := s.loader.Load(ctx, id, feed.URL)
	if err != nil {
		return nil, err
	}
	parsed, err := source.ParseICS(id, body, s.loc)
	if err != nil {
		return nil, err
	}

	now := s.now()
	horizon := time.Duration(s.events.HorizonDays) * 24 * time.Hour
	res, err := source.Expand(parsed, source.ExpandConfig{
		Location:   s.loc,
		RangeStart: now.Add(-horizon),
		RangeEnd:   now.Add(horizon),
	})
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

func (s *Store) loadAlbums(ctx context.Context) (model.AlbumsDocument, error) {
	empty := model.AlbumsDocument{Albums: []model.Album{}}
	if s.albums.Source == "" {
		return empty, nil
	}
	body, err := s.loader.Load(ctx, "albums", s.albums.Source)
	if err != nil {
		return empty, fmt.Errorf("load albums: %w", err)
	}
	doc, err := source.DecodeAlbums(body)
	if err != nil {
		return empty, err
	}
	return doc, nil
}

// Package source loads the externally supplied events and albums documents
// and ICS subscriptions, from disk or over HTTP.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"springwell/internal/model"
)

var ErrEmptyLocation = errors.New("document location is empty")

// Loader reads a document from a local path or an http(s) URL.
type Loader struct {
	fetcher *Fetcher
}

func NewLoader(cacheDir string) *Loader {
	return &Loader{fetcher: NewFetcher(cacheDir)}
}

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Load returns the raw bytes at location. id is used for logging only.
func (l *Loader) Load(ctx context.Context, id, location string) ([]byte, error) {
	if location == "" {
		return nil, ErrEmptyLocation
	}
	if IsRemote(location) {
		res, err := l.fetcher.FetchOne(ctx, Source{ID: id, URL: location})
		if err != nil {
			return nil, err
		}
		return res.Body, nil
	}
	return os.ReadFile(location)
}

// Fetcher exposes the underlying HTTP fetcher for ICS subscriptions.
func (l *Loader) Fetcher() *Fetcher {
	return l.fetcher
}

// DecodeEvents parses an events.json body. A body that is not a JSON object
// is an error; individual malformed records are kept and left for the
// resolver to exclude.
func DecodeEvents(body []byte) (model.EventsDocument, error) {
	var doc model.EventsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return model.EventsDocument{}, fmt.Errorf("decode events document: %w", err)
	}
	if doc.Events == nil {
		doc.Events = []model.EventRecord{}
	}
	return doc, nil
}

// DecodeAlbums parses an albums.json body.
func DecodeAlbums(body []byte) (model.AlbumsDocument, error) {
	var doc model.AlbumsDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return model.AlbumsDocument{}, fmt.Errorf("decode albums document: %w", err)
	}
	if doc.Albums == nil {
		doc.Albums = []model.Album{}
	}
	return doc, nil
}

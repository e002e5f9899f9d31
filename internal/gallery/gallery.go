// Package gallery looks up albums by URL slug and drives lightbox paging.
package gallery

import (
	"errors"
	"fmt"
	"strings"

	"springwell/internal/model"
)

var ErrPhotoIndex = errors.New("photo index out of range")

// Slugify lower-cases name and joins its alphanumeric runs with '-'.
// "Sunday Service 2025!" -> "sunday-service-2025".
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// FindBySlug returns the first album whose slugified name equals slug.
func FindBySlug(doc model.AlbumsDocument, slug string) (model.Album, bool) {
	for _, a := range doc.Albums {
		if Slugify(a.Name) == slug {
			return a, true
		}
	}
	return model.Album{}, false
}

// Photos flattens an album's items into individual photos. Each item
// contributes its mediaUrls, else photos, else assets.
func Photos(album model.Album) []model.Photo {
	out := []model.Photo{}
	for _, it := range album.Items {
		title := it.Title
		if title == "" {
			title = album.Name
		}
		for idx, url := range itemURLs(it) {
			out = append(out, model.Photo{
				ID:    fmt.Sprintf("%s-%d", it.ID, idx),
				URL:   url,
				Title: title,
			})
		}
	}
	return out
}

func itemURLs(it model.AlbumItem) []string {
	if len(it.MediaURLs) > 0 {
		return it.MediaURLs
	}
	if len(it.Photos) > 0 {
		return it.Photos
	}
	urls := make([]string, 0, len(it.Assets))
	for _, a := range it.Assets {
		urls = append(urls, a.URL)
	}
	return urls
}

// Next and Prev step a lightbox index, wrapping around n photos.
func Next(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i + 1) % n
}

func Prev(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (i - 1 + n) % n
}

// LightboxView is the state of an open lightbox.
type LightboxView struct {
	Index int         `json:"index"`
	Total int         `json:"total"`
	Photo model.Photo `json:"photo"`
	Prev  int         `json:"prev"`
	Next  int         `json:"next"`
}

// Lightbox opens photos at index i.
func Lightbox(photos []model.Photo, i int) (LightboxView, error) {
	n := len(photos)
	if i < 0 || i >= n {
		return LightboxView{}, fmt.Errorf("%w: %d of %d", ErrPhotoIndex, i, n)
	}
	return LightboxView{
		Index: i,
		Total: n,
		Photo: photos[i],
		Prev:  Prev(i, n),
		Next:  Next(i, n),
	}, nil
}

// AlbumSummary is an entry of the album index page.
type AlbumSummary struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Count    int    `json:"count"`
	Photos   int    `json:"photos"`
	CoverURL string `json:"cover_url,omitempty"`
}

func Summaries(doc model.AlbumsDocument) []AlbumSummary {
	out := make([]AlbumSummary, 0, len(doc.Albums))
	for _, a := range doc.Albums {
		photos := Photos(a)
		s := AlbumSummary{
			Name:   a.Name,
			Slug:   Slugify(a.Name),
			Count:  a.Count,
			Photos: len(photos),
		}
		if s.Count == 0 {
			s.Count = len(a.Items)
		}
		if len(photos) > 0 {
			s.CoverURL = photos[0].URL
		}
		out = append(out, s)
	}
	return out
}

package gallery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"springwell/internal/model"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Sunday Service":        "sunday-service",
		"  Youth -- Retreat!  ": "youth-retreat",
		"2025 Missions/Trip":    "2025-missions-trip",
		"Uncategorized":         "uncategorized",
		"---":                   "",
		"갤러리 Gallery":           "gallery",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func sampleDoc() model.AlbumsDocument {
	return model.AlbumsDocument{
		Albums: []model.Album{
			{
				Name:  "Sunday Service",
				Count: 2,
				Items: []model.AlbumItem{
					{ID: "i1", Title: "Worship", MediaURLs: []string{"https://img/1.jpg", "https://img/2.jpg"}},
					{ID: "i2", Photos: []string{"https://img/3.jpg"}},
				},
			},
			{
				Name: "Youth Retreat",
				Items: []model.AlbumItem{
					{ID: "y1", Title: "Campfire", Assets: []model.Asset{{URL: "https://img/y.jpg"}}},
				},
			},
			{Name: "Empty"},
		},
	}
}

func TestFindBySlug(t *testing.T) {
	album, ok := FindBySlug(sampleDoc(), "youth-retreat")
	require.True(t, ok)
	assert.Equal(t, "Youth Retreat", album.Name)

	_, ok = FindBySlug(sampleDoc(), "missions")
	assert.False(t, ok)
}

func TestPhotos(t *testing.T) {
	album, _ := FindBySlug(sampleDoc(), "sunday-service")
	photos := Photos(album)

	require.Len(t, photos, 3)
	assert.Equal(t, model.Photo{ID: "i1-0", URL: "https://img/1.jpg", Title: "Worship"}, photos[0])
	assert.Equal(t, "i1-1", photos[1].ID)
	// Untitled items borrow the album name.
	assert.Equal(t, model.Photo{ID: "i2-0", URL: "https://img/3.jpg", Title: "Sunday Service"}, photos[2])

	assert.Empty(t, Photos(model.Album{Name: "Empty"}))
}

func TestLightboxNavigation(t *testing.T) {
	assert.Equal(t, 1, Next(0, 3))
	assert.Equal(t, 0, Next(2, 3))
	assert.Equal(t, 2, Prev(0, 3))
	assert.Equal(t, 0, Prev(1, 3))
	assert.Equal(t, 0, Next(0, 0))
	assert.Equal(t, 0, Prev(0, 0))

	album, _ := FindBySlug(sampleDoc(), "sunday-service")
	photos := Photos(album)

	view, err := Lightbox(photos, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, view.Prev)
	assert.Equal(t, 1, view.Next)
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, "https://img/1.jpg", view.Photo.URL)

	_, err = Lightbox(photos, 3)
	assert.True(t, errors.Is(err, ErrPhotoIndex))
	_, err = Lightbox(nil, 0)
	assert.True(t, errors.Is(err, ErrPhotoIndex))
}

func TestSummaries(t *testing.T) {
	sums := Summaries(sampleDoc())
	require.Len(t, sums, 3)

	assert.Equal(t, AlbumSummary{Name: "Sunday Service", Slug: "sunday-service", Count: 2, Photos: 3, CoverURL: "https://img/1.jpg"}, sums[0])
	assert.Equal(t, 1, sums[1].Count)
	assert.Equal(t, "https://img/y.jpg", sums[1].CoverURL)
	assert.Empty(t, sums[2].CoverURL)
}

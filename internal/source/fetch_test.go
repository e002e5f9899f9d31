package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_ConditionalRequests(t *testing.T) {
	const body = `{"events":[]}`
	var hits, conditional atomic.Int32

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Header.Get("If-None-Match") == `"v1"` {
			conditional.Add(1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte(body))
	}))
	defer ts.Close()

	f := NewFetcher(t.TempDir())
	src := Source{ID: "events", URL: ts.URL + "/events.json"}

	first, err := f.FetchOne(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, body, string(first.Body))
	assert.False(t, first.FromCache)

	second, err := f.FetchOne(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, body, string(second.Body))
	assert.True(t, second.FromCache)

	assert.EqualValues(t, 2, hits.Load())
	assert.EqualValues(t, 1, conditional.Load())
}

func TestFetcher_FallsBackToCacheOnServerError(t *testing.T) {
	var fail atomic.Bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("cached"))
	}))
	defer ts.Close()

	f := NewFetcher(t.TempDir())
	src := Source{ID: "albums", URL: ts.URL}

	_, err := f.FetchOne(context.Background(), src)
	require.NoError(t, err)

	fail.Store(true)
	res, err := f.FetchOne(context.Background(), src)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, "cached", string(res.Body))
}

func TestFetcher_Errors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	f := NewFetcher(t.TempDir())

	_, err := f.FetchOne(context.Background(), Source{ID: "missing", URL: ts.URL})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	_, err = f.FetchOne(context.Background(), Source{ID: "empty"})
	assert.Error(t, err)
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "https://calendar.example.org/...(redacted)",
		redactURL("https://calendar.example.org/private/abc123/basic.ics?token=x"))
	assert.Equal(t, "...(redacted)", redactURL("not a url"))
}

func TestLoader_LocalAndRemote(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"events":[{"id":"a"}]}`), 0o600))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"albums":[]}`))
	}))
	defer ts.Close()

	l := NewLoader(dir)

	local, err := l.Load(context.Background(), "events", path)
	require.NoError(t, err)
	assert.Contains(t, string(local), `"a"`)

	remote, err := l.Load(context.Background(), "albums", ts.URL)
	require.NoError(t, err)
	assert.Equal(t, `{"albums":[]}`, string(remote))

	_, err = l.Load(context.Background(), "none", "")
	assert.ErrorIs(t, err, ErrEmptyLocation)

	_, err = l.Load(context.Background(), "gone", filepath.Join(dir, "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsRemote(t *testing.T) {
	assert.True(t, IsRemote("https://example.org/events.json"))
	assert.True(t, IsRemote("HTTP://example.org"))
	assert.False(t, IsRemote("./public/events.json"))
	assert.False(t, IsRemote("/srv/events.json"))
}

func TestDecodeEvents(t *testing.T) {
	doc, err := DecodeEvents([]byte(`{"events":[{"id":"1","title":"Picnic","start":"2025-06-01T17:00:00Z"},{"id":"2","startDay":"x"}],"totalItems":2}`))
	require.NoError(t, err)
	require.Len(t, doc.Events, 2)
	assert.Equal(t, "Picnic", doc.Events[0].Title)
	assert.Nil(t, doc.Events[1].StartDay)

	doc, err = DecodeEvents([]byte(`{}`))
	require.NoError(t, err)
	assert.NotNil(t, doc.Events)
	assert.Empty(t, doc.Events)

	_, err = DecodeEvents([]byte(`<html>`))
	assert.Error(t, err)
}

func TestDecodeAlbums(t *testing.T) {
	doc, err := DecodeAlbums([]byte(`{"albums":[{"name":"Sunday Service","count":1,"items":[{"id":"x","mediaUrls":["https://img/1.jpg"]}]}]}`))
	require.NoError(t, err)
	require.Len(t, doc.Albums, 1)
	assert.Equal(t, []string{"https://img/1.jpg"}, doc.Albums[0].Items[0].MediaURLs)

	_, err = DecodeAlbums([]byte(`[]`))
	assert.Error(t, err)
}

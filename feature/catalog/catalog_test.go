package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"m3u-guardian/core/clock"
	"m3u-guardian/core/reconcile"
	"m3u-guardian/core/streams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func panel(t *testing.T, streamsJSON string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/player_api.php", r.URL.Path)
		assert.Equal(t, "user", r.URL.Query().Get("username"))
		assert.Equal(t, "p@ss", r.URL.Query().Get("password"))
		switch r.URL.Query().Get("action") {
		case "get_live_categories":
			w.Write([]byte(`[{"category_id":"1","category_name":"News"},{"category_id":2,"category_name":"Sports"}]`))
		case "get_live_streams":
			w.Write([]byte(streamsJSON))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func aliveSet(urls ...string) reconcile.Prober {
	set := make(map[string]bool)
	for _, u := range urls {
		set[u] = true
	}
	return reconcile.ProberFunc(func(_ context.Context, url string) reconcile.ProbeResult {
		return reconcile.ProbeResult{Alive: set[url]}
	})
}

func TestClient_Streams(t *testing.T) {
	srv := panel(t, `[
		{"stream_id":101,"name":" Fox News ","category_id":"1","stream_url":"http://cdn/fox.m3u8"},
		{"stream_id":"102","name":"ESPN","category_id":2}
	]`)
	defer srv.Close()

	c := NewClient(Config{Host: srv.URL + "/", Username: "user", Password: "p@ss", Timeout: time.Second}, nil)

	cats, err := c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Category{{ID: "1", Name: "News"}, {ID: "2", Name: "Sports"}}, cats)

	list, err := c.Streams(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, Stream{ID: "101", Name: "Fox News", CategoryID: "1", URL: "http://cdn/fox.m3u8"}, list[0])
	assert.Equal(t, srv.URL+"/live/user/p@ss/102.ts", list[1].URL)
	assert.Equal(t, "2", list[1].CategoryID)
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(Config{Host: srv.URL, Username: "u", Password: "p"}, nil).Categories(context.Background())
	assert.EqualError(t, err, "get_live_categories: HTTP 401")
}

func TestService_Ingest(t *testing.T) {
	srv := panel(t, `[
		{"stream_id":1,"name":"Fox News","category_id":"1","stream_url":"http://cdn/fox-1"},
		{"stream_id":2,"name":"fox-news","category_id":"1","stream_url":"http://cdn/fox-2"},
		{"stream_id":3,"name":"ESPN","category_id":"9","stream_url":"http://cdn/espn"},
		{"stream_id":4,"name":"Dead","category_id":"1","stream_url":"http://cdn/dead"},
		{"stream_id":5,"name":"","category_id":"1","stream_url":"http://cdn/anon"}
	]`)
	defer srv.Close()

	dbPath := filepath.Join(t.TempDir(), "data", "streams.json")
	existing := streams.New()
	existing.AddByName(streams.NewCandidate("http://cdn/fox-1", "Fox News", "News", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, existing.Save(dbPath))

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(
		NewClient(Config{Host: srv.URL, Username: "user", Password: "p@ss"}, nil),
		aliveSet("http://cdn/fox-1", "http://cdn/fox-2", "http://cdn/espn", "http://cdn/anon"),
		clock.NewFake(now),
		2,
		nil,
	)

	report, err := svc.Ingest(context.Background(), dbPath)
	require.NoError(t, err)
	assert.Equal(t, Report{Categories: 2, Streams: 5, Probed: 4, Healthy: 3, Added: 2}, report)

	load := streams.Load(dbPath)
	require.Equal(t, streams.LoadOK, load.Status)
	assert.Equal(t, []string{"fox_news", "espn"}, load.DB.Keys())

	fox, _ := load.DB.Group("fox_news")
	require.Len(t, fox.Candidates, 2)
	assert.Equal(t, "http://cdn/fox-2", fox.Candidates[1].URL)
	assert.True(t, now.Equal(fox.Candidates[1].AddedAt.Time))

	espn, _ := load.DB.Group("espn")
	assert.Equal(t, streams.DefaultCategory, espn.Candidates[0].Category)
}

func TestService_IngestFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	svc := NewService(NewClient(Config{Host: srv.URL, Username: "u", Password: "p"}, nil), aliveSet(), nil, 1, nil)
	_, err := svc.Ingest(context.Background(), filepath.Join(t.TempDir(), "streams.json"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "fetch categories: get_live_categories: decode"))
}

func TestConfig_Validate(t *testing.T) {
	assert.ErrorIs(t, Config{}.Validate(), ErrNotConfigured)
	assert.ErrorIs(t, Config{Host: "h", Username: "u"}.Validate(), ErrNotConfigured)
	assert.NoError(t, Config{Host: "h", Username: "u", Password: "p"}.Validate())
}

package status

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"m3u-guardian/core/loader"
	"m3u-guardian/core/playlist"
	"m3u-guardian/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct{}

func (brokenStore) Read() (playlist.Document, bool, error) {
	return playlist.Document{}, false, errors.New("disk gone")
}
func (brokenStore) Write(playlist.Document) error { return nil }

func setupTestApp(t *testing.T, store reconcile.DocumentStore) (*fiber.App, *Tracker) {
	tracker := NewTracker()
	mgr := loader.NewManager()
	mgr.Register(NewFeature(tracker, store, nil))

	app := fiber.New()
	_, err := mgr.LoadAll(app)
	require.NoError(t, err)
	return app, tracker
}

func decode(t *testing.T, body io.Reader) map[string]any {
	var out map[string]any
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestHandleHealth(t *testing.T) {
	app, _ := setupTestApp(t, brokenStore{})

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "ok", decode(t, resp.Body)["status"])
}

func TestHandleStatus(t *testing.T) {
	app, tracker := setupTestApp(t, brokenStore{})

	resp, err := app.Test(httptest.NewRequest("GET", "/status", nil))
	require.NoError(t, err)
	body := decode(t, resp.Body)
	assert.Equal(t, "idle", body["session"].(map[string]any)["phase"])
	assert.NotContains(t, body, "uptime")

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tracker.Observe(reconcile.SessionState{
		ID:         "s-1",
		Phase:      reconcile.PhaseStopped,
		StartedAt:  start,
		StoppedAt:  start.Add(2 * time.Hour),
		Ticks:      42,
		Publishes:  3,
		StopReason: reconcile.StopMaxDuration,
	})

	resp, err = app.Test(httptest.NewRequest("GET", "/status", nil))
	require.NoError(t, err)
	body = decode(t, resp.Body)
	session := body["session"].(map[string]any)
	assert.Equal(t, "s-1", session["id"])
	assert.Equal(t, "stopped", session["phase"])
	assert.EqualValues(t, 42, session["ticks"])
	assert.EqualValues(t, 3, session["publishes"])
	assert.Equal(t, "max_duration", session["stop_reason"])
	assert.Equal(t, "2 hours", body["uptime"])
}

func TestHandlePlaylist(t *testing.T) {
	store := playlist.NewFileStore(filepath.Join(t.TempDir(), "master.m3u"))
	app, _ := setupTestApp(t, store)

	resp, err := app.Test(httptest.NewRequest("GET", "/playlist.m3u", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	doc, _ := playlist.Synthesize([]playlist.Entry{
		{Category: "News", Name: "Alpha", URL: "http://a/1", Alive: true},
		{Category: "News", Name: "Bravo", URL: "http://b/1", Alive: false},
	}, playlist.Options{DeadPolicy: playlist.DeadMark})
	require.NoError(t, store.Write(doc))

	resp, err = app.Test(httptest.NewRequest("GET", "/playlist.m3u", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "audio/x-mpegurl", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.Equal(t, string(doc.Bytes()), string(raw))

	resp, err = app.Test(httptest.NewRequest("GET", "/playlist/entries", nil))
	require.NoError(t, err)
	body := decode(t, resp.Body)
	assert.EqualValues(t, 2, body["count"])
	assert.EqualValues(t, 1, body["dead"])
	assert.Equal(t, false, body["placeholder"])
	entries := body["entries"].([]any)
	assert.Equal(t, "Bravo", entries[1].(map[string]any)["name"])
}

func TestHandlePlaylist_ReadError(t *testing.T) {
	app, _ := setupTestApp(t, brokenStore{})

	resp, err := app.Test(httptest.NewRequest("GET", "/playlist/entries", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "disk gone", decode(t, resp.Body)["error"])
}

func TestTracker_Snapshot(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, reconcile.PhaseIdle, tr.Snapshot().Phase)
	tr.Observe(reconcile.SessionState{ID: "x", Ticks: 1})
	assert.Equal(t, "x", tr.Snapshot().ID)
}

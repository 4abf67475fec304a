package reconcile_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"m3u-guardian/core/playlist"
	"m3u-guardian/core/reconcile"
	"m3u-guardian/core/streams"

	"github.com/stretchr/testify/require"
)

var (
	t1 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	t2 = t1.Add(time.Hour)
	t3 = t2.Add(time.Hour)
)

// oracle is a deterministic prober answering from a url -> alive table.
type oracle struct {
	mu    sync.Mutex
	alive map[string]bool
	calls map[string]int
}

func newOracle(alive ...string) *oracle {
	o := &oracle{alive: make(map[string]bool), calls: make(map[string]int)}
	for _, u := range alive {
		o.alive[u] = true
	}
	return o
}

func (o *oracle) set(url string, alive bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.alive[url] = alive
}

func (o *oracle) Probe(_ context.Context, url string) reconcile.ProbeResult {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls[url]++
	if o.alive[url] {
		return reconcile.ProbeResult{Alive: true, Status: 200, Method: "HEAD"}
	}
	return reconcile.ProbeResult{Alive: false, Status: 404, Method: "HEAD"}
}

func (o *oracle) callsFor(url string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls[url]
}

func cand(url, name string, at time.Time) streams.Candidate {
	return streams.NewCandidate(url, name, "News", at)
}

// fixture lays out a database file and a playlist path in a temp dir.
type fixture struct {
	dbPath       string
	playlistPath string
}

func newFixture(t *testing.T) fixture {
	dir := t.TempDir()
	return fixture{
		dbPath:       filepath.Join(dir, "data", "streams.json"),
		playlistPath: filepath.Join(dir, "master.m3u"),
	}
}

func (f fixture) writeDB(t *testing.T, cands ...streams.Candidate) {
	db := streams.New()
	for _, c := range cands {
		db.AddByName(c)
	}
	require.NoError(t, db.Save(f.dbPath))
}

func (f fixture) engine(p reconcile.Prober, pub reconcile.Publisher, n reconcile.Notifier) *reconcile.Engine {
	selector := reconcile.NewSelector(p, 4, nil)
	detector := reconcile.NewChangeDetector(playlist.NewFileStore(f.playlistPath), pub, n, "master.m3u", nil)
	return reconcile.NewEngine(streams.FileSource{Path: f.dbPath}, selector, detector, playlist.Options{DeadPolicy: playlist.DeadMark}, nil)
}

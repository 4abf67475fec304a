package reconcile

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// probeMemo remembers probe results for the lifetime of one tick, so a URL
// listed under several groups is probed once. Concurrent callers for the same
// URL share a single in-flight probe.
type probeMemo struct {
	prober  Prober
	mu      sync.RWMutex
	results map[string]ProbeResult
	sf      singleflight.Group
	probes  atomic.Int64
}

func newProbeMemo(p Prober) *probeMemo {
	return &probeMemo{
		prober:  p,
		results: make(map[string]ProbeResult),
	}
}

// probe returns the memoized result for url, probing it on first use.
func (m *probeMemo) probe(ctx context.Context, url string) ProbeResult {
	m.mu.RLock()
	r, ok := m.results[url]
	m.mu.RUnlock()
	if ok {
		return r
	}

	v, _, _ := m.sf.Do(url, func() (interface{}, error) {
		m.mu.RLock()
		r, ok := m.results[url]
		m.mu.RUnlock()
		if ok {
			return r, nil
		}

		r = m.prober.Probe(ctx, url)
		r.URL = url
		m.probes.Add(1)

		m.mu.Lock()
		m.results[url] = r
		m.mu.Unlock()
		return r, nil
	})
	return v.(ProbeResult)
}

// count returns the number of network probes actually issued.
func (m *probeMemo) count() int {
	return int(m.probes.Load())
}

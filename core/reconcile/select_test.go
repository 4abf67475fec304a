package reconcile_test

import (
	"context"
	"testing"

	"m3u-guardian/core/playlist"
	"m3u-guardian/core/reconcile"
	"m3u-guardian/core/reconcile/mocks"
	"m3u-guardian/core/streams"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func group(cands ...streams.Candidate) *streams.Group {
	return &streams.Group{Key: "k", Candidates: cands}
}

func TestSelect_PrefersMostRecentAlive(t *testing.T) {
	sel := reconcile.NewSelector(newOracle("A", "B"), 1, nil)

	got, ok := sel.Select(context.Background(), group(cand("A", "Chan", t1), cand("B", "Chan", t2)))
	require.True(t, ok)
	assert.Equal(t, "B", got.Candidate.URL)
	assert.True(t, got.Alive)
	assert.Equal(t, 1, got.Probed)
}

func TestSelect_FallsBackToOlderAlive(t *testing.T) {
	o := newOracle("A")
	sel := reconcile.NewSelector(o, 1, nil)

	got, ok := sel.Select(context.Background(), group(cand("A", "Chan", t1), cand("B", "Chan", t2)))
	require.True(t, ok)
	assert.Equal(t, "A", got.Candidate.URL)
	assert.True(t, got.Alive)
	assert.Equal(t, 1, o.callsFor("B"))
}

func TestSelect_DeadFallback(t *testing.T) {
	sel := reconcile.NewSelector(newOracle(), 1, nil)

	got, ok := sel.Select(context.Background(), group(cand("A", "Chan", t1), cand("C", "Chan", t3), cand("B", "Chan", t2)))
	require.True(t, ok)
	assert.Equal(t, "C", got.Candidate.URL, "most recent candidate is kept")
	assert.False(t, got.Alive)
	assert.Equal(t, 3, got.Probed)

	doc, _ := playlist.Synthesize([]playlist.Entry{reconcile.EntryFor(got)}, playlist.Options{})
	assert.Contains(t, doc.Lines[1], "Chan"+playlist.DeadMarker)
}

func TestSelect_TiesKeepInsertionOrder(t *testing.T) {
	sel := reconcile.NewSelector(newOracle("A", "B"), 1, nil)

	got, ok := sel.Select(context.Background(), group(cand("A", "Chan", t1), cand("B", "Chan", t1)))
	require.True(t, ok)
	assert.Equal(t, "A", got.Candidate.URL)
}

func TestSelect_EmptyGroup(t *testing.T) {
	sel := reconcile.NewSelector(newOracle(), 1, nil)

	_, ok := sel.Select(context.Background(), group())
	assert.False(t, ok)

	_, ok = sel.Select(context.Background(), nil)
	assert.False(t, ok)
}

func TestSelectAll_KeepsDatabaseOrderAndProbesOncePerURL(t *testing.T) {
	db := streams.New()
	db.Add("zulu", cand("shared", "Zulu", t1))
	db.Add("alpha", cand("shared", "Alpha", t1))
	db.Add("alpha", cand("alpha-new", "Alpha", t2))
	db.Add("empty", streams.Candidate{})
	db.Add("mike", cand("mike", "Mike", t1))

	p := new(mocks.Prober)
	p.On("Probe", mock.Anything, "shared").Return(reconcile.ProbeResult{Alive: true, Status: 200}).Once()
	p.On("Probe", mock.Anything, "alpha-new").Return(reconcile.ProbeResult{Alive: false, Status: 500}).Once()
	p.On("Probe", mock.Anything, "mike").Return(reconcile.ProbeResult{Alive: false}).Once()

	sel := reconcile.NewSelector(p, 8, nil)
	got, probes := sel.SelectAll(context.Background(), db)

	require.Len(t, got, 3)
	assert.Equal(t, "zulu", got[0].Key)
	assert.Equal(t, "alpha", got[1].Key)
	assert.Equal(t, "shared", got[1].Candidate.URL)
	assert.Equal(t, "mike", got[2].Key)
	assert.False(t, got[2].Alive)

	assert.Equal(t, 3, probes)
	p.AssertExpectations(t)
}

package reconcile

import (
	"context"

	"m3u-guardian/core/streams"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of groups probed in parallel when none is
// configured.
const DefaultConcurrency = 8

// Selector picks one candidate per channel group.
type Selector struct {
	prober      Prober
	concurrency int
	logger      *zap.Logger
}

// NewSelector creates a selector. concurrency <= 0 uses DefaultConcurrency.
func NewSelector(p Prober, concurrency int, logger *zap.Logger) *Selector {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{prober: p, concurrency: concurrency, logger: logger}
}

// Select probes the group's candidates from most to least recent and returns
// the first alive one. When none answers, the most recent candidate is
// returned with Alive=false. An empty group yields ok=false.
func (s *Selector) Select(ctx context.Context, g *streams.Group) (Selection, bool) {
	return s.selectWith(ctx, g, newProbeMemo(s.prober))
}

func (s *Selector) selectWith(ctx context.Context, g *streams.Group, memo *probeMemo) (Selection, bool) {
	if g == nil || len(g.Candidates) == 0 {
		return Selection{}, false
	}

	ordered := g.ByRecency()
	for i, c := range ordered {
		r := memo.probe(ctx, c.URL)
		if r.Alive {
			return Selection{Key: g.Key, Candidate: c, Alive: true, Probed: i + 1}, true
		}
		s.logger.Debug("Candidate dead",
			zap.String("group", g.Key),
			zap.String("url", c.URL),
			zap.Int("status", r.Status),
			zap.Error(r.Err),
		)
	}

	return Selection{Key: g.Key, Candidate: ordered[0], Alive: false, Probed: len(ordered)}, true
}

// SelectAll selects every group of db concurrently and returns the
// selections in database order, plus the number of probes issued.
func (s *Selector) SelectAll(ctx context.Context, db *streams.Database) ([]Selection, int) {
	groups := db.Groups()
	memo := newProbeMemo(s.prober)
	picked := make([]*Selection, len(groups))

	var eg errgroup.Group
	eg.SetLimit(s.concurrency)
	for i, g := range groups {
		eg.Go(func() error {
			if sel, ok := s.selectWith(ctx, g, memo); ok {
				picked[i] = &sel
			}
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]Selection, 0, len(groups))
	for _, sel := range picked {
		if sel != nil {
			out = append(out, *sel)
		}
	}
	return out, memo.count()
}

package catalog

import (
	"context"
	"fmt"

	"m3u-guardian/core/clock"
	"m3u-guardian/core/reconcile"
	"m3u-guardian/core/streams"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Report summarises one ingestion.
type Report struct {
	Categories int `json:"categories"`
	Streams    int `json:"streams"`
	Probed     int `json:"probed"`
	Healthy    int `json:"healthy"`
	Added      int `json:"added"`
}

// Service merges the panel's healthy streams into the stream database.
type Service struct {
	client      *Client
	prober      reconcile.Prober
	clock       clock.Clock
	concurrency int
	logger      *zap.Logger
}

// NewService creates an ingestion service.
func NewService(client *Client, prober reconcile.Prober, clk clock.Clock, concurrency int, logger *zap.Logger) *Service {
	if clk == nil {
		clk = clock.Real()
	}
	if concurrency <= 0 {
		concurrency = reconcile.DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:      client,
		prober:      prober,
		clock:       clk,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Ingest fetches the catalog, probes it and merges healthy streams into the
// database at dbPath. A missing or unreadable database starts empty.
func (s *Service) Ingest(ctx context.Context, dbPath string) (Report, error) {
	var report Report

	categories, err := s.client.Categories(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch categories: %w", err)
	}
	list, err := s.client.Streams(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch streams: %w", err)
	}
	report.Categories = len(categories)
	report.Streams = len(list)
	s.logger.Info("Fetched catalog", zap.Int("streams", len(list)), zap.Int("categories", len(categories)))

	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	healthy := s.probeAll(ctx, list, &report)
	report.Healthy = len(healthy)

	load := streams.Load(dbPath)
	if load.Status == streams.LoadCorrupt {
		s.logger.Warn("Existing database unreadable, starting empty", zap.Error(load.Err))
	}
	db := load.DB

	now := s.clock.Now().UTC()
	for _, st := range healthy {
		c := streams.NewCandidate(st.URL, st.Name, names[st.CategoryID], now)
		if db.AddByName(c) {
			report.Added++
		}
	}

	if err := db.Save(dbPath); err != nil {
		return report, err
	}
	s.logger.Info("Catalog ingested",
		zap.Int("healthy", report.Healthy),
		zap.Int("added", report.Added),
		zap.String("path", dbPath),
	)
	return report, nil
}

// probeAll returns the alive streams in catalog order.
func (s *Service) probeAll(ctx context.Context, list []Stream, report *Report) []Stream {
	alive := make([]bool, len(list))

	var eg errgroup.Group
	eg.SetLimit(s.concurrency)
	for i, st := range list {
		if st.URL == "" || st.Name == "" {
			continue
		}
		report.Probed++
		eg.Go(func() error {
			r := s.prober.Probe(ctx, st.URL)
			alive[i] = r.Alive
			if !r.Alive {
				s.logger.Debug("Stream unhealthy", zap.String("name", st.Name), zap.Int("status", r.Status), zap.Error(r.Err))
			}
			return nil
		})
	}
	_ = eg.Wait()

	out := make([]Stream, 0, len(list))
	for i, st := range list {
		if alive[i] {
			out = append(out, st)
		}
	}
	return out
}

package reconcile

import (
	"context"
	"time"

	"m3u-guardian/core/playlist"
	"m3u-guardian/core/streams"

	"go.uber.org/zap"
)

// Engine runs the load, probe, select, synthesize and publish steps of one
// tick.
type Engine struct {
	source   DatabaseSource
	selector *Selector
	detector *ChangeDetector
	opts     playlist.Options
	logger   *zap.Logger
}

// NewEngine wires an engine from its collaborators.
func NewEngine(source DatabaseSource, selector *Selector, detector *ChangeDetector, opts playlist.Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		source:   source,
		selector: selector,
		detector: detector,
		opts:     opts,
		logger:   logger,
	}
}

// Render loads the database, probes it and synthesizes the document without
// touching storage.
func (e *Engine) Render(ctx context.Context) (playlist.Document, CycleReport) {
	report := CycleReport{StartedAt: time.Now()}

	load := e.source.Load()
	report.LoadStatus = load.Status
	switch {
	case load.Status == streams.LoadMissing:
		e.logger.Warn("Stream database not found, using empty database", zap.Error(load.Err))
	case load.Err != nil:
		e.logger.Error("Stream database unreadable, using empty database", zap.Error(load.Err))
	case load.Skipped > 0:
		e.logger.Warn("Skipped invalid candidates", zap.Int("skipped", load.Skipped))
	}

	db := load.DB
	report.Groups = db.Len()
	report.Candidates = db.CandidateCount()

	selections, probes := e.selector.SelectAll(ctx, db)
	report.Probes = probes
	report.Selected = len(selections)

	entries := make([]playlist.Entry, 0, len(selections))
	for _, sel := range selections {
		if sel.Alive {
			report.Alive++
		} else {
			report.Dead++
		}
		entries = append(entries, EntryFor(sel))
	}

	doc, count := playlist.Synthesize(entries, e.opts)
	report.Publish.Entries = count
	report.Duration = time.Since(report.StartedAt)
	return doc, report
}

// RunCycle executes one full tick and reports what happened.
func (e *Engine) RunCycle(ctx context.Context) CycleReport {
	doc, report := e.Render(ctx)
	report.Publish = e.detector.MaybePublish(ctx, doc, report.Publish.Entries)
	report.Duration = time.Since(report.StartedAt)

	e.logger.Info("Cycle complete",
		zap.String("load_status", string(report.LoadStatus)),
		zap.Int("groups", report.Groups),
		zap.Int("alive", report.Alive),
		zap.Int("dead", report.Dead),
		zap.Int("probes", report.Probes),
		zap.Bool("changed", report.Publish.Changed),
		zap.Bool("published", report.Publish.Published),
		zap.Duration("duration", report.Duration),
	)
	return report
}

// EntryFor converts a selection into a playlist entry.
func EntryFor(sel Selection) playlist.Entry {
	return playlist.Entry{
		Category: sel.Candidate.CategoryOrDefault(),
		Name:     sel.Candidate.Name,
		URL:      sel.Candidate.URL,
		Alive:    sel.Alive,
	}
}

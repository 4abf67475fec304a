package reconcile

import (
	"context"
	"fmt"
	"time"

	"m3u-guardian/core/clock"
	"m3u-guardian/core/logger"

	"go.uber.org/zap"
)

// Defaults for a guardian session. The session bound stays below the six
// hour ceiling of hosted CI runners.
const (
	DefaultTickInterval = 10 * time.Second
	DefaultMaxDuration  = 5*time.Hour + 50*time.Minute
)

// SchedulerConfig parameterises a session.
type SchedulerConfig struct {
	// TickInterval is the pause between the end of a tick and the next one.
	TickInterval time.Duration
	// MaxDuration bounds the session. Zero or negative means unbounded.
	MaxDuration time.Duration
}

// Scheduler drives ticks sequentially until the session bound is reached or
// its context is cancelled.
type Scheduler struct {
	cycler   Cycler
	notifier Notifier
	clock    clock.Clock
	cfg      SchedulerConfig
	logger   *zap.Logger
	onTick   func(SessionState)
}

// NewScheduler creates a scheduler. A nil clock uses the real clock.
func NewScheduler(cycler Cycler, notifier Notifier, clk clock.Clock, cfg SchedulerConfig, l *zap.Logger) *Scheduler {
	if clk == nil {
		clk = clock.Real()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Scheduler{
		cycler:   cycler,
		notifier: notifier,
		clock:    clk,
		cfg:      cfg,
		logger:   l,
	}
}

// OnTick registers an observer that receives a copy of the session state
// after every tick and once more when the session stops.
func (s *Scheduler) OnTick(fn func(SessionState)) {
	s.onTick = fn
}

// Run executes the session and returns its final state. Cancellation is only
// observed between ticks: a tick in progress always completes.
func (s *Scheduler) Run(ctx context.Context) SessionState {
	state := NewSessionState()
	log := logger.WithSession(s.logger, state.ID)

	state.Phase = PhaseRunning
	state.StartedAt = s.clock.Now()
	s.emit(state)

	log.Info("Guardian started",
		zap.Duration("interval", s.cfg.TickInterval),
		zap.Duration("max_duration", s.cfg.MaxDuration),
	)
	notify(ctx, s.notifier, log, fmt.Sprintf("🛡️ Guardian started. Checking every %s.", s.cfg.TickInterval))

	// Ticks run detached from cancellation; probes are bounded by their own timeouts.
	tickCtx := context.WithoutCancel(ctx)

	for {
		if reason, stop := s.shouldStop(ctx, state); stop {
			state.StopReason = reason
			break
		}

		report := s.cycler.RunCycle(tickCtx)
		state.Ticks++
		if report.Publish.Published {
			state.Publishes++
		}
		state.LastTick = report
		s.emit(state)

		if reason, stop := s.shouldStop(ctx, state); stop {
			state.StopReason = reason
			break
		}

		select {
		case <-ctx.Done():
		case <-s.clock.After(s.cfg.TickInterval):
		}
	}

	state.Phase = PhaseStopped
	state.StoppedAt = s.clock.Now()
	s.emit(state)

	log.Info("Guardian stopped",
		zap.String("reason", string(state.StopReason)),
		zap.Int("ticks", state.Ticks),
		zap.Int("publishes", state.Publishes),
		zap.Duration("elapsed", state.StoppedAt.Sub(state.StartedAt)),
	)
	// The session context may already be cancelled; the farewell still goes out.
	notify(context.WithoutCancel(ctx), s.notifier, log, fmt.Sprintf("🛑 Guardian job ended (%s).", stopLabel(state.StopReason)))
	return state
}

func (s *Scheduler) shouldStop(ctx context.Context, state SessionState) (StopReason, bool) {
	if ctx.Err() != nil {
		return StopCancelled, true
	}
	if s.cfg.MaxDuration > 0 && state.Elapsed(s.clock.Now()) >= s.cfg.MaxDuration {
		return StopMaxDuration, true
	}
	return "", false
}

func (s *Scheduler) emit(state SessionState) {
	if s.onTick != nil {
		s.onTick(state)
	}
}

func stopLabel(r StopReason) string {
	switch r {
	case StopMaxDuration:
		return "max runtime"
	case StopCancelled:
		return "cancelled"
	default:
		return string(r)
	}
}

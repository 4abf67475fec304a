package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"m3u-guardian/core/clock"
	"m3u-guardian/core/config"
	"m3u-guardian/core/lease"
	"m3u-guardian/core/loader"
	"m3u-guardian/core/logger"
	"m3u-guardian/core/middleware/auth"
	"m3u-guardian/core/middleware/rayid"
	"m3u-guardian/core/playlist"
	"m3u-guardian/core/reconcile"
	"m3u-guardian/feature/status"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runInterval    time.Duration
	runMaxDuration time.Duration
	runOnce        bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a guardian session",
	Long: `Runs reconciliation ticks until the session bound is reached or the
process receives SIGINT/SIGTERM. A tick in progress always completes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := bootstrap()
		if err != nil {
			return err
		}
		defer logg.Sync()

		if cmd.Flags().Changed("interval") {
			cfg.Guardian.Interval = runInterval
		}
		if cmd.Flags().Changed("max-duration") {
			cfg.Guardian.MaxDuration = runMaxDuration
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		comps, err := buildComponents(cfg, logg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		release, lost, err := acquireLease(ctx, cfg, logg)
		if err != nil {
			return err
		}
		defer release()

		ctx, cancel := stopOnLoss(ctx, lost, logg)
		defer cancel()

		if runOnce {
			report := comps.engine.RunCycle(ctx)
			logg.Info("Single cycle finished",
				zap.Int("entries", report.Publish.Entries),
				zap.Bool("published", report.Publish.Published),
			)
			return nil
		}

		tracker := status.NewTracker()
		if cfg.Server.Enabled() {
			app, err := newStatusApp(cfg, tracker, comps.store, logg)
			if err != nil {
				return err
			}
			go func() {
				logg.Info("Starting status server", zap.String("port", cfg.Server.Port))
				if err := app.Listen(cfg.Server.Addr()); err != nil {
					logg.Error("Status server stopped", zap.Error(err))
				}
			}()
			defer func() { _ = app.Shutdown() }()
		}

		scheduler := reconcile.NewScheduler(comps.engine, comps.notifier, clock.Real(), reconcile.SchedulerConfig{
			TickInterval: cfg.Guardian.Interval,
			MaxDuration:  cfg.Guardian.MaxDuration,
		}, logg)
		scheduler.OnTick(tracker.Observe)

		state := scheduler.Run(ctx)
		logg.Info("Session finished",
			zap.String("session_id", state.ID),
			zap.String("reason", string(state.StopReason)),
			zap.Int("ticks", state.Ticks),
			zap.Int("publishes", state.Publishes),
		)
		return nil
	},
}

// acquireLease takes the Redis session lease when one is configured. The
// returned release function is always safe to call. The lost channel is
// closed if another session takes the lease over; it is nil without Redis.
func acquireLease(ctx context.Context, cfg *config.Config, logg *zap.Logger) (func(), <-chan struct{}, error) {
	if cfg.Redis.URL == "" {
		return func() {}, nil, nil
	}

	mgr, err := lease.New(cfg.Redis.URL, logg)
	if err != nil {
		return nil, nil, err
	}
	l, err := mgr.Acquire(ctx, cfg.Redis.Key, cfg.Redis.TTL)
	if err != nil {
		_ = mgr.Close()
		if errors.Is(err, lease.ErrLocked) {
			return nil, nil, fmt.Errorf("another guardian session is running (%s): %w", cfg.Redis.Key, err)
		}
		return nil, nil, err
	}
	logg.Info("Acquired session lease", zap.String("key", cfg.Redis.Key))

	return func() {
		l.Release()
		_ = mgr.Close()
	}, l.Lost(), nil
}

// stopOnLoss returns a context cancelled when lost is closed, so the
// scheduler ends the session at the next tick boundary.
func stopOnLoss(ctx context.Context, lost <-chan struct{}, logg *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	go func() {
		select {
		case <-lost:
			logg.Warn("Session lease lost, stopping")
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

// newStatusApp builds the Fiber app serving the status feature.
func newStatusApp(cfg *config.Config, tracker *status.Tracker, store *playlist.FileStore, logg *zap.Logger) (*fiber.App, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// RayID first so every log line below carries it
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		err := c.Next()
		l.Debug("Request served",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
		)
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})
	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Public: []string{"/health"}}))

	mgr := loader.NewManager()
	mgr.Register(status.NewFeature(tracker, store, logg))
	names, err := mgr.LoadAll(app)
	if err != nil {
		return nil, err
	}
	logg.Debug("Loaded features", zap.Strings("features", names))
	return app, nil
}

func init() {
	runCmd.Flags().DurationVar(&runInterval, "interval", reconcile.DefaultTickInterval, "pause between ticks")
	runCmd.Flags().DurationVar(&runMaxDuration, "max-duration", reconcile.DefaultMaxDuration, "session bound, 0 for unbounded")
	runCmd.Flags().BoolVar(&runOnce, "once", false, "run a single tick and exit")
	RootCmd.AddCommand(runCmd)
}

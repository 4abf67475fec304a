// Package reconcile implements the guardian reconciliation loop: a repeated
// cycle that keeps a published M3U playlist in step with the liveness of the
// streams in the stream database.
//
// # Architecture
//
// One tick is made of four steps:
//
// 1. Load: a fresh snapshot of the stream database is read through a
// DatabaseSource. A missing or corrupt file degrades to an empty database.
//
// 2. Select: the Selector probes each group's candidates, most recent first,
// and keeps the first live one. When none answers the most recent candidate is
// kept and flagged dead, so a channel never silently disappears. Groups are
// probed concurrently; a URL is probed at most once per tick.
//
// 3. Synthesize: selections are rendered by the playlist package.
//
// 4. Publish: the ChangeDetector reads the persisted document back, compares
// it line by line and, only on difference, writes the new one and calls the
// Publisher.
//
// The Scheduler repeats ticks at a fixed interval for a bounded session and
// reports progress through SessionState.
//
// # Ports
//
// Every side effect that may fail independently (network probes, publishing,
// chat notifications) is reached through a narrow interface: Prober,
// Publisher, Notifier. Production adapters live under feature/; tests use the
// testify mocks in core/reconcile/mocks.
//
// # Usage Example
//
//	selector := reconcile.NewSelector(prober, 8, log)
//	detector := reconcile.NewChangeDetector(playlist.NewFileStore("master.m3u"), publisher, notifier, "master.m3u", log)
//	engine := reconcile.NewEngine(streams.FileSource{Path: "data/streams.json"}, selector, detector, playlist.Options{}, log)
//
//	sched := reconcile.NewScheduler(engine, notifier, clock.Real(), reconcile.SchedulerConfig{
//	    TickInterval: 10 * time.Second,
//	    MaxDuration:  5*time.Hour + 50*time.Minute,
//	}, log)
//	final := sched.Run(ctx)
package reconcile

package reconcile

import (
	"context"

	"m3u-guardian/core/playlist"
	"m3u-guardian/core/streams"
)

// Prober classifies a candidate URL as alive or dead. Implementations must
// bound their own blocking time and must not panic; failures are reported
// through ProbeResult.
type Prober interface {
	Probe(ctx context.Context, url string) ProbeResult
}

// Publisher hands a freshly persisted document to the distribution side
// (version control, object storage). It may fail independently of the cycle.
type Publisher interface {
	Publish(ctx context.Context, content []byte, summary string) error
}

// Notifier sends short human-readable messages. Errors are logged by the
// caller and otherwise ignored.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// DatabaseSource loads a fresh snapshot of the stream database.
type DatabaseSource interface {
	Load() streams.LoadResult
}

// DocumentStore reads and writes the published document.
type DocumentStore interface {
	Read() (doc playlist.Document, found bool, err error)
	Write(doc playlist.Document) error
}

// Cycler runs one reconciliation tick.
type Cycler interface {
	RunCycle(ctx context.Context) CycleReport
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, url string) ProbeResult

// Probe calls f.
func (f ProberFunc) Probe(ctx context.Context, url string) ProbeResult { return f(ctx, url) }

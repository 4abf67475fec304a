package reconcile

import (
	"context"
	"fmt"

	"m3u-guardian/core/playlist"

	"go.uber.org/zap"
)

// ChangeDetector persists and publishes a document only when it differs from
// the one already in storage.
type ChangeDetector struct {
	store     DocumentStore
	publisher Publisher
	notifier  Notifier
	name      string
	logger    *zap.Logger
}

// NewChangeDetector creates a detector. name is the playlist file name used
// in notifications; publisher and notifier may be nil.
func NewChangeDetector(store DocumentStore, publisher Publisher, notifier Notifier, name string, logger *zap.Logger) *ChangeDetector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeDetector{
		store:     store,
		publisher: publisher,
		notifier:  notifier,
		name:      name,
		logger:    logger,
	}
}

// MaybePublish compares doc with the persisted document. On difference it
// writes doc and then invokes the publisher; identical documents cause no
// side effect at all. The previous document is always read back from the
// store, never remembered between calls.
func (d *ChangeDetector) MaybePublish(ctx context.Context, doc playlist.Document, entries int) PublishResult {
	res := PublishResult{Entries: entries}

	prev, found, err := d.store.Read()
	if err != nil {
		// An unreadable previous document is treated as absent.
		d.logger.Warn("Failed to read previous playlist", zap.Error(err))
		res.ReadErr = err
	}
	res.PreviousFound = found

	if found && prev.Equal(doc) {
		return res
	}
	res.Changed = true

	if err := d.store.Write(doc); err != nil {
		d.logger.Error("Failed to write playlist", zap.Error(err))
		res.WriteErr = err
		return res
	}
	res.Written = true

	summary := fmt.Sprintf("Updated playlist (%d channels)", entries)
	if d.publisher != nil {
		if err := d.publisher.Publish(ctx, doc.Bytes(), summary); err != nil {
			d.logger.Error("Publish failed", zap.Error(err), zap.Int("entries", entries))
			res.PublishErr = err
			return res
		}
	}
	res.Published = true

	d.logger.Info("Playlist published", zap.Int("entries", entries))
	notify(ctx, d.notifier, d.logger, fmt.Sprintf("✅ Updated %s (%d channels)", d.name, entries))
	return res
}

// notify sends text and swallows any failure after logging it.
func notify(ctx context.Context, n Notifier, logger *zap.Logger, text string) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, text); err != nil {
		logger.Warn("Notification failed", zap.Error(err))
	}
}

package cmd

import (
	"m3u-guardian/core/config"
	"m3u-guardian/core/playlist"
	"m3u-guardian/core/reconcile"
	"m3u-guardian/core/storage"
	"m3u-guardian/core/streams"
	"m3u-guardian/feature/notify"
	"m3u-guardian/feature/probe"
	"m3u-guardian/feature/publish"

	"go.uber.org/zap"
)

// components are the collaborators shared by the run and render commands.
type components struct {
	store    *playlist.FileStore
	notifier reconcile.Notifier
	engine   *reconcile.Engine
}

func buildComponents(cfg *config.Config, logg *zap.Logger) (*components, error) {
	prober := probe.NewHTTPProber(cfg.Probe, nil, logg)
	store := playlist.NewFileStore(cfg.Paths.Playlist)

	publisher, err := buildPublisher(cfg, logg)
	if err != nil {
		return nil, err
	}
	notifier := notify.New(cfg.Notify.Telegram, logg)

	selector := reconcile.NewSelector(prober, cfg.Probe.Concurrency, logg)
	detector := reconcile.NewChangeDetector(store, publisher, notifier, cfg.Paths.Playlist, logg)
	engine := reconcile.NewEngine(
		streams.FileSource{Path: cfg.Paths.Database},
		selector,
		detector,
		playlist.Options{DeadPolicy: playlist.DeadPolicy(cfg.Guardian.DeadPolicy)},
		logg,
	)

	return &components{
		store:    store,
		notifier: notifier,
		engine:   engine,
	}, nil
}

// buildPublisher combines the enabled publishers.
func buildPublisher(cfg *config.Config, logg *zap.Logger) (reconcile.Publisher, error) {
	var pubs publish.Multi

	if cfg.Publish.Git.Enabled {
		pubs = append(pubs, publish.NewGit(cfg.Publish.Git, cfg.Paths.Playlist, logg))
	}
	if cfg.Publish.S3.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, publish.NewS3(client, cfg.Storage.Bucket, cfg.Publish.S3.Object, logg))
	}

	switch len(pubs) {
	case 0:
		logg.Info("No publisher enabled, playlist is only written locally")
		return publish.Nop{}, nil
	case 1:
		return pubs[0], nil
	default:
		return pubs, nil
	}
}

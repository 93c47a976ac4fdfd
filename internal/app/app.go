// Package app wires the catalog client, fetcher, extractor, content index
// and download manager together from Settings. Both the CLI and the TUI
// build on it.
package app

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/handiism/beatmap-downloader/internal/archive"
	"github.com/handiism/beatmap-downloader/internal/beatsaver"
	"github.com/handiism/beatmap-downloader/internal/config"
	"github.com/handiism/beatmap-downloader/internal/download"
	"github.com/handiism/beatmap-downloader/internal/http"
	"github.com/handiism/beatmap-downloader/internal/library"
	"github.com/handiism/beatmap-downloader/internal/playlist"
)

// App is a ready to use downloader.
type App struct {
	Settings *config.Settings
	Log      *zap.Logger
	Index    *library.DirIndex
	Manager  *download.Manager
}

// New builds an App from settings. The content index is scanned once before
// New returns. log may be nil.
func New(settings *config.Settings, log *zap.Logger, onProgress func(download.ProgressEvent)) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}

	httpClient := http.NewClient(settings.UserAgent, settings.RequestTimeout())
	catalog := beatsaver.NewClient(httpClient, settings.CatalogURL)

	index := library.NewDirIndex(settings.ContentPath, log.Named("library"))
	if err := index.Refresh(); err != nil {
		return nil, errors.Wrap(err, "index content root")
	}

	manager := download.NewManager(catalog, httpClient, archive.NewExtractor(), index, download.Options{
		ContentPath: settings.ContentPath,
		Overwrite:   settings.OverwriteExisting,
		Logger:      log.Named("download"),
		OnProgress:  onProgress,
	})

	return &App{
		Settings: settings,
		Log:      log,
		Index:    index,
		Manager:  manager,
	}, nil
}

// WatchContent keeps the index in sync with the content root in the
// background when the settings ask for it. It returns immediately.
func (a *App) WatchContent(ctx context.Context) {
	if !a.Settings.WatchContentPath {
		return
	}
	go func() {
		if err := a.Index.Watch(ctx); err != nil {
			a.Log.Warn("Content root watcher stopped", zap.Error(err))
		}
	}()
}

// Syncer returns a playlist syncer bound to the App's manager and index.
func (a *App) Syncer() *playlist.Syncer {
	return playlist.NewSyncer(a.Manager, a.Index, a.Settings.MaxConcurrentDownloads, a.Log.Named("playlist"))
}

package playlist

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/beatmap-downloader/internal/library"
)

// Downloader installs single songs. *download.Manager satisfies it.
type Downloader interface {
	DownloadByKey(ctx context.Context, key string, progress func(float64)) string
	DownloadByHash(ctx context.Context, hash string, progress func(float64))
}

// Report summarizes a Sync run.
type Report struct {
	Total     int
	Installed int // already present before the run
	Attempted int
}

// Syncer installs the missing songs of a playlist.
type Syncer struct {
	downloader Downloader
	index      library.Index
	limit      int
	log        *zap.Logger

	// OnSong is called before each download starts, possibly from several
	// goroutines at once. May be nil.
	OnSong func(Song)
}

// NewSyncer creates a Syncer running at most limit downloads at once.
// limit < 1 means one at a time.
func NewSyncer(downloader Downloader, index library.Index, limit int, log *zap.Logger) *Syncer {
	if limit < 1 {
		limit = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Syncer{
		downloader: downloader,
		index:      index,
		limit:      limit,
		log:        log,
	}
}

// Sync downloads every song of pl that the index does not hold.
//
// Songs with a hash are installed by exact version, the rest by key. Each
// song is an independent attempt; individual failures are logged by the
// downloader and do not stop the run. The only error returned is the
// context's, when it was cancelled before all songs were started.
func (s *Syncer) Sync(ctx context.Context, pl *Playlist) (*Report, error) {
	missing := pl.Missing(s.index)
	report := &Report{
		Total:     len(pl.Songs),
		Installed: len(pl.Songs) - len(missing),
	}

	s.log.Info("Syncing playlist",
		zap.String("title", pl.Title),
		zap.Int("songs", report.Total),
		zap.Int("missing", len(missing)))

	var attempted atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(s.limit)

	for _, song := range missing {
		song := song
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			attempted.Add(1)
			if s.OnSong != nil {
				s.OnSong(song)
			}

			if song.Hash != "" {
				s.downloader.DownloadByHash(ctx, song.Hash, nil)
			} else {
				s.downloader.DownloadByKey(ctx, song.Key, nil)
			}
			return nil
		})
	}

	_ = g.Wait()
	report.Attempted = int(attempted.Load())

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

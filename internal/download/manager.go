package download

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/handiism/beatmap-downloader/internal/archive"
	"github.com/handiism/beatmap-downloader/internal/beatsaver"
	"github.com/handiism/beatmap-downloader/internal/http"
	ioutils "github.com/handiism/beatmap-downloader/internal/io"
	"github.com/handiism/beatmap-downloader/internal/library"
	"github.com/handiism/beatmap-downloader/internal/model"
)

// ErrVersionNotFound is logged when a beatmap has no version to download.
var ErrVersionNotFound = errors.New("no matching version")

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Catalog resolves keys and hashes to beatmap records. MapByHash reports an
// unknown hash as (nil, nil); a nil beatmap from MapByKey is treated the same
// as beatsaver.ErrNotFound.
type Catalog interface {
	MapByKey(ctx context.Context, key string) (*model.Beatmap, error)
	MapByHash(ctx context.Context, hash string) (*model.Beatmap, error)
}

// Fetcher downloads raw bytes.
type Fetcher interface {
	Get(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error)
}

// Extractor installs a downloaded archive.
type Extractor interface {
	Extract(ctx context.Context, data []byte, root string, opts archive.Options) (*archive.Result, error)
}

// Options configure a Manager.
type Options struct {
	// ContentPath is the root directory levels are installed into. It is
	// created on demand.
	ContentPath string

	// Overwrite is passed on to the extractor.
	Overwrite bool

	// Logger receives one error entry per failed operation. Nil disables
	// logging.
	Logger *zap.Logger

	// OnProgress receives human readable status messages. May be nil.
	OnProgress func(ProgressEvent)
}

// Manager downloads and installs beatmaps.
//
// Every public operation is one attempt at a fetch → download → extract
// pipeline. Failures are logged and reported through the return value or not
// at all; they never propagate as errors. Cancellation through ctx stops the
// pipeline and is not logged as a failure.
//
// A Manager holds no per-call state and may be used from several goroutines.
// Concurrent calls are not coordinated: two calls for the same hash both
// download, and the second lands in a suffixed directory.
type Manager struct {
	catalog   Catalog
	fetcher   Fetcher
	extractor Extractor
	index     library.Index

	contentPath string
	overwrite   bool
	log         *zap.Logger
	onProgress  func(ProgressEvent)
}

// NewManager creates a new download Manager.
//
// index is consulted by DownloadByKey and told about every installed level;
// it may be nil, in which case nothing counts as installed.
func NewManager(catalog Catalog, fetcher Fetcher, extractor Extractor, index library.Index, opts Options) *Manager {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		catalog:     catalog,
		fetcher:     fetcher,
		extractor:   extractor,
		index:       index,
		contentPath: opts.ContentPath,
		overwrite:   opts.Overwrite,
		log:         log,
		onProgress:  opts.OnProgress,
	}
}

// ContentPath returns the directory levels are installed into.
func (m *Manager) ContentPath() string {
	return m.contentPath
}

// DownloadByKey installs the latest version of the beatmap with key.
//
// A key does not identify a version, so the newest one is always chosen. The
// download is skipped when the index already holds that version. Returns the
// version's hash, also when it was already installed, or "" when the lookup
// or the download failed.
func (m *Manager) DownloadByKey(ctx context.Context, key string, progress func(float64)) string {
	log := m.opLogger("key", key)

	beatmap, err := m.catalog.MapByKey(ctx, key)
	if err == nil && beatmap == nil {
		err = errors.Wrapf(beatsaver.ErrNotFound, "key %s", key)
	}
	if err != nil {
		m.fail(ctx, log, key, err)
		return ""
	}

	latest := beatmap.LatestVersion()
	if latest == nil {
		m.fail(ctx, log, key, errors.Wrap(ErrVersionNotFound, "beatmap has no versions"))
		return ""
	}

	if m.index != nil && m.index.Contains(latest.Hash) {
		log.Debug("Beatmap already installed", zap.String("hash", latest.Hash))
		m.progress(ProgressEvent{Message: fmt.Sprintf("Already installed: %s", beatmap), Level: LevelVerbose})
		return latest.Hash
	}

	if err := m.install(ctx, log, beatmap, latest, progress); err != nil {
		m.fail(ctx, log, key, err)
		return ""
	}
	return latest.Hash
}

// DownloadByHash installs the exact version with hash.
//
// If the catalog has no beatmap for the hash, or the beatmap it returns has
// no version with that hash, one failure is logged and nothing is installed.
// A newer version of the same beatmap is never installed in its place.
func (m *Manager) DownloadByHash(ctx context.Context, hash string, progress func(float64)) {
	hash = strings.TrimSpace(hash)
	log := m.opLogger("hash", hash)

	beatmap, err := m.catalog.MapByHash(ctx, hash)
	if err != nil {
		m.fail(ctx, log, hash, err)
		return
	}
	if beatmap == nil {
		m.failMsg(log, fmt.Sprintf("Failed to download Song %s. Unable to find a beatmap for that hash.", hash))
		return
	}

	version := beatmap.VersionByHash(hash)
	if version == nil {
		m.failMsg(log, fmt.Sprintf("Failed to download Song %s. Unable to find a matching version for that hash.", hash))
		return
	}

	if err := m.install(ctx, log, beatmap, version, progress); err != nil {
		m.fail(ctx, log, hash, err)
	}
}

// DownloadByCustomURL downloads the archive at url and installs it under
// songName. There is no catalog record and no installed-content check; the
// archive is always fetched and extracted.
func (m *Manager) DownloadByCustomURL(ctx context.Context, url, songName string) {
	log := m.opLogger("url", url)

	if err := ioutils.EnsureDir(m.contentPath); err != nil {
		m.fail(ctx, log, url, err)
		return
	}

	data, err := m.fetcher.Get(ctx, url, nil)
	if err != nil {
		m.fail(ctx, log, url, err)
		return
	}

	m.extract(ctx, log, data, archive.Options{Overwrite: m.overwrite, Name: songName}, "")
}

// install downloads version and extracts it. Only download failures are
// returned; extraction failures are logged by extract.
func (m *Manager) install(ctx context.Context, log *zap.Logger, beatmap *model.Beatmap, version *model.Version, progress func(float64)) error {
	if err := ioutils.EnsureDir(m.contentPath); err != nil {
		return err
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Downloading %s", beatmap), Level: LevelInfo})

	var onProgress func(written, total int64)
	if progress != nil {
		onProgress = func(written, total int64) {
			progress(http.Fraction(written, total))
		}
	}

	data, err := m.fetcher.Get(ctx, version.DownloadURL, onProgress)
	if err != nil {
		return errors.Wrapf(err, "download version %s", version.Hash)
	}
	if progress != nil {
		progress(1)
	}

	m.extract(ctx, log, data, archive.Options{Overwrite: m.overwrite, Beatmap: beatmap}, version.Hash)
	return nil
}

// extract installs data and records it in the index. Failures are logged and
// end the operation without being reported to the caller.
func (m *Manager) extract(ctx context.Context, log *zap.Logger, data []byte, opts archive.Options, hash string) {
	res, err := m.extractor.Extract(ctx, data, m.contentPath, opts)
	if err != nil {
		if isCancellation(ctx, err) {
			log.Debug("Extraction cancelled", zap.Error(err))
			return
		}
		log.Error("Unable to extract ZIP!", zap.Error(err))
		m.progress(ProgressEvent{Message: fmt.Sprintf("Unable to extract ZIP: %v", err), Level: LevelError})
		return
	}

	if hash != "" && m.index != nil {
		m.index.Add(hash, res.Dir)
	}

	log.Info("Installed beatmap", zap.String("dir", res.Dir), zap.Int("files", len(res.Written)))
	m.progress(ProgressEvent{Message: fmt.Sprintf("Installed: %s", res.Dir), Level: LevelSuccess})
}

func (m *Manager) opLogger(kind, id string) *zap.Logger {
	return m.log.With(zap.String("op", uuid.NewString()), zap.String(kind, id))
}

// fail logs err for the operation identified by id unless it is a
// cancellation.
func (m *Manager) fail(ctx context.Context, log *zap.Logger, id string, err error) {
	if isCancellation(ctx, err) {
		log.Debug("Download cancelled", zap.Error(err))
		m.progress(ProgressEvent{Message: fmt.Sprintf("Cancelled: %s", id), Level: LevelWarning})
		return
	}
	m.failMsg(log, fmt.Sprintf("Failed to download Song %s. Exception: %v", id, err))
}

func (m *Manager) failMsg(log *zap.Logger, msg string) {
	log.Error(msg)
	m.progress(ProgressEvent{Message: msg, Level: LevelError})
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// isCancellation reports whether err stems from the caller giving up rather
// than from a real failure.
func isCancellation(ctx context.Context, err error) bool {
	return errors.Is(err, context.Canceled) || ctx.Err() != nil
}

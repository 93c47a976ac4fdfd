package library

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	ioutils "github.com/handiism/beatmap-downloader/internal/io"
)

// ErrNoInfo is returned by HashLevel for directories without an Info.dat.
var ErrNoInfo = errors.New("no Info.dat in level directory")

// infoFile lists the fields of Info.dat that name the difficulty files.
// Both the v2 ("_difficultyBeatmapSets") and v4 ("difficultyBeatmaps")
// layouts are understood.
type infoFile struct {
	DifficultyBeatmapSets []struct {
		DifficultyBeatmaps []struct {
			BeatmapFilename string `json:"_beatmapFilename"`
		} `json:"_difficultyBeatmaps"`
	} `json:"_difficultyBeatmapSets"`

	DifficultyBeatmaps []struct {
		BeatmapDataFilename string `json:"beatmapDataFilename"`
	} `json:"difficultyBeatmaps"`
}

func (f *infoFile) difficultyFiles() []string {
	var files []string
	for _, set := range f.DifficultyBeatmapSets {
		for _, d := range set.DifficultyBeatmaps {
			if d.BeatmapFilename != "" {
				files = append(files, d.BeatmapFilename)
			}
		}
	}
	for _, d := range f.DifficultyBeatmaps {
		if d.BeatmapDataFilename != "" {
			files = append(files, d.BeatmapDataFilename)
		}
	}
	return files
}

// HashLevel computes the content hash of the level stored in dir.
//
// The hash is the upper-case hex SHA-1 of Info.dat followed by every
// difficulty file it lists, in listing order. A level with a missing
// difficulty file cannot be hashed; this is also the state of a level that
// is still being extracted.
func HashLevel(dir string) (string, error) {
	infoPath, err := findInfo(dir)
	if err != nil {
		return "", err
	}

	info, err := os.ReadFile(infoPath)
	if err != nil {
		return "", errors.Wrap(err, "read Info.dat")
	}

	var doc infoFile
	if err := json.Unmarshal(info, &doc); err != nil {
		return "", errors.Wrapf(err, "parse %s", infoPath)
	}

	h := sha1.New()
	h.Write(info)
	for _, name := range doc.difficultyFiles() {
		data, err := os.ReadFile(filepath.Join(dir, filepath.Base(name)))
		if err != nil {
			return "", errors.Wrapf(err, "read difficulty %s", name)
		}
		h.Write(data)
	}

	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}

func findInfo(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(e.Name(), "info.dat") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", ErrNoInfo
}

// DirIndex is an Index over the level directories directly below a content
// root.
//
// Example:
//
//	idx := library.NewDirIndex(settings.ContentPath, log)
//	if err := idx.Refresh(); err != nil {
//	    return err
//	}
//	go idx.Watch(ctx) // keep up with levels installed by other tools
type DirIndex struct {
	*MemoryIndex

	root string
	log  *zap.Logger
}

// NewDirIndex creates an empty index for root. Call Refresh to populate it.
func NewDirIndex(root string, log *zap.Logger) *DirIndex {
	if log == nil {
		log = zap.NewNop()
	}
	return &DirIndex{
		MemoryIndex: NewMemoryIndex(),
		root:        root,
		log:         log,
	}
}

// Root returns the content root the index covers.
func (d *DirIndex) Root() string {
	return d.root
}

// Refresh rescans the content root. Directories that cannot be hashed are
// left out and logged at debug level. A missing root yields an empty index.
func (d *DirIndex) Refresh() error {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			d.reset(nil)
			return nil
		}
		return errors.Wrapf(err, "scan %s", d.root)
	}

	found := make(map[string]string)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(d.root, e.Name())
		hash, err := HashLevel(dir)
		if err != nil {
			d.log.Debug("Skipping level directory", zap.String("dir", dir), zap.Error(err))
			continue
		}
		found[dir] = hash
	}

	d.reset(found)
	d.log.Debug("Indexed content root", zap.String("root", d.root), zap.Int("levels", len(found)))
	return nil
}

func (d *DirIndex) reset(found map[string]string) {
	fresh := NewMemoryIndex()
	for dir, hash := range found {
		fresh.Add(hash, dir)
	}

	d.mu.Lock()
	d.byHash, d.byDir = fresh.byHash, fresh.byDir
	d.mu.Unlock()
}

// Watch keeps the index in sync with the content root until ctx is done.
//
// New or changed level directories are rehashed after every write, so a
// level extracted by another process becomes visible once its last file is
// in place. Removed directories are dropped.
func (d *DirIndex) Watch(ctx context.Context) error {
	if err := ioutils.EnsureDir(d.root); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	if err := w.Add(d.root); err != nil {
		return errors.Wrapf(err, "watch %s", d.root)
	}
	entries, _ := os.ReadDir(d.root)
	for _, e := range entries {
		if e.IsDir() {
			_ = w.Add(filepath.Join(d.root, e.Name()))
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			d.handle(w, ev)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			d.log.Warn("Content root watcher error", zap.String("root", d.root), zap.Error(err))
		}
	}
}

func (d *DirIndex) handle(w *fsnotify.Watcher, ev fsnotify.Event) {
	rel, err := filepath.Rel(d.root, ev.Name)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return
	}
	top := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	dir := filepath.Join(d.root, top)

	if ev.Name == dir && (ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)) {
		d.Remove(dir)
		return
	}
	if !ioutils.DirExists(dir) {
		return
	}
	if ev.Name == dir && ev.Has(fsnotify.Create) {
		_ = w.Add(dir)
	}

	hash, err := HashLevel(dir)
	if err != nil {
		return
	}
	d.Add(hash, dir)
}

package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	ioutils "github.com/handiism/beatmap-downloader/internal/io"
	"github.com/handiism/beatmap-downloader/internal/model"
)

// ErrNoName is returned when neither a beatmap nor a usable name was given.
var ErrNoName = errors.New("no directory name")

// ArchiveError reports a corrupt archive or a failure while writing it out.
type ArchiveError struct {
	// Op is the step that failed: "open", "name", "mkdir" or "write".
	Op  string
	Err error
}

func (e *ArchiveError) Error() string {
	return "archive " + e.Op + ": " + e.Err.Error()
}

func (e *ArchiveError) Unwrap() error {
	return e.Err
}

// Options control a single extraction.
//
// Exactly one of Name and Beatmap is expected. If Beatmap is set it takes
// precedence and the directory name is derived from its metadata.
type Options struct {
	// Overwrite replaces existing files and reuses an existing directory
	// instead of creating a suffixed sibling.
	Overwrite bool

	// Name is the directory name for archives that have no catalog record.
	Name string

	// Beatmap is the catalog record the archive was downloaded for.
	Beatmap *model.Beatmap
}

// Result describes what an extraction did.
type Result struct {
	// Dir is the directory the archive was extracted into.
	Dir string

	// Written and Skipped list entry base names in archive order.
	Written []string
	Skipped []string
}

// Extractor writes zip archives into directories under a content root.
type Extractor struct {
	exists func(path string) bool
}

// NewExtractor creates an Extractor that checks the real file system for
// directory collisions.
func NewExtractor() *Extractor {
	return &Extractor{exists: ioutils.DirExists}
}

// TargetName returns the sanitized directory name for opts.
func TargetName(opts Options) (string, error) {
	name := opts.Name
	if opts.Beatmap != nil {
		name = opts.Beatmap.DirectoryName()
	}

	name = ioutils.StripInvalidChars(name)
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return "", ErrNoName
	}
	return name, nil
}

// ResolveTarget returns the path under root to extract name into.
//
// If overwrite is false and root/name already exists, the first free path of
// "root/name (1)", "root/name (2)", … is returned. exists is the only way the
// function observes the file system, so it has no side effects of its own.
func ResolveTarget(root, name string, overwrite bool, exists func(path string) bool) string {
	path := filepath.Join(root, name)
	if overwrite || !exists(path) {
		return path
	}

	n := 1
	for exists(fmt.Sprintf("%s (%d)", path, n)) {
		n++
	}
	return fmt.Sprintf("%s (%d)", path, n)
}

// EntryName returns the base name an archive entry is written under, or ""
// when the entry must be skipped (directories and blank names).
func EntryName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if strings.TrimSpace(name) == "" || name == "." || name == ".." {
		return ""
	}
	return name
}

// Extract unpacks the zip in data into a new directory under root.
//
// The archive is opened before anything touches the file system, so a
// corrupt archive leaves no directory behind. Entries are written on a
// separate goroutine and Extract waits for it to finish. Files that already
// exist are skipped unless opts.Overwrite is set. A failure part way through
// leaves the files written so far in place.
//
// All failures are returned as *ArchiveError, except a cancelled ctx which is
// returned as is.
func (e *Extractor) Extract(ctx context.Context, data []byte, root string, opts Options) (*Result, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ArchiveError{Op: "open", Err: err}
	}

	name, err := TargetName(opts)
	if err != nil {
		return nil, &ArchiveError{Op: "name", Err: err}
	}

	res := &Result{Dir: ResolveTarget(root, name, opts.Overwrite, e.exists)}
	if err := ioutils.EnsureDir(res.Dir); err != nil {
		return nil, &ArchiveError{Op: "mkdir", Err: err}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return writeEntries(gctx, reader, res, opts.Overwrite)
	})
	if err := g.Wait(); err != nil {
		return res, err
	}

	return res, nil
}

func writeEntries(ctx context.Context, reader *zip.Reader, res *Result, overwrite bool) error {
	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name := EntryName(f.Name)
		if name == "" {
			continue
		}

		written, err := writeEntry(ctx, f, filepath.Join(res.Dir, name), overwrite)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return &ArchiveError{Op: "write", Err: errors.Wrapf(err, "entry %s", f.Name)}
		}
		if written {
			res.Written = append(res.Written, name)
		} else {
			res.Skipped = append(res.Skipped, name)
		}
	}
	return nil
}

func writeEntry(ctx context.Context, f *zip.File, path string, overwrite bool) (bool, error) {
	if !overwrite && ioutils.FileExists(path) {
		return false, nil
	}

	rc, err := f.Open()
	if err != nil {
		return false, err
	}
	defer rc.Close()

	if _, err := ioutils.WriteFileFrom(ctx, rc, path, overwrite); err != nil {
		if errors.Is(err, os.ErrExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

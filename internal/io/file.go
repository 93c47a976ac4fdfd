package ioutils

import (
	"context"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// invalidChars matches characters that are illegal in a file or folder name.
//
// The set is the Windows one (<>:"/\|?* and control chars 0x00-0x1f), which
// is a superset of what Unix file systems reject. The game only runs on
// platforms where this set applies, and using it everywhere keeps directory
// names identical between hosts.
var invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// StripInvalidChars removes every character that is invalid in a file or
// path name. Nothing else is changed, so the result may be empty.
//
// Example:
//
//	StripInvalidChars("Song: Part 1/2") // Returns "Song Part 12"
func StripInvalidChars(name string) string {
	return invalidChars.ReplaceAllString(name, "")
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")     // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")           // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots (Windows doesn't allow filenames ending with dots)
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	return strings.TrimRight(name, " ")
}

// DirExists reports whether path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether anything exists at path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || os.IsExist(err)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errors.Wrap(err, "Create folder ["+path+"] failed")
	}
	return nil
}

// WriteFileFrom streams r into the file at path.
//
// When overwrite is false the file is created exclusively and an existing
// file makes the call fail with an error satisfying os.IsExist; when it is
// true an existing file is truncated. The number of bytes written is
// returned.
//
// ctx is checked once before the file is opened; the copy itself is not
// interruptible.
func WriteFileFrom(ctx context.Context, r io.Reader, path string, overwrite bool) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	flags := os.O_CREATE | os.O_WRONLY
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return written, errors.Wrap(err, "Saving file ["+path+"] failed")
	}
	return written, nil
}

// Package ioutils provides file system utilities for installing content.
//
// This package contains functions for:
//   - Removing characters that are invalid in file and folder names
//   - Directory and file existence checks
//   - Directory creation
//   - Streaming a reader to a file without clobbering existing data
//
// # Name Sanitization
//
// Use StripInvalidChars to drop characters that cannot appear in a path
// segment on any supported platform:
//
//	safe := ioutils.StripInvalidChars(`1a2b (Song: Part 1/2 - Mapper)`)
//	// "1a2b (Song Part 12 - Mapper)"
//
// SanitizeFileName is the lossy variant used for user facing names; it
// replaces invalid characters with underscores and tidies whitespace.
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/CustomLevels")
//
//	// Write an archive entry, keeping an existing file in place
//	written, err := ioutils.WriteFileFrom(ctx, r, "/path/to/Info.dat", false)
package ioutils

// Package archive extracts downloaded beatmap zips into the content root.
//
// # Target Directory
//
// The directory name comes from the beatmap record ("<id> (<song> -
// <mapper>)") or from an explicit name for archives without a record. The
// name is stripped of characters that are invalid in paths. If a directory
// with that name exists and overwriting is off, " (1)", " (2)", … is
// appended until a free name is found:
//
//	CustomLevels/1a2b (Song - Mapper)
//	CustomLevels/1a2b (Song - Mapper) (1)
//
// # Flattening
//
// Every entry is written directly under the target directory using only its
// base name. Nested paths declared by the archive are ignored, so nothing can
// be written outside of (or below) the target directory.
//
//	ex := archive.NewExtractor()
//	res, err := ex.Extract(ctx, zipBytes, root, archive.Options{Beatmap: bm})
package archive

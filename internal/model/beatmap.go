package model

import (
	"fmt"
	"strings"
)

// Beatmap represents a catalog beatmap with its metadata and versions.
//
// Beatmap contains everything needed to pick a version to download and to
// name the local directory it is extracted into:
//   - ID is the stable key shared by all versions
//   - Metadata carries the song and mapper names used for the directory
//   - Versions lists every upload, each with its own content hash
//
// Example:
//
//	bm, err := catalog.MapByKey(ctx, "1a2b")
//	if err != nil {
//	    return err
//	}
//	v := bm.LatestVersion()
//	fmt.Printf("%s -> %s\n", bm.DirectoryName(), v.DownloadURL)
type Beatmap struct {
	// ID is the catalog key of the beatmap (e.g. "1a2b").
	ID string

	// Name is the display name chosen by the uploader.
	Name string

	// Description is the free-form uploader description.
	Description string

	// Metadata holds the song and level author information.
	Metadata Metadata

	// Uploader is the catalog account that published the beatmap.
	Uploader string

	// Versions contains every published version of the beatmap.
	// The catalog does not guarantee any particular order.
	Versions []*Version
}

// Metadata describes the song a beatmap is built on.
type Metadata struct {
	SongName        string
	SongSubName     string
	SongAuthorName  string
	LevelAuthorName string
	BPM             float64

	// Duration is the song length in seconds.
	Duration int
}

// LatestVersion returns the most recently created version.
//
// The position of a version in the Versions slice is irrelevant; only
// CreatedAt is compared. When two versions share the same timestamp the one
// listed first wins. Returns nil if the beatmap has no versions.
func (b *Beatmap) LatestVersion() *Version {
	var latest *Version
	for _, v := range b.Versions {
		if v == nil {
			continue
		}
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
			latest = v
		}
	}
	return latest
}

// VersionByHash returns the version whose hash equals hash, ignoring case.
//
// Only exact matches are returned. A beatmap that has been updated since the
// requested hash was published will not silently resolve to its newer
// version. Returns nil if no version matches.
func (b *Beatmap) VersionByHash(hash string) *Version {
	var match *Version
	for _, v := range b.Versions {
		if v != nil && strings.EqualFold(v.Hash, hash) {
			match = v
		}
	}
	return match
}

// DirectoryName returns the unsanitized name of the local directory the
// beatmap is installed into: "<id> (<song name> - <level author>)".
func (b *Beatmap) DirectoryName() string {
	return fmt.Sprintf("%s (%s - %s)", b.ID, b.Metadata.SongName, b.Metadata.LevelAuthorName)
}

// String returns a short human readable description for logs and the UI.
func (b *Beatmap) String() string {
	if b.Metadata.SongAuthorName == "" {
		return fmt.Sprintf("[%s] %s", b.ID, b.Metadata.SongName)
	}
	return fmt.Sprintf("[%s] %s - %s", b.ID, b.Metadata.SongAuthorName, b.Metadata.SongName)
}

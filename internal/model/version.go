package model

import "time"

// Version is one specific upload of a beatmap.
//
// Versions of the same beatmap share the beatmap key but each has a
// distinct content hash, so a hash always identifies exactly one archive.
type Version struct {
	// Hash is the content hash of this version (40 hex characters).
	Hash string

	// Key is the beatmap key this version belongs to.
	Key string

	// State is the publication state reported by the catalog
	// (e.g. "Published", "Testplay").
	State string

	// CreatedAt is when this version was uploaded.
	CreatedAt time.Time

	// DownloadURL is where the zip archive of this version can be fetched.
	DownloadURL string

	// CoverURL points to the cover image, PreviewURL to the audio preview.
	CoverURL   string
	PreviewURL string
}

// IsPublished reports whether the catalog lists the version as published.
func (v *Version) IsPublished() bool {
	return v.State == "Published"
}

// Package model defines the core data structures used throughout
// the beatmap-downloader application.
//
// # Beatmap
//
// Beatmap is the catalog record for one playable map, across all of its
// versions:
//
//	latest := beatmap.LatestVersion()
//	fmt.Println(latest.Hash)            // Content hash of the newest upload
//	fmt.Println(beatmap.DirectoryName()) // "1a2b (Song - Mapper)"
//
// # Version
//
// Version is one specific upload of a beatmap. Each version has its own
// content hash and archive download URL:
//
//	v := beatmap.VersionByHash("DEADBEEF...")
//	if v == nil {
//	    // no version of this beatmap has that hash
//	}
//
// Records are immutable once decoded and are never cached; callers fetch a
// fresh copy from the catalog for every request.
package model

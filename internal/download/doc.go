// Package download provides the download orchestration logic for
// installing beatmaps from the catalog.
//
// # Manager
//
// The Manager composes the catalog client, the raw fetcher, the archive
// extractor and the local content index:
//
//  1. Look up the beatmap by key or hash
//  2. Pick the version (latest for keys, exact match for hashes)
//  3. Skip versions the index already holds (keys only)
//  4. Download the zip archive
//  5. Extract it into a collision free directory under the content root
//
// # Basic Usage
//
//	manager := download.NewManager(catalog, httpClient, archive.NewExtractor(), index, download.Options{
//	    ContentPath: settings.ContentPath,
//	    Logger:      log,
//	})
//
//	hash := manager.DownloadByKey(ctx, "1a2b", func(p float64) {
//	    fmt.Printf("%.0f%%\r", p*100)
//	})
//	if hash == "" {
//	    // failure was logged
//	}
//
// # Failure Policy
//
// Nothing is retried. Every failure is logged once at error level with the
// key, hash or URL that was requested, and the operation ends. Cancellation
// through the context is logged at debug level only.
//
// # Progress Tracking
//
// Two optional channels exist: a per-call func(float64) that receives the
// download fraction, and Options.OnProgress that receives ProgressEvent
// messages for hosts that show a log.
package download

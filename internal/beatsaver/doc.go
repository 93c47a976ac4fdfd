// Package beatsaver is the catalog client adapter. It turns a beatmap key or
// content hash into a model.Beatmap using the public BeatSaver REST API.
//
// # Lookups
//
//	catalog := beatsaver.NewClient(httpClient, beatsaver.DefaultBaseURL)
//
//	// By key: fails with ErrNotFound when the key is unknown or invalid
//	bm, err := catalog.MapByKey(ctx, "1a2b")
//
//	// By hash: a missing map is not an error
//	bm, err = catalog.MapByHash(ctx, "DEADBEEF...")
//	if err == nil && bm == nil {
//	    // no map has a version with that hash
//	}
//
// The client never retries and never caches; every call is one request and
// every error is returned to the caller.
package beatsaver

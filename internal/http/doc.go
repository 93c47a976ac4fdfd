// Package http provides the HTTP client shared by the catalog adapter and
// the raw archive fetcher.
//
// The Client in this package handles:
//   - User-Agent headers identifying the application to the catalog
//   - Timeout handling
//   - Single-attempt byte downloads with progress tracking
//   - Pre-configured resty requests for JSON APIs
//
// # Basic Usage
//
//	client := http.NewClient("beatmap-downloader/1.0", 60*time.Second)
//
//	// Download an archive with progress callback
//	zip, err := client.Get(ctx, downloadURL, func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", http.Fraction(written, total)*100)
//	})
//
//	// Issue a JSON request
//	resp, err := client.R(ctx).SetResult(&payload).Get(apiURL)
//
// # Errors
//
// Non-200 responses are returned as *StatusError. Cancelling the context
// aborts the in-flight request; the returned error then matches
// context.Canceled through errors.Is.
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   &buf,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http

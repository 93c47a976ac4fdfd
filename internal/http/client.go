package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	// DefaultUserAgent is sent when no user agent is configured.
	DefaultUserAgent = "beatmap-downloader"

	// DefaultTimeout bounds a catalog request including reading its body.
	// Raw downloads are not bounded by it.
	DefaultTimeout = 60 * time.Second
)

// Client wraps HTTP operations with application-specific configuration.
//
// Client provides:
//   - Configured User-Agent header for the catalog service
//   - Timeout handling
//   - In-memory downloads with progress tracking
//   - Configured requests for JSON endpoints
//
// A Client is safe for concurrent use. It is created once by the host and
// handed to every component that talks to the network.
//
// Example usage:
//
//	client := NewClient("", 0)
//
//	// Fetch a zip archive
//	data, err := client.Get(ctx, "https://example.com/map.zip", nil)
type Client struct {
	// api carries the timeout and serves JSON endpoints; raw serves
	// archive downloads, which may take arbitrarily long on a slow link.
	api *resty.Client
	raw *resty.Client
}

// NewClient creates a new HTTP client.
//
// An empty userAgent falls back to DefaultUserAgent and a zero timeout to
// DefaultTimeout. The timeout applies to requests made through R only; Get
// is bounded by its context alone.
func NewClient(userAgent string, timeout time.Duration) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	api := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
	raw := resty.New().
		SetHeader("User-Agent", userAgent)

	return &Client{api: api, raw: raw}
}

// StatusError is returned when the server answers with an unexpected status.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d: %s", e.URL, e.StatusCode, e.Status)
}

// IsNotFound reports whether err is a StatusError carrying 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	// It is -1 when the server did not announce a length.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	// Parameters are (bytesWritten, totalExpected).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Fraction converts a (written, total) pair to a value in [0, 1].
// Unknown totals report 0 until the download completes.
func Fraction(written, total int64) float64 {
	if total <= 0 {
		return 0
	}
	f := float64(written) / float64(total)
	if f > 1 {
		return 1
	}
	return f
}

// R returns a request bound to ctx that carries the client's headers and
// timeout. It is meant for JSON endpoints:
//
//	var out payload
//	resp, err := client.R(ctx).SetResult(&out).Get(url)
func (c *Client) R(ctx context.Context) *resty.Request {
	return c.api.R().SetContext(ctx)
}

// Get performs a single GET request and returns the response body as bytes.
//
// The body is read completely into memory; archives served by the catalog
// are small. onProgress may be nil.
//
// Returns an error if:
//   - The request fails or ctx is cancelled (matches context.Canceled)
//   - The response status is not 200 OK (*StatusError)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error) {
	resp, err := c.raw.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", url)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	var buf bytes.Buffer
	var writer io.Writer = &buf
	if onProgress != nil {
		writer = &ProgressWriter{
			Writer:   &buf,
			Total:    resp.RawResponse.ContentLength,
			OnUpdate: onProgress,
		}
	}

	if _, err := io.Copy(writer, body); err != nil {
		return nil, errors.Wrapf(err, "reading body of %s", url)
	}
	return buf.Bytes(), nil
}

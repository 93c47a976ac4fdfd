package beatsaver

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/handiism/beatmap-downloader/internal/beatsaver/dto"
	"github.com/handiism/beatmap-downloader/internal/http"
	"github.com/handiism/beatmap-downloader/internal/model"
)

// DefaultBaseURL is the public BeatSaver API root.
const DefaultBaseURL = "https://api.beatsaver.com"

// ErrNotFound is returned when the catalog has no beatmap for a key.
//
// This typically occurs when:
//   - The key does not exist or the map was deleted
//   - The key is not a valid catalog key (keys are hexadecimal)
var ErrNotFound = errors.New("beatmap not found")

var (
	keyPattern  = regexp.MustCompile(`^[0-9a-fA-F]+$`)
	hashPattern = regexp.MustCompile(`^[0-9a-fA-F]{40}$`)
)

// Client fetches beatmap metadata from the catalog.
//
// Client is a thin adapter; it performs exactly one request per call and
// maps the JSON document to model types.
type Client struct {
	http    *http.Client
	baseURL string
}

// NewClient creates a catalog client that sends requests through
// httpClient. An empty baseURL selects DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// IsHash reports whether s looks like a beatmap content hash.
func IsHash(s string) bool {
	return hashPattern.MatchString(s)
}

// IsKey reports whether s looks like a beatmap key.
func IsKey(s string) bool {
	return len(s) < 40 && keyPattern.MatchString(s)
}

// MapByKey fetches the beatmap identified by key.
//
// Returns an error wrapping ErrNotFound if the key is invalid or unknown,
// a *http.StatusError for other failed responses, or the transport error.
func (c *Client) MapByKey(ctx context.Context, key string) (*model.Beatmap, error) {
	key = strings.TrimSpace(key)
	if !IsKey(key) {
		return nil, errors.Wrapf(ErrNotFound, "invalid key %q", key)
	}

	jm, err := c.getMap(ctx, "/maps/id/"+url.PathEscape(strings.ToLower(key)))
	if err != nil {
		if http.IsNotFound(err) {
			return nil, errors.Wrapf(ErrNotFound, "key %s", key)
		}
		return nil, err
	}
	if jm.ID == "" {
		return nil, errors.Wrapf(ErrNotFound, "key %s", key)
	}

	return jm.ToBeatmap(), nil
}

// MapByHash fetches the beatmap that has a version with the given hash.
//
// A missing beatmap is reported as (nil, nil) rather than an error, since
// hashes of unpublished or deleted versions are common in shared playlists.
func (c *Client) MapByHash(ctx context.Context, hash string) (*model.Beatmap, error) {
	hash = strings.TrimSpace(hash)
	if hash == "" {
		return nil, nil
	}

	jm, err := c.getMap(ctx, "/maps/hash/"+url.PathEscape(strings.ToLower(hash)))
	if err != nil {
		if http.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if jm.ID == "" {
		return nil, nil
	}

	return jm.ToBeatmap(), nil
}

func (c *Client) getMap(ctx context.Context, path string) (*dto.JSONMap, error) {
	endpoint := c.baseURL + path

	var jm dto.JSONMap
	resp, err := c.http.R(ctx).
		SetHeader("Accept", "application/json").
		ForceContentType("application/json").
		SetResult(&jm).
		Get(endpoint)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", endpoint)
	}

	if !resp.IsSuccess() {
		return nil, &http.StatusError{URL: endpoint, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}

	return &jm, nil
}

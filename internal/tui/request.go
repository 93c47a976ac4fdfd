package tui

import (
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/handiism/beatmap-downloader/internal/beatsaver"
)

// RequestKind tells how a typed request is resolved.
type RequestKind int

const (
	RequestKey RequestKind = iota
	RequestHash
	RequestURL
)

// Request is a parsed line from the input box.
type Request struct {
	Kind  RequestKind
	Value string

	// Name is the directory name for RequestURL.
	Name string
}

// ErrUnrecognized is returned by ParseRequest for input that is neither a
// key, a hash nor an URL.
var ErrUnrecognized = errors.New("enter a beatmap key, a 40 character hash or an archive URL")

// ParseRequest classifies input.
//
// Examples:
//
//	ParseRequest("1a2b")                               // key
//	ParseRequest("beatsaver://1a2b")                   // key, one-click link
//	ParseRequest("0123456789abcdef0123456789abcdef01234567") // hash
//	ParseRequest("https://example.com/levels/Song.zip") // URL, name "Song"
func ParseRequest(input string) (Request, error) {
	input = strings.TrimSpace(input)

	if rest, ok := strings.CutPrefix(input, "beatsaver://"); ok {
		input = strings.TrimSuffix(rest, "/")
	}

	switch {
	case beatsaver.IsHash(input):
		return Request{Kind: RequestHash, Value: input}, nil
	case beatsaver.IsKey(input):
		return Request{Kind: RequestKey, Value: input}, nil
	}

	u, err := url.Parse(input)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Request{}, ErrUnrecognized
	}

	name := strings.TrimSuffix(path.Base(u.Path), path.Ext(u.Path))
	if name == "" || name == "." || name == "/" {
		name = u.Host
	}
	return Request{Kind: RequestURL, Value: input, Name: name}, nil
}

package playlist

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	ioutils "github.com/handiism/beatmap-downloader/internal/io"
	"github.com/handiism/beatmap-downloader/internal/library"
)

// Extension is the file extension of playlist files.
const Extension = ".bplist"

// Song is one playlist entry. Either Key or Hash may be empty, not both.
type Song struct {
	Key             string `json:"key,omitempty"`
	Hash            string `json:"hash,omitempty"`
	SongName        string `json:"songName,omitempty"`
	LevelAuthorName string `json:"levelAuthorName,omitempty"`
}

// String returns a label for logs.
func (s Song) String() string {
	id := s.Hash
	if id == "" {
		id = s.Key
	}
	if s.SongName == "" {
		return id
	}
	return s.SongName + " [" + id + "]"
}

// Playlist is a parsed .bplist file.
type Playlist struct {
	Title  string `json:"playlistTitle"`
	Author string `json:"playlistAuthor,omitempty"`
	Songs  []Song `json:"songs"`
}

// Load reads a playlist from path. Songs carrying neither a key nor a hash
// are dropped.
func Load(path string) (*Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read playlist %s", path)
	}

	var pl Playlist
	if err := json.Unmarshal(data, &pl); err != nil {
		return nil, errors.Wrapf(err, "parse playlist %s", path)
	}

	songs := pl.Songs[:0]
	for _, s := range pl.Songs {
		s.Key = strings.TrimSpace(s.Key)
		s.Hash = strings.TrimSpace(s.Hash)
		if s.Key == "" && s.Hash == "" {
			continue
		}
		songs = append(songs, s)
	}
	pl.Songs = songs

	return &pl, nil
}

// Save writes the playlist to path as indented JSON.
func (p *Playlist) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create playlist directory")
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode playlist")
	}

	return errors.Wrapf(os.WriteFile(path, data, 0644), "write playlist %s", path)
}

// FileName returns a file name for the playlist derived from its title.
func (p *Playlist) FileName() string {
	name := ioutils.SanitizeFileName(p.Title)
	if name == "" {
		name = "playlist"
	}
	return name + Extension
}

// Missing returns the songs index does not hold. Songs without a hash cannot
// be checked and are always reported.
func (p *Playlist) Missing(index library.Index) []Song {
	var missing []Song
	for _, s := range p.Songs {
		if s.Hash != "" && index != nil && index.Contains(s.Hash) {
			continue
		}
		missing = append(missing, s)
	}
	return missing
}

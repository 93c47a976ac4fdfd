package playlist

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/beatmap-downloader/internal/library"
)

const samplePlaylist = `{
  "playlistTitle": "Pack",
  "playlistAuthor": "someone",
  "songs": [
    {"key": "1a", "hash": "aaaa", "songName": "First"},
    {"key": "2b", "songName": "Second"},
    {"hash": "cccc"},
    {"songName": "Nothing to go on"}
  ]
}`

func writePlaylist(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pack.bplist")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad(t *testing.T) {
	pl, err := Load(writePlaylist(t, samplePlaylist))
	require.NoError(t, err)

	assert.Equal(t, "Pack", pl.Title)
	assert.Equal(t, "someone", pl.Author)
	require.Len(t, pl.Songs, 3, "entries without key and hash are dropped")
	assert.Equal(t, "First [aaaa]", pl.Songs[0].String())
	assert.Equal(t, "Second [2b]", pl.Songs[1].String())
	assert.Equal(t, "cccc", pl.Songs[2].String())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.bplist"))
	assert.Error(t, err)

	_, err = Load(writePlaylist(t, "{"))
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "pack.bplist")
	pl := &Playlist{Title: "Mine", Songs: []Song{{Key: "ff", Hash: "ABCD"}}}
	require.NoError(t, pl.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, pl, loaded)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Ranked_ Week 2.bplist", (&Playlist{Title: "Ranked: Week 2..."}).FileName())
	assert.Equal(t, "playlist.bplist", (&Playlist{}).FileName())
}

func TestMissing(t *testing.T) {
	pl, err := Load(writePlaylist(t, samplePlaylist))
	require.NoError(t, err)

	index := library.NewMemoryIndex()
	index.Add("AAAA", "/levels/first")

	missing := pl.Missing(index)
	require.Len(t, missing, 2)
	assert.Equal(t, "2b", missing[0].Key)
	assert.Equal(t, "cccc", missing[1].Hash)

	assert.Len(t, pl.Missing(nil), 3)
}

type recordingDownloader struct {
	mu     sync.Mutex
	keys   []string
	hashes []string
}

func (d *recordingDownloader) DownloadByKey(ctx context.Context, key string, progress func(float64)) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.keys = append(d.keys, key)
	return ""
}

func (d *recordingDownloader) DownloadByHash(ctx context.Context, hash string, progress func(float64)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hashes = append(d.hashes, hash)
}

func TestSyncer_Sync(t *testing.T) {
	pl, err := Load(writePlaylist(t, samplePlaylist))
	require.NoError(t, err)

	index := library.NewMemoryIndex()
	index.Add("aaaa", "/levels/first")

	dl := &recordingDownloader{}
	report, err := NewSyncer(dl, index, 2, nil).Sync(context.Background(), pl)
	require.NoError(t, err)

	assert.Equal(t, &Report{Total: 3, Installed: 1, Attempted: 2}, report)
	assert.Equal(t, []string{"2b"}, dl.keys, "songs without hash go by key")
	assert.Equal(t, []string{"cccc"}, dl.hashes, "songs with hash go by exact version")
}

func TestSyncer_Cancelled(t *testing.T) {
	pl, err := Load(writePlaylist(t, samplePlaylist))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dl := &recordingDownloader{}
	report, err := NewSyncer(dl, nil, 0, nil).Sync(ctx, pl)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, report.Attempted)
	assert.Empty(t, dl.keys)
	assert.Empty(t, dl.hashes)
}

package app

import (
	"bytes"
	"context"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/handiism/beatmap-downloader/internal/config"
	"github.com/handiism/beatmap-downloader/internal/library"
)

func levelZip(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"Info.dat":       `{"_difficultyBeatmapSets":[{"_difficultyBeatmaps":[{"_beatmapFilename":"Expert.dat"}]}]}`,
		"Expert.dat":     `{"_notes":[]}`,
		"song.egg":       "ogg",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestApp_EndToEnd(t *testing.T) {
	archiveData := levelZip(t)

	mux := nethttp.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/maps/id/1a2b", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"id": "1a2b",
			"name": "Test",
			"metadata": {"songName": "Song", "levelAuthorName": "Mapper"},
			"versions": [
				{"hash": "old", "createdAt": "2021-01-01T00:00:00Z", "downloadURL": "%[1]s/old.zip"},
				{"hash": "HASH1", "createdAt": "2023-01-01T00:00:00Z", "downloadURL": "%[1]s/new.zip"}
			]
		}`, srv.URL)
	})
	mux.HandleFunc("/new.zip", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_, _ = w.Write(archiveData)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	settings := config.DefaultSettings()
	settings.ContentPath = filepath.Join(t.TempDir(), "CustomLevels")
	settings.CatalogURL = srv.URL

	core, logs := observer.New(zapcore.DebugLevel)
	a, err := New(settings, zap.New(core), nil)
	require.NoError(t, err)

	hash := a.Manager.DownloadByKey(context.Background(), "1a2b", nil)
	assert.Equal(t, "HASH1", hash)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())

	dir := filepath.Join(settings.ContentPath, "1a2b (Song - Mapper)")
	assert.FileExists(t, filepath.Join(dir, "Info.dat"))
	assert.FileExists(t, filepath.Join(dir, "Expert.dat"))

	// The index learns about the install without a rescan; a rescan agrees
	// with the game's own hash of the files.
	assert.True(t, a.Index.Contains("HASH1"))
	require.NoError(t, a.Index.Refresh())
	computed, err := library.HashLevel(dir)
	require.NoError(t, err)
	assert.True(t, a.Index.Contains(computed))

	entries, err := os.ReadDir(settings.ContentPath)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestApp_Syncer(t *testing.T) {
	settings := config.DefaultSettings()
	settings.ContentPath = t.TempDir()
	settings.MaxConcurrentDownloads = 0

	a, err := New(settings, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, a.Syncer())
}

package library

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoV2 = `{
	"_songName": "Test",
	"_difficultyBeatmapSets": [
		{"_difficultyBeatmaps": [
			{"_beatmapFilename": "Expert.dat"},
			{"_beatmapFilename": "ExpertPlus.dat"}
		]}
	]
}`

func writeLevel(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Info.dat"), []byte(infoV2), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Expert.dat"), []byte("expert"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ExpertPlus.dat"), []byte("plus"), 0644))

	sum := sha1.Sum([]byte(infoV2 + "expert" + "plus"))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func TestMemoryIndex(t *testing.T) {
	idx := NewMemoryIndex()
	assert.False(t, idx.Contains("abc"))

	idx.Add("abc", "/levels/a")
	assert.True(t, idx.Contains("ABC"))
	assert.True(t, idx.Contains(" abc "))

	dir, ok := idx.Dir("Abc")
	assert.True(t, ok)
	assert.Equal(t, "/levels/a", dir)

	// Re-adding the directory with a new hash forgets the old one.
	idx.Add("def", "/levels/a")
	assert.False(t, idx.Contains("abc"))
	assert.True(t, idx.Contains("def"))
	assert.Equal(t, 1, idx.Len())

	idx.Remove("/levels/a")
	assert.False(t, idx.Contains("def"))
	assert.Equal(t, 0, idx.Len())

	idx.Add("", "/levels/b")
	assert.Equal(t, 0, idx.Len())
}

func TestHashLevel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "1a2b (Song - Mapper)")
	want := writeLevel(t, dir)

	got, err := HashLevel(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHashLevel_LowercaseInfo(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.dat"), []byte(`{}`), 0644))

	got, err := HashLevel(dir)
	require.NoError(t, err)

	sum := sha1.Sum([]byte(`{}`))
	assert.Equal(t, strings.ToUpper(hex.EncodeToString(sum[:])), got)
}

func TestHashLevel_Incomplete(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "ExpertPlus.dat")))

	_, err := HashLevel(dir)
	assert.Error(t, err)

	_, err = HashLevel(t.TempDir())
	assert.ErrorIs(t, err, ErrNoInfo)
}

func TestDirIndex_Refresh(t *testing.T) {
	root := t.TempDir()
	h1 := writeLevel(t, filepath.Join(root, "one"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "not-a-level"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), nil, 0644))

	idx := NewDirIndex(root, nil)
	require.NoError(t, idx.Refresh())

	assert.True(t, idx.Contains(h1))
	assert.Equal(t, 1, idx.Len())

	require.NoError(t, os.RemoveAll(filepath.Join(root, "one")))
	require.NoError(t, idx.Refresh())
	assert.False(t, idx.Contains(h1))
}

func TestDirIndex_Refresh_MissingRoot(t *testing.T) {
	idx := NewDirIndex(filepath.Join(t.TempDir(), "missing"), nil)
	require.NoError(t, idx.Refresh())
	assert.Equal(t, 0, idx.Len())
}

func TestDirIndex_Watch(t *testing.T) {
	root := t.TempDir()
	idx := NewDirIndex(root, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- idx.Watch(ctx) }()

	// Give the watcher time to register the root.
	time.Sleep(100 * time.Millisecond)

	hash := writeLevel(t, filepath.Join(root, "watched"))
	assert.Eventually(t, func() bool { return idx.Contains(hash) }, 3*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

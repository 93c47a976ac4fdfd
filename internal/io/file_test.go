package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripInvalidChars(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-name", "normal-name"},
		{"1a2b (Song: Part 1/2 - Mapper)", "1a2b (Song Part 12 - Mapper)"},
		{`a<b>c"d`, "abcd"},
		{`back\slash|pipe`, "backslashpipe"},
		{"what?*", "what"},
		{"tab\tnew\nline\x00", "tabnewline"},
		{"trailing dots...", "trailing dots..."},
		{`<>:"/\|?*`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, StripInvalidChars(tt.input))
		})
	}
}

func TestStripInvalidChars_NoInvalidCharsRemain(t *testing.T) {
	var b strings.Builder
	for r := rune(0); r < 128; r++ {
		b.WriteRune(r)
	}
	got := StripInvalidChars("name " + b.String() + " (x - y)")

	assert.False(t, strings.ContainsAny(got, `<>:"/\|?*`), "result %q still has invalid chars", got)
	for _, r := range got {
		assert.GreaterOrEqual(t, r, rune(0x20), "control char %q left in %q", r, got)
	}
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"normal-file.bplist", "normal-file.bplist"},
		{"file:with:colons", "file_with_colons"},
		{"file/with\\slashes", "file_with_slashes"},
		{"trailing dots...", "trailing dots"},
		{"multiple   spaces", "multiple spaces"},
		{"trailing spaces   ", "trailing spaces"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFileName(tt.input))
		})
	}
}

func TestWriteFileFrom(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "Info.dat")

	n, err := WriteFileFrom(ctx, strings.NewReader("first"), path, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, err = WriteFileFrom(ctx, strings.NewReader("second"), path, false)
	require.Error(t, err)
	assert.True(t, os.IsExist(err), "expected exist error, got %v", err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))

	_, err = WriteFileFrom(ctx, strings.NewReader("2nd"), path, true)
	require.NoError(t, err)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "2nd", string(data))
}

func TestWriteFileFrom_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "song.egg")
	_, err := WriteFileFrom(ctx, strings.NewReader("data"), path, false)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, FileExists(path))
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(file))
	assert.False(t, DirExists(filepath.Join(dir, "missing")))
	assert.True(t, FileExists(file))
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "CustomLevels")
	require.NoError(t, EnsureDir(dir))
	assert.True(t, DirExists(dir))
	require.NoError(t, EnsureDir(dir))
}

package model

import (
	"testing"
	"time"
)

func TestBeatmap_LatestVersion(t *testing.T) {
	base := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	older := &Version{Hash: "H0", CreatedAt: base}
	newer := &Version{Hash: "H1", CreatedAt: base.Add(24 * time.Hour)}

	tests := []struct {
		name     string
		versions []*Version
		want     string
	}{
		{"newest last", []*Version{older, newer}, "H1"},
		{"newest first", []*Version{newer, older}, "H1"},
		{"single", []*Version{older}, "H0"},
		{"nil entries ignored", []*Version{nil, newer, nil}, "H1"},
		{"tie keeps first", []*Version{{Hash: "A", CreatedAt: base}, {Hash: "B", CreatedAt: base}}, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Beatmap{ID: "abc", Versions: tt.versions}
			got := b.LatestVersion()
			if got == nil {
				t.Fatal("LatestVersion() returned nil")
			}
			if got.Hash != tt.want {
				t.Errorf("LatestVersion().Hash = %q, want %q", got.Hash, tt.want)
			}
		})
	}
}

func TestBeatmap_LatestVersion_Empty(t *testing.T) {
	b := &Beatmap{ID: "abc"}
	if v := b.LatestVersion(); v != nil {
		t.Errorf("LatestVersion() = %+v, want nil", v)
	}
}

func TestBeatmap_VersionByHash(t *testing.T) {
	b := &Beatmap{
		ID: "abc",
		Versions: []*Version{
			{Hash: "aaaa1111"},
			{Hash: "BBBB2222"},
		},
	}

	tests := []struct {
		hash string
		want string
	}{
		{"aaaa1111", "aaaa1111"},
		{"AAAA1111", "aaaa1111"},
		{"bbbb2222", "BBBB2222"},
		{"cccc3333", ""},
		{"aaaa", ""},
	}

	for _, tt := range tests {
		t.Run(tt.hash, func(t *testing.T) {
			got := b.VersionByHash(tt.hash)
			if tt.want == "" {
				if got != nil {
					t.Errorf("VersionByHash(%q) = %q, want nil", tt.hash, got.Hash)
				}
				return
			}
			if got == nil || got.Hash != tt.want {
				t.Errorf("VersionByHash(%q) = %v, want %q", tt.hash, got, tt.want)
			}
		})
	}
}

func TestBeatmap_DirectoryName(t *testing.T) {
	b := &Beatmap{
		ID: "1a2b",
		Metadata: Metadata{
			SongName:        "Song: Part 1/2",
			LevelAuthorName: "Mapper",
		},
	}

	want := "1a2b (Song: Part 1/2 - Mapper)"
	if got := b.DirectoryName(); got != want {
		t.Errorf("DirectoryName() = %q, want %q", got, want)
	}
}

func TestVersion_IsPublished(t *testing.T) {
	if !(&Version{State: "Published"}).IsPublished() {
		t.Error("IsPublished() should be true for Published state")
	}
	if (&Version{State: "Testplay"}).IsPublished() {
		t.Error("IsPublished() should be false for Testplay state")
	}
}

package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/handiism/beatmap-downloader/internal/model"
)

// CatalogTime is a custom time type that handles the catalog's timestamps.
type CatalogTime struct {
	time.Time
}

// UnmarshalJSON parses timestamps like "2021-08-25T18:03:33.565893Z".
func (ct *CatalogTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	if s == "" {
		ct.Time = time.Time{}
		return nil
	}

	formats := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999", // no zone, treated as UTC
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			ct.Time = t.UTC()
			return nil
		}
	}

	return fmt.Errorf("unable to parse date: %s", s)
}

// JSONMap represents a map detail document returned by the catalog API.
type JSONMap struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Uploader    *JSONUploader  `json:"uploader"`
	Metadata    JSONMetadata   `json:"metadata"`
	Versions    []*JSONVersion `json:"versions"`
}

// JSONUploader is the account that published the map.
type JSONUploader struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// JSONMetadata contains song metadata.
type JSONMetadata struct {
	BPM             float64 `json:"bpm"`
	Duration        int     `json:"duration"`
	SongName        string  `json:"songName"`
	SongSubName     string  `json:"songSubName"`
	SongAuthorName  string  `json:"songAuthorName"`
	LevelAuthorName string  `json:"levelAuthorName"`
}

// ToBeatmap converts JSONMap to a model.Beatmap.
func (jm *JSONMap) ToBeatmap() *model.Beatmap {
	beatmap := &model.Beatmap{
		ID:          jm.ID,
		Name:        jm.Name,
		Description: jm.Description,
		Metadata: model.Metadata{
			SongName:        jm.Metadata.SongName,
			SongSubName:     jm.Metadata.SongSubName,
			SongAuthorName:  jm.Metadata.SongAuthorName,
			LevelAuthorName: jm.Metadata.LevelAuthorName,
			BPM:             jm.Metadata.BPM,
			Duration:        jm.Metadata.Duration,
		},
	}
	if jm.Uploader != nil {
		beatmap.Uploader = jm.Uploader.Name
	}

	for _, jv := range jm.Versions {
		if jv == nil || jv.Hash == "" {
			continue
		}
		beatmap.Versions = append(beatmap.Versions, jv.ToVersion(jm.ID))
	}

	return beatmap
}

package dto

import (
	"strings"

	"github.com/handiism/beatmap-downloader/internal/model"
)

// JSONVersion represents one uploaded version of a map.
type JSONVersion struct {
	Hash        string       `json:"hash"`
	Key         string       `json:"key"`
	State       string       `json:"state"`
	CreatedAt   *CatalogTime `json:"createdAt"`
	DownloadURL string       `json:"downloadURL"`
	CoverURL    string       `json:"coverURL"`
	PreviewURL  string       `json:"previewURL"`
}

// ToVersion converts JSONVersion to a model.Version. mapID is used when the
// version does not carry its own key.
func (jv *JSONVersion) ToVersion(mapID string) *model.Version {
	key := jv.Key
	if key == "" {
		key = mapID
	}

	downloadURL := jv.DownloadURL
	if strings.HasPrefix(downloadURL, "//") {
		downloadURL = "https:" + downloadURL
	}

	v := &model.Version{
		Hash:        jv.Hash,
		Key:         key,
		State:       jv.State,
		DownloadURL: downloadURL,
		CoverURL:    jv.CoverURL,
		PreviewURL:  jv.PreviewURL,
	}
	if jv.CreatedAt != nil {
		v.CreatedAt = jv.CreatedAt.Time
	}
	return v
}

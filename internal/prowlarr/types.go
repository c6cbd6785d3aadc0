package prowlarr

import (
	"encoding/json"
	"time"
)

// Protocol is the transfer protocol of a release.
type Protocol string

const (
	ProtocolTorrent Protocol = "torrent"
	ProtocolUsenet  Protocol = "usenet"
)

// SystemStatus is the subset of /system/status we display.
type SystemStatus struct {
	AppName string `json:"appName"`
	Version string `json:"version"`
	OSName  string `json:"osName"`
	Branch  string `json:"branch"`
}

// Indexer represents an indexer registered in Prowlarr
type Indexer struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Enable   bool   `json:"enable"`
	Priority int    `json:"priority"`
	Protocol string `json:"protocol"`
}

// DownloadClient is a download client configured inside Prowlarr.
type DownloadClient struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Enable   bool   `json:"enable"`
	Protocol string `json:"protocol"`
	Priority int    `json:"priority"`
}

// SearchResult is one release returned by /api/v1/search.
// Nullable numbers are pointers; use the accessors for zero-defaulted values.
type SearchResult struct {
	GUID        string     `json:"guid"`
	Title       string     `json:"title"`
	Indexer     string     `json:"indexer"`
	IndexerID   int        `json:"indexerId"`
	Size        *int64     `json:"size"`
	Seeders     *int       `json:"seeders"`
	Leechers    *int       `json:"leechers"`
	Protocol    Protocol   `json:"protocol"`
	PublishDate string     `json:"publishDate"`
	Categories  Categories `json:"categories"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
	MagnetURL   string     `json:"magnetUrl,omitempty"`
	InfoURL     string     `json:"infoUrl,omitempty"`
	CommentURL  string     `json:"commentUrl,omitempty"`

	Quality              json.RawMessage `json:"quality,omitempty"`
	DownloadVolumeFactor *float64        `json:"downloadVolumeFactor,omitempty"`
	UploadVolumeFactor   *float64        `json:"uploadVolumeFactor,omitempty"`
}

// SizeBytes returns the size, or 0 when unknown.
func (r SearchResult) SizeBytes() int64 {
	if r.Size == nil {
		return 0
	}
	return *r.Size
}

// SeederCount returns seeders, or 0 when unknown.
func (r SearchResult) SeederCount() int {
	if r.Seeders == nil {
		return 0
	}
	return *r.Seeders
}

// LeecherCount returns leechers, or 0 when unknown.
func (r SearchResult) LeecherCount() int {
	if r.Leechers == nil {
		return 0
	}
	return *r.Leechers
}

// PublishedAt parses PublishDate. Missing or invalid dates return the Unix epoch.
func (r SearchResult) PublishedAt() time.Time {
	if r.PublishDate == "" {
		return time.Unix(0, 0).UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, r.PublishDate); err == nil {
			return t
		}
	}
	return time.Unix(0, 0).UTC()
}

// IsTorrent reports whether swarm counts apply.
func (r SearchResult) IsTorrent() bool {
	return r.Protocol == ProtocolTorrent
}

// Categories is the set of category ids on a result. Prowlarr sends either
// plain ids or {id, name} objects depending on version.
type Categories []int

// UnmarshalJSON accepts both encodings.
func (c *Categories) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	ids := make(Categories, 0, len(raw))
	for _, item := range raw {
		var id int
		if err := json.Unmarshal(item, &id); err == nil {
			ids = append(ids, id)
			continue
		}
		var obj struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return err
		}
		ids = append(ids, obj.ID)
	}
	*c = ids
	return nil
}

// Contains reports whether any id falls in [lo, hi).
func (c Categories) Contains(lo, hi int) bool {
	for _, id := range c {
		if id >= lo && id < hi {
			return true
		}
	}
	return false
}

// ReleasePayload asks Prowlarr to push a release to a download client.
type ReleasePayload struct {
	GUID             string `json:"guid"`
	IndexerID        int    `json:"indexerId"`
	DownloadClientID int    `json:"downloadClientId,omitempty"`
}

// SearchRequest holds the search parameters.
// Empty Categories searches all categories.
type SearchRequest struct {
	Query      string
	Categories []int
	IndexerIDs []int
}

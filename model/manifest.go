package model

import (
	"encoding/json"
	"time"
)

// ManifestEntry describes one published artifact by destination key, size and
// content checksum
type ManifestEntry struct {
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
}

// Manifest lists every artifact of one published VI granule. Its presence in
// the destination bucket marks the delivery complete and triggers downstream
// ingestion, so it must always be the last object uploaded.
type Manifest struct {
	Collection string          `json:"collection"`
	GranuleID  string          `json:"granule_id"`
	JobID      string          `json:"job_id"`
	Produced   time.Time       `json:"produced"`
	Files      []ManifestEntry `json:"files"`
}

// NewManifest assembles a manifest for a granule's produced artifact set
func NewManifest(g *GranuleID, jobID, bucket string, creators []ManifestEntryCreator) *Manifest {
	entries := make([]ManifestEntry, len(creators))
	for i, creator := range creators {
		entries[i] = creator.ManifestEntry(bucket, g.OutputKeyPrefix())
	}
	return &Manifest{
		Collection: g.VICollection(),
		GranuleID:  g.VIGranuleID(),
		JobID:      jobID,
		Produced:   time.Now().UTC(),
		Files:      entries,
	}
}

// Filename returns the manifest's own file name for a granule
func (m *Manifest) Filename() string {
	return m.GranuleID + ".json"
}

// JSON serializes the manifest document
func (m *Manifest) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}

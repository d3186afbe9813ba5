package models

import "time"

// FileRecord is one stored frame as written by the ingest pipeline.
// The key encodes the full hierarchy: GROUP_VIDEO/NNN.jpg, e.g. L21_V003/042.jpg.
// Records are immutable once written; this subsystem only reads them.
type FileRecord struct {
	Key         string    `json:"key"`
	Bucket      string    `json:"bucket"`
	ContentType string    `json:"content_type"`
	Hash        string    `json:"hash"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	Region      string    `json:"region"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

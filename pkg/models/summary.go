package models

import "time"

// DateRange holds the earliest and latest upload timestamps of a set of frames.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Extend widens the range to include t.
func (d *DateRange) Extend(t time.Time) {
	if d.Start.IsZero() || t.Before(d.Start) {
		d.Start = t
	}
	if d.End.IsZero() || t.After(d.End) {
		d.End = t
	}
}

// Merge widens the range to include another range.
func (d *DateRange) Merge(other DateRange) {
	if !other.Start.IsZero() {
		d.Extend(other.Start)
	}
	if !other.End.IsZero() {
		d.Extend(other.End)
	}
}

// GroupSummary is the rollup over all records sharing a group identifier.
// Computed and cached, never persisted.
type GroupSummary struct {
	ID          string    `json:"id"`
	VideoCount  int       `json:"video_count"`
	TotalFrames int64     `json:"total_frames"`
	TotalSize   int64     `json:"total_size"`
	DateRange   DateRange `json:"date_range"`
}

// VideoSummary is the rollup over all records sharing a (group, video) pair.
// FrameCount is always > 0: empty videos are never surfaced.
type VideoSummary struct {
	ID               string           `json:"id"`
	FrameCount       int64            `json:"frame_count"`
	TotalSize        int64            `json:"total_size"`
	AverageFrameSize int64            `json:"average_frame_size"`
	DateRange        DateRange        `json:"date_range"`
	SampleFrame      *FrameDescriptor `json:"sample_frame,omitempty"`
}

// FrameDescriptor is one page entry at the leaf tier. ID is the record key
// without its extension; Key is the full stored key.
type FrameDescriptor struct {
	ID          string    `json:"id"`
	FrameNumber int       `json:"frame_number"`
	URL         string    `json:"url"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	Key         string    `json:"key"`
	Hash        string    `json:"hash"`
}

// ScoredFrame is a frame descriptor with a relevance score attached by the
// external search service.
type ScoredFrame struct {
	FrameDescriptor
	Score float64 `json:"score"`
}

// Package catalog is the backing store for frame records: a single flat
// collection of FileRecord queryable by key, by (group, video) equality and
// by group prefix, with server-side rollup aggregation so the tier services
// never pull the whole dataset to compute summaries.
package catalog

import (
	"context"
	"time"

	"framebrowse/pkg/models"
)

// GroupRollup is a server-side aggregate over one group.
type GroupRollup struct {
	Group      string
	VideoCount int
	FrameCount int64
	TotalSize  int64
	First      time.Time
	Last       time.Time
}

// VideoRollup is a server-side aggregate over one (group, video) pair.
type VideoRollup struct {
	Group      string
	Video      string
	FrameCount int64
	TotalSize  int64
	First      time.Time
	Last       time.Time
}

// IngestStats reports the outcome of a batch insert. Unparseable records are
// stored as-is but excluded from every aggregate.
type IngestStats struct {
	Stored      int `json:"stored"`
	Unparseable int `json:"unparseable"`
}

// Catalog defines read and ingest access to the flat frame-record collection.
// Reads are safe to invoke concurrently; writes belong to the ingest path.
type Catalog interface {
	// Put stores or replaces a single record.
	Put(ctx context.Context, rec models.FileRecord) error

	// PutBatch stores a batch of records in one transaction.
	PutBatch(ctx context.Context, recs []models.FileRecord) (*IngestStats, error)

	// GetByKeys retrieves records by exact key. Missing keys are skipped,
	// not errors.
	GetByKeys(ctx context.Context, recordKeys []string) ([]models.FileRecord, error)

	// ListByVideo returns every record of one (group, video) pair ordered by
	// frame number ascending.
	ListByVideo(ctx context.Context, group, video string) ([]models.FileRecord, error)

	// ListByGroup returns every record under one group prefix.
	ListByGroup(ctx context.Context, group string) ([]models.FileRecord, error)

	// AggregateGroups computes group-level rollups plus the count of stored
	// records whose keys did not parse.
	AggregateGroups(ctx context.Context) ([]GroupRollup, int64, error)

	// AggregateVideos computes video-level rollups for one group. An empty
	// result means the group has no parseable records.
	AggregateVideos(ctx context.Context, group string) ([]VideoRollup, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying store.
	Close() error
}

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"framebrowse/pkg/keys"
	"framebrowse/pkg/models"

	_ "modernc.org/sqlite"
)

// maxKeysPerLookup bounds a single GetByKeys call.
const maxKeysPerLookup = 1000

// timeFormat is a fixed-width UTC encoding for uploaded_at. Fixed width keeps
// lexicographic order identical to chronological order, which MIN/MAX in the
// rollup queries rely on.
const timeFormat = "2006-01-02 15:04:05.000000000"

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(timeFormat, s)
}

// SQLiteCatalog stores frame records in SQLite.
type SQLiteCatalog struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLite opens (creating if necessary) a catalog database at the given path.
func NewSQLite(dbPath string) (*SQLiteCatalog, error) {
	database, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %w", ErrDatabaseError, err)
	}

	ctx := context.Background()

	// Enable WAL mode for better concurrency
	if _, err := database.ExecContext(ctx, "PRAGMA journal_mode = WAL"); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("%w: failed to enable WAL mode: %w", ErrDatabaseError, err)
	}

	cat := &SQLiteCatalog{db: database}
	if err := cat.initialize(); err != nil {
		_ = database.Close()
		return nil, err
	}

	return cat, nil
}

func (c *SQLiteCatalog) initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.ExecContext(context.Background(), Schema); err != nil {
		return fmt.Errorf("%w: failed to initialize schema: %w", ErrDatabaseError, err)
	}
	return nil
}

// Close closes the database connection.
func (c *SQLiteCatalog) Close() error {
	return c.db.Close()
}

// Ping verifies the database is reachable.
func (c *SQLiteCatalog) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return nil
}

// Put stores or replaces a single record.
func (c *SQLiteCatalog) Put(ctx context.Context, rec models.FileRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.insert(ctx, c.db, rec); err != nil {
		return err
	}
	return nil
}

// PutBatch stores a batch of records in one transaction.
func (c *SQLiteCatalog) PutBatch(ctx context.Context, recs []models.FileRecord) (*IngestStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	stats := &IngestStats{}
	for _, rec := range recs {
		if err := c.insert(ctx, tx, rec); err != nil {
			_ = tx.Rollback()
			return nil, err
		}
		stats.Stored++
		if _, parseErr := keys.Parse(rec.Key); parseErr != nil {
			stats.Unparseable++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return stats, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (c *SQLiteCatalog) insert(ctx context.Context, db execer, rec models.FileRecord) error {
	var grp, video any
	var frameNum any
	if parsed, err := keys.Parse(rec.Key); err == nil {
		grp, video, frameNum = parsed.Group, parsed.Video, parsed.Frame
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR REPLACE INTO frames
		 (key, grp, video, frame_num, bucket, content_type, hash, size, url, region, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Key, grp, video, frameNum,
		rec.Bucket, rec.ContentType, rec.Hash, rec.Size, rec.URL, rec.Region,
		encodeTime(rec.UploadedAt),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return nil
}

const recordColumns = `key, bucket, content_type, hash, size, url, region, uploaded_at`

func scanRecord(rows *sql.Rows) (models.FileRecord, error) {
	var rec models.FileRecord
	var uploadedAt string
	err := rows.Scan(&rec.Key, &rec.Bucket, &rec.ContentType, &rec.Hash,
		&rec.Size, &rec.URL, &rec.Region, &uploadedAt)
	if err != nil {
		return rec, err
	}
	rec.UploadedAt, err = decodeTime(uploadedAt)
	return rec, err
}

// GetByKeys retrieves records by exact key. Missing keys are skipped.
func (c *SQLiteCatalog) GetByKeys(ctx context.Context, recordKeys []string) ([]models.FileRecord, error) {
	if len(recordKeys) == 0 {
		return nil, nil
	}
	if len(recordKeys) > maxKeysPerLookup {
		recordKeys = recordKeys[:maxKeysPerLookup]
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(recordKeys)), ",")
	args := make([]any, len(recordKeys))
	for i, k := range recordKeys {
		args[i] = k
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM frames WHERE key IN (`+placeholders+`) ORDER BY key`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListByVideo returns every record of one (group, video) pair ordered by
// frame number ascending, key as tiebreak.
func (c *SQLiteCatalog) ListByVideo(ctx context.Context, group, video string) ([]models.FileRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM frames WHERE grp = ? AND video = ? ORDER BY frame_num, key`,
		group, video,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListByGroup returns every parseable record under one group.
func (c *SQLiteCatalog) ListByGroup(ctx context.Context, group string) ([]models.FileRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM frames WHERE grp = ? ORDER BY video, frame_num, key`,
		group,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func collectRecords(rows *sql.Rows) ([]models.FileRecord, error) {
	var recs []models.FileRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	return recs, nil
}

// AggregateGroups computes group-level rollups server-side.
func (c *SQLiteCatalog) AggregateGroups(ctx context.Context) ([]GroupRollup, int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.QueryContext(ctx,
		`SELECT grp, COUNT(DISTINCT video), COUNT(*), COALESCE(SUM(size), 0),
		        MIN(uploaded_at), MAX(uploaded_at)
		 FROM frames
		 WHERE grp IS NOT NULL
		 GROUP BY grp
		 ORDER BY grp`,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	var rollups []GroupRollup
	for rows.Next() {
		var r GroupRollup
		var first, last string
		if err := rows.Scan(&r.Group, &r.VideoCount, &r.FrameCount, &r.TotalSize, &first, &last); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		if r.First, err = decodeTime(first); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		if r.Last, err = decodeTime(last); err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		rollups = append(rollups, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	var unparseable int64
	err = c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM frames WHERE grp IS NULL`).Scan(&unparseable)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return rollups, unparseable, nil
}

// AggregateVideos computes video-level rollups for one group.
func (c *SQLiteCatalog) AggregateVideos(ctx context.Context, group string) ([]VideoRollup, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rows, err := c.db.QueryContext(ctx,
		`SELECT video, COUNT(*), COALESCE(SUM(size), 0),
		        MIN(uploaded_at), MAX(uploaded_at)
		 FROM frames
		 WHERE grp = ?
		 GROUP BY video
		 ORDER BY video`,
		group,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}
	defer rows.Close()

	var rollups []VideoRollup
	for rows.Next() {
		r := VideoRollup{Group: group}
		var first, last string
		if err := rows.Scan(&r.Video, &r.FrameCount, &r.TotalSize, &first, &last); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		if r.First, err = decodeTime(first); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		if r.Last, err = decodeTime(last); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
		}
		rollups = append(rollups, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	return rollups, nil
}

package catalog

// Schema contains the SQL statements to create the catalog database schema.
// grp, video and frame_num are denormalized from the record key at ingest
// time; they stay NULL for keys outside the grammar so unparseable records
// remain stored but drop out of every aggregate.
const Schema = `
-- Frames table: one row per stored frame record
CREATE TABLE IF NOT EXISTS frames (
    key          TEXT PRIMARY KEY,
    grp          TEXT,
    video        TEXT,
    frame_num    INTEGER,
    bucket       TEXT,
    content_type TEXT,
    hash         TEXT,
    size         INTEGER NOT NULL DEFAULT 0,
    url          TEXT,
    region       TEXT,
    -- uploaded_at is TEXT, not DATETIME: the driver must hand back the
    -- fixed-width encoding verbatim, both for decoding and so MIN/MAX stay
    -- chronological.
    uploaded_at  TEXT NOT NULL
);

-- Indexes for prefix listing and rollup aggregation
CREATE INDEX IF NOT EXISTS idx_frames_group ON frames(grp);
CREATE INDEX IF NOT EXISTS idx_frames_video ON frames(grp, video, frame_num);
`

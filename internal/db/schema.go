package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SchemaSQL = `
CREATE TABLE IF NOT EXISTS reports (
    id TEXT PRIMARY KEY,
    file TEXT,
    analysis_time TEXT,
    originality_score REAL,
    matches_found INTEGER,
    verdict TEXT,
    certainty TEXT,
    report_json TEXT
);

CREATE TABLE IF NOT EXISTS matches (
    id INTEGER PRIMARY KEY,
    report_id TEXT,
    rank INTEGER,
    source TEXT,
    title TEXT,
    url TEXT,
    doi TEXT,
    similarity REAL,
    snippet TEXT
);

CREATE TABLE IF NOT EXISTS segments (
    id INTEGER PRIMARY KEY,
    report_id TEXT,
    segment_id INTEGER,
    section TEXT,
    text TEXT
);

CREATE TABLE IF NOT EXISTS fingerprints (
    id INTEGER PRIMARY KEY,
    report_id TEXT,
    hash TEXT,
    window TEXT
);

CREATE INDEX IF NOT EXISTS idx_fingerprints_hash ON fingerprints(hash);
`

func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(SchemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

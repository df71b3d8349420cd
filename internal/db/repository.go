package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"originality/internal/report"
)

// PersistReport stores a report and its matches, segments and fingerprints.
// Saving the same report ID again replaces the previous rows.
func PersistReport(dbPath string, r *report.Report) error {
	if r == nil {
		return errors.New("persist report: nil report")
	}
	conn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"matches", "segments", "fingerprints"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE report_id = ?`, r.ID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO reports(id, file, analysis_time, originality_score, matches_found, verdict, certainty, report_json) VALUES(?,?,?,?,?,?,?,?)`,
		r.ID,
		r.File,
		r.AnalysisTime.UTC().Format(time.RFC3339),
		r.OriginalityScore,
		r.MatchesFound,
		string(r.Verdict.Tier),
		r.Verdict.Certainty,
		string(raw),
	); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	for i, m := range r.Matches {
		if _, err := tx.Exec(
			`INSERT INTO matches(report_id, rank, source, title, url, doi, similarity, snippet) VALUES(?,?,?,?,?,?,?,?)`,
			r.ID, i+1, string(m.Source), m.Title, m.URL, m.DOI, m.Similarity, m.Snippet,
		); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
	}
	for _, s := range r.Segments {
		if _, err := tx.Exec(
			`INSERT INTO segments(report_id, segment_id, section, text) VALUES(?,?,?,?)`,
			r.ID, s.ID, s.Section, s.Text,
		); err != nil {
			return fmt.Errorf("insert segment: %w", err)
		}
	}
	for _, f := range r.ForensicAnalysis.Fingerprints {
		if _, err := tx.Exec(
			`INSERT INTO fingerprints(report_id, hash, window) VALUES(?,?,?)`,
			r.ID, f.Hash, f.Window,
		); err != nil {
			return fmt.Errorf("insert fingerprint: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SharedFingerprints returns the IDs of other stored reports that share at
// least one fingerprint hash with reportID, most overlapping first.
func SharedFingerprints(dbPath, reportID string) ([]string, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.Query(`
SELECT other.report_id, COUNT(*) AS shared
FROM fingerprints mine
JOIN fingerprints other ON other.hash = mine.hash AND other.report_id <> mine.report_id
WHERE mine.report_id = ?
GROUP BY other.report_id
ORDER BY shared DESC, other.report_id`, reportID)
	if err != nil {
		return nil, fmt.Errorf("query shared fingerprints: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		var shared int
		if err := rows.Scan(&id, &shared); err != nil {
			return nil, fmt.Errorf("scan shared fingerprint: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shared fingerprints: %w", err)
	}
	return ids, nil
}

func CountRows(dbPath, table string) (int, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return countRowsConn(conn, table)
}

func countRowsConn(conn *sql.DB, table string) (int, error) {
	row := conn.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}

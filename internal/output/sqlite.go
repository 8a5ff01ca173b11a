// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doi-resolver/internal/match"
)

// WriteDatabase writes every per-record outcome of the run to a fresh SQLite
// database at path. The database is a queryable artifact of one run, never
// read back by the pipeline; an existing file is replaced.
func WriteDatabase(ctx context.Context, path string, outcomes []match.Outcome) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing previous database: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx,
		`CREATE TABLE decisions (
			pid TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			reason TEXT,
			verified_doi TEXT,
			possible_doi TEXT,
			similarity REAL,
			candidate_year INTEGER
		)`); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO decisions (pid, status, reason, verified_doi, possible_doi, similarity, candidate_year)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, out := range outcomes {
		_, err := stmt.ExecContext(ctx,
			out.PID, string(out.Status), out.Reason,
			out.Decision.VerifiedDOI, out.Decision.PossibleDOI,
			out.Decision.Similarity, out.Decision.CandidateYear,
		)
		if err != nil {
			return fmt.Errorf("inserting decision %s: %w", out.PID, err)
		}
	}

	return tx.Commit()
}

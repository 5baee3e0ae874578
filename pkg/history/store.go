// Package history supplies query batches to the engine: from a JSON
// export file or from a local SQLite query-history database. The
// engine itself never touches storage.
package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/warecost-io/warecost/pkg/models"
	"github.com/warecost-io/warecost/pkg/normalize"
)

// Store reads and seeds a SQLite query-history database.
type Store struct {
	db *sql.DB
}

const createTable = `
CREATE TABLE IF NOT EXISTS query_history (
	query_id TEXT PRIMARY KEY,
	query_text TEXT NOT NULL,
	user_name TEXT NOT NULL,
	warehouse_name TEXT NOT NULL,
	credits_used REAL NOT NULL,
	bytes_scanned INTEGER NOT NULL,
	execution_time_ms INTEGER NOT NULL,
	start_time TEXT NOT NULL,
	query_tag TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_history_warehouse ON query_history(warehouse_name);
`

// Open creates a Store and runs auto-migration.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}

	return &Store{db: db}, nil
}

// Insert stores one query record, replacing any row with the same id.
func (s *Store) Insert(ctx context.Context, rec models.QueryRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO query_history
		 (query_id, query_text, user_name, warehouse_name, credits_used, bytes_scanned, execution_time_ms, start_time, query_tag)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.QueryID, rec.QueryText, rec.UserName, rec.WarehouseName,
		rec.CreditsUsed, rec.BytesScanned, rec.ExecutionTimeMS, rec.StartTime, rec.QueryTag,
	)
	if err != nil {
		return fmt.Errorf("insert query: %w", err)
	}
	return nil
}

// Queries returns the full history as raw records, ordered by start
// time, ready for the normalizer.
func (s *Store) Queries(ctx context.Context) ([]normalize.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT query_id, query_text, user_name, warehouse_name, credits_used, bytes_scanned, execution_time_ms, start_time, query_tag
		 FROM query_history ORDER BY start_time ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var raws []normalize.RawRecord
	for rows.Next() {
		var id, text, user, warehouse, start, tag string
		var credits float64
		var bytes, execMS int64
		if err := rows.Scan(&id, &text, &user, &warehouse, &credits, &bytes, &execMS, &start, &tag); err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		raw := normalize.RawRecord{
			"query_id":          id,
			"query_text":        text,
			"user_name":         user,
			"warehouse_name":    warehouse,
			"credits_used":      credits,
			"bytes_scanned":     bytes,
			"execution_time_ms": execMS,
			"start_time":        start,
		}
		if tag != "" {
			raw["query_tag"] = tag
		}
		raws = append(raws, raw)
	}
	return raws, rows.Err()
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

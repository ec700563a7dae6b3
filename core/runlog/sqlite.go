package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists run records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS training_runs (
        id TEXT PRIMARY KEY,
        started_at INTEGER,
        duration_ns INTEGER,
        records INTEGER,
        updates INTEGER,
        explored INTEGER,
        states INTEGER,
        mean_reward REAL,
        std_reward REAL,
        alpha REAL,
        gamma REAL,
        epsilon REAL
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append inserts the record.
func (s *SQLiteStore) Append(ctx context.Context, rec RunRecord) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO training_runs
        (id, started_at, duration_ns, records, updates, explored, states, mean_reward, std_reward, alpha, gamma, epsilon)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.StartedAt.UnixNano(), int64(rec.Duration), rec.Records, rec.Updates, rec.Explored,
		rec.States, rec.MeanReward, rec.StdReward, rec.Alpha, rec.Gamma, rec.Epsilon)
	return err
}

// List returns records matching q, most recent first.
func (s *SQLiteStore) List(ctx context.Context, q Query) ([]RunRecord, error) {
	var args []any
	query := `SELECT id, started_at, duration_ns, records, updates, explored, states,
        mean_reward, std_reward, alpha, gamma, epsilon FROM training_runs WHERE 1=1`
	if !q.Since.IsZero() {
		query += ` AND started_at >= ?`
		args = append(args, q.Since.UnixNano())
	}
	query += ` ORDER BY started_at DESC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []RunRecord
	for rows.Next() {
		var r RunRecord
		var started, dur int64
		if err := rows.Scan(&r.ID, &started, &dur, &r.Records, &r.Updates, &r.Explored, &r.States,
			&r.MeanReward, &r.StdReward, &r.Alpha, &r.Gamma, &r.Epsilon); err != nil {
			return nil, err
		}
		r.StartedAt = time.Unix(0, started).UTC()
		r.Duration = time.Duration(dur)
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

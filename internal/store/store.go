// Package store handles SQLite persistence of raw records.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/fitline/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for imported records.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			imported_at TEXT NOT NULL,
			metrics INTEGER NOT NULL,
			activities INTEGER NOT NULL,
			events INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS metric_records (
			id INTEGER PRIMARY KEY,
			import_id TEXT NOT NULL REFERENCES imports(id),
			uid TEXT NOT NULL,
			sid TEXT NOT NULL,
			key TEXT NOT NULL,
			category TEXT NOT NULL,
			time_ns INTEGER NOT NULL,
			value REAL NOT NULL,
			update_time_ns INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS activity_records (
			id INTEGER PRIMARY KEY,
			import_id TEXT NOT NULL REFERENCES imports(id),
			uid TEXT NOT NULL,
			sid TEXT NOT NULL,
			key TEXT NOT NULL,
			time_ns INTEGER NOT NULL,
			calories REAL NOT NULL,
			duration REAL NOT NULL,
			distance REAL NOT NULL,
			steps REAL NOT NULL,
			update_time_ns INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS calendar_events (
			id INTEGER PRIMARY KEY,
			import_id TEXT NOT NULL REFERENCES imports(id),
			title TEXT NOT NULL,
			start_ns INTEGER NOT NULL,
			end_ns INTEGER,
			event_type TEXT NOT NULL,
			event_category TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_metric_records_time ON metric_records(time_ns);`,
		`CREATE INDEX IF NOT EXISTS idx_activity_records_time ON activity_records(time_ns);`,
		`CREATE INDEX IF NOT EXISTS idx_calendar_events_start ON calendar_events(start_ns);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Import stores one batch of raw records under a fresh batch id.
func (s *Store) Import(ctx context.Context, source string, in model.Inputs) (batch model.ImportBatch, err error) {
	batch = model.ImportBatch{
		ID:         uuid.NewString(),
		Source:     source,
		ImportedAt: s.now().UTC(),
		Metrics:    len(in.Metrics),
		Activities: len(in.Activities),
		Events:     len(in.Calendar),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.ImportBatch{}, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO imports (id, source, imported_at, metrics, activities, events) VALUES (?, ?, ?, ?, ?, ?)`,
		batch.ID, batch.Source, batch.ImportedAt.Format(time.RFC3339Nano),
		batch.Metrics, batch.Activities, batch.Events,
	); err != nil {
		return model.ImportBatch{}, fmt.Errorf("failed to insert import: %w", err)
	}

	err = insertAll(ctx, tx,
		`INSERT INTO metric_records (import_id, uid, sid, key, category, time_ns, value, update_time_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Metrics, func(r model.MetricRecord) []any {
			return []any{batch.ID, r.SubjectID, r.SessionID, r.Key, r.Category, unixNano(r.Time), r.Value, unixNano(r.UpdateTime)}
		})
	if err != nil {
		return model.ImportBatch{}, fmt.Errorf("failed to insert metric records: %w", err)
	}
	err = insertAll(ctx, tx,
		`INSERT INTO activity_records (import_id, uid, sid, key, time_ns, calories, duration, distance, steps, update_time_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Activities, func(r model.ActivityRecord) []any {
			return []any{batch.ID, r.SubjectID, r.SessionID, r.Key, unixNano(r.Time), r.Calories, r.Duration, r.Distance, r.Steps, unixNano(r.UpdateTime)}
		})
	if err != nil {
		return model.ImportBatch{}, fmt.Errorf("failed to insert activity records: %w", err)
	}
	err = insertAll(ctx, tx,
		`INSERT INTO calendar_events (import_id, title, start_ns, end_ns, event_type, event_category)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		in.Calendar, func(r model.CalendarRecord) []any {
			var end any
			if !r.End.IsZero() {
				end = r.End.UnixNano()
			}
			return []any{batch.ID, r.Title, unixNano(r.Start), end, r.EventType, r.EventCategory}
		})
	if err != nil {
		return model.ImportBatch{}, fmt.Errorf("failed to insert calendar events: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return model.ImportBatch{}, err
	}
	return batch, nil
}

func insertAll[R any](ctx context.Context, tx *sql.Tx, query string, records []R, args func(R) []any) error {
	if len(records) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, args(r)...); err != nil {
			return err
		}
	}
	return nil
}

// LoadInputs returns every stored record ordered by time, then insertion.
func (s *Store) LoadInputs(ctx context.Context) (model.Inputs, error) {
	var in model.Inputs
	var err error
	in.Metrics, err = queryAll(ctx, s.db,
		`SELECT uid, sid, key, category, time_ns, value, update_time_ns
		FROM metric_records ORDER BY time_ns ASC, id ASC`,
		func(rows *sql.Rows) (model.MetricRecord, error) {
			var r model.MetricRecord
			var at, updated int64
			err := rows.Scan(&r.SubjectID, &r.SessionID, &r.Key, &r.Category, &at, &r.Value, &updated)
			r.Time, r.UpdateTime = fromUnixNano(at), fromUnixNano(updated)
			return r, err
		})
	if err != nil {
		return model.Inputs{}, fmt.Errorf("failed to load metric records: %w", err)
	}
	in.Activities, err = queryAll(ctx, s.db,
		`SELECT uid, sid, key, time_ns, calories, duration, distance, steps, update_time_ns
		FROM activity_records ORDER BY time_ns ASC, id ASC`,
		func(rows *sql.Rows) (model.ActivityRecord, error) {
			var r model.ActivityRecord
			var at, updated int64
			err := rows.Scan(&r.SubjectID, &r.SessionID, &r.Key, &at, &r.Calories, &r.Duration, &r.Distance, &r.Steps, &updated)
			r.Time, r.UpdateTime = fromUnixNano(at), fromUnixNano(updated)
			return r, err
		})
	if err != nil {
		return model.Inputs{}, fmt.Errorf("failed to load activity records: %w", err)
	}
	in.Calendar, err = queryAll(ctx, s.db,
		`SELECT title, start_ns, end_ns, event_type, event_category
		FROM calendar_events ORDER BY start_ns ASC, id ASC`,
		func(rows *sql.Rows) (model.CalendarRecord, error) {
			var r model.CalendarRecord
			var start int64
			var end sql.NullInt64
			err := rows.Scan(&r.Title, &start, &end, &r.EventType, &r.EventCategory)
			r.Start = fromUnixNano(start)
			if end.Valid {
				r.End = fromUnixNano(end.Int64)
			}
			return r, err
		})
	if err != nil {
		return model.Inputs{}, fmt.Errorf("failed to load calendar events: %w", err)
	}
	return in, nil
}

// ListImports returns stored import batches, oldest first.
func (s *Store) ListImports(ctx context.Context) ([]model.ImportBatch, error) {
	return queryAll(ctx, s.db,
		`SELECT id, source, imported_at, metrics, activities, events
		FROM imports ORDER BY imported_at ASC, rowid ASC`,
		func(rows *sql.Rows) (model.ImportBatch, error) {
			var b model.ImportBatch
			var importedAt string
			if err := rows.Scan(&b.ID, &b.Source, &importedAt, &b.Metrics, &b.Activities, &b.Events); err != nil {
				return b, err
			}
			parsed, err := time.Parse(time.RFC3339Nano, importedAt)
			if err != nil {
				return b, err
			}
			b.ImportedAt = parsed
			return b, nil
		})
}

// DeleteImport removes one batch and its records. Unknown ids are not an error.
func (s *Store) DeleteImport(ctx context.Context, id string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	for _, table := range []string{"metric_records", "activity_records", "calendar_events"} {
		if _, err = tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE import_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM imports WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete import: %w", err)
	}
	return tx.Commit()
}

func queryAll[T any](ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

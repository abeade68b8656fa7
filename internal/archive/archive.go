// Package archive maintains a queryable SQLite index over the per-day
// activity logs. The JSON logs stay the source of truth; the index exists so
// range queries don't reread a month of day files, and it can always be
// rebuilt from them.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/randalmurphal/pulse/internal/activity"
)

// timeLayout stores timestamps zone-free in UTC so string order is time
// order and range predicates can compare lexically.
const timeLayout = "2006-01-02T15:04:05"

const schema = `
CREATE TABLE IF NOT EXISTS activities (
	dedup_key        TEXT PRIMARY KEY,
	day              TEXT NOT NULL,
	timestamp        TEXT NOT NULL,
	source           TEXT NOT NULL,
	description      TEXT NOT NULL,
	confidence       REAL NOT NULL,
	project          TEXT NOT NULL DEFAULT '',
	theme            TEXT NOT NULL DEFAULT '',
	match_confidence REAL NOT NULL DEFAULT 0,
	path             TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_activities_day ON activities(day);
CREATE INDEX IF NOT EXISTS idx_activities_project ON activities(project, day);
`

// Archive is the activity index. Single writer; WAL and a busy timeout keep
// an overlapping cron run from failing outright.
type Archive struct {
	db *sql.DB
}

// Open opens the archive at path, creating the schema on first use.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA synchronous = NORMAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Archive{db: db}, nil
}

// Close closes the database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// Index inserts activities into the archive, ignoring ones already present
// under their dedup key. Returns how many rows were inserted.
func (a *Archive) Index(ctx context.Context, acts []*activity.Activity) (int, error) {
	if len(acts) == 0 {
		return 0, nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO activities
			(dedup_key, day, timestamp, source, description, confidence,
			 project, theme, match_confidence, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, act := range acts {
		res, execErr := stmt.ExecContext(ctx,
			act.DedupKey(),
			act.Day(),
			act.Timestamp.UTC().Format(timeLayout),
			string(act.Source),
			act.Description,
			act.Confidence,
			act.Project,
			act.Theme,
			act.MatchConfidence,
			act.Path,
		)
		if execErr != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert activity: %w", execErr)
		}
		if n, raErr := res.RowsAffected(); raErr == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// Rebuild wipes the index and reinserts every logged day from the store.
func (a *Archive) Rebuild(ctx context.Context, store *activity.Store) (int, error) {
	if _, err := a.db.ExecContext(ctx, `DELETE FROM activities`); err != nil {
		return 0, fmt.Errorf("clear archive: %w", err)
	}
	total := 0
	for _, day := range store.Days() {
		n, err := a.Index(ctx, store.LoadDay(day))
		if err != nil {
			return total, fmt.Errorf("reindex %s: %w", day, err)
		}
		total += n
	}
	return total, nil
}

// Entry is one indexed activity row.
type Entry struct {
	Day             string
	Timestamp       time.Time
	Source          string
	Description     string
	Confidence      float64
	Project         string
	Theme           string
	MatchConfidence float64
	Path            string
}

// Range returns entries with timestamps in [from, to), oldest first.
func (a *Archive) Range(ctx context.Context, from, to time.Time) ([]Entry, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT day, timestamp, source, description, confidence,
		       project, theme, match_confidence, path
		FROM activities
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp
	`, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("query range: %w", err)
	}
	return scanEntries(rows)
}

// Search returns entries whose description contains term, newest first.
func (a *Archive) Search(ctx context.Context, term string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := a.db.QueryContext(ctx, `
		SELECT day, timestamp, source, description, confidence,
		       project, theme, match_confidence, path
		FROM activities
		WHERE description LIKE '%' || ? || '%'
		ORDER BY timestamp DESC
		LIMIT ?
	`, term, limit)
	if err != nil {
		return nil, fmt.Errorf("query search: %w", err)
	}
	return scanEntries(rows)
}

// ProjectTotals sums activities per project over [from, to).
func (a *Archive) ProjectTotals(ctx context.Context, from, to time.Time) (map[string]int, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT project, COUNT(*)
		FROM activities
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY project
	`, from.UTC().Format(timeLayout), to.UTC().Format(timeLayout))
	if err != nil {
		return nil, fmt.Errorf("query project totals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	totals := map[string]int{}
	for rows.Next() {
		var project string
		var count int
		if err := rows.Scan(&project, &count); err != nil {
			return nil, fmt.Errorf("scan project total: %w", err)
		}
		totals[project] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate project totals: %w", err)
	}
	return totals, nil
}

// Count returns how many activities the archive holds.
func (a *Archive) Count(ctx context.Context) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count activities: %w", err)
	}
	return n, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts string
		if err := rows.Scan(&e.Day, &ts, &e.Source, &e.Description, &e.Confidence,
			&e.Project, &e.Theme, &e.MatchConfidence, &e.Path); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if parsed, err := time.Parse(timeLayout, ts); err == nil {
			e.Timestamp = parsed
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return entries, nil
}

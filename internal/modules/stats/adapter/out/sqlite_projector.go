package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"studysprint/internal/modules/stats/domain"
	statsout "studysprint/internal/modules/stats/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteProjector struct {
	db *sql.DB
}

func NewSQLiteProjector(dbPath string) (*SQLiteProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Rebuild and read share one connection so requests never interleave.
	db.SetMaxOpenConns(1)
	projector := &SQLiteProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projector, nil
}

var _ statsout.Projection = (*SQLiteProjector)(nil)

func (p *SQLiteProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT NOT NULL,
  tag_key TEXT NOT NULL,
  tag_name TEXT NOT NULL,
  day TEXT NOT NULL,
  started_at TEXT NOT NULL,
  focus_sec INTEGER NOT NULL,
  break_sec INTEGER NOT NULL,
  reflection INTEGER
);
CREATE INDEX IF NOT EXISTS idx_sessions_day ON sessions(day);
`
	if _, err := p.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return nil
}

// Aggregate replaces the table contents with rows and runs every grouping
// query inside the same transaction.
func (p *SQLiteProjector) Aggregate(ctx context.Context, rows []domain.SessionRow, since string) (domain.Aggregates, error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Aggregates{}, fmt.Errorf("begin projection: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return domain.Aggregates{}, fmt.Errorf("reset sessions: %w", err)
	}
	insert, err := tx.PrepareContext(ctx, `
INSERT INTO sessions (id, tag_key, tag_name, day, started_at, focus_sec, break_sec, reflection)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return domain.Aggregates{}, fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()
	for _, row := range rows {
		var reflection any
		if row.Reflection != nil {
			reflection = boolInt(*row.Reflection)
		}
		if _, err := insert.ExecContext(ctx,
			row.ID,
			row.TagKey,
			row.TagName,
			row.Day,
			row.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
			row.FocusSec,
			row.BreakSec,
			reflection,
		); err != nil {
			return domain.Aggregates{}, fmt.Errorf("insert session %s: %w", row.ID, err)
		}
	}

	agg := domain.Aggregates{Daily: map[string]int{}, Tags: []domain.TagCount{}}
	const totals = `
SELECT COUNT(*),
       COALESCE(SUM(focus_sec), 0),
       COALESCE(SUM(CASE WHEN reflection = 1 THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN reflection IS NOT NULL THEN 1 ELSE 0 END), 0)
FROM sessions`
	if err := tx.QueryRowContext(ctx, totals).Scan(&agg.Total, &agg.FocusSeconds, &agg.Positive, &agg.Answered); err != nil {
		return domain.Aggregates{}, fmt.Errorf("query totals: %w", err)
	}

	daily, err := tx.QueryContext(ctx, `SELECT day, COUNT(*) FROM sessions WHERE day >= ? GROUP BY day`, since)
	if err != nil {
		return domain.Aggregates{}, fmt.Errorf("query daily counts: %w", err)
	}
	err = scanAll(daily, func(scan func(...any) error) error {
		var day string
		var count int
		if err := scan(&day, &count); err != nil {
			return err
		}
		agg.Daily[day] = count
		return nil
	})
	if err != nil {
		return domain.Aggregates{}, fmt.Errorf("read daily counts: %w", err)
	}

	tags, err := tx.QueryContext(ctx, `
SELECT tag_key, tag_name, COUNT(*), COALESCE(SUM(focus_sec), 0)
FROM sessions
GROUP BY tag_key, tag_name
ORDER BY COUNT(*) DESC, tag_name ASC`)
	if err != nil {
		return domain.Aggregates{}, fmt.Errorf("query tag counts: %w", err)
	}
	err = scanAll(tags, func(scan func(...any) error) error {
		var item domain.TagCount
		var focusSec int
		if err := scan(&item.TagID, &item.Name, &item.Sessions, &focusSec); err != nil {
			return err
		}
		item.FocusMinutes = focusSec / 60
		agg.Tags = append(agg.Tags, item)
		return nil
	})
	if err != nil {
		return domain.Aggregates{}, fmt.Errorf("read tag counts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Aggregates{}, fmt.Errorf("commit projection: %w", err)
	}
	return agg, nil
}

type rowCursor interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// scanAll feeds every row to each and closes rows. An iteration error
// reported by Err fails the read even when every Scan succeeded.
func scanAll(rows rowCursor, each func(scan func(...any) error) error) error {
	for rows.Next() {
		if err := each(rows.Scan); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return fmt.Errorf("iterate: %w", err)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

func (p *SQLiteProjector) Close() error {
	return p.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

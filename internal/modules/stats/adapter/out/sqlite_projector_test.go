package out

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"studysprint/internal/modules/stats/domain"
	storedomain "studysprint/internal/modules/store/domain"
)

func TestSQLiteProjectorAggregates(t *testing.T) {
	t.Parallel()
	projector, err := NewSQLiteProjector(filepath.Join(t.TempDir(), "db", "stats.db"))
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	defer projector.Close()

	day := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	snap := storedomain.Snapshot{
		Tags: []storedomain.Tag{{ID: "math", Name: "Math"}, {ID: "art", Name: "Art"}},
		Sessions: []storedomain.StudySession{
			{ID: "1", TagID: "math", StartedAt: day, FocusDurationSec: 1500, ReflectionFocused: storedomain.Ptr(true)},
			{ID: "2", TagID: "math", StartedAt: day.Add(-24 * time.Hour), FocusDurationSec: 1500, ReflectionFocused: storedomain.Ptr(false)},
			{ID: "3", TagID: "art", StartedAt: day.Add(-30 * 24 * time.Hour), FocusDurationSec: 600, ReflectionFocused: storedomain.Ptr(true)},
			{ID: "4", TagID: "removed", StartedAt: day, FocusDurationSec: 1200},
			{ID: "5", StartedAt: day, FocusDurationSec: 60},
		},
	}
	rows := domain.Rows(snap, time.UTC, "")
	agg, err := projector.Aggregate(context.Background(), rows, domain.WindowStart(day))
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if agg.Total != 5 || agg.FocusSeconds != 4860 || agg.Positive != 2 || agg.Answered != 3 {
		t.Fatalf("unexpected totals %+v", agg)
	}
	if agg.Daily["2026-03-15"] != 3 || agg.Daily["2026-03-14"] != 1 || len(agg.Daily) != 2 {
		t.Fatalf("unexpected daily counts %+v", agg.Daily)
	}
	if len(agg.Tags) != 3 {
		t.Fatalf("expected math, no tag and art buckets, got %+v", agg.Tags)
	}
	if agg.Tags[0].Name != "Math" || agg.Tags[0].Sessions != 2 || agg.Tags[0].FocusMinutes != 50 {
		t.Fatalf("unexpected first bucket %+v", agg.Tags[0])
	}
	if agg.Tags[1].Name != domain.NoTagName || agg.Tags[1].Sessions != 2 || agg.Tags[1].TagID != "" {
		t.Fatalf("unexpected no tag bucket %+v", agg.Tags[1])
	}

	again, err := projector.Aggregate(context.Background(), rows[:1], domain.WindowStart(day))
	if err != nil {
		t.Fatalf("second aggregate: %v", err)
	}
	if again.Total != 1 {
		t.Fatalf("projection should be rebuilt from scratch, got %d rows", again.Total)
	}
}

type fakeCursor struct {
	rows    []int
	pos     int
	iterErr error
	scanErr error
	closed  bool
}

func (c *fakeCursor) Next() bool {
	if c.pos >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *fakeCursor) Scan(dest ...any) error {
	if c.scanErr != nil {
		return c.scanErr
	}
	*dest[0].(*int) = c.rows[c.pos-1]
	return nil
}

func (c *fakeCursor) Err() error { return c.iterErr }

func (c *fakeCursor) Close() error {
	c.closed = true
	return nil
}

func TestScanAllReportsIterationError(t *testing.T) {
	t.Parallel()
	broken := errors.New("connection reset")
	cursor := &fakeCursor{rows: []int{1, 2}, iterErr: broken}
	var seen []int
	err := scanAll(cursor, func(scan func(...any) error) error {
		var v int
		if err := scan(&v); err != nil {
			return err
		}
		seen = append(seen, v)
		return nil
	})
	if !errors.Is(err, broken) {
		t.Fatalf("expected iteration error, got %v", err)
	}
	if len(seen) != 2 || !cursor.closed {
		t.Fatalf("expected both rows read and cursor closed, seen=%v closed=%v", seen, cursor.closed)
	}

	clean := &fakeCursor{rows: []int{7}}
	if err := scanAll(clean, func(scan func(...any) error) error {
		var v int
		return scan(&v)
	}); err != nil || !clean.closed {
		t.Fatalf("clean read should succeed and close, err=%v closed=%v", err, clean.closed)
	}

	failing := &fakeCursor{rows: []int{1}, scanErr: broken}
	if err := scanAll(failing, func(scan func(...any) error) error {
		var v int
		return scan(&v)
	}); !errors.Is(err, broken) || !failing.closed {
		t.Fatalf("scan error should surface and close, err=%v closed=%v", err, failing.closed)
	}
}

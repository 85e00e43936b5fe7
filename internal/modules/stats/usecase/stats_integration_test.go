package usecase_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	statsout "studysprint/internal/modules/stats/adapter/out"
	"studysprint/internal/modules/stats/dto"
	"studysprint/internal/modules/stats/service"
	"studysprint/internal/modules/stats/usecase"
	storedomain "studysprint/internal/modules/store/domain"
	"studysprint/internal/platform/clock"
	"studysprint/internal/platform/logging"
)

type staticHistory struct{ snap storedomain.Snapshot }

func (s staticHistory) Snapshot(context.Context) (storedomain.Snapshot, error) {
	return s.snap.Clone(), nil
}

func TestSummaryOverSQLiteProjection(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)
	projector, err := statsout.NewSQLiteProjector(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("new projector: %v", err)
	}
	defer projector.Close()

	history := staticHistory{snap: storedomain.Snapshot{
		Tags: []storedomain.Tag{{ID: "math", Name: "Math", IsDefault: true}},
		Sessions: []storedomain.StudySession{
			{ID: "1", TagID: "math", StartedAt: now.Add(-time.Hour), FocusDurationSec: 1500, ReflectionFocused: storedomain.Ptr(true)},
			{ID: "2", TagID: "math", StartedAt: now.Add(-48 * time.Hour), FocusDurationSec: 1500, ReflectionFocused: storedomain.Ptr(true)},
			{ID: "3", TagID: "old", StartedAt: now.Add(-50 * time.Hour), FocusDurationSec: 1500, ReflectionFocused: storedomain.Ptr(false)},
		},
	}}
	uc := usecase.NewInteractor(service.NewStatsService(clock.Fixed(now), history, projector, logging.Discard()))

	all, err := uc.Summary(context.Background(), dto.SummaryInput{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if all.TotalSessions != 3 || all.FocusRate != 67 || all.FocusMinutes != 75 {
		t.Fatalf("unexpected totals %+v", all)
	}
	if all.LastSevenDays[6].Count != 1 || all.LastSevenDays[4].Count != 2 {
		t.Fatalf("unexpected daily counts %+v", all.LastSevenDays)
	}
	if len(all.Tags) != 2 || all.Tags[1].Name != "No tag" {
		t.Fatalf("unexpected tag buckets %+v", all.Tags)
	}

	math, err := uc.Summary(context.Background(), dto.SummaryInput{TagID: "math"})
	if err != nil {
		t.Fatalf("filtered summary: %v", err)
	}
	if math.TotalSessions != 2 || math.FocusRate != 100 || len(math.Tags) != 1 {
		t.Fatalf("unexpected filtered summary %+v", math)
	}

	empty := usecase.NewInteractor(service.NewStatsService(clock.Fixed(now), staticHistory{}, projector, logging.Discard()))
	none, err := empty.Summary(context.Background(), dto.SummaryInput{})
	if err != nil {
		t.Fatalf("empty summary: %v", err)
	}
	if none.TotalSessions != 0 || none.FocusRate != 0 || len(none.Tags) != 0 || len(none.LastSevenDays) != 7 {
		t.Fatalf("unexpected empty summary %+v", none)
	}
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"studysprint/internal/modules/stats/domain"
	statsout "studysprint/internal/modules/stats/port/out"
	"studysprint/internal/platform/clock"
)

type StatsService struct {
	clock      clock.Clock
	history    statsout.HistorySource
	projection statsout.Projection
	logger     *slog.Logger
}

func NewStatsService(clock clock.Clock, history statsout.HistorySource, projection statsout.Projection, logger *slog.Logger) *StatsService {
	return &StatsService{clock: clock, history: history, projection: projection, logger: logger}
}

// Summary projects the current history, optionally limited to one tag, and
// groups it. Days are bucketed in the clock's location.
func (s *StatsService) Summary(ctx context.Context, tagID string) (domain.Summary, error) {
	snap, err := s.history.Snapshot(ctx)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("load history: %w", err)
	}
	now := s.clock.Now()
	rows := domain.Rows(snap, now.Location(), tagID)
	agg, err := s.projection.Aggregate(ctx, rows, domain.WindowStart(now))
	if err != nil {
		return domain.Summary{}, err
	}
	s.logger.Debug("stats projected", slog.Int("rows", len(rows)), slog.String("tag_id", tagID))
	return domain.Summarize(agg, now), nil
}

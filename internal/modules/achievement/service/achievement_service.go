package service

import (
	"context"
	"fmt"
	"log/slog"

	"studysprint/internal/modules/achievement/domain"
	achievementout "studysprint/internal/modules/achievement/port/out"
	"studysprint/internal/platform/clock"
)

type AchievementService struct {
	clock  clock.Clock
	store  achievementout.HistoryStore
	logger *slog.Logger
}

func NewAchievementService(clock clock.Clock, store achievementout.HistoryStore, logger *slog.Logger) *AchievementService {
	return &AchievementService{clock: clock, store: store, logger: logger}
}

// List evaluates the current history without recording anything.
func (s *AchievementService) List(ctx context.Context) ([]domain.Progress, domain.Metrics, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, domain.Metrics{}, fmt.Errorf("load history: %w", err)
	}
	now := s.clock.Now()
	metrics := domain.ComputeMetrics(snap, now)
	return domain.EvaluateMetrics(snap, metrics, now), metrics, nil
}

// Refresh evaluates and then writes back a record for every badge that
// reached its target for the first time. The returned progress still carries
// NewlyUnlocked for those badges.
func (s *AchievementService) Refresh(ctx context.Context) ([]domain.Progress, domain.Metrics, error) {
	progress, metrics, err := s.List(ctx)
	if err != nil {
		return nil, domain.Metrics{}, err
	}
	for _, p := range domain.NewlyUnlocked(progress) {
		if err := s.store.RecordUnlock(ctx, string(p.ID), *p.UnlockedAt); err != nil {
			return nil, domain.Metrics{}, fmt.Errorf("record unlock %s: %w", p.ID, err)
		}
		s.logger.Info("achievement earned", slog.String("achievement", string(p.ID)), slog.String("title", p.Title))
	}
	return progress, metrics, nil
}

package usecase

import (
	"context"

	"studysprint/internal/modules/achievement/domain"
	"studysprint/internal/modules/achievement/dto"
	achievementin "studysprint/internal/modules/achievement/port/in"
	"studysprint/internal/modules/achievement/service"
)

type Interactor struct {
	svc *service.AchievementService
}

func NewInteractor(svc *service.AchievementService) achievementin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) (dto.ListOutput, error) {
	progress, metrics, err := i.svc.List(ctx)
	if err != nil {
		return dto.ListOutput{}, err
	}
	return toListOutput(progress, metrics), nil
}

func (i *Interactor) Refresh(ctx context.Context) (dto.ListOutput, error) {
	progress, metrics, err := i.svc.Refresh(ctx)
	if err != nil {
		return dto.ListOutput{}, err
	}
	return toListOutput(progress, metrics), nil
}

func toListOutput(progress []domain.Progress, metrics domain.Metrics) dto.ListOutput {
	out := dto.ListOutput{
		Total: len(progress),
		Items: make([]dto.AchievementOutput, 0, len(progress)),
		Metrics: dto.MetricsOutput{
			Sessions:            metrics.Sessions,
			PositiveReflections: metrics.PositiveReflections,
			AnsweredReflections: metrics.AnsweredReflections,
			DayStreak:           metrics.DayStreak,
			SessionStreak:       metrics.SessionStreak,
			DistinctTags:        metrics.DistinctTags,
			LastWeekSessions:    metrics.LastWeekSessions,
		},
	}
	for _, p := range progress {
		if p.Unlocked {
			out.Unlocked++
		}
		out.Items = append(out.Items, dto.AchievementOutput{
			ID:            string(p.ID),
			Title:         p.Title,
			Description:   p.Description,
			Icon:          p.Icon,
			Target:        p.Target,
			Current:       p.Current,
			Unlocked:      p.Unlocked,
			UnlockedAt:    p.UnlockedAt,
			NewlyUnlocked: p.NewlyUnlocked,
		})
	}
	return out
}

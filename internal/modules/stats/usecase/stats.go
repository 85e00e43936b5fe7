package usecase

import (
	"context"

	"studysprint/internal/modules/stats/dto"
	statsin "studysprint/internal/modules/stats/port/in"
	"studysprint/internal/modules/stats/service"
)

type Interactor struct {
	svc *service.StatsService
}

func NewInteractor(svc *service.StatsService) statsin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Summary(ctx context.Context, input dto.SummaryInput) (dto.SummaryOutput, error) {
	summary, err := i.svc.Summary(ctx, input.TagID)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	out := dto.SummaryOutput{
		TagID:         input.TagID,
		TotalSessions: summary.TotalSessions,
		FocusMinutes:  summary.FocusMinutes,
		FocusRate:     summary.FocusRate,
		LastSevenDays: make([]dto.DayOutput, 0, len(summary.LastSevenDays)),
		Tags:          make([]dto.TagOutput, 0, len(summary.Tags)),
	}
	for _, day := range summary.LastSevenDays {
		out.LastSevenDays = append(out.LastSevenDays, dto.DayOutput{Day: day.Day, Label: day.Label, Count: day.Count})
	}
	for _, tag := range summary.Tags {
		out.Tags = append(out.Tags, dto.TagOutput{TagID: tag.TagID, Name: tag.Name, Sessions: tag.Sessions, FocusMinutes: tag.FocusMinutes})
	}
	return out, nil
}

package in

import (
	"context"

	"studysprint/internal/modules/timer/dto"
)

type Usecase interface {
	State(ctx context.Context) (dto.StateOutput, error)
	Tick(ctx context.Context) (dto.TickOutput, error)
	ToggleRunning(ctx context.Context) (dto.StateOutput, error)
	ResetPhase(ctx context.Context, input dto.ResetInput) (dto.StateOutput, error)
	SelectTag(ctx context.Context, tagID string) (dto.StateOutput, error)
	SubmitReflection(ctx context.Context, input dto.ReflectionInput) (dto.ReflectionOutput, error)
	Reload(ctx context.Context) (dto.StateOutput, error)
	Tags(ctx context.Context) ([]dto.TagOption, error)
}

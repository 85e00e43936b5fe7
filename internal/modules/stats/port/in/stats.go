package in

import (
	"context"

	"studysprint/internal/modules/stats/dto"
)

type Usecase interface {
	Summary(ctx context.Context, input dto.SummaryInput) (dto.SummaryOutput, error)
}

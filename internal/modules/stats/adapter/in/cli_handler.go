package in

import (
	"context"

	"studysprint/internal/modules/stats/dto"
	statsin "studysprint/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Summary(ctx context.Context, tagID string) (dto.SummaryOutput, error) {
	return h.usecase.Summary(ctx, dto.SummaryInput{TagID: tagID})
}

package in

import (
	"context"

	"studysprint/internal/modules/achievement/dto"
	achievementin "studysprint/internal/modules/achievement/port/in"
)

type CLIHandler struct {
	usecase achievementin.Usecase
}

func NewCLIHandler(usecase achievementin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) List(ctx context.Context) (dto.ListOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Refresh(ctx context.Context) (dto.ListOutput, error) {
	return h.usecase.Refresh(ctx)
}

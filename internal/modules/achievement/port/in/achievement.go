package in

import (
	"context"

	"studysprint/internal/modules/achievement/dto"
)

// Usecase exposes badge progress. List is read-only; Refresh also persists
// first-time unlocks.
type Usecase interface {
	List(ctx context.Context) (dto.ListOutput, error)
	Refresh(ctx context.Context) (dto.ListOutput, error)
}

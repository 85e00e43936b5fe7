package out

import (
	"context"

	statsdomain "studysprint/internal/modules/stats/domain"
	storedomain "studysprint/internal/modules/store/domain"
)

type HistorySource interface {
	Snapshot(ctx context.Context) (storedomain.Snapshot, error)
}

// Projection rebuilds a disposable copy of the history and groups it.
// Daily counts only cover days on or after since.
type Projection interface {
	Aggregate(ctx context.Context, rows []statsdomain.SessionRow, since string) (statsdomain.Aggregates, error)
}

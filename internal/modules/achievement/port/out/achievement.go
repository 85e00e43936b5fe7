package out

import (
	"context"
	"time"

	storedomain "studysprint/internal/modules/store/domain"
)

// HistoryStore is the slice of the session store the evaluator needs.
type HistoryStore interface {
	Snapshot(ctx context.Context) (storedomain.Snapshot, error)
	RecordUnlock(ctx context.Context, achievementID string, at time.Time) error
}

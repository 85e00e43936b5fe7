package out

import (
	"context"
	"time"

	achievementout "studysprint/internal/modules/achievement/port/out"
	storedomain "studysprint/internal/modules/store/domain"
	storein "studysprint/internal/modules/store/port/in"
)

type StoreBridge struct {
	store storein.Usecase
}

var _ achievementout.HistoryStore = StoreBridge{}

func NewStoreBridge(store storein.Usecase) StoreBridge {
	return StoreBridge{store: store}
}

func (b StoreBridge) Snapshot(ctx context.Context) (storedomain.Snapshot, error) {
	return b.store.Snapshot(ctx)
}

func (b StoreBridge) RecordUnlock(ctx context.Context, achievementID string, at time.Time) error {
	return b.store.RecordUnlock(ctx, achievementID, at)
}

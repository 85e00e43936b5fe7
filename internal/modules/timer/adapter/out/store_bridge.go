package out

import (
	"context"

	storedomain "studysprint/internal/modules/store/domain"
	storein "studysprint/internal/modules/store/port/in"
	timerout "studysprint/internal/modules/timer/port/out"
)

// StoreBridge feeds the timer from the session store.
type StoreBridge struct {
	store storein.Usecase
}

var (
	_ timerout.SessionSink  = StoreBridge{}
	_ timerout.ConfigSource = StoreBridge{}
)

func NewStoreBridge(store storein.Usecase) StoreBridge {
	return StoreBridge{store: store}
}

func (b StoreBridge) AppendSession(ctx context.Context, session storedomain.StudySession) error {
	return b.store.AppendSession(ctx, session)
}

func (b StoreBridge) Snapshot(ctx context.Context) (storedomain.Snapshot, error) {
	return b.store.Snapshot(ctx)
}

package out

import (
	"context"

	"studysprint/internal/modules/store/domain"
)

// SnapshotRepository is the durable layer behind the store. Load returns
// apperrors.ErrNotFound when nothing has been written yet.
type SnapshotRepository interface {
	Load(ctx context.Context) (domain.Snapshot, error)
	Save(ctx context.Context, snapshot domain.Snapshot) error
}

type NoteWriter interface {
	Write(ctx context.Context, dir string, note domain.SessionNote) (string, error)
}

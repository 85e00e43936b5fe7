package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"studysprint/internal/modules/store/domain"
	storeout "studysprint/internal/modules/store/port/out"
	apperrors "studysprint/internal/platform/errors"
)

// JSONSnapshotRepository keeps the whole document in one JSON file and
// replaces it atomically on every save.
type JSONSnapshotRepository struct {
	path string
}

func NewJSONSnapshotRepository(path string) storeout.SnapshotRepository {
	return &JSONSnapshotRepository{path: path}
}

func (r *JSONSnapshotRepository) Load(_ context.Context) (domain.Snapshot, error) {
	payload, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{}, apperrors.ErrNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	snapshot := domain.Snapshot{}
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}

func (r *JSONSnapshotRepository) Save(_ context.Context, snapshot domain.Snapshot) error {
	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, r.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

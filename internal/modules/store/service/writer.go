package service

import (
	"context"
	"log/slog"
	"sync"

	"studysprint/internal/modules/store/domain"
	storeout "studysprint/internal/modules/store/port/out"
)

// snapshotWriter persists snapshots on a single goroutine. Only the newest
// pending snapshot is written; older ones are superseded before they hit disk.
// Failures are logged and dropped.
type snapshotWriter struct {
	repo   storeout.SnapshotRepository
	logger *slog.Logger

	mu      sync.Mutex
	pending *domain.Snapshot
	closed  bool

	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

func newSnapshotWriter(repo storeout.SnapshotRepository, logger *slog.Logger) *snapshotWriter {
	w := &snapshotWriter{
		repo:    repo,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *snapshotWriter) schedule(snapshot domain.Snapshot) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("snapshot write requested after close", slog.Int("sessions", len(snapshot.Sessions)))
		return
	}
	w.pending = &snapshot
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *snapshotWriter) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.flush()
		case <-w.done:
			w.flush()
			return
		}
	}
}

func (w *snapshotWriter) flush() {
	w.mu.Lock()
	snapshot := w.pending
	w.pending = nil
	w.mu.Unlock()
	if snapshot == nil {
		return
	}
	if err := w.repo.Save(context.Background(), *snapshot); err != nil {
		w.logger.Error("persist snapshot", slog.Any("error", err))
		return
	}
	w.logger.Debug("snapshot persisted", slog.Int("sessions", len(snapshot.Sessions)), slog.Int("tags", len(snapshot.Tags)))
}

// close writes whatever is still pending and stops the goroutine.
func (w *snapshotWriter) close() {
	w.once.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.done)
	})
	<-w.stopped
}

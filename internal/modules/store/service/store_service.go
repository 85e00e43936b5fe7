package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"studysprint/internal/modules/store/domain"
	storeout "studysprint/internal/modules/store/port/out"
	apperrors "studysprint/internal/platform/errors"
	"studysprint/internal/platform/id"
)

const (
	newTagIcon  = "book.fill"
	newTagColor = "6C5CE7"
)

// StoreService owns the authoritative in-memory snapshot. Every mutation hands
// a copy to the background writer.
type StoreService struct {
	idGen  id.Generator
	notes  storeout.NoteWriter
	logger *slog.Logger
	writer *snapshotWriter

	mu    sync.Mutex
	state domain.Snapshot
}

// NewStoreService loads the persisted document. A missing or unreadable
// document is replaced with defaults; the caller never sees that as an error.
func NewStoreService(ctx context.Context, repo storeout.SnapshotRepository, notes storeout.NoteWriter, idGen id.Generator, logger *slog.Logger) *StoreService {
	state, err := repo.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Info("no snapshot found, bootstrapping defaults")
		state = domain.Bootstrap(idGen.New())
	default:
		logger.Warn("unreadable snapshot, bootstrapping defaults", slog.Any("error", err))
		state = domain.Bootstrap(idGen.New())
	}
	return &StoreService{
		idGen:  idGen,
		notes:  notes,
		logger: logger,
		writer: newSnapshotWriter(repo, logger),
		state:  domain.Normalize(state, idGen.New),
	}
}

func (s *StoreService) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// mutate applies fn under the lock and schedules the resulting state. The
// schedule happens inside the lock so the writer always receives snapshots in
// mutation order.
func (s *StoreService) mutate(fn func(state *domain.Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.state); err != nil {
		return err
	}
	s.writer.schedule(s.state.Clone())
	return nil
}

func (s *StoreService) AppendSession(session domain.StudySession) (domain.StudySession, error) {
	if session.FocusDurationSec < 0 || session.BreakDurationSec < 0 {
		return domain.StudySession{}, fmt.Errorf("%w: session durations must be non-negative", apperrors.ErrInvalidInput)
	}
	session = session.Clone()
	if session.ID == "" {
		session.ID = s.idGen.New()
	}
	if session.PhaseCompleted == "" {
		session.PhaseCompleted = domain.PhaseFocus
	}
	err := s.mutate(func(state *domain.Snapshot) error {
		state.Sessions = append(state.Sessions, session)
		return nil
	})
	if err != nil {
		return domain.StudySession{}, err
	}
	s.logger.Info("session recorded", slog.String("session_id", session.ID), slog.String("tag_id", session.TagID))
	return session, nil
}

// RecordUnlock stores the first unlock time for achievementID. Later calls for
// the same id are ignored and report false.
func (s *StoreService) RecordUnlock(achievementID string, at time.Time) (bool, error) {
	if achievementID == "" {
		return false, fmt.Errorf("%w: achievement id is required", apperrors.ErrInvalidInput)
	}
	recorded := false
	err := s.mutate(func(state *domain.Snapshot) error {
		if _, ok := state.Unlock(achievementID); ok {
			return errUnchanged
		}
		state.Unlocks = append(state.Unlocks, domain.AchievementUnlock{ID: achievementID, UnlockedAt: at})
		recorded = true
		return nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		return false, err
	}
	if recorded {
		s.logger.Info("achievement unlocked", slog.String("achievement", achievementID), slog.Time("at", at))
	}
	return recorded, nil
}

func (s *StoreService) ReplaceAll(snapshot domain.Snapshot) error {
	normalized := domain.Normalize(snapshot, s.idGen.New)
	return s.mutate(func(state *domain.Snapshot) error {
		*state = normalized
		return nil
	})
}

// Sessions returns history newest first, optionally restricted to one tag.
func (s *StoreService) Sessions(tagID string) []domain.StudySession {
	snap := s.Snapshot()
	out := make([]domain.StudySession, 0, len(snap.Sessions))
	for _, session := range snap.Sessions {
		if tagID != "" && session.TagID != tagID {
			continue
		}
		out = append(out, session)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out
}

// ClearSessions drops all history. Unlock records are kept.
func (s *StoreService) ClearSessions() int {
	removed := 0
	_ = s.mutate(func(state *domain.Snapshot) error {
		removed = len(state.Sessions)
		state.Sessions = []domain.StudySession{}
		return nil
	})
	s.logger.Info("session history cleared", slog.Int("removed", removed))
	return removed
}

// AddTag assigns an id; the first tag of an empty list becomes the default.
func (s *StoreService) AddTag(tag domain.Tag) domain.Tag {
	tag = tag.Clone()
	tag.ID = s.idGen.New()
	if tag.Icon == "" {
		tag.Icon = newTagIcon
	}
	if tag.ColorHex == "" {
		tag.ColorHex = newTagColor
	}
	_ = s.mutate(func(state *domain.Snapshot) error {
		tag.IsDefault = len(state.Tags) == 0
		state.Tags = append(state.Tags, tag)
		return nil
	})
	return tag.Clone()
}

func (s *StoreService) SetTagDurations(tagID string, focusSec, breakSec *int) (domain.Tag, error) {
	var updated domain.Tag
	err := s.mutate(func(state *domain.Snapshot) error {
		idx := indexOfTag(state.Tags, tagID)
		if idx < 0 {
			return fmt.Errorf("tag %s: %w", tagID, apperrors.ErrNotFound)
		}
		tag := state.Tags[idx]
		tag.PreferredFocusSec = copyInt(focusSec)
		tag.PreferredBreakSec = copyInt(breakSec)
		state.Tags[idx] = tag
		updated = tag.Clone()
		return nil
	})
	return updated, err
}

// DeleteTag removes the tag. Sessions keep their dangling reference; if the
// default went away the first remaining tag takes over.
func (s *StoreService) DeleteTag(tagID string) error {
	return s.mutate(func(state *domain.Snapshot) error {
		idx := indexOfTag(state.Tags, tagID)
		if idx < 0 {
			return fmt.Errorf("tag %s: %w", tagID, apperrors.ErrNotFound)
		}
		state.Tags = append(state.Tags[:idx:idx], state.Tags[idx+1:]...)
		if _, ok := state.DefaultTag(); !ok && len(state.Tags) > 0 {
			state.Tags[0].IsDefault = true
		}
		return nil
	})
}

func (s *StoreService) SetDefaultTag(tagID string) (domain.Tag, error) {
	var updated domain.Tag
	err := s.mutate(func(state *domain.Snapshot) error {
		idx := indexOfTag(state.Tags, tagID)
		if idx < 0 {
			return fmt.Errorf("tag %s: %w", tagID, apperrors.ErrNotFound)
		}
		for i := range state.Tags {
			state.Tags[i].IsDefault = i == idx
		}
		updated = state.Tags[idx].Clone()
		return nil
	})
	return updated, err
}

func (s *StoreService) UpdateSettings(apply func(domain.AppSettings) domain.AppSettings) domain.AppSettings {
	var out domain.AppSettings
	_ = s.mutate(func(state *domain.Snapshot) error {
		state.Settings = apply(state.Settings)
		out = state.Settings
		return nil
	})
	return out
}

func (s *StoreService) UpdateProfile(apply func(domain.UserProfile) domain.UserProfile) domain.UserProfile {
	var out domain.UserProfile
	_ = s.mutate(func(state *domain.Snapshot) error {
		state.Profile = apply(state.Profile)
		out = state.Profile
		return nil
	})
	return out
}

// ExportNotes writes one markdown note per session into dir.
func (s *StoreService) ExportNotes(ctx context.Context, dir string) ([]string, error) {
	if s.notes == nil {
		return nil, fmt.Errorf("note writer is not configured")
	}
	snap := s.Snapshot()
	paths := make([]string, 0, len(snap.Sessions))
	for _, session := range snap.Sessions {
		note := domain.SessionNote{Session: session}
		if tag, ok := snap.TagByID(session.TagID); ok {
			note.TagName = tag.Name
		}
		path, err := s.notes.Write(ctx, dir, note)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// Close flushes the pending snapshot and stops the writer.
func (s *StoreService) Close() {
	s.writer.close()
}

var errUnchanged = errors.New("unchanged")

func indexOfTag(tags []domain.Tag, tagID string) int {
	for i, t := range tags {
		if t.ID == tagID {
			return i
		}
	}
	return -1
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	return domain.Ptr(*p)
}

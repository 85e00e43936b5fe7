package out

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"studysprint/internal/modules/store/domain"
	apperrors "studysprint/internal/platform/errors"
	"studysprint/internal/platform/markdown"
)

func TestJSONSnapshotRepositoryRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	repo := NewJSONSnapshotRepository(path)

	if _, err := repo.Load(context.Background()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found before first save, got %v", err)
	}
	snap := domain.Bootstrap("tag-1")
	snap.Sessions = append(snap.Sessions, domain.StudySession{
		ID:                "s1",
		TagID:             "tag-1",
		StartedAt:         time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC),
		FocusDurationSec:  1500,
		BreakDurationSec:  300,
		PhaseCompleted:    domain.PhaseFocus,
		ReflectionFocused: domain.Ptr(true),
	})
	if err := repo.Save(context.Background(), snap); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Sessions) != 1 || !*loaded.Sessions[0].ReflectionFocused || loaded.Tags[0].ID != "tag-1" {
		t.Fatalf("unexpected loaded snapshot %+v", loaded)
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files must not be left behind, got %d entries", len(entries))
	}
}

func TestJSONSnapshotRepositoryMalformed(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := NewJSONSnapshotRepository(path).Load(context.Background())
	if err == nil || errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestVaultNoteWriter(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	note := domain.SessionNote{
		Session: domain.StudySession{
			ID:               "s1",
			TagID:            "math",
			StartedAt:        time.Date(2026, 3, 2, 8, 30, 15, 0, time.UTC),
			FocusDurationSec: 1500,
			BreakDurationSec: 300,
			PhaseCompleted:   domain.PhaseFocus,
		},
		TagName: "Linear Algebra",
	}
	path, err := NewVaultNoteWriter().Write(context.Background(), dir, note)
	if err != nil {
		t.Fatalf("write note: %v", err)
	}
	want := filepath.Join(dir, "sessions", "2026", "03", "02", "083015-linear-algebra.md")
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read note: %v", err)
	}
	var meta NoteMeta
	body, err := markdown.SplitFrontmatter(string(raw), &meta)
	if err != nil {
		t.Fatalf("split frontmatter: %v", err)
	}
	if meta.ID != "s1" || meta.FocusMinutes != 25 || meta.BreakMinutes != 5 || meta.ReflectionFocused != nil {
		t.Fatalf("unexpected frontmatter %+v", meta)
	}
	if !strings.Contains(body, "Not answered.") {
		t.Fatalf("body should mention unanswered reflection: %s", body)
	}
}

package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"studysprint/internal/modules/store/domain"
	storeout "studysprint/internal/modules/store/port/out"
	"studysprint/internal/platform/markdown"
	"studysprint/internal/platform/slug"
)

const noteSchemaVersion = 1

// NoteMeta is the YAML frontmatter of an exported session note.
type NoteMeta struct {
	SchemaVersion     int    `yaml:"schema_version"`
	ID                string `yaml:"id"`
	TagID             string `yaml:"tag_id,omitempty"`
	Tag               string `yaml:"tag"`
	StartedAt         string `yaml:"started_at"`
	FocusMinutes      int    `yaml:"focus_minutes"`
	BreakMinutes      int    `yaml:"break_minutes"`
	PhaseCompleted    string `yaml:"phase_completed"`
	ReflectionFocused *bool  `yaml:"reflection_focused"`
}

type VaultNoteWriter struct{}

func NewVaultNoteWriter() storeout.NoteWriter {
	return VaultNoteWriter{}
}

// Write renders the note to dir/sessions/YYYY/MM/DD/HHMMSS-<tag>.md. Existing
// notes for the same session are overwritten.
func (VaultNoteWriter) Write(_ context.Context, dir string, note domain.SessionNote) (string, error) {
	session := note.Session
	date := session.StartedAt
	target := filepath.Join(dir, "sessions", date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	tagName := note.TagName
	if tagName == "" {
		tagName = "No tag"
	}
	name := fmt.Sprintf("%s-%s.md", date.Format("150405"), slug.Make(tagName, "session"))
	path := filepath.Join(target, name)

	meta := NoteMeta{
		SchemaVersion:     noteSchemaVersion,
		ID:                session.ID,
		TagID:             session.TagID,
		Tag:               tagName,
		StartedAt:         session.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		FocusMinutes:      session.FocusDurationSec / 60,
		BreakMinutes:      session.BreakDurationSec / 60,
		PhaseCompleted:    string(session.PhaseCompleted),
		ReflectionFocused: session.ReflectionFocused,
	}
	body := fmt.Sprintf("# Session %s\n\n- Subject: %s\n- Focus: %d minutes\n- Break: %d minutes\n\n## Reflection\n\n%s\n",
		session.ID, tagName, meta.FocusMinutes, meta.BreakMinutes, reflectionLine(session.ReflectionFocused))
	rendered, err := markdown.RenderFrontmatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}

func reflectionLine(answer *bool) string {
	switch {
	case answer == nil:
		return "Not answered."
	case *answer:
		return "Stayed focused."
	default:
		return "Got distracted."
	}
}

package in

import (
	"context"
	"time"

	"studysprint/internal/modules/store/domain"
	"studysprint/internal/modules/store/dto"
)

// Usecase is the session store contract. Snapshot hands out a deep copy, so
// callers may evaluate it while the store keeps changing.
type Usecase interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
	AppendSession(ctx context.Context, session domain.StudySession) error
	RecordUnlock(ctx context.Context, achievementID string, at time.Time) error
	ReplaceAll(ctx context.Context, snapshot domain.Snapshot) error

	ListSessions(ctx context.Context, input dto.ListSessionsInput) ([]dto.SessionOutput, error)
	ClearSessions(ctx context.Context) (dto.ClearOutput, error)
	ExportNotes(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)

	ListTags(ctx context.Context) ([]dto.TagOutput, error)
	AddTag(ctx context.Context, input dto.AddTagInput) (dto.TagOutput, error)
	SetTagDurations(ctx context.Context, input dto.SetTagDurationsInput) (dto.TagOutput, error)
	DeleteTag(ctx context.Context, tagID string) error
	SetDefaultTag(ctx context.Context, tagID string) (dto.TagOutput, error)

	GetSettings(ctx context.Context) (dto.SettingsOutput, error)
	UpdateSettings(ctx context.Context, input dto.UpdateSettingsInput) (dto.SettingsOutput, error)
	GetProfile(ctx context.Context) (dto.ProfileOutput, error)
	UpdateProfile(ctx context.Context, input dto.UpdateProfileInput) (dto.ProfileOutput, error)
}

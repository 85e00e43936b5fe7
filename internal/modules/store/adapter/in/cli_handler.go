package in

import (
	"context"

	"studysprint/internal/modules/store/dto"
	storein "studysprint/internal/modules/store/port/in"
)

type CLIHandler struct {
	usecase storein.Usecase
}

func NewCLIHandler(usecase storein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) ListSessions(ctx context.Context, tagID string) ([]dto.SessionOutput, error) {
	return h.usecase.ListSessions(ctx, dto.ListSessionsInput{TagID: tagID})
}

func (h CLIHandler) ClearSessions(ctx context.Context) (dto.ClearOutput, error) {
	return h.usecase.ClearSessions(ctx)
}

func (h CLIHandler) ExportNotes(ctx context.Context, dir string) (dto.ExportOutput, error) {
	return h.usecase.ExportNotes(ctx, dto.ExportInput{Dir: dir})
}

func (h CLIHandler) ListTags(ctx context.Context) ([]dto.TagOutput, error) {
	return h.usecase.ListTags(ctx)
}

func (h CLIHandler) AddTag(ctx context.Context, name, icon, color string, focusSec, breakSec *int) (dto.TagOutput, error) {
	return h.usecase.AddTag(ctx, dto.AddTagInput{
		Name:              name,
		Icon:              icon,
		ColorHex:          color,
		PreferredFocusSec: focusSec,
		PreferredBreakSec: breakSec,
	})
}

func (h CLIHandler) SetTagDurations(ctx context.Context, tagID string, focusSec, breakSec *int) (dto.TagOutput, error) {
	return h.usecase.SetTagDurations(ctx, dto.SetTagDurationsInput{TagID: tagID, PreferredFocusSec: focusSec, PreferredBreakSec: breakSec})
}

func (h CLIHandler) DeleteTag(ctx context.Context, tagID string) error {
	return h.usecase.DeleteTag(ctx, tagID)
}

func (h CLIHandler) SetDefaultTag(ctx context.Context, tagID string) (dto.TagOutput, error) {
	return h.usecase.SetDefaultTag(ctx, tagID)
}

func (h CLIHandler) Settings(ctx context.Context) (dto.SettingsOutput, error) {
	return h.usecase.GetSettings(ctx)
}

func (h CLIHandler) UpdateSettings(ctx context.Context, input dto.UpdateSettingsInput) (dto.SettingsOutput, error) {
	return h.usecase.UpdateSettings(ctx, input)
}

func (h CLIHandler) UpdateProfile(ctx context.Context, name, avatar *string) (dto.ProfileOutput, error) {
	return h.usecase.UpdateProfile(ctx, dto.UpdateProfileInput{Name: name, Avatar: avatar})
}

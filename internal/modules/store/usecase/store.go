package usecase

import (
	"context"
	"time"

	"studysprint/internal/modules/store/domain"
	"studysprint/internal/modules/store/dto"
	storein "studysprint/internal/modules/store/port/in"
	"studysprint/internal/modules/store/service"
	"studysprint/internal/platform/validate"
)

type Interactor struct {
	svc      *service.StoreService
	notesDir string
}

// NewInteractor wires the store service. notesDir is the export target used
// when ExportInput leaves Dir empty.
func NewInteractor(svc *service.StoreService, notesDir string) storein.Usecase {
	return &Interactor{svc: svc, notesDir: notesDir}
}

func (i *Interactor) Snapshot(_ context.Context) (domain.Snapshot, error) {
	return i.svc.Snapshot(), nil
}

func (i *Interactor) AppendSession(_ context.Context, session domain.StudySession) error {
	_, err := i.svc.AppendSession(session)
	return err
}

func (i *Interactor) RecordUnlock(_ context.Context, achievementID string, at time.Time) error {
	_, err := i.svc.RecordUnlock(achievementID, at)
	return err
}

func (i *Interactor) ReplaceAll(_ context.Context, snapshot domain.Snapshot) error {
	return i.svc.ReplaceAll(snapshot)
}

func (i *Interactor) ListSessions(_ context.Context, input dto.ListSessionsInput) ([]dto.SessionOutput, error) {
	snap := i.svc.Snapshot()
	sessions := i.svc.Sessions(input.TagID)
	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionOutput(session, snap))
	}
	return out, nil
}

func (i *Interactor) ClearSessions(_ context.Context) (dto.ClearOutput, error) {
	return dto.ClearOutput{Removed: i.svc.ClearSessions()}, nil
}

func (i *Interactor) ExportNotes(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error) {
	dir := input.Dir
	if dir == "" {
		dir = i.notesDir
	}
	paths, err := i.svc.ExportNotes(ctx, dir)
	if err != nil {
		return dto.ExportOutput{}, err
	}
	return dto.ExportOutput{Dir: dir, Written: len(paths), Paths: paths}, nil
}

func (i *Interactor) ListTags(_ context.Context) ([]dto.TagOutput, error) {
	snap := i.svc.Snapshot()
	counts := make(map[string]int, len(snap.Tags))
	for _, session := range snap.Sessions {
		counts[session.TagID]++
	}
	out := make([]dto.TagOutput, 0, len(snap.Tags))
	for _, tag := range snap.Tags {
		item := toTagOutput(tag)
		item.SessionCount = counts[tag.ID]
		out = append(out, item)
	}
	return out, nil
}

func (i *Interactor) AddTag(_ context.Context, input dto.AddTagInput) (dto.TagOutput, error) {
	if err := validate.Struct(input); err != nil {
		return dto.TagOutput{}, err
	}
	tag := i.svc.AddTag(domain.Tag{
		Name:              input.Name,
		Icon:              input.Icon,
		ColorHex:          input.ColorHex,
		PreferredFocusSec: input.PreferredFocusSec,
		PreferredBreakSec: input.PreferredBreakSec,
	})
	return toTagOutput(tag), nil
}

func (i *Interactor) SetTagDurations(_ context.Context, input dto.SetTagDurationsInput) (dto.TagOutput, error) {
	if err := validate.Struct(input); err != nil {
		return dto.TagOutput{}, err
	}
	tag, err := i.svc.SetTagDurations(input.TagID, input.PreferredFocusSec, input.PreferredBreakSec)
	if err != nil {
		return dto.TagOutput{}, err
	}
	return toTagOutput(tag), nil
}

func (i *Interactor) DeleteTag(_ context.Context, tagID string) error {
	return i.svc.DeleteTag(tagID)
}

func (i *Interactor) SetDefaultTag(_ context.Context, tagID string) (dto.TagOutput, error) {
	tag, err := i.svc.SetDefaultTag(tagID)
	if err != nil {
		return dto.TagOutput{}, err
	}
	return toTagOutput(tag), nil
}

func (i *Interactor) GetSettings(_ context.Context) (dto.SettingsOutput, error) {
	return toSettingsOutput(i.svc.Snapshot().Settings), nil
}

func (i *Interactor) UpdateSettings(_ context.Context, input dto.UpdateSettingsInput) (dto.SettingsOutput, error) {
	if err := validate.Struct(input); err != nil {
		return dto.SettingsOutput{}, err
	}
	settings := i.svc.UpdateSettings(func(current domain.AppSettings) domain.AppSettings {
		if input.LanguageCode != nil {
			current.LanguageCode = *input.LanguageCode
		}
		if input.Theme != nil {
			current.Theme = domain.Theme(*input.Theme)
		}
		if input.TextScale != nil {
			current.TextScale = *input.TextScale
		}
		if input.DefaultFocusSec != nil {
			current.DefaultFocusSec = *input.DefaultFocusSec
		}
		if input.DefaultBreakSec != nil {
			current.DefaultBreakSec = *input.DefaultBreakSec
		}
		return current
	})
	return toSettingsOutput(settings), nil
}

func (i *Interactor) GetProfile(_ context.Context) (dto.ProfileOutput, error) {
	profile := i.svc.Snapshot().Profile
	return dto.ProfileOutput{Name: profile.Name, Avatar: profile.Avatar}, nil
}

func (i *Interactor) UpdateProfile(_ context.Context, input dto.UpdateProfileInput) (dto.ProfileOutput, error) {
	profile := i.svc.UpdateProfile(func(current domain.UserProfile) domain.UserProfile {
		if input.Name != nil {
			current.Name = *input.Name
		}
		if input.Avatar != nil {
			current.Avatar = *input.Avatar
		}
		return current
	})
	return dto.ProfileOutput{Name: profile.Name, Avatar: profile.Avatar}, nil
}

func toTagOutput(tag domain.Tag) dto.TagOutput {
	return dto.TagOutput{
		ID:                tag.ID,
		Name:              tag.Name,
		Icon:              tag.Icon,
		ColorHex:          tag.ColorHex,
		IsDefault:         tag.IsDefault,
		PreferredFocusSec: tag.PreferredFocusSec,
		PreferredBreakSec: tag.PreferredBreakSec,
	}
}

func toSessionOutput(session domain.StudySession, snap domain.Snapshot) dto.SessionOutput {
	tagName := "No tag"
	if tag, ok := snap.TagByID(session.TagID); ok {
		tagName = tag.Name
	}
	return dto.SessionOutput{
		ID:                session.ID,
		TagID:             session.TagID,
		TagName:           tagName,
		StartedAt:         session.StartedAt,
		FocusDurationSec:  session.FocusDurationSec,
		BreakDurationSec:  session.BreakDurationSec,
		PhaseCompleted:    string(session.PhaseCompleted),
		ReflectionFocused: session.ReflectionFocused,
	}
}

func toSettingsOutput(settings domain.AppSettings) dto.SettingsOutput {
	return dto.SettingsOutput{
		LanguageCode:    settings.LanguageCode,
		Theme:           string(settings.Theme),
		TextScale:       settings.TextScale,
		DefaultFocusSec: settings.DefaultFocusSec,
		DefaultBreakSec: settings.DefaultBreakSec,
	}
}

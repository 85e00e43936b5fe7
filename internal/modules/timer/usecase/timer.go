package usecase

import (
	"context"

	storedomain "studysprint/internal/modules/store/domain"
	"studysprint/internal/modules/timer/domain"
	"studysprint/internal/modules/timer/dto"
	timerin "studysprint/internal/modules/timer/port/in"
	"studysprint/internal/modules/timer/service"
	"studysprint/internal/platform/validate"
)

type Interactor struct {
	svc *service.TimerService
}

func NewInteractor(svc *service.TimerService) timerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) State(_ context.Context) (dto.StateOutput, error) {
	return toStateOutput(i.svc.State()), nil
}

func (i *Interactor) Tick(_ context.Context) (dto.TickOutput, error) {
	ev := i.svc.Tick()
	return dto.TickOutput{
		State:          toStateOutput(i.svc.State()),
		FocusCompleted: ev == domain.EventFocusCompleted,
		BreakCompleted: ev == domain.EventBreakCompleted,
	}, nil
}

func (i *Interactor) ToggleRunning(_ context.Context) (dto.StateOutput, error) {
	return toStateOutput(i.svc.ToggleRunning()), nil
}

func (i *Interactor) ResetPhase(_ context.Context, input dto.ResetInput) (dto.StateOutput, error) {
	if err := validate.Struct(input); err != nil {
		return dto.StateOutput{}, err
	}
	state, err := i.svc.ResetPhase(storedomain.SessionPhase(input.Phase))
	if err != nil {
		return dto.StateOutput{}, err
	}
	return toStateOutput(state), nil
}

func (i *Interactor) SelectTag(_ context.Context, tagID string) (dto.StateOutput, error) {
	return toStateOutput(i.svc.SelectTag(tagID)), nil
}

func (i *Interactor) SubmitReflection(ctx context.Context, input dto.ReflectionInput) (dto.ReflectionOutput, error) {
	session, err := i.svc.SubmitReflection(ctx, input.Focused)
	if err != nil {
		return dto.ReflectionOutput{}, err
	}
	return dto.ReflectionOutput{SessionID: session.ID, TagID: session.TagID, State: toStateOutput(i.svc.State())}, nil
}

func (i *Interactor) Reload(ctx context.Context) (dto.StateOutput, error) {
	state, err := i.svc.Reload(ctx)
	if err != nil {
		return dto.StateOutput{}, err
	}
	return toStateOutput(state), nil
}

func (i *Interactor) Tags(_ context.Context) ([]dto.TagOption, error) {
	tags := i.svc.Tags()
	out := make([]dto.TagOption, 0, len(tags))
	for _, tag := range tags {
		out = append(out, dto.TagOption{ID: tag.ID, Name: tag.Name, IsDefault: tag.IsDefault})
	}
	return out, nil
}

func toStateOutput(state domain.State) dto.StateOutput {
	return dto.StateOutput{
		Phase:         string(state.Phase),
		Clock:         domain.FormatClock(state.Remaining),
		RemainingSec:  state.Remaining,
		TotalSec:      state.Total,
		Running:       state.Running,
		ActiveTagID:   state.ActiveTagID,
		ActiveTagName: state.ActiveTagName,
		Progress:      state.Progress,
	}
}

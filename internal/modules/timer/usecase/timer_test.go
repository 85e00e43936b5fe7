package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	storeadapter "studysprint/internal/modules/store/adapter/out"
	storedomain "studysprint/internal/modules/store/domain"
	storedto "studysprint/internal/modules/store/dto"
	storeservice "studysprint/internal/modules/store/service"
	storeusecase "studysprint/internal/modules/store/usecase"
	timerout "studysprint/internal/modules/timer/adapter/out"
	"studysprint/internal/modules/timer/dto"
	"studysprint/internal/modules/timer/service"
	"studysprint/internal/modules/timer/usecase"
	apperrors "studysprint/internal/platform/errors"
	"studysprint/internal/platform/logging"
)

type fakeClock struct {
	values []time.Time
	idx    int
}

func (f *fakeClock) Now() time.Time {
	if f.idx >= len(f.values) {
		return f.values[len(f.values)-1]
	}
	v := f.values[f.idx]
	f.idx++
	return v
}

type fakeID struct{ n int }

func (f *fakeID) New() string {
	f.n++
	return fmt.Sprintf("id-%d", f.n)
}

type failingSink struct{}

func (failingSink) AppendSession(context.Context, storedomain.StudySession) error {
	return errors.New("disk full")
}

func newStore(t *testing.T) (*storeservice.StoreService, func()) {
	t.Helper()
	repo := storeadapter.NewJSONSnapshotRepository(filepath.Join(t.TempDir(), "state.json"))
	svc := storeservice.NewStoreService(context.Background(), repo, nil, &fakeID{}, logging.Discard())
	return svc, svc.Close
}

func TestFocusReflectionBreakCycleAppendsOneSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storeSvc, closeStore := newStore(t)
	defer closeStore()
	store := storeusecase.NewInteractor(storeSvc, "")
	if _, err := store.UpdateSettings(ctx, storedto.UpdateSettingsInput{DefaultFocusSec: storedomain.Ptr(2), DefaultBreakSec: storedomain.Ptr(1)}); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	bridge := timerout.NewStoreBridge(store)
	started := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	svc, err := service.NewTimerService(ctx, &fakeClock{values: []time.Time{started}}, &fakeID{n: 5}, bridge, bridge, logging.Discard())
	if err != nil {
		t.Fatalf("new timer service: %v", err)
	}
	uc := usecase.NewInteractor(svc)

	state, _ := uc.State(ctx)
	if state.Clock != "00:02" || state.Phase != "focus" || state.Running {
		t.Fatalf("unexpected initial state %+v", state)
	}
	if _, err := uc.SubmitReflection(ctx, dto.ReflectionInput{Focused: true}); !errors.Is(err, apperrors.ErrInvalidState) {
		t.Fatalf("expected invalid state before focus completes, got %v", err)
	}

	if _, err := uc.ToggleRunning(ctx); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if tick, _ := uc.Tick(ctx); tick.FocusCompleted {
		t.Fatalf("focus should not complete after one tick")
	}
	tick, _ := uc.Tick(ctx)
	if !tick.FocusCompleted || tick.State.Phase != "awaiting_reflection" {
		t.Fatalf("expected focus completion, got %+v", tick)
	}

	out, err := uc.SubmitReflection(ctx, dto.ReflectionInput{Focused: true})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if out.State.Phase != "break" || !out.State.Running || out.SessionID != "id-6" {
		t.Fatalf("unexpected reflection output %+v", out)
	}
	snap, _ := store.Snapshot(ctx)
	if len(snap.Sessions) != 1 {
		t.Fatalf("expected exactly one session, got %d", len(snap.Sessions))
	}
	session := snap.Sessions[0]
	if session.TagID != out.TagID || !session.StartedAt.Equal(started) || session.FocusDurationSec != 2 || session.BreakDurationSec != 1 {
		t.Fatalf("unexpected stored session %+v", session)
	}
	if tag, ok := snap.DefaultTag(); !ok || tag.ID != session.TagID {
		t.Fatalf("session should reference the default tag")
	}

	tick, _ = uc.Tick(ctx)
	if !tick.BreakCompleted || tick.State.Phase != "focus" || tick.State.Running {
		t.Fatalf("expected paused focus after break, got %+v", tick)
	}
}

func TestReloadPicksUpTagEdits(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storeSvc, closeStore := newStore(t)
	defer closeStore()
	store := storeusecase.NewInteractor(storeSvc, "")
	bridge := timerout.NewStoreBridge(store)
	svc, err := service.NewTimerService(ctx, &fakeClock{values: []time.Time{time.Now()}}, &fakeID{}, bridge, bridge, logging.Discard())
	if err != nil {
		t.Fatalf("new timer service: %v", err)
	}
	uc := usecase.NewInteractor(svc)

	math, err := store.AddTag(ctx, storedto.AddTagInput{Name: "Math", PreferredFocusSec: storedomain.Ptr(90)})
	if err != nil {
		t.Fatalf("add tag: %v", err)
	}
	if _, err := uc.Reload(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	tags, _ := uc.Tags(ctx)
	if len(tags) != 2 {
		t.Fatalf("expected reloaded tags, got %+v", tags)
	}
	state, _ := uc.SelectTag(ctx, math.ID)
	if state.TotalSec != 90 || state.ActiveTagName != "Math" {
		t.Fatalf("expected math override, got %+v", state)
	}
	state, err = uc.ResetPhase(ctx, dto.ResetInput{Phase: "break"})
	if err != nil || state.TotalSec != storedomain.DefaultBreakSec {
		t.Fatalf("expected default break, got %+v err=%v", state, err)
	}
	if _, err := uc.ResetPhase(ctx, dto.ResetInput{Phase: "nap"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestSinkFailureIsReported(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storeSvc, closeStore := newStore(t)
	defer closeStore()
	store := storeusecase.NewInteractor(storeSvc, "")
	if _, err := store.UpdateSettings(ctx, storedto.UpdateSettingsInput{DefaultFocusSec: storedomain.Ptr(1)}); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	svc, err := service.NewTimerService(ctx, &fakeClock{values: []time.Time{time.Now()}}, &fakeID{}, failingSink{}, timerout.NewStoreBridge(store), logging.Discard())
	if err != nil {
		t.Fatalf("new timer service: %v", err)
	}
	svc.ToggleRunning()
	svc.Tick()
	if _, err := svc.SubmitReflection(ctx, false); err == nil {
		t.Fatalf("expected sink failure to be returned")
	}
	if svc.State().Phase != "break" {
		t.Fatalf("break should have started regardless")
	}
}

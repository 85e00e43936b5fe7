package service

import (
	"context"
	"fmt"
	"log/slog"

	storedomain "studysprint/internal/modules/store/domain"
	"studysprint/internal/modules/timer/domain"
	timerout "studysprint/internal/modules/timer/port/out"
	"studysprint/internal/platform/clock"
	"studysprint/internal/platform/id"
)

// TimerService owns one Timer. Callers drive it from a single loop.
type TimerService struct {
	clock  clock.Clock
	idGen  id.Generator
	sink   timerout.SessionSink
	source timerout.ConfigSource
	logger *slog.Logger

	timer *domain.Timer
}

func NewTimerService(ctx context.Context, clock clock.Clock, idGen id.Generator, sink timerout.SessionSink, source timerout.ConfigSource, logger *slog.Logger) (*TimerService, error) {
	snap, err := source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load timer config: %w", err)
	}
	return &TimerService{
		clock:  clock,
		idGen:  idGen,
		sink:   sink,
		source: source,
		logger: logger,
		timer:  domain.NewTimer(snap.Tags, snap.Settings, ""),
	}, nil
}

func (s *TimerService) State() domain.State {
	return s.timer.State()
}

func (s *TimerService) Tags() []storedomain.Tag {
	return s.timer.Tags()
}

func (s *TimerService) Tick() domain.Event {
	ev := s.timer.Tick()
	switch ev {
	case domain.EventFocusCompleted:
		s.logger.Debug("focus phase completed", slog.String("tag_id", s.timer.State().ActiveTagID))
	case domain.EventBreakCompleted:
		s.logger.Debug("break phase completed")
	}
	return ev
}

func (s *TimerService) ToggleRunning() domain.State {
	s.timer.ToggleRunning()
	return s.timer.State()
}

func (s *TimerService) ResetPhase(phase storedomain.SessionPhase) (domain.State, error) {
	if err := s.timer.ResetPhase(phase); err != nil {
		return domain.State{}, err
	}
	s.logger.Debug("phase reset", slog.String("phase", string(phase)))
	return s.timer.State(), nil
}

func (s *TimerService) SelectTag(tagID string) domain.State {
	s.timer.SelectTag(tagID)
	return s.timer.State()
}

// SubmitReflection closes the pending focus phase and appends the resulting
// session. The break has already started when the append fails.
func (s *TimerService) SubmitReflection(ctx context.Context, answer bool) (storedomain.StudySession, error) {
	session, err := s.timer.SubmitReflection(answer, s.clock.Now(), s.idGen.New())
	if err != nil {
		return storedomain.StudySession{}, err
	}
	if err := s.sink.AppendSession(ctx, session); err != nil {
		return session, fmt.Errorf("append session: %w", err)
	}
	s.logger.Debug("reflection submitted", slog.String("session_id", session.ID), slog.Bool("focused", answer))
	return session, nil
}

// Reload re-reads tags and settings after they were edited elsewhere.
func (s *TimerService) Reload(ctx context.Context) (domain.State, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return domain.State{}, fmt.Errorf("reload timer config: %w", err)
	}
	s.timer.Reconfigure(snap.Tags, snap.Settings)
	return s.timer.State(), nil
}

package domain

import (
	"fmt"
	"time"

	storedomain "studysprint/internal/modules/store/domain"
	apperrors "studysprint/internal/platform/errors"
)

type Phase string

const (
	PhaseFocus              Phase = "focus"
	PhaseAwaitingReflection Phase = "awaiting_reflection"
	PhaseBreak              Phase = "break"
)

// Event reports what a Tick did beyond counting down.
type Event int

const (
	EventNone Event = iota
	EventFocusCompleted
	EventBreakCompleted
)

// State is a read-only view of the timer for rendering.
type State struct {
	Phase         Phase   `json:"phase"`
	Remaining     int     `json:"remaining_sec"`
	Total         int     `json:"total_sec"`
	Running       bool    `json:"running"`
	ActiveTagID   string  `json:"active_tag_id,omitempty"`
	ActiveTagName string  `json:"active_tag_name,omitempty"`
	Progress      float64 `json:"progress"`
}

// Duration resolves the full length of phase in seconds: the tag's preferred
// value when set and positive, else the global default.
func Duration(phase storedomain.SessionPhase, tag *storedomain.Tag, settings storedomain.AppSettings) int {
	switch phase {
	case storedomain.PhaseBreak:
		if tag != nil && tag.PreferredBreakSec != nil && *tag.PreferredBreakSec > 0 {
			return *tag.PreferredBreakSec
		}
		return settings.DefaultBreakSec
	default:
		if tag != nil && tag.PreferredFocusSec != nil && *tag.PreferredFocusSec > 0 {
			return *tag.PreferredFocusSec
		}
		return settings.DefaultFocusSec
	}
}

// Timer is the focus/reflection/break state machine. It is not safe for
// concurrent use; one owner drives it from a single loop.
type Timer struct {
	tags          []storedomain.Tag
	settings      storedomain.AppSettings
	selectedTagID string

	phase     Phase
	remaining int
	running   bool
}

// NewTimer starts paused in Focus with the full focus duration of the active
// tag. An empty selectedTagID follows the default tag.
func NewTimer(tags []storedomain.Tag, settings storedomain.AppSettings, selectedTagID string) *Timer {
	t := &Timer{
		tags:          cloneTags(tags),
		settings:      settings,
		selectedTagID: selectedTagID,
		phase:         PhaseFocus,
	}
	t.remaining = t.total()
	return t
}

// Tick advances a running countdown by one second.
func (t *Timer) Tick() Event {
	if !t.running || t.remaining <= 0 {
		return EventNone
	}
	t.remaining--
	if t.remaining > 0 {
		return EventNone
	}
	return t.completePhase()
}

func (t *Timer) completePhase() Event {
	switch t.phase {
	case PhaseFocus:
		t.phase = PhaseAwaitingReflection
		t.running = false
		return EventFocusCompleted
	case PhaseBreak:
		t.phase = PhaseFocus
		t.remaining = t.total()
		t.running = false
		return EventBreakCompleted
	default:
		return EventNone
	}
}

// SubmitReflection records the answer to the post-focus prompt and starts the
// break. It is rejected in any phase other than AwaitingReflection.
func (t *Timer) SubmitReflection(answer bool, now time.Time, sessionID string) (storedomain.StudySession, error) {
	if t.phase != PhaseAwaitingReflection {
		return storedomain.StudySession{}, fmt.Errorf("%w: reflection is only accepted after a focus phase, timer is in %s", apperrors.ErrInvalidState, t.phase)
	}
	tag := t.ActiveTag()
	session := storedomain.StudySession{
		ID:                sessionID,
		StartedAt:         now,
		FocusDurationSec:  Duration(storedomain.PhaseFocus, tag, t.settings),
		BreakDurationSec:  Duration(storedomain.PhaseBreak, tag, t.settings),
		PhaseCompleted:    storedomain.PhaseFocus,
		ReflectionFocused: storedomain.Ptr(answer),
	}
	if tag != nil {
		session.TagID = tag.ID
	}
	t.phase = PhaseBreak
	t.remaining = session.BreakDurationSec
	t.running = true
	return session, nil
}

// ToggleRunning flips between running and paused. It does nothing while the
// reflection prompt is pending.
func (t *Timer) ToggleRunning() {
	if t.phase == PhaseAwaitingReflection {
		return
	}
	t.running = !t.running
}

// ResetPhase switches to phase with its full duration, paused.
func (t *Timer) ResetPhase(phase storedomain.SessionPhase) error {
	if t.phase == PhaseAwaitingReflection {
		return fmt.Errorf("%w: answer the reflection before resetting", apperrors.ErrInvalidState)
	}
	switch phase {
	case storedomain.PhaseFocus:
		t.phase = PhaseFocus
	case storedomain.PhaseBreak:
		t.phase = PhaseBreak
	default:
		return fmt.Errorf("%w: unknown phase %q", apperrors.ErrInvalidInput, phase)
	}
	t.remaining = t.total()
	t.running = false
	return nil
}

// SelectTag changes the subject. Outside AwaitingReflection the current phase
// restarts from its freshly resolved duration.
func (t *Timer) SelectTag(tagID string) {
	t.selectedTagID = tagID
	t.reapply()
}

// Reconfigure swaps in edited tags or settings. The current phase restarts
// only when the active tag or its resolved duration changed, so unrelated
// edits leave a running countdown alone.
func (t *Timer) Reconfigure(tags []storedomain.Tag, settings storedomain.AppSettings) {
	beforeTag, beforeTotal := t.activeTagID(), t.total()
	t.tags = cloneTags(tags)
	t.settings = settings
	if t.activeTagID() != beforeTag || t.total() != beforeTotal {
		t.reapply()
	}
}

func (t *Timer) activeTagID() string {
	if tag := t.ActiveTag(); tag != nil {
		return tag.ID
	}
	return ""
}

func (t *Timer) reapply() {
	if t.phase == PhaseAwaitingReflection {
		return
	}
	t.remaining = t.total()
}

// ActiveTag is the selected tag when it still exists, else the default tag.
// It returns nil when neither resolves.
func (t *Timer) ActiveTag() *storedomain.Tag {
	if tag, ok := storedomain.FindTag(t.tags, t.selectedTagID); ok {
		return &tag
	}
	if tag, ok := storedomain.FindDefaultTag(t.tags); ok {
		return &tag
	}
	return nil
}

func (t *Timer) Tags() []storedomain.Tag { return cloneTags(t.tags) }

func (t *Timer) State() State {
	total := t.total()
	state := State{
		Phase:     t.phase,
		Remaining: t.remaining,
		Total:     total,
		Running:   t.running,
	}
	if tag := t.ActiveTag(); tag != nil {
		state.ActiveTagID = tag.ID
		state.ActiveTagName = tag.Name
	}
	if total > 0 {
		state.Progress = 1 - float64(t.remaining)/float64(total)
	}
	return state
}

// total is the full duration of the current countdown. AwaitingReflection
// still reports the focus duration it just finished.
func (t *Timer) total() int {
	phase := storedomain.PhaseFocus
	if t.phase == PhaseBreak {
		phase = storedomain.PhaseBreak
	}
	return Duration(phase, t.ActiveTag(), t.settings)
}

func cloneTags(tags []storedomain.Tag) []storedomain.Tag {
	out := make([]storedomain.Tag, len(tags))
	for i, tag := range tags {
		out[i] = tag.Clone()
	}
	return out
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

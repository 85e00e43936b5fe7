package timer

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	timerdto "studysprint/internal/modules/timer/dto"
	"studysprint/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TimerPort interface {
	State(ctx context.Context) (timerdto.StateOutput, error)
	Tick(ctx context.Context) (timerdto.TickOutput, error)
	ToggleRunning(ctx context.Context) (timerdto.StateOutput, error)
	ResetPhase(ctx context.Context, input timerdto.ResetInput) (timerdto.StateOutput, error)
	SelectTag(ctx context.Context, tagID string) (timerdto.StateOutput, error)
	SubmitReflection(ctx context.Context, input timerdto.ReflectionInput) (timerdto.ReflectionOutput, error)
	Reload(ctx context.Context) (timerdto.StateOutput, error)
	Tags(ctx context.Context) ([]timerdto.TagOption, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

// TickMsg is the once-per-second scheduling signal.
type TickMsg struct{}

// FocusCompletedMsg asks the parent to show the reflection prompt.
type FocusCompletedMsg struct{ TagName string }

// SessionRecordedMsg is emitted after a reflection was stored.
type SessionRecordedMsg struct {
	SessionID string
	Err       error
}

const tickInterval = time.Second

// ─── model ───────────────────────────────────────────────────────────────────

// Model drives the timer port synchronously from Update so every transition
// happens on the Bubble Tea loop.
type Model struct {
	port   TimerPort
	state  timerdto.StateOutput
	tags   []timerdto.TagOption
	status string
	width  int
	height int
}

func New(port TimerPort) Model {
	m := Model{port: port}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// HandleTick advances the timer and re-arms the ticker. The parent routes
// TickMsg here regardless of the active tab.
func (m Model) HandleTick() (Model, tea.Cmd) {
	if m.port == nil {
		return m, tickCmd()
	}
	out, err := m.port.Tick(context.Background())
	if err != nil {
		m.status = err.Error()
		return m, tickCmd()
	}
	m.state = out.State
	cmds := []tea.Cmd{tickCmd()}
	if out.FocusCompleted {
		name := m.state.ActiveTagName
		cmds = append(cmds, func() tea.Msg { return FocusCompletedMsg{TagName: name} })
	}
	if out.BreakCompleted {
		m.status = "break over, ready for the next focus"
	}
	return m, tea.Batch(cmds...)
}

// Submit forwards the reflection answer.
func (m Model) Submit(focused bool) (Model, tea.Cmd) {
	if m.port == nil {
		return m, nil
	}
	out, err := m.port.SubmitReflection(context.Background(), timerdto.ReflectionInput{Focused: focused})
	if err == nil {
		m.state = out.State
		m.status = "session saved, break started"
	} else {
		m.status = "reflection: " + err.Error()
		m.refresh()
	}
	id := out.SessionID
	return m, func() tea.Msg { return SessionRecordedMsg{SessionID: id, Err: err} }
}

// Reload picks up edited tags or settings.
func (m *Model) Reload() {
	if m.port == nil {
		return
	}
	if state, err := m.port.Reload(context.Background()); err == nil {
		m.state = state
	}
	m.refresh()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		if m.port == nil {
			return m, nil
		}
		ctx := context.Background()
		switch msg.String() {
		case " ", "space":
			m.state, _ = m.port.ToggleRunning(ctx)
		case "f":
			m.apply(m.port.ResetPhase(ctx, timerdto.ResetInput{Phase: "focus"}))
		case "b":
			m.apply(m.port.ResetPhase(ctx, timerdto.ResetInput{Phase: "break"}))
		case "[":
			m.apply(m.port.SelectTag(ctx, m.cycleTag(-1)))
		case "]":
			m.apply(m.port.SelectTag(ctx, m.cycleTag(1)))
		}
	}
	return m, nil
}

func (m Model) View() string {
	s := m.state
	var sb strings.Builder
	tag := s.ActiveTagName
	if tag == "" {
		tag = "No tag"
	}
	sb.WriteString(theme.Muted.Render("Study session") + "\n")
	sb.WriteString(theme.Title.Render(tag) + "\n\n")
	sb.WriteString(phaseLabel(s.Phase) + "\n\n")
	sb.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(s.Clock) + "\n\n")

	fill := theme.Lavender
	if s.Phase == "break" {
		fill = theme.Green
	}
	barW := m.width / 2
	if barW < 10 {
		barW = 30
	}
	sb.WriteString(theme.Bar(s.Progress, barW, fill) + "\n\n")

	toggle := "space: start"
	if s.Running {
		toggle = "space: pause"
	}
	sb.WriteString(theme.Muted.Render(toggle+"  f: reset focus  b: reset break  [ ]: subject") + "\n")
	if m.status != "" {
		sb.WriteString("\n" + theme.Muted.Render(m.status))
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}

func (m Model) State() timerdto.StateOutput { return m.state }

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) refresh() {
	if m.port == nil {
		return
	}
	ctx := context.Background()
	if state, err := m.port.State(ctx); err == nil {
		m.state = state
	}
	if tags, err := m.port.Tags(ctx); err == nil {
		m.tags = tags
	}
}

func (m *Model) apply(state timerdto.StateOutput, err error) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.state = state
	m.status = ""
}

// cycleTag returns the id of the tag delta steps away from the active one.
func (m Model) cycleTag(delta int) string {
	if len(m.tags) == 0 {
		return ""
	}
	idx := 0
	for i, tag := range m.tags {
		if tag.ID == m.state.ActiveTagID {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(m.tags)) % len(m.tags)
	return m.tags[idx].ID
}

func phaseLabel(phase string) string {
	switch phase {
	case "break":
		return theme.Good.Render("BREAK")
	case "awaiting_reflection":
		return theme.Hot.Render("REFLECTION")
	default:
		return theme.Hot.Render("FOCUS")
	}
}

func (m Model) String() string {
	return fmt.Sprintf("%s %s", m.state.Phase, m.state.Clock)
}

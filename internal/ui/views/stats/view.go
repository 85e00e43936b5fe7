package stats

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdto "studysprint/internal/modules/stats/dto"
	"studysprint/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StatsPort interface {
	Summary(ctx context.Context, input statsdto.SummaryInput) (statsdto.SummaryOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Out statsdto.SummaryOutput
	Err error
}

const chartWidth = 28

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   StatsPort
	out    statsdto.SummaryOutput
	all    []statsdto.TagOutput
	filter string
	err    error
	loaded bool
	width  int
	height int
}

func New(port StatsPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.Load()
}

// Load fetches the summary for the current tag filter.
func (m Model) Load() tea.Cmd {
	filter := m.filter
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		out, err := m.port.Summary(context.Background(), statsdto.SummaryInput{TagID: filter})
		return LoadedMsg{Out: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case LoadedMsg:
		m.loaded = true
		m.err = msg.Err
		if msg.Err == nil {
			m.out = msg.Out
			if msg.Out.TagID == "" {
				m.all = msg.Out.Tags
			}
		}
	case tea.KeyMsg:
		if msg.String() == "t" {
			m.filter = m.nextFilter()
			return m, m.Load()
		}
	}
	return m, nil
}

func (m Model) View() string {
	if !m.loaded {
		return theme.Muted.Render("Loading statistics…")
	}
	if m.err != nil {
		return theme.Bad.Render("stats: " + m.err.Error())
	}
	out := m.out
	var sb strings.Builder

	scope := "All subjects"
	if out.TagID != "" && len(out.Tags) > 0 {
		scope = out.Tags[0].Name
	}
	sb.WriteString(theme.Title.Render("Statistics") + "  " + theme.Muted.Render(scope) + "\n\n")
	sb.WriteString(fmt.Sprintf("%s %d   %s %d min   %s %d%%\n\n",
		theme.Muted.Render("sessions"), out.TotalSessions,
		theme.Muted.Render("focus"), out.FocusMinutes,
		theme.Muted.Render("focus rate"), out.FocusRate))

	sb.WriteString(theme.Title.Render("Last 7 days") + "\n")
	peak := 0
	for _, d := range out.LastSevenDays {
		peak = max(peak, d.Count)
	}
	for _, d := range out.LastSevenDays {
		fraction := 0.0
		if peak > 0 {
			fraction = float64(d.Count) / float64(peak)
		}
		sb.WriteString(fmt.Sprintf("%s %s %d\n", d.Label, theme.Bar(fraction, chartWidth, theme.Lavender), d.Count))
	}

	if len(out.Tags) > 0 {
		sb.WriteString("\n" + theme.Title.Render("By subject") + "\n")
		for _, tag := range out.Tags {
			sb.WriteString(fmt.Sprintf("%-20s %4d sessions %5d min\n", truncate(tag.Name, 20), tag.Sessions, tag.FocusMinutes))
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("t: cycle subject filter"))
	return lipgloss.NewStyle().Padding(1, 2).Render(sb.String())
}

func (m Model) Output() statsdto.SummaryOutput { return m.out }

// ─── private ─────────────────────────────────────────────────────────────────

// nextFilter walks "" -> each tag seen in the unfiltered summary -> "".
// Sessions whose tag no longer resolves cannot be filtered on.
func (m Model) nextFilter() string {
	ids := []string{""}
	for _, tag := range m.all {
		if tag.TagID != "" {
			ids = append(ids, tag.TagID)
		}
	}
	for i, id := range ids {
		if id == m.filter {
			return ids[(i+1)%len(ids)]
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

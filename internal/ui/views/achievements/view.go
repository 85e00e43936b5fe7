package achievements

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	achdto "studysprint/internal/modules/achievement/dto"
	"studysprint/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AchievementPort interface {
	List(ctx context.Context) (achdto.ListOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Out achdto.ListOutput
	Err error
}

// ─── list item ───────────────────────────────────────────────────────────────

type badgeItem struct {
	badge achdto.AchievementOutput
}

func (i badgeItem) Title() string {
	mark := "○"
	if i.badge.Unlocked {
		mark = "●"
	}
	return mark + " " + i.badge.Title
}

func (i badgeItem) Description() string {
	return fmt.Sprintf("%d / %d", i.badge.Current, i.badge.Target)
}

func (i badgeItem) FilterValue() string { return i.badge.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    AchievementPort
	list    list.Model
	detail  viewport.Model
	spinner spinner.Model
	out     achdto.ListOutput
	loading bool
	err     error
	width   int
	height  int
}

func New(port AchievementPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Achievements"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		port:    port,
		list:    l,
		detail:  viewport.New(0, 0),
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Load(), m.spinner.Tick)
}

// Load re-reads badge progress from the port.
func (m Model) Load() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		out, err := m.port.List(context.Background())
		return LoadedMsg{Out: out, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case LoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.out = msg.Out
		items := make([]list.Item, len(msg.Out.Items))
		for i, badge := range msg.Out.Items {
			items[i] = badgeItem{badge: badge}
		}
		cmds = append(cmds, m.list.SetItems(items))
		m.list.Title = fmt.Sprintf("Achievements %d/%d", msg.Out.Unlocked, msg.Out.Total)
		m.detail.SetContent(m.renderDetail())

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
		m.detail.SetContent(m.renderDetail())
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading achievements…")
	}
	if m.err != nil {
		return theme.Bad.Render("achievements: " + m.err.Error())
	}

	listW := m.width / 2
	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Width(max(m.width-listW-2, 0)).
		Height(max(m.height-2, 0)).
		Render(m.detail.View())
	listPane := lipgloss.NewStyle().Width(listW).Height(m.height).Render(m.list.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m Model) Output() achdto.ListOutput { return m.out }

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width / 2
	m.list.SetSize(listW, m.height)
	m.detail.Width = max(m.width-listW-4, 0)
	m.detail.Height = max(m.height-4, 0)
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(badgeItem)
	if !ok {
		return theme.Muted.Render("No achievements")
	}
	b := item.badge
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(b.Title) + "\n")
	sb.WriteString(theme.Muted.Render(b.Description) + "\n\n")

	fraction := 0.0
	if b.Target > 0 {
		fraction = float64(b.Current) / float64(b.Target)
	}
	fill := theme.Lavender
	if b.Unlocked {
		fill = theme.Green
	}
	sb.WriteString(theme.Bar(fraction, 24, fill))
	sb.WriteString(fmt.Sprintf("  %d/%d\n\n", b.Current, b.Target))

	if b.UnlockedAt != nil {
		sb.WriteString(theme.Good.Render("Unlocked ") + b.UnlockedAt.Local().Format("2006-01-02 15:04") + "\n")
	} else {
		sb.WriteString(theme.Muted.Render("Locked") + "\n")
	}

	met := m.out.Metrics
	sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf(
		"sessions %d  day streak %d  session streak %d  subjects %d",
		met.Sessions, met.DayStreak, met.SessionStreak, met.DistinctTags)))
	return sb.String()
}

package tags

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	storedto "studysprint/internal/modules/store/dto"
	"studysprint/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TagPort interface {
	ListTags(ctx context.Context) ([]storedto.TagOutput, error)
	SetDefaultTag(ctx context.Context, tagID string) (storedto.TagOutput, error)
	DeleteTag(ctx context.Context, tagID string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

type LoadedMsg struct {
	Tags []storedto.TagOutput
	Err  error
}

// ChangedMsg tells the parent that tags were edited and dependants should
// reload.
type ChangedMsg struct {
	Status string
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type tagItem struct {
	tag storedto.TagOutput
}

func (i tagItem) Title() string {
	if i.tag.IsDefault {
		return "★ " + i.tag.Name
	}
	return "  " + i.tag.Name
}

func (i tagItem) Description() string {
	return fmt.Sprintf("%d sessions  focus %s  break %s",
		i.tag.SessionCount, minutes(i.tag.PreferredFocusSec), minutes(i.tag.PreferredBreakSec))
}

func (i tagItem) FilterValue() string { return i.tag.Name }

func minutes(sec *int) string {
	if sec == nil {
		return "default"
	}
	return fmt.Sprintf("%dm", *sec/60)
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   TagPort
	list   list.Model
	err    error
	width  int
	height int
}

func New(port TagPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Subjects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return m.Load()
}

func (m Model) Load() tea.Cmd {
	return func() tea.Msg {
		if m.port == nil {
			return LoadedMsg{}
		}
		tags, err := m.port.ListTags(context.Background())
		return LoadedMsg{Tags: tags, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, max(msg.Height-2, 0))
		return m, nil

	case LoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		items := make([]list.Item, len(msg.Tags))
		for i, tag := range msg.Tags {
			items[i] = tagItem{tag: tag}
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch msg.String() {
		case "d":
			return m, m.setDefaultCmd()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	body := m.list.View()
	if m.err != nil {
		body = theme.Bad.Render("tags: "+m.err.Error()) + "\n" + body
	}
	hint := theme.Muted.Render("d: make default  x: delete  /: filter  palette: tag:add, tag:focus, tag:break")
	return lipgloss.JoinVertical(lipgloss.Left, body, hint)
}

// SelectedTagID returns the highlighted tag, if any.
func (m Model) SelectedTagID() (string, bool) {
	if item, ok := m.list.SelectedItem().(tagItem); ok {
		return item.tag.ID, true
	}
	return "", false
}

// Filtering reports whether the filter prompt owns the keyboard.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) setDefaultCmd() tea.Cmd {
	item, ok := m.list.SelectedItem().(tagItem)
	if !ok || m.port == nil {
		return nil
	}
	return func() tea.Msg {
		tag, err := m.port.SetDefaultTag(context.Background(), item.tag.ID)
		return ChangedMsg{Status: "default subject: " + tag.Name, Err: err}
	}
}

func (m Model) deleteCmd() tea.Cmd {
	item, ok := m.list.SelectedItem().(tagItem)
	if !ok || m.port == nil {
		return nil
	}
	return func() tea.Msg {
		err := m.port.DeleteTag(context.Background(), item.tag.ID)
		return ChangedMsg{Status: "deleted subject: " + item.tag.Name, Err: err}
	}
}

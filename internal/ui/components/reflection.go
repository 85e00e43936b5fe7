package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"studysprint/internal/ui/theme"
)

// ReflectionAnsweredMsg carries the answer to the post-focus prompt.
type ReflectionAnsweredMsg struct{ Focused bool }

// Reflection is the modal asked once per finished focus phase. It has no
// dismiss key; only y or n close it.
type Reflection struct {
	visible bool
	tagName string
}

func (r *Reflection) Open(tagName string) {
	r.visible = true
	r.tagName = tagName
}

func (r Reflection) Visible() bool { return r.visible }

func (r Reflection) Update(msg tea.Msg) (Reflection, tea.Cmd) {
	if !r.visible {
		return r, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	switch strings.ToLower(key.String()) {
	case "y":
		r.visible = false
		return r, func() tea.Msg { return ReflectionAnsweredMsg{Focused: true} }
	case "n":
		r.visible = false
		return r, func() tea.Msg { return ReflectionAnsweredMsg{Focused: false} }
	}
	return r, nil
}

func (r Reflection) View() string {
	if !r.visible {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Focus phase complete") + "\n\n")
	if r.tagName != "" {
		sb.WriteString(theme.Muted.Render("Subject: ") + r.tagName + "\n\n")
	}
	sb.WriteString("Did you stay focused?\n\n")
	sb.WriteString(theme.Good.Render("[y] Yes") + "    " + theme.Bad.Render("[n] No"))
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Lavender).
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1, 3).
		Render(sb.String())
}

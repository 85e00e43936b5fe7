package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette is one Catppuccin flavour. Latte backs the light theme setting and
// Mocha the dark one.
type Palette struct {
	Base     lipgloss.Color
	Mantle   lipgloss.Color
	Surface0 lipgloss.Color
	Surface1 lipgloss.Color
	Text     lipgloss.Color
	Subtext0 lipgloss.Color
	Lavender lipgloss.Color
	Sapphire lipgloss.Color
	Green    lipgloss.Color
	Peach    lipgloss.Color
	Red      lipgloss.Color
}

var Mocha = Palette{
	Base:     lipgloss.Color("#1e1e2e"),
	Mantle:   lipgloss.Color("#181825"),
	Surface0: lipgloss.Color("#313244"),
	Surface1: lipgloss.Color("#45475a"),
	Text:     lipgloss.Color("#cdd6f4"),
	Subtext0: lipgloss.Color("#a6adc8"),
	Lavender: lipgloss.Color("#b4befe"),
	Sapphire: lipgloss.Color("#74c7ec"),
	Green:    lipgloss.Color("#a6e3a1"),
	Peach:    lipgloss.Color("#fab387"),
	Red:      lipgloss.Color("#f38ba8"),
}

var Latte = Palette{
	Base:     lipgloss.Color("#eff1f5"),
	Mantle:   lipgloss.Color("#e6e9ef"),
	Surface0: lipgloss.Color("#ccd0da"),
	Surface1: lipgloss.Color("#bcc0cc"),
	Text:     lipgloss.Color("#4c4f69"),
	Subtext0: lipgloss.Color("#6c6f85"),
	Lavender: lipgloss.Color("#7287fd"),
	Sapphire: lipgloss.Color("#209fb5"),
	Green:    lipgloss.Color("#40a02b"),
	Peach:    lipgloss.Color("#fe640b"),
	Red:      lipgloss.Color("#d20f39"),
}

var (
	Base     lipgloss.Color
	Mantle   lipgloss.Color
	Surface0 lipgloss.Color
	Surface1 lipgloss.Color
	Text     lipgloss.Color
	Subtext0 lipgloss.Color
	Lavender lipgloss.Color
	Sapphire lipgloss.Color
	Green    lipgloss.Color
	Peach    lipgloss.Color
	Red      lipgloss.Color

	App        lipgloss.Style
	Pane       lipgloss.Style
	PaneActive lipgloss.Style
	Title      lipgloss.Style
	Muted      lipgloss.Style
	Hot        lipgloss.Style
	Good       lipgloss.Style
	Bad        lipgloss.Style
)

func init() {
	Use(Latte)
}

// ForTheme maps the stored theme setting to a palette.
func ForTheme(name string) Palette {
	if name == "dark" {
		return Mocha
	}
	return Latte
}

// Use swaps the active palette. Styles built from the old palette must be
// rebuilt by their owners.
func Use(p Palette) {
	Base, Mantle, Surface0, Surface1 = p.Base, p.Mantle, p.Surface0, p.Surface1
	Text, Subtext0 = p.Text, p.Subtext0
	Lavender, Sapphire, Green, Peach, Red = p.Lavender, p.Sapphire, p.Green, p.Peach, p.Red

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	PaneActive = Pane.BorderForeground(Lavender)

	Title = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted = lipgloss.NewStyle().Foreground(Subtext0)
	Hot = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Good = lipgloss.NewStyle().Foreground(Green).Bold(true)
	Bad = lipgloss.NewStyle().Foreground(Red)
}

// Bar renders a horizontal progress bar of width cells for a fraction in
// [0, 1].
func Bar(fraction float64, width int, fill lipgloss.Color) string {
	if width < 1 {
		return ""
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	on := lipgloss.NewStyle().Foreground(fill).Render(strings.Repeat("█", filled))
	off := lipgloss.NewStyle().Foreground(Surface1).Render(strings.Repeat("░", width-filled))
	return on + off
}


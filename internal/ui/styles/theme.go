// Package styles holds the color palette of the terminal host.
package styles

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette and pre-built styles.
type Theme struct {
	Primary   lipgloss.Color // title gradient start, playing state
	Secondary lipgloss.Color // title gradient end

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	Success lipgloss.Color // enabled toggles
	Warning lipgloss.Color // attention banner

	styles *Styles
}

// Styles contains pre-built lipgloss styles.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Playing lipgloss.Style
	On      lipgloss.Style
	Off     lipgloss.Style
	Warning lipgloss.Style
}

var defaultTheme = Theme{
	Primary:   lipgloss.Color("#ff4e45"),
	Secondary: lipgloss.Color("#a78bfa"),

	FgBase:   lipgloss.Color("#c0c0c0"),
	FgMuted:  lipgloss.Color("#808080"),
	FgSubtle: lipgloss.Color("#585858"),

	Success: lipgloss.Color("#42b883"),
	Warning: lipgloss.Color("#f1a208"),
}

// T returns the default theme.
func T() *Theme {
	return &defaultTheme
}

// S returns the pre-built styles for this theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	return &Styles{
		Base:   lipgloss.NewStyle().Foreground(t.FgBase),
		Muted:  lipgloss.NewStyle().Foreground(t.FgMuted),
		Subtle: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Playing: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),
		On:  lipgloss.NewStyle().Foreground(t.Success),
		Off: lipgloss.NewStyle().Foreground(t.FgSubtle),
		Warning: lipgloss.NewStyle().
			Foreground(t.Warning).
			Bold(true),
	}
}

// Toggle renders label in the on or off style.
func (t *Theme) Toggle(label string, on bool) string {
	if on {
		return t.S().On.Render(label)
	}
	return t.S().Off.Render(label)
}

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// neutral replaces colors that are not "#rrggbb" hex values.
var neutral = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

// Gradient renders bold text with a horizontal color gradient, one color per
// grapheme cluster, blended in HCL space.
func Gradient(text string, from, to lipgloss.Color) string {
	var clusters []string
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return lipgloss.NewStyle().Bold(true).Foreground(from).Render(text)
	}

	start, end := parseHex(from), parseHex(to)
	last := float64(len(clusters) - 1)

	var b strings.Builder
	for i, cluster := range clusters {
		c := start.BlendHcl(end, float64(i)/last).Clamped()
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex()))
		b.WriteString(style.Render(cluster))
	}
	return b.String()
}

func parseHex(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return neutral
	}
	return col
}

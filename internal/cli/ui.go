package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleReady   = lipgloss.NewStyle().Foreground(colorGreen)
	styleLoading = lipgloss.NewStyle().Foreground(colorYellow)
	styleFailed  = lipgloss.NewStyle().Foreground(colorRed)

	styleMinimap = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim)
	styleImageCell  = lipgloss.NewStyle().Foreground(colorCyan)
	styleCursorCell = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

func keyValue(key, value string) string {
	return styleKey.Render(key) + " " + styleValue.Render(value)
}

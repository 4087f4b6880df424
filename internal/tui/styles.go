package tui

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	ColorNavy   = lipgloss.Color("#1B2A41")
	ColorBlue   = lipgloss.Color("39")
	ColorGray   = lipgloss.Color("244")
	ColorWhite  = lipgloss.Color("255")
	ColorRed    = lipgloss.Color("196")
	ColorOrange = lipgloss.Color("208")
	ColorGreen  = lipgloss.Color("42")
)

// Channel colors match the bench's plot legend.
var channelColors = map[string]lipgloss.Color{
	"Fz": lipgloss.Color("#06D6A0"),
	"Ax": lipgloss.Color("#EF476F"),
	"Ay": lipgloss.Color("#FFD166"),
	"Az": lipgloss.Color("#118AB2"),
}

var (
	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	activeSectionStyle = sectionStyle.
				BorderForeground(ColorBlue)

	chartTitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Italic(true)

	axisStyle  = lipgloss.NewStyle().Foreground(ColorGray)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
)

func channelStyle(name string) lipgloss.Style {
	c, ok := channelColors[name]
	if !ok {
		c = ColorWhite
	}
	return lipgloss.NewStyle().Foreground(c)
}

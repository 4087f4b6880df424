package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// renderBranding renders "ftscope" with a green to light blue gradient
func (m *DashboardModel) renderBranding() string {
	colors := []string{
		"#49E209",
		"#35DD2F",
		"#21D955",
		"#0DD47B",
		"#00D0A1",
		"#00CAC7",
		"#00B4E0",
	}

	var result string
	for i, char := range "ftscope" {
		style := lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(lipgloss.Color(colors[i%len(colors)])).Bold(true)
		result += style.Render(string(char))
	}

	return result
}

// flag renders a labelled on/off indicator on the status line background.
func flag(label string, on bool, onColor lipgloss.Color) string {
	color := ColorGray
	if on {
		color = onColor
	}
	dot := lipgloss.NewStyle().Background(ColorNavy).Foreground(color).Render("●")
	return dot + lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorWhite).Render(" "+label)
}

// renderStatusLine renders the status/help line at the bottom of the screen
func (m *DashboardModel) renderStatusLine() string {
	baseStyle := lipgloss.NewStyle().
		Background(ColorNavy).
		Foreground(ColorWhite)

	w := m.width
	veryNarrow := w < 70
	narrow := w < 100

	snap := m.state.Snapshot()

	// Left: acquisition flags and layout.
	leftParts := []string{
		flag("RUN", snap.Running, ColorGreen),
		flag("REC", snap.Recording, ColorRed),
	}
	if !veryNarrow {
		leftParts = append(leftParts, baseStyle.Render("["+m.stack.String()+"]"))
	}
	leftText := strings.Join(leftParts, baseStyle.Render("  "))

	// Center: pending request or key hints.
	var statusText string
	switch {
	case m.pendingAction != "":
		statusText = fmt.Sprintf("%s %s...", spinnerFrame(), m.pendingAction)
	case veryNarrow:
		statusText = "? • s • x • q"
	case narrow:
		statusText = "?: Help • s: Start • x: Stop • c: Connect • q: Quit"
	default:
		statusText = "?: Help • s: Start • x: Stop • r: Record • c/d: Connect • l/t: Tare • v: View • q: Quit"
	}

	// Right: error, sample count, backend connectivity and branding.
	var rightParts []string
	if m.lastError != "" && time.Since(m.lastErrorAt) < 30*time.Second {
		errStyle := lipgloss.NewStyle().
			Background(ColorNavy).
			Foreground(lipgloss.Color("#FF6666")).
			Faint(true)
		label := "error"
		if m.consecutiveErrors > 1 {
			label = fmt.Sprintf("error x%d", m.consecutiveErrors)
		}
		rightParts = append(rightParts, errStyle.Render(label))
	}
	if !veryNarrow {
		rightParts = append(rightParts, baseStyle.Render(humanize.Comma(m.window.Counter())+" samples"))
	}
	rightParts = append(rightParts, m.connectivityInfo(narrow))
	if w >= 30 {
		rightParts = append(rightParts, m.renderBranding())
	}
	rightText := strings.Join(rightParts, baseStyle.Render("  "))

	leftWidth := lipgloss.Width(leftText) + 2
	rightWidth := lipgloss.Width(rightText) + 2
	if leftWidth+rightWidth >= w {
		return baseStyle.Width(w).Render(leftText)
	}

	centerWidth := w - leftWidth - rightWidth
	if lipgloss.Width(statusText) > centerWidth {
		statusText = ""
	}

	leftPart := baseStyle.Align(lipgloss.Left).Width(leftWidth).Render(leftText)
	centerPart := baseStyle.Align(lipgloss.Center).Width(centerWidth).Render(statusText)
	rightPart := baseStyle.Align(lipgloss.Right).Width(rightWidth).Render(rightText)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPart, centerPart, rightPart)
}

// connectivityInfo renders the device connection dot. Red means
// disconnected or failing, orange means no fresh sample while running.
func (m *DashboardModel) connectivityInfo(narrow bool) string {
	var color lipgloss.Color
	stale := m.state.Running() && time.Since(m.lastTickAt) > 3*m.driver.Interval()
	switch {
	case !m.state.Connected() || !m.lastTickOK:
		color = lipgloss.Color("#FF4444")
	case stale:
		color = lipgloss.Color("#FFAA00")
	default:
		color = lipgloss.Color("#44FF44")
	}
	dot := lipgloss.NewStyle().Background(ColorNavy).Foreground(color).Render("●")

	label := m.backendLabel
	if narrow || label == "" {
		label = "device"
	}
	return dot + lipgloss.NewStyle().Background(ColorNavy).Foreground(ColorWhite).Render(" "+label)
}

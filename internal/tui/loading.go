package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerFrame picks a frame from the wall clock so it animates on re-render.
func spinnerFrame() string {
	return spinnerFrames[time.Now().UnixMilli()/120%int64(len(spinnerFrames))]
}

// renderLoadingPlaceholder renders an animated indicator with text centered
// in the given area.
func renderLoadingPlaceholder(width, height int, text string) string {
	loadingStyle := lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		loadingStyle.Render(spinnerFrame()+" "+text))
}

// waitingText explains why a chart has nothing to draw yet.
func (m *DashboardModel) waitingText() string {
	switch {
	case !m.state.Connected():
		return "Disconnected. Press c to connect"
	case !m.state.Running():
		return "Connected. Press s to start"
	default:
		return "Waiting for samples..."
	}
}

// SpinnerTickMsg triggers a re-render for loading spinners.
type SpinnerTickMsg struct{}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(_ time.Time) tea.Msg {
		return SpinnerTickMsg{}
	})
}

// handleSpinnerTick re-schedules spinner ticks while a control request is
// outstanding.
func (m *DashboardModel) handleSpinnerTick() (tea.Model, tea.Cmd) {
	if m.pendingAction != "" {
		return m, spinnerTick()
	}
	return m, nil
}

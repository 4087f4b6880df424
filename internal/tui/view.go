package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// View renders the dashboard
func (m *DashboardModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Initializing dashboard..."
	}

	// If a modal is on the stack, render it full-screen.
	if modal := m.TopModal(); modal != nil {
		return modal.View(m.width, m.height)
	}

	return m.renderDashboard()
}

// renderDashboard renders the charts grid, the values readout and the
// status line.
func (m *DashboardModel) renderDashboard() string {
	if m.height < 16 || m.width < 60 {
		return "Terminal too small. Resize to at least 60x16."
	}

	const valuesHeight, statusLineHeight = 1, 1
	gridHeight := m.height - valuesHeight - statusLineHeight

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderChartsGrid(m.width, gridHeight),
		lipgloss.NewStyle().Width(m.width).Padding(0, 1).Render(m.renderValues()),
		m.renderStatusLine(),
	)
}

// renderChartsGrid places each chart in the cell assigned by the current
// stacking direction.
func (m *DashboardModel) renderChartsGrid(width, height int) string {
	rects := layoutCharts(m.stack, len(m.charts), width, height)

	// Group cells into rows by y so side-by-side charts join horizontally.
	var rows []string
	var row []string
	rowY := -1
	for _, r := range rects {
		if r.y != rowY && len(row) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
		rowY = r.y
		row = append(row, m.renderChart(m.charts[r.index], r.width, r.height))
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	return lipgloss.NewStyle().MaxHeight(height).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

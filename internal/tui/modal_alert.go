package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// AlertModal shows a message until dismissed.
type AlertModal struct {
	title string
	body  string
}

// NewAlertModal creates an alert with the given title and body.
func NewAlertModal(title, body string) *AlertModal {
	return &AlertModal{title: title, body: body}
}

// serverMessageAlert formats a backend reply the way operators expect it.
func serverMessageAlert(message string) *AlertModal {
	return NewAlertModal("Server", fmt.Sprintf("[SERVER MESSAGE]: %s", message))
}

func (a *AlertModal) ID() string { return "alert:" + a.body }

// Body returns the alert text.
func (a *AlertModal) Body() string { return a.body }

func (a *AlertModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter", "esc", "escape", " ", "q":
			return true, nil
		}
	}
	return false, nil
}

func (a *AlertModal) View(width, height int) string {
	return renderDialog(width, height, a.title, a.body, "Enter/Esc: OK", ColorBlue)
}

// ConfirmModal asks a yes/no question and emits onYes when accepted.
type ConfirmModal struct {
	id       string
	question string
	onYes    tea.Cmd
}

// NewConfirmModal creates a confirmation dialog.
func NewConfirmModal(id, question string, onYes tea.Cmd) *ConfirmModal {
	return &ConfirmModal{id: id, question: question, onYes: onYes}
}

func (c *ConfirmModal) ID() string { return c.id }

func (c *ConfirmModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "y", "Y", "enter":
			return true, c.onYes
		case "n", "N", "esc", "escape", "q":
			return true, nil
		}
	}
	return false, nil
}

func (c *ConfirmModal) View(width, height int) string {
	return renderDialog(width, height, "Confirm", c.question, "y/Enter: Yes | n/Esc: No", ColorOrange)
}

// renderDialog draws a small bordered box centered on screen.
func renderDialog(width, height int, title, body, hint string, accent lipgloss.Color) string {
	boxWidth := min(max(lipgloss.Width(body)+6, 40), max(width-8, 20))

	header := lipgloss.NewStyle().Foreground(accent).Bold(true).Render(title)
	content := lipgloss.NewStyle().Width(boxWidth - 4).Foreground(ColorWhite).Render(body)
	footer := lipgloss.NewStyle().Foreground(ColorGray).Render(hint)

	box := lipgloss.NewStyle().
		Width(boxWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, "", content, "", footer))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

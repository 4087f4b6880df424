package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModal displays key bindings and chart notes in a scrollable viewport.
type HelpModal struct {
	keys     KeyMap
	viewport viewport.Model
}

// NewHelpModal creates the help modal for the given bindings.
func NewHelpModal(keys KeyMap) *HelpModal {
	return &HelpModal{
		keys:     keys,
		viewport: viewport.New(80, 20),
	}
}

func (h *HelpModal) ID() string { return "help" }

func (h *HelpModal) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			h.viewport.ScrollUp(1)
			return false, nil
		case "down", "j":
			h.viewport.ScrollDown(1)
			return false, nil
		case "pgup":
			h.viewport.HalfPageUp()
			return false, nil
		case "pgdown":
			h.viewport.HalfPageDown()
			return false, nil
		case "?", "escape", "esc", "q":
			return true, nil
		}
		var cmd tea.Cmd
		h.viewport, cmd = h.viewport.Update(msg)
		return false, cmd

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				h.viewport.ScrollUp(1)
			case tea.MouseButtonWheelDown:
				h.viewport.ScrollDown(1)
			}
		}
	}
	return false, nil
}

func (h *HelpModal) View(width, height int) string {
	modalWidth := width - 8
	modalHeight := height - 4
	contentWidth := modalWidth - 4
	contentHeight := modalHeight - 4

	h.viewport.Width = contentWidth
	h.viewport.Height = contentHeight
	h.viewport.SetContent(lipgloss.NewStyle().Width(contentWidth).Render(h.content()))

	contentPane := lipgloss.NewStyle().
		Width(contentWidth).
		Height(contentHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(ColorGray).
		Render(h.viewport.View())

	header := lipgloss.NewStyle().
		Width(contentWidth).
		Foreground(ColorBlue).
		Bold(true).
		Render("Help")

	statusBar := lipgloss.NewStyle().
		Foreground(ColorGray).
		Render("up/down/Wheel: Scroll | PgUp/PgDn: Page | ?/ESC: Close")

	modal := lipgloss.JoinVertical(lipgloss.Left, header, contentPane, statusBar)

	finalModal := lipgloss.NewStyle().
		Width(modalWidth).
		Height(modalHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBlue).
		Render(modal)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, finalModal)
}

func (h *HelpModal) content() string {
	sections := []string{"ACQUISITION:", "DEVICE:", "GENERAL:"}

	var b strings.Builder
	b.WriteString("Live force/position dashboard\n\n")
	for i, group := range h.keys.FullHelp() {
		b.WriteString(sections[i])
		b.WriteString("\n")
		for _, binding := range group {
			help := binding.Help()
			fmt.Fprintf(&b, "  %-14s - %s\n", help.Key, help.Desc)
		}
		b.WriteString("\n")
	}

	b.WriteString(`CHARTS:
  Forces         - Fz in N
  Positions      - Ax/Ay/Az encoder positions in mm
  Mixed          - all channels on one axis
  Each chart shows the most recent samples and scrolls once the
  window is full. Start is refused until the device is connected.

RECORDING:
  When recording is on, every fetched sample asks the backend to
  append a row to the file named at connect time.
`)
	return b.String()
}

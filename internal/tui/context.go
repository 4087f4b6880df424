package tui

import tea "github.com/charmbracelet/bubbletea"

// Action identifies what a modal wants the dashboard to do.
type Action int

const (
	ActionPushModal Action = iota
	ActionConfirmDisconnect
)

// ActionMsg lets modals talk to the dashboard without holding a pointer
// to it.
type ActionMsg struct {
	Action  Action
	Payload any
}

// actionMsg wraps ActionMsg as a tea.Cmd.
func actionMsg(a ActionMsg) tea.Cmd {
	return func() tea.Msg { return a }
}

// pushModal returns a command that pushes modal onto the stack.
func pushModal(modal Modal) tea.Cmd {
	return actionMsg(ActionMsg{Action: ActionPushModal, Payload: modal})
}

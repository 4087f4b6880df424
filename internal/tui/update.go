package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tinytelemetry/ftscope/internal/backend"
	"github.com/tinytelemetry/ftscope/internal/model"
	"github.com/tinytelemetry/ftscope/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// connectDoneMsg carries the connect reply.
type connectDoneMsg struct {
	reply model.ConnectReply
	err   error
}

// controlDoneMsg carries the reply of disconnect and tare requests.
type controlDoneMsg struct {
	action string
	reply  model.MessageReply
	err    error
}

// Update handles messages
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		if modal := m.TopModal(); modal != nil {
			pop, cmd := modal.Update(msg)
			if pop {
				m.PopModal()
			}
			return m, cmd
		}
		return m, nil

	case ActionMsg:
		switch msg.Action {
		case ActionPushModal:
			if modal, ok := msg.Payload.(Modal); ok {
				m.PushModal(modal)
			}
			return m, nil
		case ActionConfirmDisconnect:
			return m, m.confirmDisconnect()
		}
		return m, nil

	case TickMsg:
		// Polling is stopped or the previous fetch has not resolved yet.
		write, ok := m.driver.Begin()
		if !ok {
			return m, m.scheduleTick()
		}
		return m, tea.Batch(m.fetchSampleCmd(write), m.scheduleTick())

	case sampleLoadedMsg:
		m.applySample(msg)
		return m, nil

	case connectDoneMsg:
		m.pendingAction = ""
		return m, m.applyConnect(msg)

	case controlDoneMsg:
		m.pendingAction = ""
		return m, m.applyControl(msg)

	case SpinnerTickMsg:
		return m.handleSpinnerTick()
	}

	return m, nil
}

// handleKeyPress routes keys to the top modal first, then to dashboard controls.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if modal := m.TopModal(); modal != nil {
		pop, cmd := modal.Update(msg)
		if pop {
			m.PopModal()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.PushModal(NewHelpModal(m.keys))

	case key.Matches(msg, m.keys.Start):
		if err := m.state.Start(); err != nil {
			if errors.Is(err, session.ErrDisconnected) {
				m.PushModal(NewAlertModal("Not connected", startDisconnectedAlert))
				return m, nil
			}
			m.setError(err)
			return m, nil
		}
		m.logger.Info("[tui] acquisition started")

	case key.Matches(msg, m.keys.Stop):
		m.state.Stop()
		m.logger.Info("[tui] acquisition stopped", zap.Int64("samples", m.window.Counter()))

	case key.Matches(msg, m.keys.ToggleRecording):
		on := m.state.ToggleRecording()
		m.logger.Info("[tui] recording toggled", zap.Bool("recording", on))

	case key.Matches(msg, m.keys.Connect):
		return m, m.startControl("Connecting", m.connectCmd())

	case key.Matches(msg, m.keys.Disconnect):
		m.PushModal(NewConfirmModal("confirm-disconnect", disconnectQuestion,
			actionMsg(ActionMsg{Action: ActionConfirmDisconnect})))

	case key.Matches(msg, m.keys.TareLoadCell):
		return m, m.startControl("Taring load cell", m.controlCmd("tare load cell", m.backend.TareLoadCell))

	case key.Matches(msg, m.keys.TareHeiden):
		return m, m.startControl("Taring encoders", m.controlCmd("tare encoders", m.backend.TareHeiden))

	case key.Matches(msg, m.keys.ChangeView):
		m.stack = m.stack.Next()
	}

	return m, nil
}

// confirmDisconnect stops acquisition and marks the session disconnected
// before the disconnect request goes out.
func (m *DashboardModel) confirmDisconnect() tea.Cmd {
	m.state.BeginDisconnect()
	m.logger.Info("[tui] disconnecting")
	return m.startControl("Disconnecting", m.controlCmd("disconnect", m.backend.Disconnect))
}

func (m *DashboardModel) startControl(label string, cmd tea.Cmd) tea.Cmd {
	m.pendingAction = label
	return tea.Batch(cmd, spinnerTick())
}

func (m *DashboardModel) fetchSampleCmd(write bool) tea.Cmd {
	driver := m.driver
	ctx := m.ctx
	return func() tea.Msg {
		return sampleLoadedMsg(driver.Fetch(ctx, write))
	}
}

func (m *DashboardModel) connectCmd() tea.Cmd {
	b := m.backend
	parent := m.ctx
	timeout := m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		reply, err := b.Connect(ctx)
		return connectDoneMsg{reply: reply, err: err}
	}
}

func (m *DashboardModel) controlCmd(action string, call func(context.Context) (model.MessageReply, error)) tea.Cmd {
	parent := m.ctx
	timeout := m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(parent, timeout)
		defer cancel()
		reply, err := call(ctx)
		return controlDoneMsg{action: action, reply: reply, err: err}
	}
}

func (m *DashboardModel) applySample(msg sampleLoadedMsg) {
	if msg.Err != nil {
		m.setError(msg.Err)
		m.lastTickOK = false
		m.consecutiveErrors++
		return
	}
	m.lastTickOK = true
	m.lastTickAt = time.Now()
	m.consecutiveErrors = 0
}

func (m *DashboardModel) applyConnect(msg connectDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("[tui] connect failed", zap.Error(msg.err))
		m.setError(msg.err)
		if text, ok := backend.ServerMessage(msg.err); ok {
			return pushModal(serverMessageAlert(text))
		}
		return pushModal(NewAlertModal("Connect failed", msg.err.Error()))
	}

	connected := m.state.ApplyConnect(msg.reply)
	m.logger.Info("[tui] connect reply",
		zap.String("message", msg.reply.Message),
		zap.String("filename", msg.reply.Filename),
		zap.Bool("connected", connected),
	)
	if connected {
		m.lastTickOK = true
		m.lastTickAt = time.Now()
	}

	body := fmt.Sprintf("[SERVER MESSAGE]: %s", msg.reply.Message)
	if msg.reply.Filename != "" {
		body += fmt.Sprintf("\nData would be stored at %s", msg.reply.Filename)
	}
	return pushModal(NewAlertModal("Server", body))
}

func (m *DashboardModel) applyControl(msg controlDoneMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Warn("[tui] control request failed", zap.String("action", msg.action), zap.Error(msg.err))
		m.setError(msg.err)
		if text, ok := backend.ServerMessage(msg.err); ok {
			return pushModal(serverMessageAlert(text))
		}
		return pushModal(NewAlertModal(msg.action+" failed", msg.err.Error()))
	}
	m.logger.Info("[tui] control reply", zap.String("action", msg.action), zap.String("message", msg.reply.Message))
	return pushModal(serverMessageAlert(msg.reply.Message))
}

func (m *DashboardModel) setError(err error) {
	m.lastError = err.Error()
	m.lastErrorAt = time.Now()
}

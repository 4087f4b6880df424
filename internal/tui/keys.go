package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all dashboard key bindings with built-in help text.
type KeyMap struct {
	// Global
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Escape    key.Binding

	// Acquisition
	Start           key.Binding
	Stop            key.Binding
	ToggleRecording key.Binding

	// Device
	Connect      key.Binding
	Disconnect   key.Binding
	TareLoadCell key.Binding
	TareHeiden   key.Binding

	// Layout
	ChangeView key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "force quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("escape", "esc"),
			key.WithHelp("esc", "close"),
		),

		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		ToggleRecording: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "toggle recording"),
		),

		Connect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "connect"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "disconnect"),
		),
		TareLoadCell: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "tare load cell"),
		),
		TareHeiden: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tare encoders"),
		),

		ChangeView: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "change view"),
		),
	}
}

// ShortHelp lists the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Stop, k.Connect, k.Disconnect, k.ToggleRecording, k.ChangeView, k.Help, k.Quit}
}

// FullHelp groups every binding for the help modal.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.ToggleRecording},
		{k.Connect, k.Disconnect, k.TareLoadCell, k.TareHeiden},
		{k.ChangeView, k.Help, k.Escape, k.Quit, k.ForceQuit},
	}
}

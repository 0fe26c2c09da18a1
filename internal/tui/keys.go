package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application
type KeyMap struct {
	// Scan page
	StartStop key.Binding
	Flip      key.Binding
	Torch     key.Binding
	Camera    key.Binding
	Upload    key.Binding
	Copy      key.Binding
	Open      key.Binding
	Reopen    key.Binding

	// Generate page
	Generate key.Binding
	Download key.Binding

	// Global
	Quit   key.Binding
	Help   key.Binding
	Escape key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		StartStop: key.NewBinding(
			key.WithKeys("s", " "),
			key.WithHelp("s", "start/stop camera"),
		),
		Flip: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "flip camera"),
		),
		Torch: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "torch"),
		),
		Camera: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "choose camera"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "decode image file"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy result"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open link"),
		),
		Reopen: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "show last result"),
		),

		Generate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "generate"),
		),
		Download: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "download"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()

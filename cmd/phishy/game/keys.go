package game

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Start    key.Binding
	Safe     key.Binding
	Phishing key.Binding
	Next     key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "start"),
		),
		Safe: key.NewBinding(
			key.WithKeys("s", "1"),
			key.WithHelp("s", "looks safe"),
		),
		Phishing: key.NewBinding(
			key.WithKeys("p", "2"),
			key.WithHelp("p", "phishing"),
		),
		Next: key.NewBinding(
			key.WithKeys("enter", "n"),
			key.WithHelp("enter", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// stateHelp adapts the bindings active in one screen to help.KeyMap.
type stateHelp []key.Binding

func (s stateHelp) ShortHelp() []key.Binding  { return s }
func (s stateHelp) FullHelp() [][]key.Binding { return [][]key.Binding{s} }

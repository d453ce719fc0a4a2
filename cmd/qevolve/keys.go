package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
)

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Up       key.Binding
	Down     key.Binding
	Picker   key.Binding
	Select   key.Binding
	Back     key.Binding
	Save     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "step back")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "step forward")),
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev circuit")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next circuit")),
	Picker:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "circuits")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "open")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Save:     key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save qasm")),
	PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll qasm")),
	PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll qasm")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Picker, k.Save, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.Picker, k.Select, k.Back},
		{k.Save, k.PageUp, k.PageDown, k.Quit},
	}
}

// qasmKeyMap limits the QASM viewport to page keys so arrows stay with the grid.
func qasmKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageUp:   keys.PageUp,
		PageDown: keys.PageDown,
	}
}

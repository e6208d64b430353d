package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Kill       key.Binding
	SortName   key.Binding
	SortPID    key.Binding
	SortMemory key.Binding
	SortCPU    key.Binding
	SortTitle  key.Binding
	Reload     key.Binding
	Quit       key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Home       key.Binding
	End        key.Binding
	Left       key.Binding
	Right      key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

var keys = keyMap{
	Kill:       key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "kill")),
	SortName:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "image name")),
	SortPID:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pid")),
	SortMemory: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "memory")),
	SortCPU:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cpu time")),
	SortTitle:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "window title")),
	Reload:     key.NewBinding(key.WithKeys("r", "f5"), key.WithHelp("r", "reload")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "select")),
	Down:       key.NewBinding(key.WithKeys("down")),
	PageUp:     key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("PgUp/PgDn", "page")),
	PageDown:   key.NewBinding(key.WithKeys("pgdown", "ctrl+d")),
	Home:       key.NewBinding(key.WithKeys("home")),
	End:        key.NewBinding(key.WithKeys("end")),
	Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "scroll")),
	Right:      key.NewBinding(key.WithKeys("right", "l")),
	Confirm:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes")),
	Cancel:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.PageUp, k.Left, k.Kill, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.PageUp, k.Left},
		{k.SortName, k.SortPID, k.SortMemory, k.SortCPU, k.SortTitle},
		{k.Kill, k.Reload, k.Quit},
	}
}

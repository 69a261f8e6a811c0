package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Focus     key.Binding
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Clear     key.Binding
	Filter    key.Binding
	FilterAll key.Binding
	FilterAct key.Binding
	FilterDon key.Binding
	Theme     key.Binding
	Copy      key.Binding
	Help      key.Binding
	Quit      key.Binding

	Submit key.Binding
	Blur   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Focus:     key.NewBinding(key.WithKeys("a", "i", "/"), key.WithHelp("a", "add")),
		Up:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space", "x"), key.WithHelp("space", "done")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		Clear:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear completed")),
		Filter:    key.NewBinding(key.WithKeys("f", "tab"), key.WithHelp("f", "filter")),
		FilterAll: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		FilterAct: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		FilterDon: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "completed")),
		Theme:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Copy:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add task")),
		Blur:   key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc", "back to list")),
	}
}

// listKeys is the help.KeyMap shown while the task list has focus.
type listKeys struct{ k keyMap }

func (h listKeys) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Focus, h.k.Toggle, h.k.Delete, h.k.Filter, h.k.Clear, h.k.Theme, h.k.Help, h.k.Quit}
}

func (h listKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Focus, h.k.Up, h.k.Down, h.k.Toggle, h.k.Delete},
		{h.k.Filter, h.k.FilterAll, h.k.FilterAct, h.k.FilterDon, h.k.Clear},
		{h.k.Theme, h.k.Copy, h.k.Help, h.k.Quit},
	}
}

// inputKeys is the help.KeyMap shown while the new-task input has focus.
type inputKeys struct{ k keyMap }

func (h inputKeys) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Submit, h.k.Blur}
}

func (h inputKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

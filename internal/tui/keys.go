package tui

import "github.com/charmbracelet/bubbles/key"

// browseKeyMap is active while the command list has focus
type browseKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Run     key.Binding
	Refresh key.Binding
	Press   key.Binding
	Filter  key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.Refresh, k.Press, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Filter},
		{k.Run, k.Refresh, k.Press},
		{k.Help, k.Quit},
	}
}

// argsKeyMap is active while job arguments are being typed
type argsKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k argsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k argsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// buttonKeyMap is active in button mode; each binding presses one button
type buttonKeyMap struct {
	A     key.Binding
	B     key.Binding
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Back  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k buttonKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.A, k.B, k.Up, k.Down, k.Left, k.Right, k.Back}
}

// FullHelp returns keybindings for the expanded help view
func (k buttonKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.A, k.B},
		{k.Up, k.Down, k.Left, k.Right},
		{k.Back},
	}
}

// button returns the backend key for a bound key press
func (k buttonKeyMap) button(s string) (string, bool) {
	for name, b := range map[string]key.Binding{
		"A": k.A, "B": k.B, "UP": k.Up, "DOWN": k.Down, "LEFT": k.Left, "RIGHT": k.Right,
	} {
		for _, bound := range b.Keys() {
			if bound == s {
				return name, true
			}
		}
	}
	return "", false
}

func newBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Run: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run job"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rediscover"),
		),
		Press: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "buttons"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func newArgsKeyMap() argsKeyMap {
	return argsKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

func newButtonKeyMap() buttonKeyMap {
	return buttonKeyMap{
		A:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "A")),
		B:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "B")),
		Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Left:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Back: key.NewBinding(
			key.WithKeys("esc", "p"),
			key.WithHelp("esc", "back"),
		),
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the bindings shared by every list screen.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Select   key.Binding
	Back     key.Binding
	Sort     key.Binding
	Filter   key.Binding
	ShowAll  key.Binding
	Home     key.Binding
	Quit     key.Binding
	Cancel   key.Binding
}

// NewKeyMap builds the bindings; vim adds h/j/k/l.
func NewKeyMap(vim bool) KeyMap {
	up, down := []string{"up"}, []string{"down"}
	prev, next := []string{"pgup", "left"}, []string{"pgdown", "right"}
	upHelp, downHelp := "↑", "↓"
	if vim {
		up, down = append(up, "k"), append(down, "j")
		prev, next = append(prev, "h"), append(next, "l")
		upHelp, downHelp = "↑/k", "↓/j"
	}

	return KeyMap{
		Up:       key.NewBinding(key.WithKeys(up...), key.WithHelp(upHelp, "up")),
		Down:     key.NewBinding(key.WithKeys(down...), key.WithHelp(downHelp, "down")),
		PrevPage: key.NewBinding(key.WithKeys(prev...), key.WithHelp("←", "prev page")),
		NextPage: key.NewBinding(key.WithKeys(next...), key.WithHelp("→", "next page")),
		Select:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Filter:   key.NewBinding(key.WithKeys("/", "f"), key.WithHelp("/", "filter")),
		ShowAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "show all")),
		Home:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "main menu")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Cancel:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "cancel")),
	}
}

// listHelp is the help line for menus.
type listHelp struct{ k KeyMap }

func (h listHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Up, h.k.Down, h.k.Select, h.k.Back, h.k.Cancel}
}

func (h listHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }

// resultsHelp is the help line for the results list.
type resultsHelp struct{ k KeyMap }

func (h resultsHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Up, h.k.Down, h.k.NextPage, h.k.Select, h.k.Sort, h.k.Filter, h.k.ShowAll, h.k.Back}
}

func (h resultsHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Up, h.k.Down, h.k.PrevPage, h.k.NextPage},
		{h.k.Select, h.k.Sort, h.k.Filter, h.k.ShowAll},
		{h.k.Back, h.k.Home, h.k.Cancel},
	}
}

// mainHelp is the help line for the main menu, where q quits.
type mainHelp struct{ k KeyMap }

func (h mainHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Up, h.k.Down, h.k.Select, h.k.Quit}
}

func (h mainHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h.ShortHelp()} }

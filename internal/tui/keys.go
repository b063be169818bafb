package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextPane  key.Binding
	Decrease  key.Binding
	Increase  key.Binding
	CoarseDec key.Binding
	CoarseInc key.Binding
	Reset     key.Binding
	Execute   key.Binding
	RunNext   key.Binding
	Stop      key.Binding
	Preview   key.Binding
	Choose    key.Binding
	Inverted  key.Binding
	BothSides key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextPane:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		Decrease:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "-1")),
		Increase:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "+1")),
		CoarseDec: key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "-tick")),
		CoarseInc: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "+tick")),
		Reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Execute:   key.NewBinding(key.WithKeys("enter", "x"), key.WithHelp("enter", "execute")),
		RunNext:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "start next")),
		Stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Preview:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
		Choose:    key.NewBinding(key.WithKeys("c", "enter"), key.WithHelp("c", "choose")),
		Inverted:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "inverted")),
		BothSides: key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "both sides")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// bindings returns the help bindings for the focused pane, enabled or not.
func (k keyMap) bindings(p pane) []key.Binding {
	switch p {
	case paneControls:
		return []key.Binding{k.Up, k.Down, k.Decrease, k.Increase, k.CoarseDec, k.CoarseInc, k.Reset, k.NextPane, k.Quit}
	case panePhases:
		return []key.Binding{k.Up, k.Down, k.Execute, k.RunNext, k.Stop, k.NextPane, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Preview, k.Choose, k.Inverted, k.BothSides, k.NextPane, k.Quit}
	}
}

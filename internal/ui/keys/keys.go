package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application key bindings
type KeyMap struct {
	Up            key.Binding
	Down          key.Binding
	Left          key.Binding
	Right         key.Binding
	Enter         key.Binding
	Back          key.Binding
	Tab           key.Binding
	New           key.Binding
	Edit          key.Binding
	Delete        key.Binding
	Reply         key.Binding
	Refresh       key.Binding
	MoveLeft      key.Binding
	MoveRight     key.Binding
	Team          key.Binding
	Dashboard     key.Binding
	Notifications key.Binding
	Attach        key.Binding
	Theme         key.Binding
	Logout        key.Binding
	Quit          key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:            key.NewBinding(key.WithKeys("up", "k")),
		Down:          key.NewBinding(key.WithKeys("down", "j")),
		Left:          key.NewBinding(key.WithKeys("left", "h")),
		Right:         key.NewBinding(key.WithKeys("right", "l")),
		Enter:         key.NewBinding(key.WithKeys("enter")),
		Back:          key.NewBinding(key.WithKeys("esc")),
		Tab:           key.NewBinding(key.WithKeys("tab")),
		New:           key.NewBinding(key.WithKeys("n")),
		Edit:          key.NewBinding(key.WithKeys("e")),
		Delete:        key.NewBinding(key.WithKeys("d")),
		Reply:         key.NewBinding(key.WithKeys("r")),
		Refresh:       key.NewBinding(key.WithKeys("R", "f5")),
		MoveLeft:      key.NewBinding(key.WithKeys("[", "H")),
		MoveRight:     key.NewBinding(key.WithKeys("]", "L")),
		Team:          key.NewBinding(key.WithKeys("t")),
		Dashboard:     key.NewBinding(key.WithKeys("g")),
		Notifications: key.NewBinding(key.WithKeys("N")),
		Attach:        key.NewBinding(key.WithKeys("a")),
		Theme:         key.NewBinding(key.WithKeys("ctrl+t")),
		Logout:        key.NewBinding(key.WithKeys("ctrl+l")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c")),
	}
}

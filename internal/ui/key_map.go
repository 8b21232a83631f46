package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up        key.Binding
	down      key.Binding
	heart     key.Binding
	category  key.Binding
	profile   key.Binding
	favorites key.Binding
	events    key.Binding
	back      key.Binding
	next      key.Binding
	prev      key.Binding
	submit    key.Binding
	mode      key.Binding
	signOut   key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		heart:     key.NewBinding(key.WithKeys("h", " "), key.WithHelp("h/space", "heart")),
		category:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
		profile:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
		favorites: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorites")),
		events:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "events")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
		submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		mode:      key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "sign in/sign up")),
		signOut:   key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sign out")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.heart, k.category},
		{k.profile, k.favorites, k.events, k.back},
		{k.next, k.prev, k.submit, k.mode},
		{k.signOut, k.quit},
	}
}

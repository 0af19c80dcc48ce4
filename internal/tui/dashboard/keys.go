package dashboard

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the dashboard TUI.
type KeyMap struct {
	// Fix actions (1-7), one per probe
	Fix1 key.Binding
	Fix2 key.Binding
	Fix3 key.Binding
	Fix4 key.Binding
	Fix5 key.Binding
	Fix6 key.Binding
	Fix7 key.Binding

	Refresh key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Fix1: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "install daemon"),
		),
		Fix2: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "start service"),
		),
		Fix3: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "export weights"),
		),
		Fix4: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "load model"),
		),
		Fix5: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "configure CORS"),
		),
		Fix6: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "install tunnel"),
		),
		Fix7: key.NewBinding(
			key.WithKeys("7"),
			key.WithHelp("7", "start tunnel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// fixBindings returns the fix bindings in key order.
func (k KeyMap) fixBindings() []key.Binding {
	return []key.Binding{k.Fix1, k.Fix2, k.Fix3, k.Fix4, k.Fix5, k.Fix6, k.Fix7}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Fix1, k.Fix2, k.Fix3, k.Fix4},
		{k.Fix5, k.Fix6, k.Fix7},
		{k.Refresh, k.Help, k.Quit},
	}
}

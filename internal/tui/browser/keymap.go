package browser

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/mattsolo1/grove-cellbook/pkg/keymap"
)

// KeyMap defines the keybindings for the notebook TUI. The global shortcuts
// come from the shared shortcut table; the rest are navigation keys.
type KeyMap struct {
	keymap.KeyMap
	Up         key.Binding
	Down       key.Binding
	Collapse   key.Binding
	Expand     key.Binding
	Open       key.Binding
	SwitchPane key.Binding
	Edit       key.Binding
	MoveUp     key.Binding
	MoveDown   key.Binding
	Duplicate  key.Binding
	Delete     key.Binding
	Rename     key.Binding
	Language   key.Binding
	Assist     key.Binding
	Back       key.Binding
	Quit       key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.SwitchPane, k.Open, k.RunCode, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.KeyMap.Bindings(),
		{
			k.Up,
			k.Down,
			k.Collapse,
			k.Expand,
			k.Open,
			k.SwitchPane,
			k.Back,
			k.Quit,
		},
		{
			k.Edit,
			k.MoveUp,
			k.MoveDown,
			k.Duplicate,
			k.Delete,
			k.Rename,
			k.Language,
			k.Assist,
		},
	}
}

var keys = KeyMap{
	KeyMap: keymap.NewKeyMap(),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "collapse folder"),
	),
	Expand: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "expand folder"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open / toggle edit"),
	),
	SwitchPane: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch pane"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit cell"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K"),
		key.WithHelp("K", "move cell up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J"),
		key.WithHelp("J", "move cell down"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "duplicate cell"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x", "delete"),
		key.WithHelp("x", "delete"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Language: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "cycle language"),
	),
	Assist: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "ask assistant about cell"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

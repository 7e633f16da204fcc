// Package keymap holds the fixed keyboard surface of the notebook: the
// browser-style chords shown in help, and the terminal keys the TUI binds
// for the same actions.
package keymap

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// Action identifies a global shortcut
type Action string

const (
	NewFile         Action = "new-file"
	NewFolder       Action = "new-folder"
	Save            Action = "save"
	Search          Action = "search"
	ToggleDarkMode  Action = "toggle-dark-mode"
	AddMarkdownCell Action = "add-markdown-cell"
	AddCodeCell     Action = "add-code-cell"
	AddWhiteboard   Action = "add-whiteboard-cell"
	RunCode         Action = "run-code"
	ToggleAssistant Action = "toggle-ai-assistant"
	Help            Action = "help"
)

// Shortcut is one row of the shortcut table
type Shortcut struct {
	Action      Action
	Chord       string
	Description string
	// Keys are the terminal key names bound in the TUI
	Keys []string
}

// Shortcuts is the shortcut table in help order
var Shortcuts = []Shortcut{
	{NewFile, "Ctrl/Cmd + N", "New File", []string{"ctrl+n"}},
	{NewFolder, "Ctrl/Cmd + Shift + N", "New Folder", []string{"alt+n"}},
	{Save, "Ctrl/Cmd + S", "Save", []string{"ctrl+s"}},
	{Search, "Ctrl/Cmd + Shift + K", "Search", []string{"ctrl+k", "/"}},
	{ToggleDarkMode, "Ctrl/Cmd + Shift + D", "Toggle Dark Mode", []string{"alt+d"}},
	{AddMarkdownCell, "Ctrl/Cmd + Shift + M", "Add Markdown Cell", []string{"alt+m"}},
	{AddCodeCell, "Ctrl/Cmd + Shift + J", "Add Code Cell", []string{"alt+j"}},
	{AddWhiteboard, "Ctrl/Cmd + Shift + W", "Add Whiteboard Cell", []string{"alt+w"}},
	{RunCode, "Ctrl/Cmd + Shift + Enter", "Run Code", []string{"ctrl+r", "alt+enter"}},
	{ToggleAssistant, "Ctrl/Cmd + Shift + I", "Toggle AI Assistant", []string{"alt+i"}},
	{Help, "Shift + ?", "Show this help", []string{"?"}},
}

// Lookup returns the shortcut for an action
func Lookup(a Action) (Shortcut, bool) {
	for _, s := range Shortcuts {
		if s.Action == a {
			return s, true
		}
	}
	return Shortcut{}, false
}

// Binding converts a shortcut into a bubbles key binding
func (s Shortcut) Binding() key.Binding {
	return key.NewBinding(
		key.WithKeys(s.Keys...),
		key.WithHelp(strings.Join(s.Keys, "/"), strings.ToLower(s.Description)),
	)
}

// HelpText renders the chord table, one "Chord: Description" per line
func HelpText() string {
	lines := make([]string, len(Shortcuts))
	for i, s := range Shortcuts {
		lines[i] = fmt.Sprintf("%s: %s", s.Chord, s.Description)
	}
	return strings.Join(lines, "\n")
}

// KeyMap binds every global shortcut for bubbletea models
type KeyMap struct {
	NewFile         key.Binding
	NewFolder       key.Binding
	Save            key.Binding
	Search          key.Binding
	ToggleDarkMode  key.Binding
	AddMarkdownCell key.Binding
	AddCodeCell     key.Binding
	AddWhiteboard   key.Binding
	RunCode         key.Binding
	ToggleAssistant key.Binding
	Help            key.Binding
}

// NewKeyMap builds the bindings from the shortcut table
func NewKeyMap() KeyMap {
	b := func(a Action) key.Binding {
		s, _ := Lookup(a)
		return s.Binding()
	}
	return KeyMap{
		NewFile:         b(NewFile),
		NewFolder:       b(NewFolder),
		Save:            b(Save),
		Search:          b(Search),
		ToggleDarkMode:  b(ToggleDarkMode),
		AddMarkdownCell: b(AddMarkdownCell),
		AddCodeCell:     b(AddCodeCell),
		AddWhiteboard:   b(AddWhiteboard),
		RunCode:         b(RunCode),
		ToggleAssistant: b(ToggleAssistant),
		Help:            b(Help),
	}
}

// Bindings returns the global bindings in table order
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{
		k.NewFile, k.NewFolder, k.Save, k.Search, k.ToggleDarkMode,
		k.AddMarkdownCell, k.AddCodeCell, k.AddWhiteboard,
		k.RunCode, k.ToggleAssistant, k.Help,
	}
}

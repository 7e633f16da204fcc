package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpText(t *testing.T) {
	want := `Ctrl/Cmd + N: New File
Ctrl/Cmd + Shift + N: New Folder
Ctrl/Cmd + S: Save
Ctrl/Cmd + Shift + K: Search
Ctrl/Cmd + Shift + D: Toggle Dark Mode
Ctrl/Cmd + Shift + M: Add Markdown Cell
Ctrl/Cmd + Shift + J: Add Code Cell
Ctrl/Cmd + Shift + W: Add Whiteboard Cell
Ctrl/Cmd + Shift + Enter: Run Code
Ctrl/Cmd + Shift + I: Toggle AI Assistant
Shift + ?: Show this help`
	assert.Equal(t, want, HelpText())
}

func TestKeysAreUnique(t *testing.T) {
	seen := map[string]Action{}
	for _, s := range Shortcuts {
		require.NotEmpty(t, s.Keys, s.Action)
		for _, k := range s.Keys {
			prev, dup := seen[k]
			assert.False(t, dup, "%q bound to %s and %s", k, prev, s.Action)
			seen[k] = s.Action
		}
	}
}

func TestKeyMapMatches(t *testing.T) {
	km := NewKeyMap()
	assert.Len(t, km.Bindings(), len(Shortcuts))

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlS}, km.Save))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}}, km.Help))
	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}, Alt: true}, km.AddMarkdownCell))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}}, km.AddMarkdownCell))
}

func TestLookup(t *testing.T) {
	s, ok := Lookup(RunCode)
	require.True(t, ok)
	assert.Equal(t, "Ctrl/Cmd + Shift + Enter", s.Chord)

	_, ok = Lookup(Action("nope"))
	assert.False(t, ok)
}

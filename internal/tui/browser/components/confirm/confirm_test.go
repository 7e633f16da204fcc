package confirm

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmCarriesTarget(t *testing.T) {
	m := New()
	m.Activate("Delete Projects?", "folder1")
	assert.Contains(t, m.View(), "Delete Projects?")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	assert.False(t, m.Active)
	assert.Equal(t, ConfirmedMsg{Target: "folder1"}, cmd())
}

func TestCancel(t *testing.T) {
	m := New()
	m.Activate("Delete?", "notebook1")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CancelledMsg{}, cmd())
	assert.Empty(t, m.Target)
	assert.Empty(t, m.View())
}

func TestInactiveIgnoresKeys(t *testing.T) {
	m := New()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	assert.Nil(t, cmd)
}

package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/postudio/postudio-terminal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickerEnterOpensTypedPath(t *testing.T) {
	m := NewPickerModel(newTestContext(t, nil), NewStyles(models.ThemeDark), "")

	for _, r := range "de.po" {
		m.Update(keyRunes(string(r)))
	}
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(openFileMsg)
	require.True(t, ok)
	assert.Equal(t, "de.po", msg.path)
}

func TestPickerEnterIgnoresEmptyPath(t *testing.T) {
	m := NewPickerModel(newTestContext(t, nil), NewStyles(models.ThemeDark), "  ")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestPickerStartsWithPath(t *testing.T) {
	m := NewPickerModel(newTestContext(t, nil), NewStyles(models.ThemeDark), "/tmp/last.po")

	assert.Equal(t, "/tmp/last.po", m.input.Value())
	assert.True(t, m.input.Focused())
}

func TestPickerEsc(t *testing.T) {
	m := NewPickerModel(newTestContext(t, nil), NewStyles(models.ThemeDark), "")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd, "nothing to go back to without an open catalog")

	m.SetCancelable(true)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, SwitchViewMsg{view: editorView}, cmd())
}

func TestPickerTabTogglesBrowsing(t *testing.T) {
	m := NewPickerModel(newTestContext(t, nil), NewStyles(models.ThemeDark), "")

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, m.browsing)
	assert.False(t, m.input.Focused())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, m.browsing)
	assert.True(t, m.input.Focused())
}

func TestPickerView(t *testing.T) {
	m := NewPickerModel(newTestContext(t, nil), NewStyles(models.ThemeDark), "")
	m.SetSize(80, 24)

	view := m.View()
	assert.Contains(t, view, "Open a .po file")
	assert.Contains(t, view, "tab browse")
}

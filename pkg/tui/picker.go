package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/postudio/postudio-terminal/internal/app"
	"github.com/postudio/postudio-terminal/internal/i18n"
)

// PickerModel asks for the catalog to open, either as a typed path or by
// browsing the file system.
type PickerModel struct {
	app    *app.Context
	styles *Styles

	input    textinput.Model
	files    filepicker.Model
	browsing bool
	// canCancel is false when no catalog is open yet.
	canCancel bool

	width  int
	height int
}

func NewPickerModel(a *app.Context, styles *Styles, start string) *PickerModel {
	ti := textinput.New()
	ti.Placeholder = a.T(i18n.PickerPlaceholder, nil)
	ti.CharLimit = 512
	ti.Width = 60
	ti.SetValue(start)
	ti.Focus()

	fp := filepicker.New()
	fp.AllowedTypes = []string{".po"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.AutoHeight = false
	fp.Height = 10
	if wd, err := os.Getwd(); err == nil {
		fp.CurrentDirectory = wd
	}

	return &PickerModel{
		app:    a,
		styles: styles,
		input:  ti,
		files:  fp,
		width:  80,
		height: 24,
	}
}

func (m *PickerModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.files.Init())
}

func (m *PickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
	if h := height - 8; h > 3 {
		m.files.Height = h
	}
}

// SetCancelable controls whether esc returns to the editor.
func (m *PickerModel) SetCancelable(ok bool) {
	m.canCancel = ok
}

func (m *PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			if m.canCancel {
				return m, func() tea.Msg { return SwitchViewMsg{view: editorView} }
			}
			return m, nil
		case "tab":
			m.browsing = !m.browsing
			if m.browsing {
				m.input.Blur()
			} else {
				m.input.Focus()
			}
			return m, nil
		case "enter":
			if !m.browsing {
				path := strings.TrimSpace(m.input.Value())
				if path == "" {
					return m, nil
				}
				return m, func() tea.Msg { return openFileMsg{path: path} }
			}
		}
	}

	if m.browsing {
		var cmd tea.Cmd
		m.files, cmd = m.files.Update(msg)
		if ok, path := m.files.DidSelectFile(msg); ok {
			m.input.SetValue(path)
			return m, func() tea.Msg { return openFileMsg{path: path} }
		}
		return m, cmd
	}

	// The file picker still needs its directory listing while hidden.
	if _, ok := msg.(tea.KeyMsg); !ok {
		var cmd tea.Cmd
		m.files, cmd = m.files.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *PickerModel) View() string {
	s := m.styles
	title := s.Title.Render(m.app.T(i18n.PickerTitle, nil))

	inputBorder, filesBorder := s.ActiveBorder, s.InactiveBorder
	if m.browsing {
		inputBorder, filesBorder = s.InactiveBorder, s.ActiveBorder
	}
	width := m.width - 2
	if width < 20 {
		width = 20
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		" "+title,
		inputBorder.Width(width).Render(m.input.View()),
		filesBorder.Width(width).Render(m.files.View()),
		s.Help.Render(m.app.T(i18n.HelpPicker, nil)),
	)
}

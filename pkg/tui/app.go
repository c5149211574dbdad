package tui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/postudio/postudio-terminal/internal/app"
	"github.com/postudio/postudio-terminal/internal/i18n"
	"github.com/postudio/postudio-terminal/pkg/store"
)

type App struct {
	ctx    *app.Context
	styles *Styles

	state     sessionState
	editor    *EditorModel
	picker    *PickerModel
	width     int
	height    int
	statusMsg string
}

// NewApp opens path when given. A catalog that fails to load leaves the
// user in the picker with the error on the status bar.
func NewApp(ctx *app.Context, path string) *App {
	a := &App{
		ctx:    ctx,
		styles: NewStyles(ctx.Settings.UI.Theme),
		state:  pickerView,
	}
	a.picker = NewPickerModel(ctx, a.styles, path)

	if path == "" {
		a.statusMsg = ctx.T(i18n.NoCatalog, nil)
		return a
	}
	s, err := ctx.OpenStore(path)
	if err != nil {
		a.statusMsg = ctx.T(i18n.StatusError, map[string]interface{}{"Error": err.Error()})
		return a
	}
	a.setStore(s)
	return a
}

// Run starts the interface on the alternate screen and blocks until quit.
func Run(ctx *app.Context, path string) error {
	p := tea.NewProgram(NewApp(ctx, path), tea.WithAltScreen())
	m, err := p.Run()
	if a, ok := m.(*App); ok && a.editor != nil {
		a.editor.stop()
	}
	return err
}

func (a *App) setStore(s *store.Store) {
	a.editor = NewEditorModel(a.ctx, s, a.styles)
	if a.width > 0 {
		a.editor.SetSize(a.width, a.contentHeight())
	}
	a.state = editorView
	a.picker.SetCancelable(true)
	a.statusMsg = a.ctx.T(i18n.StatusOpened, map[string]interface{}{
		"File":  filepath.Base(s.Path()),
		"Count": s.Len(),
	})
}

func (a *App) Init() tea.Cmd {
	return a.picker.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.picker.SetSize(msg.Width, a.contentHeight())
		if a.editor != nil {
			a.editor.SetSize(msg.Width, a.contentHeight())
		}

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if a.editor != nil {
				a.editor.stop()
			}
			return a, tea.Quit
		}

	case StatusMsg:
		a.statusMsg = string(msg)
		return a, nil

	case themeChangedMsg:
		a.styles.Set(msg.theme)
		a.statusMsg = a.ctx.T(i18n.StatusTheme, map[string]interface{}{"Theme": msg.theme})
		return a, nil

	case openFileMsg:
		s, err := a.ctx.OpenStore(msg.path)
		if err != nil {
			a.state = pickerView
			a.statusMsg = a.ctx.T(i18n.StatusError, map[string]interface{}{"Error": err.Error()})
			return a, nil
		}
		a.setStore(s)
		return a, nil

	case SwitchViewMsg:
		switch msg.view {
		case editorView:
			if a.editor != nil {
				a.state = editorView
			}
			return a, nil
		case pickerView:
			a.state = pickerView
			return a, a.picker.Init()
		}

	// Results of background work always go to the editor.
	case translatedOneMsg, translatedAllMsg:
		if a.editor == nil {
			return a, nil
		}
		_, cmd := a.editor.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.state {
	case editorView:
		var m tea.Model
		m, cmd = a.editor.Update(msg)
		if em, ok := m.(*EditorModel); ok {
			a.editor = em
		}
	case pickerView:
		var m tea.Model
		m, cmd = a.picker.Update(msg)
		if pm, ok := m.(*PickerModel); ok {
			a.picker = pm
		}
	}

	return a, cmd
}

// contentHeight leaves a row for the status bar.
func (a *App) contentHeight() int {
	return a.height - 1
}

func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Loading..."
	}

	var content string
	switch a.state {
	case editorView:
		content = a.editor.View()
	case pickerView:
		content = a.picker.View()
	default:
		content = "Unknown view"
	}

	if a.statusMsg != "" {
		statusBar := a.styles.Status.Render(a.statusMsg)
		content = lipgloss.JoinVertical(lipgloss.Top, content, statusBar)
	}

	return content
}

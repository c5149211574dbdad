package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/postudio/postudio-terminal/internal/app"
	"github.com/postudio/postudio-terminal/internal/i18n"
	"github.com/postudio/postudio-terminal/internal/logger"
	"github.com/postudio/postudio-terminal/pkg/store"
)

const paneHeight = 6

// EditorModel shows the source and translation lists side by side, the
// selected source text, a translation editor and the fuzzy indicators.
type EditorModel struct {
	app    *app.Context
	store  *store.Store
	styles *Styles

	cursor  int
	offset  int
	editing bool

	onlyFuzzy bool
	busy      bool
	cancel    context.CancelFunc

	source   viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	width  int
	height int
}

func NewEditorModel(a *app.Context, s *store.Store, styles *Styles) *EditorModel {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = "  "
	ta.CharLimit = 0
	ta.SetWidth(40)
	ta.SetHeight(paneHeight)
	ta.Blur()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &EditorModel{
		app:      a,
		store:    s,
		styles:   styles,
		source:   viewport.New(40, paneHeight),
		textarea: ta,
		spinner:  sp,
		width:    80,
		height:   24,
	}
	if s.Len() > 0 {
		_, _ = s.Select(0)
	}
	m.syncPanes()
	return m
}

func (m *EditorModel) Init() tea.Cmd {
	return nil
}

// Store returns the open catalog.
func (m *EditorModel) Store() *store.Store {
	return m.store
}

func (m *EditorModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	paneWidth := m.columnWidth() - 2
	if paneWidth < 10 {
		paneWidth = 10
	}
	m.source.Width = paneWidth
	m.source.Height = paneHeight
	m.textarea.SetWidth(paneWidth)
	m.textarea.SetHeight(paneHeight)
	m.ensureVisible()
	m.syncPanes()
}

func (m *EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case translatedOneMsg:
		m.finishBusy()
		m.syncPanes()
		if msg.err != nil {
			return m, m.statusError(msg.err)
		}
		return m, m.status(i18n.StatusTranslatedOne, map[string]interface{}{"Index": msg.index})

	case translatedAllMsg:
		m.finishBusy()
		m.cursor = 0
		m.ensureVisible()
		m.syncPanes()
		var be *store.BatchError
		if errors.As(msg.err, &be) {
			return m, m.status(i18n.StatusBatchIncomplete, map[string]interface{}{
				"Incomplete": len(be.Result.Incomplete),
				"Total":      be.Result.Total,
				"Error":      be.Err,
			})
		}
		if msg.err != nil {
			return m, m.statusError(msg.err)
		}
		return m, m.status(i18n.StatusTranslatedAll, map[string]interface{}{"Count": len(msg.result.Translated)})
	}

	return m, nil
}

func (m *EditorModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.stop()
		return m, tea.Quit

	case "up", "k":
		m.move(-1)
		return m, nil

	case "down", "j":
		m.move(1)
		return m, nil

	case "pgup":
		m.move(-m.listHeight())
		return m, nil

	case "pgdown":
		m.move(m.listHeight())
		return m, nil

	case "esc":
		if m.busy && m.cancel != nil {
			m.cancel()
		}
		return m, nil

	case "p":
		if m.busy {
			return m, m.status(i18n.StatusBusy, nil)
		}
		return m, func() tea.Msg { return SwitchViewMsg{view: pickerView} }

	case "L":
		theme, err := m.app.ToggleTheme()
		if err != nil {
			return m, m.statusError(err)
		}
		return m, func() tea.Msg { return themeChangedMsg{theme: theme} }

	case "o":
		m.onlyFuzzy = !m.onlyFuzzy
		if m.onlyFuzzy {
			return m, m.status(i18n.StatusOnlyFuzzyOn, nil)
		}
		return m, m.status(i18n.StatusOnlyFuzzyOff, nil)
	}

	if m.store.Len() == 0 {
		return m, nil
	}

	switch msg.String() {
	case "y":
		sel, ok := m.store.Selection()
		if !ok {
			return m, nil
		}
		if err := clipboard.WriteAll(sel.Entry.Source); err != nil {
			return m, m.statusError(err)
		}
		return m, m.status(i18n.StatusCopied, nil)
	}

	if m.busy {
		switch msg.String() {
		case "enter", "f", "t", "T":
			return m, m.status(i18n.StatusBusy, nil)
		}
		return m, nil
	}

	switch msg.String() {
	case "enter":
		m.editing = true
		sel, _ := m.store.Selection()
		m.textarea.SetValue(sel.Entry.Translation)
		m.textarea.Focus()
		return m, textarea.Blink

	case "f":
		sel, ok := m.store.Selection()
		if !ok {
			return m, nil
		}
		fuzzy := !sel.Entry.Fuzzy
		if err := m.store.SetFuzzy(sel.Index, fuzzy); err != nil {
			return m, m.statusError(err)
		}
		if fuzzy {
			return m, m.status(i18n.StatusFuzzyOn, map[string]interface{}{"Index": sel.Index})
		}
		return m, m.status(i18n.StatusFuzzyOff, map[string]interface{}{"Index": sel.Index})

	case "t":
		return m, m.translateOne()

	case "T":
		return m, m.translateAll()
	}

	return m, nil
}

func (m *EditorModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlS:
		m.editing = false
		m.textarea.Blur()
		index := m.cursor
		err := m.store.SetTranslation(index, m.textarea.Value())
		m.syncPanes()
		if err != nil {
			return m, m.statusError(err)
		}
		return m, m.status(i18n.StatusSaved, map[string]interface{}{"Index": index})

	case tea.KeyEsc:
		m.editing = false
		m.textarea.Blur()
		m.syncPanes()
		return m, m.status(i18n.StatusDiscarded, nil)
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *EditorModel) translateOne() tea.Cmd {
	fn, err := m.app.TranslateFunc()
	if err != nil {
		return m.statusError(err)
	}
	index := m.cursor
	ctx := m.startBusy()
	s := m.store

	work := func() tea.Msg {
		text, err := s.TranslateOne(ctx, index, fn)
		return translatedOneMsg{index: index, text: text, err: err}
	}
	return tea.Batch(
		m.status(i18n.StatusTranslatingOne, map[string]interface{}{"Index": index}),
		m.spinner.Tick,
		work,
	)
}

func (m *EditorModel) translateAll() tea.Cmd {
	fn, err := m.app.TranslateFunc()
	if err != nil {
		return m.statusError(err)
	}
	onlyFuzzy := m.onlyFuzzy
	count := m.store.Len()
	if onlyFuzzy {
		count = m.store.Stats().Fuzzy
	}
	ctx := m.startBusy()
	s := m.store
	log := m.app.Log

	work := func() tea.Msg {
		res, err := s.TranslateAll(ctx, fn, onlyFuzzy)
		log.Info("tui", "batch finished", logger.Fields{
			"translated": len(res.Translated),
			"incomplete": len(res.Incomplete),
			"only_fuzzy": onlyFuzzy,
		})
		return translatedAllMsg{result: res, err: err}
	}
	return tea.Batch(
		m.status(i18n.StatusTranslatingAll, map[string]interface{}{"Count": count}),
		m.spinner.Tick,
		work,
	)
}

func (m *EditorModel) startBusy() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	m.busy = true
	m.cancel = cancel
	return ctx
}

func (m *EditorModel) finishBusy() {
	m.busy = false
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

// stop cancels any running translation.
func (m *EditorModel) stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *EditorModel) move(delta int) {
	n := m.store.Len()
	if n == 0 {
		return
	}
	next := m.cursor + delta
	if next < 0 {
		next = 0
	}
	if next >= n {
		next = n - 1
	}
	if next == m.cursor {
		return
	}
	if _, err := m.store.Select(next); err != nil {
		return
	}
	m.cursor = next
	m.ensureVisible()
	m.syncPanes()
}

func (m *EditorModel) ensureVisible() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// syncPanes refreshes the source pane and, outside edit mode, the editor.
func (m *EditorModel) syncPanes() {
	sel, ok := m.store.Selection()
	if !ok {
		m.source.SetContent("")
		if !m.editing {
			m.textarea.SetValue("")
		}
		return
	}
	m.cursor = sel.Index

	var b strings.Builder
	if sel.Entry.Context != "" {
		b.WriteString(m.styles.Dim.Render("msgctxt: "+sel.Entry.Context) + "\n")
	}
	b.WriteString(wordwrap.String(sel.Entry.Source, m.source.Width))
	if sel.Entry.Comment != "" {
		b.WriteString("\n\n" + m.styles.Dim.Render(wordwrap.String(sel.Entry.Comment, m.source.Width)))
	}
	m.source.SetContent(b.String())
	m.source.GotoTop()

	if !m.editing {
		m.textarea.SetValue(sel.Entry.Translation)
	}
}

func (m *EditorModel) status(id string, data map[string]interface{}) tea.Cmd {
	text := m.app.T(id, data)
	return func() tea.Msg { return StatusMsg(text) }
}

func (m *EditorModel) statusError(err error) tea.Cmd {
	m.app.Log.Error("tui", err, nil)
	return m.status(i18n.StatusError, map[string]interface{}{"Error": err.Error()})
}

func (m *EditorModel) columnWidth() int {
	w := (m.width - 1) / 2
	if w < 12 {
		w = 12
	}
	return w
}

func (m *EditorModel) listHeight() int {
	// header, indicators, help, the pane row and the list borders
	h := m.height - 3 - (paneHeight + 3) - 2
	if h < 3 {
		h = 3
	}
	return h
}

func (m *EditorModel) View() string {
	s := m.styles
	colWidth := m.columnWidth()
	inner := colWidth - 2

	stats := m.store.Stats()
	header := s.Header.Render(fmt.Sprintf("%s  %s", filepath.Base(m.store.Path()),
		m.app.T(i18n.CatalogStats, map[string]interface{}{
			"Translated": stats.Translated,
			"Total":      stats.Total,
			"Fuzzy":      stats.Fuzzy,
		})))
	if m.busy {
		header += " " + m.spinner.View()
	}

	var lists string
	if m.store.Len() == 0 {
		lists = s.InactiveBorder.Width(colWidth*2 - 2).Height(m.listHeight()).
			Render(s.Dim.Render(m.app.T(i18n.EmptyCatalog, nil)))
	} else {
		sources := m.store.SourceList()
		translations := m.store.TranslationList()
		entries := m.store.Entries()
		var left, right []string
		end := m.offset + m.listHeight()
		if end > len(sources) {
			end = len(sources)
		}
		for i := m.offset; i < end; i++ {
			marker := "  "
			if entries[i].Fuzzy {
				marker = "~ "
			}
			l := marker + truncate.StringWithTail(flatten(sources[i]), uint(inner-2), "…")
			r := marker + truncate.StringWithTail(flatten(translations[i]), uint(inner-2), "…")
			switch {
			case i == m.cursor:
				l = s.Selected.Width(inner).Render(l)
				r = s.Selected.Width(inner).Render(r)
			case entries[i].Fuzzy:
				l = s.Fuzzy.Render(l)
				r = s.Fuzzy.Render(r)
			default:
				l = s.Normal.Render(l)
				r = s.Normal.Render(r)
			}
			left = append(left, l)
			right = append(right, r)
		}
		leftBorder, rightBorder := s.ActiveBorder, s.InactiveBorder
		if m.editing {
			leftBorder, rightBorder = s.InactiveBorder, s.ActiveBorder
		}
		lists = lipgloss.JoinHorizontal(lipgloss.Top,
			leftBorder.Width(inner).Height(m.listHeight()).Render(strings.Join(left, "\n")),
			rightBorder.Width(inner).Height(m.listHeight()).Render(strings.Join(right, "\n")),
		)
	}

	editorBorder := s.InactiveBorder
	if m.editing {
		editorBorder = s.ActiveBorder
	}
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		s.InactiveBorder.Width(inner).Render(s.Title.Render(m.app.T(i18n.SourceTitle, nil))+"\n"+m.source.View()),
		editorBorder.Width(inner).Render(s.Title.Render(m.app.T(i18n.TranslationTitle, nil))+"\n"+m.textarea.View()),
	)

	sel, _ := m.store.Selection()
	indicators := " " + m.checkbox(sel.Entry.Fuzzy, m.app.T(i18n.FuzzyLabel, nil)) +
		"   " + m.checkbox(m.onlyFuzzy, m.app.T(i18n.OnlyFuzzyLabel, nil))

	help := i18n.HelpBrowse
	if m.editing {
		help = i18n.HelpEdit
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lists,
		panes,
		indicators,
		s.Help.Render(m.app.T(help, nil)),
	)
}

func (m *EditorModel) checkbox(checked bool, label string) string {
	if checked {
		return m.styles.Checked.Render("[x]") + " " + label
	}
	return m.styles.Dim.Render("[ ]") + " " + label
}

func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", "⏎")
}

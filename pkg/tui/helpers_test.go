package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/postudio/postudio-terminal/internal/app"
	"github.com/postudio/postudio-terminal/pkg/files"
	"github.com/postudio/postudio-terminal/pkg/models"
	"github.com/stretchr/testify/require"
)

const testCatalog = `msgid ""
msgstr ""
"Language: tr\n"

msgid "Hello"
msgstr ""

#, fuzzy
msgid "Bye"
msgstr "Hoşça"

msgid "Thanks"
msgstr "Teşekkürler"
`

type fakeTranslator struct {
	fail  map[string]bool
	calls []string
}

func (f *fakeTranslator) Name() string { return "fake" }

func (f *fakeTranslator) Translate(ctx context.Context, text, target string) (string, error) {
	f.calls = append(f.calls, text)
	if f.fail[text] {
		return "", errors.New("quota exceeded")
	}
	return "T:" + text, nil
}

func newTestContext(t *testing.T, tr *fakeTranslator) *app.Context {
	t.Helper()
	ctx, err := app.New(app.Options{ConfigDir: t.TempDir(), DisableLogFile: true})
	require.NoError(t, err)
	t.Cleanup(func() { ctx.Close() })
	if tr == nil {
		tr = &fakeTranslator{}
	}
	ctx.SetTranslator(tr)
	return ctx
}

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tr.po")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0644))
	return path
}

func newTestEditor(t *testing.T, tr *fakeTranslator) (*EditorModel, string) {
	t.Helper()
	ctx := newTestContext(t, tr)
	path := writeCatalog(t)
	s, err := ctx.OpenStore(path)
	require.NoError(t, err)
	m := NewEditorModel(ctx, s, NewStyles(models.ThemeDark))
	m.SetSize(100, 40)
	return m, path
}

func diskEntries(t *testing.T, path string) []models.Entry {
	t.Helper()
	c, err := files.LoadCatalog(path)
	require.NoError(t, err)
	return c.Entries()
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and flattens batches into the messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

func statusOf(msgs []tea.Msg) string {
	for _, msg := range msgs {
		if s, ok := msg.(StatusMsg); ok {
			return string(s)
		}
	}
	return ""
}

// deliver feeds the background results found in msgs back into m and
// returns what those updates produce.
func deliver(m tea.Model, msgs []tea.Msg) []tea.Msg {
	var out []tea.Msg
	for _, msg := range msgs {
		switch msg.(type) {
		case translatedOneMsg, translatedAllMsg:
			_, cmd := m.Update(msg)
			out = append(out, collect(cmd)...)
		}
	}
	return out
}

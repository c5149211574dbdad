package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/postudio/postudio-terminal/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBackend struct {
	path     string
	entries  []models.Entry
	saved    [][]models.Entry
	failSave error
}

func newMemBackend(entries ...models.Entry) *memBackend {
	return &memBackend{path: "mem.po", entries: entries}
}

func (b *memBackend) Path() string { return b.path }

func (b *memBackend) Entries() []models.Entry {
	return append([]models.Entry(nil), b.entries...)
}

func (b *memBackend) Save(entries []models.Entry) error {
	if b.failSave != nil {
		return b.failSave
	}
	b.saved = append(b.saved, append([]models.Entry(nil), entries...))
	return nil
}

func (b *memBackend) lastSaved(t *testing.T) []models.Entry {
	t.Helper()
	require.NotEmpty(t, b.saved, "expected at least one save")
	return b.saved[len(b.saved)-1]
}

func fiveEntries() []models.Entry {
	return []models.Entry{
		{Source: "one"},
		{Source: "two"},
		{Source: "three"},
		{Source: "four"},
		{Source: "five"},
	}
}

func upper(ctx context.Context, text string) (string, error) {
	return "T:" + text, nil
}

func writePO(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "messages.po")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const helloBye = `msgid "Hello"
msgstr ""

msgid "Bye"
msgstr ""
`

func TestSelectIndexAlignment(t *testing.T) {
	s := New(newMemBackend(fiveEntries()...), Options{})

	sources := s.SourceList()
	translations := s.TranslationList()
	require.Len(t, sources, s.Len())
	require.Len(t, translations, s.Len())

	for i := 0; i < s.Len(); i++ {
		sel, err := s.Select(i)
		require.NoError(t, err)
		assert.Equal(t, i, sel.Index)
		assert.Equal(t, sources[i], sel.Entry.Source)

		current, ok := s.Selection()
		require.True(t, ok)
		assert.Equal(t, sel, current)
	}
}

func TestSelectOutOfRange(t *testing.T) {
	s := New(newMemBackend(fiveEntries()...), Options{})

	for _, i := range []int{-1, 5, 100} {
		_, err := s.Select(i)
		var ie *IndexError
		require.True(t, errors.As(err, &ie), "index %d", i)
		assert.Equal(t, i, ie.Index)
		assert.Equal(t, 5, ie.Len)
	}

	_, ok := s.Selection()
	assert.False(t, ok, "failed selects must not change the selection")
}

func TestEmptyStore(t *testing.T) {
	s := New(newMemBackend(), Options{})

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.SourceList())
	_, ok := s.Selection()
	assert.False(t, ok)

	_, err := s.Select(0)
	assert.Error(t, err)

	res, err := s.TranslateAll(context.Background(), upper, false)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Total)
	_, ok = s.Selection()
	assert.False(t, ok)
}

func TestSelectionReflectsFuzzy(t *testing.T) {
	s := New(newMemBackend(models.Entry{Source: "a", Fuzzy: true}, models.Entry{Source: "b"}), Options{})

	sel, err := s.Select(0)
	require.NoError(t, err)
	assert.True(t, sel.Entry.Fuzzy)

	sel, err = s.Select(1)
	require.NoError(t, err)
	assert.False(t, sel.Entry.Fuzzy)

	require.NoError(t, s.SetFuzzy(1, true))
	current, ok := s.Selection()
	require.True(t, ok)
	assert.True(t, current.Entry.Fuzzy)
}

func TestSetFuzzyIdempotent(t *testing.T) {
	b := newMemBackend(fiveEntries()...)
	s := New(b, Options{})

	require.NoError(t, s.SetFuzzy(2, true))
	require.NoError(t, s.SetFuzzy(2, true))

	e, err := s.Entry(2)
	require.NoError(t, err)
	assert.True(t, e.Fuzzy)
	assert.Len(t, b.saved, 1, "setting an already set flag writes nothing")

	require.NoError(t, s.SetFuzzy(2, false))
	e, _ = s.Entry(2)
	assert.False(t, e.Fuzzy)
	assert.False(t, b.lastSaved(t)[2].Fuzzy)

	var ie *IndexError
	assert.True(t, errors.As(s.SetFuzzy(9, true), &ie))
}

func TestSetTranslationRoundTrip(t *testing.T) {
	path := writePO(t, helloBye)

	s, err := Load(path, Options{})
	require.NoError(t, err)
	require.NoError(t, s.SetTranslation(1, "x"))
	assert.Equal(t, "x", s.TranslationList()[1])

	reloaded, err := Load(path, Options{})
	require.NoError(t, err)
	e, err := reloaded.Entry(1)
	require.NoError(t, err)
	assert.Equal(t, "x", e.Translation)
	assert.Equal(t, "Bye", e.Source)
}

func TestSetTranslationPersistenceFailure(t *testing.T) {
	b := newMemBackend(fiveEntries()...)
	b.failSave = errors.New("disk full")
	s := New(b, Options{})

	err := s.SetTranslation(0, "bir")
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "mem.po", pe.Path)

	// no rollback
	e, _ := s.Entry(0)
	assert.Equal(t, "bir", e.Translation)
	assert.Equal(t, "bir", s.TranslationList()[0])

	// editing continues after the failure
	b.failSave = nil
	require.NoError(t, s.SetTranslation(1, "iki"))
	assert.Equal(t, "bir", b.lastSaved(t)[0].Translation)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.po"), Options{})
	var ffe *FileFormatError
	assert.True(t, errors.As(err, &ffe))

	_, err = Load(writePO(t, "<html>not po</html>\n"), Options{})
	assert.True(t, errors.As(err, &ffe))
}

func TestTranslateOneScenario(t *testing.T) {
	path := writePO(t, helloBye)
	s, err := Load(path, Options{})
	require.NoError(t, err)

	fn := func(ctx context.Context, text string) (string, error) {
		if text == "Hello" {
			return "Merhaba", nil
		}
		return "", errors.New("unexpected source")
	}

	out, err := s.TranslateOne(context.Background(), 0, fn)
	require.NoError(t, err)
	assert.Equal(t, "Merhaba", out)

	e0, _ := s.Entry(0)
	e1, _ := s.Entry(1)
	assert.Equal(t, "Merhaba", e0.Translation)
	assert.Equal(t, "", e1.Translation)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "msgid \"Hello\"\nmsgstr \"Merhaba\"")
	assert.Contains(t, string(content), "msgid \"Bye\"\nmsgstr \"\"")
}

func TestTranslateOneFailureLeavesEntryUntouched(t *testing.T) {
	b := newMemBackend(models.Entry{Source: "Hello", Translation: "old", Fuzzy: true})
	s := New(b, Options{})

	_, err := s.TranslateOne(context.Background(), 0, func(ctx context.Context, text string) (string, error) {
		return "", errors.New("quota exceeded")
	})

	var te *TranslationError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "Hello", te.Text)

	e, _ := s.Entry(0)
	assert.Equal(t, "old", e.Translation)
	assert.True(t, e.Fuzzy)
	assert.Empty(t, b.saved)

	_, err = s.TranslateOne(context.Background(), 3, upper)
	var ie *IndexError
	assert.True(t, errors.As(err, &ie))
}

func TestDuplicateSourcesAddressedByIndex(t *testing.T) {
	b := newMemBackend(models.Entry{Source: "Open"}, models.Entry{Source: "Open", Context: "menu"})
	s := New(b, Options{})

	require.NoError(t, s.SetTranslation(1, "Aç"))

	assert.Equal(t, []string{"", "Aç"}, s.TranslationList())
	assert.Equal(t, "", b.lastSaved(t)[0].Translation)
	assert.Equal(t, "Aç", b.lastSaved(t)[1].Translation)
}

func TestTranslateAllOnlyFuzzyWithoutFuzzyEntries(t *testing.T) {
	entries := fiveEntries()
	entries[1].Translation = "kept"
	b := newMemBackend(entries...)
	s := New(b, Options{})

	calls := 0
	res, err := s.TranslateAll(context.Background(), func(ctx context.Context, text string) (string, error) {
		calls++
		return "changed", nil
	}, true)
	require.NoError(t, err)

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 5, res.Skipped)
	assert.Equal(t, []string{"", "kept", "", "", ""}, s.TranslationList())
	assert.Empty(t, b.saved)
}

func TestTranslateAllOnlyFuzzy(t *testing.T) {
	entries := fiveEntries()
	entries[1].Fuzzy = true
	entries[3].Fuzzy = true
	entries[4].Translation = "beş"
	s := New(newMemBackend(entries...), Options{})

	res, err := s.TranslateAll(context.Background(), upper, true)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3}, res.Translated)
	assert.Equal(t, []string{"", "T:two", "", "T:four", "beş"}, s.TranslationList())

	// fuzzy flags are left as they were
	e, _ := s.Entry(1)
	assert.True(t, e.Fuzzy)
}

// failOn returns a translator that fails on the nth call (1-based).
func failOn(n int) (func(context.Context, string) (string, error), *int) {
	calls := 0
	return func(ctx context.Context, text string) (string, error) {
		calls++
		if calls == n {
			return "", fmt.Errorf("service unavailable")
		}
		return "T:" + text, nil
	}, &calls
}

func TestTranslateAllStopOnError(t *testing.T) {
	b := newMemBackend(fiveEntries()...)
	s := New(b, Options{OnError: models.OnErrorStop, Persist: models.PersistBatch})

	fn, calls := failOn(3)
	res, err := s.TranslateAll(context.Background(), fn, false)

	var be *BatchError
	require.True(t, errors.As(err, &be))
	var te *TranslationError
	assert.True(t, errors.As(err, &te))
	assert.Equal(t, "three", te.Text)

	assert.Equal(t, 3, *calls)
	assert.Equal(t, 5, res.Total)
	assert.Equal(t, []int{0, 1}, res.Translated)
	assert.Equal(t, []int{2, 3, 4}, res.Incomplete)
	assert.Equal(t, res, be.Result)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, 2, res.Failures[0].Index)
	assert.False(t, res.Complete())

	assert.Equal(t, []string{"T:one", "T:two", "", "", ""}, s.TranslationList())

	// one save at the end of the pass, including the partial work
	require.Len(t, b.saved, 1)
	assert.Equal(t, "T:two", b.saved[0][1].Translation)
	assert.Equal(t, "", b.saved[0][2].Translation)
}

func TestTranslateAllContinueOnError(t *testing.T) {
	b := newMemBackend(fiveEntries()...)
	s := New(b, Options{OnError: models.OnErrorContinue})

	fn, calls := failOn(3)
	res, err := s.TranslateAll(context.Background(), fn, false)

	var be *BatchError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 5, *calls)
	assert.Equal(t, []int{0, 1, 3, 4}, res.Translated)
	assert.Equal(t, []int{2}, res.Incomplete)
	assert.Equal(t, []string{"T:one", "T:two", "", "T:four", "T:five"}, s.TranslationList())
}

func TestTranslateAllPersistPerEntry(t *testing.T) {
	b := newMemBackend(fiveEntries()...)
	s := New(b, Options{Persist: models.PersistEntry})

	fn, _ := failOn(3)
	_, err := s.TranslateAll(context.Background(), fn, false)
	require.Error(t, err)

	require.Len(t, b.saved, 2)
	assert.Equal(t, "T:one", b.saved[0][0].Translation)
	assert.Equal(t, "", b.saved[0][1].Translation)
	assert.Equal(t, "T:two", b.saved[1][1].Translation)
}

func TestTranslateAllSuccessSameForBothPersistModes(t *testing.T) {
	var finals [][]models.Entry
	for _, mode := range []string{models.PersistBatch, models.PersistEntry} {
		b := newMemBackend(fiveEntries()...)
		s := New(b, Options{Persist: mode})

		res, err := s.TranslateAll(context.Background(), upper, false)
		require.NoError(t, err, mode)
		assert.True(t, res.Complete())
		finals = append(finals, b.lastSaved(t))
	}
	assert.Equal(t, finals[0], finals[1])
}

func TestTranslateAllCancelled(t *testing.T) {
	b := newMemBackend(fiveEntries()...)
	s := New(b, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	res, err := s.TranslateAll(ctx, func(ctx context.Context, text string) (string, error) {
		calls++
		if calls == 2 {
			cancel()
		}
		return "T:" + text, nil
	}, false)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Cancelled)
	assert.Equal(t, []int{0, 1}, res.Translated)
	assert.Equal(t, []int{2, 3, 4}, res.Incomplete)
	assert.Equal(t, "T:two", b.lastSaved(t)[1].Translation)
}

func TestTranslateAllSaveFailure(t *testing.T) {
	b := newMemBackend(fiveEntries()...)
	b.failSave = errors.New("read-only file system")
	s := New(b, Options{})

	fn, _ := failOn(4)
	res, err := s.TranslateAll(context.Background(), fn, false)

	var be *BatchError
	var pe *PersistenceError
	assert.True(t, errors.As(err, &be))
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, []int{0, 1, 2}, res.Translated)
	assert.Equal(t, "T:three", s.TranslationList()[2])
}

func TestTranslateAllSelectsFirstEntry(t *testing.T) {
	s := New(newMemBackend(fiveEntries()...), Options{})
	_, err := s.Select(3)
	require.NoError(t, err)

	_, err = s.TranslateAll(context.Background(), upper, false)
	require.NoError(t, err)

	sel, ok := s.Selection()
	require.True(t, ok)
	assert.Equal(t, 0, sel.Index)
	assert.Equal(t, "T:one", sel.Entry.Translation)
}

func TestOnChange(t *testing.T) {
	s := New(newMemBackend(fiveEntries()...), Options{})

	var changes []Change
	s.OnChange(func(c Change) {
		// listeners may read the store
		_ = s.TranslationList()
		changes = append(changes, c)
	})

	_, _ = s.Select(1)
	_ = s.SetTranslation(1, "iki")
	_ = s.SetFuzzy(1, true)
	_ = s.SetFuzzy(1, true)
	_, _ = s.TranslateOne(context.Background(), 2, upper)

	assert.Equal(t, []Change{
		{Kind: ChangeSelection, Index: 1},
		{Kind: ChangeTranslation, Index: 1},
		{Kind: ChangeFuzzy, Index: 1},
		{Kind: ChangeTranslation, Index: 2},
	}, changes)

	changes = nil
	_, _ = s.TranslateAll(context.Background(), upper, false)
	require.Len(t, changes, 7)
	assert.Equal(t, Change{Kind: ChangeSelection, Index: 0}, changes[5])
	assert.Equal(t, Change{Kind: ChangeBatch, Index: -1}, changes[6])
	assert.Equal(t, "batch", changes[6].Kind.String())
}

func TestStats(t *testing.T) {
	s := New(newMemBackend(
		models.Entry{Source: "a"},
		models.Entry{Source: "b", Translation: "B"},
		models.Entry{Source: "c", Translation: "C", Fuzzy: true},
		models.Entry{Source: "d", Fuzzy: true},
	), Options{})

	assert.Equal(t, models.Stats{Total: 4, Translated: 1, Fuzzy: 2, Untranslated: 1}, s.Stats())
}

// Package store holds the entries of one open catalog and keeps the source
// and translation projections, the selection and the file on disk in step.
//
// Entries are addressed by index only. Two entries with the same source text
// are distinct and never looked up by content.
package store

import (
	"context"
	"sync"

	"github.com/postudio/postudio-terminal/pkg/files"
	"github.com/postudio/postudio-terminal/pkg/models"
	"github.com/postudio/postudio-terminal/pkg/translate"
)

// Backend loads and saves the entries of a catalog.
type Backend interface {
	Path() string
	Entries() []models.Entry
	Save(entries []models.Entry) error
}

// Options control batch translation.
type Options struct {
	// OnError is models.OnErrorStop or models.OnErrorContinue.
	OnError string
	// Persist is models.PersistBatch or models.PersistEntry.
	Persist string
}

// ChangeKind says what a Change touched.
type ChangeKind int

const (
	ChangeTranslation ChangeKind = iota
	ChangeFuzzy
	ChangeSelection
	// ChangeBatch fires once after TranslateAll, with Index -1.
	ChangeBatch
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeTranslation:
		return "translation"
	case ChangeFuzzy:
		return "fuzzy"
	case ChangeSelection:
		return "selection"
	case ChangeBatch:
		return "batch"
	default:
		return "unknown"
	}
}

// Change is passed to listeners after a mutation.
type Change struct {
	Kind  ChangeKind
	Index int
}

type Store struct {
	mu      sync.Mutex
	backend Backend
	opts    Options

	entries      []models.Entry
	sources      []string
	translations []string
	selected     int

	listeners []func(Change)
}

// Load opens the catalog at path.
func Load(path string, opts Options) (*Store, error) {
	catalog, err := files.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return New(catalog, opts), nil
}

// New builds a store over backend. Nothing is selected yet.
func New(backend Backend, opts Options) *Store {
	entries := backend.Entries()
	s := &Store{
		backend:      backend,
		opts:         opts,
		entries:      entries,
		sources:      make([]string, len(entries)),
		translations: make([]string, len(entries)),
		selected:     -1,
	}
	for i, e := range entries {
		s.sources[i] = e.Source
		s.translations[i] = e.Translation
	}
	return s
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.backend.Path()
}

// Options returns the batch options the store was built with.
func (s *Store) Options() Options {
	return s.opts
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of all entries.
func (s *Store) Entries() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Entry(nil), s.entries...)
}

func (s *Store) Entry(index int) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return models.Entry{}, err
	}
	return s.entries[index], nil
}

// SourceList is the source projection, index-aligned with Entries.
func (s *Store) SourceList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sources...)
}

// TranslationList is the translation projection, index-aligned with Entries.
func (s *Store) TranslationList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.translations...)
}

// Select makes index the current selection.
func (s *Store) Select(index int) (models.Selection, error) {
	s.mu.Lock()
	if err := s.checkIndex(index); err != nil {
		s.mu.Unlock()
		return models.Selection{}, err
	}
	s.selected = index
	sel := models.Selection{Index: index, Entry: s.entries[index]}
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeSelection, Index: index})
	return sel, nil
}

// Selection returns the current selection, false when there is none.
func (s *Store) Selection() (models.Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= len(s.entries) {
		return models.Selection{}, false
	}
	return models.Selection{Index: s.selected, Entry: s.entries[s.selected]}, true
}

// SetTranslation replaces the translation at index and saves the catalog.
// On a save failure the new text stays in memory.
func (s *Store) SetTranslation(index int, text string) error {
	s.mu.Lock()
	if err := s.checkIndex(index); err != nil {
		s.mu.Unlock()
		return err
	}
	s.setTranslationLocked(index, text)
	err := s.saveLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeTranslation, Index: index})
	return err
}

// SetFuzzy sets or clears the fuzzy flag at index and saves the catalog.
// Setting the current value does nothing.
func (s *Store) SetFuzzy(index int, fuzzy bool) error {
	s.mu.Lock()
	if err := s.checkIndex(index); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.entries[index].Fuzzy == fuzzy {
		s.mu.Unlock()
		return nil
	}
	s.entries[index].Fuzzy = fuzzy
	err := s.saveLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeFuzzy, Index: index})
	return err
}

// TranslateOne translates the source at index with fn, stores the result and
// saves. When fn fails the entry is left untouched and a *TranslationError is
// returned. A save failure returns the translation together with a
// *PersistenceError.
func (s *Store) TranslateOne(ctx context.Context, index int, fn translate.Func) (string, error) {
	s.mu.Lock()
	if err := s.checkIndex(index); err != nil {
		s.mu.Unlock()
		return "", err
	}
	source := s.entries[index].Source
	s.mu.Unlock()

	out, err := fn(ctx, source)
	if err != nil {
		return "", translationError(source, err)
	}

	s.mu.Lock()
	s.setTranslationLocked(index, out)
	err = s.saveLocked()
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeTranslation, Index: index})
	return out, err
}

// Stats counts entries by status.
func (s *Store) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := models.Stats{Total: len(s.entries)}
	for _, e := range s.entries {
		switch e.Status() {
		case models.StatusFuzzy:
			st.Fuzzy++
		case models.StatusTranslated:
			st.Translated++
		default:
			st.Untranslated++
		}
	}
	return st
}

// OnChange registers fn to run after every mutation. Listeners run on the
// mutating goroutine once the store is unlocked, so they may read the store.
func (s *Store) OnChange(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(c Change) {
	s.mu.Lock()
	listeners := append(([]func(Change))(nil), s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(c)
	}
}

func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.entries) {
		return &IndexError{Index: index, Len: len(s.entries)}
	}
	return nil
}

func (s *Store) setTranslationLocked(index int, text string) {
	s.entries[index].Translation = text
	s.translations[index] = text
}

func (s *Store) saveLocked() error {
	return persistenceError(s.backend.Path(), s.backend.Save(s.entries))
}

package store

import (
	"context"
	"errors"

	"github.com/postudio/postudio-terminal/pkg/models"
	"github.com/postudio/postudio-terminal/pkg/translate"
)

// Failure is one entry a batch could not translate.
type Failure struct {
	Index int
	Err   error
}

// BatchResult summarises a TranslateAll pass. Indices are in entry order.
type BatchResult struct {
	// Total is the number of candidate entries (all, or only fuzzy ones).
	Total      int
	Skipped    int
	Translated []int
	// Incomplete lists candidates left untouched: failed entries and, when
	// the pass stopped early, every candidate after them.
	Incomplete []int
	Failures   []Failure
	Cancelled  bool
}

// Complete reports whether every candidate was translated.
func (r BatchResult) Complete() bool {
	return len(r.Incomplete) == 0
}

// TranslateAll translates every entry in order, or only fuzzy entries when
// onlyFuzzy is set. Entries translated before a failure stay translated.
//
// With OnError "stop" the pass ends at the first failure; with "continue" it
// moves on to the next entry. A cancelled ctx ends the pass between entries.
// With Persist "batch" the catalog is saved once at the end of the pass, even
// one that ended early; with "entry" it is saved after each translation.
//
// Untranslated entries are reported through a *BatchError; a failed save is
// reported as a *PersistenceError, joined with the *BatchError if both occur.
// After the pass the first entry is selected.
func (s *Store) TranslateAll(ctx context.Context, fn translate.Func, onlyFuzzy bool) (BatchResult, error) {
	s.mu.Lock()
	var candidates []int
	var sources []string
	for i, e := range s.entries {
		if onlyFuzzy && !e.Fuzzy {
			continue
		}
		candidates = append(candidates, i)
		sources = append(sources, e.Source)
	}
	res := BatchResult{Total: len(candidates), Skipped: len(s.entries) - len(candidates)}
	s.mu.Unlock()

	perEntry := s.opts.Persist == models.PersistEntry
	keepGoing := s.opts.OnError == models.OnErrorContinue

	var batchErr, saveErr error
	for n, index := range candidates {
		if err := ctx.Err(); err != nil {
			res.Cancelled = true
			res.Incomplete = append(res.Incomplete, candidates[n:]...)
			if batchErr == nil {
				batchErr = err
			}
			break
		}

		out, err := fn(ctx, sources[n])
		if err != nil {
			terr := translationError(sources[n], err)
			res.Failures = append(res.Failures, Failure{Index: index, Err: terr})
			if batchErr == nil {
				batchErr = terr
			}
			if ctx.Err() != nil {
				res.Cancelled = true
			}
			if keepGoing && !res.Cancelled {
				res.Incomplete = append(res.Incomplete, index)
				continue
			}
			res.Incomplete = append(res.Incomplete, candidates[n:]...)
			break
		}

		s.mu.Lock()
		s.setTranslationLocked(index, out)
		if perEntry {
			if err := s.saveLocked(); err != nil && saveErr == nil {
				saveErr = err
			}
		}
		s.mu.Unlock()

		res.Translated = append(res.Translated, index)
		s.notify(Change{Kind: ChangeTranslation, Index: index})
	}

	if !perEntry && len(res.Translated) > 0 {
		s.mu.Lock()
		saveErr = s.saveLocked()
		s.mu.Unlock()
	}

	if s.Len() > 0 {
		_, _ = s.Select(0)
	}
	s.notify(Change{Kind: ChangeBatch, Index: -1})

	switch {
	case batchErr != nil && saveErr != nil:
		return res, errors.Join(&BatchError{Result: res, Err: batchErr}, saveErr)
	case batchErr != nil:
		return res, &BatchError{Result: res, Err: batchErr}
	default:
		return res, saveErr
	}
}

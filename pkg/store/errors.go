package store

import (
	"errors"
	"fmt"

	"github.com/postudio/postudio-terminal/pkg/files"
	"github.com/postudio/postudio-terminal/pkg/translate"
)

type (
	// FileFormatError reports a catalog that could not be loaded.
	FileFormatError = files.FileFormatError
	// PersistenceError reports a failed write. The in-memory change is kept.
	PersistenceError = files.PersistenceError
	// TranslationError reports a failed translation call.
	TranslationError = translate.TranslationError
)

// IndexError reports an index outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

// BatchError reports a batch that left entries untranslated.
type BatchError struct {
	Result BatchResult
	Err    error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d entries not translated: %v", len(e.Result.Incomplete), e.Result.Total, e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

func translationError(text string, err error) error {
	var te *TranslationError
	if errors.As(err, &te) {
		return err
	}
	return &TranslationError{Text: text, Err: err}
}

func persistenceError(path string, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Path: path, Err: err}
}

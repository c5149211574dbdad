// Package translate provides machine translation providers behind a common
// Translator interface, plus caching and throttling decorators.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Translator turns text into the target language.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Func is a translator bound to a target language.
type Func func(ctx context.Context, text string) (string, error)

// Bind fixes the target language of t.
func Bind(t Translator, targetLang string) Func {
	return func(ctx context.Context, text string) (string, error) {
		return t.Translate(ctx, text, targetLang)
	}
}

// Config selects and configures a provider.
type Config struct {
	Provider   string
	APIKey     string
	SourceLang string
	Model      string
	BaseURL    string
	Timeout    time.Duration
}

const defaultTimeout = 20 * time.Second

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// TranslationError reports a failed call to a provider.
type TranslationError struct {
	Provider string
	Text     string
	Err      error
}

func (e *TranslationError) Error() string {
	provider := e.Provider
	if provider == "" {
		provider = "translator"
	}
	return fmt.Sprintf("%s failed to translate %q: %v", provider, abbreviate(e.Text, 40), e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }

// wrapError wraps err unless it already is a *TranslationError.
func wrapError(provider, text string, err error) error {
	if err == nil {
		return nil
	}
	var te *TranslationError
	if errors.As(err, &te) {
		return err
	}
	return &TranslationError{Provider: provider, Text: text, Err: err}
}

// ParseLanguage validates a BCP 47 language code such as "tr", "TR" or "en-GB".
func ParseLanguage(code string) (language.Tag, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return language.Und, fmt.Errorf("language code is empty")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return tag, nil
}

func abbreviate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

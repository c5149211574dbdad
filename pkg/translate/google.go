package translate

import (
	"context"
	"fmt"

	"github.com/bregydoc/gtranslate"
)

// Google uses the public Google Translate endpoint through gtranslate.
type Google struct {
	sourceLang string
	translate  func(text string, params gtranslate.TranslationParams) (string, error)
}

func NewGoogle(cfg Config) (Translator, error) {
	source := "en"
	if cfg.SourceLang != "" {
		tag, err := ParseLanguage(cfg.SourceLang)
		if err != nil {
			return nil, fmt.Errorf("google: %w", err)
		}
		source = tag.String()
	}
	return &Google{sourceLang: source, translate: gtranslate.TranslateWithParams}, nil
}

func (g *Google) Name() string { return ProviderGoogle }

// Translate runs the blocking call in a goroutine so ctx cancellation is honoured.
func (g *Google) Translate(ctx context.Context, text, targetLang string) (string, error) {
	tag, err := ParseLanguage(targetLang)
	if err != nil {
		return "", wrapError(ProviderGoogle, text, err)
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		out, err := g.translate(text, gtranslate.TranslationParams{
			From: g.sourceLang,
			To:   tag.String(),
		})
		done <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return "", wrapError(ProviderGoogle, text, ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", wrapError(ProviderGoogle, text, res.err)
		}
		return res.text, nil
	}
}

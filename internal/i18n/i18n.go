// Package i18n localizes interface messages.
package i18n

import (
	"embed"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

var localeFiles = []string{"active.en.toml", "active.tr.toml"}

// Messages renders message IDs in one interface language, falling back to
// English and finally to the ID itself.
type Messages struct {
	localizer *i18n.Localizer
	lang      string
}

// New loads the embedded catalogues for lang ("en", "tr", ...).
func New(lang string) (*Messages, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Messages{
		localizer: i18n.NewLocalizer(bundle, tag.String(), language.English.String()),
		lang:      tag.String(),
	}, nil
}

// Language returns the requested interface language.
func (m *Messages) Language() string {
	return m.lang
}

// T renders id with optional template data.
func (m *Messages) T(id string, data map[string]interface{}) string {
	msg, err := m.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}

// Languages lists the bundled interface languages.
func Languages() []string {
	return []string{"en", "tr"}
}

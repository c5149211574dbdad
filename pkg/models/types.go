package models

// Entry is one translatable message as the editor sees it.
type Entry struct {
	Source      string   `json:"source" yaml:"source"`
	Translation string   `json:"translation" yaml:"translation"`
	Fuzzy       bool     `json:"fuzzy" yaml:"fuzzy"`
	Context     string   `json:"context,omitempty" yaml:"context,omitempty"`
	Comment     string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Flags       []string `json:"flags,omitempty" yaml:"flags,omitempty"`
	References  []string `json:"references,omitempty" yaml:"references,omitempty"`
	Plural      bool     `json:"plural,omitempty" yaml:"plural,omitempty"`
}

// IsTranslated reports whether the entry has a non-empty translation.
func (e Entry) IsTranslated() bool {
	return e.Translation != ""
}

// Status returns a short label used by listings.
func (e Entry) Status() string {
	switch {
	case e.Fuzzy:
		return StatusFuzzy
	case e.IsTranslated():
		return StatusTranslated
	default:
		return StatusUntranslated
	}
}

const (
	StatusUntranslated = "untranslated"
	StatusTranslated   = "translated"
	StatusFuzzy        = "fuzzy"
)

// Selection is the currently active entry of a store.
type Selection struct {
	Index int
	Entry Entry
}

// Stats summarises a catalog.
type Stats struct {
	Total        int `json:"total" yaml:"total"`
	Translated   int `json:"translated" yaml:"translated"`
	Fuzzy        int `json:"fuzzy" yaml:"fuzzy"`
	Untranslated int `json:"untranslated" yaml:"untranslated"`
}

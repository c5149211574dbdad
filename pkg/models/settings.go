package models

// Settings represents the application configuration
type Settings struct {
	LastFile    string              `yaml:"last_file"`
	UI          UISettings          `yaml:"ui"`
	Translation TranslationSettings `yaml:"translation"`
}

// UISettings controls UI preferences
type UISettings struct {
	Theme    string `yaml:"theme"`    // "dark" or "light"
	Language string `yaml:"language"` // locale of interface messages
}

// TranslationSettings controls the machine translation provider and batch behaviour
type TranslationSettings struct {
	Provider   string `yaml:"provider"` // deepl, google, openai
	SourceLang string `yaml:"source_lang"`
	TargetLang string `yaml:"target_lang"`
	Model      string `yaml:"model,omitempty"`
	BaseURL    string `yaml:"base_url,omitempty"`
	DelayMS    int    `yaml:"delay_ms"`
	Persist    string `yaml:"persist"`  // "batch" or "entry"
	OnError    string `yaml:"on_error"` // "stop" or "continue"
	Cache      bool   `yaml:"cache"`
}

const (
	ThemeDark  = "dark"
	ThemeLight = "light"

	PersistBatch = "batch"
	PersistEntry = "entry"

	OnErrorStop     = "stop"
	OnErrorContinue = "continue"

	ProviderDeepL  = "deepl"
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

// DefaultSettings returns the default configuration
func DefaultSettings() *Settings {
	return &Settings{
		UI: UISettings{
			Theme:    ThemeDark,
			Language: "en",
		},
		Translation: TranslationSettings{
			Provider:   ProviderDeepL,
			TargetLang: "TR",
			DelayMS:    0,
			Persist:    PersistBatch,
			OnError:    OnErrorStop,
			Cache:      false,
		},
	}
}

// Normalize fills zero values with defaults so partially written files still work.
func (s *Settings) Normalize() {
	def := DefaultSettings()
	if s.UI.Theme != ThemeLight {
		s.UI.Theme = ThemeDark
	}
	if s.UI.Language == "" {
		s.UI.Language = def.UI.Language
	}
	if s.Translation.Provider == "" {
		s.Translation.Provider = def.Translation.Provider
	}
	if s.Translation.TargetLang == "" {
		s.Translation.TargetLang = def.Translation.TargetLang
	}
	if s.Translation.Persist != PersistEntry {
		s.Translation.Persist = PersistBatch
	}
	if s.Translation.OnError != OnErrorContinue {
		s.Translation.OnError = OnErrorStop
	}
	if s.Translation.DelayMS < 0 {
		s.Translation.DelayMS = 0
	}
}

// IsLight reports whether the light theme is active.
func (s *Settings) IsLight() bool {
	return s.UI.Theme == ThemeLight
}

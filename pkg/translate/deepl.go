package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	ProviderDeepL  = "deepl"
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"

	DeepLKeyEnv  = "DEEPL_AUTH_KEY"
	OpenAIKeyEnv = "OPENAI_API_KEY"

	deepLProURL  = "https://api.deepl.com"
	deepLFreeURL = "https://api-free.deepl.com"
)

// DeepL calls the DeepL REST API.
type DeepL struct {
	apiKey     string
	baseURL    string
	sourceLang string
	http       *resty.Client
}

type deepLRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
	SourceLang string   `json:"source_lang,omitempty"`
}

type deepLResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
}

// NewDeepL builds a DeepL provider. Free-tier keys end in ":fx" and use the
// free endpoint.
func NewDeepL(cfg Config) (Translator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepl: %s is not set", DeepLKeyEnv)
	}
	base := cfg.BaseURL
	if base == "" {
		base = deepLProURL
		if strings.HasSuffix(cfg.APIKey, ":fx") {
			base = deepLFreeURL
		}
	}
	source := ""
	if cfg.SourceLang != "" {
		tag, err := ParseLanguage(cfg.SourceLang)
		if err != nil {
			return nil, fmt.Errorf("deepl: %w", err)
		}
		b, _ := tag.Base()
		source = strings.ToUpper(b.String())
	}
	return &DeepL{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(base, "/"),
		sourceLang: source,
		http:       resty.New().SetTimeout(cfg.timeout()),
	}, nil
}

func (d *DeepL) Name() string { return ProviderDeepL }

func (d *DeepL) Translate(ctx context.Context, text, targetLang string) (string, error) {
	tag, err := ParseLanguage(targetLang)
	if err != nil {
		return "", wrapError(ProviderDeepL, text, err)
	}

	var resp deepLResponse
	r, err := d.http.R().SetContext(ctx).
		SetHeader("Authorization", "DeepL-Auth-Key "+d.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(deepLRequest{
			Text:       []string{text},
			TargetLang: strings.ToUpper(tag.String()),
			SourceLang: d.sourceLang,
		}).
		SetResult(&resp).
		Post(d.baseURL + "/v2/translate")
	if err != nil {
		return "", wrapError(ProviderDeepL, text, err)
	}
	if r.IsError() {
		return "", wrapError(ProviderDeepL, text, fmt.Errorf("%s; body: %s", r.Status(), abbreviate(r.String(), 200)))
	}
	if len(resp.Translations) == 0 {
		return "", wrapError(ProviderDeepL, text, fmt.Errorf("no translations returned"))
	}
	return resp.Translations[0].Text, nil
}

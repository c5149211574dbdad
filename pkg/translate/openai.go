package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const openAISystemPrompt = "You are a professional software localizer. Translate the user's message into the language with code %s. " +
	"Keep placeholders such as %%s, %%d and {name}, markup and surrounding whitespace unchanged. Reply with the translation only."

// OpenAI translates with a chat completion model.
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(cfg Config) (Translator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %s is not set", OpenAIKeyEnv)
	}
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{client: openai.NewClientWithConfig(config), model: model}, nil
}

func (o *OpenAI) Name() string { return ProviderOpenAI }

func (o *OpenAI) Translate(ctx context.Context, text, targetLang string) (string, error) {
	tag, err := ParseLanguage(targetLang)
	if err != nil {
		return "", wrapError(ProviderOpenAI, text, err)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(openAISystemPrompt, tag.String()),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", wrapError(ProviderOpenAI, text, err)
	}
	if len(resp.Choices) == 0 {
		return "", wrapError(ProviderOpenAI, text, fmt.Errorf("no response from model"))
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

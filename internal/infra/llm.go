package infra

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// RecipeModel is the LLM boundary used by the recipe workshop. It holds one
// OpenAI-compatible client and always requests JSON output so responses can
// be unmarshalled into a concept structure.
type RecipeModel struct {
	client *openai.LLM
	model  string
}

// NewRecipeModel builds the client. Returns an error when no API key is
// configured; the workshop endpoints then respond 503.
func NewRecipeModel(apiKey, model string) (*RecipeModel, error) {
	if apiKey == "" {
		return nil, errors.New("llm: missing API key")
	}
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("llm: create client: %w", err)
	}
	return &RecipeModel{client: client, model: model}, nil
}

// Complete sends a system+user prompt pair and returns the raw text of the
// first choice.
func (m *RecipeModel) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := m.client.GenerateContent(ctx,
		[]llms.MessageContent{
			llms.TextParts(llms.ChatMessageTypeSystem, system),
			llms.TextParts(llms.ChatMessageTypeHuman, user),
		},
		llms.WithModel(m.model),
		llms.WithTemperature(0.7),
		llms.WithJSONMode(),
	)
	if err != nil {
		return "", fmt.Errorf("llm: generate: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", errors.New("llm: empty response")
	}
	return resp.Choices[0].Content, nil
}

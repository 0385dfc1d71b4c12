// Package synthesis turns a retrieval prompt into an answer using an
// OpenAI chat model.
package synthesis

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
)

// DefaultModel is the chat model used unless configured otherwise.
const DefaultModel = "gpt-4o-mini"

// Generator produces grounded answers from assembled context prompts.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a Generator backed by the given OpenAI client.
// An empty model falls back to DefaultModel.
func NewGenerator(client *openai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{
		client: client,
		model:  model,
	}
}

// Complete sends the prompt as a single user message and returns the
// first choice's text.
func (g *Generator) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(g.model),
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

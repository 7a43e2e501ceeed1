package bot

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIDelegate is the alternative provider, selected with
// BotProvider "openai" in the config file.
type OpenAIDelegate struct {
	client *openai.Client
	model  string
}

func NewOpenAIDelegate(apiKey string) (*OpenAIDelegate, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	return &OpenAIDelegate{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4oMini,
	}, nil
}

func (d *OpenAIDelegate) Generate(ctx context.Context, prompt string, systemContext string) (string, error) {
	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemContext,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

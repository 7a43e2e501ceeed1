package bot

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const geminiModel = "gemini-2.5-flash"

// GeminiDelegate generates replies through the Google GenAI API.
type GeminiDelegate struct {
	client *genai.Client
	model  string
}

func NewGeminiDelegate(ctx context.Context, apiKey string) (*GeminiDelegate, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiDelegate{
		client: client,
		model:  geminiModel,
	}, nil
}

func (d *GeminiDelegate) Generate(ctx context.Context, prompt string, systemContext string) (string, error) {
	result, err := d.client.Models.GenerateContent(ctx,
		d.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemContext, genai.RoleUser),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	return result.Text(), nil
}

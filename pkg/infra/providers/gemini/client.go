package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers"
	"google.golang.org/genai"
)

type client struct {
	genaiClient *genai.Client
}

func NewGeminiClient(apiKey string) (providers.Client, error) {
	ctx := context.Background()
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &client{
		genaiClient: genaiClient,
	}, nil
}

func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}

	result, err := c.genaiClient.Models.GenerateContent(
		ctx,
		config.Model,
		genai.Text(prompt),
		c.generateConfig(config),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return c.buildResponse(ctx, config, result)
}

func (c *client) AskImage(
	ctx context.Context,
	config *providers.Config,
	prompt string,
	image []byte,
	mimeType string,
) (*providers.CompletionResponse, error) {
	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}

	parts := []*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(image, mimeType),
	}

	result, err := c.genaiClient.Models.GenerateContent(
		ctx,
		config.Model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		c.generateConfig(config),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	return c.buildResponse(ctx, config, result)
}

func (c *client) generateConfig(config *providers.Config) *genai.GenerateContentConfig {
	if config.SystemPrompt == "" {
		return nil
	}
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: config.SystemPrompt}},
			Role:  "system",
		},
	}
}

func (c *client) buildResponse(
	ctx context.Context,
	config *providers.Config,
	result *genai.GenerateContentResponse,
) (*providers.CompletionResponse, error) {
	responseText := result.Text()
	if responseText == "" {
		// Gemini returns an empty candidate list when its own safety
		// filter blocks the prompt.
		return nil, providers.ErrRefused
	}

	id := "gemini"
	if requestID := ctx.Value("requestID"); requestID != nil {
		id = fmt.Sprintf("gemini-%v", requestID)
	} else {
		id = fmt.Sprintf("gemini-%d", time.Now().UnixNano())
	}

	completionResp := &providers.CompletionResponse{
		ID:       id,
		Model:    config.Model,
		Response: responseText,
	}

	if result.UsageMetadata != nil {
		completionResp.Usage = providers.Usage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return completionResp, nil
}

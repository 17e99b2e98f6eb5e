package providers

import (
	"context"
	"errors"
)

// ErrRefused marks a completion the vendor declined to produce (safety
// filters, empty candidate list). Callers map it to a fail-closed verdict.
var ErrRefused = errors.New("completion refused by provider")

type Config struct {
	Credentials  Credentials            `json:"credentials"`
	Model        string                 `json:"model"`
	MaxTokens    int                    `json:"max_tokens,omitempty"`
	Temperature  float64                `json:"temperature,omitempty"`
	SystemPrompt string                 `json:"system_prompt,omitempty"`
	Options      map[string]interface{} `json:"options,omitempty"`
}

type Credentials struct {
	ApiKey string `json:"api_key"`
}

//go:generate mockery --name=Client --dir=. --output=./mocks --filename=client_mock.go --case=underscore --with-expecter

// Client is one remote classifier vendor. Implementations return the raw
// completion text; response-shape validation happens in the analyzer.
type Client interface {
	Ask(ctx context.Context, config *Config, prompt string) (*CompletionResponse, error)
	AskImage(ctx context.Context, config *Config, prompt string, image []byte, mimeType string) (*CompletionResponse, error)
}

package factory

import (
	"fmt"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers/anthropic"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers/gemini"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers/openai"
)

const (
	ProviderGoogle    = "google"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Get returns the classifier client for the configured provider. The gemini
// client needs the API key at construction time; the others take it per call.
func Get(provider, apiKey string) (providers.Client, error) {
	switch provider {
	case ProviderGoogle:
		return gemini.NewGeminiClient(apiKey)
	case ProviderOpenAI:
		return openai.NewOpenaiClient(), nil
	case ProviderAnthropic:
		return anthropic.NewAnthropicClient(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

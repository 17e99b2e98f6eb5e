package mocks

import (
	"context"
	"fmt"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers"
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Ask(ctx context.Context, config *providers.Config, prompt string) (*providers.CompletionResponse, error) {
	args := m.Called(ctx, config, prompt)
	resp, ok := args.Get(0).(*providers.CompletionResponse)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *providers.CompletionResponse, got %T", args.Get(0))
	}
	return resp, args.Error(1)
}

func (m *MockClient) AskImage(ctx context.Context, config *providers.Config, prompt string, image []byte, mimeType string) (*providers.CompletionResponse, error) {
	args := m.Called(ctx, config, prompt, image, mimeType)
	resp, ok := args.Get(0).(*providers.CompletionResponse)
	if !ok && args.Get(0) != nil {
		return nil, fmt.Errorf("expected *providers.CompletionResponse, got %T", args.Get(0))
	}
	return resp, args.Error(1)
}

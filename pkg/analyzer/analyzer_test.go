package analyzer

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/verdict"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/httpx"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testAnalyzer(client providers.Client) *Analyzer {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewAnalyzer(
		logger,
		client,
		ProviderConfig("test-key", "test-model"),
		httpx.NewCircuitBreaker("test", time.Second, 100),
		nil,
		time.Second,
	)
}

func completion(text string) *providers.CompletionResponse {
	return &providers.CompletionResponse{ID: "cmpl-1", Model: "test-model", Response: text}
}

func TestAnalyze_Success(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(completion(`{"safe": false, "category": "violence", "confidence": 91}`), nil)

	v := testAnalyzer(client).Analyze(context.Background(), "some page text")

	assert.False(t, v.Safe)
	assert.Equal(t, "violence", v.Category)
	assert.Equal(t, 91, v.Confidence)
	client.AssertExpectations(t)
}

func TestAnalyze_ProviderRefusal(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, providers.ErrRefused)

	v := testAnalyzer(client).Analyze(context.Background(), "some page text")

	assert.False(t, v.Safe)
	assert.Equal(t, verdict.CategorySystemBlocked, v.Category)
	assert.Equal(t, 90, v.Confidence)
}

func TestAnalyze_TransportError(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection reset"))

	v := testAnalyzer(client).Analyze(context.Background(), "some page text")

	assert.False(t, v.Safe)
	assert.Equal(t, verdict.CategoryFlaggedBySystem, v.Category)
}

func TestAnalyze_MalformedResponse(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(completion("I'd rather write prose than JSON."), nil)

	v := testAnalyzer(client).Analyze(context.Background(), "some page text")

	assert.False(t, v.Safe)
	assert.Equal(t, verdict.CategoryProcessingError, v.Category)
	assert.Equal(t, 50, v.Confidence)
}

func TestAnalyzeImage_Success(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("AskImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "image/png").
		Return(completion(`{"safe": true, "confidence": 97}`), nil)

	v := testAnalyzer(client).AnalyzeImage(context.Background(), []byte{1, 2, 3}, "image/png", "a cat photo")

	assert.True(t, v.Safe)
	assert.Equal(t, 97, v.Confidence)
	client.AssertExpectations(t)
}

func TestAnalyzeImage_FailureKeepsExplicitContentCopy(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("AskImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("timeout"))

	v := testAnalyzer(client).AnalyzeImage(context.Background(), []byte{1}, "image/jpeg", "")

	assert.False(t, v.Safe)
	assert.Equal(t, "explicit_content", v.Category)
}

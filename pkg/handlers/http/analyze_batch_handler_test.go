package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/analyzer"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/httpx"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers/mocks"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestAnalyzer(client providers.Client) *analyzer.Analyzer {
	return analyzer.NewAnalyzer(
		testLogger(),
		client,
		analyzer.ProviderConfig("test-key", "test-model"),
		httpx.NewCircuitBreaker("test", time.Second, 100),
		nil,
		time.Second,
	)
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) (int, map[string]json.RawMessage) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestAnalyzeBatchHandler(t *testing.T) {
	client := new(mocks.MockClient)
	handler := NewAnalyzeBatchHandler(testLogger(), newTestAnalyzer(client))

	app := fiber.New()
	app.Post("/analyze-batch", handler.Handle)

	t.Run("empty batch returns empty results without a classifier call", func(t *testing.T) {
		status, body := postJSON(t, app, "/analyze-batch", map[string]interface{}{
			"contents": []string{},
		})
		assert.Equal(t, fiber.StatusOK, status)

		var results []json.RawMessage
		require.NoError(t, json.Unmarshal(body["results"], &results))
		assert.Empty(t, results)
		client.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("oversized batch is rejected", func(t *testing.T) {
		contents := make([]string, 51)
		for i := range contents {
			contents[i] = "item"
		}
		status, body := postJSON(t, app, "/analyze-batch", map[string]interface{}{
			"contents": contents,
		})
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, string(body["error"]), "50")
		client.AssertNotCalled(t, "Ask", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("valid batch returns one verdict per item", func(t *testing.T) {
		client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
			Return(&providers.CompletionResponse{
				Response: `[{"safe": true}, {"safe": false, "category": "scam"}]`,
			}, nil).Once()

		status, body := postJSON(t, app, "/analyze-batch", map[string]interface{}{
			"contents": []string{"first", "second"},
		})
		assert.Equal(t, fiber.StatusOK, status)

		var results []map[string]interface{}
		require.NoError(t, json.Unmarshal(body["results"], &results))
		require.Len(t, results, 2)
		assert.Equal(t, true, results[0]["safe"])
		assert.Equal(t, "scam", results[1]["category"])
		client.AssertExpectations(t)
	})
}

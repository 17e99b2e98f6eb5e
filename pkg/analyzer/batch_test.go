package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/verdict"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/providers/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeBatch_SizeValidation(t *testing.T) {
	a := testAnalyzer(new(mocks.MockClient))

	_, err := a.AnalyzeBatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrBatchSize)

	big := make([]string, 51)
	_, err = a.AnalyzeBatch(context.Background(), big)
	assert.ErrorIs(t, err, ErrBatchSize)
}

func TestAnalyzeBatch_OneVerdictPerItem(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(completion(`[
			{"safe": true, "confidence": 90},
			{"safe": false, "category": "scam", "confidence": 80},
			{"safe": true, "confidence": 70}
		]`), nil)

	results, err := testAnalyzer(client).AnalyzeBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Safe)
	assert.False(t, results[1].Safe)
	assert.Equal(t, "scam", results[1].Category)
	assert.True(t, results[2].Safe)
}

func TestAnalyzeBatch_SingleObjectWrapped(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(completion(`{"safe": false, "category": "violence"}`), nil)

	results, err := testAnalyzer(client).AnalyzeBatch(context.Background(), []string{"only item"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "violence", results[0].Category)
}

func TestAnalyzeBatch_ShortResultPaddedSafe(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(completion(`[{"safe": false, "category": "violence"}]`), nil)

	results, err := testAnalyzer(client).AnalyzeBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.False(t, results[0].Safe)
	assert.True(t, results[1].Safe)
	assert.Equal(t, 50, results[1].Confidence)
	assert.True(t, results[2].Safe)
}

func TestAnalyzeBatch_LongResultTruncated(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(completion(`[
			{"safe": true},
			{"safe": false, "category": "scam"},
			{"safe": true},
			{"safe": true}
		]`), nil)

	results, err := testAnalyzer(client).AnalyzeBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "scam", results[1].Category)
}

func TestAnalyzeBatch_MalformedEntryGetsProcessingError(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(completion(`[{"safe": true}, {"title": "no safe field"}]`), nil)

	results, err := testAnalyzer(client).AnalyzeBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Safe)
	assert.False(t, results[1].Safe)
	assert.Equal(t, verdict.CategoryProcessingError, results[1].Category)
}

func TestAnalyzeBatch_UnparseableResponseFillsProcessingError(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(completion("not json at all"), nil)

	results, err := testAnalyzer(client).AnalyzeBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, v := range results {
		assert.False(t, v.Safe)
		assert.Equal(t, verdict.CategoryProcessingError, v.Category)
	}
}

func TestAnalyzeBatch_NullResponseFillsProcessingError(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(completion("null"), nil)

	results, err := testAnalyzer(client).AnalyzeBatch(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, v := range results {
		assert.False(t, v.Safe)
		assert.Equal(t, verdict.CategoryProcessingError, v.Category)
	}
}

func TestAnalyzeBatch_TransportFailureFillsSystemBlocked(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	results, err := testAnalyzer(client).AnalyzeBatch(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, v := range results {
		assert.False(t, v.Safe)
		assert.Equal(t, verdict.CategorySystemBlocked, v.Category)
	}
}

func TestAnalyzeBatch_RefusalFillsSystemBlocked(t *testing.T) {
	client := new(mocks.MockClient)
	client.On("Ask", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, providers.ErrRefused)

	results, err := testAnalyzer(client).AnalyzeBatch(context.Background(), []string{"a"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, verdict.CategorySystemBlocked, results[0].Category)
}

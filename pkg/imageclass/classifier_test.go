package imageclass

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// writeTestModel writes a 2x2 linear model whose "safe" class wins on bright
// images and loses on dark ones.
func writeTestModel(t *testing.T) string {
	t.Helper()

	inputs := 2 * 2 * 3
	safeRow := make([]float64, inputs)
	nsfwRow := make([]float64, inputs)
	for i := range safeRow {
		safeRow[i] = 1
		nsfwRow[i] = -1
	}

	spec := modelSpec{
		InputWidth:  2,
		InputHeight: 2,
		Scale:       255,
		Labels:      []string{"safe", "nsfw"},
		Weights:     [][]float64{safeRow, nsfwRow},
		Bias:        []float64{0, 6},
	}

	raw, err := json.Marshal(spec)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, raw, 0600))
	return path
}

func encodePNG(t *testing.T, size int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestClassify_BrightImageIsSafe(t *testing.T) {
	c := NewClassifier(writeTestModel(t), testLogger())

	v, err := c.Classify(encodePNG(t, 2, color.White))
	require.NoError(t, err)

	assert.True(t, v.Safe)
	assert.Equal(t, "safe", v.Class)
	assert.Empty(t, v.Category)
	assert.NotEmpty(t, v.Probabilities)
}

func TestClassify_DarkImageIsFlagged(t *testing.T) {
	c := NewClassifier(writeTestModel(t), testLogger())

	v, err := c.Classify(encodePNG(t, 2, color.Black))
	require.NoError(t, err)

	assert.False(t, v.Safe)
	assert.Equal(t, "nsfw", v.Class)
	assert.Equal(t, "explicit_content", v.Category)
	assert.Greater(t, v.Confidence, 50)
}

func TestClassify_ProbabilitiesSumToOne(t *testing.T) {
	c := NewClassifier(writeTestModel(t), testLogger())

	v, err := c.Classify(encodePNG(t, 2, color.White))
	require.NoError(t, err)

	var sum float64
	for _, p := range v.Probabilities {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestClassify_ResizesWhenDimensionsDiffer(t *testing.T) {
	c := NewClassifier(writeTestModel(t), testLogger())

	v, err := c.Classify(encodePNG(t, 8, color.White))
	require.NoError(t, err)
	assert.True(t, v.Safe)
}

func TestClassify_MissingModelIsPermanentlyUnavailable(t *testing.T) {
	c := NewClassifier(filepath.Join(t.TempDir(), "absent.json"), testLogger())

	_, err := c.Classify(encodePNG(t, 2, color.White))
	assert.ErrorIs(t, err, ErrUnavailable)

	// Second call short-circuits on the cached load failure.
	_, err = c.Classify(encodePNG(t, 2, color.White))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClassify_NonImagePayload(t *testing.T) {
	c := NewClassifier(writeTestModel(t), testLogger())

	_, err := c.Classify([]byte("this is not an image"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestLoadModel_RejectsBadArtifacts(t *testing.T) {
	dir := t.TempDir()

	badDims := filepath.Join(dir, "bad_dims.json")
	require.NoError(t, os.WriteFile(badDims, []byte(`{"input_width":0,"input_height":2,"labels":["safe"],"weights":[[1]],"bias":[0]}`), 0600))
	_, err := loadModel(badDims)
	assert.Error(t, err)

	badRows := filepath.Join(dir, "bad_rows.json")
	require.NoError(t, os.WriteFile(badRows, []byte(`{"input_width":1,"input_height":1,"labels":["safe","nsfw"],"weights":[[1,1,1]],"bias":[0,0]}`), 0600))
	_, err = loadModel(badRows)
	assert.Error(t, err)
}

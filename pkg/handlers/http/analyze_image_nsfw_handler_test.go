package http

import (
	"encoding/base64"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/imageclass"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeImageNSFWHandler_MissingModelFailsOpen(t *testing.T) {
	classifier := imageclass.NewClassifier(filepath.Join(t.TempDir(), "absent.json"), testLogger())
	handler := NewAnalyzeImageNSFWHandler(testLogger(), classifier)

	app := fiber.New()
	app.Post("/analyze-image-nsfw", handler.Handle)

	payload := base64.StdEncoding.EncodeToString([]byte{0x89, 0x50, 0x4e, 0x47})
	status, body := postJSON(t, app, "/analyze-image-nsfw", map[string]interface{}{
		"image_base64": payload,
	})

	assert.Equal(t, fiber.StatusOK, status)

	var safe bool
	require.NoError(t, json.Unmarshal(body["safe"], &safe))
	assert.True(t, safe)

	var category string
	require.NoError(t, json.Unmarshal(body["category"], &category))
	assert.Equal(t, "error", category)
}

func TestAnalyzeImageNSFWHandler_RequiresAnImage(t *testing.T) {
	classifier := imageclass.NewClassifier(filepath.Join(t.TempDir(), "absent.json"), testLogger())
	handler := NewAnalyzeImageNSFWHandler(testLogger(), classifier)

	app := fiber.New()
	app.Post("/analyze-image-nsfw", handler.Handle)

	status, body := postJSON(t, app, "/analyze-image-nsfw", map[string]interface{}{})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body["error"]), "image_url or image_base64")
}

func TestAnalyzeImageNSFWHandler_RejectsBadBase64(t *testing.T) {
	classifier := imageclass.NewClassifier(filepath.Join(t.TempDir(), "absent.json"), testLogger())
	handler := NewAnalyzeImageNSFWHandler(testLogger(), classifier)

	app := fiber.New()
	app.Post("/analyze-image-nsfw", handler.Handle)

	status, _ := postJSON(t, app, "/analyze-image-nsfw", map[string]interface{}{
		"image_base64": "%%% not base64 %%%",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

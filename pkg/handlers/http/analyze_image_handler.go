package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/analyzer"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/common"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

type analyzeImageHandler struct {
	logger   *logrus.Logger
	analyzer *analyzer.Analyzer
	client   *fasthttp.Client
}

type analyzeImageRequest struct {
	ImageURL string `json:"image_url"`
	Context  string `json:"context"`
}

// NewAnalyzeImageHandler @Summary Analyze an image via the remote vision model
// @Description Downloads the image and classifies it with the configured provider
// @Tags Analysis
// @Accept json
// @Produce json
// @Success 200 {object} verdict.Verdict "Verdict"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /analyze-image [post]
func NewAnalyzeImageHandler(logger *logrus.Logger, a *analyzer.Analyzer) Handler {
	return &analyzeImageHandler{
		logger:   logger,
		analyzer: a,
		client: &fasthttp.Client{
			ReadTimeout:         common.ImageDownloadTimeout,
			WriteTimeout:        common.ImageDownloadTimeout,
			MaxResponseBodySize: 20 * 1024 * 1024,
		},
	}
}

func (h *analyzeImageHandler) Handle(c *fiber.Ctx) error {
	var req analyzeImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if req.ImageURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image_url is required"})
	}

	data, mimeType, err := h.download(req.ImageURL)
	if err != nil {
		// The page cannot be cleared if the image never arrived, so a failed
		// download produces the same blocked verdict as an unreachable
		// classifier.
		h.logger.WithError(err).WithField("image_url", req.ImageURL).Warn("image download failed")
		return c.Status(fiber.StatusOK).JSON(analyzer.Fallback(analyzer.TransportError, "explicit_content"))
	}

	v := h.analyzer.AnalyzeImage(c.Context(), data, mimeType, req.Context)
	return c.Status(fiber.StatusOK).JSON(v)
}

func (h *analyzeImageHandler) download(url string) ([]byte, string, error) {
	fastReq := fasthttp.AcquireRequest()
	fastResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(fastReq)
	defer fasthttp.ReleaseResponse(fastResp)

	fastReq.SetRequestURI(url)
	fastReq.Header.SetMethod(fiber.MethodGet)

	if err := h.client.DoTimeout(fastReq, fastResp, common.ImageDownloadTimeout); err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	if fastResp.StatusCode() != fasthttp.StatusOK {
		return nil, "", fmt.Errorf("image download returned status %d", fastResp.StatusCode())
	}

	body := append([]byte(nil), fastResp.Body()...)
	mimeType := string(fastResp.Header.ContentType())
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(body)
	}
	return body, mimeType, nil
}

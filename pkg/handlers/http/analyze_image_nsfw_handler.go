package http

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/analyzer"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/common"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/imageclass"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/infra/prometheus"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

type analyzeImageNSFWHandler struct {
	logger     *logrus.Logger
	classifier *imageclass.Classifier
	client     *fasthttp.Client
}

type analyzeImageNSFWRequest struct {
	ImageURL    string `json:"image_url"`
	ImageBase64 string `json:"image_base64"`
}

// NewAnalyzeImageNSFWHandler @Summary Classify an image with the local model
// @Description Runs the bundled classifier; no data leaves the server
// @Tags Analysis
// @Accept json
// @Produce json
// @Success 200 {object} verdict.Verdict "Verdict with class probabilities"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /analyze-image-nsfw [post]
func NewAnalyzeImageNSFWHandler(logger *logrus.Logger, classifier *imageclass.Classifier) Handler {
	return &analyzeImageNSFWHandler{
		logger:     logger,
		classifier: classifier,
		client: &fasthttp.Client{
			ReadTimeout:         common.ImageDownloadTimeout,
			WriteTimeout:        common.ImageDownloadTimeout,
			MaxResponseBodySize: 20 * 1024 * 1024,
		},
	}
}

func (h *analyzeImageNSFWHandler) Handle(c *fiber.Ctx) error {
	var req analyzeImageNSFWRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	data, err := h.imageBytes(&req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	v, err := h.classifier.Classify(data)
	if err != nil {
		if errors.Is(err, imageclass.ErrUnavailable) {
			// Without a model on disk this endpoint cannot judge anything, so
			// it reports safe rather than blocking every image on the client.
			prometheus.ClassifierFallbacksTotal.
				WithLabelValues(analyzer.CapabilityUnavailable.String()).Inc()
			return c.Status(fiber.StatusOK).JSON(analyzer.Fallback(analyzer.CapabilityUnavailable, ""))
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(v)
}

func (h *analyzeImageNSFWHandler) imageBytes(req *analyzeImageNSFWRequest) ([]byte, error) {
	switch {
	case req.ImageBase64 != "":
		payload := req.ImageBase64
		// Data-URL prefixes from canvas captures are accepted as-is.
		if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
			payload = payload[idx+1:]
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid image_base64: %w", err)
		}
		return data, nil

	case req.ImageURL != "":
		fastReq := fasthttp.AcquireRequest()
		fastResp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(fastReq)
		defer fasthttp.ReleaseResponse(fastResp)

		fastReq.SetRequestURI(req.ImageURL)
		fastReq.Header.SetMethod(fiber.MethodGet)
		if err := h.client.DoTimeout(fastReq, fastResp, common.ImageDownloadTimeout); err != nil {
			return nil, fmt.Errorf("failed to download image: %w", err)
		}
		if fastResp.StatusCode() != fasthttp.StatusOK {
			return nil, fmt.Errorf("image download returned status %d", fastResp.StatusCode())
		}
		return append([]byte(nil), fastResp.Body()...), nil

	default:
		return nil, errors.New("image_url or image_base64 is required")
	}
}

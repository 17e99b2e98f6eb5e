package http

import (
	"github.com/SafeHarborHQ/SafeHarbor/pkg/analyzer"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/common"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/verdict"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type analyzeBatchHandler struct {
	logger   *logrus.Logger
	analyzer *analyzer.Analyzer
}

type analyzeBatchRequest struct {
	Contents []string `json:"contents"`
}

type analyzeBatchResponse struct {
	Results []verdict.Verdict `json:"results"`
}

// NewAnalyzeBatchHandler @Summary Analyze a batch of content items
// @Description Classifies up to 50 items in one call, one verdict per item in input order
// @Tags Analysis
// @Accept json
// @Produce json
// @Success 200 {object} analyzeBatchResponse "Verdicts"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /analyze-batch [post]
func NewAnalyzeBatchHandler(logger *logrus.Logger, a *analyzer.Analyzer) Handler {
	return &analyzeBatchHandler{
		logger:   logger,
		analyzer: a,
	}
}

func (h *analyzeBatchHandler) Handle(c *fiber.Ctx) error {
	var req analyzeBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}

	// An empty batch is a no-op, not an error.
	if len(req.Contents) == 0 {
		return c.Status(fiber.StatusOK).JSON(analyzeBatchResponse{Results: []verdict.Verdict{}})
	}
	if len(req.Contents) > common.MaxBatchItems {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "too many items: the batch limit is 50",
		})
	}

	results, err := h.analyzer.AnalyzeBatch(c.Context(), req.Contents)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(analyzeBatchResponse{Results: results})
}

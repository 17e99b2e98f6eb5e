package http

import (
	"github.com/SafeHarborHQ/SafeHarbor/pkg/analyzer"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/flagged"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/verdict"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const flaggedExcerptLimit = 200

type analyzeContentHandler struct {
	logger   *logrus.Logger
	analyzer *analyzer.Analyzer
	gateway  *store.Gateway
}

type analyzeContentRequest struct {
	Content   string `json:"content"`
	PageURL   string `json:"page_url"`
	UserID    string `json:"user_id"`
	UserEmail string `json:"user_email"`
}

// NewAnalyzeContentHandler @Summary Analyze one content item
// @Description Classifies page content and returns a moderation verdict
// @Tags Analysis
// @Accept json
// @Produce json
// @Success 200 {object} verdict.Verdict "Verdict"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /analyze-content [post]
func NewAnalyzeContentHandler(logger *logrus.Logger, a *analyzer.Analyzer, gateway *store.Gateway) Handler {
	return &analyzeContentHandler{
		logger:   logger,
		analyzer: a,
		gateway:  gateway,
	}
}

func (h *analyzeContentHandler) Handle(c *fiber.Ctx) error {
	var req analyzeContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if req.Content == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content is required"})
	}

	v := h.analyzer.Analyze(c.Context(), req.Content)

	// Unsafe verdicts are surfaced to supervisors; a storage failure never
	// blocks the response.
	if !v.Safe {
		event := flaggedEventFromVerdict(v, &req)
		if _, err := h.gateway.StoreFlagged(c.Context(), event); err != nil {
			h.logger.WithError(err).Error("failed to store flagged event for content verdict")
		}
	}

	return c.Status(fiber.StatusOK).JSON(v)
}

func flaggedEventFromVerdict(v *verdict.Verdict, req *analyzeContentRequest) *flagged.Event {
	return &flagged.Event{
		Category:       v.Category,
		Summary:        v.Title,
		Reason:         v.Reason,
		WhatToDo:       v.WhatToDo,
		PageURL:        req.PageURL,
		Source:         "content_analysis",
		ContentExcerpt: excerpt(req.Content, flaggedExcerptLimit),
		Severity:       severityFor(v),
		UserID:         req.UserID,
		UserEmail:      req.UserEmail,
	}
}

func excerpt(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit])
}

func severityFor(v *verdict.Verdict) string {
	switch {
	case v.Confidence >= 80:
		return flagged.SeverityHigh
	case v.Confidence >= 60:
		return flagged.SeverityMedium
	default:
		return flagged.SeverityLow
	}
}

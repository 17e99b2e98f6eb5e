package http

import (
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/reveal"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listBlurRevealsHandler struct {
	logger  *logrus.Logger
	gateway *store.Gateway
}

// NewListBlurRevealsHandler @Summary List blur reveal events
// @Description Lists retained reveal events with per-category and per-source counts
// @Tags BlurReveals
// @Produce json
// @Param limit query int false "Maximum events to return"
// @Param category query string false "Filter by category"
// @Param user_id query string false "Filter by user"
// @Success 200 {object} map[string]interface{} "Events and counts"
// @Router /blur-reveals [get]
func NewListBlurRevealsHandler(logger *logrus.Logger, gateway *store.Gateway) Handler {
	return &listBlurRevealsHandler{
		logger:  logger,
		gateway: gateway,
	}
}

func (h *listBlurRevealsHandler) Handle(c *fiber.Ctx) error {
	filter := reveal.Filter{
		Category: c.Query("category"),
		UserID:   c.Query("user_id"),
		Limit:    c.QueryInt("limit"),
	}

	events, err := h.gateway.ListReveals(c.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("failed to list reveal events")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list events"})
	}

	categories := make(map[string]int)
	sources := make(map[string]int)
	for i := range events {
		categories[events[i].Category]++
		if events[i].Source != "" {
			sources[events[i].Source]++
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"items":      events,
		"categories": categories,
		"sources":    sources,
		"total":      len(events),
	})
}

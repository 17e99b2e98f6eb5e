package http

import (
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/flagged"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listFlaggedEventsHandler struct {
	logger  *logrus.Logger
	gateway *store.Gateway
}

// NewListFlaggedEventsHandler @Summary List flagged events
// @Description Lists retained flagged events, newest first
// @Tags FlaggedEvents
// @Produce json
// @Param limit query int false "Maximum events to return"
// @Param category query string false "Filter by category"
// @Param user_id query string false "Filter by user"
// @Success 200 {object} map[string]interface{} "Events"
// @Router /flagged-events [get]
func NewListFlaggedEventsHandler(logger *logrus.Logger, gateway *store.Gateway) Handler {
	return &listFlaggedEventsHandler{
		logger:  logger,
		gateway: gateway,
	}
}

func (h *listFlaggedEventsHandler) Handle(c *fiber.Ctx) error {
	filter := flagged.Filter{
		Category: c.Query("category"),
		UserID:   c.Query("user_id"),
		Limit:    c.QueryInt("limit"),
	}

	events, err := h.gateway.ListFlagged(c.Context(), filter)
	if err != nil {
		h.logger.WithError(err).Error("failed to list flagged events")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list events"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"items": events})
}

package http

import (
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/flagged"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type createFlaggedEventHandler struct {
	logger  *logrus.Logger
	gateway *store.Gateway
}

// NewCreateFlaggedEventHandler @Summary Record a flagged event
// @Description Appends a flagged event submitted by a client agent
// @Tags FlaggedEvents
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Stored"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /flagged-events [post]
func NewCreateFlaggedEventHandler(logger *logrus.Logger, gateway *store.Gateway) Handler {
	return &createFlaggedEventHandler{
		logger:  logger,
		gateway: gateway,
	}
}

func (h *createFlaggedEventHandler) Handle(c *fiber.Ctx) error {
	var event flagged.Event
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if event.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category is required"})
	}
	if event.Severity == "" {
		event.Severity = flagged.SeverityMedium
	}

	storage, err := h.gateway.StoreFlagged(c.Context(), &event)
	if err != nil {
		h.logger.WithError(err).Error("failed to store flagged event")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store event"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"storage": storage,
	})
}

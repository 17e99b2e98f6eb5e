package http

import (
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/reveal"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type trackBlurRevealHandler struct {
	logger  *logrus.Logger
	gateway *store.Gateway
}

// NewTrackBlurRevealHandler @Summary Record a blur reveal
// @Description Records that a user chose to view obscured content
// @Tags BlurReveals
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Stored"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /track-blur-reveal [post]
func NewTrackBlurRevealHandler(logger *logrus.Logger, gateway *store.Gateway) Handler {
	return &trackBlurRevealHandler{
		logger:  logger,
		gateway: gateway,
	}
}

func (h *trackBlurRevealHandler) Handle(c *fiber.Ctx) error {
	var event reveal.Event
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if event.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "category is required"})
	}

	storage, err := h.gateway.StoreReveal(c.Context(), &event)
	if err != nil {
		h.logger.WithError(err).Error("failed to store reveal event")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store event"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  "ok",
		"storage": storage,
	})
}

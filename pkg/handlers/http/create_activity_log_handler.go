package http

import (
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/activity"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/store"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type createActivityLogHandler struct {
	logger  *logrus.Logger
	gateway *store.Gateway
}

// NewCreateActivityLogHandler @Summary Record one activity log
// @Description Appends one browsing-activity observation for a family
// @Tags ActivityLogs
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Stored"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /activity-logs [post]
func NewCreateActivityLogHandler(logger *logrus.Logger, gateway *store.Gateway) Handler {
	return &createActivityLogHandler{
		logger:  logger,
		gateway: gateway,
	}
}

func (h *createActivityLogHandler) Handle(c *fiber.Ctx) error {
	var log activity.Log
	if err := c.BodyParser(&log); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if log.FamilyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "familyId is required"})
	}
	if log.ID == "" {
		log.ID = uuid.NewString()
	}

	_, total, _, err := h.gateway.StoreActivity(c.Context(), &log)
	if err != nil {
		h.logger.WithError(err).Error("failed to store activity log")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to store log"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
		"count":  total,
	})
}

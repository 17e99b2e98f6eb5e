package http

import (
	"github.com/SafeHarborHQ/SafeHarbor/pkg/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type listActivityLogsHandler struct {
	logger  *logrus.Logger
	gateway *store.Gateway
}

// NewListActivityLogsHandler @Summary List activity logs for a family
// @Description Lists retained logs for one family, newest first
// @Tags ActivityLogs
// @Produce json
// @Param familyId path string true "Family ID"
// @Param user_email query string false "Filter by user email"
// @Param limit query int false "Maximum logs to return"
// @Success 200 {object} map[string]interface{} "Logs"
// @Router /activity-logs/{familyId} [get]
func NewListActivityLogsHandler(logger *logrus.Logger, gateway *store.Gateway) Handler {
	return &listActivityLogsHandler{
		logger:  logger,
		gateway: gateway,
	}
}

func (h *listActivityLogsHandler) Handle(c *fiber.Ctx) error {
	familyID := c.Params("familyId")
	if familyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "familyId is required"})
	}

	logs, total, err := h.gateway.ListActivity(c.Context(), familyID, c.Query("user_email"), c.QueryInt("limit"))
	if err != nil {
		h.logger.WithError(err).Error("failed to list activity logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list logs"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"logs":  logs,
		"total": total,
	})
}

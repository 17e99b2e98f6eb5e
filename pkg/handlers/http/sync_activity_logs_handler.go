package http

import (
	"github.com/SafeHarborHQ/SafeHarbor/pkg/domain/activity"
	"github.com/SafeHarborHQ/SafeHarbor/pkg/store"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type syncActivityLogsHandler struct {
	logger  *logrus.Logger
	gateway *store.Gateway
}

type syncActivityLogsRequest struct {
	FamilyID string         `json:"familyId"`
	Logs     []activity.Log `json:"logs"`
}

// NewSyncActivityLogsHandler @Summary Sync a batch of activity logs
// @Description Appends a batch of logs for one family, de-duplicating by id
// @Tags ActivityLogs
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Sync result"
// @Failure 400 {object} map[string]interface{} "Invalid request data"
// @Router /activity-logs/batch [post]
func NewSyncActivityLogsHandler(logger *logrus.Logger, gateway *store.Gateway) Handler {
	return &syncActivityLogsHandler{
		logger:  logger,
		gateway: gateway,
	}
}

func (h *syncActivityLogsHandler) Handle(c *fiber.Ctx) error {
	var req syncActivityLogsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": ErrInvalidJsonPayload})
	}
	if req.FamilyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "familyId is required"})
	}
	for i := range req.Logs {
		if req.Logs[i].ID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "every log needs an id"})
		}
	}

	added, total, _, err := h.gateway.StoreActivityBatch(c.Context(), req.FamilyID, req.Logs)
	if err != nil {
		h.logger.WithError(err).Error("failed to sync activity logs")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to sync logs"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
		"added":  added,
		"total":  total,
	})
}

package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/SafeHarborHQ/SafeHarbor/pkg/store"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) *store.Gateway {
	t.Helper()
	local, err := store.NewLocalStore(t.TempDir(), testLogger())
	require.NoError(t, err)
	return store.NewGateway(nil, local, testLogger())
}

func getJSON(t *testing.T, app *fiber.App, path string) (int, map[string]json.RawMessage) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestFlaggedEventHandlers_CreateThenList(t *testing.T) {
	gateway := newTestGateway(t)
	app := fiber.New()
	app.Post("/flagged-events", NewCreateFlaggedEventHandler(testLogger(), gateway).Handle)
	app.Get("/flagged-events", NewListFlaggedEventsHandler(testLogger(), gateway).Handle)

	status, body := postJSON(t, app, "/flagged-events", map[string]interface{}{
		"category": "violence",
		"summary":  "Violent Content",
		"severity": "high",
		"user_id":  "u1",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `"ok"`, string(body["status"]))
	assert.JSONEq(t, `"local"`, string(body["storage"]))

	status, listBody := getJSON(t, app, "/flagged-events?category=violence")
	require.Equal(t, fiber.StatusOK, status)

	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(listBody["items"], &items))
	require.Len(t, items, 1)
	assert.Equal(t, "u1", items[0]["user_id"])
}

func TestCreateFlaggedEventHandler_RequiresCategory(t *testing.T) {
	gateway := newTestGateway(t)
	app := fiber.New()
	app.Post("/flagged-events", NewCreateFlaggedEventHandler(testLogger(), gateway).Handle)

	status, _ := postJSON(t, app, "/flagged-events", map[string]interface{}{
		"summary": "missing category",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestActivityLogHandlers_SyncDedupAndList(t *testing.T) {
	gateway := newTestGateway(t)
	app := fiber.New()
	app.Post("/activity-logs/batch", NewSyncActivityLogsHandler(testLogger(), gateway).Handle)
	app.Get("/activity-logs/:familyId", NewListActivityLogsHandler(testLogger(), gateway).Handle)

	status, body := postJSON(t, app, "/activity-logs/batch", map[string]interface{}{
		"familyId": "fam-1",
		"logs": []map[string]interface{}{
			{"id": "a", "url": "https://example.com/1", "type": "content"},
			{"id": "b", "url": "https://example.com/2", "type": "search"},
			{"id": "a", "url": "https://example.com/1", "type": "content"},
		},
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, "2", string(body["added"]))
	assert.JSONEq(t, "2", string(body["total"]))

	status, listBody := getJSON(t, app, "/activity-logs/fam-1")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, "2", string(listBody["total"]))
}

func TestBlurRevealHandlers_TrackAndAggregate(t *testing.T) {
	gateway := newTestGateway(t)
	app := fiber.New()
	app.Post("/track-blur-reveal", NewTrackBlurRevealHandler(testLogger(), gateway).Handle)
	app.Get("/blur-reveals", NewListBlurRevealsHandler(testLogger(), gateway).Handle)

	for _, category := range []string{"violence", "violence", "scam"} {
		status, _ := postJSON(t, app, "/track-blur-reveal", map[string]interface{}{
			"category": category,
			"source":   "blur_overlay",
		})
		require.Equal(t, fiber.StatusOK, status)
	}

	status, body := getJSON(t, app, "/blur-reveals")
	require.Equal(t, fiber.StatusOK, status)

	var categories map[string]int
	require.NoError(t, json.Unmarshal(body["categories"], &categories))
	assert.Equal(t, 2, categories["violence"])
	assert.Equal(t, 1, categories["scam"])
	assert.JSONEq(t, "3", string(body["total"]))

	var sources map[string]int
	require.NoError(t, json.Unmarshal(body["sources"], &sources))
	assert.Equal(t, 3, sources["blur_overlay"])
}

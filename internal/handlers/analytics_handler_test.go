package handlers_test

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/qrtrail/qrtrail-backend/internal/models"
	"github.com/qrtrail/qrtrail-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackRecordsScan(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "user-1")
	code := e.seedQRCode(t, "user-1", "track1", "url", "https://example.com")

	resp := e.request(t, "POST", "/api/v1/analytics/track", "", fiber.Map{
		"shortCode": "track1",
		"userAgent": "scanner/1.0",
	})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	var event models.ScanEvent
	require.NoError(t, e.db.Where("qr_code_id = ?", code.ID).Take(&event).Error)
	assert.Equal(t, "user-1", event.OwnerID)
	assert.Equal(t, "scanner/1.0", event.UserAgent)
}

func TestTrackValidation(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, "POST", "/api/v1/analytics/track", "", fiber.Map{})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = e.request(t, "POST", "/api/v1/analytics/track", "", fiber.Map{"shortCode": "nosuch"})
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCodeStatsOwnership(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "user-1")
	e.seedQRCode(t, "user-1", "stats1", "url", "https://example.com")

	resp := e.request(t, "GET", "/api/v1/analytics/qrcodes/nosuch", "token-user-2", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = e.request(t, "GET", "/api/v1/analytics/qrcodes/stats1", "token-user-2", nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = e.request(t, "GET", "/api/v1/analytics/qrcodes/stats1", "token-user-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "stats1", body["shortCode"])
	assert.EqualValues(t, 0, body["scanCount"])
	assert.Nil(t, body["lastScan"])
}

func TestOwnerStats(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "user-1")
	e.seedQRCode(t, "user-1", "mine01", "url", "https://example.com/1")
	e.seedQRCode(t, "user-1", "mine02", "url", "https://example.com/2")

	for _, shortCode := range []string{"mine01", "mine01", "mine02"} {
		resp := e.request(t, "POST", "/api/v1/analytics/track", "", fiber.Map{"shortCode": shortCode})
		require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
		resp.Body.Close()
	}

	resp := e.request(t, "GET", "/api/v1/analytics/users/me", "token-user-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.EqualValues(t, 3, body["totalScans"])
	assert.EqualValues(t, 2, body["qrCodeCount"])
	assert.NotNil(t, body["lastScan"])
}

func TestMyCodeStats(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "user-1")
	e.seedQRCode(t, "user-1", "mine01", "url", "https://example.com/1")
	e.seedQRCode(t, "user-1", "mine02", "url", "https://example.com/2")

	resp := e.request(t, "POST", "/api/v1/analytics/track", "", fiber.Map{"shortCode": "mine02"})
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	resp.Body.Close()

	resp = e.request(t, "GET", "/api/v1/analytics/qrcodes", "token-user-1", nil)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var stats []services.CodeStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	require.Len(t, stats, 2)

	counts := map[string]int64{}
	for _, s := range stats {
		counts[s.ShortCode] = s.ScanCount
	}
	assert.EqualValues(t, 0, counts["mine01"])
	assert.EqualValues(t, 1, counts["mine02"])
}

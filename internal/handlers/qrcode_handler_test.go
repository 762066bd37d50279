package handlers_test

import (
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/qrtrail/qrtrail-backend/internal/dto"
	"github.com/qrtrail/qrtrail-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRCodesRequireAuth(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, "GET", "/api/v1/qrcodes", "", nil)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UnauthorizedError", errorName(t, resp))

	resp = e.request(t, "GET", "/api/v1/qrcodes", "forged", nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ForbiddenError", errorName(t, resp))
}

func TestQRCodeListEmpty(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, "GET", "/api/v1/qrcodes", "token-user-1", nil)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var codes []dto.QRCodeResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&codes))
	assert.NotNil(t, codes)
	assert.Empty(t, codes)
}

func TestQRCodeCreateAndGet(t *testing.T) {
	e := newTestEnv(t)

	resp := e.request(t, "POST", "/api/v1/qrcodes", "token-user-1", dto.CreateQRCodeRequest{
		Label:      "front door",
		Type:       "url",
		TargetData: dto.TargetDataFields{Value: "https://example.com"},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created dto.QRCodeResponse
	func() {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	}()
	require.NotEmpty(t, created.ShortCode)
	assert.Equal(t, "user-1", created.OwnerID)
	assert.Equal(t, "front door", created.Label)

	resp = e.request(t, "GET", "/api/v1/qrcodes/"+created.ShortCode, "token-user-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, created.ShortCode, body["shortCode"])
}

func TestQRCodeOwnershipOrdering(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "user-1")
	e.seedQRCode(t, "user-1", "owned1", "url", "https://example.com")

	// Unknown record: 404 even for a stranger.
	resp := e.request(t, "GET", "/api/v1/qrcodes/nosuch", "token-user-2", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NotFoundError", errorName(t, resp))

	// Existing record owned by someone else: 403, proving existence was
	// checked first.
	resp = e.request(t, "GET", "/api/v1/qrcodes/owned1", "token-user-2", nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "ForbiddenError", errorName(t, resp))

	resp = e.request(t, "PUT", "/api/v1/qrcodes/owned1", "token-user-2", fiber.Map{"label": "hijack"})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = e.request(t, "DELETE", "/api/v1/qrcodes/owned1", "token-user-2", nil)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// The record is untouched.
	var n int64
	require.NoError(t, e.db.Model(&models.QRCode{}).Where("short_code = ?", "owned1").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestQRCodeUpdate(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "user-1")
	e.seedQRCode(t, "user-1", "patchme", "url", "https://old.example.com")

	resp := e.request(t, "PUT", "/api/v1/qrcodes/patchme", "token-user-1", fiber.Map{
		"label":      "renamed",
		"targetData": fiber.Map{"value": "https://new.example.com"},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "QR Code updated successfully.", body["message"])
	changes, ok := body["changes"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "renamed", changes["label"])

	resp = e.request(t, "GET", "/api/v1/qrcodes/patchme", "token-user-1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decodeBody(t, resp)
	assert.Equal(t, "renamed", got["label"])
	target, ok := got["targetData"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "https://new.example.com", target["value"])
}

func TestQRCodeUpdateEmptyPatch(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "user-1")
	e.seedQRCode(t, "user-1", "patchme", "url", "https://example.com")

	for _, body := range []interface{}{
		fiber.Map{},
		fiber.Map{"label": nil},
		fiber.Map{"ownerId": "evil", "shortCode": "stolen"},
	} {
		resp := e.request(t, "PUT", "/api/v1/qrcodes/patchme", "token-user-1", body)
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "BadRequestError", errorName(t, resp))
	}

	// An empty patch is rejected before the record is even looked up.
	resp := e.request(t, "PUT", "/api/v1/qrcodes/nosuch", "token-user-1", fiber.Map{})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestQRCodeDeleteEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "user-1")
	e.seedQRCode(t, "user-1", "doomed", "url", "https://example.com")

	resp := e.request(t, "DELETE", "/api/v1/qrcodes/doomed", "token-user-1", nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = e.request(t, "GET", "/api/v1/qrcodes/doomed", "token-user-1", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestQRCodeCreateLimit(t *testing.T) {
	e := newTestEnv(t)

	req := dto.CreateQRCodeRequest{
		Type:       "url",
		TargetData: dto.TargetDataFields{Value: "https://example.com"},
	}
	for i := 0; i < 5; i++ {
		resp := e.request(t, "POST", "/api/v1/qrcodes", "token-user-1", req)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := e.request(t, "POST", "/api/v1/qrcodes", "token-user-1", req)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "You have reached the maximum number of QR codes.", body["message"])
}

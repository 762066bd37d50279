package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/qrtrail/qrtrail-backend/internal/config"
	"github.com/qrtrail/qrtrail-backend/internal/database"
	"github.com/qrtrail/qrtrail-backend/internal/dto"
	"github.com/qrtrail/qrtrail-backend/internal/handlers"
	"github.com/qrtrail/qrtrail-backend/internal/httperr"
	"github.com/qrtrail/qrtrail-backend/internal/identity"
	"github.com/qrtrail/qrtrail-backend/internal/models"
	"github.com/qrtrail/qrtrail-backend/internal/routes"
	"github.com/qrtrail/qrtrail-backend/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeProvider verifies canned bearer tokens and records admin deletions.
type fakeProvider struct {
	tokens  map[string]*identity.Identity
	deleted []string
}

func (f *fakeProvider) Verify(_ context.Context, token string) (*identity.Identity, error) {
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return nil, errors.New("unknown token")
}

func (f *fakeProvider) DeleteUser(_ context.Context, userID string) error {
	f.deleted = append(f.deleted, userID)
	return nil
}

type env struct {
	app      *fiber.App
	db       *gorm.DB
	provider *fakeProvider
}

func newTestEnv(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.QRCode{},
		&models.ScanEvent{},
		&models.SystemLog{},
	))

	cfg := &config.Config{
		MaxQRCodesPerUser:    5,
		MaxLabelLength:       50,
		MaxTextContentLength: 1024,
		MaxUploadSizeMB:      5,
		ShortCodeMinLength:   6,
		Environment:          "test",
	}

	provider := &fakeProvider{tokens: map[string]*identity.Identity{
		"token-user-1": {ID: "user-1", Email: "u1@example.com"},
		"token-user-2": {ID: "user-2", Email: "u2@example.com"},
		"token-admin":  {ID: "admin-1", Email: "admin@example.com", IsAdmin: true},
	}}

	codes, err := services.NewShortCodeGenerator("test salt", cfg.ShortCodeMinLength)
	require.NoError(t, err)
	qrService := services.NewQRCodeService(db, cfg, codes)
	scanService := services.NewScanService(db)
	userService := services.NewUserService(db, database.NewBatchDeleter(db), provider)

	app := fiber.New(fiber.Config{ErrorHandler: httperr.Handler(true)})
	routes.Setup(app, provider,
		handlers.NewSystemHandler(cfg, db),
		handlers.NewUserHandler(userService, qrService),
		handlers.NewQRCodeHandler(qrService),
		handlers.NewRedirectHandler(qrService, scanService),
		handlers.NewAnalyticsHandler(qrService, scanService),
		handlers.NewAdminHandler(userService, qrService, scanService),
	)

	return &env{app: app, db: db, provider: provider}
}

func (e *env) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorName(t *testing.T, resp *http.Response) string {
	t.Helper()
	body := decodeBody(t, resp)
	name, _ := body["name"].(string)
	return name
}

// seedQRCode plants a fixture record directly in the store.
func (e *env) seedQRCode(t *testing.T, ownerID, shortCode, codeType, targetValue string) *models.QRCode {
	t.Helper()
	resp := e.request(t, "POST", "/api/v1/qrcodes", tokenFor(ownerID), dto.CreateQRCodeRequest{
		Label:      "fixture",
		Type:       codeType,
		TargetData: dto.TargetDataFields{Value: targetValue},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var code models.QRCode
	require.NoError(t, e.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Take(&code).Error)
	require.NoError(t, e.db.Model(&code).Update("short_code", shortCode).Error)
	code.ShortCode = shortCode
	return &code
}

func (e *env) seedUser(t *testing.T, userID string) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.User{ID: userID, Email: userID + "@example.com"}).Error)
}

func tokenFor(userID string) string {
	return "token-" + userID
}

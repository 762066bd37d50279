package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/qrtrail/qrtrail-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordAppendsEventAndBumpsCounter(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.User{ID: "user-1", Email: "u1@example.com"}).Error)

	codeID := uuid.New()
	svc := NewScanService(db)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, codeID, "user-1", "203.0.113.9", "scanner/1.0"))
	require.NoError(t, svc.Record(ctx, codeID, "user-1", "203.0.113.9", "scanner/1.0"))

	var user models.User
	require.NoError(t, db.Take(&user, "id = ?", "user-1").Error)
	assert.EqualValues(t, 2, user.TotalScans)

	var events []models.ScanEvent
	require.NoError(t, db.Where("qr_code_id = ?", codeID).Find(&events).Error)
	require.Len(t, events, 2)
	assert.Equal(t, "203.0.113.9", events[0].IPAddress)
	assert.Equal(t, "scanner/1.0", events[0].UserAgent)
	assert.False(t, events[0].Timestamp.IsZero())
}

func TestStatsForCode(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Create(&models.User{ID: "user-1", Email: "u1@example.com"}).Error)

	code := models.QRCode{ID: uuid.New(), OwnerID: "user-1", ShortCode: "stats1", Type: "url", Label: "door"}
	require.NoError(t, db.Create(&code).Error)

	svc := NewScanService(db)
	ctx := context.Background()

	stats, err := svc.StatsForCode(ctx, &code)
	require.NoError(t, err)
	assert.Zero(t, stats.ScanCount)
	assert.Nil(t, stats.LastScan)

	require.NoError(t, svc.Record(ctx, code.ID, "user-1", "", ""))
	stats, err = svc.StatsForCode(ctx, &code)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.ScanCount)
	require.NotNil(t, stats.LastScan)
}

func TestGlobalStats(t *testing.T) {
	db := openTestDB(t)
	seedAccount(t, db, "user-1", 2, 3)
	seedAccount(t, db, "user-2", 1, 1)

	svc := NewScanService(db)
	stats, err := svc.GlobalStats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Users)
	assert.EqualValues(t, 3, stats.QRCodes)
	assert.EqualValues(t, 7, stats.ScanEvents)
}

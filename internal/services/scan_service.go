package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/qrtrail/qrtrail-backend/internal/models"
	"gorm.io/gorm"
)

type ScanService struct {
	db *gorm.DB
}

func NewScanService(db *gorm.DB) *ScanService {
	return &ScanService{db: db}
}

// Record appends a scan event and bumps the owner's aggregate counter.
func (s *ScanService) Record(ctx context.Context, qrCodeID uuid.UUID, ownerID, ipAddress, userAgent string) error {
	event := &models.ScanEvent{
		ID:        uuid.New(),
		QRCodeID:  qrCodeID,
		OwnerID:   ownerID,
		Timestamp: time.Now().UTC(),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to record scan event: %w", err)
	}

	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", ownerID).
		UpdateColumn("total_scans", gorm.Expr("total_scans + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("failed to increment scan counter: %w", err)
	}
	return nil
}

// RecordDetached dispatches the analytics write without the redirect waiting
// on it. Best effort: not retried, failure is logged and swallowed. The write
// runs under its own background context so it survives the request ending.
func (s *ScanService) RecordDetached(qrCodeID uuid.UUID, ownerID, ipAddress, userAgent string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Record(ctx, qrCodeID, ownerID, ipAddress, userAgent); err != nil {
			slog.Warn("dropped scan event", "qr_code_id", qrCodeID, "error", err)
		}
	}()
}

// CodeStats is the per-code analytics summary.
type CodeStats struct {
	QRCodeID  string     `json:"qrCodeId"`
	ShortCode string     `json:"shortCode"`
	Label     string     `json:"label"`
	ScanCount int64      `json:"scanCount"`
	LastScan  *time.Time `json:"lastScan"`
}

// OwnerStats aggregates a single user's analytics.
type OwnerStats struct {
	UserID      string     `json:"userId"`
	TotalScans  int64      `json:"totalScans"`
	QRCodeCount int64      `json:"qrCodeCount"`
	LastScan    *time.Time `json:"lastScan"`
}

// GlobalStats is the admin-facing system summary.
type GlobalStats struct {
	Users      int64 `json:"users"`
	QRCodes    int64 `json:"qrCodes"`
	ScanEvents int64 `json:"scanEvents"`
}

func (s *ScanService) StatsForCode(ctx context.Context, code *models.QRCode) (*CodeStats, error) {
	stats := &CodeStats{
		QRCodeID:  code.ID.String(),
		ShortCode: code.ShortCode,
		Label:     code.Label,
	}

	err := s.db.WithContext(ctx).Model(&models.ScanEvent{}).
		Where("qr_code_id = ?", code.ID).
		Count(&stats.ScanCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count scan events: %w", err)
	}

	var last models.ScanEvent
	err = s.db.WithContext(ctx).
		Where("qr_code_id = ?", code.ID).
		Order("timestamp DESC").
		Limit(1).
		Take(&last).Error
	if err == nil {
		stats.LastScan = &last.Timestamp
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch last scan: %w", err)
	}
	return stats, nil
}

func (s *ScanService) StatsForOwner(ctx context.Context, ownerID string) (*OwnerStats, error) {
	stats := &OwnerStats{UserID: ownerID}

	err := s.db.WithContext(ctx).Model(&models.ScanEvent{}).
		Where("owner_id = ?", ownerID).
		Count(&stats.TotalScans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count scan events: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&models.QRCode{}).
		Where("owner_id = ?", ownerID).
		Count(&stats.QRCodeCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count qr codes: %w", err)
	}

	var last models.ScanEvent
	err = s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("timestamp DESC").
		Limit(1).
		Take(&last).Error
	if err == nil {
		stats.LastScan = &last.Timestamp
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to fetch last scan: %w", err)
	}
	return stats, nil
}

func (s *ScanService) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	stats := &GlobalStats{}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.QRCode{}).Count(&stats.QRCodes).Error; err != nil {
		return nil, fmt.Errorf("failed to count qr codes: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.ScanEvent{}).Count(&stats.ScanEvents).Error; err != nil {
		return nil, fmt.Errorf("failed to count scan events: %w", err)
	}
	return stats, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/qrtrail/qrtrail-backend/internal/config"
	"github.com/qrtrail/qrtrail-backend/internal/dto"
	"github.com/qrtrail/qrtrail-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrQRCodeNotFound = errors.New("qr code not found")
	ErrQRCodeLimit    = errors.New("qr code limit reached")
	ErrLabelTooLong   = errors.New("label exceeds maximum length")
	ErrTargetTooLong  = errors.New("target content exceeds maximum length")
)

type QRCodeService struct {
	db    *gorm.DB
	cfg   *config.Config
	codes *ShortCodeGenerator
}

func NewQRCodeService(db *gorm.DB, cfg *config.Config, codes *ShortCodeGenerator) *QRCodeService {
	return &QRCodeService{db: db, cfg: cfg, codes: codes}
}

// Create validates the request against the public validation rules, assigns a
// fresh short code and persists the record.
func (s *QRCodeService) Create(ctx context.Context, ownerID string, req *dto.CreateQRCodeRequest) (*models.QRCode, error) {
	if len(req.Label) > s.cfg.MaxLabelLength {
		return nil, ErrLabelTooLong
	}
	if len(req.TargetData.Value) > s.cfg.MaxTextContentLength {
		return nil, ErrTargetTooLong
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.QRCode{}).
		Where("owner_id = ?", ownerID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count qr codes: %w", err)
	}
	if count >= int64(s.cfg.MaxQRCodesPerUser) {
		return nil, ErrQRCodeLimit
	}

	target, err := json.Marshal(models.TargetData{Value: req.TargetData.Value})
	if err != nil {
		return nil, fmt.Errorf("failed to encode target data: %w", err)
	}

	codeType := req.Type
	if codeType == "" {
		codeType = models.QRCodeTypeURL
	}

	// The unique index is the uniqueness authority; retry a few times on the
	// unlikely short code collision.
	for attempt := 0; attempt < 3; attempt++ {
		shortCode, err := s.codes.Generate()
		if err != nil {
			return nil, err
		}

		code := &models.QRCode{
			ID:         uuid.New(),
			OwnerID:    ownerID,
			ShortCode:  shortCode,
			Type:       codeType,
			Label:      req.Label,
			TargetData: datatypes.JSON(target),
		}
		if err := s.db.WithContext(ctx).Create(code).Error; err != nil {
			var exists int64
			probeErr := s.db.WithContext(ctx).Model(&models.QRCode{}).
				Where("short_code = ?", shortCode).Count(&exists).Error
			// Retry only on a confirmed collision; if the probe itself failed
			// the store is in trouble and the create error stands.
			if probeErr == nil && exists > 0 {
				continue
			}
			return nil, fmt.Errorf("failed to create qr code: %w", err)
		}
		return code, nil
	}
	return nil, errors.New("failed to allocate a unique short code")
}

// GetByShortCode performs the indexed limit-1 lookup. Zero rows is
// ErrQRCodeNotFound; ownership is the caller's concern.
func (s *QRCodeService) GetByShortCode(ctx context.Context, shortCode string) (*models.QRCode, error) {
	var code models.QRCode
	err := s.db.WithContext(ctx).
		Where("short_code = ?", shortCode).
		Limit(1).
		Take(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, fmt.Errorf("failed to fetch qr code: %w", err)
	}
	return &code, nil
}

func (s *QRCodeService) ListByOwner(ctx context.Context, ownerID string) ([]models.QRCode, error) {
	codes := make([]models.QRCode, 0)
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&codes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list qr codes: %w", err)
	}
	return codes, nil
}

// Update applies a sparse patch (keys: label, type, targetData) to a single
// record. The patch must be non-empty; the handler enforces that.
func (s *QRCodeService) Update(ctx context.Context, code *models.QRCode, patch map[string]interface{}) error {
	columns := map[string]interface{}{}
	if label, ok := patch["label"]; ok {
		columns["label"] = label
	}
	if codeType, ok := patch["type"]; ok {
		columns["type"] = codeType
	}
	if target, ok := patch["targetData"]; ok {
		raw, err := json.Marshal(target)
		if err != nil {
			return fmt.Errorf("failed to encode target data: %w", err)
		}
		columns["target_data"] = datatypes.JSON(raw)
	}
	if len(columns) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Model(code).Updates(columns).Error; err != nil {
		return fmt.Errorf("failed to update qr code: %w", err)
	}
	return nil
}

func (s *QRCodeService) Delete(ctx context.Context, code *models.QRCode) error {
	if err := s.db.WithContext(ctx).Delete(code).Error; err != nil {
		return fmt.Errorf("failed to delete qr code: %w", err)
	}
	return nil
}

// List returns a page of all QR codes, for the admin surface.
func (s *QRCodeService) List(ctx context.Context, limit, offset int) ([]models.QRCode, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.QRCode{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count qr codes: %w", err)
	}

	codes := make([]models.QRCode, 0)
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&codes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list qr codes: %w", err)
	}
	return codes, total, nil
}

// DeleteByID removes a QR code by its internal id. The admin surface addresses
// records by primary key, unlike the owner routes.
func (s *QRCodeService) DeleteByID(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.QRCode{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete qr code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrQRCodeNotFound
	}
	return nil
}

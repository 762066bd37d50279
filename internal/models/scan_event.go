package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanEvent is an append-only analytics record written on every successful
// redirect. It is never updated; rows are removed only by cascading account
// deletion.
type ScanEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"scanEventId"`
	QRCodeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"qrCodeId"`
	OwnerID   string    `gorm:"size:128;not null;index" json:"ownerId"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	IPAddress string    `gorm:"size:50" json:"ipAddress"`
	UserAgent string    `gorm:"size:255" json:"userAgent"`
}

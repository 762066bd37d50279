package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QRCodeTypeURL is the only type the redirect path will resolve. Matching is
// case-insensitive; other types (email, text, ...) are stored but not redirectable.
const QRCodeTypeURL = "url"

// TargetData is the payload a QR code encodes.
type TargetData struct {
	Value string `json:"value"`
}

// QRCode is owned by exactly one user. ShortCode is the externally addressable
// lookup key; ID is an opaque internal key that never appears in client routes.
// ShortCode uniqueness is enforced by the store, lookups use limit-1 semantics.
type QRCode struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"qrcodeId"`
	OwnerID    string         `gorm:"size:128;not null;index" json:"ownerId"`
	ShortCode  string         `gorm:"size:32;not null;uniqueIndex" json:"shortCode"`
	Type       string         `gorm:"size:20;not null;default:'url'" json:"type"`
	Label      string         `gorm:"size:100" json:"label"`
	TargetData datatypes.JSON `gorm:"type:jsonb" json:"targetData"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Target decodes the targetData column. ok is false when the column is absent
// or unparseable, which callers must treat as invalid QR code data.
func (q *QRCode) Target() (TargetData, bool) {
	if len(q.TargetData) == 0 {
		return TargetData{}, false
	}
	var t TargetData
	if err := json.Unmarshal(q.TargetData, &t); err != nil {
		return TargetData{}, false
	}
	return t, true
}

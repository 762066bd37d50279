package dto

import (
	"time"

	"github.com/qrtrail/qrtrail-backend/internal/models"
)

type CreateQRCodeRequest struct {
	Label      string           `json:"label"`
	Type       string           `json:"type"`
	TargetData TargetDataFields `json:"targetData"`
}

type TargetDataFields struct {
	Value string `json:"value"`
}

type UpdateQRCodeRequest struct {
	Label      *string          `json:"label"`
	Type       *string          `json:"type"`
	TargetData *TargetDataPatch `json:"targetData"`
}

type TargetDataPatch struct {
	Value *string `json:"value"`
}

// Patch builds the sparse update from the allow-listed fields (label, type,
// targetData.value) that are present and non-null. An empty map means the
// request carried nothing updatable.
func (r *UpdateQRCodeRequest) Patch() map[string]interface{} {
	patch := map[string]interface{}{}
	if r.Label != nil {
		patch["label"] = *r.Label
	}
	if r.Type != nil {
		patch["type"] = *r.Type
	}
	if r.TargetData != nil && r.TargetData.Value != nil {
		patch["targetData"] = map[string]interface{}{
			"value": *r.TargetData.Value,
		}
	}
	return patch
}

type QRCodeResponse struct {
	QRCodeID   string           `json:"qrcodeId"`
	OwnerID    string           `json:"ownerId"`
	ShortCode  string           `json:"shortCode"`
	Type       string           `json:"type"`
	Label      string           `json:"label"`
	TargetData TargetDataFields `json:"targetData"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

func NewQRCodeResponse(q *models.QRCode) QRCodeResponse {
	target, _ := q.Target()
	return QRCodeResponse{
		QRCodeID:   q.ID.String(),
		OwnerID:    q.OwnerID,
		ShortCode:  q.ShortCode,
		Type:       q.Type,
		Label:      q.Label,
		TargetData: TargetDataFields{Value: target.Value},
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
	}
}

type UpdateResponse struct {
	Message string                 `json:"message"`
	Changes map[string]interface{} `json:"changes"`
}

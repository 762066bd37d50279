package models

import "time"

// User is the profile record for an account. Its primary key is the opaque
// identity key issued by the external identity provider, not a local UUID.
type User struct {
	ID          string    `gorm:"primaryKey;size:128" json:"userId"`
	Email       string    `gorm:"size:255" json:"email"`
	DisplayName string    `gorm:"size:255" json:"displayName"`
	AvatarURL   string    `gorm:"size:512" json:"avatarUrl"`
	TotalScans  int64     `gorm:"not null;default:0" json:"totalScans"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

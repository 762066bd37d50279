package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/qrtrail/qrtrail-backend/internal/database"
	"github.com/qrtrail/qrtrail-backend/internal/dto"
	"github.com/qrtrail/qrtrail-backend/internal/identity"
	"github.com/qrtrail/qrtrail-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user profile already exists")
)

type UserService struct {
	db       *gorm.DB
	deleter  *database.BatchDeleter
	provider identity.Provider
}

func NewUserService(db *gorm.DB, deleter *database.BatchDeleter, provider identity.Provider) *UserService {
	return &UserService{db: db, deleter: deleter, provider: provider}
}

// CreateProfile stores the profile row for an identity the provider has
// already registered.
func (s *UserService) CreateProfile(ctx context.Context, userID string, req *dto.CreateProfileRequest) (*models.User, error) {
	var existing models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	user := &models.User{
		ID:          userID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user profile: %w", err)
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies a sparse patch (keys: email, displayName, avatarUrl)
// to the caller's own profile row. ErrUserNotFound when no row exists: a
// mutation never succeeds against a record that is not there.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, patch map[string]interface{}) error {
	columns := map[string]interface{}{}
	if email, ok := patch["email"]; ok {
		columns["email"] = email
	}
	if name, ok := patch["displayName"]; ok {
		columns["display_name"] = name
	}
	if avatar, ok := patch["avatarUrl"]; ok {
		columns["avatar_url"] = avatar
	}
	if len(columns) == 0 {
		return nil
	}

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(columns)
	if result.Error != nil {
		return fmt.Errorf("failed to update user profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteAccount cascades over everything the account owns, in strict order:
// scan events, then QR codes, then the profile row, then the provider's
// identity record. Each collection is drained by the batch deleter; the
// cascade is sequential and not atomic across collections, so a failure leaves
// earlier collections deleted. Every step is idempotent, which makes the whole
// cascade safe to re-run after an interruption.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := s.deleter.DeleteAll(ctx, &models.ScanEvent{}, database.ForOwner(userID)); err != nil {
		return fmt.Errorf("cascade: scan events: %w", err)
	}
	if _, err := s.deleter.DeleteAll(ctx, &models.QRCode{}, database.ForOwner(userID)); err != nil {
		return fmt.Errorf("cascade: qr codes: %w", err)
	}
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("cascade: user profile: %w", err)
	}
	if err := s.provider.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("cascade: identity record: %w", err)
	}
	return nil
}

// List returns a page of all user profiles, for the admin surface.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users := make([]models.User, 0)
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

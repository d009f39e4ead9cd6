package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository exposes the user lookups the secrets subsystem needs.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// SubscriptionTier returns the user's subscription tier name.
func (r *UserRepository) SubscriptionTier(ctx context.Context, userID uuid.UUID) (string, error) {
	var model UserModel
	err := r.db.WithContext(ctx).
		Select("id", "subscription_tier").
		Where("id = ?", userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("user %s not found", userID)
		}
		return "", fmt.Errorf("fetching user %s: %w", userID, err)
	}
	return model.SubscriptionTier, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkaninda/siri/internal/secrets"
)

// SecretRepository implements secrets.Store with PostgreSQL.
type SecretRepository struct {
	db *gorm.DB
}

// NewSecretRepository creates a SecretRepository.
func NewSecretRepository(db *gorm.DB) *SecretRepository {
	return &SecretRepository{db: db}
}

var _ secrets.Store = (*SecretRepository)(nil)

// List returns the user's secrets ordered by name. Encrypted values are only
// selected from the database when the caller asked for them, so listing for
// display never moves ciphertext.
func (r *SecretRepository) List(ctx context.Context, userID uuid.UUID, includeValues bool) ([]secrets.Secret, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC")
	if !includeValues {
		query = query.Select("id", "user_id", "name", "created_at", "updated_at")
	}

	var models []SecretModel
	if err := query.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing secrets for user %s: %w", userID, err)
	}

	out := make([]secrets.Secret, len(models))
	for i := range models {
		out[i] = *toSecretDomain(&models[i], includeValues)
	}
	return out, nil
}

// Count returns how many secrets the user owns.
func (r *SecretRepository) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&SecretModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting secrets for user %s: %w", userID, err)
	}
	return count, nil
}

// Insert creates the secret. The (user_id, name) unique index is the sole
// arbiter of duplicates — concurrent creates race on it and exactly one wins.
func (r *SecretRepository) Insert(ctx context.Context, userID uuid.UUID, name string, encryptedValue []byte) (*secrets.Secret, error) {
	model := SecretModel{
		ID:             uuid.New(),
		UserID:         userID,
		Name:           name,
		EncryptedValue: encryptedValue,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, secrets.ErrDuplicateName
		}
		return nil, fmt.Errorf("inserting secret %q for user %s: %w", name, userID, err)
	}
	return toSecretDomain(&model, false), nil
}

// UpdateValue replaces the encrypted value of an existing secret. ID and
// CreatedAt are untouched; GORM refreshes UpdatedAt on the update.
func (r *SecretRepository) UpdateValue(ctx context.Context, userID uuid.UUID, name string, encryptedValue []byte) (*secrets.Secret, error) {
	var model SecretModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, secrets.ErrSecretNotFound
		}
		return nil, fmt.Errorf("fetching secret %q for user %s: %w", name, userID, err)
	}

	if err := r.db.WithContext(ctx).
		Model(&model).
		Update("encrypted_value", encryptedValue).Error; err != nil {
		return nil, fmt.Errorf("updating secret %q for user %s: %w", name, userID, err)
	}
	return toSecretDomain(&model, false), nil
}

// Remove deletes the secret and returns the removed record's metadata.
func (r *SecretRepository) Remove(ctx context.Context, userID uuid.UUID, name string) (*secrets.Secret, error) {
	var model SecretModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, secrets.ErrSecretNotFound
		}
		return nil, fmt.Errorf("fetching secret %q for user %s: %w", name, userID, err)
	}

	if err := r.db.WithContext(ctx).Delete(&SecretModel{}, "id = ?", model.ID).Error; err != nil {
		return nil, fmt.Errorf("deleting secret %q for user %s: %w", name, userID, err)
	}
	return toSecretDomain(&model, false), nil
}

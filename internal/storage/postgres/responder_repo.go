package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkaninda/siri/internal/secrets"
)

// ResponderRepository implements the narrow secrets.ResponderStore contract
// over the responders table. Full responder CRUD lives with the webhook
// subsystem, not here.
type ResponderRepository struct {
	db *gorm.DB
}

// NewResponderRepository creates a ResponderRepository.
func NewResponderRepository(db *gorm.DB) *ResponderRepository {
	return &ResponderRepository{db: db}
}

var _ secrets.ResponderStore = (*ResponderRepository)(nil)

// ListResponders returns the user's responders with their access descriptors.
func (r *ResponderRepository) ListResponders(ctx context.Context, userID uuid.UUID) ([]secrets.Responder, error) {
	var models []ResponderModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing responders for user %s: %w", userID, err)
	}

	out := make([]secrets.Responder, 0, len(models))
	for i := range models {
		responder, err := toResponderDomain(&models[i])
		if err != nil {
			return nil, fmt.Errorf("decoding access for responder %s: %w", models[i].ID, err)
		}
		out = append(out, responder)
	}
	return out, nil
}

// UpdateResponderAccess persists a new access descriptor for the responder.
func (r *ResponderRepository) UpdateResponderAccess(ctx context.Context, userID, responderID uuid.UUID, access secrets.SecretsAccess) error {
	column, err := toAccessColumn(access)
	if err != nil {
		return fmt.Errorf("encoding access for responder %s: %w", responderID, err)
	}

	tx := r.db.WithContext(ctx).
		Model(&ResponderModel{}).
		Where("id = ? AND user_id = ?", responderID, userID).
		Update("secrets_access", column)
	if tx.Error != nil {
		return fmt.Errorf("updating access for responder %s: %w", responderID, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("responder %s not found for user %s", responderID, userID)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkaninda/siri/internal/secrets"
)

// TrackerRepository implements the narrow secrets.TrackerStore contract over
// the page_trackers table.
type TrackerRepository struct {
	db *gorm.DB
}

// NewTrackerRepository creates a TrackerRepository.
func NewTrackerRepository(db *gorm.DB) *TrackerRepository {
	return &TrackerRepository{db: db}
}

var _ secrets.TrackerStore = (*TrackerRepository)(nil)

// ListTrackers returns the user's page trackers with their access descriptors.
func (r *TrackerRepository) ListTrackers(ctx context.Context, userID uuid.UUID) ([]secrets.Tracker, error) {
	var models []TrackerModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing trackers for user %s: %w", userID, err)
	}

	out := make([]secrets.Tracker, 0, len(models))
	for i := range models {
		tracker, err := toTrackerDomain(&models[i])
		if err != nil {
			return nil, fmt.Errorf("decoding access for tracker %s: %w", models[i].ID, err)
		}
		out = append(out, tracker)
	}
	return out, nil
}

// UpdateTrackerAccess persists a new access descriptor for the tracker.
func (r *TrackerRepository) UpdateTrackerAccess(ctx context.Context, trackerID uuid.UUID, access secrets.SecretsAccess) error {
	column, err := toAccessColumn(access)
	if err != nil {
		return fmt.Errorf("encoding access for tracker %s: %w", trackerID, err)
	}

	tx := r.db.WithContext(ctx).
		Model(&TrackerModel{}).
		Where("id = ?", trackerID).
		Update("secrets_access", column)
	if tx.Error != nil {
		return fmt.Errorf("updating access for tracker %s: %w", trackerID, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("tracker %s not found", trackerID)
	}
	return nil
}

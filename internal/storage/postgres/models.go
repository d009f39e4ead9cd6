package postgres

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// UserModel maps to the "users" table. Secrets, responders, and trackers hang
// off it with ON DELETE CASCADE, so removing a user removes everything the
// user owns.
type UserModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email            string    `gorm:"not null;uniqueIndex"`
	SubscriptionTier string    `gorm:"not null;default:'basic'"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (UserModel) TableName() string { return "users" }

// SecretModel maps to the "user_secrets" table. The composite unique index on
// (user_id, name) is what serializes concurrent creates of the same name.
type SecretModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_secrets_user_name"`
	User           UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name           string    `gorm:"size:128;not null;uniqueIndex:idx_user_secrets_user_name"`
	EncryptedValue []byte    `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (SecretModel) TableName() string { return "user_secrets" }

// ResponderModel maps to the "responders" table. Only the columns the secrets
// subsystem touches are modeled here; responder CRUD owns the rest.
type ResponderModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	User          UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name          string    `gorm:"not null"`
	Path          string    `gorm:"not null"`
	SecretsAccess JSONB     `gorm:"type:jsonb;not null;default:'{\"kind\":\"none\"}'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ResponderModel) TableName() string { return "responders" }

// TrackerModel maps to the "page_trackers" table.
type TrackerModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	User          UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Name          string    `gorm:"not null"`
	URL           string    `gorm:"not null"`
	SecretsAccess JSONB     `gorm:"type:jsonb;not null;default:'{\"kind\":\"none\"}'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (TrackerModel) TableName() string { return "page_trackers" }

// JSONB is a json.RawMessage that implements the driver.Valuer and sql.Scanner
// interfaces for GORM JSONB columns. SQLite stores the same column as text.
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(append([]byte(nil), v...))
	case string:
		*j = JSONB(v)
	default:
		return errors.New("unsupported type for JSONB scan")
	}
	return nil
}

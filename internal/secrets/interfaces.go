package secrets

import (
	"context"

	"github.com/google/uuid"
)

// Store is the durable per-user secret persistence contract. Every operation
// is scoped by user ID; no operation can observe or mutate another user's
// secret under any name collision.
type Store interface {
	// List returns all of the user's secrets ordered by name ascending.
	// EncryptedValue is populated only when includeValues is true.
	List(ctx context.Context, userID uuid.UUID, includeValues bool) ([]Secret, error)

	// Count returns the number of secrets the user owns.
	Count(ctx context.Context, userID uuid.UUID) (int64, error)

	// Insert creates a secret with a fresh ID and both timestamps set to now.
	// Returns ErrDuplicateName if (userID, name) already exists.
	Insert(ctx context.Context, userID uuid.UUID, name string, encryptedValue []byte) (*Secret, error)

	// UpdateValue replaces the encrypted value, preserving ID and CreatedAt
	// and refreshing UpdatedAt. Returns ErrSecretNotFound if absent.
	UpdateValue(ctx context.Context, userID uuid.UUID, name string, encryptedValue []byte) (*Secret, error)

	// Remove deletes the secret and returns the removed record's metadata.
	// Returns ErrSecretNotFound if absent.
	Remove(ctx context.Context, userID uuid.UUID, name string) (*Secret, error)
}

// SubscriptionLimiter resolves the user's subscription-tier secret cap.
type SubscriptionLimiter interface {
	SecretLimit(ctx context.Context, userID uuid.UUID) (int, error)
}

// Responder is the narrow view of a webhook responder this package needs:
// its identity and its secrets-access descriptor. Responder CRUD lives with
// the responder store itself.
type Responder struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string
	Access SecretsAccess
}

// Tracker is the narrow view of a page tracker this package needs.
type Tracker struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Name   string
	Access SecretsAccess
}

// ResponderStore is the read/update contract exposed by the webhook-responder
// store, consumed during the post-delete cleanup pass.
type ResponderStore interface {
	ListResponders(ctx context.Context, userID uuid.UUID) ([]Responder, error)
	UpdateResponderAccess(ctx context.Context, userID, responderID uuid.UUID, access SecretsAccess) error
}

// TrackerStore is the read/update contract exposed by the page-tracker store.
type TrackerStore interface {
	ListTrackers(ctx context.Context, userID uuid.UUID) ([]Tracker, error)
	UpdateTrackerAccess(ctx context.Context, trackerID uuid.UUID, access SecretsAccess) error
}

// TrackerSync pushes a resolved name→plaintext map to the external tracker
// service, one call per affected tracker. Failures are observability events
// only; callers never surface them.
type TrackerSync interface {
	PushSecretMap(ctx context.Context, trackerID uuid.UUID, values map[string]string) error
}

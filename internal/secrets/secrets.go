// Package secrets implements per-user encrypted secret management: named,
// encrypted-at-rest values that dependent resources (webhook responders, page
// trackers) reference indirectly by name through a secrets-access descriptor.
// Plaintext only ever leaves this package through DecryptedSecrets, at the
// point of authorized use.
package secrets

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Value limits enforced before any encryption or storage I/O.
const (
	MaxNameLength  = 128
	MaxValueLength = 10240
)

// ErrSecretNotFound is returned when no secret with the given name exists for the user.
var ErrSecretNotFound = errors.New("secret not found")

// ErrDuplicateName is returned when the user already owns a secret with that name.
var ErrDuplicateName = errors.New("a secret with this name already exists")

// ErrKeyNotConfigured is returned by encrypting operations when no encryption
// key was configured. This is an operator misconfiguration, not a user error.
var ErrKeyNotConfigured = errors.New("encryption key is not configured")

// ValidationError reports a name or value that fails shape validation.
// It is always safe to surface to the caller.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// LimitError reports that the user's subscription secret cap is reached.
type LimitError struct {
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("secret limit of %d reached for the current subscription", e.Limit)
}

// Secret is a named, user-owned, encrypted-at-rest value.
// EncryptedValue is populated only when a caller explicitly asked for values;
// it is never serialized to any client-facing representation.
type Secret struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	Name           string    `json:"name"`
	EncryptedValue []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ValidateName checks the secret-name shape: non-empty, at most MaxNameLength
// characters, first character an ASCII letter, the rest ASCII alphanumeric,
// underscore, or hyphen.
func ValidateName(name string) error {
	if name == "" {
		return &ValidationError{Reason: "secret name cannot be empty"}
	}
	if len(name) > MaxNameLength {
		return &ValidationError{Reason: fmt.Sprintf("secret name cannot be longer than %d characters", MaxNameLength)}
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		letter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if i == 0 {
			if !letter {
				return &ValidationError{Reason: "secret name must start with a letter"}
			}
			continue
		}
		if !letter && !(c >= '0' && c <= '9') && c != '_' && c != '-' {
			return &ValidationError{Reason: "secret name may only contain letters, digits, underscores, and hyphens"}
		}
	}
	return nil
}

// ValidateValue checks the secret-value shape: non-empty, at most MaxValueLength bytes.
func ValidateValue(value string) error {
	if value == "" {
		return &ValidationError{Reason: "secret value cannot be empty"}
	}
	if len(value) > MaxValueLength {
		return &ValidationError{Reason: fmt.Sprintf("secret value cannot be larger than %d bytes", MaxValueLength)}
	}
	return nil
}

package postgres

import (
	"encoding/json"

	"github.com/jkaninda/siri/internal/secrets"
)

func toSecretDomain(m *SecretModel, includeValue bool) *secrets.Secret {
	s := &secrets.Secret{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if includeValue {
		s.EncryptedValue = append([]byte(nil), m.EncryptedValue...)
	}
	return s
}

// toAccessDomain decodes a stored descriptor; a NULL or empty column means none.
func toAccessDomain(raw JSONB) (secrets.SecretsAccess, error) {
	if len(raw) == 0 {
		return secrets.NoAccess(), nil
	}
	var access secrets.SecretsAccess
	if err := json.Unmarshal(raw, &access); err != nil {
		return secrets.NoAccess(), err
	}
	return access, nil
}

func toAccessColumn(access secrets.SecretsAccess) (JSONB, error) {
	data, err := json.Marshal(access)
	if err != nil {
		return nil, err
	}
	return JSONB(data), nil
}

func toResponderDomain(m *ResponderModel) (secrets.Responder, error) {
	access, err := toAccessDomain(m.SecretsAccess)
	if err != nil {
		return secrets.Responder{}, err
	}
	return secrets.Responder{
		ID:     m.ID,
		UserID: m.UserID,
		Name:   m.Name,
		Access: access,
	}, nil
}

func toTrackerDomain(m *TrackerModel) (secrets.Tracker, error) {
	access, err := toAccessDomain(m.SecretsAccess)
	if err != nil {
		return secrets.Tracker{}, err
	}
	return secrets.Tracker{
		ID:     m.ID,
		UserID: m.UserID,
		Name:   m.Name,
		Access: access,
	}, nil
}

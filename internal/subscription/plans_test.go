package subscription

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type stubTierSource struct {
	tier string
	err  error
}

func (s *stubTierSource) SubscriptionTier(context.Context, uuid.UUID) (string, error) {
	return s.tier, s.err
}

func testConfig() Config {
	return Config{
		DefaultTier: "basic",
		Tiers:       map[string]int{"basic": 5, "pro": 50},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", testConfig(), false},
		{"no tiers", Config{DefaultTier: "basic"}, true},
		{"no default", Config{Tiers: map[string]int{"basic": 5}}, true},
		{"default not in tiers", Config{DefaultTier: "gold", Tiers: map[string]int{"basic": 5}}, true},
		{"negative limit", Config{DefaultTier: "basic", Tiers: map[string]int{"basic": -1}}, true},
		{"zero limit ok", Config{DefaultTier: "frozen", Tiers: map[string]int{"frozen": 0}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSecretLimit(t *testing.T) {
	ctx := context.Background()

	t.Run("known tier", func(t *testing.T) {
		p := NewPlans(testConfig(), &stubTierSource{tier: "pro"}, nil)
		limit, err := p.SecretLimit(ctx, uuid.New())
		if err != nil {
			t.Fatalf("SecretLimit: %v", err)
		}
		if limit != 50 {
			t.Errorf("limit = %d, want 50", limit)
		}
	})

	t.Run("unknown tier falls back to default", func(t *testing.T) {
		p := NewPlans(testConfig(), &stubTierSource{tier: "legacy-gold"}, nil)
		limit, err := p.SecretLimit(ctx, uuid.New())
		if err != nil {
			t.Fatalf("SecretLimit: %v", err)
		}
		if limit != 5 {
			t.Errorf("limit = %d, want default tier's 5", limit)
		}
	})

	t.Run("source error propagates", func(t *testing.T) {
		boom := errors.New("db down")
		p := NewPlans(testConfig(), &stubTierSource{err: boom}, nil)
		if _, err := p.SecretLimit(ctx, uuid.New()); !errors.Is(err, boom) {
			t.Errorf("error = %v, want wrapped db error", err)
		}
	})
}

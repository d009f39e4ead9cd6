// Package subscription resolves per-user subscription tiers to concrete
// quotas. Tiers and their quotas come from configuration; the user's current
// tier comes from a TierSource, typically the users table.
package subscription

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jkaninda/siri/internal/secrets"
)

// TierSource resolves a user ID to the name of the user's subscription tier.
type TierSource interface {
	SubscriptionTier(ctx context.Context, userID uuid.UUID) (string, error)
}

// Config maps tier names to secret quotas.
type Config struct {
	// DefaultTier is used when a user's stored tier has no quota entry.
	DefaultTier string `yaml:"default_tier" json:"default_tier"`
	// Tiers maps a tier name to the number of secrets it allows.
	Tiers map[string]int `yaml:"tiers" json:"tiers"`
}

// Validate checks that the tier map is usable.
func (c Config) Validate() error {
	if len(c.Tiers) == 0 {
		return fmt.Errorf("subscription: at least one tier is required")
	}
	if c.DefaultTier == "" {
		return fmt.Errorf("subscription: default_tier is required")
	}
	if _, ok := c.Tiers[c.DefaultTier]; !ok {
		return fmt.Errorf("subscription: default_tier %q has no entry in tiers", c.DefaultTier)
	}
	for name, limit := range c.Tiers {
		if limit < 0 {
			return fmt.Errorf("subscription: tier %q has negative limit %d", name, limit)
		}
	}
	return nil
}

// Plans implements secrets.SubscriptionLimiter from a static tier map.
type Plans struct {
	cfg    Config
	source TierSource
	logger *slog.Logger
}

var _ secrets.SubscriptionLimiter = (*Plans)(nil)

// NewPlans creates a Plans limiter. The config must have been validated.
func NewPlans(cfg Config, source TierSource, logger *slog.Logger) *Plans {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Plans{cfg: cfg, source: source, logger: logger.With("component", "subscription")}
}

// SecretLimit returns the secret quota for the user's tier. Unknown tiers
// fall back to the default tier's quota rather than failing the operation.
func (p *Plans) SecretLimit(ctx context.Context, userID uuid.UUID) (int, error) {
	tier, err := p.source.SubscriptionTier(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("resolving subscription tier for user %s: %w", userID, err)
	}
	limit, ok := p.cfg.Tiers[tier]
	if !ok {
		p.logger.LogAttrs(ctx, slog.LevelWarn, "unknown subscription tier, using default",
			slog.String("user_id", userID.String()),
			slog.String("tier", tier),
			slog.String("default_tier", p.cfg.DefaultTier))
		limit = p.cfg.Tiers[p.cfg.DefaultTier]
	}
	return limit, nil
}

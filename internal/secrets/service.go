package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jkaninda/siri/internal/crypto"
)

// Service orchestrates secret operations for one authenticated user:
// validation, encryption, limit enforcement, and propagation of deletions into
// dependent resources and the external tracker service. It is the only
// component callers interact with directly.
//
// The cleanup pass and tracker sync are deliberately not transactional with
// the triggering mutation — the local database and the external sync target
// cannot share a transaction, so both run as best-effort post-commit steps
// with per-item log-and-continue semantics. A dangling name left in a
// selected descriptor by a crash is self-healing: it simply never resolves.
type Service struct {
	userID     uuid.UUID
	store      Store
	cipher     *crypto.Cipher
	plans      SubscriptionLimiter
	responders ResponderStore
	trackers   TrackerStore
	sync       TrackerSync
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
}

// ServiceOptions carries the collaborators a Service needs. Store and Plans
// are required; the rest are optional and nil-safe. A nil Cipher means no
// encryption key is configured — encrypting operations fail with
// ErrKeyNotConfigured.
type ServiceOptions struct {
	Store      Store
	Cipher     *crypto.Cipher
	Plans      SubscriptionLimiter
	Responders ResponderStore
	Trackers   TrackerStore
	Sync       TrackerSync
	Logger     *slog.Logger
	Metrics    *Metrics
	Tracer     trace.Tracer
}

// NewService builds a Service bound to the given user.
func NewService(userID uuid.UUID, opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		userID:     userID,
		store:      opts.Store,
		cipher:     opts.Cipher,
		plans:      opts.Plans,
		responders: opts.Responders,
		trackers:   opts.Trackers,
		sync:       opts.Sync,
		logger:     logger.With(slog.String("component", "secrets")),
		metrics:    opts.Metrics,
		tracer:     opts.Tracer,
	}
}

// ListSecrets returns the user's secrets ordered by name, metadata only.
func (s *Service) ListSecrets(ctx context.Context) ([]Secret, error) {
	ctx, span := s.startSpan(ctx, "secrets.list")
	defer span.End()

	list, err := s.store.List(ctx, s.userID, false)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("listing secrets: %w", err))
	}
	return list, nil
}

// CreateSecret validates, encrypts, and stores a new secret, then pushes the
// refreshed secret maps to the user's trackers. The returned metadata never
// carries ciphertext or plaintext.
func (s *Service) CreateSecret(ctx context.Context, name, value string) (*Secret, error) {
	ctx, span := s.startSpan(ctx, "secrets.create")
	defer span.End()

	if err := ValidateName(name); err != nil {
		return nil, s.fail(span, err)
	}
	if err := ValidateValue(value); err != nil {
		return nil, s.fail(span, err)
	}

	limit, err := s.plans.SecretLimit(ctx, s.userID)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("resolving secret limit: %w", err))
	}
	count, err := s.store.Count(ctx, s.userID)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("counting secrets: %w", err))
	}
	if count >= int64(limit) {
		return nil, s.fail(span, &LimitError{Limit: limit})
	}

	if s.cipher == nil {
		return nil, s.fail(span, ErrKeyNotConfigured)
	}
	encrypted, err := s.cipher.Encrypt([]byte(value))
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("encrypting secret %q: %w", name, err))
	}

	secret, err := s.store.Insert(ctx, s.userID, name, encrypted)
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			// A create collision is caller-fixable, so it surfaces as a
			// validation-class error.
			return nil, s.fail(span, &ValidationError{Reason: err.Error()})
		}
		return nil, s.fail(span, fmt.Errorf("storing secret %q: %w", name, err))
	}

	if s.metrics != nil {
		s.metrics.SecretsCreated.Inc()
	}
	s.syncTrackers(ctx)
	return secret, nil
}

// UpdateSecret encrypts and stores a new value for an existing secret.
func (s *Service) UpdateSecret(ctx context.Context, name, value string) (*Secret, error) {
	ctx, span := s.startSpan(ctx, "secrets.update")
	defer span.End()

	if err := ValidateValue(value); err != nil {
		return nil, s.fail(span, err)
	}
	if s.cipher == nil {
		return nil, s.fail(span, ErrKeyNotConfigured)
	}
	encrypted, err := s.cipher.Encrypt([]byte(value))
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("encrypting secret %q: %w", name, err))
	}

	secret, err := s.store.UpdateValue(ctx, s.userID, name, encrypted)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return nil, s.fail(span, err)
		}
		return nil, s.fail(span, fmt.Errorf("updating secret %q: %w", name, err))
	}

	if s.metrics != nil {
		s.metrics.SecretsUpdated.Inc()
	}
	s.syncTrackers(ctx)
	return secret, nil
}

// DeleteSecret removes the secret, detaches its name from every dependent
// resource that selected it, and refreshes the trackers' secret maps. The
// delete commits first; cleanup and sync failures are logged per resource and
// never abort or roll back the delete.
func (s *Service) DeleteSecret(ctx context.Context, name string) (*Secret, error) {
	ctx, span := s.startSpan(ctx, "secrets.delete")
	defer span.End()

	secret, err := s.store.Remove(ctx, s.userID, name)
	if err != nil {
		if errors.Is(err, ErrSecretNotFound) {
			return nil, s.fail(span, err)
		}
		return nil, s.fail(span, fmt.Errorf("removing secret %q: %w", name, err))
	}

	if s.metrics != nil {
		s.metrics.SecretsDeleted.Inc()
	}
	s.detachFromResources(ctx, name)
	s.syncTrackers(ctx)
	return secret, nil
}

// DecryptedSecrets resolves the plaintext values visible through the given
// access descriptor. A none descriptor touches neither the store nor the
// cipher. A secret that fails to decrypt is logged and omitted — one corrupted
// value must not blank out the rest.
func (s *Service) DecryptedSecrets(ctx context.Context, access SecretsAccess) (map[string]string, error) {
	ctx, span := s.startSpan(ctx, "secrets.decrypt")
	defer span.End()

	values := make(map[string]string)
	if access.IsNone() {
		return values, nil
	}
	if s.cipher == nil {
		return nil, s.fail(span, ErrKeyNotConfigured)
	}

	// Selected name sets overlap heavily with "all" in practice, so fetch the
	// whole set once and filter instead of querying per name.
	list, err := s.store.List(ctx, s.userID, true)
	if err != nil {
		return nil, s.fail(span, fmt.Errorf("fetching secrets: %w", err))
	}

	for _, secret := range list {
		if !access.Contains(secret.Name) {
			continue
		}
		plaintext, err := s.cipher.Decrypt(secret.EncryptedValue)
		if err != nil {
			s.logger.Error("failed to decrypt secret, omitting from results",
				slog.String("user_id", s.userID.String()),
				slog.String("secret", secret.Name),
				slog.Any("error", err))
			if s.metrics != nil {
				s.metrics.DecryptFailures.Inc()
			}
			continue
		}
		values[secret.Name] = string(plaintext)
	}
	return values, nil
}

// detachFromResources removes the deleted name from every responder and
// tracker whose descriptor selected it. Resource updates are independent;
// partial completion is acceptable and logged, not rolled back.
func (s *Service) detachFromResources(ctx context.Context, name string) {
	if s.responders != nil {
		responders, err := s.responders.ListResponders(ctx, s.userID)
		if err != nil {
			s.cleanupFailed("listing responders", err, slog.String("secret", name))
		} else {
			for _, r := range responders {
				updated := r.Access.WithoutSecret(name)
				if updated.Equal(r.Access) {
					continue
				}
				if err := s.responders.UpdateResponderAccess(ctx, s.userID, r.ID, updated); err != nil {
					s.cleanupFailed("updating responder access", err,
						slog.String("secret", name),
						slog.String("responder_id", r.ID.String()))
				}
			}
		}
	}

	if s.trackers != nil {
		trackers, err := s.trackers.ListTrackers(ctx, s.userID)
		if err != nil {
			s.cleanupFailed("listing trackers", err, slog.String("secret", name))
			return
		}
		for _, tr := range trackers {
			updated := tr.Access.WithoutSecret(name)
			if updated.Equal(tr.Access) {
				continue
			}
			if err := s.trackers.UpdateTrackerAccess(ctx, tr.ID, updated); err != nil {
				s.cleanupFailed("updating tracker access", err,
					slog.String("secret", name),
					slog.String("tracker_id", tr.ID.String()))
			}
		}
	}
}

// syncTrackers re-derives the secret map for every tracker with a non-none
// descriptor and pushes it to the external tracker service. The caller waits
// for completion, but the outcome is an observability event only.
func (s *Service) syncTrackers(ctx context.Context) {
	if s.sync == nil || s.trackers == nil {
		return
	}

	trackers, err := s.trackers.ListTrackers(ctx, s.userID)
	if err != nil {
		s.syncFailed("listing trackers for sync", err)
		return
	}

	for _, tr := range trackers {
		if tr.Access.IsNone() {
			continue
		}
		values, err := s.DecryptedSecrets(ctx, tr.Access)
		if err != nil {
			s.syncFailed("resolving secret map", err, slog.String("tracker_id", tr.ID.String()))
			continue
		}
		if err := s.sync.PushSecretMap(ctx, tr.ID, values); err != nil {
			s.syncFailed("pushing secret map", err, slog.String("tracker_id", tr.ID.String()))
			continue
		}
		if s.metrics != nil {
			s.metrics.SyncPushes.Inc()
		}
	}
}

func (s *Service) cleanupFailed(op string, err error, attrs ...slog.Attr) {
	args := append([]slog.Attr{
		slog.String("user_id", s.userID.String()),
		slog.Any("error", err),
	}, attrs...)
	s.logger.LogAttrs(context.Background(), slog.LevelError, "secret cleanup: "+op+" failed", args...)
	if s.metrics != nil {
		s.metrics.CleanupFailures.Inc()
	}
}

func (s *Service) syncFailed(op string, err error, attrs ...slog.Attr) {
	args := append([]slog.Attr{
		slog.String("user_id", s.userID.String()),
		slog.Any("error", err),
	}, attrs...)
	s.logger.LogAttrs(context.Background(), slog.LevelError, "tracker sync: "+op+" failed", args...)
	if s.metrics != nil {
		s.metrics.SyncFailures.Inc()
	}
}

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String("user.id", s.userID.String())))
}

// fail records the error on the span and passes it through.
func (s *Service) fail(span trace.Span, err error) error {
	if span.IsRecording() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

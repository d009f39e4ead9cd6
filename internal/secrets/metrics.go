package secrets

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the secrets service.
type Metrics struct {
	SecretsCreated  prometheus.Counter
	SecretsUpdated  prometheus.Counter
	SecretsDeleted  prometheus.Counter
	DecryptFailures prometheus.Counter
	CleanupFailures prometheus.Counter
	SyncPushes      prometheus.Counter
	SyncFailures    prometheus.Counter
}

// NewMetrics registers and returns secrets service metrics.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		SecretsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siri_secrets_created_total",
			Help: "Total secrets created.",
		}),
		SecretsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siri_secrets_updated_total",
			Help: "Total secret value updates.",
		}),
		SecretsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siri_secrets_deleted_total",
			Help: "Total secrets deleted.",
		}),
		DecryptFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siri_secrets_decrypt_failures_total",
			Help: "Secrets dropped from bulk reads because decryption failed.",
		}),
		CleanupFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siri_secrets_cleanup_failures_total",
			Help: "Dependent-resource access updates that failed after a secret delete.",
		}),
		SyncPushes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siri_secrets_sync_pushes_total",
			Help: "Secret maps pushed to the external tracker service.",
		}),
		SyncFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "siri_secrets_sync_failures_total",
			Help: "Failed secret-map pushes to the external tracker service.",
		}),
	}
	reg.MustRegister(
		m.SecretsCreated, m.SecretsUpdated, m.SecretsDeleted,
		m.DecryptFailures, m.CleanupFailures, m.SyncPushes, m.SyncFailures,
	)
	return m
}

package observability

import (
	"context"
	"testing"

	"github.com/jkaninda/siri/internal/config"
)

func TestNew_NilConfigDisablesEverything(t *testing.T) {
	obs, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil): %v", err)
	}
	if obs != nil {
		t.Fatalf("New(nil) = %v, want nil", obs)
	}

	// All accessors must be safe on the nil facade.
	if obs.RegistryOrNil() != nil {
		t.Error("nil facade returned a registry")
	}
	if obs.TracerOrNil() != nil {
		t.Error("nil facade returned a tracer")
	}
	obs.Shutdown(context.Background())
}

func TestNew_RegistryWithoutTracing(t *testing.T) {
	obs, err := New(&config.ObservabilityConfig{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if obs.RegistryOrNil() == nil {
		t.Error("expected a metrics registry")
	}
	if obs.TracerOrNil() != nil {
		t.Error("tracing should stay disabled without config")
	}
}

func TestNewTracerSetup_Disabled(t *testing.T) {
	ts, err := NewTracerSetup(&config.TracingConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewTracerSetup: %v", err)
	}
	if ts != nil {
		t.Fatalf("disabled tracing returned %v, want nil", ts)
	}
	// A nil setup still hands out a usable no-op tracer.
	if ts.Tracer() == nil {
		t.Error("nil TracerSetup must return a no-op tracer")
	}
	if err := ts.Shutdown(context.Background()); err != nil {
		t.Errorf("nil Shutdown: %v", err)
	}
}

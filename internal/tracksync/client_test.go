package tracksync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func newTestRunner(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// clearSyncEnv prevents host environment from interfering with tests.
func clearSyncEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SIRI_TRACKSYNC_URL", "")
	t.Setenv("SIRI_TRACKSYNC_TOKEN", "")
}

func TestClient_PushSecretMap(t *testing.T) {
	clearSyncEnv(t)
	trackerID := uuid.New()

	var gotPath, gotAuth string
	var gotBody struct {
		Secrets map[string]string `json:"secrets"`
	}
	srv := newTestRunner(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("got method %s, want PUT", r.Method)
		}
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	c, err := New(Config{BaseURL: srv.URL, Token: "test-token"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	err = c.PushSecretMap(context.Background(), trackerID, map[string]string{
		"API_KEY": "v1",
		"TOKEN":   "v2",
	})
	if err != nil {
		t.Fatalf("PushSecretMap: %v", err)
	}
	if want := "/api/v1/trackers/" + trackerID.String() + "/secrets"; gotPath != want {
		t.Errorf("got path %q, want %q", gotPath, want)
	}
	if gotAuth != "Bearer test-token" {
		t.Errorf("got Authorization %q, want bearer token", gotAuth)
	}
	if gotBody.Secrets["API_KEY"] != "v1" || gotBody.Secrets["TOKEN"] != "v2" {
		t.Errorf("got body %v, want both secrets", gotBody.Secrets)
	}
}

func TestClient_PushEmptyMapClearsState(t *testing.T) {
	clearSyncEnv(t)

	var raw map[string]json.RawMessage
	srv := newTestRunner(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	c, err := New(Config{BaseURL: srv.URL, Token: "test-token"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := c.PushSecretMap(context.Background(), uuid.New(), nil); err != nil {
		t.Fatalf("PushSecretMap: %v", err)
	}
	// A nil map must serialize as {} so the runner clears state, not as null.
	if string(raw["secrets"]) != "{}" {
		t.Errorf("got secrets=%s, want {}", raw["secrets"])
	}
}

func TestClient_StatusMapping(t *testing.T) {
	clearSyncEnv(t)

	tests := []struct {
		name    string
		status  int
		wantSub string
	}{
		{"not found", http.StatusNotFound, "not registered"},
		{"unauthorized", http.StatusUnauthorized, "access denied"},
		{"forbidden", http.StatusForbidden, "access denied"},
		{"server error", http.StatusBadGateway, "server error"},
		{"unexpected", http.StatusTeapot, "status 418"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestRunner(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			c, err := New(Config{BaseURL: srv.URL, Token: "test-token"})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			err = c.PushSecretMap(context.Background(), uuid.New(), map[string]string{"K": "v"})
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("got error %v, want substring %q", err, tt.wantSub)
			}
		})
	}
}

func TestClient_EnvOverride(t *testing.T) {
	var gotAuth string
	srv := newTestRunner(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	t.Setenv("SIRI_TRACKSYNC_URL", srv.URL)
	t.Setenv("SIRI_TRACKSYNC_TOKEN", "env-token")

	c, err := New(Config{BaseURL: "http://should-be-overridden:9999", Token: "should-be-overridden"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.PushSecretMap(context.Background(), uuid.New(), map[string]string{"K": "v"}); err != nil {
		t.Fatalf("PushSecretMap: %v", err)
	}
	if gotAuth != "Bearer env-token" {
		t.Errorf("got Authorization %q, want env token", gotAuth)
	}
}

func TestNew_MissingURL(t *testing.T) {
	clearSyncEnv(t)
	if _, err := New(Config{Token: "t"}); err == nil {
		t.Fatal("expected error for missing url")
	}
}

func TestNew_MissingToken(t *testing.T) {
	clearSyncEnv(t)
	if _, err := New(Config{BaseURL: "http://localhost:9000"}); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestNew_BadTimeout(t *testing.T) {
	clearSyncEnv(t)
	if _, err := New(Config{BaseURL: "http://localhost:9000", Token: "t", Timeout: "soon"}); err == nil {
		t.Fatal("expected error for bad timeout")
	}
}

// Package tracksync pushes decrypted secret maps to the external page-tracker
// runner over HTTP. Pushes are best effort; callers log and count failures
// instead of surfacing them.
package tracksync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jkaninda/siri/internal/secrets"
)

var _ secrets.TrackerSync = (*Client)(nil)

// Client implements the TrackerSync contract against the tracker runner's
// REST API. Token-based authentication (bearer). Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// Config holds the tracker runner connection settings. BaseURL and Token are
// overridden by the SIRI_TRACKSYNC_URL and SIRI_TRACKSYNC_TOKEN env vars.
type Config struct {
	BaseURL string `yaml:"url" json:"url"`
	Token   string `yaml:"token" json:"token"`
	// Timeout is a duration string, e.g. "5s". Defaults to 5s.
	Timeout string `yaml:"timeout" json:"timeout"`
}

// New creates a tracker-sync client from config.
func New(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if env := os.Getenv("SIRI_TRACKSYNC_URL"); env != "" {
		baseURL = env
	}
	if baseURL == "" {
		return nil, fmt.Errorf("tracker-sync url is required (set config key 'url' or SIRI_TRACKSYNC_URL)")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	token := cfg.Token
	if env := os.Getenv("SIRI_TRACKSYNC_TOKEN"); env != "" {
		token = env
	}
	if token == "" {
		return nil, fmt.Errorf("tracker-sync token is required (set config key 'token' or SIRI_TRACKSYNC_TOKEN)")
	}

	timeout := 5 * time.Second
	if t := cfg.Timeout; t != "" {
		d, err := time.ParseDuration(t)
		if err != nil {
			return nil, fmt.Errorf("invalid tracker-sync timeout %q: %w", t, err)
		}
		timeout = d
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// PushSecretMap replaces the secret map the runner holds for one tracker.
// The runner treats the body as the full new state, so pushing an empty map
// clears previously synced values.
func (c *Client) PushSecretMap(ctx context.Context, trackerID uuid.UUID, values map[string]string) error {
	if values == nil {
		values = map[string]string{}
	}
	body, err := json.Marshal(struct {
		Secrets map[string]string `json:"secrets"`
	}{Secrets: values})
	if err != nil {
		return fmt.Errorf("encoding secret map: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/trackers/%s/secrets", c.baseURL, trackerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building tracker-sync request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("tracker-sync request failed: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("tracker %s not registered with the runner", trackerID)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("tracker-sync access denied (check token)")
	case resp.StatusCode >= 500:
		return fmt.Errorf("tracker-sync server error %d for tracker %s", resp.StatusCode, trackerID)
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent:
		return fmt.Errorf("tracker-sync returned status %d for tracker %s", resp.StatusCode, trackerID)
	}
	return nil
}

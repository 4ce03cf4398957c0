package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Tagger derives free-text tags from an event description. A failure is a
// soft one: workflows continue with empty tags.
type Tagger interface {
	Tags(ctx context.Context, description string) ([]string, error)
}

// Client calls the configured classification endpoint.
type Client struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
}

func NewFromEnv() *Client {
	return &Client{
		Endpoint: os.Getenv("TAGGER_ENDPOINT"),
		APIKey:   os.Getenv("TAGGER_API_KEY"),
		HTTP:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) Tags(ctx context.Context, description string) ([]string, error) {
	if c.Endpoint == "" {
		return nil, fmt.Errorf("tagger endpoint not configured")
	}

	body, err := json.Marshal(map[string]string{"event_description": description})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tagger API returned %s", resp.Status)
	}

	var out struct {
		Tags []string `json:"tags"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Tags, nil
}

package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Invite describes one calendar entry to create for a user.
type Invite struct {
	Summary         string
	Description     string
	Location        string
	Timezone        string
	Start           time.Time
	DurationHours   int
	DurationMinutes int
}

// Inviter creates calendar entries. Failures are soft for every workflow
// that uses it; callers log and continue.
type Inviter interface {
	CreateEntry(ctx context.Context, inv Invite) error
}

// Client posts invites to the configured calendar endpoint.
type Client struct {
	Endpoint string
	Token    string
	HTTP     *http.Client
}

func NewFromEnv() *Client {
	return &Client{
		Endpoint: os.Getenv("CALENDAR_ENDPOINT"),
		Token:    os.Getenv("CALENDAR_TOKEN"),
		HTTP:     &http.Client{Timeout: 10 * time.Second},
	}
}

type wireEntry struct {
	Summary     string       `json:"summary"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Start       wireDateTime `json:"start"`
	End         wireDateTime `json:"end"`
}

type wireDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

func (c *Client) CreateEntry(ctx context.Context, inv Invite) error {
	if c.Endpoint == "" {
		return fmt.Errorf("calendar endpoint not configured")
	}

	end := inv.Start.
		Add(time.Duration(inv.DurationHours) * time.Hour).
		Add(time.Duration(inv.DurationMinutes) * time.Minute)

	body, err := json.Marshal(wireEntry{
		Summary:     inv.Summary,
		Description: inv.Description,
		Location:    inv.Location,
		Start:       wireDateTime{DateTime: inv.Start.Format("2006-01-02T15:04:05"), TimeZone: inv.Timezone},
		End:         wireDateTime{DateTime: end.Format("2006-01-02T15:04:05"), TimeZone: inv.Timezone},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("calendar API returned %s", resp.Status)
	}
	return nil
}

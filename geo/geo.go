package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"mapmeet/models"
	"mapmeet/rdx"
)

// Suggestion is one autocomplete candidate for a free-text location input.
type Suggestion struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

// Geocoder resolves free-text addresses and coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
	Suggest(ctx context.Context, input string) ([]Suggestion, error)
}

// Client talks to the Google geocoding/places API. Successful geocode
// results are cached in Redis keyed by the raw address text.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

func NewFromEnv() *Client {
	base := os.Getenv("GEOCODE_BASE_URL")
	if base == "" {
		base = "https://maps.googleapis.com/maps/api"
	}
	return &Client{
		BaseURL: base,
		APIKey:  os.Getenv("GEOCODE_API_KEY"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

const geocodeCacheTTL = 24 * time.Hour

func (c *Client) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	cacheKey := "geo:addr:" + address
	if rdx.Conn != nil {
		if cached, err := rdx.RdxGet(cacheKey); err == nil && cached != "" {
			var coords models.Coordinates
			if err := json.Unmarshal([]byte(cached), &coords); err == nil {
				return coords, nil
			}
		}
	}

	endpoint := fmt.Sprintf("%s/geocode/json?address=%s&key=%s",
		c.BaseURL, url.QueryEscape(address), c.APIKey)

	var out struct {
		Status  string `json:"status"`
		Results []struct {
			Geometry struct {
				Location models.Coordinates `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return models.Coordinates{}, err
	}
	if out.Status != "OK" || len(out.Results) == 0 {
		return models.Coordinates{}, fmt.Errorf("geocode %q: status %s", address, out.Status)
	}

	coords := out.Results[0].Geometry.Location
	if rdx.Conn != nil {
		if data, err := json.Marshal(coords); err == nil {
			if err := rdx.RdxSet(cacheKey, string(data), geocodeCacheTTL); err != nil {
				log.Printf("geocode cache write failed: %v", err)
			}
		}
	}
	return coords, nil
}

func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	endpoint := fmt.Sprintf("%s/geocode/json?latlng=%f,%f&key=%s", c.BaseURL, lat, lng, c.APIKey)

	var out struct {
		Status  string `json:"status"`
		Results []struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return "", err
	}
	if out.Status != "OK" || len(out.Results) == 0 {
		return "", fmt.Errorf("reverse geocode: status %s", out.Status)
	}
	return out.Results[0].FormattedAddress, nil
}

func (c *Client) Suggest(ctx context.Context, input string) ([]Suggestion, error) {
	endpoint := fmt.Sprintf("%s/place/autocomplete/json?input=%s&types=geocode|establishment&key=%s",
		c.BaseURL, url.QueryEscape(input), c.APIKey)

	var out struct {
		Status      string `json:"status"`
		Predictions []struct {
			Description string `json:"description"`
			PlaceID     string `json:"place_id"`
		} `json:"predictions"`
	}
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	if out.Status != "OK" {
		return []Suggestion{}, nil
	}

	suggestions := make([]Suggestion, 0, len(out.Predictions))
	for _, p := range out.Predictions {
		suggestions = append(suggestions, Suggestion{Description: p.Description, PlaceID: p.PlaceID})
	}
	return suggestions, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("geocode API returned %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

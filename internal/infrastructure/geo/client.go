// Package geo resolves the registering client's location through an
// external geolocation HTTP API. Lookups are best-effort by contract:
// callers treat any failure as "no location".
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/stansns/crud/internal/core/ports"
)

const lookupTimeout = 3 * time.Second

// Client calls an ipgeolocation.io-compatible endpoint.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      zerolog.Logger
}

func NewClient(endpoint, apiKey string, log zerolog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: lookupTimeout},
		log:      log,
	}
}

type lookupResponse struct {
	CountryName string `json:"country_name"`
	City        string `json:"city"`
	Currency    struct {
		Code string `json:"code"`
	} `json:"currency"`
}

// Lookup resolves the caller's country, city, and currency code.
func (c *Client) Lookup(ctx context.Context) (ports.Location, error) {
	q := url.Values{}
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return ports.Location{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("geolocation lookup failed")
		return ports.Location{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Msg("geolocation lookup rejected")
		return ports.Location{}, fmt.Errorf("geolocation: status %d", resp.StatusCode)
	}

	var lr lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return ports.Location{}, err
	}

	return ports.Location{
		Country:  lr.CountryName,
		City:     lr.City,
		Currency: lr.Currency.Code,
	}, nil
}

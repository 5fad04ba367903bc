// Package geo resolves client IP addresses to a coarse location string.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/narama3535-tech/fazancloud/internal/config"
)

// Fallbacks used when the lookup fails. Registration and login never
// fail on a geo error; the record just carries the hidden markers.
const (
	FallbackIP       = "127.0.0.1"
	FallbackLocation = "Unknown (Hidden)"
)

// Info is the resolved client origin.
type Info struct {
	IP       string
	Location string
}

// Client queries an ipapi.co compatible endpoint.
type Client struct {
	client *resty.Client
	logger zerolog.Logger
}

// NewClient creates a new geolocation client.
func NewClient(cfg config.GeoConfig, logger zerolog.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout)

	return &Client{
		client: client,
		logger: logger.With().Str("service", "geo").Logger(),
	}
}

type lookupResponse struct {
	IP          string `json:"ip"`
	City        string `json:"city"`
	Region      string `json:"region"`
	CountryName string `json:"country_name"`
}

// Lookup resolves the given IP. An empty ip resolves the caller's own
// address. Failures return the fallback markers, never an error.
func (c *Client) Lookup(ctx context.Context, ip string) Info {
	path := "/json/"
	if ip != "" {
		path = "/" + ip + "/json/"
	}

	resp, err := c.client.R().SetContext(ctx).Get(path)
	if err != nil {
		c.logger.Warn().Err(err).Msg("geo lookup failed")
		return Info{IP: FallbackIP, Location: FallbackLocation}
	}
	if resp.StatusCode() != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode()).Msg("geo lookup returned non-200")
		return Info{IP: FallbackIP, Location: FallbackLocation}
	}

	var data lookupResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		c.logger.Warn().Err(err).Msg("geo lookup returned invalid JSON")
		return Info{IP: FallbackIP, Location: FallbackLocation}
	}

	resolvedIP := data.IP
	if resolvedIP == "" {
		resolvedIP = "Unknown"
	}

	city := data.City
	if city == "" {
		city = "Unknown"
	}
	region := data.Region
	if region == "" {
		region = "Unknown"
	}
	country := data.CountryName
	if country == "" {
		country = "Unknown"
	}

	return Info{
		IP:       resolvedIP,
		Location: fmt.Sprintf("%s, %s, %s", city, region, country),
	}
}

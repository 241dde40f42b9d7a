// Package geo resolves the observer's coordinates for the sky panel.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/litescript/skydeck/internal/config"
)

const (
	// DefaultLookupURL is the IP geolocation endpoint.
	DefaultLookupURL = "https://ipapi.co/json/"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 10 * time.Second
)

// ErrUnavailable means no location could be determined. Callers treat it
// like a denied permission prompt: the sky refresh stops silently.
var ErrUnavailable = errors.New("location unavailable")

// Coords is a latitude/longitude pair in degrees.
type Coords struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether both values are within range.
func (c Coords) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// String formats the coordinates with two decimals.
func (c Coords) String() string {
	return fmt.Sprintf("%.2f, %.2f", c.Latitude, c.Longitude)
}

// Locator is a location capability.
type Locator interface {
	Locate(ctx context.Context) (Coords, error)
}

// StaticLocator always returns the same coordinates.
type StaticLocator struct {
	Coords Coords
}

// Locate implements Locator.
func (s StaticLocator) Locate(ctx context.Context) (Coords, error) {
	if err := ctx.Err(); err != nil {
		return Coords{}, err
	}
	return s.Coords, nil
}

// Disabled is a Locator that is never available.
type Disabled struct{}

// Locate implements Locator.
func (Disabled) Locate(context.Context) (Coords, error) {
	return Coords{}, ErrUnavailable
}

// IPLocator looks up approximate coordinates from the public IP address.
type IPLocator struct {
	client  *http.Client
	url     string
	timeout time.Duration
}

// Option configures an IPLocator.
type Option func(*IPLocator)

// WithURL sets the lookup endpoint.
func WithURL(url string) Option {
	return func(l *IPLocator) {
		l.url = url
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(l *IPLocator) {
		l.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(l *IPLocator) {
		l.client = client
	}
}

// NewIPLocator creates an IP geolocation client.
func NewIPLocator(opts ...Option) *IPLocator {
	l := &IPLocator{
		url:     DefaultLookupURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.client == nil {
		l.client = &http.Client{Timeout: l.timeout}
	}
	return l
}

// ipResponse covers the fields ipapi-style services return.
type ipResponse struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Error     bool     `json:"error"`
	Reason    string   `json:"reason"`
}

// Locate implements Locator. Every failure wraps ErrUnavailable.
func (l *IPLocator) Locate(ctx context.Context) (Coords, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return Coords{}, fmt.Errorf("%w: create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "skydeck/1.0")

	resp, err := l.client.Do(req)
	if err != nil {
		return Coords{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Coords{}, fmt.Errorf("%w: unexpected status code: %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Coords{}, fmt.Errorf("%w: read response body: %v", ErrUnavailable, err)
	}

	var r ipResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return Coords{}, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if r.Error {
		return Coords{}, fmt.Errorf("%w: %s", ErrUnavailable, r.Reason)
	}
	if r.Latitude == nil || r.Longitude == nil {
		return Coords{}, fmt.Errorf("%w: response has no coordinates", ErrUnavailable)
	}

	c := Coords{Latitude: *r.Latitude, Longitude: *r.Longitude}
	if !c.Valid() {
		return Coords{}, fmt.Errorf("%w: coordinates out of range: %s", ErrUnavailable, c)
	}
	return c, nil
}

// FromConfig picks the locator matching the location settings.
func FromConfig(cfg config.Config) Locator {
	switch {
	case !cfg.Location.Enabled:
		return Disabled{}
	case cfg.HasFixedLocation():
		return StaticLocator{Coords: Coords{
			Latitude:  *cfg.Location.Latitude,
			Longitude: *cfg.Location.Longitude,
		}}
	default:
		return NewIPLocator(
			WithURL(cfg.Location.LookupURL),
			WithTimeout(cfg.Services.Timeout),
		)
	}
}

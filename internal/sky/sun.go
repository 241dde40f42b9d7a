package sky

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/litescript/skydeck/internal/geo"
)

const (
	// DefaultSunURL is the sunrise/sunset API endpoint.
	DefaultSunURL = "https://api.sunrise-sunset.org/json"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 15 * time.Second
)

// ErrNoSunEvents is returned when the service reports no sunrise or sunset
// for the day (polar day or night).
var ErrNoSunEvents = errors.New("no sunrise or sunset today")

// SunSource provides the sunrise/sunset window for a location on the
// given date (UTC midnight, see ObserverDay).
type SunSource interface {
	Window(ctx context.Context, c geo.Coords, day time.Time) (SunWindow, error)
}

// SunClient queries the sunrise-sunset.org API.
type SunClient struct {
	client *http.Client
	url    string
}

// ClientOption configures the HTTP-backed sky clients.
type ClientOption func(*clientOptions)

type clientOptions struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// WithURL sets the service endpoint.
func WithURL(u string) ClientOption {
	return func(o *clientOptions) {
		o.url = u
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.client = client
	}
}

func buildOptions(defaultURL string, opts []ClientOption) clientOptions {
	o := clientOptions{url: defaultURL, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}
	return o
}

// NewSunClient creates a sunrise/sunset client.
func NewSunClient(opts ...ClientOption) *SunClient {
	o := buildOptions(DefaultSunURL, opts)
	return &SunClient{client: o.client, url: o.url}
}

// sunResponse mirrors the API payload when formatted=0.
type sunResponse struct {
	Results struct {
		Sunrise string `json:"sunrise"`
		Sunset  string `json:"sunset"`
	} `json:"results"`
	Status string `json:"status"`
}

// Window implements SunSource.
func (c *SunClient) Window(ctx context.Context, coords geo.Coords, day time.Time) (SunWindow, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	params.Set("lng", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	params.Set("date", day.Format(time.DateOnly))
	params.Set("formatted", "0")

	body, err := getJSON(ctx, c.client, c.url+"?"+params.Encode())
	if err != nil {
		return SunWindow{}, fmt.Errorf("fetch sun times: %w", err)
	}

	return parseSunResponse(body)
}

func parseSunResponse(body []byte) (SunWindow, error) {
	var resp sunResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return SunWindow{}, fmt.Errorf("parse sun times: %w", err)
	}
	if resp.Status != "OK" {
		return SunWindow{}, fmt.Errorf("sun times status %q", resp.Status)
	}

	sunrise, err := time.Parse(time.RFC3339, resp.Results.Sunrise)
	if err != nil {
		return SunWindow{}, fmt.Errorf("parse sunrise: %w", err)
	}
	sunset, err := time.Parse(time.RFC3339, resp.Results.Sunset)
	if err != nil {
		return SunWindow{}, fmt.Errorf("parse sunset: %w", err)
	}

	// The service reports the Unix epoch when the sun never rises or sets
	if sunrise.Unix() <= 1 || sunset.Unix() <= 1 {
		return SunWindow{}, ErrNoSunEvents
	}

	return SunWindow{Sunrise: sunrise.UTC(), Sunset: sunset.UTC()}, nil
}

// getJSON performs a GET and returns the body of a 200 response.
func getJSON(ctx context.Context, client *http.Client, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "skydeck/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return body, nil
}

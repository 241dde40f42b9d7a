package sky

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultMoonURL is the farmsense moon phase endpoint.
const DefaultMoonURL = "https://api.farmsense.net/v1/moonphases/"

// MoonInfo is the moon phase shown in the sky panel.
type MoonInfo struct {
	Phase        string  `json:"phase"`
	Illumination float64 `json:"illumination"` // 0-1, zero when unknown
	Estimated    bool    `json:"estimated,omitempty"`
}

// Label is the text rendered in the panel.
func (m MoonInfo) Label() string {
	if m.Estimated {
		return m.Phase + " (est.)"
	}
	return m.Phase
}

// MoonSource provides the moon phase at an instant.
type MoonSource interface {
	Phase(ctx context.Context, t time.Time) (MoonInfo, error)
}

// MoonClient queries the farmsense moon phase API.
type MoonClient struct {
	client *http.Client
	url    string
}

// NewMoonClient creates a moon phase client.
func NewMoonClient(opts ...ClientOption) *MoonClient {
	o := buildOptions(DefaultMoonURL, opts)
	return &MoonClient{client: o.client, url: o.url}
}

type moonEntry struct {
	Error        int     `json:"Error"`
	ErrorMsg     string  `json:"ErrorMsg"`
	Phase        string  `json:"Phase"`
	Illumination float64 `json:"Illumination"`
}

// Phase implements MoonSource. The service is keyed by Unix seconds.
func (c *MoonClient) Phase(ctx context.Context, t time.Time) (MoonInfo, error) {
	params := url.Values{}
	params.Set("d", strconv.FormatInt(t.Unix(), 10))

	body, err := getJSON(ctx, c.client, c.url+"?"+params.Encode())
	if err != nil {
		return MoonInfo{}, fmt.Errorf("fetch moon phase: %w", err)
	}
	return parseMoonResponse(body)
}

func parseMoonResponse(body []byte) (MoonInfo, error) {
	var entries []moonEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return MoonInfo{}, fmt.Errorf("parse moon phase: %w", err)
	}
	if len(entries) == 0 {
		return MoonInfo{}, fmt.Errorf("parse moon phase: empty response")
	}

	e := entries[0]
	if e.Error != 0 {
		return MoonInfo{}, fmt.Errorf("moon phase service: %s", e.ErrorMsg)
	}
	phase := strings.TrimSpace(e.Phase)
	if phase == "" {
		return MoonInfo{}, fmt.Errorf("parse moon phase: missing Phase")
	}

	return MoonInfo{Phase: phase, Illumination: e.Illumination}, nil
}

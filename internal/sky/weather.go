package sky

import (
	"fmt"

	"github.com/litescript/skydeck/internal/geo"
)

const (
	// WeatherBaseURL is the forecast site the deep link points at.
	WeatherBaseURL = "https://forecast7.com/en/"

	weatherLabel1      = "MY LOCATION"
	weatherLabel2      = "WEATHER"
	weatherPlaceholder = "Loading…"
)

// WeatherLink is the configuration of the embedded weather widget.
type WeatherLink struct {
	URL    string `json:"url"`
	Label1 string `json:"label_1"`
	Label2 string `json:"label_2"`
	Text   string `json:"text"`

	// Instance identifies the widget instance. It changes on every
	// successful locate so the widget is rebuilt for the new coordinates
	// rather than keeping stale data.
	Instance uint64 `json:"instance"`
}

// WeatherDeepLink builds the forecast URL for c using two-decimal
// coordinates joined by "n", e.g. https://forecast7.com/en/40.71n-74.01/.
func WeatherDeepLink(c geo.Coords) string {
	return fmt.Sprintf("%s%.2fn%.2f/", WeatherBaseURL, c.Latitude, c.Longitude)
}

// NewWeatherLink builds the widget configuration for c.
func NewWeatherLink(c geo.Coords) WeatherLink {
	return WeatherLink{
		URL:    WeatherDeepLink(c),
		Label1: weatherLabel1,
		Label2: weatherLabel2,
		Text:   weatherPlaceholder,
	}
}

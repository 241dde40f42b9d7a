// Package sky resolves everything the sky panel shows: a weather deep link,
// the sunrise/sunset window that picks the colour theme, and the moon phase.
package sky

import "time"

// Theme is the named sky gradient applied to the dashboard background.
type Theme string

const (
	ThemeDay  Theme = "day"
	ThemeDawn Theme = "dawn"
	ThemeDusk Theme = "dusk"
)

// String returns the theme name.
func (t Theme) String() string {
	if t == "" {
		return string(ThemeDay)
	}
	return string(t)
}

// SunWindow is the sunrise/sunset pair for the current day, in UTC.
type SunWindow struct {
	Sunrise time.Time `json:"sunrise"`
	Sunset  time.Time `json:"sunset"`

	// Estimated is set when the window was computed locally instead of
	// fetched from the sunrise/sunset service.
	Estimated bool `json:"estimated,omitempty"`
}

// IsZero reports whether the window holds no times.
func (w SunWindow) IsZero() bool {
	return w.Sunrise.IsZero() && w.Sunset.IsZero()
}

// ThemeAt picks the theme for now. Strictly before sunrise is dawn,
// strictly after sunset is dusk; the instants of sunrise and sunset
// themselves belong to the day theme.
func ThemeAt(now time.Time, w SunWindow) Theme {
	switch {
	case now.Before(w.Sunrise):
		return ThemeDawn
	case now.After(w.Sunset):
		return ThemeDusk
	default:
		return ThemeDay
	}
}

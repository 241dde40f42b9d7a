package astro

import (
	"math"
	"testing"
	"time"
)

func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
		tol      float64
	}{
		{
			name:     "J2000 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
			tol:      0.0001,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
			tol:      0.0001,
		},
		{
			name:     "February uses previous-year months",
			time:     time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			expected: 2460369.5,
			tol:      0.0001,
		},
		{
			name:     "non-UTC input is converted",
			time:     time.Date(2000, 1, 1, 13, 0, 0, 0, time.FixedZone("CET", 3600)),
			expected: 2451545.0,
			tol:      0.0001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := julianDate(tt.time)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("julianDate() = %v, want %v (±%v)", got, tt.expected, tt.tol)
			}
		})
	}
}

func TestGreenwichMeanSiderealTime(t *testing.T) {
	gmst := greenwichMeanSiderealTime(time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC))
	if math.Abs(gmst-280.46) > 0.1 {
		t.Errorf("GMST at J2000 = %v, want ~280.46", gmst)
	}
}

func TestLocalSiderealTime_Range(t *testing.T) {
	ts := time.Date(2025, 5, 5, 5, 5, 5, 0, time.UTC)
	for _, lon := range []float64{-180, -90, 0, 90, 179.9} {
		lst := localSiderealTime(ts, lon)
		if lst < 0 || lst >= 360 {
			t.Errorf("localSiderealTime(lon=%v) = %v, out of [0,360)", lon, lst)
		}
	}
}

func TestToHorizontal_Polaris(t *testing.T) {
	// Polaris sits at roughly the observer's latitude, due north
	obs := Observer{LatDeg: 40, LonDeg: -75}
	h := ToHorizontal(37.954, 89.264, obs, time.Date(2025, 1, 15, 3, 0, 0, 0, time.UTC))

	if math.Abs(h.ElDeg-40) > 1.5 {
		t.Errorf("Polaris elevation = %.2f, want ~40", h.ElDeg)
	}
	if h.AzDeg > 3 && h.AzDeg < 357 {
		t.Errorf("Polaris azimuth = %.2f, want ~0", h.AzDeg)
	}
}

func TestToHorizontal_Ranges(t *testing.T) {
	obs := Observer{LatDeg: -33.9, LonDeg: 18.4}
	ts := time.Date(2025, 9, 1, 20, 0, 0, 0, time.UTC)

	for ra := 0.0; ra < 360; ra += 45 {
		for dec := -80.0; dec <= 80; dec += 40 {
			h := ToHorizontal(ra, dec, obs, ts)
			if h.AzDeg < 0 || h.AzDeg > 360 {
				t.Errorf("az out of range for ra=%v dec=%v: %v", ra, dec, h.AzDeg)
			}
			if h.ElDeg < -90 || h.ElDeg > 90 {
				t.Errorf("el out of range for ra=%v dec=%v: %v", ra, dec, h.ElDeg)
			}
		}
	}
}

func TestNormalizeAngle360(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{360, 0},
		{-10, 350},
		{725, 5},
	}
	for _, tt := range tests {
		if got := normalizeAngle360(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("normalizeAngle360(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

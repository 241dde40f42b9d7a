// Package astro provides the small amount of sky math the dashboard needs
// to estimate sunrise, sunset and moon phase without network access.
package astro

import (
	"math"
	"time"
)

// Observer is a ground location in degrees (north and east positive).
type Observer struct {
	LatDeg float64
	LonDeg float64
}

// Horizontal holds observer-relative coordinates.
type Horizontal struct {
	AzDeg float64 // 0=N, 90=E, 180=S, 270=W
	ElDeg float64 // 0=horizon, 90=zenith
}

// ToHorizontal converts equatorial RA/Dec (degrees) to Az/El for obs at t.
func ToHorizontal(raDeg, decDeg float64, obs Observer, t time.Time) Horizontal {
	lat := degToRad(obs.LatDeg)
	dec := degToRad(decDeg)
	ha := degToRad(localSiderealTime(t, obs.LonDeg) - raDeg)

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clampUnit(sinAlt))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(clampUnit(cosAz))

	// Positive hour angle puts the object west of the meridian
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return Horizontal{AzDeg: radToDeg(az), ElDeg: radToDeg(alt)}
}

// localSiderealTime returns LST in degrees for a UTC time and east longitude.
func localSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(greenwichMeanSiderealTime(t) + lonDeg)
}

// greenwichMeanSiderealTime returns GMST in degrees (IAU 1982).
func greenwichMeanSiderealTime(t time.Time) float64 {
	jd := julianDate(t)
	T := (jd - 2451545.0) / 36525.0

	gmst := 280.46061837 +
		360.98564736629*(jd-2451545.0) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return normalizeAngle360(gmst)
}

// julianDate returns the Julian Date for t.
func julianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	dayFrac := (float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600 +
		float64(t.Nanosecond())/3600e9) / 24.0

	// January and February count as months 13 and 14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// normalizeAngle360 normalizes an angle to [0, 360).
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

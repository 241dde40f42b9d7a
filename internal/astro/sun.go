package astro

import (
	"errors"
	"math"
	"time"
)

// SunriseElevation is the solar altitude at the moment of sunrise/sunset:
// 34' of refraction plus the 16' solar semi-diameter.
const SunriseElevation = -0.833

// ErrNoSunrise is returned for polar day or polar night.
var ErrNoSunrise = errors.New("sun does not cross the horizon on this day")

// sampleStep is the spacing of elevation samples used to find crossings.
const sampleStep = 10 * time.Minute

// SunPosition returns the Sun's apparent RA/Dec in degrees using the
// low-precision Astronomical Almanac series (~0.01°).
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	T := (julianDate(t) - 2451545.0) / 36525.0

	// Mean longitude and mean anomaly
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := degToRad(normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T))

	// Equation of center
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(M) +
		(0.019993-0.000101*T)*math.Sin(2*M) +
		0.000289*math.Sin(3*M)

	// Apparent longitude, corrected for aberration and nutation
	omega := degToRad(125.04 - 1934.136*T)
	lambda := degToRad(L0 + C - 0.00569 - 0.00478*math.Sin(omega))

	eps0 := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps := degToRad(eps0 + 0.00256*math.Cos(omega))

	ra := math.Atan2(math.Cos(eps)*math.Sin(lambda), math.Cos(lambda))
	dec := math.Asin(math.Sin(eps) * math.Sin(lambda))

	return normalizeAngle360(radToDeg(ra)), radToDeg(dec)
}

// SunElevation returns the Sun's altitude in degrees for obs at t.
func SunElevation(obs Observer, t time.Time) float64 {
	ra, dec := SunPosition(t)
	return ToHorizontal(ra, dec, obs, t).ElDeg
}

// SunWindow is a sunrise/sunset pair in UTC.
type SunWindow struct {
	Sunrise time.Time
	Sunset  time.Time
}

// SolarDate returns the calendar date, as UTC midnight, of local mean
// solar time at longitude lonDeg. East of Greenwich the local day starts
// before the UTC one.
func SolarDate(t time.Time, lonDeg float64) time.Time {
	local := t.UTC().Add(time.Duration(lonDeg / 15 * float64(time.Hour)))
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// EstimateSunWindow computes sunrise and sunset for the observer's local
// solar day containing t by sampling solar elevation across the 24 hours
// centred on that day's solar noon and interpolating the horizon crossings.
func EstimateSunWindow(obs Observer, t time.Time) (SunWindow, error) {
	noon := SolarDate(t, obs.LonDeg).Add(12*time.Hour - time.Duration(obs.LonDeg/15*float64(time.Hour)))

	start := noon.Add(-12 * time.Hour)
	end := noon.Add(12 * time.Hour)

	var w SunWindow
	var riseFound, setFound bool
	prevT, prevEl := start, SunElevation(obs, start)

	for t := start.Add(sampleStep); !t.After(end); t = t.Add(sampleStep) {
		el := SunElevation(obs, t)

		if !riseFound && prevEl <= SunriseElevation && el > SunriseElevation {
			w.Sunrise = interpolateCrossing(prevT, t, prevEl, el, SunriseElevation)
			riseFound = true
		} else if riseFound && prevEl > SunriseElevation && el <= SunriseElevation {
			w.Sunset = interpolateCrossing(prevT, t, prevEl, el, SunriseElevation)
			setFound = true
			break
		}

		prevT, prevEl = t, el
	}

	if !riseFound || !setFound {
		return SunWindow{}, ErrNoSunrise
	}
	return w, nil
}

// interpolateCrossing finds the time when elevation crosses threshold
// between two samples, assuming linear change.
func interpolateCrossing(t1, t2 time.Time, el1, el2, threshold float64) time.Time {
	if math.Abs(el2-el1) < 0.0001 {
		return t1
	}

	fraction := (threshold - el1) / (el2 - el1)
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}

	return t1.Add(time.Duration(float64(t2.Sub(t1)) * fraction))
}

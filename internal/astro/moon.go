package astro

import (
	"math"
	"time"
)

const (
	// synodicMonth is the mean length of a lunation in days.
	synodicMonth = 29.530588853

	// referenceNewMoonJD is the new moon of 2000-01-06 18:14 UTC.
	referenceNewMoonJD = 2451550.1
)

// Moon phase labels, in the wording the moon-phase service uses.
const (
	PhaseNew            = "New Moon"
	PhaseWaxingCrescent = "Waxing Crescent"
	PhaseFirstQuarter   = "1st Quarter"
	PhaseWaxingGibbous  = "Waxing Gibbous"
	PhaseFull           = "Full Moon"
	PhaseWaningGibbous  = "Waning Gibbous"
	PhaseThirdQuarter   = "3rd Quarter"
	PhaseWaningCrescent = "Waning Crescent"
)

var phaseNames = [8]string{
	PhaseNew,
	PhaseWaxingCrescent,
	PhaseFirstQuarter,
	PhaseWaxingGibbous,
	PhaseFull,
	PhaseWaningGibbous,
	PhaseThirdQuarter,
	PhaseWaningCrescent,
}

// MoonPhaseAt returns the lunar age at t as a fraction of the mean
// synodic month in [0, 1), where 0 is new moon and 0.5 is full.
func MoonPhaseAt(t time.Time) float64 {
	age := (julianDate(t) - referenceNewMoonJD) / synodicMonth
	frac := age - math.Floor(age)
	if frac >= 1 {
		frac = 0
	}
	return frac
}

// MoonPhaseName maps a phase fraction to one of eight labels, each
// centred on its principal phase.
func MoonPhaseName(frac float64) string {
	frac -= math.Floor(frac)
	idx := int(frac*8+0.5) % 8
	return phaseNames[idx]
}

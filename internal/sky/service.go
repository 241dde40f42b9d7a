package sky

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/litescript/skydeck/internal/astro"
	"github.com/litescript/skydeck/internal/geo"
	"github.com/litescript/skydeck/internal/logging"
)

// Report is the outcome of one sky refresh.
type Report struct {
	// Located is false when no coordinates were available; every other
	// field is then empty and the panel keeps its previous content.
	Located bool       `json:"located"`
	Coords  geo.Coords `json:"coords"`

	Weather WeatherLink `json:"weather"`

	// Day is the observer's local solar date the sun window belongs to.
	Day    time.Time `json:"day"`
	Sun    SunWindow `json:"sun"`
	SunErr error     `json:"-"`
	Theme  Theme     `json:"theme"`

	Moon    MoonInfo `json:"moon"`
	MoonErr error    `json:"-"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// SunKnown reports whether a sun window (fetched or estimated) is present.
func (r Report) SunKnown() bool {
	return !r.Sun.IsZero()
}

// MoonKnown reports whether a moon label is present.
func (r Report) MoonKnown() bool {
	return r.Moon.Phase != ""
}

// Offline reports whether any value shown came from a local estimate or
// is missing because a service failed.
func (r Report) Offline() bool {
	return r.SunErr != nil || r.MoonErr != nil
}

// Service runs the sky refresh pipeline.
type Service struct {
	locator geo.Locator
	sun     SunSource
	moon    MoonSource
	log     *logging.Logger
	now     func() time.Time
}

// NewService wires a refresh pipeline. A nil logger discards output.
func NewService(locator geo.Locator, sun SunSource, moon MoonSource, log *logging.Logger) *Service {
	if log == nil {
		log = logging.Discard()
	}
	return &Service{
		locator: locator,
		sun:     sun,
		moon:    moon,
		log:     log,
		now:     time.Now,
	}
}

// WithClock returns a copy of the service that reads time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	cp := *s
	cp.now = now
	return &cp
}

// Refresh locates the observer, builds the weather link, picks the theme
// from today's sun window and resolves the moon phase. Location failure
// ends the refresh silently. Service failures fall back to local
// estimates and are reported in SunErr / MoonErr.
func (s *Service) Refresh(ctx context.Context) Report {
	start := s.now()
	r := Report{StartedAt: start, Theme: ThemeDay}

	coords, err := s.locator.Locate(ctx)
	if err != nil {
		s.log.Debug("Location unavailable, skipping sky refresh: %v", err)
		r.Duration = s.now().Sub(start)
		return r
	}

	r.Located = true
	r.Coords = coords
	r.Weather = NewWeatherLink(coords)

	r.Day = ObserverDay(start, coords)
	r.Sun, r.SunErr = s.sunWindow(ctx, coords, start)
	if r.SunKnown() {
		r.Theme = ThemeAt(s.now(), r.Sun)
	}

	r.Moon, r.MoonErr = s.moonPhase(ctx)

	r.Duration = s.now().Sub(start)
	s.log.Debug("Sky refresh for %s: theme=%s moon=%q in %v", coords, r.Theme, r.Moon.Label(), r.Duration)
	return r
}

func (s *Service) sunWindow(ctx context.Context, c geo.Coords, at time.Time) (SunWindow, error) {
	w, err := s.sun.Window(ctx, c, ObserverDay(at, c))
	if err == nil {
		return w, nil
	}
	s.log.Warn("Sun times unavailable: %v", err)

	if errors.Is(err, context.Canceled) {
		return SunWindow{}, err
	}

	obs := astro.Observer{LatDeg: c.Latitude, LonDeg: c.Longitude}
	est, estErr := astro.EstimateSunWindow(obs, at)
	if estErr != nil {
		return SunWindow{}, fmt.Errorf("%w (estimate: %v)", err, estErr)
	}
	return SunWindow{Sunrise: est.Sunrise, Sunset: est.Sunset, Estimated: true}, err
}

func (s *Service) moonPhase(ctx context.Context) (MoonInfo, error) {
	now := s.now()
	m, err := s.moon.Phase(ctx, now)
	if err == nil {
		return m, nil
	}
	s.log.Warn("Moon phase unavailable: %v", err)

	if errors.Is(err, context.Canceled) {
		return MoonInfo{}, err
	}
	return EstimateMoon(now), err
}

// ObserverDay returns the local solar date at c for t as UTC midnight.
// Sun windows are fetched per observer day, so a new day needs a new
// window.
func ObserverDay(t time.Time, c geo.Coords) time.Time {
	return astro.SolarDate(t, c.Longitude)
}

// EstimateMoon computes the moon phase locally.
func EstimateMoon(t time.Time) MoonInfo {
	frac := astro.MoonPhaseAt(t)
	return MoonInfo{
		Phase:        astro.MoonPhaseName(frac),
		Illumination: (1 - math.Cos(2*math.Pi*frac)) / 2,
		Estimated:    true,
	}
}

// Package starfield simulates the animated backdrop: a fixed set of static
// stars and a transient set of shooting stars that fade out.
package starfield

import (
	"math"
	"math/rand"
)

// Star is a static background star. Stars are never mutated; a resize
// replaces the whole set.
type Star struct {
	X, Y   float64
	Radius float64 // [0, 1.2)
	Alpha  float64 // [0, 1)
}

// ShootingStar is a transient streak moving down and to the left.
type ShootingStar struct {
	X, Y   float64
	VX, VY float64
	Len    float64
	Alpha  float64
}

// Config holds the simulation constants.
type Config struct {
	StarCount       int
	SpawnChance     float64 // per frame
	Fade            float64 // alpha lost per frame
	ShootingEnabled bool
}

// DefaultConfig returns the standard backdrop settings.
func DefaultConfig() Config {
	return Config{
		StarCount:       200,
		SpawnChance:     0.02,
		Fade:            0.01,
		ShootingEnabled: true,
	}
}

// Field owns the starfield state. It is not safe for concurrent use.
type Field struct {
	cfg      Config
	rng      *rand.Rand
	width    float64
	height   float64
	stars    []Star
	shooting []ShootingStar
}

// New creates an empty field. Call Resize before the first Step.
// A nil rng uses a time-independent default source.
func New(cfg Config, rng *rand.Rand) *Field {
	if cfg.StarCount < 0 {
		cfg.StarCount = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Field{
		cfg:      cfg,
		rng:      rng,
		stars:    make([]Star, 0, cfg.StarCount),
		shooting: make([]ShootingStar, 0, 8),
	}
}

// Resize sets the field bounds, regenerates every static star inside them
// and clears the shooting stars.
func (f *Field) Resize(width, height float64) {
	f.width = math.Max(width, 0)
	f.height = math.Max(height, 0)

	f.stars = f.stars[:0]
	for i := 0; i < f.cfg.StarCount; i++ {
		f.stars = append(f.stars, Star{
			X:      f.rng.Float64() * f.width,
			Y:      f.rng.Float64() * f.height,
			Radius: f.rng.Float64() * 1.2,
			Alpha:  f.rng.Float64(),
		})
	}
	f.shooting = f.shooting[:0]
}

// Size returns the current bounds.
func (f *Field) Size() (width, height float64) {
	return f.width, f.height
}

// Step advances one frame. Motion is per frame, not per unit of time.
// Nothing moves while shooting stars are disabled.
func (f *Field) Step() {
	if !f.cfg.ShootingEnabled {
		return
	}

	live := f.shooting[:0]
	for _, s := range f.shooting {
		s.X += s.VX
		s.Y += s.VY
		s.Alpha -= f.cfg.Fade
		if s.Alpha > 0 {
			live = append(live, s)
		}
	}
	f.shooting = live

	if f.width > 0 && f.height > 0 && f.rng.Float64() < f.cfg.SpawnChance {
		f.spawn()
	}
}

func (f *Field) spawn() {
	f.shooting = append(f.shooting, ShootingStar{
		X:     f.rng.Float64() * f.width,
		Y:     f.rng.Float64() * f.height / 2,
		VX:    -4 - f.rng.Float64()*4,
		VY:    4 + f.rng.Float64()*2,
		Len:   100 + f.rng.Float64()*50,
		Alpha: 1,
	})
}

// SetShootingEnabled turns shooting star spawning and motion on or off.
// Existing shooting stars are kept and resume when re-enabled.
func (f *Field) SetShootingEnabled(on bool) {
	f.cfg.ShootingEnabled = on
}

// ShootingEnabled reports whether shooting stars are active.
func (f *Field) ShootingEnabled() bool {
	return f.cfg.ShootingEnabled
}

// Stars returns a copy of the static stars.
func (f *Field) Stars() []Star {
	out := make([]Star, len(f.stars))
	copy(out, f.stars)
	return out
}

// Shooting returns a copy of the live shooting stars.
func (f *Field) Shooting() []ShootingStar {
	out := make([]ShootingStar, len(f.shooting))
	copy(out, f.shooting)
	return out
}

// Trail returns the streak drawn for s: from its position along its
// direction of travel for s.Len units.
func Trail(s ShootingStar) (x0, y0, x1, y1 float64) {
	speed := math.Hypot(s.VX, s.VY)
	if speed == 0 {
		return s.X, s.Y, s.X, s.Y
	}
	return s.X, s.Y, s.X + s.VX/speed*s.Len, s.Y + s.VY/speed*s.Len
}

// Package state provides thread-safe state management for the sky panel.
package state

import (
	"errors"
	"sync"
	"time"

	"github.com/litescript/skydeck/internal/geo"
	"github.com/litescript/skydeck/internal/sky"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventLocated      EventType = "LOCATED"
	EventMoved        EventType = "MOVED"
	EventThemeChanged EventType = "THEME_CHANGED"
	EventOffline      EventType = "OFFLINE"
	EventRestored     EventType = "RESTORED"
)

// Event represents a change in the sky panel.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	OldTheme  sky.Theme `json:"old_theme,omitempty"`
	NewTheme  sky.Theme `json:"new_theme,omitempty"`
	Coords    string    `json:"coords,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

// Manager handles the shared sky state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current       *sky.Report
	theme         sky.Theme
	lastRefresh   time.Time
	lastError     error
	fetchDuration time.Duration
	offline       bool

	// Refresh generations; only the latest may apply its report
	generation uint64
	inFlight   bool

	// Weather widget instance, bumped on every successful locate
	weatherInstance uint64

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	now func() time.Time
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents: 50,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		theme:     sky.ThemeDay,
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
		now:       time.Now,
	}
}

// SetClock replaces the time source used for event timestamps.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// BeginRefresh starts a new refresh and returns its generation. Any
// refresh started earlier is superseded.
func (m *Manager) BeginRefresh() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.inFlight = true
	return m.generation
}

// ApplySky applies the report of refresh gen. It returns false and
// changes nothing when a newer refresh has started since. A report
// without a location leaves the panel content as it was.
func (m *Manager) ApplySky(gen uint64, r sky.Report) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation {
		return false
	}

	m.inFlight = false
	m.lastRefresh = m.now()
	m.fetchDuration = r.Duration

	if !r.Located {
		m.lastError = nil
		return true
	}

	m.lastError = errors.Join(r.SunErr, r.MoonErr)

	m.weatherInstance++
	r.Weather.Instance = m.weatherInstance

	m.detectEvents(&r)

	m.current = &r
	m.theme = r.Theme
	m.offline = r.Offline()
	return true
}

// detectEvents compares a new report with the current state and
// generates events. Must be called with the lock held.
func (m *Manager) detectEvents(r *sky.Report) {
	now := m.now()

	switch {
	case m.current == nil:
		m.addEvent(Event{Type: EventLocated, Timestamp: now, Coords: r.Coords.String()})
	case !sameSpot(m.current.Coords, r.Coords):
		m.addEvent(Event{Type: EventMoved, Timestamp: now, Coords: r.Coords.String()})
	}

	if r.Theme != m.theme {
		m.addEvent(Event{Type: EventThemeChanged, Timestamp: now, OldTheme: m.theme, NewTheme: r.Theme})
	}

	if off := r.Offline(); off != m.offline {
		e := Event{Type: EventRestored, Timestamp: now}
		if off {
			e.Type = EventOffline
			e.Detail = errors.Join(r.SunErr, r.MoonErr).Error()
		}
		m.addEvent(e)
	}
}

// sameSpot compares coordinates at the two-decimal precision the weather
// link uses.
func sameSpot(a, b geo.Coords) bool {
	return sky.WeatherDeepLink(a) == sky.WeatherDeepLink(b)
}

// Retheme recomputes the theme from the stored sun window at now, so the
// background follows sunrise and sunset between refreshes. It returns
// the current theme.
func (m *Manager) Retheme(now time.Time) sky.Theme {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || !m.current.SunKnown() {
		return m.theme
	}

	// The window is for one day; refresh picks up the next one.
	next := sky.ThemeAt(now, m.current.Sun)
	if next != m.theme {
		m.addEvent(Event{Type: EventThemeChanged, Timestamp: m.now(), OldTheme: m.theme, NewTheme: next})
		m.theme = next
		m.current.Theme = next
	}
	return m.theme
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Report        *sky.Report
	Theme         sky.Theme
	LastRefresh   time.Time
	LastError     error
	FetchDuration time.Duration
	Generation    uint64
	InFlight      bool
	Events        []Event
}

// HasReport reports whether a located refresh has been applied.
func (s Snapshot) HasReport() bool {
	return s.Report != nil
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var report *sky.Report
	if m.current != nil {
		cp := *m.current
		report = &cp
	}

	return Snapshot{
		Report:        report,
		Theme:         m.theme,
		LastRefresh:   m.lastRefresh,
		LastError:     m.lastError,
		FetchDuration: m.fetchDuration,
		Generation:    m.generation,
		InFlight:      m.inFlight,
		Events:        m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// HasData returns true if a located refresh has been applied.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

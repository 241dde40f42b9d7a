// Package summary renders the dashboard for headless output: a plain text
// summary and a JSON export.
package summary

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/skydeck/internal/clock"
	"github.com/litescript/skydeck/internal/state"
	"github.com/litescript/skydeck/internal/tasks"
)

// Export is the JSON-serializable representation of the dashboard.
type Export struct {
	Timestamp time.Time     `json:"timestamp"`
	Clock     string        `json:"clock"`
	Sky       *SkyExport    `json:"sky,omitempty"`
	Tasks     []tasks.Task  `json:"tasks"`
	Events    []state.Event `json:"events,omitempty"`
}

// SkyExport is a JSON-friendly sky panel.
type SkyExport struct {
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
	WeatherURL   string     `json:"weather_url"`
	Theme        string     `json:"theme"`
	Sunrise      *time.Time `json:"sunrise,omitempty"` // nil when unknown
	Sunset       *time.Time `json:"sunset,omitempty"`
	SunEstimated bool       `json:"sun_estimated,omitempty"`
	MoonPhase    string     `json:"moon_phase,omitempty"`
	Illumination float64    `json:"moon_illumination,omitempty"`
	MoonEstimate bool       `json:"moon_estimated,omitempty"`
	Errors       []string   `json:"errors,omitempty"`
}

// Build assembles an export from the current state.
func Build(now time.Time, c clock.Clock, snap state.Snapshot, items []tasks.Task) *Export {
	if items == nil {
		items = []tasks.Task{}
	}
	e := &Export{
		Timestamp: now,
		Clock:     c.Format(now),
		Tasks:     items,
		Events:    snap.Events,
	}

	r := snap.Report
	if r == nil {
		return e
	}

	sky := &SkyExport{
		Latitude:     r.Coords.Latitude,
		Longitude:    r.Coords.Longitude,
		WeatherURL:   r.Weather.URL,
		Theme:        snap.Theme.String(),
		SunEstimated: r.Sun.Estimated,
		MoonPhase:    r.Moon.Phase,
		Illumination: r.Moon.Illumination,
		MoonEstimate: r.Moon.Estimated,
	}
	if r.SunKnown() {
		sunrise, sunset := r.Sun.Sunrise, r.Sun.Sunset
		sky.Sunrise = &sunrise
		sky.Sunset = &sunset
	}
	for _, err := range []error{r.SunErr, r.MoonErr} {
		if err != nil {
			sky.Errors = append(sky.Errors, err.Error())
		}
	}
	e.Sky = sky
	return e
}

// WriteJSON writes the export as JSON to the given writer.
func (e *Export) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// Styles used by WriteText. The zero value prints plain text.
type Styles struct {
	Title lipgloss.Style
	Dim   lipgloss.Style
	Done  lipgloss.Style
	Warn  lipgloss.Style
}

// PlainStyles returns styles that add no escape codes.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Title: s, Dim: s, Done: s, Warn: s}
}

// TerminalStyles returns the colored styles used on a TTY.
func TerminalStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true),
		Dim:   lipgloss.NewStyle().Foreground(lipgloss.Color("60")),
		Done:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true),
		Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27")),
	}
}

// WriteText writes a human-readable summary.
func WriteText(w io.Writer, e *Export, c clock.Clock, st Styles) {
	fmt.Fprintf(w, "%s @ %s\n", st.Title.Render("skydeck"), e.Clock)
	fmt.Fprintln(w, st.Dim.Render(strings.Repeat("─", 48)))

	if e.Sky == nil {
		fmt.Fprintln(w, st.Dim.Render("Sky: no location"))
	} else {
		writeSky(w, e.Sky, c, st)
	}

	fmt.Fprintln(w)
	WriteTasks(w, e.Tasks, st)
}

func writeSky(w io.Writer, s *SkyExport, c clock.Clock, st Styles) {
	fmt.Fprintf(w, "Location  %.2f, %.2f\n", s.Latitude, s.Longitude)
	fmt.Fprintf(w, "Weather   %s\n", s.WeatherURL)
	fmt.Fprintf(w, "Theme     %s\n", s.Theme)

	if s.Sunrise == nil || s.Sunset == nil {
		fmt.Fprintf(w, "Sun       %s\n", st.Warn.Render("unavailable"))
	} else {
		est := ""
		if s.SunEstimated {
			est = st.Dim.Render(" (est.)")
		}
		fmt.Fprintf(w, "Sun       ↑%s ↓%s%s\n", c.Format(*s.Sunrise), c.Format(*s.Sunset), est)
	}

	switch {
	case s.MoonPhase == "":
		fmt.Fprintf(w, "Moon      %s\n", st.Warn.Render("unavailable"))
	case s.MoonEstimate:
		fmt.Fprintf(w, "Moon      %s%s\n", s.MoonPhase, st.Dim.Render(" (est.)"))
	default:
		fmt.Fprintf(w, "Moon      %s\n", s.MoonPhase)
	}

	for _, msg := range s.Errors {
		fmt.Fprintln(w, st.Dim.Render("  offline: "+msg))
	}
}

// WriteTasks writes the numbered task list.
func WriteTasks(w io.Writer, items []tasks.Task, st Styles) {
	fmt.Fprintf(w, "Tasks (%d open)\n", tasks.Remaining(items))
	if len(items) == 0 {
		fmt.Fprintln(w, st.Dim.Render("  Nothing to do"))
		return
	}
	for _, row := range tasks.Rows(items) {
		box := "[ ]"
		text := row.Text
		if row.Done {
			box = "[x]"
		}
		if row.Strike {
			text = st.Done.Render(text)
		}
		fmt.Fprintf(w, "  %2d %s %s\n", row.Index, box, text)
	}
}

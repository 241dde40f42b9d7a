package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/skydeck/internal/clock"
	"github.com/litescript/skydeck/internal/sky"
	"github.com/litescript/skydeck/internal/state"
)

const (
	colorAccent  = "#9D4EDD"
	colorMuted   = "60"
	colorGold    = "229"
	colorError   = "#E84A27"
	colorDawn    = "#F4A261"
	colorDusk    = "#B07BD6"
	colorDaySky  = "#7FB3E6"
	glyphSun     = '☀'
	glyphMoon    = '☾'
	glyphWeather = '☁'
)

// SkyPanelModel renders the sky panel: weather link, sun window and moon
// phase.
type SkyPanelModel struct {
	width int
	clock clock.Clock
	snap  state.Snapshot
}

// NewSkyPanelModel creates a sky panel that formats times with c.
func NewSkyPanelModel(c clock.Clock) SkyPanelModel {
	return SkyPanelModel{clock: c}
}

// SetSize updates the panel width.
func (m SkyPanelModel) SetSize(width int) SkyPanelModel {
	m.width = width
	return m
}

// UpdateData updates with a new state snapshot.
func (m SkyPanelModel) UpdateData(snap state.Snapshot) SkyPanelModel {
	m.snap = snap
	return m
}

// View renders the two panel lines.
func (m SkyPanelModel) View() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))

	r := m.snap.Report
	if r == nil {
		// No location yet; an unlocated refresh leaves the panel blank
		if !m.snap.InFlight {
			return "\n"
		}
		return "  " + dimStyle.Render("Locating…") + "\n"
	}

	line1 := "  " + m.renderSun(*r) + dimStyle.Render("   ") + m.renderMoon(*r) + dimStyle.Render("   ") + m.renderTheme()
	line2 := "  " + m.renderWeather(r.Weather)

	return truncate(line1, m.width) + "\n" + truncate(line2, m.width)
}

func (m SkyPanelModel) renderSun(r sky.Report) string {
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(colorGold))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))

	if !r.SunKnown() {
		return accent.Render(string(glyphSun)) + " " + dimStyle.Render("sun times unavailable")
	}

	s := fmt.Sprintf("%c ↑%s ↓%s", glyphSun, m.clock.Format(r.Sun.Sunrise), m.clock.Format(r.Sun.Sunset))
	out := accent.Render(s)
	if r.Sun.Estimated {
		out += dimStyle.Render(" (est.)")
	}
	return out
}

func (m SkyPanelModel) renderMoon(r sky.Report) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))

	if !r.MoonKnown() {
		return style.Render(string(glyphMoon)) + " " + dimStyle.Render("moon phase unavailable")
	}
	return style.Render(fmt.Sprintf("%c %s", glyphMoon, r.Moon.Label()))
}

func (m SkyPanelModel) renderTheme() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(themeColor(m.snap.Theme))).
		Bold(true).
		Render(strings.ToUpper(m.snap.Theme.String()))
}

func (m SkyPanelModel) renderWeather(w sky.WeatherLink) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)).Bold(true)
	linkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDaySky)).Underline(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))

	out := labelStyle.Render(fmt.Sprintf("%c %s · %s", glyphWeather, w.Label1, w.Label2)) +
		" " + linkStyle.Render(w.URL)
	if m.snap.InFlight {
		out += " " + dimStyle.Render(w.Text)
	}
	return out
}

func themeColor(t sky.Theme) string {
	switch t {
	case sky.ThemeDawn:
		return colorDawn
	case sky.ThemeDusk:
		return colorDusk
	default:
		return colorDaySky
	}
}

// truncate cuts s to width visible cells. Zero width means no limit.
func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}

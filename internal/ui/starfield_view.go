package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/skydeck/internal/sky"
	"github.com/litescript/skydeck/internal/starfield"
)

const (
	// Field units per terminal cell
	pxPerCol = 8.0
	pxPerRow = 16.0

	// DefaultFrameInterval is the animation frame period.
	DefaultFrameInterval = 33 * time.Millisecond

	// Star glyphs by opacity
	glyphStarBright = '✦' // alpha >= 0.75
	glyphStarMedium = '*' // alpha >= 0.45
	glyphStarDim    = '·' // alpha >= 0.15
	glyphStarFaint  = '.'

	// Star colors
	colorStarBright = "255"
	colorStarMedium = "252"
	colorStarDim    = "247"
	colorStarFaint  = "242"

	// Shooting star glyphs
	glyphShootingHead  = '✸'
	glyphShootingTrail = '/'
)

// frameMsg advances the starfield by one frame.
type frameMsg time.Time

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// skyGradient is the top and bottom background colour of a theme.
type skyGradient struct {
	top, bottom [3]float64
}

var themeGradients = map[sky.Theme]skyGradient{
	sky.ThemeDay:  {top: [3]float64{11, 29, 58}, bottom: [3]float64{38, 84, 128}},
	sky.ThemeDawn: {top: [3]float64{20, 16, 51}, bottom: [3]float64{168, 86, 110}},
	sky.ThemeDusk: {top: [3]float64{8, 8, 28}, bottom: [3]float64{92, 45, 94}},
}

// StarfieldModel draws the animated backdrop.
type StarfieldModel struct {
	field    *starfield.Field
	width    int
	height   int
	theme    sky.Theme
	interval time.Duration
}

// NewStarfieldModel wraps field. Frames are requested every interval.
func NewStarfieldModel(field *starfield.Field, interval time.Duration) StarfieldModel {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return StarfieldModel{field: field, theme: sky.ThemeDay, interval: interval}
}

// Init starts the frame loop.
func (m StarfieldModel) Init() tea.Cmd {
	return frameCmd(m.interval)
}

// SetSize resizes the canvas in cells and regenerates the stars.
func (m StarfieldModel) SetSize(width, height int) StarfieldModel {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	m.width = width
	m.height = height
	m.field.Resize(float64(width)*pxPerCol, float64(height)*pxPerRow)
	return m
}

// SetTheme sets the background gradient.
func (m StarfieldModel) SetTheme(t sky.Theme) StarfieldModel {
	m.theme = t
	return m
}

// ToggleShooting flips shooting stars on or off.
func (m StarfieldModel) ToggleShooting() StarfieldModel {
	m.field.SetShootingEnabled(!m.field.ShootingEnabled())
	return m
}

// ShootingEnabled reports whether shooting stars are on.
func (m StarfieldModel) ShootingEnabled() bool {
	return m.field.ShootingEnabled()
}

// Update handles messages. The frame loop re-arms itself indefinitely.
func (m StarfieldModel) Update(msg tea.Msg) (StarfieldModel, tea.Cmd) {
	if _, ok := msg.(frameMsg); ok {
		m.field.Step()
		return m, frameCmd(m.interval)
	}
	return m, nil
}

// View renders the canvas.
func (m StarfieldModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return m.renderCanvas()
}

// cell is one character of the canvas.
type cell struct {
	glyph rune
	color lipgloss.Color
}

func (m StarfieldModel) rasterize() [][]cell {
	canvas := make([][]cell, m.height)
	for y := range canvas {
		canvas[y] = make([]cell, m.width)
		for x := range canvas[y] {
			canvas[y][x] = cell{glyph: ' '}
		}
	}

	for _, s := range m.field.Stars() {
		x, y := toCell(s.X, s.Y)
		if !m.inBounds(x, y) {
			continue
		}
		glyph, color := starGlyph(s.Alpha)
		canvas[y][x] = cell{glyph: glyph, color: color}
	}

	if !m.field.ShootingEnabled() {
		return canvas
	}

	for _, s := range m.field.Shooting() {
		x0, y0, x1, y1 := starfield.Trail(s)
		cx0, cy0 := toCell(x0, y0)
		cx1, cy1 := toCell(x1, y1)
		color := shootingColor(s.Alpha)

		bresenham(cx0, cy0, cx1, cy1, func(x, y int) {
			if m.inBounds(x, y) {
				canvas[y][x] = cell{glyph: glyphShootingTrail, color: color}
			}
		})
		if m.inBounds(cx0, cy0) {
			canvas[cy0][cx0] = cell{glyph: glyphShootingHead, color: color}
		}
	}

	return canvas
}

func (m StarfieldModel) renderCanvas() string {
	canvas := m.rasterize()
	grad := themeGradients[m.theme]
	if m.theme == "" {
		grad = themeGradients[sky.ThemeDay]
	}

	var b strings.Builder
	for y, row := range canvas {
		bg := lipgloss.Color(gradientRow(grad, y, m.height))
		base := lipgloss.NewStyle().Background(bg)

		// Batch runs of blank cells to keep the escape count down
		var blank int
		flush := func() {
			if blank > 0 {
				b.WriteString(base.Render(strings.Repeat(" ", blank)))
				blank = 0
			}
		}
		for _, c := range row {
			if c.glyph == ' ' {
				blank++
				continue
			}
			flush()
			b.WriteString(base.Foreground(c.color).Render(string(c.glyph)))
		}
		flush()

		if y < len(canvas)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m StarfieldModel) inBounds(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

func toCell(x, y float64) (int, int) {
	return int(math.Floor(x / pxPerCol)), int(math.Floor(y / pxPerRow))
}

// starGlyph returns the glyph and color for a star of the given opacity.
func starGlyph(alpha float64) (rune, lipgloss.Color) {
	switch {
	case alpha >= 0.75:
		return glyphStarBright, colorStarBright
	case alpha >= 0.45:
		return glyphStarMedium, colorStarMedium
	case alpha >= 0.15:
		return glyphStarDim, colorStarDim
	default:
		return glyphStarFaint, colorStarFaint
	}
}

// shootingColor fades a warm white toward the night sky as alpha drops.
func shootingColor(alpha float64) lipgloss.Color {
	a := math.Max(0, math.Min(1, alpha))
	r := 80 + a*(255-80)
	g := 80 + a*(247-80)
	b := 120 + a*(214-120)
	return lipgloss.Color(hexColor(r, g, b))
}

// gradientRow returns the background color of row y of height rows.
func gradientRow(g skyGradient, y, height int) string {
	t := 0.0
	if height > 1 {
		t = float64(y) / float64(height-1)
	}
	return hexColor(
		g.top[0]+t*(g.bottom[0]-g.top[0]),
		g.top[1]+t*(g.bottom[1]-g.top[1]),
		g.top[2]+t*(g.bottom[2]-g.top[2]),
	)
}

func hexColor(r, g, b float64) string {
	return fmt.Sprintf("#%02X%02X%02X", clampByte(r), clampByte(g), clampByte(b))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return int(v)
	}
}

// bresenham calls plot for every cell on the line from (x0,y0) to (x1,y1).
func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

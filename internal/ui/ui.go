// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/skydeck/internal/clock"
	"github.com/litescript/skydeck/internal/logging"
	"github.com/litescript/skydeck/internal/sky"
	"github.com/litescript/skydeck/internal/starfield"
	"github.com/litescript/skydeck/internal/state"
	"github.com/litescript/skydeck/internal/tasks"
	"github.com/litescript/skydeck/internal/version"
)

// RefreshTimeout bounds one sky refresh.
const RefreshTimeout = 45 * time.Second

// Focus is the panel receiving navigation keys.
type Focus int

const (
	FocusStarfield Focus = iota
	FocusTasks
)

// Msg types for Bubble Tea
type (
	// TickMsg drives the clock once per second.
	TickMsg time.Time

	// skyRefreshedMsg carries the result of refresh generation gen.
	skyRefreshedMsg struct {
		gen    uint64
		report sky.Report
	}
)

// SkyRefresher runs one sky refresh.
type SkyRefresher interface {
	Refresh(ctx context.Context) sky.Report
}

// Options configures the root model.
type Options struct {
	Clock         clock.Clock
	FrameInterval time.Duration
	Logger        *logging.Logger

	// Context cancels in-flight refreshes when the program exits.
	Context context.Context
}

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	ctx   context.Context
	state *state.Manager
	sky   SkyRefresher
	clock clock.Clock
	log   *logging.Logger

	// UI state
	width   int
	height  int
	ready   bool
	focus   Focus
	now     time.Time
	autoDay time.Time // observer day of the last automatic refresh

	// Sub-models
	skyPanel  SkyPanelModel
	starfield StarfieldModel
	tasks     TasksModel

	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, refresher SkyRefresher, field *starfield.Field, list *tasks.List, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Clock.Layout() == "" {
		opts.Clock = clock.New(clock.Layout24h)
	}

	return Model{
		ctx:       opts.Context,
		state:     stateMgr,
		sky:       refresher,
		clock:     opts.Clock,
		log:       opts.Logger.Named("ui"),
		focus:     FocusStarfield,
		now:       time.Now(),
		skyPanel:  NewSkyPanelModel(opts.Clock),
		starfield: NewStarfieldModel(field, opts.FrameInterval),
		tasks:     NewTasksModel(list).Load(),
		snapshot:  stateMgr.Snapshot(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), m.starfield.Init()}
	if m.sky != nil {
		cmds = append(cmds, refreshCmd(m.ctx, m.sky, m.state.BeginRefresh()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.tasks.Editing() {
			var cmd tea.Cmd
			m.tasks, cmd = m.tasks.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit

		case "r":
			var cmd tea.Cmd
			m, cmd = m.requestRefresh()
			cmds = append(cmds, cmd)

		case "s":
			m.starfield = m.starfield.ToggleShooting()
			m.log.Debug("Shooting stars enabled=%v", m.starfield.ShootingEnabled())

		case "tab":
			m = m.setFocus((m.focus + 1) % 2)

		case "a", "i":
			m = m.setFocus(FocusTasks)
			var cmd tea.Cmd
			m.tasks, cmd = m.tasks.StartEditing()
			cmds = append(cmds, cmd)

		default:
			var cmd tea.Cmd
			m.tasks, cmd = m.tasks.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m = m.layout()

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.now = time.Time(msg)
		m.state.Retheme(m.now)
		m.snapshot = m.state.Snapshot()
		m = m.applySnapshot()

		// Sun windows are per observer day; fetch the new one once it turns
		if r := m.snapshot.Report; r != nil && !m.snapshot.InFlight {
			day := sky.ObserverDay(m.now, r.Coords)
			if !day.Equal(r.Day) && !day.Equal(m.autoDay) {
				m.autoDay = day
				var cmd tea.Cmd
				m, cmd = m.requestRefresh()
				cmds = append(cmds, cmd)
			}
		}

	case frameMsg:
		var cmd tea.Cmd
		m.starfield, cmd = m.starfield.Update(msg)
		cmds = append(cmds, cmd)

	case skyRefreshedMsg:
		if !m.state.ApplySky(msg.gen, msg.report) {
			m.log.Debug("Dropped superseded sky refresh %d", msg.gen)
			break
		}
		m.snapshot = m.state.Snapshot()
		m = m.applySnapshot()

	default:
		var cmd tea.Cmd
		m.tasks, cmd = m.tasks.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) setFocus(f Focus) Model {
	m.focus = f
	m.tasks = m.tasks.SetFocused(f == FocusTasks)
	return m
}

func (m Model) applySnapshot() Model {
	m.skyPanel = m.skyPanel.UpdateData(m.snapshot)
	m.starfield = m.starfield.SetTheme(m.snapshot.Theme)
	return m
}

// layout sizes the sub-models. The header takes 3 lines and the footer 1.
func (m Model) layout() Model {
	contentHeight := max(m.height-4, 1)

	panelWidth := TaskPanelWidth
	if m.width < panelWidth*2 {
		panelWidth = m.width / 2
	}

	m.skyPanel = m.skyPanel.SetSize(m.width)
	m.starfield = m.starfield.SetSize(m.width-panelWidth, contentHeight)
	m.tasks = m.tasks.SetSize(panelWidth, contentHeight)
	return m
}

// requestRefresh starts a sky refresh in the background. Its result is
// applied only if no newer refresh has started meanwhile.
func (m Model) requestRefresh() (Model, tea.Cmd) {
	if m.sky == nil {
		return m, nil
	}
	gen := m.state.BeginRefresh()
	m.snapshot = m.state.Snapshot()
	return m.applySnapshot(), refreshCmd(m.ctx, m.sky, gen)
}

func refreshCmd(ctx context.Context, refresher SkyRefresher, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(ctx, RefreshTimeout)
		defer cancel()
		return skyRefreshedMsg{gen: gen, report: refresher.Refresh(ctx)}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.starfield.View(), m.tasks.View())
	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent)).Bold(true)
	clockStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorGold)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))

	line := "  " + titleStyle.Render("skydeck") +
		dimStyle.Render(" v"+version.Version) +
		"   " + clockStyle.Render(m.clock.Format(m.now))

	return truncate(line, m.width) + "\n" + m.skyPanel.View()
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMuted))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorError))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAccent))

	var status string
	switch {
	case m.snapshot.InFlight:
		status = accentStyle.Render("refreshing sky…")
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("offline estimate: " + firstLine(m.snapshot.LastError.Error()))
	case !m.snapshot.LastRefresh.IsZero():
		status = dimStyle.Render(fmt.Sprintf("sky updated %s (%s)",
			m.clock.Format(m.snapshot.LastRefresh),
			m.snapshot.FetchDuration.Round(time.Millisecond)))
	}

	shooting := "off"
	if m.starfield.ShootingEnabled() {
		shooting = "on"
	}

	var help string
	if m.tasks.Editing() {
		help = "enter: add | esc: done"
	} else if m.focus == FocusTasks {
		help = "↑↓: select | space: toggle | x: delete | a: add | tab: starfield | q: quit"
	} else {
		help = fmt.Sprintf("r: refresh | s: shooting stars (%s) | tab: tasks | a: add | q: quit", shooting)
	}

	footer := "  " + dimStyle.Render(help)
	if status != "" {
		footer = "  " + status + "  " + dimStyle.Render("|") + footer
	}
	return truncate(footer, m.width)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

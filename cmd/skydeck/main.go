// Command skydeck is a terminal dashboard: an animated starfield themed by
// the local sun, a sky panel with sun, moon and weather, and a persistent
// task list.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/skydeck/internal/clock"
	"github.com/litescript/skydeck/internal/config"
	"github.com/litescript/skydeck/internal/geo"
	"github.com/litescript/skydeck/internal/kvstore"
	"github.com/litescript/skydeck/internal/logging"
	"github.com/litescript/skydeck/internal/sky"
	"github.com/litescript/skydeck/internal/starfield"
	"github.com/litescript/skydeck/internal/state"
	"github.com/litescript/skydeck/internal/tasks"
	"github.com/litescript/skydeck/internal/ui"
	"github.com/litescript/skydeck/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode bool
	jsonMode    bool
	addText     string
	toggleIndex int
	deleteIndex int
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (default: XDG config dir)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Log file used while the TUI is running")
	dbPath := flag.String("db", "", "Task database path")
	ephemeral := flag.Bool("ephemeral", false, "Keep tasks in memory only")
	noGeo := flag.Bool("no-geo", false, "Disable location lookup")
	noShooting := flag.Bool("no-shooting", false, "Start with shooting stars disabled")
	stars := flag.Int("stars", 0, "Number of background stars")
	showVersion := flag.Bool("version", false, "Print version and exit")

	var lat, lon *float64
	flag.Func("lat", "Fixed latitude (skips IP lookup when -lon is also set)", floatFlag(&lat))
	flag.Func("lon", "Fixed longitude", floatFlag(&lon))

	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.BoolVar(&jsonMode, "json", false, "Print JSON summary instead of TUI")
	flag.StringVar(&addText, "add", "", "Add a task and print the list")
	flag.IntVar(&toggleIndex, "toggle", -1, "Toggle the task at index and print the list")
	flag.IntVar(&deleteIndex, "delete", -1, "Delete the task at index and print the list")
	flag.Parse()

	if *showVersion {
		fmt.Println("skydeck", version.Version)
		return
	}

	if err := config.LoadDotEnv(""); err != nil {
		fatalf("Error: %v\n", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("Error: %v\n", err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		fatalf("Error: %v\n", err)
	}

	// Flags win over file and environment
	if lat != nil {
		cfg.Location.Latitude = lat
	}
	if lon != nil {
		cfg.Location.Longitude = lon
	}
	if *noGeo {
		cfg.Location.Enabled = false
	}
	if *noShooting {
		cfg.Starfield.ShootingStars = false
	}
	if *stars > 0 {
		cfg.Starfield.Stars = *stars
	}
	if *dbPath != "" {
		cfg.Tasks.DBPath = *dbPath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if err := cfg.Validate(); err != nil {
		fatalf("Invalid config: %v\n", err)
	}

	logger := logging.New(logging.ParseLevel(cfg.Log.Level))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	store, err := openStore(cfg, *ephemeral)
	if err != nil {
		fatalf("Error opening task store: %v\n", err)
	}
	defer store.Close()
	list := tasks.NewList(store)

	layout := cfg.Clock.Layout
	if layout == "" {
		layout = clock.LayoutForLocale(config.Locale(os.Getenv))
	}
	clk := clock.New(layout)

	svc := sky.NewService(
		geo.FromConfig(cfg),
		sky.NewSunClient(sky.WithURL(cfg.Services.SunURL), sky.WithTimeout(cfg.Services.Timeout)),
		sky.NewMoonClient(sky.WithURL(cfg.Services.MoonURL), sky.WithTimeout(cfg.Services.Timeout)),
		logger.Named("sky"),
	)
	stateMgr := state.NewManager(state.DefaultConfig())

	if addText != "" || toggleIndex >= 0 || deleteIndex >= 0 {
		if err := runTaskCommand(list); err != nil {
			fatalf("Error: %v\n", err)
		}
		return
	}

	if summaryMode || jsonMode {
		if err := runHeadless(ctx, svc, stateMgr, list, clk); err != nil {
			fatalf("Error: %v\n", err)
		}
		return
	}

	// The TUI owns the terminal; log to a file instead
	if f, err := logging.OpenFile(cfg.Log.File); err != nil {
		logger.SetOutput(io.Discard)
	} else {
		defer f.Close()
		logger.SetOutput(f)
	}
	logger.Info("skydeck %s starting", version.Version)

	fieldCfg := starfield.DefaultConfig()
	fieldCfg.StarCount = cfg.Starfield.Stars
	fieldCfg.ShootingEnabled = cfg.Starfield.ShootingStars
	field := starfield.New(fieldCfg, rand.New(rand.NewSource(time.Now().UnixNano())))

	model := ui.New(stateMgr, svc, field, list, ui.Options{
		Clock:         clk,
		FrameInterval: cfg.Starfield.FrameInterval,
		Logger:        logger,
		Context:       ctx,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fatalf("Error running TUI: %v\n", err)
	}
}

func openStore(cfg config.Config, ephemeral bool) (kvstore.Store, error) {
	if ephemeral {
		return kvstore.NewMemory(), nil
	}
	return kvstore.OpenSQLite(cfg.Tasks.DBPath)
}

func floatFlag(dst **float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// Package config loads skydeck settings from a YAML file, an optional .env
// file and the environment, and resolves XDG directories.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the directory name used under the XDG base directories.
	AppName = "skydeck"

	// ConfigFile is the config filename inside the config directory.
	ConfigFile = "config.yaml"

	// DatabaseFile is the task store filename inside the data directory.
	DatabaseFile = "skydeck.db"

	// LogFile is the log filename inside the state directory.
	LogFile = "skydeck.log"
)

const (
	minFrameInterval = 16 * time.Millisecond
	maxFrameInterval = time.Second
)

// Config holds every tunable setting.
type Config struct {
	Location  LocationConfig  `yaml:"location"`
	Services  ServicesConfig  `yaml:"services"`
	Starfield StarfieldConfig `yaml:"starfield"`
	Tasks     TasksConfig     `yaml:"tasks"`
	Log       LogConfig       `yaml:"log"`
	Clock     ClockConfig     `yaml:"clock"`
}

// LocationConfig controls how the sky panel resolves coordinates.
// When both Latitude and Longitude are set, no lookup is performed.
type LocationConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
	LookupURL string   `yaml:"lookup_url"`
}

// ServicesConfig holds the external endpoints used by the sky panel.
type ServicesConfig struct {
	SunURL  string        `yaml:"sun_url"`
	MoonURL string        `yaml:"moon_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// StarfieldConfig configures the animated backdrop.
type StarfieldConfig struct {
	Stars         int           `yaml:"stars"`
	ShootingStars bool          `yaml:"shooting_stars"`
	FrameInterval time.Duration `yaml:"frame_interval"`
}

// TasksConfig configures task persistence.
type TasksConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ClockConfig overrides the locale-derived time layout when Layout is set.
type ClockConfig struct {
	Layout string `yaml:"layout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Location: LocationConfig{
			Enabled:   true,
			LookupURL: "https://ipapi.co/json/",
		},
		Services: ServicesConfig{
			SunURL:  "https://api.sunrise-sunset.org/json",
			MoonURL: "https://api.farmsense.net/v1/moonphases/",
			Timeout: 15 * time.Second,
		},
		Starfield: StarfieldConfig{
			Stars:         200,
			ShootingStars: true,
			FrameInterval: 33 * time.Millisecond,
		},
		Tasks: TasksConfig{
			DBPath: filepath.Join(DefaultDataDir(), DatabaseFile),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(DefaultStateDir(), LogFile),
		},
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// means the default location, where a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(DefaultConfigDir(), ConfigFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from a .env file into the process
// environment without overriding variables that are already set.
// A missing file is ignored.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from SKYDECK_* variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("SKYDECK_LAT"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SKYDECK_LAT: %w", err)
		}
		c.Location.Latitude = &lat
	}
	if v := getenv("SKYDECK_LON"); v != "" {
		lon, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("SKYDECK_LON: %w", err)
		}
		c.Location.Longitude = &lon
	}
	if v := getenv("SKYDECK_DB"); v != "" {
		c.Tasks.DBPath = v
	}
	if v := getenv("SKYDECK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// HasFixedLocation reports whether both coordinates are configured.
func (c Config) HasFixedLocation() bool {
	return c.Location.Latitude != nil && c.Location.Longitude != nil
}

// Validate checks ranges and clamps the frame interval.
func (c *Config) Validate() error {
	if c.Location.Latitude != nil && (*c.Location.Latitude < -90 || *c.Location.Latitude > 90) {
		return fmt.Errorf("latitude %v out of range [-90, 90]", *c.Location.Latitude)
	}
	if c.Location.Longitude != nil && (*c.Location.Longitude < -180 || *c.Location.Longitude > 180) {
		return fmt.Errorf("longitude %v out of range [-180, 180]", *c.Location.Longitude)
	}
	if c.Starfield.Stars <= 0 {
		return fmt.Errorf("starfield.stars must be positive, got %d", c.Starfield.Stars)
	}
	if c.Services.Timeout <= 0 {
		c.Services.Timeout = Default().Services.Timeout
	}

	if c.Starfield.FrameInterval < minFrameInterval {
		c.Starfield.FrameInterval = minFrameInterval
	} else if c.Starfield.FrameInterval > maxFrameInterval {
		c.Starfield.FrameInterval = maxFrameInterval
	}
	return nil
}

// Locale returns the POSIX locale governing time formatting.
func Locale(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if v := getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/skydeck or ~/.config/skydeck.
func DefaultConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns $XDG_DATA_HOME/skydeck or ~/.local/share/skydeck.
func DefaultDataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// DefaultStateDir returns $XDG_STATE_HOME/skydeck or ~/.local/state/skydeck.
func DefaultStateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fall back to the working directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, fallback, AppName)
}

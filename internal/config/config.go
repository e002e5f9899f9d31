package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SourceConfig points at an externally supplied JSON document. Source is
// either an http(s) URL or a local file path.
type SourceConfig struct {
	Source string `yaml:"source" json:"source"`
}

// ICSConfig describes a single ICS subscription merged into the events list.
type ICSConfig struct {
	// URL is the ICS subscription endpoint.
	URL string `yaml:"url" json:"url"`
	// ID is an internal identifier used for de-dup and logging.
	ID string `yaml:"id" json:"id"`
	// Name is a human-friendly label.
	Name string `yaml:"name" json:"name"`
}

// EventsConfig configures where event records come from.
type EventsConfig struct {
	SourceConfig `yaml:",inline"`

	// ICS subscriptions whose VEVENTs are added to the events document.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// HorizonDays bounds recurring ICS expansion on both sides of now.
	HorizonDays int `yaml:"horizon_days" json:"horizon_days"`
}

// ServiceConfig is a recurring worship service, e.g.
// rrule: "FREQ=WEEKLY;BYDAY=SU;BYHOUR=13;BYMINUTE=0".
type ServiceConfig struct {
	Name     string `yaml:"name" json:"name"`
	RRule    string `yaml:"rrule" json:"rrule"`
	Location string `yaml:"location,omitempty" json:"location,omitempty"`
}

// PreviewConfig controls the headless page capture used as the share image.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Path of the site page to capture, relative to the listen address.
	Path string `yaml:"path" json:"path"`
	// Selector that must be visible before the screenshot is taken.
	Selector string `yaml:"selector" json:"selector"`
	Output   string `yaml:"output" json:"output"`
	Width    int    `yaml:"width" json:"width"`
	Height   int    `yaml:"height" json:"height"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the site and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA timezone used as "local" for component dates,
	// day bucketing and month grids (e.g. "America/Chicago").
	Timezone string `yaml:"timezone" json:"timezone"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// RefreshCron is a cron-style schedule string (e.g. "*/15 * * * *")
	// used to reload the documents.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// PastLimit caps the "latest past events" list.
	PastLimit int `yaml:"past_limit" json:"past_limit"`

	// SiteDir is the static site build served at "/". Empty serves the
	// embedded placeholder page.
	SiteDir string `yaml:"site_dir" json:"site_dir"`

	// CacheDir holds fetched remote documents and the preview image.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	// Watch reloads local source files when they change on disk.
	Watch bool `yaml:"watch" json:"watch"`

	Events   EventsConfig    `yaml:"events" json:"events"`
	Albums   SourceConfig    `yaml:"albums" json:"albums"`
	Services []ServiceConfig `yaml:"services" json:"services"`
	Preview  PreviewConfig   `yaml:"preview" json:"preview"`
}

const (
	defaultListen      = "127.0.0.1:8080"
	defaultTimezone    = "America/Chicago"
	defaultRefreshCron = "*/15 * * * *"
	defaultPastLimit   = 12
	defaultHorizonDays = 365
	defaultCacheDir    = "./cache"
)

func defaultServices() []ServiceConfig {
	return []ServiceConfig{
		{Name: "Sunday Worship", RRule: "FREQ=WEEKLY;BYDAY=SU;BYHOUR=13;BYMINUTE=0"},
		{Name: "Friday Prayer", RRule: "FREQ=WEEKLY;BYDAY=FR;BYHOUR=19;BYMINUTE=30"},
	}
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:      defaultListen,
		Timezone:    defaultTimezone,
		LogLevel:    "info",
		RefreshCron: defaultRefreshCron,
		PastLimit:   defaultPastLimit,
		CacheDir:    defaultCacheDir,
		Watch:       true,
		Events: EventsConfig{
			SourceConfig: SourceConfig{Source: "./public/events.json"},
			ICS:          []ICSConfig{},
			HorizonDays:  defaultHorizonDays,
		},
		Albums:   SourceConfig{Source: "./public/albums.json"},
		Services: defaultServices(),
		Preview: PreviewConfig{
			Enabled:  false,
			Path:     "/events",
			Selector: "body",
			Output:   filepath.Join(defaultCacheDir, "preview.png"),
			Width:    1200,
			Height:   630,
		},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = defaultRefreshCron
	}
	if c.PastLimit <= 0 {
		c.PastLimit = defaultPastLimit
	}
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
	if c.Events.HorizonDays <= 0 {
		c.Events.HorizonDays = defaultHorizonDays
	}
	if c.Events.ICS == nil {
		c.Events.ICS = []ICSConfig{}
	}
	// A nil list means "unset"; an explicit empty list disables services.
	if c.Services == nil {
		c.Services = defaultServices()
	}
	if c.Preview.Path == "" {
		c.Preview.Path = "/events"
	}
	if c.Preview.Selector == "" {
		c.Preview.Selector = "body"
	}
	if c.Preview.Output == "" {
		c.Preview.Output = filepath.Join(c.CacheDir, "preview.png")
	}
	if c.Preview.Width <= 0 {
		c.Preview.Width = 1200
	}
	if c.Preview.Height <= 0 {
		c.Preview.Height = 630
	}
}

// Location resolves Timezone, falling back to time.Local when the zone
// database does not know it.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local, err
	}
	return loc, nil
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".springwell-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience method on Config that delegates to the package-level
// Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}

// Package config loads meetup-sync settings.
//
// Settings come from, in increasing precedence: built-in defaults, a YAML file,
// MEETUP_SYNC_* environment variables (a .env file in the working directory
// is loaded first when present), and finally command-line flags, which the
// cli package applies on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultVisiblePopulation is how many events show before "show more"
const DefaultVisiblePopulation = 2

// Environment variable names
const (
	EnvSource             = "MEETUP_SYNC_SOURCE"
	EnvDestination        = "MEETUP_SYNC_DESTINATION"
	EnvVisiblePopulation  = "MEETUP_SYNC_VISIBLE_POPULATION"
	EnvHideFinishedEvents = "MEETUP_SYNC_HIDE_FINISHED_EVENTS"
	EnvCalendar           = "MEETUP_SYNC_ICS"
	EnvLogLevel           = "MEETUP_SYNC_LOG_LEVEL"
	EnvLogFormat          = "MEETUP_SYNC_LOG_FORMAT"
)

// Config is the top-level application configuration.
type Config struct {
	// Source is the saved Meetup page to read.
	Source string `yaml:"source" json:"source"`

	// Destination is the page to splice events into. Empty means dry run.
	Destination string `yaml:"destination" json:"destination,omitempty"`

	// VisiblePopulation caps visible events; nil (or negative in the file)
	// means unlimited.
	VisiblePopulation *int `yaml:"visible_population" json:"visible_population,omitempty"`

	// HideFinishedEvents hides events that already started.
	HideFinishedEvents bool `yaml:"hide_finished_events" json:"hide_finished_events"`

	// Calendar, if set, receives an iCalendar feed of the events.
	Calendar string `yaml:"ics" json:"ics,omitempty"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	population := DefaultVisiblePopulation
	return &Config{
		VisiblePopulation:  &population,
		HideFinishedEvents: false,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// Normalize fills in missing values so partially-filled configs still work.
func (c *Config) Normalize() {
	if c.VisiblePopulation != nil && *c.VisiblePopulation < 0 {
		c.VisiblePopulation = nil
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Load reads a YAML file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Normalize()

	return cfg, nil
}

// LoadDotEnv loads the given .env files (default ".env") into the process
// environment. Missing files are ignored; existing variables are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	present := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}

	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with any MEETUP_SYNC_* variables set in the
// environment. lookup is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	if v, ok := lookup(EnvSource); ok && v != "" {
		c.Source = v
	}
	if v, ok := lookup(EnvDestination); ok && v != "" {
		c.Destination = v
	}
	if v, ok := lookup(EnvCalendar); ok && v != "" {
		c.Calendar = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.LogFormat = v
	}

	if v, ok := lookup(EnvVisiblePopulation); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvVisiblePopulation, err))
		} else {
			c.VisiblePopulation = &n
		}
	}

	if v, ok := lookup(EnvHideFinishedEvents); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvHideFinishedEvents, err))
		} else {
			c.HideFinishedEvents = b
		}
	}

	c.Normalize()
	return errors.Join(errs...)
}

// Resolve loads the YAML file at path (if any), then .env and the environment.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	return cfg, nil
}

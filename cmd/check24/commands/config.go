package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"check24-backend/lib/chrono"
	"check24-backend/lib/configutil"
	configlibsql "check24-backend/lib/configutil/libsql"
	"check24-backend/lib/sources"
)

type SourceConfig struct {
	BaseUrl          string `json:"base_url"`
	TimeoutSeconds   int    `json:"timeout_seconds"`
	Concurrency      int    `json:"concurrency"`
	UserAgent        string `json:"user_agent"`
	CloudflareBypass bool   `json:"cloudflare_bypass"`
}

func (c SourceConfig) Options() sources.Options {
	return sources.Options{
		BaseURL:          c.BaseUrl,
		Timeout:          time.Duration(c.TimeoutSeconds) * time.Second,
		Concurrency:      c.Concurrency,
		UserAgent:        c.UserAgent,
		CloudflareBypass: c.CloudflareBypass,
	}
}

type WatchConfig struct {
	Schedule string `json:"schedule"`
	// if unspecified, perf stats are recorded every 10 seconds
	PerfStatsSeconds int `json:"perf_stats_seconds"`
}

type Config struct {
	Sources  map[string]SourceConfig `json:"sources"`
	Database configlibsql.Struct     `json:"database"`
	Watch    WatchConfig             `json:"watch"`
}

const (
	defaultDatabaseFile  = "<dev_state>/offers.db"
	defaultWatchSchedule = "0 */6 * * *"
)

// loadConfig reads the config at path, a missing file leaves every value
// at its default.
func loadConfig(path string) (Config, error) {
	config, err := configutil.ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if config.Database.File == "" && config.Database.Url == "" {
		config.Database.File = defaultDatabaseFile
	}
	if config.Watch.Schedule == "" {
		config.Watch.Schedule = defaultWatchSchedule
	}
	if config.Watch.PerfStatsSeconds <= 0 {
		config.Watch.PerfStatsSeconds = 10
	}
	err = chrono.Validate(config.Watch.Schedule)
	if err != nil {
		return Config{}, fmt.Errorf("invalid watch schedule %q: %w", config.Watch.Schedule, err)
	}
	return config, nil
}

func (c Config) SourceOptions() map[string]sources.Options {
	out := make(map[string]sources.Options, len(c.Sources))
	for name, source := range c.Sources {
		out[name] = source.Options()
	}
	return out
}

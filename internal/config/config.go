// Package config is the configuration file of the bom command.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"bom-dashboard/internal/api"
	"bom-dashboard/internal/bom"
	"bom-dashboard/internal/components/telemetry"
	"bom-dashboard/internal/dashboard"
	"bom-dashboard/lib/configutil"
	configlibsql "bom-dashboard/lib/configutil/libsql"
)

// FileName is searched for from the working directory upwards.
const FileName = "bom.json5"

type API struct {
	BaseURL   string `json:"base_url"`
	TimeoutMs int    `json:"timeout_ms"`
}

type Cache struct {
	// TtlMs of 0 keeps entries until they are cleared.
	TtlMs    int                 `json:"ttl_ms"`
	Snapshot configlibsql.Struct `json:"snapshot"`
}

type Dashboard struct {
	PageSize        int `json:"page_size"`
	SlowThresholdMs int `json:"slow_threshold_ms"`
	StaticTimeoutMs int `json:"static_timeout_ms"`
}

type Config struct {
	API       API              `json:"api"`
	Cache     Cache            `json:"cache"`
	Dashboard Dashboard        `json:"dashboard"`
	Telemetry telemetry.Config `json:"telemetry"`
}

func Default() Config {
	return Config{
		API: API{
			BaseURL:   api.DefaultBaseURL,
			TimeoutMs: 30_000,
		},
		Dashboard: Dashboard{
			PageSize:        bom.DefaultPageSize,
			SlowThresholdMs: int(dashboard.DefaultSlowThreshold / time.Millisecond),
			StaticTimeoutMs: int(dashboard.DefaultStaticTimeout / time.Millisecond),
		},
	}
}

// Load reads path, or searches for FileName from dir upwards when path is
// empty, and fills everything left unset from Default. A missing file
// found by searching is not an error.
func Load(dir, path string) (Config, error) {
	var (
		config Config
		err    error
	)
	if path != "" {
		config, err = configutil.ReadConfig[Config](path)
	} else {
		config, err = configutil.ReadRecursively[Config](dir, FileName)
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	config, err = configutil.WithDefaults(config, Default())
	if err != nil {
		return Config{}, err
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("api.base_url: %q is not an http(s) url", c.API.BaseURL)
	}

	durations := map[string]int{
		"api.timeout_ms":              c.API.TimeoutMs,
		"cache.ttl_ms":                c.Cache.TtlMs,
		"dashboard.slow_threshold_ms": c.Dashboard.SlowThresholdMs,
		"dashboard.static_timeout_ms": c.Dashboard.StaticTimeoutMs,
	}
	for name, ms := range durations {
		if ms < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, ms)
		}
	}

	size := c.Dashboard.PageSize
	if size < bom.MinPageSize || size > bom.MaxPageSize {
		return fmt.Errorf(
			"dashboard.page_size must be between %d and %d, got %d",
			bom.MinPageSize, bom.MaxPageSize, size,
		)
	}
	return nil
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func (c Config) Timeout() time.Duration {
	return ms(c.API.TimeoutMs)
}

func (c Config) TTL() time.Duration {
	return ms(c.Cache.TtlMs)
}

func (c Config) SlowThreshold() time.Duration {
	return ms(c.Dashboard.SlowThresholdMs)
}

func (c Config) StaticTimeout() time.Duration {
	return ms(c.Dashboard.StaticTimeoutMs)
}

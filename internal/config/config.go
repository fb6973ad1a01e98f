package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvBaseURL overrides api.base_url when set, so the client can point
// at a different backend without editing the config file.
const EnvBaseURL = "TRENDSTREAM_API_URL"

type Config struct {
	API     APIConfig     `yaml:"api"`
	UI      UIConfig      `yaml:"ui"`
	Cache   CacheConfig   `yaml:"cache"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// GetTimeout parses the request timeout string.
func (a *APIConfig) GetTimeout() (time.Duration, error) {
	return time.ParseDuration(a.Timeout)
}

type UIConfig struct {
	PageSize         int    `yaml:"page_size"`
	TrendLimit       int    `yaml:"trend_limit"`
	DashboardRefresh string `yaml:"dashboard_refresh"`
}

// GetDashboardRefresh parses the stats auto-refresh interval.
func (u *UIConfig) GetDashboardRefresh() (time.Duration, error) {
	return time.ParseDuration(u.DashboardRefresh)
}

type CacheConfig struct {
	TTL string `yaml:"ttl"`
}

// GetTTL parses the query-cache staleness window.
func (c *CacheConfig) GetTTL() (time.Duration, error) {
	return time.ParseDuration(c.TTL)
}

type HistoryConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// Load reads configuration from file, applies defaults and the
// environment override, and validates. A missing file is fine (all
// defaults apply); a missing API base URL is not.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
		// defaults only
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if env := os.Getenv(EnvBaseURL); env != "" {
		cfg.API.BaseURL = env
	}

	// Set defaults
	if cfg.API.Timeout == "" {
		cfg.API.Timeout = "15s"
	}
	if cfg.UI.PageSize == 0 {
		cfg.UI.PageSize = 10
	}
	if cfg.UI.TrendLimit == 0 {
		cfg.UI.TrendLimit = 10
	}
	if cfg.UI.DashboardRefresh == "" {
		cfg.UI.DashboardRefresh = "60s"
	}
	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = "30s"
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "~/.local/share/trendstream/history.db"
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = "~/.local/state/trendstream/trendstream.log"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required (set it in the config file or via %s)", EnvBaseURL)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute http(s) URL", c.API.BaseURL)
	}

	if c.UI.PageSize <= 0 {
		return fmt.Errorf("ui.page_size must be positive")
	}
	if c.UI.TrendLimit <= 0 {
		return fmt.Errorf("ui.trend_limit must be positive")
	}

	for name, parse := range map[string]func() (time.Duration, error){
		"api.timeout":          c.API.GetTimeout,
		"ui.dashboard_refresh": c.UI.GetDashboardRefresh,
		"cache.ttl":            c.Cache.GetTTL,
	} {
		d, err := parse()
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".config", "trendstream", "config.yaml")
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// OMDb
	OMDbAPIKey  string
	OMDbBaseURL string

	// Cache
	CacheTime         time.Duration // Entries unused for this long are evicted
	StaleTime         time.Duration // Age after which an entry is revalidated on read
	RefreshInterval   time.Duration // Proactive refresh of referenced queries
	FetchTimeout      time.Duration
	RevalidateOnFocus bool
	RefreshWhenHidden bool

	// Search
	DebounceWindow  time.Duration
	MinSearchLength int
	RowsPerPage     int
	DefaultViewMode string

	// Connectivity
	ReconnectProbeInterval time.Duration

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/cinesearch.db

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = viper.ReadInConfig()

	viper.SetDefault("OMDB_BASE_URL", "http://www.omdbapi.com")
	viper.SetDefault("CACHE_TIME", "5m")
	viper.SetDefault("STALE_TIME", "1m")
	viper.SetDefault("REFRESH_INTERVAL", "1m")
	viper.SetDefault("FETCH_TIMEOUT", "30s")
	viper.SetDefault("REVALIDATE_ON_FOCUS", false)
	viper.SetDefault("REFRESH_WHEN_HIDDEN", false)
	viper.SetDefault("DEBOUNCE_WINDOW", "500ms")
	viper.SetDefault("MIN_SEARCH_LENGTH", 3)
	viper.SetDefault("ROWS_PER_PAGE", 10)
	viper.SetDefault("DEFAULT_VIEW_MODE", "grid")
	viper.SetDefault("RECONNECT_PROBE_INTERVAL", "30s")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")

	configDir := viper.GetString("CONFIG_DIR")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "cinesearch")
	} else {
		absPath, err := filepath.Abs(configDir)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
		}
		configDir = absPath
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		OMDbAPIKey:  viper.GetString("OMDB_API_KEY"),
		OMDbBaseURL: viper.GetString("OMDB_BASE_URL"),

		CacheTime:         viper.GetDuration("CACHE_TIME"),
		StaleTime:         viper.GetDuration("STALE_TIME"),
		RefreshInterval:   viper.GetDuration("REFRESH_INTERVAL"),
		FetchTimeout:      viper.GetDuration("FETCH_TIMEOUT"),
		RevalidateOnFocus: viper.GetBool("REVALIDATE_ON_FOCUS"),
		RefreshWhenHidden: viper.GetBool("REFRESH_WHEN_HIDDEN"),

		DebounceWindow:  viper.GetDuration("DEBOUNCE_WINDOW"),
		MinSearchLength: viper.GetInt("MIN_SEARCH_LENGTH"),
		RowsPerPage:     viper.GetInt("ROWS_PER_PAGE"),
		DefaultViewMode: viper.GetString("DEFAULT_VIEW_MODE"),

		ReconnectProbeInterval: viper.GetDuration("RECONNECT_PROBE_INTERVAL"),

		ServerPort: viper.GetString("SERVER_PORT"),

		DatabaseFile: filepath.Join(configDir, "cinesearch.db"),

		LogLevel: viper.GetString("LOG_LEVEL"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and value ranges
func (c *Config) Validate() error {
	if c.OMDbAPIKey == "" {
		return fmt.Errorf("OMDB_API_KEY is required")
	}
	if c.OMDbBaseURL == "" {
		return fmt.Errorf("OMDB_BASE_URL is required")
	}
	if c.StaleTime <= 0 {
		return fmt.Errorf("STALE_TIME must be positive, got %s", c.StaleTime)
	}
	if c.CacheTime < c.StaleTime {
		return fmt.Errorf("CACHE_TIME (%s) must not be shorter than STALE_TIME (%s)", c.CacheTime, c.StaleTime)
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_INTERVAL must be positive, got %s", c.RefreshInterval)
	}
	if c.RowsPerPage < 1 {
		return fmt.Errorf("ROWS_PER_PAGE must be at least 1, got %d", c.RowsPerPage)
	}
	if c.DefaultViewMode != "grid" && c.DefaultViewMode != "table" {
		return fmt.Errorf("DEFAULT_VIEW_MODE must be grid or table, got %q", c.DefaultViewMode)
	}
	return nil
}

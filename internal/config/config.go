package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Config holds settings loaded from the environment (and .env, if present)
type Config struct {
	// Files
	RawDatasetPath string `env:"COUNTYROOTS_RAW_DATASET" envDefault:"data.json"`
	DatasetPath    string `env:"COUNTYROOTS_DATASET"     envDefault:"eData.json"`
	DBPath         string `env:"COUNTYROOTS_DB"          envDefault:"countyroots.db"`
	FiltersFile    string `env:"COUNTYROOTS_FILTERS_FILE"`
	MetricsFile    string `env:"COUNTYROOTS_METRICS_FILE"` // textfile collector output for offline runs

	// Extraction
	WikiBaseURL      string        `env:"COUNTYROOTS_WIKI_BASE_URL"      envDefault:"https://en.wikipedia.org/wiki/"`
	UserAgent        string        `env:"COUNTYROOTS_USER_AGENT"`
	FetchTimeout     time.Duration `env:"COUNTYROOTS_FETCH_TIMEOUT"      envDefault:"30s"`
	FetchConcurrency int           `env:"COUNTYROOTS_FETCH_CONCURRENCY"` // 0 launches every jurisdiction at once
	UsePageCache     bool          `env:"COUNTYROOTS_PAGE_CACHE"         envDefault:"true"`

	// Classification
	MergeNameLists bool `env:"COUNTYROOTS_MERGE_NAMELISTS"`

	// Runtime
	ServerAddr     string `env:"COUNTYROOTS_ADDR"             envDefault:":3000"`
	QueryCacheSize int    `env:"COUNTYROOTS_QUERY_CACHE_SIZE"` // 0: unbounded for CLI runs, DefaultServeCacheSize for serve
	MinYear        int    `env:"COUNTYROOTS_MIN_YEAR"         envDefault:"1617"`
	MaxYear        int    `env:"COUNTYROOTS_MAX_YEAR"         envDefault:"2013"`
	StartYear      int    `env:"COUNTYROOTS_START_YEAR"       envDefault:"1750"`

	LogLevel string `env:"COUNTYROOTS_LOG_LEVEL" envDefault:"info"`
}

// DefaultServeCacheSize bounds the query cache of a long-running server when
// no size is configured
const DefaultServeCacheSize = 4096

// Load reads .env (silently ignored if missing) and the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.MinYear > c.MaxYear {
		return fmt.Errorf("min year %d is after max year %d", c.MinYear, c.MaxYear)
	}
	if c.QueryCacheSize < 0 {
		return fmt.Errorf("query cache size must not be negative")
	}
	if _, err := log.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// ServeCacheSize is the query cache bound for the HTTP server. It is never
// unbounded.
func (c *Config) ServeCacheSize() int {
	if c.QueryCacheSize > 0 {
		return c.QueryCacheSize
	}
	return DefaultServeCacheSize
}

// ClampYear keeps a year inside the scrubber range
func (c *Config) ClampYear(year int) int {
	if year < c.MinYear {
		return c.MinYear
	}
	if year > c.MaxYear {
		return c.MaxYear
	}
	return year
}

// Level returns the parsed log level, defaulting to info
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

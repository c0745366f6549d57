package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/username/holiday-optimizer/internal/optimizer"
	"github.com/username/holiday-optimizer/pkg/dateutil"
)

// EnvPrefix prefixes every environment override, e.g. HOLIDAY_OPTIMIZER_SERVER_ADDRESS
const EnvPrefix = "HOLIDAY_OPTIMIZER"

// Cache backends
const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config represents application configuration
type Config struct {
	Holidays  HolidaysConfig  `mapstructure:"holidays"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Optimizer OptimizerConfig `mapstructure:"optimizer"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Server    ServerConfig    `mapstructure:"server"`
	Daemon    DaemonConfig    `mapstructure:"daemon"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// HolidaysConfig represents the public holiday source configuration
type HolidaysConfig struct {
	APIURL       string `mapstructure:"api_url"`
	Timeout      string `mapstructure:"timeout"`
	CacheTTL     string `mapstructure:"cache_ttl"`
	FallbackFile string `mapstructure:"fallback_file"` // YAML country -> holidays, merged over the built-in table
}

// CacheConfig represents the holiday cache backend
type CacheConfig struct {
	Type          string `mapstructure:"type"` // "memory", "sqlite", "redis" or "none"
	SQLitePath    string `mapstructure:"sqlite_path"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPassword string `mapstructure:"redis_password"`
}

// OptimizerConfig represents the heuristic's tunables
type OptimizerConfig struct {
	MinEfficiency        float64 `mapstructure:"min_efficiency"`
	MaxBlocks            int     `mapstructure:"max_blocks"`
	StopRemainingPTO     int     `mapstructure:"stop_remaining_pto"`
	MaxLongWeekendPTO    int     `mapstructure:"max_long_weekend_pto"`
	BridgeScanDays       int     `mapstructure:"bridge_scan_days"`
	WeekStart            string  `mapstructure:"week_start"`
	RejectOverlappingPTO bool    `mapstructure:"reject_overlapping_pto"`
}

// PlannerConfig represents planner defaults and saved plan state
type PlannerConfig struct {
	DefaultCountry string `mapstructure:"default_country"`
	DefaultStyle   string `mapstructure:"default_style"`
	StateFile      string `mapstructure:"state_file"`
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	ReadTimeout    string   `mapstructure:"read_timeout"`
	WriteTimeout   string   `mapstructure:"write_timeout"`
}

// DaemonConfig represents the cache warmer configuration
type DaemonConfig struct {
	RefreshInterval string   `mapstructure:"refresh_interval"`
	Countries       []string `mapstructure:"countries"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"` // empty logs to console only
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("holidays.api_url", "https://date.nager.at")
	v.SetDefault("holidays.timeout", "10s")
	v.SetDefault("holidays.cache_ttl", "24h")
	v.SetDefault("holidays.fallback_file", "")

	v.SetDefault("cache.type", CacheMemory)
	v.SetDefault("cache.sqlite_path", "holiday-cache.db")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.redis_password", "")

	v.SetDefault("optimizer.min_efficiency", 1.2)
	v.SetDefault("optimizer.max_blocks", 6)
	v.SetDefault("optimizer.stop_remaining_pto", 2)
	v.SetDefault("optimizer.max_long_weekend_pto", 2)
	v.SetDefault("optimizer.bridge_scan_days", 7)
	v.SetDefault("optimizer.week_start", "sunday")
	v.SetDefault("optimizer.reject_overlapping_pto", false)

	v.SetDefault("planner.default_country", "US")
	v.SetDefault("planner.default_style", "balanced")
	v.SetDefault("planner.state_file", "holiday-plans.json")

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("daemon.refresh_interval", "24h")
	v.SetDefault("daemon.countries", []string{"US"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
}

// Load loads configuration from file, .env and the environment.
// A missing config file is not an error when no path was given.
func Load(configPath string) (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.holiday-optimizer")
		v.AddConfigPath("/etc/holiday-optimizer")
	}

	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.ExpandEnvVars()

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	// Validate Holidays config
	if c.Holidays.APIURL == "" {
		return fmt.Errorf("holidays.api_url is required")
	}
	if err := checkDuration("holidays.timeout", c.Holidays.Timeout); err != nil {
		return err
	}
	if err := checkDuration("holidays.cache_ttl", c.Holidays.CacheTTL); err != nil {
		return err
	}

	// Validate Cache config
	switch c.Cache.Type {
	case "", CacheMemory, CacheNone:
	case CacheSQLite:
		if c.Cache.SQLitePath == "" {
			return fmt.Errorf("cache.sqlite_path is required for sqlite cache")
		}
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for redis cache")
		}
		if c.Cache.RedisDB < 0 {
			return fmt.Errorf("cache.redis_db must not be negative")
		}
	default:
		return fmt.Errorf("cache.type must be one of memory, sqlite, redis, none, got '%s'", c.Cache.Type)
	}

	// Validate Optimizer config
	o := c.Optimizer
	if o.MinEfficiency < 0 {
		return fmt.Errorf("optimizer.min_efficiency must not be negative")
	}
	if o.MaxBlocks <= 0 {
		return fmt.Errorf("optimizer.max_blocks must be positive")
	}
	if o.StopRemainingPTO < 0 {
		return fmt.Errorf("optimizer.stop_remaining_pto must not be negative")
	}
	if o.MaxLongWeekendPTO <= 0 {
		return fmt.Errorf("optimizer.max_long_weekend_pto must be positive")
	}
	if o.BridgeScanDays <= 0 {
		return fmt.Errorf("optimizer.bridge_scan_days must be positive")
	}
	if _, err := parseWeekday(o.WeekStart); err != nil {
		return fmt.Errorf("optimizer.week_start: %w", err)
	}

	// Validate Server and Daemon config
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if err := checkDuration("daemon.refresh_interval", c.Daemon.RefreshInterval); err != nil {
		return err
	}

	return nil
}

func checkDuration(key, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive", key)
	}
	return nil
}

func parseDuration(value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return def
	}
	return duration
}

// GetTimeout returns the holiday API request timeout
func (c *HolidaysConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

// GetCacheTTL returns cache TTL duration
func (c *HolidaysConfig) GetCacheTTL() time.Duration {
	return parseDuration(c.CacheTTL, 24*time.Hour)
}

// GetRefreshInterval returns the cache warmer interval
func (c *DaemonConfig) GetRefreshInterval() time.Duration {
	return parseDuration(c.RefreshInterval, 24*time.Hour)
}

// GetReadTimeout returns the HTTP server read timeout
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return parseDuration(c.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the HTTP server write timeout
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return parseDuration(c.WriteTimeout, 30*time.Second)
}

// GetWeekStart returns the configured first day of the week, Sunday by default
func (c *OptimizerConfig) GetWeekStart() time.Weekday {
	d, err := parseWeekday(c.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return d
}

// Policy builds the optimizer policy, keeping reference values for
// settings that are not configurable
func (c *OptimizerConfig) Policy() optimizer.Policy {
	p := optimizer.DefaultPolicy()
	p.MinEfficiency = c.MinEfficiency
	p.MaxBlocks = c.MaxBlocks
	p.StopRemainingPTO = c.StopRemainingPTO
	p.MaxLongWeekendPTO = c.MaxLongWeekendPTO
	p.BridgeScanDays = c.BridgeScanDays
	p.WeekStart = c.GetWeekStart()
	p.RejectOverlappingPTO = c.RejectOverlappingPTO
	return p
}

func parseWeekday(s string) (time.Weekday, error) {
	if strings.TrimSpace(s) == "" {
		return time.Sunday, nil
	}
	return dateutil.ParseWeekday(s)
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Cache.RedisPassword = os.ExpandEnv(c.Cache.RedisPassword)
	c.Cache.RedisAddr = os.ExpandEnv(c.Cache.RedisAddr)
	c.Cache.SQLitePath = os.ExpandEnv(c.Cache.SQLitePath)
	c.Holidays.FallbackFile = os.ExpandEnv(c.Holidays.FallbackFile)
	c.Planner.StateFile = os.ExpandEnv(c.Planner.StateFile)
	c.Logging.File = os.ExpandEnv(c.Logging.File)
}

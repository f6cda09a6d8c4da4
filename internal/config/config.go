package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/tubesync/internal/playback"
)

const (
	defaultSegmentsAPIURL    = "https://sponsor.ajay.app"
	defaultCacheTTLHours     = 24
	defaultRequestsPerSecond = 2.0
	defaultChannelPrefix     = "tubesync"
	defaultLogLevel          = "info"
)

type Config struct {
	Log LogConfig `koanf:"log"`

	// Segment skipping
	Segments SegmentsConfig `koanf:"segments"`

	// Remote device link (Redis pub/sub when redis_addr is set, MPRIS otherwise)
	Remote RemoteConfig `koanf:"remote"`

	// Last.fm now-playing updates (enabled when fully configured)
	Lastfm LastfmConfig `koanf:"lastfm"`

	Metrics MetricsConfig `koanf:"metrics"`

	Player PlayerConfig `koanf:"player"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `koanf:"level"` // "debug", "info", "warn", "error" (default: "info")
	File  string `koanf:"file"`  // log file path (default: $XDG_STATE_HOME/tubesync/tubesync.log)
}

// SegmentsConfig holds segment source configuration.
type SegmentsConfig struct {
	Enabled           *bool    `koanf:"enabled"`             // skip tagged segments (default: true)
	APIURL            string   `koanf:"api_url"`             // SponsorBlock-compatible API root
	Categories        []string `koanf:"categories"`          // categories to skip (default: ["sponsor"])
	CacheTTLHours     int      `koanf:"cache_ttl_hours"`     // segment cache TTL (default: 24)
	RequestsPerSecond float64  `koanf:"requests_per_second"` // API rate limit (default: 2)
}

// RemoteConfig holds remote device link configuration.
type RemoteConfig struct {
	Enabled       *bool  `koanf:"enabled"`        // start with the device link on (default: saved preference)
	RedisAddr     string `koanf:"redis_addr"`     // e.g., "localhost:6379"
	RedisPassword string `koanf:"redis_password"` // optional
	RedisDB       int    `koanf:"redis_db"`
	ChannelPrefix string `koanf:"channel_prefix"` // default: "tubesync"
	ScreenID      string `koanf:"screen_id"`      // default: generated and stored in the state db
}

// LastfmConfig holds Last.fm configuration.
type LastfmConfig struct {
	APIKey     string `koanf:"api_key"`
	APISecret  string `koanf:"api_secret"`
	SessionKey string `koanf:"session_key"`
}

// MetricsConfig holds the Prometheus endpoint configuration.
type MetricsConfig struct {
	Listen string `koanf:"listen"` // e.g., "127.0.0.1:9464"; empty disables the endpoint
}

// PlayerConfig holds playback defaults.
type PlayerConfig struct {
	Repeat string `koanf:"repeat"` // "off", "all", "one", "pause"
}

// Load reads the config files in priority order.
func Load() (*Config, error) {
	return LoadFrom(getConfigPaths()...)
}

// LoadFrom reads the given config files in order (last wins). Missing files
// are skipped.
func LoadFrom(paths ...string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	// Normalize API URL (remove trailing slash)
	cfg.Segments.APIURL = strings.TrimSuffix(cfg.Segments.APIURL, "/")

	return cfg, nil
}

// ActivePath returns the highest-priority config file that exists, or "".
func ActivePath() string {
	paths := getConfigPaths()
	for i := len(paths) - 1; i >= 0; i-- {
		if _, err := os.Stat(paths[i]); err == nil {
			return paths[i]
		}
	}
	return ""
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tubesync/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tubesync", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// HasLastfmConfig returns true if now-playing updates can be sent.
func (c *Config) HasLastfmConfig() bool {
	return c.Lastfm.APIKey != "" && c.Lastfm.APISecret != "" && c.Lastfm.SessionKey != ""
}

// HasRedisConfig returns true if the Redis device link is configured.
func (c *Config) HasRedisConfig() bool {
	return c.Remote.RedisAddr != ""
}

// SegmentsEnabled returns whether segment skipping is on (default: true).
func (c *Config) SegmentsEnabled() bool {
	if c.Segments.Enabled == nil {
		return true
	}
	return *c.Segments.Enabled
}

// GetSegmentsConfig returns the segments configuration with defaults applied.
func (c *Config) GetSegmentsConfig() SegmentsConfig {
	cfg := c.Segments

	// Apply defaults
	if cfg.APIURL == "" {
		cfg.APIURL = defaultSegmentsAPIURL
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = []string{"sponsor"}
	}
	if cfg.CacheTTLHours <= 0 {
		cfg.CacheTTLHours = defaultCacheTTLHours
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}

	return cfg
}

// CacheTTL returns the segment cache TTL.
func (s SegmentsConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLHours) * time.Hour
}

// GetRemoteConfig returns the remote configuration with defaults applied.
func (c *Config) GetRemoteConfig() RemoteConfig {
	cfg := c.Remote
	if cfg.ChannelPrefix == "" {
		cfg.ChannelPrefix = defaultChannelPrefix
	}
	return cfg
}

// LogLevel returns the configured log level (default: "info").
func (c *Config) LogLevel() string {
	if c.Log.Level == "" {
		return defaultLogLevel
	}
	return c.Log.Level
}

// RepeatMode returns the configured default repeat mode and whether one was
// set. Unknown values read as RepeatOff.
func (c *Config) RepeatMode() (playback.RepeatMode, bool) {
	if c.Player.Repeat == "" {
		return playback.RepeatOff, false
	}
	return playback.ParseRepeatMode(c.Player.Repeat), true
}

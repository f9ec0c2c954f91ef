// Package config loads frontpage configuration.
//
// Values are layered: built-in defaults, then the YAML file (frontpage.yaml
// by default), then FRONTPAGE_* environment variables. Nested keys in
// environment variables are separated by a double underscore:
//
//	FRONTPAGE_SERVER__ADDR=:9000
//	FRONTPAGE_CONTENT__SOURCE=s3
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/vango-dev/frontpage/internal/errors"
)

const (
	// FileName is the default configuration file name.
	FileName = "frontpage.yaml"

	// EnvPrefix is the prefix of environment overrides.
	EnvPrefix = "FRONTPAGE_"
)

// Content source kinds.
const (
	SourceDir = "dir"
	SourceS3  = "s3"
)

// Config is the complete frontpage configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site" koanf:"site"`
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Session SessionConfig `yaml:"session" koanf:"session"`
	Content ContentConfig `yaml:"content" koanf:"content"`
	Metrics MetricsConfig `yaml:"metrics" koanf:"metrics"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
}

// SiteConfig holds presentation settings.
type SiteConfig struct {
	Name         string `yaml:"name" koanf:"name"`
	DefaultTheme string `yaml:"default_theme" koanf:"default_theme"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr" koanf:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" koanf:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" koanf:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins" koanf:"allowed_origins"`
}

// SessionConfig configures live sessions.
type SessionConfig struct {
	MaxSessions    int           `yaml:"max_sessions" koanf:"max_sessions"`
	EventQueueSize int           `yaml:"event_queue_size" koanf:"event_queue_size"`
	MaxViews       int           `yaml:"max_views" koanf:"max_views"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" koanf:"idle_timeout"`
	PingInterval   time.Duration `yaml:"ping_interval" koanf:"ping_interval"`
	WriteTimeout   time.Duration `yaml:"write_timeout" koanf:"write_timeout"`
}

// ContentConfig selects where blog, podcast, careers and reports content
// is read from.
type ContentConfig struct {
	Source string   `yaml:"source" koanf:"source"`
	Dir    string   `yaml:"dir" koanf:"dir"`
	Watch  bool     `yaml:"watch" koanf:"watch"`
	S3     S3Config `yaml:"s3" koanf:"s3"`
}

// S3Config configures the S3 content source.
type S3Config struct {
	Bucket          string `yaml:"bucket" koanf:"bucket"`
	Prefix          string `yaml:"prefix" koanf:"prefix"`
	Region          string `yaml:"region" koanf:"region"`
	Endpoint        string `yaml:"endpoint,omitempty" koanf:"endpoint"`
	AccessKeyID     string `yaml:"access_key_id,omitempty" koanf:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key,omitempty" koanf:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style" koanf:"use_path_style"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" koanf:"enabled"`
	Path    string `yaml:"path" koanf:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" koanf:"level"`
	Dev   bool   `yaml:"dev" koanf:"dev"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Site: SiteConfig{
			Name:         "Frontpage",
			DefaultTheme: "system",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		Session: SessionConfig{
			MaxSessions:    10000,
			EventQueueSize: 256,
			MaxViews:       16,
			IdleTimeout:    2 * time.Minute,
			PingInterval:   30 * time.Second,
			WriteTimeout:   10 * time.Second,
		},
		Content: ContentConfig{
			Source: SourceDir,
			Dir:    "content",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from path and applies environment overrides.
// A missing file is not an error; defaults are used.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.New("E100").WithDetail(path).Wrap(err)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.New("E100").WithDetail(path).Wrap(err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.New("E100").WithDetail("environment").Wrap(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.New("E100").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps FRONTPAGE_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

var validThemes = map[string]bool{"light": true, "dark": true, "system": true}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.New("E101").WithDetail(fmt.Sprintf(format, args...))
	}

	if c.Server.Addr == "" {
		return invalid("server.addr is required")
	}
	if c.Session.MaxSessions <= 0 {
		return invalid("session.max_sessions must be positive")
	}
	if c.Session.EventQueueSize <= 0 {
		return invalid("session.event_queue_size must be positive")
	}
	if c.Session.MaxViews <= 0 {
		return invalid("session.max_views must be positive")
	}
	if c.Session.IdleTimeout <= 0 || c.Session.PingInterval <= 0 {
		return invalid("session.idle_timeout and session.ping_interval must be positive")
	}
	if c.Session.PingInterval >= c.Session.IdleTimeout {
		return invalid("session.ping_interval (%s) must be shorter than session.idle_timeout (%s)",
			c.Session.PingInterval, c.Session.IdleTimeout)
	}
	if !validThemes[c.Site.DefaultTheme] {
		return invalid("site.default_theme %q must be one of light, dark, system", c.Site.DefaultTheme)
	}
	if !validLevels[c.Log.Level] {
		return invalid("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}

	switch c.Content.Source {
	case SourceDir:
		if c.Content.Dir == "" {
			return invalid("content.dir is required when content.source is dir")
		}
	case SourceS3:
		if c.Content.S3.Bucket == "" {
			return invalid("content.s3.bucket is required when content.source is s3")
		}
		if c.Content.S3.Region == "" {
			return invalid("content.s3.region is required when content.source is s3")
		}
		if c.Content.Watch {
			return invalid("content.watch is only supported for the dir source")
		}
	default:
		return invalid("content.source %q must be dir or s3", c.Content.Source)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path %q must start with /", c.Metrics.Path)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return errors.New("E102").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E102").WithDetail(path).Wrap(err)
	}
	return nil
}

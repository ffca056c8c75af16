// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Remote RemoteConfig `toml:"remote"`
	Mirror MirrorConfig `toml:"mirror"`
	TMDB   TMDBConfig   `toml:"tmdb"`
	Auth   AuthConfig   `toml:"auth"`
	Notify NotifyConfig `toml:"notify"`
	Events EventsConfig `toml:"events"`
}

type ServerConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	LogLevel string `toml:"log_level"`
}

// LogConfig controls the optional rotating log file. Console output is
// always on.
type LogConfig struct {
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
	Compress   bool   `toml:"compress"`
}

// RemoteConfig describes the authoritative store. An empty DSN leaves the
// catalog read-only.
type RemoteConfig struct {
	Driver          string        `toml:"driver"`
	DSN             string        `toml:"dsn"`
	Timeout         time.Duration `toml:"timeout"`
	ConnectAttempts int           `toml:"connect_attempts"`
	ConnectDelay    time.Duration `toml:"connect_delay"`
}

type MirrorConfig struct {
	Driver string `toml:"driver"`
	Path   string `toml:"path"`
}

type TMDBConfig struct {
	APIKey       string        `toml:"api_key"`
	BaseURL      string        `toml:"base_url"`
	ImageBaseURL string        `toml:"image_base_url"`
	Language     string        `toml:"language"`
	CacheTTL     time.Duration `toml:"cache_ttl"`
	Concurrency  int           `toml:"concurrency"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

type NotifyConfig struct {
	NATSURL       string `toml:"nats_url"`
	SubjectPrefix string `toml:"subject_prefix"`
}

type EventsConfig struct {
	Audit     bool          `toml:"audit"`
	Retention time.Duration `toml:"retention"`
}

// Defaults.
const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 8585
	DefaultLogLevel        = "info"
	DefaultRemoteDriver    = "postgres"
	DefaultRemoteTimeout   = 10 * time.Second
	DefaultConnectAttempts = 3
	DefaultConnectDelay    = 500 * time.Millisecond
	DefaultMirrorDriver    = "sqlite"
	DefaultMirrorPath      = "./data/streamiz.db"
	DefaultTMDBBaseURL     = "https://api.themoviedb.org"
	DefaultTMDBImageURL    = "https://image.tmdb.org/t/p"
	DefaultTMDBCacheTTL    = 24 * time.Hour
	DefaultTMDBConcurrency = 8
	DefaultSubjectPrefix   = "streamiz"
	DefaultEventRetention  = 30 * 24 * time.Hour
)

// Load reads, parses and validates the configuration file. A .env file next
// to the config is loaded first; variables already set in the environment win.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file and applies
// defaults. Unresolved environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Remote.Driver == "" {
		c.Remote.Driver = DefaultRemoteDriver
	}
	if c.Remote.Timeout == 0 {
		c.Remote.Timeout = DefaultRemoteTimeout
	}
	if c.Remote.ConnectAttempts == 0 {
		c.Remote.ConnectAttempts = DefaultConnectAttempts
	}
	if c.Remote.ConnectDelay == 0 {
		c.Remote.ConnectDelay = DefaultConnectDelay
	}
	if c.Mirror.Driver == "" {
		c.Mirror.Driver = DefaultMirrorDriver
	}
	if c.Mirror.Path == "" && c.Mirror.Driver != "memory" {
		c.Mirror.Path = DefaultMirrorPath
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = DefaultTMDBBaseURL
	}
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = DefaultTMDBImageURL
	}
	if c.TMDB.CacheTTL == 0 {
		c.TMDB.CacheTTL = DefaultTMDBCacheTTL
	}
	if c.TMDB.Concurrency == 0 {
		c.TMDB.Concurrency = DefaultTMDBConcurrency
	}
	if c.Notify.SubjectPrefix == "" {
		c.Notify.SubjectPrefix = DefaultSubjectPrefix
	}
	if c.Events.Retention == 0 {
		c.Events.Retention = DefaultEventRetention
	}
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars expands environment references. Unresolved references
// are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]
		value, ok := os.LookupEnv(name)
		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}

// Redacted returns a copy with secrets masked, for display.
func (c *Config) Redacted() Config {
	out := *c
	out.TMDB.APIKey = mask(out.TMDB.APIKey)
	out.Auth.JWTSecret = mask(out.Auth.JWTSecret)
	out.Remote.DSN = redactDSN(out.Remote.DSN)
	return out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

var dsnPassword = regexp.MustCompile(`(://[^:/@]+:)[^@]+@`)

func redactDSN(dsn string) string {
	dsn = dsnPassword.ReplaceAllString(dsn, "${1}********@")
	if i := strings.Index(dsn, "password="); i >= 0 {
		end := strings.IndexAny(dsn[i:], " &")
		if end < 0 {
			return dsn[:i] + "password=********"
		}
		return dsn[:i] + "password=********" + dsn[i+end:]
	}
	return dsn
}

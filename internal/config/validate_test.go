// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidate_DefaultsValid(t *testing.T) {
	assert.Empty(t, validConfig().Validate())
}

func TestValidate_ZeroValueValid(t *testing.T) {
	assert.Empty(t, (&Config{}).Validate(), "an unset config relies on defaults")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port too high", func(c *Config) { c.Server.Port = 99999 }, "server.port"},
		{"bad log level", func(c *Config) { c.Server.LogLevel = "verbose" }, "server.log_level"},
		{"negative log size", func(c *Config) { c.Log.MaxSizeMB = -1 }, "log:"},
		{"unknown remote driver", func(c *Config) { c.Remote.Driver = "mysql" }, "remote.driver"},
		{"negative timeout", func(c *Config) { c.Remote.Timeout = -time.Second }, "remote.timeout"},
		{"negative attempts", func(c *Config) { c.Remote.ConnectAttempts = -1 }, "remote.connect_attempts"},
		{"negative delay", func(c *Config) { c.Remote.ConnectDelay = -time.Second }, "remote.connect_delay"},
		{"unknown mirror driver", func(c *Config) { c.Mirror.Driver = "redis" }, "mirror.driver"},
		{"file mirror without path", func(c *Config) { c.Mirror = MirrorConfig{Driver: "file"} }, "mirror.path"},
		{"negative concurrency", func(c *Config) { c.TMDB.Concurrency = -2 }, "tmdb.concurrency"},
		{"negative cache ttl", func(c *Config) { c.TMDB.CacheTTL = -time.Minute }, "tmdb.cache_ttl"},
		{"bad tmdb url", func(c *Config) { c.TMDB.BaseURL = "ftp://tmdb" }, "tmdb.base_url"},
		{"short jwt secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "auth.jwt_secret"},
		{"bad nats url", func(c *Config) { c.Notify.NATSURL = "localhost" }, "notify.nats_url"},
		{"negative retention", func(c *Config) { c.Events.Retention = -time.Hour }, "events.retention"},
		{"audit without sqlite", func(c *Config) { c.Events, c.Mirror = EventsConfig{Audit: true}, MirrorConfig{Driver: "memory"} }, "events.audit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			errs := cfg.Validate()
			assert.True(t, containsError(errs, tt.want), "expected %q error, got %v", tt.want, errs)
		})
	}
}

func TestValidate_MemoryMirrorNeedsNoPath(t *testing.T) {
	cfg := validConfig()
	cfg.Mirror = MirrorConfig{Driver: "memory"}
	assert.Empty(t, cfg.Validate())
}

func TestValidate_AuditWithSQLite(t *testing.T) {
	cfg := validConfig()
	cfg.Events.Audit = true
	assert.Empty(t, cfg.Validate())
}

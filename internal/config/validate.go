// internal/config/validate.go
package config

import (
	"fmt"
	"net/url"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validRemoteDrivers = map[string]bool{
	"postgres": true, "sqlite": true, "": true,
}

var validMirrorDrivers = map[string]bool{
	"sqlite": true, "file": true, "memory": true, "": true,
}

const minJWTSecret = 16

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port != 0 && (c.Server.Port < 1 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}

	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, "log: max_size_mb, max_backups and max_age_days must not be negative")
	}

	// Remote validation
	if !validRemoteDrivers[c.Remote.Driver] {
		errs = append(errs, fmt.Sprintf("remote.driver: must be one of postgres, sqlite; got %q", c.Remote.Driver))
	}
	if c.Remote.Timeout < 0 {
		errs = append(errs, "remote.timeout: must not be negative")
	}
	if c.Remote.ConnectAttempts < 0 {
		errs = append(errs, fmt.Sprintf("remote.connect_attempts: must not be negative, got %d", c.Remote.ConnectAttempts))
	}
	if c.Remote.ConnectDelay < 0 {
		errs = append(errs, "remote.connect_delay: must not be negative")
	}

	// Mirror validation
	if !validMirrorDrivers[c.Mirror.Driver] {
		errs = append(errs, fmt.Sprintf("mirror.driver: must be one of sqlite, file, memory; got %q", c.Mirror.Driver))
	}
	if (c.Mirror.Driver == "sqlite" || c.Mirror.Driver == "file") && c.Mirror.Path == "" {
		errs = append(errs, fmt.Sprintf("mirror.path: required for the %s driver", c.Mirror.Driver))
	}

	// TMDB validation
	if c.TMDB.Concurrency < 0 {
		errs = append(errs, fmt.Sprintf("tmdb.concurrency: must not be negative, got %d", c.TMDB.Concurrency))
	}
	if c.TMDB.CacheTTL < 0 {
		errs = append(errs, "tmdb.cache_ttl: must not be negative")
	}
	if c.TMDB.BaseURL != "" && !isHTTPURL(c.TMDB.BaseURL) {
		errs = append(errs, fmt.Sprintf("tmdb.base_url: must be an http(s) URL, got %q", c.TMDB.BaseURL))
	}

	// Auth validation
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < minJWTSecret {
		errs = append(errs, fmt.Sprintf("auth.jwt_secret: must be at least %d characters", minJWTSecret))
	}

	// Notify validation
	if c.Notify.NATSURL != "" {
		if u, err := url.Parse(c.Notify.NATSURL); err != nil || u.Scheme == "" {
			errs = append(errs, fmt.Sprintf("notify.nats_url: invalid URL %q", c.Notify.NATSURL))
		}
	}

	if c.Events.Retention < 0 {
		errs = append(errs, "events.retention: must not be negative")
	}

	// The audit log lives in the SQLite mirror database.
	if c.Events.Audit && c.Mirror.Driver != "sqlite" {
		errs = append(errs, "events.audit: requires mirror.driver = \"sqlite\"")
	}

	return errs
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

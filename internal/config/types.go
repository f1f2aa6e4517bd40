// Package config resolves the settings of a provisioning run.
//
// Settings come from, in increasing precedence: built-in defaults, an
// optional nirb.lua file in the package directory, NIRB_* environment
// variables, and command-line flags (applied by the caller). The Lua file
// runs in a sandboxed gopher-lua VM with a read-only platform table, so a
// pattern can depend on the host:
//
//	nirb = {
//	  url = platform.is_windows
//	    and "https://example.com/v{version}/{bin}-{triple}.exe"
//	    or  "https://example.com/v{version}/{bin}-{triple}",
//	  timeout = 120,
//	}
package config

import (
	"fmt"
	"time"
)

// FileName is the configuration file looked up in the package directory.
const FileName = "nirb.lua"

// Environment variables consulted by ApplyEnv.
const (
	EnvURLPattern = "NIRB_URL_PATTERN"
	EnvTriple     = "NIRB_TRIPLE"
)

// DefaultTimeout bounds each HTTP request when nothing else is configured.
const DefaultTimeout = 5 * time.Minute

// Config holds the settings of one provisioning run.
type Config struct {
	// URLPattern is the download URL with {bin}, {name}, {triple} and
	// {version} placeholders.
	URLPattern string
	// Triple overrides the detected target triple when set.
	Triple string
	// Timeout bounds each HTTP request.
	Timeout time.Duration
	// UserAgent is sent with HTTP requests; empty selects the fetcher default.
	UserAgent string
	// Jobs caps concurrent tasks; zero means no cap.
	Jobs int
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{Timeout: DefaultTimeout}
}

// Validate checks the settings that cannot be checked by type alone.
func (c *Config) Validate() error {
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative: %s", c.Timeout)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs cannot be negative: %d", c.Jobs)
	}
	return nil
}

// ApplyEnv overrides fields from NIRB_* variables. lookup is normally
// os.LookupEnv; empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvURLPattern); ok && v != "" {
		c.URLPattern = v
	}
	if v, ok := lookup(EnvTriple); ok && v != "" {
		c.Triple = v
	}
}

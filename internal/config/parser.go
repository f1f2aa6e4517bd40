package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/nirb/internal/platform"
)

// Lua schema field names and globals
const (
	luaGlobalNirb      = "nirb"
	luaFieldURL        = "url"
	luaFieldTriple     = "triple"
	luaFieldTimeout    = "timeout"
	luaFieldUserAgent  = "user_agent"
	luaFieldJobs       = "jobs"
	maxConfigFileBytes = 1 << 20

	// maxNumber keeps seconds convertible to time.Duration and jobs to int.
	maxNumber = float64(math.MaxInt64 / int64(time.Second))
)

// Parser represents a Lua config parser with platform detection.
type Parser struct {
	detector platform.Detector
	pkg      *packageInfo
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform table out.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// ParseString evaluates luaCode and layers the nirb table over the defaults.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if p.pkg != nil {
		injectPackageTable(L, p.pkg)
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseFile reads and evaluates the Lua file at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if info.Size() > maxConfigFileBytes {
		return nil, fmt.Errorf("read config: %s is larger than %d bytes", path, maxConfigFileBytes)
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := p.ParseString(ctx, string(code))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Load returns the settings for the package in dir. path names the config
// file; when empty, dir/nirb.lua is used if it exists and the defaults
// otherwise. An explicitly named file must exist. Environment overrides
// are applied last.
func (p *Parser) Load(ctx context.Context, dir, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, FileName)
	}

	cfg, err := p.ParseFile(ctx, path)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		cfg = Default()
	default:
		return nil, err
	}

	cfg.ApplyEnv(os.LookupEnv)
	return cfg, nil
}

// extractConfig reads the global nirb table. A script that never defines
// it yields the defaults.
func extractConfig(L *lua.LState) (*Config, error) {
	cfg := Default()

	global := L.GetGlobal(luaGlobalNirb)
	if global.Type() == lua.LTNil {
		return cfg, nil
	}
	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "invalid 'nirb' table",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	var err error
	if cfg.URLPattern, err = optionalString(table, luaFieldURL, cfg.URLPattern); err != nil {
		return nil, err
	}
	if cfg.Triple, err = optionalString(table, luaFieldTriple, cfg.Triple); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = optionalString(table, luaFieldUserAgent, cfg.UserAgent); err != nil {
		return nil, err
	}

	seconds, err := optionalNumber(table, luaFieldTimeout, cfg.Timeout.Seconds())
	if err != nil {
		return nil, err
	}
	cfg.Timeout = time.Duration(seconds * float64(time.Second))

	jobs, err := optionalNumber(table, luaFieldJobs, float64(cfg.Jobs))
	if err != nil {
		return nil, err
	}
	if jobs != math.Trunc(jobs) {
		return nil, fieldError(luaFieldJobs, "an integer", lua.LNumber(jobs))
	}
	cfg.Jobs = int(jobs)

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return cfg, nil
}

func optionalString(table *lua.LTable, field, fallback string) (string, error) {
	v := table.RawGetString(field)
	switch v.Type() {
	case lua.LTNil:
		return fallback, nil
	case lua.LTString:
		return v.String(), nil
	default:
		return "", fieldError(field, "a string", v)
	}
}

func optionalNumber(table *lua.LTable, field string, fallback float64) (float64, error) {
	v := table.RawGetString(field)
	switch v.Type() {
	case lua.LTNil:
		return fallback, nil
	case lua.LTNumber:
		n := float64(v.(lua.LNumber))
		if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) > maxNumber {
			return 0, fieldError(field, "a finite number of reasonable size", v)
		}
		return n, nil
	default:
		return 0, fieldError(field, "a number", v)
	}
}

func fieldError(field, want string, got lua.LValue) error {
	return &ParseError{
		Message: fmt.Sprintf("invalid 'nirb.%s'", field),
		Detail:  fmt.Sprintf("expected %s, got %s %s", want, got.Type(), got.String()),
	}
}

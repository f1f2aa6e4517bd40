package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZebulonRouseFrantzich/nirb/internal/platform"
)

type staticDetector struct {
	info *platform.Info
	err  error
}

func (d staticDetector) Detect(ctx context.Context) (*platform.Info, error) {
	return d.info, d.err
}

var linuxMusl = staticDetector{info: &platform.Info{
	OS: "linux", Arch: "amd64", ArchRaw: "amd64", Platform: "alpine", Family: platform.FamilyAlpine,
}}

func TestParser_ParseString(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		want    *Config
		wantErr string
	}{
		{
			name: "empty_script_gives_defaults",
			code: ``,
			want: &Config{Timeout: DefaultTimeout},
		},
		{
			name: "all_fields",
			code: `nirb = {
				url = "https://example.com/v{version}/{bin}-{triple}",
				triple = "aarch64-apple-darwin",
				timeout = 1.5,
				user_agent = "custom/1",
				jobs = 4,
			}`,
			want: &Config{
				URLPattern: "https://example.com/v{version}/{bin}-{triple}",
				Triple:     "aarch64-apple-darwin",
				Timeout:    1500 * time.Millisecond,
				UserAgent:  "custom/1",
				Jobs:       4,
			},
		},
		{
			name: "platform_conditional",
			code: `nirb = {
				url = platform.is_musl and "https://example.com/{bin}-static" or "https://example.com/{bin}",
				triple = platform.triple,
			}`,
			want: &Config{
				URLPattern: "https://example.com/{bin}-static",
				Triple:     "x86_64-unknown-linux-musl",
				Timeout:    DefaultTimeout,
			},
		},
		{
			name: "unknown_fields_ignored",
			code: `nirb = { url = "file:./x", colour = "blue" }`,
			want: &Config{URLPattern: "file:./x", Timeout: DefaultTimeout},
		},
		{
			name:    "nirb_not_a_table",
			code:    `nirb = "https://example.com"`,
			wantErr: "invalid 'nirb' table",
		},
		{
			name:    "url_wrong_type",
			code:    `nirb = { url = 42 }`,
			wantErr: "invalid 'nirb.url'",
		},
		{
			name:    "timeout_wrong_type",
			code:    `nirb = { timeout = "soon" }`,
			wantErr: "invalid 'nirb.timeout'",
		},
		{
			name:    "timeout_nan",
			code:    `nirb = { timeout = 0/0 }`,
			wantErr: "invalid 'nirb.timeout'",
		},
		{
			name:    "timeout_infinite",
			code:    `nirb = { timeout = 1/0 }`,
			wantErr: "invalid 'nirb.timeout'",
		},
		{
			name:    "timeout_overflow",
			code:    `nirb = { timeout = 1e300 }`,
			wantErr: "invalid 'nirb.timeout'",
		},
		{
			name:    "jobs_overflow",
			code:    `nirb = { jobs = -1e300 }`,
			wantErr: "invalid 'nirb.jobs'",
		},
		{
			name:    "jobs_fractional",
			code:    `nirb = { jobs = 1.5 }`,
			wantErr: "invalid 'nirb.jobs'",
		},
		{
			name:    "negative_timeout",
			code:    `nirb = { timeout = -1 }`,
			wantErr: "config validation failed",
		},
		{
			name:    "syntax_error",
			code:    `nirb = {`,
			wantErr: "Lua error",
		},
		{
			name:    "sandboxed_os",
			code:    `nirb = { url = os.getenv("HOME") }`,
			wantErr: "Lua error",
		},
		{
			name:    "platform_read_only",
			code:    `platform.triple = "x"`,
			wantErr: "read-only",
		},
	}

	parser := NewParser(linuxMusl)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.ParseString(context.Background(), tt.code)
			if tt.wantErr != "" {
				require.Error(t, err)
				var parseErr *ParseError
				assert.True(t, errors.As(err, &parseErr), "want ParseError, got %T", err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_NoDetector(t *testing.T) {
	_, err := NewParser(nil).ParseString(context.Background(), `x = platform.os`)
	require.Error(t, err)

	cfg, err := NewParser(nil).ParseString(context.Background(), `nirb = { url = "https://example.com/{bin}" }`)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/{bin}", cfg.URLPattern)
}

func TestParser_DetectorError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewParser(staticDetector{err: boom}).ParseString(context.Background(), ``)
	assert.ErrorIs(t, err, boom)
}

func TestParser_Load(t *testing.T) {
	t.Setenv(EnvURLPattern, "")
	t.Setenv(EnvTriple, "")
	parser := NewParser(linuxMusl)

	t.Run("missing_default_file", func(t *testing.T) {
		cfg, err := parser.Load(context.Background(), t.TempDir(), "")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("default_file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`nirb = { url = "file:../bins/{bin}", jobs = 2 }`), 0o644))

		cfg, err := parser.Load(context.Background(), dir, "")
		require.NoError(t, err)
		assert.Equal(t, "file:../bins/{bin}", cfg.URLPattern)
		assert.Equal(t, 2, cfg.Jobs)
	})

	t.Run("missing_explicit_file", func(t *testing.T) {
		_, err := parser.Load(context.Background(), t.TempDir(), filepath.Join(t.TempDir(), "other.lua"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("invalid_file_names_file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`nirb = { url = true }`), 0o644))

		_, err := parser.Load(context.Background(), dir, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), FileName)
	})

	t.Run("env_overrides_file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`nirb = { url = "https://a/{bin}", triple = "t1" }`), 0o644))
		t.Setenv(EnvURLPattern, "https://b/{bin}")
		t.Setenv(EnvTriple, "t2")

		cfg, err := parser.Load(context.Background(), dir, "")
		require.NoError(t, err)
		assert.Equal(t, "https://b/{bin}", cfg.URLPattern)
		assert.Equal(t, "t2", cfg.Triple)
	})
}

func TestConfig_ApplyEnv(t *testing.T) {
	env := map[string]string{EnvURLPattern: "https://x/{bin}", EnvTriple: ""}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := &Config{Triple: "kept"}
	cfg.ApplyEnv(lookup)
	assert.Equal(t, "https://x/{bin}", cfg.URLPattern)
	assert.Equal(t, "kept", cfg.Triple)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.Error(t, (&Config{Timeout: -time.Second}).Validate())
	assert.Error(t, (&Config{Jobs: -1}).Validate())
}

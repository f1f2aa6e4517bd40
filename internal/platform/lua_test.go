package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func evalLua(t *testing.T, L *lua.LState, code string) lua.LValue {
	t.Helper()
	require.NoError(t, L.DoString(code))
	got := L.Get(-1)
	L.Pop(1)
	return got
}

func TestInjectPlatformTable(t *testing.T) {
	tests := []struct {
		name string
		info *Info
		want map[string]lua.LValue
	}{
		{
			name: "linux_gnu",
			info: &Info{OS: "linux", Arch: "amd64", ArchRaw: "amd64", Platform: "ubuntu", Family: FamilyDebian, Version: "22.04"},
			want: map[string]lua.LValue{
				"return platform.os":             lua.LString("linux"),
				"return platform.arch":           lua.LString("amd64"),
				"return platform.triple":         lua.LString("x86_64-unknown-linux-gnu"),
				"return platform.is_linux":       lua.LTrue,
				"return platform.is_macos":       lua.LFalse,
				"return platform.is_amd64":       lua.LTrue,
				"return platform.is_musl":        lua.LFalse,
				"return platform.distro.id":      lua.LString("ubuntu"),
				"return platform.distro.family":  lua.LString("debian"),
				"return platform.distro.version": lua.LString("22.04"),
			},
		},
		{
			name: "linux_musl",
			info: &Info{OS: "linux", Arch: "arm64", ArchRaw: "arm64", Platform: "alpine", Family: FamilyAlpine, Version: "3.20"},
			want: map[string]lua.LValue{
				"return platform.triple":   lua.LString("aarch64-unknown-linux-musl"),
				"return platform.is_musl":  lua.LTrue,
				"return platform.is_arm64": lua.LTrue,
			},
		},
		{
			name: "macos",
			info: &Info{OS: "darwin", Arch: "arm64", ArchRaw: "arm64"},
			want: map[string]lua.LValue{
				"return platform.triple":   lua.LString("aarch64-apple-darwin"),
				"return platform.is_macos": lua.LTrue,
				"return platform.distro":   lua.LNil,
			},
		},
		{
			name: "unknown_os_has_nil_triple",
			info: &Info{OS: "plan9", Arch: "amd64", ArchRaw: "amd64"},
			want: map[string]lua.LValue{
				"return platform.triple":     lua.LNil,
				"return platform.is_windows": lua.LFalse,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := lua.NewState()
			defer L.Close()
			require.NoError(t, InjectPlatformTable(L, tt.info))

			for code, want := range tt.want {
				got := evalLua(t, L, code)
				assert.Equal(t, want.Type(), got.Type(), code)
				assert.Equal(t, want.String(), got.String(), code)
			}
		})
	}
}

func TestPlatformTable_When(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	require.NoError(t, InjectPlatformTable(L, &Info{OS: "linux", Arch: "amd64"}))

	assert.Equal(t, "yes", evalLua(t, L, `return platform.when(platform.is_linux, "yes")`).String())
	assert.Equal(t, lua.LNil, evalLua(t, L, `return platform.when(platform.is_windows, "yes")`))
}

func TestPlatformTable_ReadOnly(t *testing.T) {
	L := lua.NewState()
	defer L.Close()
	require.NoError(t, InjectPlatformTable(L, &Info{OS: "linux", Arch: "amd64"}))

	for _, code := range []string{
		`platform.os = "windows"`,
		`platform.triple = "x"`,
		`platform.new_field = true`,
		`setmetatable(platform, {})`,
	} {
		t.Run(code, func(t *testing.T) {
			assert.Error(t, L.DoString(code))
		})
	}

	assert.Equal(t, "linux", evalLua(t, L, `return platform.os`).String())
}

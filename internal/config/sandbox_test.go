package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSandboxLuaVM(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr string
	}{
		{name: "string_allowed", code: `x = string.format("%s-%s", "a", "b")`},
		{name: "table_allowed", code: `t = {1, 2}; table.insert(t, 3)`},
		{name: "math_allowed", code: `x = math.floor(1.5)`},
		{name: "os_blocked", code: `os.execute("ls")`, wantErr: "attempt to index"},
		{name: "io_blocked", code: `io.open("/etc/passwd")`, wantErr: "attempt to index"},
		{name: "debug_blocked", code: `debug.getinfo(1)`, wantErr: "attempt to index"},
		{name: "require_blocked", code: `require("socket")`, wantErr: "attempt to call"},
		{name: "dofile_blocked", code: `dofile("/tmp/evil.lua")`, wantErr: "attempt to call"},
		{name: "loadfile_blocked", code: `loadfile("/tmp/evil.lua")`, wantErr: "attempt to call"},
		{name: "load_blocked", code: `load("return 1")`, wantErr: "attempt to call"},
		{name: "loadstring_blocked", code: `loadstring("return 1")`, wantErr: "attempt to call"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

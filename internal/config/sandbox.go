package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips everything that could execute commands, touch the
// filesystem, or load further code. string, table and math stay available,
// as do the basic functions (type, tostring, pairs, ...).
func sandboxLuaVM(L *lua.LState) {
	for _, name := range []string{
		"os", "io", "debug",
		"require", "dofile", "loadfile", "load", "loadstring",
	} {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a new Lua VM with sandboxing applied.
// This is the primary way to create a Lua state for config parsing.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}

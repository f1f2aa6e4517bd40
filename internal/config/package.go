package config

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/nirb/internal/platform"
	"github.com/ZebulonRouseFrantzich/nirb/internal/version"
)

// luaGlobalPkg is the read-only table describing the package being installed.
const luaGlobalPkg = "pkg"

// packageInfo is what nirb.lua may know about the package.
type packageInfo struct {
	name    string
	version version.Version
}

// WithPackage returns a parser that exposes the package to nirb.lua as a
// read-only pkg table:
//
//	pkg.name, pkg.version           -- as declared in package.json
//	pkg.major, pkg.minor, pkg.patch -- numeric components
//	pkg.at_least("2.0.0")           -- version comparison
//
// This lets a config pick a different download host for older releases.
func (p *Parser) WithPackage(name string, v version.Version) *Parser {
	return &Parser{
		detector: p.detector,
		pkg:      &packageInfo{name: name, version: v},
	}
}

func injectPackageTable(L *lua.LState, info *packageInfo) {
	table := L.NewTable()
	L.SetField(table, "name", lua.LString(info.name))
	L.SetField(table, "version", lua.LString(info.version.String()))
	L.SetField(table, "major", lua.LNumber(info.version.Major()))
	L.SetField(table, "minor", lua.LNumber(info.version.Minor()))
	L.SetField(table, "patch", lua.LNumber(info.version.Patch()))

	L.SetField(table, "at_least", L.NewFunction(func(L *lua.LState) int {
		other, err := version.Parse(L.CheckString(1))
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		L.Push(lua.LBool(info.version.Compare(other) >= 0))
		return 1
	}))

	L.SetGlobal(luaGlobalPkg, platform.ReadOnly(L, luaGlobalPkg, table))
}

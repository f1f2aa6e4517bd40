package manifest

import (
	"path/filepath"
	"strings"
)

// nodeModules is the directory package managers install dependencies into.
const nodeModules = "node_modules"

// IsDevelopingLocally reports whether dir looks like a package being worked
// on directly rather than one installed as a dependency, i.e. its parent
// directory path does not end in node_modules.
//
// Scoped packages (node_modules/@scope/pkg) are reported as local. The
// heuristic is informational only.
func IsDevelopingLocally(dir string) bool {
	parent := filepath.Dir(filepath.Clean(dir))
	return !strings.HasSuffix(filepath.ToSlash(parent), nodeModules)
}

// Package testutil provides fixtures for testing nirb in isolation.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Package describes the package.json written by SetupPackage. Bin is either
// a string or a map[string]string.
type Package struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Bin     any    `json:"bin,omitempty"`
}

// SetupPackage creates an isolated package directory containing a
// package.json for pkg and returns its path. The directory is removed when
// the test ends.
//
// The environment is cleared of NIRB_* overrides so tests never pick up
// the developer's settings.
func SetupPackage(t *testing.T, pkg Package) string {
	t.Helper()

	t.Setenv("NIRB_URL_PATTERN", "")
	t.Setenv("NIRB_TRIPLE", "")

	dir := filepath.Join(t.TempDir(), pkg.Name)
	require.NoError(t, os.MkdirAll(dir, 0o750))

	data, err := json.MarshalIndent(pkg, "", "  ")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), data, 0o644))

	return dir
}

// WriteFiles writes each relative path to content under dir, creating
// parent directories as needed.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// ReadFile returns the contents of dir/rel, failing the test if it is missing.
func ReadFile(t *testing.T, dir, rel string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

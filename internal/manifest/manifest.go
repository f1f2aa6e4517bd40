// Package manifest reads the package description that declares which
// binaries a package ships and where each one must be written.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZebulonRouseFrantzich/nirb/internal/version"
)

// FileName is the manifest file looked up in a package directory.
const FileName = "package.json"

// Bin is the "bin" field of a package.json. It is either a single path, in
// which case the binary is named after the package, or a map of binary name
// to destination path.
type Bin struct {
	Single string
	Record map[string]string
}

// UnmarshalJSON accepts either a JSON string or a JSON object of strings.
func (b *Bin) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*b = Bin{Single: single}
		return nil
	}

	var record map[string]string
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("bin must be a string or an object of strings: %w", err)
	}
	*b = Bin{Record: record}
	return nil
}

// MarshalJSON writes the form the Bin was read from.
func (b Bin) MarshalJSON() ([]byte, error) {
	if b.Record != nil {
		return json.Marshal(b.Record)
	}
	return json.Marshal(b.Single)
}

// IsZero reports whether neither form is set.
func (b Bin) IsZero() bool {
	return b.Single == "" && len(b.Record) == 0
}

// PackageJSON is the subset of package.json fields needed to provision binaries.
type PackageJSON struct {
	Name    string          `json:"name"`
	Version version.Version `json:"version"`
	Bin     Bin             `json:"bin"`
}

// Entry is one declared binary and the path it must be written to.
type Entry struct {
	Bin         string
	Destination string
}

// Manifest is the read-only view of a package used during provisioning.
type Manifest struct {
	Name    string
	Version version.Version
	Bins    map[string]string
}

// Entries returns the declared binaries ordered by binary name. This order
// is the order tasks are submitted and failures are reported in.
func (m *Manifest) Entries() []Entry {
	names := make([]string, 0, len(m.Bins))
	for name := range m.Bins {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, Entry{Bin: name, Destination: m.Bins[name]})
	}
	return entries
}

// Bins flattens the bin field into a name to destination map.
func (p *PackageJSON) Bins() map[string]string {
	if p.Bin.Record != nil {
		bins := make(map[string]string, len(p.Bin.Record))
		for name, dest := range p.Bin.Record {
			bins[name] = dest
		}
		return bins
	}
	return map[string]string{p.Name: p.Bin.Single}
}

// Manifest validates p and converts it into a Manifest.
func (p *PackageJSON) Manifest() (*Manifest, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.New("name is required")
	}
	if p.Version.IsZero() {
		return nil, errors.New("version is required")
	}
	if p.Bin.IsZero() {
		return nil, errors.New("bin is required")
	}

	bins := p.Bins()
	for name, dest := range bins {
		if name == "" {
			return nil, errors.New("bin name cannot be empty")
		}
		if dest == "" {
			return nil, fmt.Errorf("bin %q has an empty destination", name)
		}
	}

	return &Manifest{
		Name:    p.Name,
		Version: p.Version,
		Bins:    bins,
	}, nil
}

// Parse decodes package.json contents.
func Parse(data []byte) (*Manifest, error) {
	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", FileName, err)
	}

	m, err := pkg.Manifest()
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return m, nil
}

// FromDir reads and parses the package.json in dir.
func FromDir(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data)
}

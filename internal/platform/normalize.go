package platform

import (
	"fmt"
	"strings"
)

// familyMap maps distribution names to their canonical family names.
// This is used to normalize variations of family strings from gopsutil.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil might return ubuntu as family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// tripleArch maps normalized GOARCH values to the architecture component
// of a target triple.
var tripleArch = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"386":     "i686",
	"arm":     "armv7",
	"riscv64": "riscv64gc",
	"ppc64le": "powerpc64le",
	"s390x":   "s390x",
}

// normalizeArch converts GOARCH values and their common aliases to GOARCH names.
func normalizeArch(arch string) (string, error) {
	switch arch {
	case "amd64", "x86_64":
		return "amd64", nil
	case "arm64", "aarch64":
		return "arm64", nil
	case "386", "i386", "i686":
		return "386", nil
	case "arm", "armv7":
		return "arm", nil
	case "riscv64", "ppc64le", "s390x":
		return arch, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", arch)
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
// Uses a package-level lookup table for explicit mapping.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}

	// Return "unknown" for unrecognized families
	return FamilyUnknown
}

// Triple renders arch-vendor-os[-env] for a GOOS, a normalized GOARCH and a
// Linux family. Windows uses the msvc environment; Linux uses musl on
// Alpine and gnu everywhere else.
func Triple(goos, goarch, family string) (string, error) {
	arch, ok := tripleArch[goarch]
	if !ok {
		return "", fmt.Errorf("no target triple for architecture %q", goarch)
	}

	switch goos {
	case "linux":
		env := "gnu"
		if family == FamilyAlpine {
			env = "musl"
		}
		if goarch == "arm" {
			env += "eabihf"
		}
		return arch + "-unknown-linux-" + env, nil
	case "darwin":
		return arch + "-apple-darwin", nil
	case "windows":
		return arch + "-pc-windows-msvc", nil
	case "freebsd":
		return arch + "-unknown-freebsd", nil
	default:
		return "", fmt.Errorf("no target triple for operating system %q", goos)
	}
}

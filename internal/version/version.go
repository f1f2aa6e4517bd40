// Package version holds the three-component package version used to build
// download URLs.
package version

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// components is the number of dot-separated fields a version must have.
const components = 3

// InvalidVersionError is returned when a string is not a MAJOR.MINOR.PATCH version.
type InvalidVersionError struct {
	Input  string
	Reason string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("invalid version %q: %s", e.Input, e.Reason)
}

// Version is an immutable MAJOR.MINOR.PATCH version. The zero value is not a
// valid version; use Parse.
type Version struct {
	raw    string
	semver *semver.Version
}

// Parse validates s and returns the Version it describes. Any three
// unsigned decimal components are accepted, leading zeros included, and s is
// kept verbatim. Pre-release and build metadata are rejected.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != components {
		return Version{}, &InvalidVersionError{
			Input:  s,
			Reason: fmt.Sprintf("expected %d dot-separated components, got %d", components, len(parts)),
		}
	}

	var nums [components]uint64
	for i, part := range parts {
		if part == "" {
			return Version{}, &InvalidVersionError{
				Input:  s,
				Reason: fmt.Sprintf("component %d is empty", i+1),
			}
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return Version{}, &InvalidVersionError{
				Input:  s,
				Reason: fmt.Sprintf("component %d (%q) is not numeric", i+1, part),
			}
		}
		nums[i] = n
	}

	// Leading zeros are kept in raw; the semver value only orders.
	sv := semver.New(nums[0], nums[1], nums[2], "", "")

	return Version{raw: s, semver: sv}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical version string, identical to the parsed input.
func (v Version) String() string {
	return v.raw
}

// IsZero reports whether v was never parsed.
func (v Version) IsZero() bool {
	return v.semver == nil
}

// Major returns the first component.
func (v Version) Major() uint64 {
	if v.semver == nil {
		return 0
	}
	return v.semver.Major()
}

// Minor returns the second component.
func (v Version) Minor() uint64 {
	if v.semver == nil {
		return 0
	}
	return v.semver.Minor()
}

// Patch returns the third component.
func (v Version) Patch() uint64 {
	if v.semver == nil {
		return 0
	}
	return v.semver.Patch()
}

// Compare returns -1, 0 or 1 depending on whether v is lower than, equal to,
// or greater than o.
func (v Version) Compare(o Version) int {
	switch {
	case v.semver == nil && o.semver == nil:
		return 0
	case v.semver == nil:
		return -1
	case o.semver == nil:
		return 1
	}
	return v.semver.Compare(o.semver)
}

// Equal reports whether both versions hold the same string.
func (v Version) Equal(o Version) bool {
	return v.raw == o.raw
}

// MarshalJSON encodes the version as a JSON string.
func (v Version) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// UnmarshalJSON decodes and validates a JSON string.
func (v *Version) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("version must be a string: %w", err)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

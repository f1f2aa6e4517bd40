package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect performs platform detection and returns platform information.
// It uses runtime.GOOS and runtime.GOARCH for OS and architecture,
// and gopsutil for Linux distribution details.
//
// On Linux, if gopsutil fails to detect the distribution, the distro
// fields stay empty and the triple falls back to the gnu environment.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	return detect(ctx, runtime.GOOS, runtime.GOARCH)
}

func detect(ctx context.Context, goos, goarch string) (*Info, error) {
	info := &Info{
		OS:      goos,
		ArchRaw: goarch,
	}

	arch, err := normalizeArch(goarch)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	info.Arch = arch

	if goos == "linux" {
		platform, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			// Check if context was cancelled - this is a hard failure
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
			return info, nil
		}

		platform = normalizePlatform(platform)
		family = mapFamily(family)
		// gopsutil reports Alpine with an empty family.
		if platform == FamilyAlpine {
			family = FamilyAlpine
		}

		if platform != "" {
			info.Platform = platform
			info.Family = family
			info.Version = normalizePlatform(version)
		}
	}

	return info, nil
}

// DetectTriple detects the host and renders its target triple.
func DetectTriple(ctx context.Context, detector Detector) (string, error) {
	info, err := detector.Detect(ctx)
	if err != nil {
		return "", err
	}
	triple, err := info.Triple()
	if err != nil {
		return "", fmt.Errorf("platform detection failed: %w", err)
	}
	return triple, nil
}

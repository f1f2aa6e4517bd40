package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/nirb/internal/binary"
	"github.com/ZebulonRouseFrantzich/nirb/internal/config"
	"github.com/ZebulonRouseFrantzich/nirb/internal/lock"
	"github.com/ZebulonRouseFrantzich/nirb/internal/manifest"
	"github.com/ZebulonRouseFrantzich/nirb/internal/platform"
)

// detector is swapped in tests.
var detector platform.Detector = platform.NewDetector()

// runInstall provisions every binary of the package in opts.dir.
func runInstall(ctx context.Context, cmd *cobra.Command, logger *logrus.Logger, opts *options, pattern string) error {
	dir, err := packageDir(opts.dir)
	if err != nil {
		return err
	}

	m, err := manifest.FromDir(dir)
	if err != nil {
		return fmt.Errorf("load manifest: %w", err)
	}

	l, err := lock.Acquire(ctx, dir)
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.WithError(err).Warn("Failed to release lock")
		}
	}()

	cfg, err := config.NewParser(detector).WithPackage(m.Name, m.Version).Load(ctx, dir, opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cmd, cfg, opts, pattern)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.URLPattern == "" {
		return errors.New("no URL pattern: pass one as an argument, set " + config.EnvURLPattern + ", or set nirb.url in " + config.FileName)
	}

	if cfg.Triple == "" {
		cfg.Triple, err = platform.DetectTriple(ctx, detector)
		if err != nil {
			return err
		}
	}

	log := logger.WithFields(logrus.Fields{"package": m.Name, "version": m.Version.String()})
	if manifest.IsDevelopingLocally(dir) {
		log.Info("Developing locally")
	}
	log.WithFields(logrus.Fields{"triple": cfg.Triple, "binaries": len(m.Bins)}).Debug("Starting provisioning")

	provisioner := binary.NewProvisioner(binary.Config{
		Fetcher: binary.NewDownloader(binary.DownloaderConfig{
			Timeout:   cfg.Timeout,
			UserAgent: cfg.UserAgent,
		}),
		Logger: logger,
		Jobs:   cfg.Jobs,
	})

	report := provisioner.Provision(ctx, binary.Request{
		Manifest: m,
		Pattern:  cfg.URLPattern,
		Triple:   cfg.Triple,
		Dir:      dir,
	})
	if err := report.Err(); err != nil {
		return err
	}

	log.WithField("binaries", report.Written()).Info("Binaries installed")
	return nil
}

// packageDir returns dir as an absolute path, defaulting to the working directory.
func packageDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve package directory: %w", err)
	}
	return abs, nil
}

// applyFlags layers explicitly set flags and the positional pattern over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options, pattern string) {
	if pattern != "" {
		cfg.URLPattern = pattern
	}

	flags := cmd.Flags()
	if flags.Changed("triple") {
		cfg.Triple = opts.triple
	}
	if flags.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
	if flags.Changed("jobs") {
		cfg.Jobs = opts.jobs
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = opts.userAgent
	}
}

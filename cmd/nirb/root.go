package main

import (
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// options are the command-line flags. Flags left unset fall back to the
// config file and environment.
type options struct {
	dir        string
	configPath string
	triple     string
	timeout    time.Duration
	jobs       int
	userAgent  string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "nirb [url-pattern]",
		Short: "Install the precompiled binaries a package declares",
		Long: `nirb reads package.json in the package directory and, for every entry of its
"bin" field, downloads the binary built for this platform and writes it to
the declared path. All binaries are fetched in parallel.

The URL pattern may use the placeholders {bin}, {name}, {triple} and
{version}. file: URLs starting with ./ or ../ are resolved against the
package directory. When no pattern is given on the command line it is taken
from NIRB_URL_PATTERN or the url field of nirb.lua.`,
		Example: `  nirb "https://github.com/owner/repo/releases/download/v{version}/{bin}-{triple}"
  nirb "file:../target/release/{bin}"`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel)
			if err != nil {
				return err
			}

			pattern := ""
			if len(args) == 1 {
				pattern = args[0]
			}

			return runInstall(cmd.Context(), cmd, logger, opts, pattern)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.dir, "dir", "C", "", "package directory (default: current directory)")
	flags.StringVar(&opts.configPath, "config", "", "Lua config file (default: <dir>/nirb.lua if present)")
	flags.StringVar(&opts.triple, "triple", "", "target triple to download for (default: detected)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "timeout for each HTTP request (default: 5m)")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "maximum binaries provisioned at once (default: no limit)")
	flags.StringVar(&opts.userAgent, "user-agent", "", "User-Agent header for HTTP requests")
	flags.StringVar(&opts.logLevel, "log-level", logrus.InfoLevel.String(), "log level (trace, debug, info, warn, error)")

	return cmd
}

func newLogger(out io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return logger, nil
}

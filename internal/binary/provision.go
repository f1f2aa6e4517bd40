package binary

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ZebulonRouseFrantzich/nirb/internal/manifest"
	"github.com/ZebulonRouseFrantzich/nirb/internal/urltemplate"
)

// Provisioner runs the fetch and write pipeline for every binary of a manifest.
type Provisioner struct {
	fetcher Fetcher
	writer  Writer
	logger  logrus.FieldLogger
	jobs    int
}

// Config holds configuration for the provisioner
type Config struct {
	// Fetcher retrieves bytes (default: a Downloader on the shared client)
	Fetcher Fetcher
	// Writer persists bytes (default: FileWriter)
	Writer Writer
	// Logger receives per-run and per-task entries (default: discarded)
	Logger logrus.FieldLogger
	// Jobs caps the number of tasks in flight; zero or less means no cap
	Jobs int
}

// Request is the input of one provisioning run. None of it is modified.
type Request struct {
	Manifest *manifest.Manifest
	Pattern  string
	Triple   string
	// Dir is the working directory relative file URLs and relative
	// destinations are resolved against.
	Dir string
}

// NewProvisioner creates a new provisioner
func NewProvisioner(config Config) *Provisioner {
	p := &Provisioner{
		fetcher: config.Fetcher,
		writer:  config.Writer,
		logger:  config.Logger,
		jobs:    config.Jobs,
	}

	if p.fetcher == nil {
		p.fetcher = NewDownloader(DownloaderConfig{})
	}
	if p.writer == nil {
		p.writer = NewFileWriter()
	}
	if p.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		p.logger = discard
	}

	return p
}

// Provision starts one task per declared binary, waits for all of them, and
// returns their outcomes in submission order. A failing task never stops
// its siblings; inspect Report.Err for the aggregate result.
func (p *Provisioner) Provision(ctx context.Context, req Request) *Report {
	entries := req.Manifest.Entries()
	report := &Report{
		RunID:    uuid.NewString(),
		Outcomes: make([]Outcome, len(entries)),
	}

	log := p.logger.WithFields(logrus.Fields{
		"run":     report.RunID,
		"package": req.Manifest.Name,
		"version": req.Manifest.Version.String(),
		"triple":  req.Triple,
	})
	log.WithField("binaries", len(entries)).Debug("Provisioning binaries")

	var g errgroup.Group
	if p.jobs > 0 {
		g.SetLimit(p.jobs)
	}

	for i, entry := range entries {
		task := &Task{
			Bin:         entry.Bin,
			Destination: entry.Destination,
			Path:        resolveDestination(entry.Destination, req.Dir),
		}
		g.Go(func() error {
			// Each goroutine owns exactly one slot.
			report.Outcomes[i] = p.run(ctx, log.WithField("bin", task.Bin), req, task)
			return nil
		})
	}

	// Tasks report through their outcome, never through the group.
	_ = g.Wait()

	if failed := len(report.Outcomes) - len(report.Written()); failed > 0 {
		log.WithField("failed", failed).Warn("Provisioning finished with failures")
	} else {
		log.Debug("Provisioning complete")
	}

	return report
}

// run drives one task through its states until it reaches a terminal one.
func (p *Provisioner) run(ctx context.Context, log logrus.FieldLogger, req Request, task *Task) Outcome {
	outcome := Outcome{
		Bin:         task.Bin,
		Destination: task.Destination,
		Path:        task.Path,
		State:       StatePending,
	}

	fail := func(state TaskState, err error) Outcome {
		outcome.State = state
		outcome.Err = err
		log.WithFields(logrus.Fields{"state": state, "error": err}).Debug("Task failed")
		return outcome
	}
	enter := func(state TaskState) {
		outcome.State = state
		log.WithField("state", state).Debug("Task state changed")
	}

	enter(StateBuildingURL)
	u, err := urltemplate.Render(req.Pattern, urltemplate.Context{
		Bin:     task.Bin,
		Name:    req.Manifest.Name,
		Triple:  req.Triple,
		Version: req.Manifest.Version,
	}, req.Dir)
	if err != nil {
		return fail(StateBuildFailed, err)
	}
	task.URL = u
	outcome.URL = u.String()
	log = log.WithField("url", outcome.URL)
	enter(StateResolved)

	enter(StateFetching)
	data, err := p.fetcher.Fetch(ctx, u)
	if err != nil {
		return fail(StateFetchFailed, err)
	}
	enter(StateFetched)

	enter(StateWriting)
	if err := p.writer.Write(data, task.Path); err != nil {
		return fail(StateWriteFailed, err)
	}
	enter(StateWritten)

	log.WithFields(logrus.Fields{"destination": task.Path, "bytes": len(data)}).Info("Binary written")
	return outcome
}

// resolveDestination anchors a relative destination at dir.
func resolveDestination(dest, dir string) string {
	if filepath.IsAbs(dest) || dir == "" {
		return dest
	}
	return filepath.Join(dir, dest)
}

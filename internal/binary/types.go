package binary

import (
	"fmt"
	"net/url"
)

// TaskState is the position of a task in its pipeline.
type TaskState int

const (
	// StatePending is a task that has not started
	StatePending TaskState = iota
	// StateBuildingURL is a task rendering its download URL
	StateBuildingURL
	// StateBuildFailed is terminal: the URL could not be built or parsed
	StateBuildFailed
	// StateResolved is a task holding a parsed URL
	StateResolved
	// StateFetching is a task retrieving bytes
	StateFetching
	// StateFetchFailed is terminal: the bytes could not be retrieved
	StateFetchFailed
	// StateFetched is a task holding the bytes in memory
	StateFetched
	// StateWriting is a task writing to its destination
	StateWriting
	// StateWriteFailed is terminal: the destination could not be written
	StateWriteFailed
	// StateWritten is terminal: the binary is on disk
	StateWritten
)

// String returns the string representation of the state
func (s TaskState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateBuildingURL:
		return "building-url"
	case StateBuildFailed:
		return "build-failed"
	case StateResolved:
		return "resolved"
	case StateFetching:
		return "fetching"
	case StateFetchFailed:
		return "fetch-failed"
	case StateFetched:
		return "fetched"
	case StateWriting:
		return "writing"
	case StateWriteFailed:
		return "write-failed"
	case StateWritten:
		return "written"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s TaskState) Terminal() bool {
	switch s {
	case StateBuildFailed, StateFetchFailed, StateWriteFailed, StateWritten:
		return true
	default:
		return false
	}
}

// Task is the unit of work for one declared binary.
type Task struct {
	Bin         string
	Destination string   // as declared in the manifest
	Path        string   // Destination resolved against the package directory
	URL         *url.URL // nil until resolved
}

// Outcome is the terminal result of one task.
type Outcome struct {
	Bin         string
	Destination string
	Path        string
	URL         string // empty when the URL could not be built
	State       TaskState
	Err         error
}

// OK reports whether the binary was written.
func (o Outcome) OK() bool {
	return o.State == StateWritten && o.Err == nil
}

// Report summarises one provisioning run.
type Report struct {
	RunID    string
	Outcomes []Outcome // in submission order
}

// Err returns nil when every binary was written and a *ProvisionError
// listing each failure otherwise.
func (r *Report) Err() error {
	var failures []Failure
	for _, o := range r.Outcomes {
		if o.OK() {
			continue
		}
		err := o.Err
		if err == nil {
			err = fmt.Errorf("ended in state %s", o.State)
		}
		failures = append(failures, Failure{Bin: o.Bin, Err: err})
	}
	if len(failures) == 0 {
		return nil
	}
	return &ProvisionError{Failures: failures}
}

// Written returns the names of the binaries that were written.
func (r *Report) Written() []string {
	var bins []string
	for _, o := range r.Outcomes {
		if o.OK() {
			bins = append(bins, o.Bin)
		}
	}
	return bins
}

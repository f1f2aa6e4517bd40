package binary

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// NetworkError reports a failed remote fetch: either the request did not
// complete or the server answered with a non-2xx status.
type NetworkError struct {
	URL        string
	StatusCode int    // zero when the request never got a response
	Status     string // e.g. "404 Not Found"
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: unexpected status %s", e.URL, e.Status)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IOError reports a failed local read or write.
type IOError struct {
	Op   string // "read", "create directory", "write", "chmod"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, underlying(e.Err))
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// underlying drops the op and path an *fs.PathError repeats from IOError.
func underlying(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}

// Failure is one binary that could not be provisioned.
type Failure struct {
	Bin string
	Err error
}

// FailureSeparator joins the per-binary lines of a ProvisionError.
const FailureSeparator = "\n"

// ProvisionError aggregates every failed binary of a run, in submission order.
type ProvisionError struct {
	Failures []Failure
}

func (e *ProvisionError) Error() string {
	lines := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		lines = append(lines, f.Bin+": "+f.Err.Error())
	}
	return strings.Join(lines, FailureSeparator)
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *ProvisionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

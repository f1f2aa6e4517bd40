// Package lock serialises nirb runs that target the same package directory.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	// FileName is the lock file created in the package directory.
	FileName = ".nirb.lock"

	// StaleThreshold is the age after which a lock is assumed abandoned.
	StaleThreshold = 10 * time.Minute
)

// ErrLocked is returned when another live run holds the lock.
var ErrLocked = errors.New("package is locked: another nirb run may be in progress")

// Lock is an acquired install lock.
type Lock struct {
	path string
	file *os.File
}

// Acquire takes the install lock for dir. A lock older than StaleThreshold
// is removed and acquisition retried once.
func Acquire(ctx context.Context, dir string) (*Lock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, FileName)

	file, err := create(path)
	if errors.Is(err, os.ErrExist) {
		if !isStale(path) {
			return nil, ErrLocked
		}
		_ = os.Remove(path)
		file, err = create(path)
		if errors.Is(err, os.ErrExist) {
			return nil, ErrLocked
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create lock file: %w", err)
	}

	data := fmt.Sprintf("pid=%d\ntimestamp=%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := file.WriteString(data); err != nil {
		file.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write lock file: %w", err)
	}

	return &Lock{path: path, file: file}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string {
	return l.path
}

// Release drops the lock. Releasing twice is a no-op.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if l.path == "" {
		return nil
	}

	err := os.Remove(l.path)
	l.path = ""
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove lock file: %w", err)
	}
	return nil
}

func create(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
}

func isStale(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) > StaleThreshold
}

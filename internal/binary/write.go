package binary

import (
	"os"
	"path/filepath"
)

// Writer persists fetched bytes at a destination path.
type Writer interface {
	Write(data []byte, dest string) error
}

// FileWriter writes binaries straight to their destination. A crash during
// the write can leave a truncated file behind.
type FileWriter struct{}

// NewFileWriter creates a new file writer
func NewFileWriter() *FileWriter {
	return &FileWriter{}
}

// Write creates or truncates dest, writes data, and marks it executable.
// Missing parent directories are created.
func (w *FileWriter) Write(data []byte, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return &IOError{Op: "create directory", Path: filepath.Dir(dest), Err: err}
	}

	if err := os.WriteFile(dest, data, 0755); err != nil {
		return &IOError{Op: "write", Path: dest, Err: err}
	}

	// WriteFile only applies the mode to new files.
	return setExecutable(dest)
}

// setExecutable marks path 0755.
func setExecutable(path string) error {
	if err := os.Chmod(path, 0755); err != nil {
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	return nil
}

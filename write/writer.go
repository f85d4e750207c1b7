// Package write persists rendered documents.
package write

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type Writer interface {
	Write(path string, content []byte, options Options) error
}

type Options struct {
	CreateDirs bool
	Overwrite  bool
	Atomic     bool
	// SkipUnchanged leaves files whose current content is identical alone.
	SkipUnchanged bool
}

// DefaultOptions creates directories, overwrites, writes atomically and
// skips unchanged files.
func DefaultOptions() Options {
	return Options{
		CreateDirs:    true,
		Overwrite:     true,
		Atomic:        true,
		SkipUnchanged: true,
	}
}

// FileWriter writes to the local filesystem.
type FileWriter struct{}

func NewFileWriter() *FileWriter {
	return &FileWriter{}
}

func (fw *FileWriter) Write(path string, content []byte, options Options) error {
	if options.CreateDirs {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}
	}

	if options.SkipUnchanged {
		needed, err := fw.NeedsWrite(path, content)
		if err != nil {
			return err
		}
		if !needed {
			return nil
		}
	}

	if !options.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists and overwrite is false: %s", path)
		}
	}

	if options.Atomic {
		return fw.atomicWrite(path, content)
	}
	return os.WriteFile(path, content, 0o644)
}

// NeedsWrite reports whether path is missing or differs from content.
func (fw *FileWriter) NeedsWrite(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, err
	}
	return !bytes.Equal(existing, content), nil
}

func (fw *FileWriter) atomicWrite(path string, content []byte) error {
	file, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tempPath := file.Name()

	if _, err := file.Write(content); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}
	if err := os.Chmod(tempPath, 0o644); err != nil {
		os.Remove(tempPath)
		return err
	}
	return os.Rename(tempPath, path)
}

// Change is one write captured by a DryRunWriter.
type Change struct {
	Path    string
	Content []byte
}

// DryRunWriter records writes instead of performing them.
type DryRunWriter struct {
	mu      sync.Mutex
	changes []Change
}

func NewDryRunWriter() *DryRunWriter {
	return &DryRunWriter{}
}

func (d *DryRunWriter) Write(path string, content []byte, _ Options) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.changes = append(d.changes, Change{Path: path, Content: append([]byte(nil), content...)})
	return nil
}

func (d *DryRunWriter) Changes() []Change {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Change(nil), d.changes...)
}

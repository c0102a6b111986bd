// Package output provides the destinations generated files are written to.
package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Sink receives generated files. Paths are slash separated and relative to
// the sink's root. Implementations must be safe for concurrent use.
type Sink interface {
	WriteFile(ctx context.Context, name string, content []byte) error
}

// Filesystem writes files below Root. Every write goes to a temp file in the
// target directory first and is renamed into place, so readers never observe
// a partially written file.
type Filesystem struct {
	Root string
	Mode os.FileMode
}

// NewFilesystem returns a sink rooted at dir
func NewFilesystem(dir string) *Filesystem {
	return &Filesystem{Root: dir, Mode: 0o644}
}

// WriteFile implements Sink
func (s *Filesystem) WriteFile(ctx context.Context, name string, content []byte) error {
	if err := CheckPath(name); err != nil {
		return fmt.Errorf("invalid path %q: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	full := filepath.Join(s.Root, filepath.FromSlash(name))
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(dir, ".salad-gen-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	_, werr := tmp.Write(content)
	cerr := tmp.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	mode := s.Mode
	if mode == 0 {
		mode = 0o644
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to set mode of %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// Memory keeps generated files in memory
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemory returns an empty in-memory sink
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// WriteFile implements Sink
func (m *Memory) WriteFile(ctx context.Context, name string, content []byte) error {
	if err := CheckPath(name); err != nil {
		return fmt.Errorf("invalid path %q: %w", name, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), content...)
	return nil
}

// Get returns the content written to name, or nil.
func (m *Memory) Get(name string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content, ok := m.files[name]
	if !ok {
		return nil
	}
	return append([]byte(nil), content...)
}

// Names returns the written paths in sorted order.
func (m *Memory) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckPath rejects absolute, unclean and escaping paths.
func CheckPath(name string) error {
	switch {
	case name == "":
		return errors.New("path is empty")
	case strings.HasPrefix(name, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "":
		return errors.New("absolute paths not allowed")
	case path.Clean(name) != name:
		return fmt.Errorf("path is not clean (expected %q)", path.Clean(name))
	case name == ".." || strings.HasPrefix(name, "../"):
		return errors.New("path escapes the output root")
	}
	return nil
}

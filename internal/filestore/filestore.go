package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

var (
	ErrNotExist  = fs.ErrNotExist
	ErrEmptyName = errors.New("empty file name")

	// ErrIO marks a failed store operation surfaced to a caller.
	ErrIO = errors.New("file store failure")
)

// Store is the byte store behind /files/. Names are relative to the
// store's root.
type Store interface {
	Exists(name string) bool
	Read(name string) ([]byte, error)
	Write(name string, data []byte) error
}

// Dir stores files under a base directory on disk. An empty base resolves
// names against the working directory.
//
// Names are joined to the base without checking for ".." segments, so a
// request can reach outside the base directory.
type Dir struct {
	base string
	perm os.FileMode
}

func NewDir(base string) *Dir {
	return &Dir{base: base, perm: 0o644}
}

func (d *Dir) Base() string {
	return d.base
}

func (d *Dir) path(name string) string {
	return filepath.Join(d.base, filepath.FromSlash(name))
}

func (d *Dir) Exists(name string) bool {
	info, err := os.Stat(d.path(name))
	return err == nil && !info.IsDir()
}

func (d *Dir) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(d.path(name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Write replaces the file's contents. Concurrent writes to one name race;
// the last one wins.
func (d *Dir) Write(name string, data []byte) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := os.WriteFile(d.path(name), data, d.perm); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Memory is an in-process Store.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[name]
	return ok
}

func (m *Memory) Read(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", name, ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Write(name string, data []byte) error {
	if name == "" {
		return ErrEmptyName
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	return nil
}

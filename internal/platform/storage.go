package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
)

var ErrAssetNotFound = errors.New("asset not found")

// Storage is the file area an adapter reads assets from and writes
// prefetched assets to. Names use forward slashes.
type Storage interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte) error
}

// DirStorage keeps files under a directory on disk.
type DirStorage struct {
	Root string
}

func NewDirStorage(root string) *DirStorage {
	return &DirStorage{Root: root}
}

func (s *DirStorage) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.Root, filepath.FromSlash(name))
}

func (s *DirStorage) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrAssetNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// WriteFile replaces name atomically: data goes to a temporary file in the
// same directory which is then renamed over name, so concurrent readers see
// either the old or the new content.
func (s *DirStorage) WriteFile(name string, data []byte) (err error) {
	p := s.path(name)
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(p)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", name, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set mode of %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

// MemStorage is an in-memory file area, the virtual filesystem of the
// browser adapter. It is safe for concurrent use.
type MemStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemStorage() *MemStorage {
	return &MemStorage{files: make(map[string][]byte)}
}

func (s *MemStorage) ReadFile(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[path.Clean(name)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrAssetNotFound)
	}
	return data, nil
}

func (s *MemStorage) WriteFile(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path.Clean(name)] = append([]byte(nil), data...)
	return nil
}

// Names lists the stored files, sorted.
func (s *MemStorage) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

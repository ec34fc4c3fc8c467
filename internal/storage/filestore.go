package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps full-resolution clipboard images on disk, one file per
// item id. The stored path is what ClipboardItem.ImagePath denotes.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the content-addressed path for an item id.
func (s *FileStore) Path(id string) string {
	return filepath.Join(s.dir, id+".png")
}

// Write persists data at the id's path and returns that path.
func (s *FileStore) Write(id string, data []byte) (string, error) {
	path := s.Path(id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return path, nil
}

func (s *FileStore) Read(id string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return data, nil
}

func (s *FileStore) Exists(id string) bool {
	_, err := os.Stat(s.Path(id))
	return err == nil
}

// Remove deletes the image file for an id; reports whether one existed.
func (s *FileStore) Remove(id string) (bool, error) {
	err := os.Remove(s.Path(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete image file: %w", err)
	}
	return true, nil
}

// TotalSize sums the size of all stored image files.
func (s *FileStore) TotalSize() (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read images directory: %w", err)
	}

	var total int64
	for _, entry := range entries {
		if info, err := entry.Info(); err == nil {
			total += info.Size()
		}
	}
	return total, nil
}

// CleanupOrphans deletes image files whose id has no item row.
func (s *FileStore) CleanupOrphans(validIDs []string) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read images directory: %w", err)
	}

	valid := make(map[string]struct{}, len(validIDs))
	for _, id := range validIDs {
		valid[id] = struct{}{}
	}

	deleted := 0
	for _, entry := range entries {
		name := entry.Name()
		id := name[:len(name)-len(filepath.Ext(name))]
		if _, ok := valid[id]; ok {
			continue
		}
		if os.Remove(filepath.Join(s.dir, name)) == nil {
			deleted++
		}
	}
	return deleted, nil
}

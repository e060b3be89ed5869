package invoice

import (
	"fmt"
	"os"
	"path/filepath"
)

// Storage stores the original invoice documents
type Storage interface {
	// Save stores data under name and returns the key to retrieve it with
	Save(name string, data []byte) (string, error)
	Get(key string) ([]byte, error)
	Delete(key string) error
}

// LocalStorage implements Storage on a directory
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates basePath if needed
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// path confines key to the base directory
func (l *LocalStorage) path(key string) string {
	return filepath.Join(l.basePath, filepath.Base(key))
}

// Save writes a file
func (l *LocalStorage) Save(name string, data []byte) (string, error) {
	if err := os.WriteFile(l.path(name), data, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}
	return filepath.Base(name), nil
}

// Get reads a file
func (l *LocalStorage) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(l.path(key))
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return data, nil
}

// Delete removes a file
func (l *LocalStorage) Delete(key string) error {
	if err := os.Remove(l.path(key)); err != nil {
		return fmt.Errorf("deleting file: %w", err)
	}
	return nil
}

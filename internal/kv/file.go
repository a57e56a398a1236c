package kv

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps one <key>.json file per key inside a directory.
// Writes go to a temp file first and are renamed into place, so a crash
// mid-write leaves the previous value intact.
type FileStore struct {
	dir    string
	closed bool
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory holding the value files.
func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) Get(key string) (string, bool, error) {
	if f.closed {
		return "", false, ErrClosed
	}
	path, err := f.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

func (f *FileStore) Set(key, value string) error {
	if f.closed {
		return ErrClosed
	}
	path, err := f.path(key)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	return nil
}

func (f *FileStore) Close() error {
	f.closed = true
	return nil
}

func (f *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

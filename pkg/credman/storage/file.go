package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

const (
	fileExt     = ".json"
	fileMode    = 0600
	fileDirMode = 0755
)

// FileStorage stores each key as its own file inside a directory. Files are
// written with 0600 permissions.
type FileStorage struct {
	fs  afero.Fs
	dir string
}

// NewFileStorage creates a FileStorage rooted at dir on the given
// filesystem. The directory is created on first write.
func NewFileStorage(fsys afero.Fs, dir string) *FileStorage {
	return &FileStorage{
		fs:  fsys,
		dir: dir,
	}
}

func (f *FileStorage) path(key string) string {
	return filepath.Join(f.dir, key+fileExt)
}

// Get returns the file contents for key, or ErrNotFound if the file does
// not exist.
func (f *FileStorage) Get(key string) ([]byte, error) {
	data, err := afero.ReadFile(f.fs, f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Put replaces the value for key. The file is written atomically using a
// temporary file and rename so an interrupted write never leaves a
// truncated record behind.
func (f *FileStorage) Put(key string, value []byte) error {
	if err := f.fs.MkdirAll(f.dir, fileDirMode); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmpFile, err := afero.TempFile(f.fs, f.dir, "."+key+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(value); err != nil {
		tmpFile.Close()
		f.fs.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmpFile.Close(); err != nil {
		f.fs.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := f.fs.Chmod(tmpPath, fileMode); err != nil {
		f.fs.Remove(tmpPath)
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := f.fs.Rename(tmpPath, f.path(key)); err != nil {
		f.fs.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key.
func (f *FileStorage) Delete(key string) error {
	err := f.fs.Remove(f.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

var _ Storage = (*FileStorage)(nil)

package storage

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// FileStorage is the contract the directories depend on: put a file under a
// directory and get back the relative path that is persisted on the row.
type FileStorage interface {
	Put(dir, originalName string, content io.Reader) (string, error)
	Delete(relativePath string) error
	Exists(relativePath string) (bool, error)
}

// Storage stores files on an afero filesystem rooted at a base directory.
// Production uses the OS filesystem; tests swap in a MemMapFs.
type Storage struct {
	fs   afero.Fs
	root string
}

func New(fs afero.Fs, root string) *Storage {
	return &Storage{fs: fs, root: root}
}

// NewLocal returns storage backed by the OS filesystem under root.
func NewLocal(root string) *Storage {
	return New(afero.NewOsFs(), root)
}

// Put writes the content under dir with a generated name that keeps the
// original extension, and returns the relative path ("users/<uuid>.png").
func (s *Storage) Put(dir, originalName string, content io.Reader) (string, error) {
	ext := filepath.Ext(originalName)
	relative := path.Join(dir, uuid.NewString()+ext)
	full := filepath.Join(s.root, filepath.FromSlash(relative))

	if err := s.fs.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	file, err := s.fs.Create(full)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return relative, nil
}

// Delete removes a previously stored file. Deleting a missing file is not an
// error; the row reference may outlive the file after a crash.
func (s *Storage) Delete(relativePath string) error {
	if relativePath == "" {
		return nil
	}
	full := filepath.Join(s.root, filepath.FromSlash(relativePath))
	if err := s.fs.Remove(full); err != nil {
		if exists, _ := afero.Exists(s.fs, full); !exists {
			return nil
		}
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *Storage) Exists(relativePath string) (bool, error) {
	full := filepath.Join(s.root, filepath.FromSlash(relativePath))
	return afero.Exists(s.fs, full)
}

// HTTPFileSystem exposes the storage root for the public /storage file
// server.
func (s *Storage) HTTPFileSystem() http.FileSystem {
	return afero.NewHttpFs(afero.NewBasePathFs(s.fs, s.root))
}

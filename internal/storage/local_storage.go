package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"rental-backoffice/internal/logger"
)

const tempPrefix = ".tmp-"

// LocalStorage implements ContractStore and PhotoResolver on an afero filesystem
type LocalStorage struct {
	fs           afero.Fs
	uploadDir    string
	contractsDir string
}

// NewLocalStorage creates a storage rooted at the configured directories
func NewLocalStorage(fsys afero.Fs, cfg Config) *LocalStorage {
	return &LocalStorage{
		fs:           fsys,
		uploadDir:    cfg.UploadDir,
		contractsDir: cfg.ContractsDir,
	}
}

func (s *LocalStorage) EnsureDir() error {
	if err := s.fs.MkdirAll(s.contractsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create contracts directory: %w", err)
	}
	return nil
}

func (s *LocalStorage) Path(name string) string {
	return filepath.Join(s.contractsDir, filepath.Base(name))
}

func (s *LocalStorage) TempPath() string {
	return filepath.Join(s.contractsDir, tempPrefix+uuid.NewString()+".pdf")
}

func (s *LocalStorage) Commit(tempPath, name string) error {
	if !strings.HasPrefix(filepath.Base(tempPath), tempPrefix) {
		return fmt.Errorf("not a temp file: %s", tempPath)
	}
	if err := s.fs.Rename(tempPath, s.Path(name)); err != nil {
		return fmt.Errorf("failed to store contract: %w", err)
	}
	return nil
}

func (s *LocalStorage) Exists(name string) (bool, int64, error) {
	info, err := s.fs.Stat(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (s *LocalStorage) Open(name string) (io.ReadCloser, error) {
	f, err := s.fs.Open(s.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return f, nil
}

func (s *LocalStorage) Discard(tempPath string) {
	if err := s.fs.Remove(tempPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("Failed to remove temp contract", "path", tempPath, "error", err)
	}
}

// PhotoPath joins a stored photo path onto the upload directory. Absolute paths are kept.
func (s *LocalStorage) PhotoPath(relative string) string {
	if relative == "" || filepath.IsAbs(relative) {
		return relative
	}
	return filepath.Join(s.uploadDir, strings.TrimPrefix(filepath.Clean("/"+relative), "/"))
}

func (s *LocalStorage) RemovePhoto(relative string) error {
	path := s.PhotoPath(relative)
	if path == "" {
		return ErrFileNotFound
	}
	if err := s.fs.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrFileNotFound
		}
		return fmt.Errorf("failed to remove photo: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps files under a directory on the local disk
type LocalStore struct {
	baseDir string
}

// NewLocalStore creates the base directory if needed
func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", baseDir, err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

// Save implements FileStore. The returned location is the slash-separated
// path relative to the working directory.
func (s *LocalStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, error) {
	filePath, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file on server: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return filepath.ToSlash(filePath), nil
}

// Delete implements FileStore
func (s *LocalStore) Delete(_ context.Context, location string) error {
	filePath := filepath.FromSlash(location)
	if !s.contains(filePath) {
		return fmt.Errorf("refusing to delete %s outside %s", location, s.baseDir)
	}
	if err := os.Remove(filePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStore) resolve(key string) (string, error) {
	filePath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if !s.contains(filePath) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filePath, nil
}

func (s *LocalStore) contains(filePath string) bool {
	rel, err := filepath.Rel(s.baseDir, filepath.Clean(filePath))
	return err == nil && rel != "." && !strings.HasPrefix(rel, "..")
}

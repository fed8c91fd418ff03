// Package storage persists answer attachments outside the database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("stored file not found")

// FileStore saves and removes uploaded files addressed by key
type FileStore interface {
	// Save writes the content under key and returns the location to record
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete removes the file previously returned by Save
	Delete(ctx context.Context, location string) error
}

// NewKey builds a unique object key for an upload, keeping the original extension
func NewKey(prefix, filename string) string {
	d := time.Now().UTC()
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	return path.Join(prefix, fmt.Sprintf("%d/%02d/%02d", d.Year(), d.Month(), d.Day()), uuid.NewString()+ext)
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"forum_api/internal/storage"
)

var (
	ErrInvalidFileFormat = errors.New("invalid file format")
	ErrFileSizeExceeded  = errors.New("file size exceeds limit")
)

const MaxFileSize = 5 * 1024 * 1024 // 5MB

var (
	attachmentExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".pdf": true}
	pictureExts    = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
)

// validateUpload checks the size and extension of an uploaded file
func validateUpload(fh *multipart.FileHeader, allowedExts map[string]bool) error {
	if fh.Size > MaxFileSize {
		return ErrFileSizeExceeded
	}
	if !allowedExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return ErrInvalidFileFormat
	}
	return nil
}

// removeStoredFile deletes an uploaded file, logging failures instead of returning them
func removeStoredFile(ctx context.Context, files storage.FileStore, logger *slog.Logger, location string) {
	if err := files.Delete(ctx, location); err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Warn("failed to remove attachment", "location", location, "error", err)
	}
}

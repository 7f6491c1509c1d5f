package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sjperalta/sitetrack-api/pkg/logger"
)

// ErrInvalidReceipt is returned for receipts with a name or type we do not keep
var ErrInvalidReceipt = errors.New("invalid receipt file")

// LocalStorage keeps receipt blobs on the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	// Ensure the base directory exists
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// SaveReceipt stores a receipt as "<expenseID>_<original name>" and returns the
// path recorded in the expense row.
func (s *LocalStorage) SaveReceipt(expenseID, filename string, r io.Reader) (string, error) {
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || !IsValidExtension(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidReceipt, filename)
	}

	filePath := filepath.Join(s.basePath, fmt.Sprintf("%s_%s", expenseID, name))

	// Create destination file
	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	// Copy content, bounded by the max receipt size
	n, err := io.Copy(dst, io.LimitReader(r, MaxFileSize()+1))
	if err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	if n > MaxFileSize() {
		os.Remove(filePath)
		return "", fmt.Errorf("%w: larger than %d bytes", ErrInvalidReceipt, MaxFileSize())
	}
	if err := dst.Close(); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	// A receipt that is not a decodable image is still kept, only without preview
	if _, err := writeThumbnail(filePath); err != nil {
		logger.Warn("receipt thumbnail skipped", "path", filePath, "error", err)
	}

	return filePath, nil
}

// Open returns a stored receipt for reading
func (s *LocalStorage) Open(path string) (*os.File, error) {
	if !s.owns(path) {
		return nil, os.ErrNotExist
	}
	return os.Open(path)
}

// Delete removes a receipt and its thumbnail
func (s *LocalStorage) Delete(path string) error {
	if !s.owns(path) {
		return os.ErrNotExist
	}
	if thumb := ThumbnailPath(path); thumb != "" {
		if err := os.Remove(thumb); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return os.Remove(path)
}

// Exists checks if a receipt exists
func (s *LocalStorage) Exists(path string) bool {
	if !s.owns(path) {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// owns rejects paths that escape the receipt directory
func (s *LocalStorage) owns(path string) bool {
	rel, err := filepath.Rel(s.basePath, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// MaxFileSize returns the maximum allowed file size (10MB)
func MaxFileSize() int64 {
	return 10 * 1024 * 1024 // 10 MB
}

// IsValidExtension accepts png, jpg, jpeg and pdf receipts
func IsValidExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".pdf":
		return true
	}
	return false
}

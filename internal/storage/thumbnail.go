package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ThumbnailSize bounds the longer edge of a receipt preview in pixels
const ThumbnailSize = 320

// ThumbnailPath returns where the preview of an image receipt lives.
// PDF receipts have no preview.
func ThumbnailPath(receiptPath string) string {
	ext := filepath.Ext(receiptPath)
	switch strings.ToLower(ext) {
	case ".png", ".jpg", ".jpeg":
		return strings.TrimSuffix(receiptPath, ext) + "_thumb" + ext
	}
	return ""
}

// writeThumbnail decodes an image receipt and saves a scaled-down copy next to it
func writeThumbnail(receiptPath string) (string, error) {
	thumbPath := ThumbnailPath(receiptPath)
	if thumbPath == "" {
		return "", nil
	}

	img, err := imaging.Open(receiptPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode receipt image: %w", err)
	}

	// Fit keeps the aspect ratio; small scans are left at their size
	b := img.Bounds()
	if b.Dx() > ThumbnailSize || b.Dy() > ThumbnailSize {
		img = imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)
	}

	if err := imaging.Save(img, thumbPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}
	return thumbPath, nil
}

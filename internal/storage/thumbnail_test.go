package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestThumbnailPath(t *testing.T) {
	assert.Equal(t, "/u/x1_scan_thumb.png", ThumbnailPath("/u/x1_scan.png"))
	assert.Equal(t, "/u/x1_a_thumb.JPG", ThumbnailPath("/u/x1_a.JPG"))
	assert.Empty(t, ThumbnailPath("/u/x1_bill.pdf"))
}

func TestSaveReceipt_ImageGetsThumbnail(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	path, err := s.SaveReceipt("x1", "scan.png", pngBytes(t, 800, 400))
	require.NoError(t, err)

	thumb := filepath.Join(base, "x1_scan_thumb.png")
	require.FileExists(t, thumb)
	img, err := imaging.Open(thumb)
	require.NoError(t, err)
	assert.Equal(t, 320, img.Bounds().Dx())
	assert.Equal(t, 160, img.Bounds().Dy())

	require.NoError(t, s.Delete(path))
	assert.NoFileExists(t, thumb)
	assert.NoFileExists(t, path)
}

func TestSaveReceipt_SmallImageKeepsSize(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	_, err = s.SaveReceipt("x2", "tiny.png", pngBytes(t, 40, 20))
	require.NoError(t, err)

	img, err := imaging.Open(filepath.Join(base, "x2_tiny_thumb.png"))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestSaveReceipt_UndecodableImageHasNoThumbnail(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	path, err := s.SaveReceipt("x3", "photo.jpg", bytes.NewBufferString("not an image"))
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = os.Stat(filepath.Join(base, "x3_photo_thumb.jpg"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, s.Delete(path))
}

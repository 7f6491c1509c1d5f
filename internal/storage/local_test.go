package storage

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveReceipt(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	path, err := s.SaveReceipt("x1", "../../bill.PDF", bytes.NewBufferString("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "x1_bill.PDF"), path)
	assert.True(t, s.Exists(path))

	f, err := s.Open(path)
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "%PDF", string(data))

	require.NoError(t, s.Delete(path))
	assert.False(t, s.Exists(path))
}

func TestSaveReceipt_RejectsUnknownTypes(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"run.exe", "noext", ""} {
		_, err := s.SaveReceipt("x1", name, bytes.NewBufferString("x"))
		assert.ErrorIs(t, err, ErrInvalidReceipt, name)
	}
}

func TestSaveReceipt_TooLarge(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	big := io.LimitReader(zeros{}, MaxFileSize()+10)
	_, err = s.SaveReceipt("x1", "scan.png", big)
	assert.ErrorIs(t, err, ErrInvalidReceipt)
	assert.False(t, s.Exists(filepath.Join(base, "x1_scan.png")))
}

func TestOwns_BlocksTraversal(t *testing.T) {
	base := t.TempDir()
	s, err := NewLocalStorage(filepath.Join(base, "uploads"))
	require.NoError(t, err)

	outside := filepath.Join(base, "secret.pdf")
	assert.False(t, s.Exists(outside))
	assert.Error(t, s.Delete(outside))
	_, err = s.Open(outside)
	assert.Error(t, err)
}

type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

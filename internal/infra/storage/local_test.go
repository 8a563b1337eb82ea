package storage

import (
	"os"
	"path/filepath"
	"testing"

	"salesorder-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Lifecycle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save("20240101_120000_ab12cd34_order.pdf", []byte("%PDF")))

	p, err := s.Path("20240101_120000_ab12cd34_order.pdf")
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data))

	require.NoError(t, s.Remove("20240101_120000_ab12cd34_order.pdf"))
	require.NoError(t, s.Remove("20240101_120000_ab12cd34_order.pdf"))

	_, err = s.Path("20240101_120000_ab12cd34_order.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalStore_PathStaysInDir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("x"), 0o644))

	s, err := NewLocalStore(filepath.Join(root, "uploads"))
	require.NoError(t, err)

	_, err = s.Path("../secret.txt")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)

	_, err = s.Path("")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

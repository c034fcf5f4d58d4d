package filestorage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFileStorage_SaveAndDelete(t *testing.T) {
	base := t.TempDir()
	fs, err := NewLocalFileStorage(base, "/uploads")
	require.NoError(t, err)

	path, err := fs.Save(strings.NewReader("содержимое"), "Photo.PNG", "orders")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "orders/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	data, err := os.ReadFile(filepath.Join(base, filepath.FromSlash(path)))
	require.NoError(t, err)
	assert.Equal(t, "содержимое", string(data))

	url := fs.PublicURL(path)
	assert.Equal(t, "/uploads/"+path, url)

	require.NoError(t, fs.Delete(url))
	_, err = os.Stat(filepath.Join(base, filepath.FromSlash(path)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, fs.Delete(path), "повторное удаление не ошибка")
	assert.Error(t, fs.Delete("../etc/passwd"))
}

func TestLocalFileStorage_SaveUsesMonthDirectory(t *testing.T) {
	fs, err := NewLocalFileStorage(t.TempDir(), "")
	require.NoError(t, err)
	fs.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	path, err := fs.Save(strings.NewReader("x"), "scan.pdf", "orders")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "orders/2026/03/"), path)
	assert.Equal(t, "/uploads/"+path, fs.PublicURL(path))
	assert.ErrorIs(t, fs.Delete("/uploads/"), ErrInvalidPath)
}

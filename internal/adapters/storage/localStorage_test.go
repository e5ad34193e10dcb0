package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Save(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root)
	ctx := context.Background()

	stored, err := s.Save(ctx, "posts", "small.gif", strings.NewReader("GIF89a"))
	require.NoError(t, err)
	assert.Equal(t, "posts/small.gif", stored)

	data, err := os.ReadFile(filepath.Join(root, "posts", "small.gif"))
	require.NoError(t, err)
	assert.Equal(t, "GIF89a", string(data))
}

func TestLocalStorage_Delete(t *testing.T) {
	root := t.TempDir()
	s := NewLocalStorage(root)
	ctx := context.Background()

	stored, err := s.Save(ctx, "posts", "small.gif", strings.NewReader("GIF89a"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, stored))
	_, err = os.Stat(filepath.Join(root, "posts", "small.gif"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, stored), "deleting a missing file is a no-op")
}

func TestLocalStorage_DoesNotOverwrite(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	ctx := context.Background()

	first, err := s.Save(ctx, "posts", "cat.png", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := s.Save(ctx, "posts", "cat.png", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(second, "posts/cat_"))
	assert.True(t, strings.HasSuffix(second, ".png"))
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "passwd", cleanName("../../etc/passwd"))
	assert.Equal(t, "my_photo.jpg", cleanName("my photo.jpg"))
	assert.Equal(t, "upload", cleanName("..."))
}

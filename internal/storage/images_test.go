package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageStore_SaveOpenRemove(t *testing.T) {
	t.Parallel()

	s := &ImageStore{Root: t.TempDir()}

	name, err := s.Save(KindProduct, "Photo.JPG", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotEqual(t, "Photo.jpg", name)

	f, ctype, err := s.Open(KindProduct, name)
	require.NoError(t, err)
	body, err := io.ReadAll(f)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.Equal(t, "jpeg-bytes", string(body))
	assert.Equal(t, "image/jpeg", ctype)

	require.NoError(t, s.Remove(KindProduct, name))
	_, err = os.Stat(filepath.Join(s.Root, string(KindProduct), name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Remove(KindProduct, name), "missing file is ignored")
}

func TestImageStore_RejectsExtension(t *testing.T) {
	t.Parallel()

	s := &ImageStore{Root: t.TempDir()}
	for _, n := range []string{"a.gif", "a", "a.png.exe"} {
		_, err := s.Save(KindUser, n, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrUnsupportedExtension, n)
	}
}

func TestImageStore_OpenRejectsTraversal(t *testing.T) {
	t.Parallel()

	s := &ImageStore{Root: t.TempDir()}
	for _, n := range []string{"", "../secret.png", "missing.png", ".png"} {
		_, _, err := s.Open(KindUser, n)
		assert.ErrorIs(t, err, ErrImageNotFound, n)
	}
}

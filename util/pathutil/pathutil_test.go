package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsImageFile(t *testing.T) {
	for name, want := range map[string]bool{
		"a.png":      true,
		"B.JPG":      true,
		"c.jpeg":     true,
		"d.WebP":     true,
		"e.gif":      false,
		"f.png.txt":  false,
		"noext":      false,
		"dir/x.Jpeg": true,
	} {
		assert.Equal(t, want, IsImageFile(name), name)
	}
	assert.True(t, IsPng("x.PNG"))
	assert.False(t, IsPng("x.jpg"))
	assert.True(t, IsJpeg("x.JPEG"))
	assert.False(t, IsJpeg("x.webp"))
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "img_001.txt"), SidecarPath(filepath.Join("out", "img_001.png")))
	assert.Equal(t, "a.b.txt", SidecarPath("a.b.jpeg"))
	assert.Equal(t, "noext.txt", SidecarPath("noext"))
}

func TestThumbnailPath(t *testing.T) {
	assert.Equal(t, filepath.Join("pics", "a.thumb.jpg"), ThumbnailPath(filepath.Join("pics", "a.png"), "", ".thumb.jpg"))
	assert.Equal(t, filepath.Join("cache", "a.thumb.jpg"), ThumbnailPath(filepath.Join("pics", "a.png"), "cache", ".thumb.jpg"))
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.JPG", "c.txt", ".hidden.png", "d.webp"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))

	files, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.JPG"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "d.webp"),
	}, files)

	_, err = ListImages(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

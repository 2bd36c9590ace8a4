package thumbs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagan/mapic/util/testutil"
)

func newCache(t *testing.T) *Cache {
	cache, err := NewCache(16)
	require.NoError(t, err)
	return cache
}

func writeImages(t *testing.T, dir string, names ...string) []string {
	var files []string
	for _, name := range names {
		files = append(files, testutil.WritePng(t, dir, name))
	}
	return files
}

func collect(w *Worker) []Notification {
	var notifications []Notification
	for n := range w.Notifications() {
		notifications = append(notifications, n)
	}
	return notifications
}

func TestCacheEvicts(t *testing.T) {
	cache, err := NewCache(2)
	require.NoError(t, err)
	img := testutil.Image(2, 2)
	cache.Add("a", img)
	cache.Add("b", img)
	cache.Get("a")
	cache.Add("c", img)
	assert.True(t, cache.Contains("a"))
	assert.False(t, cache.Contains("b"))
	assert.Equal(t, 2, cache.Len())
}

func TestWorkerSortedNotifications(t *testing.T) {
	dir := t.TempDir()
	files := writeImages(t, dir, "c.png", "a.png", "b.png")
	broken := testutil.WriteFile(t, dir, "d.png", []byte("broken"))
	files = append(files, broken)

	cache := newCache(t)
	worker := NewWorker(files, cache, Options{Width: 8, Height: 8})
	require.NoError(t, worker.Run(context.Background()))
	notifications := collect(worker)

	require.Len(t, notifications, 4)
	for i, name := range []string{"a.png", "b.png", "c.png", "d.png"} {
		assert.Equal(t, filepath.Join(dir, name), notifications[i].File)
		assert.Equal(t, i+1, notifications[i].Index)
		assert.Equal(t, 4, notifications[i].Total)
	}
	assert.NoError(t, notifications[0].Err)
	assert.Error(t, notifications[3].Err)
	assert.Equal(t, "Thumbnail cache: 2 / 4", notifications[1].String())

	assert.Equal(t, 3, cache.Len())
	thumbnail, ok := cache.Get(filepath.Join(dir, "a.png"))
	require.True(t, ok)
	assert.Equal(t, 8, thumbnail.Bounds().Dx())
	assert.Equal(t, 6, thumbnail.Bounds().Dy())
	<-worker.Done()
}

func TestWorkerSave(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	files := writeImages(t, dir, "a.png")
	existing := filepath.Join(out, "a.thumb.jpg")

	worker := NewWorker(files, newCache(t), Options{Save: true, Dir: out, SmartCrop: true, Width: 8, Height: 8})
	require.NoError(t, worker.Run(context.Background()))
	notifications := collect(worker)
	require.Len(t, notifications, 1)
	require.NoError(t, notifications[0].Err)
	assert.Equal(t, existing, notifications[0].Output)
	stat, err := os.Stat(existing)
	require.NoError(t, err)
	assert.NotZero(t, stat.Size())

	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0644))
	worker = NewWorker(files, newCache(t), Options{Save: true, Dir: out})
	require.NoError(t, worker.Run(context.Background()))
	collect(worker)
	contents, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(contents))
}

func TestWorkerAbort(t *testing.T) {
	dir := t.TempDir()
	files := writeImages(t, dir, "a.png", "b.png")
	worker := NewWorker(files, newCache(t), Options{})
	worker.Abort()
	require.NoError(t, worker.Run(context.Background()))
	assert.Empty(t, collect(worker))
	assert.True(t, worker.Aborted())
}

func TestWorkerCanceled(t *testing.T) {
	files := writeImages(t, t.TempDir(), "a.png")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	worker := NewWorker(files, newCache(t), Options{})
	assert.ErrorIs(t, worker.Run(ctx), context.Canceled)
}

func TestManagerSingleWorker(t *testing.T) {
	dir := t.TempDir()
	var names []string
	for i := range 20 {
		names = append(names, fmt.Sprintf("%02d.png", i))
	}
	writeImages(t, dir, names...)
	other := t.TempDir()
	writeImages(t, other, "x.png")

	manager := NewManager(newCache(t))
	first, err := manager.Start(context.Background(), dir, Options{Width: 4, Height: 4})
	require.NoError(t, err)
	second, err := manager.Start(context.Background(), other, Options{Width: 4, Height: 4})
	require.NoError(t, err)

	// the first worker was stopped and waited for before the second started
	select {
	case <-first.Done():
	default:
		t.Fatal("first worker still running")
	}
	assert.True(t, first.Aborted())
	assert.Same(t, second, manager.Current())

	require.NoError(t, manager.Wait())
	notifications := collect(second)
	require.Len(t, notifications, 1)
	assert.Equal(t, filepath.Join(other, "x.png"), notifications[0].File)
	assert.True(t, manager.Cache().Contains(filepath.Join(other, "x.png")))

	require.NoError(t, manager.Stop())
	assert.Nil(t, manager.Current())
}

func TestManagerStartMissingDir(t *testing.T) {
	manager := NewManager(newCache(t))
	_, err := manager.Start(context.Background(), filepath.Join(t.TempDir(), "missing"), Options{})
	assert.Error(t, err)
	assert.NoError(t, manager.Wait())
}

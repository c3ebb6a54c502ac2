package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "nested"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", ".git"), 0o755))
	file := filepath.Join(root, "main.c")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	dirs, err := watchDirs([]string{file, filepath.Join(root, "src")})
	require.NoError(t, err)
	assert.Equal(t, []string{root, filepath.Join(root, "src"), filepath.Join(root, "src", "nested")}, dirs)

	_, err = watchDirs([]string{filepath.Join(root, "missing")})
	require.Error(t, err)
}

func TestRelevant(t *testing.T) {
	exts := []string{".c", ".sy"}
	assert.True(t, relevant(fsnotify.Event{Name: "a.c", Op: fsnotify.Write}, exts))
	assert.True(t, relevant(fsnotify.Event{Name: "a.sy", Op: fsnotify.Create}, exts))
	assert.False(t, relevant(fsnotify.Event{Name: "a.koopa", Op: fsnotify.Write}, exts))
	assert.False(t, relevant(fsnotify.Event{Name: "a.c", Op: fsnotify.Chmod}, exts))
	assert.True(t, relevant(fsnotify.Event{Name: "README", Op: fsnotify.Write}, nil))
}

func TestWatchInitialBuild(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	err := Watch(ctx, WatchOptions{Paths: []string{root}}, func(context.Context) error {
		calls++
		cancel()
		return ErrBuildFailed
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	boom := errors.New("disk gone")
	err = Watch(context.Background(), WatchOptions{Paths: []string{root}}, func(context.Context) error {
		return boom
	})
	require.ErrorIs(t, err, boom)
}

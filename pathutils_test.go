package replaysync

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spiretechnology/go-memfs"
	"github.com/stretchr/testify/require"
)

func TestDefaultWatchedPathResolution(t *testing.T) {
	t.Run("under the home directory", func(t *testing.T) {
		home := filepath.Join(string(filepath.Separator), "home", "fox")
		got := defaultWatchedPath(func() (string, error) { return home, nil })
		require.Equal(t, filepath.Join(home, "Documents", "Slippi"), got, "wrong default path")
	})
	t.Run("home directory unavailable", func(t *testing.T) {
		got := defaultWatchedPath(func() (string, error) { return "", errors.New("$HOME is not defined") })
		require.Equal(t, filepath.Join("~", "Documents", "Slippi"), got, "wrong fallback path")
	})
}

func TestIsWithin(t *testing.T) {
	cases := []struct {
		root, path string
		want       bool
	}{
		{"replays", "replays/a.slp", true},
		{"replays", "replays/2024/a.slp", true},
		{"replays", "replays", false},
		{"replays", "replays-old/a.slp", false},
		{"replays", "other/a.slp", false},
		{"/home/fox/Slippi", "/home/fox/Slippi/a.slp", true},
		{"/home/fox/Slippi", "/home/fox/a.slp", false},
		{"/home/fox/Slippi", "relative/a.slp", false},
		{"/", "/a.slp", true},
	}
	for _, c := range cases {
		root, path := filepath.FromSlash(c.root), filepath.FromSlash(c.path)
		require.Equal(t, c.want, isWithin(root, path), "wrong result for %q under %q", c.path, c.root)
	}
}

func TestNormalizePath(t *testing.T) {
	t.Run("native paths are absolute", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		wd, err := os.Getwd()
		require.NoError(t, err)

		got := normalizePath(DefaultFileSystem{}, "replays/./2024/../a.slp")
		require.Equal(t, filepath.Join(wd, "replays", "a.slp"), got, "wrong native identity")
		require.Equal(t, got, normalizePath(DefaultFileSystem{}, got), "absolute paths should be stable")
	})
	t.Run("io/fs paths stay rooted at the file system", func(t *testing.T) {
		fsys := FromFS(memfs.FS{})
		require.Equal(t, filepath.Join("replays", "a.slp"), normalizePath(fsys, "replays/./2024/../a.slp"), "wrong fs identity")
	})
}

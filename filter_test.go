package replaysync_test

import (
	"context"
	"testing"

	"github.com/spiretechnology/go-replaysync"
	"github.com/stretchr/testify/require"
)

func TestExtensionFilter(t *testing.T) {
	ctx := context.Background()
	cases := map[string]bool{
		"Game_20240101T120000.slp": true,
		"GAME.SLP":                 true,
		"nested/dir/game.Slp":      true,
		"game.slp.tmp":             false,
		"game.txt":                 false,
		"slp":                      false,
		"game":                     false,
	}
	for _, ext := range []string{".slp", "slp", ".SLP"} {
		filter := replaysync.ExtensionFilter(ext)
		for name, want := range cases {
			got, err := filter.Filter(ctx, name)
			require.NoError(t, err, "filter should not fail")
			require.Equal(t, want, got, "wrong result for %q with extension %q", name, ext)
		}
	}
}

func TestFilterFunc(t *testing.T) {
	filter := replaysync.FilterFunc(func(_ context.Context, filename string) (bool, error) {
		return filename == "keep.slp", nil
	})
	keep, err := filter.Filter(context.Background(), "keep.slp")
	require.NoError(t, err)
	require.True(t, keep, "should keep file")
	keep, err = filter.Filter(context.Background(), "drop.slp")
	require.NoError(t, err)
	require.False(t, keep, "should drop file")
}

package replaysync

import (
	"context"
	"path/filepath"
	"strings"
)

// Filter decides which files are replays the service cares about.
type Filter interface {
	// Filter returns true if the file should be considered, and false if it should be ignored.
	Filter(ctx context.Context, filename string) (bool, error)
}

type FilterFunc func(ctx context.Context, filename string) (bool, error)

func (f FilterFunc) Filter(ctx context.Context, filename string) (bool, error) {
	return f(ctx, filename)
}

// ExtensionFilter returns a Filter that accepts files whose extension matches ext, ignoring
// case. The leading dot is optional.
func ExtensionFilter(ext string) Filter {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return FilterFunc(func(_ context.Context, filename string) (bool, error) {
		return strings.EqualFold(filepath.Ext(filename), ext), nil
	})
}

// matches applies the filter, treating filter errors as a rejection.
func matches(ctx context.Context, filter Filter, filename string) bool {
	if filter == nil {
		return true
	}
	keep, err := filter.Filter(ctx, filename)
	return err == nil && keep
}

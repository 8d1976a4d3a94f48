package replaysync

import (
	"context"
	"time"
)

const (
	DefaultStabilityInterval = 500 * time.Millisecond
	DefaultStabilityAttempts = 20
)

// StabilityProbe waits for a file's size to settle before it is uploaded.
type StabilityProbe struct {
	fs       FileSystem
	interval time.Duration
	attempts int
}

// NewStabilityProbe creates a probe that samples the size of a file every interval, at most
// attempts times. Non-positive values fall back to the defaults.
func NewStabilityProbe(fsys FileSystem, interval time.Duration, attempts int) *StabilityProbe {
	if interval <= 0 {
		interval = DefaultStabilityInterval
	}
	if attempts < 2 {
		attempts = DefaultStabilityAttempts
	}
	return &StabilityProbe{
		fs:       fsys,
		interval: interval,
		attempts: attempts,
	}
}

// WaitUntilStable returns once two consecutive samples report the same positive size. If
// the budget runs out, or ctx is done, it returns the last sample with stable set to false.
// A sample that fails to stat counts as -1.
func (p *StabilityProbe) WaitUntilStable(ctx context.Context, path string) (size int64, stable bool) {
	last := int64(-1)
	for attempt := 0; attempt < p.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return last, false
			case <-time.After(p.interval):
			}
		}

		current := int64(-1)
		if info, err := p.fs.Stat(path); err == nil {
			current = info.Size()
		}
		if current > 0 && current == last {
			return current, true
		}
		last = current
	}
	return last, false
}

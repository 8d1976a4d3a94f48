package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPath       = "path"
	KeyDir        = "dir"
	KeyFileID     = "file_id"
	KeySize       = "size"
	KeyStable     = "stable"
	KeyReason     = "reason"
	KeyURL        = "url"
	KeyDurationMS = "duration_ms"
	KeyBaseline   = "baseline"
	KeyError      = "error"
)

func Path(p string) slog.Attr    { return slog.String(KeyPath, p) }
func Dir(d string) slog.Attr     { return slog.String(KeyDir, d) }
func FileID(id string) slog.Attr { return slog.String(KeyFileID, id) }
func Size(n int64) slog.Attr     { return slog.Int64(KeySize, n) }
func Stable(ok bool) slog.Attr   { return slog.Bool(KeyStable, ok) }
func Reason(r string) slog.Attr  { return slog.String(KeyReason, r) }
func URL(u string) slog.Attr     { return slog.String(KeyURL, u) }
func Baseline(n int) slog.Attr   { return slog.Int(KeyBaseline, n) }

func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d)/float64(time.Millisecond))
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBinary     = "binary"
	KeyDir        = "dir"
	KeyProfile    = "profile"
	KeyProgram    = "program"
	KeyArgs       = "args"
	KeyPath       = "path"
	KeyBuildID    = "build_id"
	KeyPID        = "pid"
	KeyExitCode   = "exit_code"
	KeyOutcome    = "outcome"
	KeyMatches    = "matches"
	KeySkipped    = "skipped_records"
	KeyCacheHit   = "cache_hit"
	KeyDurationMS = "duration_ms"
	KeyConfig     = "config"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Binary(name string) slog.Attr { return slog.String(KeyBinary, name) }
func Dir(dir string) slog.Attr     { return slog.String(KeyDir, dir) }
func Profile(p string) slog.Attr   { return slog.String(KeyProfile, p) }
func Program(p string) slog.Attr   { return slog.String(KeyProgram, p) }
func Args(args []string) slog.Attr { return slog.Any(KeyArgs, args) }
func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func BuildID(id string) slog.Attr  { return slog.String(KeyBuildID, id) }
func PID(pid int) slog.Attr        { return slog.Int(KeyPID, pid) }
func ExitCode(code int) slog.Attr  { return slog.Int(KeyExitCode, code) }
func Outcome(o string) slog.Attr   { return slog.String(KeyOutcome, o) }
func Matches(n int) slog.Attr      { return slog.Int(KeyMatches, n) }
func Skipped(n int) slog.Attr      { return slog.Int(KeySkipped, n) }
func CacheHit(hit bool) slog.Attr  { return slog.Bool(KeyCacheHit, hit) }
func Config(path string) slog.Attr { return slog.String(KeyConfig, path) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDocument   = "document"
	KeyFolder     = "folder"
	KeyPath       = "path"
	KeyTitle      = "title"
	KeyStatus     = "status"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func Document(path string) slog.Attr  { return slog.String(KeyDocument, path) }
func Folder(path string) slog.Attr    { return slog.String(KeyFolder, path) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

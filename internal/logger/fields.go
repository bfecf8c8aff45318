package logger

import (
	"fmt"
	"log/slog"
)

// Standard attribute constructors used across the filesystem packages so
// field names stay consistent in log output.

// Path is the path an operation addresses.
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// OldPath is the source path of a rename or copy.
func OldPath(p string) slog.Attr {
	return slog.String("old_path", p)
}

// NewPath is the destination path of a rename or copy.
func NewPath(p string) slog.Attr {
	return slog.String("new_path", p)
}

// Shard is the shard id owning a path.
func Shard(id string) slog.Attr {
	return slog.String("shard", id)
}

// Operation is the façade operation name (mkdir, readdir, ...).
func Operation(name string) slog.Attr {
	return slog.String("operation", name)
}

// Size is a payload size in bytes.
func Size(n int64) slog.Attr {
	return slog.Int64("size", n)
}

// Mode is a permission mode, rendered in octal.
func Mode(m uint32) slog.Attr {
	return slog.String("mode", fmt.Sprintf("%04o", m))
}

// Err is a terminal error attached to a log record.
func Err(err error) slog.Attr {
	return slog.String("error", err.Error())
}

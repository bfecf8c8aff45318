package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for filesystem operations.
// Keys follow OpenTelemetry semantic conventions where applicable;
// filesystem-specific keys use the "fs." prefix.
const (
	AttrOperation = "fs.operation"  // Operation name (mkdir, readdir, ...)
	AttrPath      = "fs.path"       // Normalized path
	AttrDestPath  = "fs.dest_path"  // Destination path for copy/rename
	AttrShard     = "fs.shard"      // Shard owning the path
	AttrDestShard = "fs.dest_shard" // Destination shard for copy/rename
	AttrSize      = "fs.size"       // File size in bytes
	AttrKind      = "fs.kind"       // Entry kind (file or directory)
	AttrRecursive = "fs.recursive"  // Recursive flag on copy/remove
	AttrEncoding  = "fs.encoding"   // Content encoding on read/write
)

// Span names for the façade operations and event names for the
// cross-shard choreographies.
const (
	SpanMkdir           = "vfs.mkdir"
	SpanReadDir         = "vfs.readdir"
	SpanStat            = "vfs.stat"
	SpanReadFile        = "vfs.readFile"
	SpanReadFileString  = "vfs.readFileString"
	SpanWriteFile       = "vfs.writeFile"
	SpanWriteFileString = "vfs.writeFileString"
	SpanCopyFile        = "vfs.copyFile"
	SpanCp              = "vfs.cp"
	SpanRename          = "vfs.rename"
	SpanRm              = "vfs.rm"

	EventCrossShardCopy   = "cross_shard_copy"
	EventCrossShardRename = "cross_shard_rename"
)

// Operation returns an attribute for the operation name
func Operation(name string) attribute.KeyValue {
	return attribute.String(AttrOperation, name)
}

// Path returns an attribute for a filesystem path
func Path(path string) attribute.KeyValue {
	return attribute.String(AttrPath, path)
}

// DestPath returns an attribute for the destination path of a two-path operation
func DestPath(path string) attribute.KeyValue {
	return attribute.String(AttrDestPath, path)
}

// Shard returns an attribute for the shard identifier
func Shard(id string) attribute.KeyValue {
	return attribute.String(AttrShard, id)
}

// DestShard returns an attribute for the destination shard identifier
func DestShard(id string) attribute.KeyValue {
	return attribute.String(AttrDestShard, id)
}

// Size returns an attribute for a byte size
func Size(n int64) attribute.KeyValue {
	return attribute.Int64(AttrSize, n)
}

// Kind returns an attribute for an entry kind
func Kind(kind string) attribute.KeyValue {
	return attribute.String(AttrKind, kind)
}

// Recursive returns an attribute for the recursive flag
func Recursive(r bool) attribute.KeyValue {
	return attribute.Bool(AttrRecursive, r)
}

// Encoding returns an attribute for a content encoding
func Encoding(enc string) attribute.KeyValue {
	return attribute.String(AttrEncoding, enc)
}

// Package vfs is the public façade of the sharded virtual filesystem.
//
// It exposes path-oriented operations (mkdir, readdir, stat, read, write,
// copy, rename, remove) over a namespace partitioned into storage shards
// by path prefix. Single-shard operations run as one transaction inside
// the owning shard's tree store; operations whose source and destination
// fall on different shards are emulated by the cross-shard orchestration
// in this package, with no combined atomicity (see cross.go).
package vfs

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/janwilmake/cloudflare-fs/internal/logger"
	"github.com/janwilmake/cloudflare-fs/internal/telemetry"
	"github.com/janwilmake/cloudflare-fs/pkg/metrics"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fspath"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/router"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/store"
)

// FS is the filesystem façade. It is stateless apart from the shard
// handle table and safe for concurrent use.
type FS struct {
	shards  *router.Registry
	logger  *slog.Logger
	metrics *metrics.VFSMetrics
}

// New creates a filesystem over the given shard registry.
func New(shards *router.Registry) *FS {
	return &FS{
		shards:  shards,
		logger:  logger.With("component", "vfs"),
		metrics: metrics.NewVFSMetrics(),
	}
}

// Open is a convenience constructor building the registry from a shard
// database config.
func Open(cfg *store.Config) *FS {
	return New(router.NewRegistry(cfg))
}

// Close tears down every open shard handle.
func (f *FS) Close() error {
	return f.shards.Close()
}

// instrument opens the named span and returns a completion callback that
// records the outcome. The metric label is the span name without the
// "vfs." prefix; the outcome is "ok", the error kind, or "error" for
// failures outside the error taxonomy.
func (f *FS) instrument(ctx context.Context, span string, paths ...string) (context.Context, func(error)) {
	start := time.Now()
	op := strings.TrimPrefix(span, "vfs.")

	attrs := []attribute.KeyValue{telemetry.Operation(op)}
	if len(paths) > 0 {
		attrs = append(attrs, telemetry.Path(paths[0]))
	}
	if len(paths) > 1 {
		attrs = append(attrs, telemetry.DestPath(paths[1]))
	}
	ctx, sp := telemetry.StartSpan(ctx, span, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		defer sp.End()

		outcome := "ok"
		if err != nil {
			if code := fserrors.CodeOf(err); code != 0 {
				outcome = code.String()
			} else {
				outcome = "error"
			}
			telemetry.RecordError(ctx, err)
			f.logger.Debug("operation failed",
				logger.Operation(op), "paths", paths, logger.Err(err))
		}
		f.metrics.RecordOperation(op, outcome, time.Since(start))
	}
}

// Mkdir creates the directory at path. With Recursive, missing ancestors
// are created too; the returned string is the shallowest directory
// actually created ("" when nothing was).
func (f *FS) Mkdir(ctx context.Context, path string, opts MkdirOptions) (string, error) {
	path = fspath.Normalize(path)
	ctx, done := f.instrument(ctx, telemetry.SpanMkdir, path)

	s, err := f.shards.HandleFor(ctx, path)
	if err != nil {
		done(err)
		return "", err
	}
	created, err := s.Mkdir(ctx, path, opts.Recursive, opts.Mode)
	done(err)
	return created, err
}

// ReadDir lists the direct children of path with their kinds, sorted by
// name ascending.
func (f *FS) ReadDir(ctx context.Context, path string) ([]store.DirEntry, error) {
	path = fspath.Normalize(path)
	ctx, done := f.instrument(ctx, telemetry.SpanReadDir, path)

	s, err := f.shards.HandleFor(ctx, path)
	if err != nil {
		done(err)
		return nil, err
	}
	entries, err := s.ReadDir(ctx, path)
	done(err)
	return entries, err
}

// ReadDirNames lists the direct children of path as bare names.
func (f *FS) ReadDirNames(ctx context.Context, path string) ([]string, error) {
	entries, err := f.ReadDir(ctx, path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

// Stat returns a metadata snapshot for the entry at path.
func (f *FS) Stat(ctx context.Context, path string) (*store.Info, error) {
	path = fspath.Normalize(path)
	ctx, done := f.instrument(ctx, telemetry.SpanStat, path)

	s, err := f.shards.HandleFor(ctx, path)
	if err != nil {
		done(err)
		return nil, err
	}
	info, err := s.Stat(ctx, path)
	done(err)
	return info, err
}

// ReadFile returns the raw bytes of the file at path.
func (f *FS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	path = fspath.Normalize(path)
	ctx, done := f.instrument(ctx, telemetry.SpanReadFile, path)

	s, err := f.shards.HandleFor(ctx, path)
	if err != nil {
		done(err)
		return nil, err
	}
	data, err := s.ReadFile(ctx, path)
	done(err)
	return data, err
}

// ReadFileString reads the file at path and renders it through the named
// encoding ("utf8", "base64" or "hex").
func (f *FS) ReadFileString(ctx context.Context, path, encoding string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanReadFileString,
		trace.WithAttributes(telemetry.Encoding(encoding)))
	defer span.End()

	data, err := f.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}
	s, err := decodePayload(data, encoding)
	if err != nil {
		telemetry.RecordError(ctx, err)
	}
	return s, err
}

// WriteFile creates or overwrites the file at path with raw bytes.
func (f *FS) WriteFile(ctx context.Context, path string, data []byte, mode uint32) error {
	path = fspath.Normalize(path)
	ctx, done := f.instrument(ctx, telemetry.SpanWriteFile, path)

	s, err := f.shards.HandleFor(ctx, path)
	if err != nil {
		done(err)
		return err
	}
	err = s.WriteFile(ctx, path, data, mode)
	done(err)
	return err
}

// WriteFileString decodes data through the encoding in opts and writes the
// resulting bytes to path.
func (f *FS) WriteFileString(ctx context.Context, path, data string, opts WriteOptions) error {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanWriteFileString,
		trace.WithAttributes(telemetry.Encoding(opts.Encoding)))
	defer span.End()

	payload, err := encodePayload(data, opts.Encoding)
	if err != nil {
		telemetry.RecordError(ctx, err)
		return err
	}
	return f.WriteFile(ctx, path, payload, opts.Mode)
}

// CopyFile copies a single file from src to dest, overwriting an existing
// destination unless store.CopyExcl is set. Cross-shard copies are
// emulated with a read from the source shard and a write into the
// destination shard.
func (f *FS) CopyFile(ctx context.Context, src, dest string, flags store.CopyFlag) error {
	src = fspath.Normalize(src)
	dest = fspath.Normalize(dest)
	ctx, done := f.instrument(ctx, telemetry.SpanCopyFile, src, dest)

	err := f.copyFile(ctx, src, dest, flags)
	done(err)
	return err
}

func (f *FS) copyFile(ctx context.Context, src, dest string, flags store.CopyFlag) error {
	if router.SameShard(src, dest) {
		s, err := f.shards.HandleFor(ctx, src)
		if err != nil {
			return err
		}
		return s.CopyFile(ctx, src, dest, flags)
	}

	f.metrics.RecordCrossShard("copyFile")
	return f.copyFileAcross(ctx, src, dest, flags)
}

// Cp copies src to dest, recursively for directories when Recursive is
// set. Without Force an existing destination file fails with
// AlreadyExists.
func (f *FS) Cp(ctx context.Context, src, dest string, opts CpOptions) error {
	src = fspath.Normalize(src)
	dest = fspath.Normalize(dest)
	ctx, done := f.instrument(ctx, telemetry.SpanCp, src, dest)

	flags := store.CopyFlag(0)
	if !opts.Force {
		flags |= store.CopyExcl
	}
	err := f.copyTree(ctx, src, dest, opts.Recursive, flags)
	done(err)
	return err
}

func (f *FS) copyTree(ctx context.Context, src, dest string, recursive bool, flags store.CopyFlag) error {
	if router.SameShard(src, dest) {
		s, err := f.shards.HandleFor(ctx, src)
		if err != nil {
			return err
		}
		return s.CopyTree(ctx, src, dest, recursive, flags)
	}

	f.metrics.RecordCrossShard("cp")
	return f.copyTreeAcross(ctx, src, dest, recursive, flags)
}

// Rename moves oldPath to newPath. Within one shard the move, including
// the rewrite of every descendant, is a single transaction. Across shards
// it is emulated as a recursive copy followed by a recursive remove of the
// source; a failure in between leaves the entry duplicated, never lost.
func (f *FS) Rename(ctx context.Context, oldPath, newPath string) error {
	oldPath = fspath.Normalize(oldPath)
	newPath = fspath.Normalize(newPath)
	ctx, done := f.instrument(ctx, telemetry.SpanRename, oldPath, newPath)

	var err error
	if router.SameShard(oldPath, newPath) {
		var s *store.Store
		if s, err = f.shards.HandleFor(ctx, oldPath); err == nil {
			err = s.Rename(ctx, oldPath, newPath)
		}
	} else {
		f.metrics.RecordCrossShard("rename")
		err = f.renameAcross(ctx, oldPath, newPath)
	}
	done(err)
	return err
}

// Rm removes the entry at path. Recursive is required for non-empty
// directories; Force silences NotFound.
func (f *FS) Rm(ctx context.Context, path string, opts RmOptions) error {
	path = fspath.Normalize(path)
	ctx, done := f.instrument(ctx, telemetry.SpanRm, path)

	s, err := f.shards.HandleFor(ctx, path)
	if err != nil {
		done(err)
		return err
	}
	err = s.Remove(ctx, path, opts.Recursive, opts.Force)
	done(err)
	return err
}

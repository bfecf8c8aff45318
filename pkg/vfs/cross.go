package vfs

import (
	"context"
	"fmt"

	"github.com/janwilmake/cloudflare-fs/internal/logger"
	"github.com/janwilmake/cloudflare-fs/internal/telemetry"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fspath"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/router"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/store"
)

// Cross-shard orchestration.
//
// Shards are independent storage domains, so there is no transaction
// spanning two of them. The sequences below are choreographies of
// single-shard primitives with a fixed failure bias:
//
//   - copy: a failure after the source read but before the destination
//     write leaves state unchanged; a failure mid-subtree leaves a
//     partially populated destination.
//   - rename: the source is removed only after the destination copy
//     completed, so a crash in between duplicates the entry in both
//     shards rather than losing it.
//
// Re-running a failed copy is safe (overwrite); cleaning up after a
// partial move is the caller's responsibility.

// copyFileAcross copies one file between shards: full read plus stat from
// the source shard, recursive parent creation and a write into the
// destination shard.
func (f *FS) copyFileAcross(ctx context.Context, src, dest string, flags store.CopyFlag) error {
	srcStore, err := f.shards.HandleFor(ctx, src)
	if err != nil {
		return err
	}
	dstStore, err := f.shards.HandleFor(ctx, dest)
	if err != nil {
		return err
	}

	info, err := srcStore.Stat(ctx, src)
	if err != nil {
		return err
	}
	if !info.IsFile() {
		return fserrors.NewNotAFile(src)
	}

	if flags&store.CopyExcl != 0 {
		if _, err := dstStore.Stat(ctx, dest); err == nil {
			return fserrors.NewAlreadyExists(dest)
		} else if !fserrors.Is(err, fserrors.ErrNotFound) {
			return err
		}
	}

	data, err := srcStore.ReadFile(ctx, src)
	if err != nil {
		return err
	}

	if parent, ok := fspath.Parent(dest); ok && parent != fspath.Root {
		if _, err := dstStore.Mkdir(ctx, parent, true, 0); err != nil {
			return fmt.Errorf("creating destination parent: %w", err)
		}
	}

	telemetry.AddEvent(ctx, telemetry.EventCrossShardCopy,
		telemetry.Shard(srcStore.ShardID()),
		telemetry.DestShard(dstStore.ShardID()),
		telemetry.Kind(string(info.Kind)),
		telemetry.Size(int64(len(data))))
	f.logger.Debug("cross-shard file copy",
		logger.OldPath(src), logger.NewPath(dest),
		logger.Size(int64(len(data))), logger.Mode(info.Mode))
	return dstStore.WriteFile(ctx, dest, data, info.Mode)
}

// copyTreeAcross copies a subtree between shards, parent directory before
// any child, depth-first. Each child pair re-resolves its shards: a child
// of a cross-shard pair can itself be same-shard (or differently
// cross-shard) when the copy spans the /Users boundary.
func (f *FS) copyTreeAcross(ctx context.Context, src, dest string, recursive bool, flags store.CopyFlag) error {
	srcStore, err := f.shards.HandleFor(ctx, src)
	if err != nil {
		return err
	}

	info, err := srcStore.Stat(ctx, src)
	if err != nil {
		return err
	}
	if info.IsFile() {
		return f.copyFileAcross(ctx, src, dest, flags)
	}
	if !recursive {
		return fserrors.NewRecursionRequired(src)
	}

	dstStore, err := f.shards.HandleFor(ctx, dest)
	if err != nil {
		return err
	}
	if _, err := dstStore.Mkdir(ctx, dest, true, info.Mode); err != nil {
		return err
	}
	telemetry.AddEvent(ctx, telemetry.EventCrossShardCopy,
		telemetry.Shard(srcStore.ShardID()),
		telemetry.DestShard(dstStore.ShardID()),
		telemetry.Kind(string(info.Kind)),
		telemetry.Recursive(recursive))

	children, err := srcStore.ReadDir(ctx, src)
	if err != nil {
		return err
	}
	for _, child := range children {
		childSrc := fspath.Join(src, child.Name)
		childDest := fspath.Join(dest, child.Name)
		if err := f.copyTree(ctx, childSrc, childDest, true, flags); err != nil {
			return err
		}
	}
	return nil
}

// renameAcross emulates a cross-shard move: recursive copy into the
// destination shard, then recursive remove from the source shard.
func (f *FS) renameAcross(ctx context.Context, oldPath, newPath string) error {
	telemetry.AddEvent(ctx, telemetry.EventCrossShardRename,
		telemetry.Shard(router.ShardOf(oldPath)),
		telemetry.DestShard(router.ShardOf(newPath)))
	f.logger.Debug("cross-shard move",
		logger.OldPath(oldPath), logger.NewPath(newPath))

	if err := f.copyTreeAcross(ctx, oldPath, newPath, true, 0); err != nil {
		return err
	}

	srcStore, err := f.shards.HandleFor(ctx, oldPath)
	if err != nil {
		return err
	}
	f.logger.Debug("removing source after copy", logger.Path(oldPath))
	return srcStore.Remove(ctx, oldPath, true, false)
}

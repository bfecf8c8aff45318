// Package router partitions the path namespace into storage shards and
// manages the per-shard store handles.
//
// The sharding rule is fixed: any path of the form /Users/<name>/... is
// owned by shard <name>; every other path is owned by the default shard.
// The mapping is a pure function of the path, so it needs no
// synchronization; the handle table behind it is mutex-guarded and builds
// shard stores lazily on first use.
package router

import (
	"strings"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fspath"
)

// DefaultShard owns every path outside the per-user namespace.
const DefaultShard = "default"

// usersPrefix is the reserved namespace whose first segment selects the
// owning shard.
const usersPrefix = "/Users/"

// ShardOf maps a normalized path to its owning shard id.
func ShardOf(path string) string {
	path = fspath.Normalize(path)
	if !strings.HasPrefix(path, usersPrefix) {
		return DefaultShard
	}

	rest := path[len(usersPrefix):]
	if idx := strings.Index(rest, fspath.Separator); idx >= 0 {
		rest = rest[:idx]
	}
	if rest == "" {
		return DefaultShard
	}
	return rest
}

// SameShard reports whether both paths of a two-path operation resolve to
// the same shard, i.e. whether the operation can run as one transaction.
func SameShard(a, b string) bool {
	return ShardOf(a) == ShardOf(b)
}

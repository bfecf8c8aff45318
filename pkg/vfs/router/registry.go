package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/janwilmake/cloudflare-fs/internal/logger"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/store"
)

// Registry is the shard handle table. Handles are constructed lazily on
// first access and live until Close; the same shard id always yields the
// same handle.
type Registry struct {
	mu     sync.Mutex
	shards map[string]*store.Store
	config *store.Config
	closed bool
}

// NewRegistry creates an empty handle table opening shards with cfg.
func NewRegistry(cfg *store.Config) *Registry {
	return &Registry{
		shards: make(map[string]*store.Store),
		config: cfg,
	}
}

// Handle returns the store for shardID, opening it on first use.
func (r *Registry) Handle(ctx context.Context, shardID string) (*store.Store, error) {
	if shardID == "" {
		return nil, fmt.Errorf("shard id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, fmt.Errorf("shard registry is closed")
	}
	if s, ok := r.shards[shardID]; ok {
		return s, nil
	}

	s, err := store.New(r.config, shardID)
	if err != nil {
		return nil, fmt.Errorf("failed to open shard %q: %w", shardID, err)
	}
	r.shards[shardID] = s

	logger.Info("shard opened", logger.Shard(shardID))
	return s, nil
}

// HandleFor resolves the shard owning path and returns its store.
func (r *Registry) HandleFor(ctx context.Context, path string) (*store.Store, error) {
	return r.Handle(ctx, ShardOf(path))
}

// ShardIDs returns the ids of all currently open shards.
func (r *Registry) ShardIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.shards))
	for id := range r.shards {
		ids = append(ids, id)
	}
	return ids
}

// Close tears down every open shard handle. Subsequent Handle calls fail.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	var firstErr error
	for id, s := range r.shards {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing shard %q: %w", id, err)
		}
	}
	r.shards = nil
	return firstErr
}

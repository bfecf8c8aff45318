// Package store implements the per-shard tree store: directory-tree
// semantics over a single flat relational table, backed by SQLite or
// PostgreSQL through GORM.
//
// Every operation assumes its paths are already normalized (see
// pkg/vfs/fspath) and scoped to this shard; the façade in pkg/vfs takes
// care of both. Each operation runs as one database transaction, so a
// single-shard operation either commits fully or not at all.
package store

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/janwilmake/cloudflare-fs/internal/logger"
)

// Store is the tree store for one shard. A Store exclusively owns its
// underlying table; no other component issues statements against it.
type Store struct {
	db      *gorm.DB
	shardID string
	table   string
	config  *Config
	logger  *slog.Logger

	// now is the clock used for entry timestamps, replaceable in tests.
	now func() int64
}

// New opens (and migrates, if needed) the shard database for shardID.
// The same shard id always resolves to the same underlying storage:
// a per-shard file for SQLite, a per-shard table prefix for PostgreSQL.
func New(cfg *Config, shardID string) (*Store, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shard database configuration: %w", err)
	}
	if shardID == "" {
		return nil, fmt.Errorf("shard id is required")
	}

	var (
		dialector gorm.Dialector
		prefix    string
	)

	memory := false

	switch cfg.Type {
	case DatabaseTypeSQLite:
		// Paths are case-sensitive identifiers, so LIKE must compare
		// case-sensitively too; SQLite's default LIKE folds ASCII case and
		// would let a subtree scan of /data cross into /DATA.
		if cfg.SQLite.Dir == ":memory:" {
			dialector = sqlite.Open(":memory:?_pragma=case_sensitive_like(1)")
			memory = true
			break
		}
		if err := os.MkdirAll(cfg.SQLite.Dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create shard database directory: %w", err)
		}
		// WAL for concurrent readers, busy_timeout so writers queue
		// instead of failing when the shard is briefly locked.
		dsn := filepath.Join(cfg.SQLite.Dir, sanitizeShardID(shardID)+".db") +
			"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=case_sensitive_like(1)"
		dialector = sqlite.Open(dsn)

	case DatabaseTypePostgres:
		dialector = postgres.Open(cfg.Postgres.DSN())
		prefix = fmt.Sprintf("shard_%s_", sanitizeShardID(shardID))

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: prefix,
		},
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open shard database: %w", err)
	}

	if cfg.Type == DatabaseTypePostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying database: %w", err)
		}
		sqlDB.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	}

	if memory {
		// Each connection to ":memory:" gets a private database, so the
		// pool must stay at a single connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate shard schema: %w", err)
	}

	s := &Store{
		db:      db,
		shardID: shardID,
		table:   prefix + "entries",
		config:  cfg,
		logger:  logger.With("component", "tree_store", "shard", shardID),
		now:     func() int64 { return time.Now().Unix() },
	}

	s.logger.Debug("shard store opened", "type", cfg.Type)

	return s, nil
}

// ShardID returns the shard this store belongs to.
func (s *Store) ShardID() string {
	return s.shardID
}

// Healthcheck verifies the shard database is reachable.
func (s *Store) Healthcheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// sanitizeShardID maps a shard id onto a safe file/table identifier.
// Shard ids come from path segments, so anything outside [a-z0-9_] is
// replaced to keep DSNs and table prefixes well-formed. Folding alone
// would collapse distinct ids ("Alice"/"alice", "a-b"/"a.b") onto one
// file or table prefix, so any id the folding changes gets a short hash
// of the raw id appended.
func sanitizeShardID(id string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.String() == id {
		return id
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return fmt.Sprintf("%s_%08x", b.String(), h.Sum32())
}

// entryAt fetches the entry at path, reporting absence without error.
func entryAt(tx *gorm.DB, path string) (*Entry, bool, error) {
	var e Entry
	err := tx.Where("path = ?", path).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &e, true, nil
}

// escapeLike escapes LIKE metacharacters so stored paths containing
// '%', '_' or '\' cannot widen a prefix scan. Every LIKE in this package
// carries an explicit ESCAPE '\' clause.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// subtreePattern is the LIKE pattern matching every strict descendant of
// dir, anchored on the segment boundary so "/a/b" never matches "/a/b2".
func subtreePattern(dir string) string {
	return escapeLike(dir) + "/%"
}

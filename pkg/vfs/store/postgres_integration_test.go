//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
)

// setupPostgres starts a disposable PostgreSQL container and returns a
// store config pointing at it.
func setupPostgres(t *testing.T) *Config {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("cfs_test"),
		tcpostgres.WithUsername("cfs_test"),
		tcpostgres.WithPassword("cfs_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}

	return &Config{
		Type: DatabaseTypePostgres,
		Postgres: PostgresConfig{
			Host:     host,
			Port:     port.Int(),
			Database: "cfs_test",
			User:     "cfs_test",
			Password: "cfs_test",
			SSLMode:  "disable",
		},
	}
}

func TestPostgresShardIsolation(t *testing.T) {
	cfg := setupPostgres(t)
	ctx := context.Background()

	alice, err := New(cfg, "alice")
	if err != nil {
		t.Fatalf("open alice shard: %v", err)
	}
	defer alice.Close()

	bob, err := New(cfg, "bob")
	if err != nil {
		t.Fatalf("open bob shard: %v", err)
	}
	defer bob.Close()

	if err := alice.WriteFile(ctx, "/Users/alice/secret.txt", []byte("alice only"), 0); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Same database, different table prefix: bob must not see the entry.
	_, err = bob.Stat(ctx, "/Users/alice/secret.txt")
	if fserrors.CodeOf(err) != fserrors.ErrNotFound {
		t.Errorf("expected NotFound in bob's shard, got %v", err)
	}

	got, err := alice.ReadFile(ctx, "/Users/alice/secret.txt")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "alice only" {
		t.Errorf("content = %q", got)
	}
}

func TestPostgresTreeSemantics(t *testing.T) {
	cfg := setupPostgres(t)
	ctx := context.Background()

	s, err := New(cfg, "default")
	if err != nil {
		t.Fatalf("open shard: %v", err)
	}
	defer s.Close()

	if _, err := s.Mkdir(ctx, "/proj/src/util", true, 0); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := s.WriteFile(ctx, "/proj/src/main.go", []byte("package main"), 0); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := s.WriteFile(ctx, "/proj/src2", []byte("decoy"), 0); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Prefix rewrite must run on the segment boundary in postgres too.
	if err := s.Rename(ctx, "/proj/src", "/proj/lib"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	if _, err := s.ReadFile(ctx, "/proj/lib/main.go"); err != nil {
		t.Errorf("descendant missing after rename: %v", err)
	}
	if _, err := s.Stat(ctx, "/proj/src2"); err != nil {
		t.Errorf("sibling damaged by rename: %v", err)
	}

	if err := s.Remove(ctx, "/proj", true, false); err != nil {
		t.Fatalf("remove -r: %v", err)
	}
	entries, err := s.ReadDir(ctx, "/")
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("root not empty after recursive remove: %v", entries)
	}
}

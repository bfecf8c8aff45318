package store

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
)

// createTestStore creates an in-memory SQLite shard store for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(&Config{
		Type:   DatabaseTypeSQLite,
		SQLite: SQLiteConfig{Dir: ":memory:"},
	}, "default")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fixedClock pins the store clock so timestamp assertions are exact.
func fixedClock(s *Store, at int64) func(int64) {
	current := at
	s.now = func() int64 { return current }
	return func(next int64) { current = next }
}

func expectCode(t *testing.T, err error, code fserrors.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if got := fserrors.CodeOf(err); got != code {
		t.Fatalf("expected %s, got %s (%v)", code, got, err)
	}
}

func TestNew(t *testing.T) {
	t.Run("default config uses sqlite", func(t *testing.T) {
		cfg := &Config{}
		cfg.ApplyDefaults()
		if cfg.Type != DatabaseTypeSQLite {
			t.Errorf("expected sqlite, got %s", cfg.Type)
		}
	})

	t.Run("invalid type fails", func(t *testing.T) {
		_, err := New(&Config{Type: "oracle"}, "default")
		if err == nil {
			t.Error("expected error for unsupported database type")
		}
	})

	t.Run("empty shard id fails", func(t *testing.T) {
		_, err := New(&Config{
			Type:   DatabaseTypeSQLite,
			SQLite: SQLiteConfig{Dir: ":memory:"},
		}, "")
		if err == nil {
			t.Error("expected error for empty shard id")
		}
	})
}

func TestSanitizeShardID(t *testing.T) {
	safe := regexp.MustCompile(`^[a-z0-9_]+$`)

	t.Run("plain ids pass through", func(t *testing.T) {
		for _, id := range []string{"alice", "user42", "a_b"} {
			if got := sanitizeShardID(id); got != id {
				t.Errorf("sanitizeShardID(%q) = %q, want unchanged", id, got)
			}
		}
	})

	t.Run("output is a safe identifier", func(t *testing.T) {
		for _, id := range []string{"Alice", "a-b.c", "über", "a b"} {
			if got := sanitizeShardID(id); !safe.MatchString(got) {
				t.Errorf("sanitizeShardID(%q) = %q, not a safe identifier", id, got)
			}
		}
	})

	t.Run("distinct ids keep distinct storage", func(t *testing.T) {
		pairs := [][2]string{
			{"Alice", "alice"},
			{"a-b", "a.b"},
			{"a-b", "a_b"},
		}
		for _, p := range pairs {
			if sanitizeShardID(p[0]) == sanitizeShardID(p[1]) {
				t.Errorf("sanitizeShardID collapses %q and %q", p[0], p[1])
			}
		}
	})

	t.Run("stable across calls", func(t *testing.T) {
		if sanitizeShardID("Alice") != sanitizeShardID("Alice") {
			t.Error("sanitizeShardID is not deterministic")
		}
	})
}

func TestMkdir(t *testing.T) {
	ctx := context.Background()

	t.Run("root is a no-op", func(t *testing.T) {
		s := createTestStore(t)
		created, err := s.Mkdir(ctx, "/", false, 0)
		if err != nil {
			t.Fatalf("mkdir /: %v", err)
		}
		if created != "" {
			t.Errorf("expected nothing created, got %q", created)
		}
	})

	t.Run("creates a top-level directory", func(t *testing.T) {
		s := createTestStore(t)
		created, err := s.Mkdir(ctx, "/tmp", false, 0)
		if err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if created != "/tmp" {
			t.Errorf("created = %q, want /tmp", created)
		}

		info, err := s.Stat(ctx, "/tmp")
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected a directory")
		}
		if info.Mode != DefaultDirMode {
			t.Errorf("mode = %o, want %o", info.Mode, DefaultDirMode)
		}
		if info.Size != 0 {
			t.Errorf("directory size = %d, want 0", info.Size)
		}
	})

	t.Run("missing parent without recursive", func(t *testing.T) {
		s := createTestStore(t)
		_, err := s.Mkdir(ctx, "/a/b/c", false, 0)
		expectCode(t, err, fserrors.ErrParentMissing)
	})

	t.Run("recursive creates the chain and reports the shallowest", func(t *testing.T) {
		s := createTestStore(t)
		created, err := s.Mkdir(ctx, "/a/b/c", true, 0o755)
		if err != nil {
			t.Fatalf("mkdir -p: %v", err)
		}
		if created != "/a" {
			t.Errorf("created = %q, want /a", created)
		}

		for _, p := range []string{"/a", "/a/b", "/a/b/c"} {
			info, err := s.Stat(ctx, p)
			if err != nil {
				t.Fatalf("stat %s: %v", p, err)
			}
			if !info.IsDir() {
				t.Errorf("%s is not a directory", p)
			}
			if info.Mode != 0o755 {
				t.Errorf("%s mode = %o, want 755", p, info.Mode)
			}
		}
	})

	t.Run("existing directory is idempotent", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/a/b", true, 0); err != nil {
			t.Fatalf("first mkdir: %v", err)
		}
		created, err := s.Mkdir(ctx, "/a/b", true, 0)
		if err != nil {
			t.Fatalf("second mkdir: %v", err)
		}
		if created != "" {
			t.Errorf("second mkdir created %q, want nothing", created)
		}
	})

	t.Run("file occupying the path", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.WriteFile(ctx, "/f", []byte("x"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		_, err := s.Mkdir(ctx, "/f", false, 0)
		expectCode(t, err, fserrors.ErrAlreadyExists)
	})

	t.Run("file in the ancestor chain", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.WriteFile(ctx, "/f", []byte("x"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		_, err := s.Mkdir(ctx, "/f/sub", true, 0)
		expectCode(t, err, fserrors.ErrAlreadyExists)
	})
}

func TestReadDir(t *testing.T) {
	ctx := context.Background()

	t.Run("missing directory", func(t *testing.T) {
		s := createTestStore(t)
		_, err := s.ReadDir(ctx, "/nope")
		expectCode(t, err, fserrors.ErrNotFound)
	})

	t.Run("file is not a directory", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.WriteFile(ctx, "/f", nil, 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		_, err := s.ReadDir(ctx, "/f")
		expectCode(t, err, fserrors.ErrNotADirectory)
	})

	t.Run("sorted children without grandchildren", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/dir/sub", true, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := s.WriteFile(ctx, "/dir/z.txt", []byte("z"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := s.WriteFile(ctx, "/dir/a.txt", []byte("a"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := s.WriteFile(ctx, "/dir/sub/deep.txt", []byte("d"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}

		entries, err := s.ReadDir(ctx, "/dir")
		if err != nil {
			t.Fatalf("readdir: %v", err)
		}
		want := []string{"a.txt", "sub", "z.txt"}
		if len(entries) != len(want) {
			t.Fatalf("got %d entries, want %d", len(entries), len(want))
		}
		for i, name := range want {
			if entries[i].Name != name {
				t.Errorf("entries[%d] = %q, want %q", i, entries[i].Name, name)
			}
		}
		if !entries[1].IsDir() {
			t.Error("sub should report as a directory")
		}
		if entries[0].IsDir() {
			t.Error("a.txt should report as a file")
		}
	})

	t.Run("root lists top-level entries", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/one", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		entries, err := s.ReadDir(ctx, "/")
		if err != nil {
			t.Fatalf("readdir /: %v", err)
		}
		if len(entries) != 1 || entries[0].Name != "one" {
			t.Errorf("entries = %v", entries)
		}
	})
}

func TestStatRoot(t *testing.T) {
	s := createTestStore(t)
	info, err := s.Stat(context.Background(), "/")
	if err != nil {
		t.Fatalf("stat /: %v", err)
	}
	if !info.IsDir() {
		t.Error("root must be a directory")
	}
}

func TestWriteAndReadFile(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		s := createTestStore(t)
		payload := []byte("hello world")
		if err := s.WriteFile(ctx, "/hello.txt", payload, 0); err != nil {
			t.Fatalf("write: %v", err)
		}

		got, err := s.ReadFile(ctx, "/hello.txt")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("read %q, want %q", got, payload)
		}

		info, err := s.Stat(ctx, "/hello.txt")
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Size != int64(len(payload)) {
			t.Errorf("size = %d, want %d", info.Size, len(payload))
		}
		if info.Mode != DefaultFileMode {
			t.Errorf("mode = %o, want %o", info.Mode, DefaultFileMode)
		}
	})

	t.Run("empty content reads as empty slice", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.WriteFile(ctx, "/empty", nil, 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		got, err := s.ReadFile(ctx, "/empty")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("got %v, want empty non-nil slice", got)
		}
	})

	t.Run("missing parent", func(t *testing.T) {
		s := createTestStore(t)
		err := s.WriteFile(ctx, "/no/such/file", []byte("x"), 0)
		expectCode(t, err, fserrors.ErrParentMissing)
	})

	t.Run("file as parent", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.WriteFile(ctx, "/f", []byte("x"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		err := s.WriteFile(ctx, "/f/child", []byte("x"), 0)
		expectCode(t, err, fserrors.ErrParentMissing)
	})

	t.Run("writing over a directory", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/dir", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		err := s.WriteFile(ctx, "/dir", []byte("x"), 0)
		expectCode(t, err, fserrors.ErrNotAFile)
	})

	t.Run("reading a directory", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/dir", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		_, err := s.ReadFile(ctx, "/dir")
		expectCode(t, err, fserrors.ErrNotAFile)
	})

	t.Run("reading a missing file", func(t *testing.T) {
		s := createTestStore(t)
		_, err := s.ReadFile(ctx, "/nope")
		expectCode(t, err, fserrors.ErrNotFound)
	})

	t.Run("overwrite preserves ctime and refreshes mtime", func(t *testing.T) {
		s := createTestStore(t)
		advance := fixedClock(s, 1000)

		if err := s.WriteFile(ctx, "/f", []byte("one"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}

		advance(2000)
		if err := s.WriteFile(ctx, "/f", []byte("two!"), 0o640); err != nil {
			t.Fatalf("overwrite: %v", err)
		}

		info, err := s.Stat(ctx, "/f")
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Ctime != 1000 {
			t.Errorf("ctime = %d, want 1000 (preserved)", info.Ctime)
		}
		if info.Mtime != 2000 || info.Atime != 2000 {
			t.Errorf("mtime/atime = %d/%d, want 2000/2000", info.Mtime, info.Atime)
		}
		if info.Size != 4 {
			t.Errorf("size = %d, want 4", info.Size)
		}
		if info.Mode != 0o640 {
			t.Errorf("mode = %o, want 640", info.Mode)
		}
	})

	t.Run("read bumps atime", func(t *testing.T) {
		s := createTestStore(t)
		advance := fixedClock(s, 1000)

		if err := s.WriteFile(ctx, "/f", []byte("x"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}

		advance(5000)
		if _, err := s.ReadFile(ctx, "/f"); err != nil {
			t.Fatalf("read: %v", err)
		}

		info, err := s.Stat(ctx, "/f")
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Atime != 5000 {
			t.Errorf("atime = %d, want 5000", info.Atime)
		}
		if info.Mtime != 1000 {
			t.Errorf("mtime = %d, want 1000 (unchanged)", info.Mtime)
		}
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("missing path", func(t *testing.T) {
		s := createTestStore(t)
		err := s.Remove(ctx, "/does/not/exist", false, false)
		expectCode(t, err, fserrors.ErrNotFound)
	})

	t.Run("missing path with force", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.Remove(ctx, "/does/not/exist", false, true); err != nil {
			t.Errorf("force remove of missing path: %v", err)
		}
	})

	t.Run("file", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.WriteFile(ctx, "/f", []byte("x"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := s.Remove(ctx, "/f", false, false); err != nil {
			t.Fatalf("remove: %v", err)
		}
		_, err := s.Stat(ctx, "/f")
		expectCode(t, err, fserrors.ErrNotFound)
	})

	t.Run("non-empty directory without recursive", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/dir", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := s.WriteFile(ctx, "/dir/f", []byte("x"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		err := s.Remove(ctx, "/dir", false, false)
		expectCode(t, err, fserrors.ErrNotEmpty)
	})

	t.Run("empty directory without recursive", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/dir", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := s.Remove(ctx, "/dir", false, false); err != nil {
			t.Fatalf("remove empty dir: %v", err)
		}
	})

	t.Run("recursive removes the whole subtree", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/dir/sub/deep", true, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := s.WriteFile(ctx, "/dir/sub/f", []byte("x"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}

		if err := s.Remove(ctx, "/dir", true, false); err != nil {
			t.Fatalf("remove -r: %v", err)
		}
		for _, p := range []string{"/dir", "/dir/sub", "/dir/sub/deep", "/dir/sub/f"} {
			if _, err := s.Stat(ctx, p); fserrors.CodeOf(err) != fserrors.ErrNotFound {
				t.Errorf("%s still present after recursive remove", p)
			}
		}
	})

	t.Run("case-variant sibling survives", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/data", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := s.WriteFile(ctx, "/data/x", []byte("x"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := s.Mkdir(ctx, "/DATA", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := s.WriteFile(ctx, "/DATA/keep.txt", []byte("keep"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}

		if err := s.Remove(ctx, "/data", true, false); err != nil {
			t.Fatalf("remove -r: %v", err)
		}
		got, err := s.ReadFile(ctx, "/DATA/keep.txt")
		if err != nil {
			t.Fatalf("/DATA/keep.txt destroyed by recursive remove of /data: %v", err)
		}
		if string(got) != "keep" {
			t.Errorf("/DATA/keep.txt = %q", got)
		}
	})

	t.Run("sibling with common prefix survives", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/a/b", true, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := s.WriteFile(ctx, "/a/b2", []byte("keep"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}

		if err := s.Remove(ctx, "/a/b", true, false); err != nil {
			t.Fatalf("remove: %v", err)
		}
		if _, err := s.Stat(ctx, "/a/b2"); err != nil {
			t.Errorf("/a/b2 was removed by a subtree delete of /a/b: %v", err)
		}
	})

	t.Run("root is refused", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.Remove(ctx, "/", true, true); err == nil {
			t.Error("expected error removing root")
		}
	})
}

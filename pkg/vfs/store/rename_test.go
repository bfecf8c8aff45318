package store

import (
	"bytes"
	"context"
	"testing"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
)

func TestRenameFile(t *testing.T) {
	ctx := context.Background()

	t.Run("missing source", func(t *testing.T) {
		s := createTestStore(t)
		err := s.Rename(ctx, "/nope", "/dest")
		expectCode(t, err, fserrors.ErrNotFound)
	})

	t.Run("missing destination parent", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.WriteFile(ctx, "/f", []byte("x"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		err := s.Rename(ctx, "/f", "/no/such/dir/f")
		expectCode(t, err, fserrors.ErrParentMissing)
	})

	t.Run("moves content and metadata", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.WriteFile(ctx, "/old.txt", []byte("payload"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := s.Mkdir(ctx, "/dir", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}

		if err := s.Rename(ctx, "/old.txt", "/dir/new.txt"); err != nil {
			t.Fatalf("rename: %v", err)
		}

		if _, err := s.Stat(ctx, "/old.txt"); fserrors.CodeOf(err) != fserrors.ErrNotFound {
			t.Error("source still present after rename")
		}
		got, err := s.ReadFile(ctx, "/dir/new.txt")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !bytes.Equal(got, []byte("payload")) {
			t.Errorf("content = %q", got)
		}
		info, err := s.Stat(ctx, "/dir/new.txt")
		if err != nil {
			t.Fatalf("stat: %v", err)
		}
		if info.Mode != 0o600 {
			t.Errorf("mode = %o, want 600", info.Mode)
		}
		if info.Name != "new.txt" {
			t.Errorf("name = %q, want new.txt", info.Name)
		}
	})

	t.Run("replaces an existing file", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.WriteFile(ctx, "/src", []byte("new"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := s.WriteFile(ctx, "/dst", []byte("old"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}

		if err := s.Rename(ctx, "/src", "/dst"); err != nil {
			t.Fatalf("rename: %v", err)
		}
		got, err := s.ReadFile(ctx, "/dst")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(got) != "new" {
			t.Errorf("content = %q, want new", got)
		}
	})

	t.Run("directory destination is refused", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.WriteFile(ctx, "/f", []byte("x"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := s.Mkdir(ctx, "/dir", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		err := s.Rename(ctx, "/f", "/dir")
		expectCode(t, err, fserrors.ErrAlreadyExists)
	})

	t.Run("same path is a no-op", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.WriteFile(ctx, "/f", []byte("x"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := s.Rename(ctx, "/f", "/f"); err != nil {
			t.Errorf("rename to self: %v", err)
		}
	})
}

func TestRenameDirectory(t *testing.T) {
	ctx := context.Background()

	// seed builds /src with nested children and a sibling /src2 that must
	// never be touched by a rename of /src.
	seed := func(t *testing.T, s *Store) {
		t.Helper()
		if _, err := s.Mkdir(ctx, "/src/nested/deep", true, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := s.WriteFile(ctx, "/src/top.txt", []byte("top"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := s.WriteFile(ctx, "/src/nested/mid.txt", []byte("mid"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := s.WriteFile(ctx, "/src/nested/deep/leaf.txt", []byte("leaf"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := s.WriteFile(ctx, "/src2", []byte("sibling"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	t.Run("relocates every descendant", func(t *testing.T) {
		s := createTestStore(t)
		seed(t, s)

		if err := s.Rename(ctx, "/src", "/moved"); err != nil {
			t.Fatalf("rename: %v", err)
		}

		wantFiles := map[string]string{
			"/moved/top.txt":              "top",
			"/moved/nested/mid.txt":       "mid",
			"/moved/nested/deep/leaf.txt": "leaf",
		}
		for p, content := range wantFiles {
			got, err := s.ReadFile(ctx, p)
			if err != nil {
				t.Fatalf("read %s: %v", p, err)
			}
			if string(got) != content {
				t.Errorf("%s = %q, want %q", p, got, content)
			}
		}

		entries, err := s.ReadDir(ctx, "/moved")
		if err != nil {
			t.Fatalf("readdir: %v", err)
		}
		if len(entries) != 2 || entries[0].Name != "nested" || entries[1].Name != "top.txt" {
			t.Errorf("readdir /moved = %v", entries)
		}

		for _, p := range []string{"/src", "/src/top.txt", "/src/nested"} {
			if _, err := s.Stat(ctx, p); fserrors.CodeOf(err) != fserrors.ErrNotFound {
				t.Errorf("%s still present after rename", p)
			}
		}
	})

	t.Run("sibling with common prefix is untouched", func(t *testing.T) {
		s := createTestStore(t)
		seed(t, s)

		if err := s.Rename(ctx, "/src", "/moved"); err != nil {
			t.Fatalf("rename: %v", err)
		}
		got, err := s.ReadFile(ctx, "/src2")
		if err != nil {
			t.Fatalf("sibling /src2 broken by rename: %v", err)
		}
		if string(got) != "sibling" {
			t.Errorf("/src2 = %q", got)
		}
	})

	t.Run("multibyte directory name", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/café", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := s.WriteFile(ctx, "/café/menu.txt", []byte("carte"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}

		if err := s.Rename(ctx, "/café", "/bar"); err != nil {
			t.Fatalf("rename: %v", err)
		}

		// The descendant must stay reachable by path, not just visible in
		// a listing with a mangled prefix.
		got, err := s.ReadFile(ctx, "/bar/menu.txt")
		if err != nil {
			t.Fatalf("descendant lost after rename: %v", err)
		}
		if string(got) != "carte" {
			t.Errorf("content = %q, want carte", got)
		}
		entries, err := s.ReadDir(ctx, "/bar")
		if err != nil {
			t.Fatalf("readdir: %v", err)
		}
		if len(entries) != 1 || entries[0].Name != "menu.txt" {
			t.Errorf("readdir /bar = %v", entries)
		}
		if _, err := s.Stat(ctx, "/café/menu.txt"); fserrors.CodeOf(err) != fserrors.ErrNotFound {
			t.Error("old path still present after rename")
		}
	})

	t.Run("renaming into a multibyte name", func(t *testing.T) {
		s := createTestStore(t)
		seed(t, s)

		if err := s.Rename(ctx, "/src", "/café"); err != nil {
			t.Fatalf("rename: %v", err)
		}
		for _, p := range []string{"/café/top.txt", "/café/nested/deep/leaf.txt"} {
			if _, err := s.ReadFile(ctx, p); err != nil {
				t.Errorf("read %s: %v", p, err)
			}
		}
	})

	t.Run("case-variant sibling is untouched", func(t *testing.T) {
		s := createTestStore(t)
		seed(t, s)
		if _, err := s.Mkdir(ctx, "/SRC", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := s.WriteFile(ctx, "/SRC/keep.txt", []byte("keep"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}

		if err := s.Rename(ctx, "/src", "/moved"); err != nil {
			t.Fatalf("rename: %v", err)
		}
		got, err := s.ReadFile(ctx, "/SRC/keep.txt")
		if err != nil {
			t.Fatalf("/SRC/keep.txt corrupted by rename of /src: %v", err)
		}
		if string(got) != "keep" {
			t.Errorf("/SRC/keep.txt = %q", got)
		}
	})

	t.Run("into its own subtree is refused", func(t *testing.T) {
		s := createTestStore(t)
		seed(t, s)

		if err := s.Rename(ctx, "/src", "/src/nested/inner"); err == nil {
			t.Error("expected error moving a directory into itself")
		}
	})

	t.Run("paths with LIKE metacharacters", func(t *testing.T) {
		s := createTestStore(t)
		if _, err := s.Mkdir(ctx, "/100%_done", false, 0); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := s.WriteFile(ctx, "/100%_done/report.txt", []byte("r"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := s.WriteFile(ctx, "/100x_done", []byte("decoy"), 0); err != nil {
			t.Fatalf("write: %v", err)
		}

		if err := s.Rename(ctx, "/100%_done", "/archive"); err != nil {
			t.Fatalf("rename: %v", err)
		}
		if _, err := s.ReadFile(ctx, "/archive/report.txt"); err != nil {
			t.Fatalf("descendant missing after rename: %v", err)
		}
		// A '%' treated as a wildcard would have swallowed the decoy.
		if _, err := s.Stat(ctx, "/100x_done"); err != nil {
			t.Errorf("decoy entry damaged by rename: %v", err)
		}
	})

	t.Run("root cannot be renamed", func(t *testing.T) {
		s := createTestStore(t)
		if err := s.Rename(ctx, "/", "/elsewhere"); err == nil {
			t.Error("expected error renaming root")
		}
	})
}

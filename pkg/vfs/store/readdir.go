package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fspath"
)

// ReadDir lists the direct children of the directory at path, sorted by
// name ascending. Grandchildren are never included. The implicit root
// always resolves as a directory.
func (s *Store) ReadDir(ctx context.Context, path string) ([]DirEntry, error) {
	var out []DirEntry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if path != fspath.Root {
			entry, found, err := entryAt(tx, path)
			if err != nil {
				return err
			}
			if !found {
				return fserrors.NewNotFound(path)
			}
			if entry.Kind != KindDirectory {
				return fserrors.NewNotADirectory(path)
			}
		}

		var rows []Entry
		if err := tx.Select("name", "kind").
			Where("parent_path = ?", path).
			Order("name ASC").
			Find(&rows).Error; err != nil {
			return err
		}

		out = make([]DirEntry, 0, len(rows))
		for _, row := range rows {
			out = append(out, DirEntry{Name: row.Name, Kind: row.Kind})
		}
		return nil
	})

	return out, err
}

// Stat returns a metadata snapshot for the entry at path. The implicit
// root reports as a directory with zero timestamps.
func (s *Store) Stat(ctx context.Context, path string) (*Info, error) {
	if path == fspath.Root {
		return &Info{
			Path: fspath.Root,
			Kind: KindDirectory,
			Mode: DefaultDirMode,
		}, nil
	}

	var info *Info
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, found, err := entryAt(tx, path)
		if err != nil {
			return err
		}
		if !found {
			return fserrors.NewNotFound(path)
		}
		info = entry.toInfo()
		return nil
	})

	return info, err
}

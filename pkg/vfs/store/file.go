package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fspath"
)

// ReadFile returns the raw content of the file at path and bumps its
// atime in the same transaction. A directory fails with NotAFile. Files
// that never had content written read as an empty byte slice.
func (s *Store) ReadFile(ctx context.Context, path string) ([]byte, error) {
	var content []byte

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if path == fspath.Root {
			return fserrors.NewNotAFile(path)
		}

		entry, found, err := entryAt(tx, path)
		if err != nil {
			return err
		}
		if !found {
			return fserrors.NewNotFound(path)
		}
		if entry.Kind != KindFile {
			return fserrors.NewNotAFile(path)
		}

		if err := tx.Model(&Entry{}).
			Where("path = ?", path).
			Update("atime", s.now()).Error; err != nil {
			return err
		}

		content = entry.Content
		if content == nil {
			content = []byte{}
		}
		return nil
	})

	return content, err
}

// WriteFile creates or overwrites the file at path with data. The parent
// must resolve to an existing directory (ParentMissing otherwise); a
// directory occupying path fails with NotAFile. Overwriting preserves
// ctime and ownership and refreshes content, size, mode, mtime and atime;
// creation stamps all three timestamps.
func (s *Store) WriteFile(ctx context.Context, path string, data []byte, mode uint32) error {
	if mode == 0 {
		mode = DefaultFileMode
	}
	if path == fspath.Root {
		return fserrors.NewNotAFile(path)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, found, err := entryAt(tx, path)
		if err != nil {
			return err
		}
		if found && entry.Kind != KindFile {
			return fserrors.NewNotAFile(path)
		}

		parent, _ := fspath.Parent(path)
		if err := requireDirectory(tx, parent, path); err != nil {
			return err
		}

		now := s.now()
		if found {
			return tx.Model(&Entry{}).
				Where("path = ?", path).
				Updates(map[string]any{
					"content": data,
					"size":    int64(len(data)),
					"mode":    mode,
					"mtime":   now,
					"atime":   now,
				}).Error
		}

		return tx.Create(&Entry{
			Path:       path,
			ParentPath: parent,
			Name:       fspath.Name(path),
			Kind:       KindFile,
			Content:    data,
			Size:       int64(len(data)),
			Mode:       mode,
			Mtime:      now,
			Ctime:      now,
			Atime:      now,
		}).Error
	})
}

// requireDirectory fails with ParentMissing (reported against opPath)
// unless dir resolves to an existing directory. The implicit root always
// qualifies.
func requireDirectory(tx *gorm.DB, dir, opPath string) error {
	if dir == fspath.Root {
		return nil
	}
	entry, found, err := entryAt(tx, dir)
	if err != nil {
		return err
	}
	if !found || entry.Kind != KindDirectory {
		return fserrors.NewParentMissing(opPath)
	}
	return nil
}

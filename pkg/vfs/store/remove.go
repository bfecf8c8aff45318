package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fspath"
)

// Remove deletes the entry at path. A missing path fails with NotFound
// unless force, which turns it into a silent success. A non-empty
// directory fails with NotEmpty unless recursive, in which case every
// descendant row is deleted before the directory itself, all in one
// transaction. The implicit root cannot be removed.
func (s *Store) Remove(ctx context.Context, path string, recursive, force bool) error {
	if path == fspath.Root {
		return fmt.Errorf("cannot remove the root directory")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, found, err := entryAt(tx, path)
		if err != nil {
			return err
		}
		if !found {
			if force {
				return nil
			}
			return fserrors.NewNotFound(path)
		}

		if entry.Kind == KindDirectory {
			var children int64
			if err := tx.Model(&Entry{}).
				Where("parent_path = ?", path).
				Count(&children).Error; err != nil {
				return err
			}
			if children > 0 {
				if !recursive {
					return fserrors.NewNotEmpty(path)
				}
				if err := tx.
					Where("path LIKE ? ESCAPE '\\'", subtreePattern(path)).
					Delete(&Entry{}).Error; err != nil {
					return err
				}
			}
		}

		return tx.Where("path = ?", path).Delete(&Entry{}).Error
	})
}

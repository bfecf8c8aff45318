package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fspath"
)

// Rename moves the entry at oldPath to newPath within this shard and bumps
// its mtime. Renaming a directory rewrites every descendant's path and
// parent_path in the same transaction, matching descendants on the segment
// boundary (oldPath + "/") so a sibling like "/a/b2" is never touched by a
// rename of "/a/b".
//
// An existing file at newPath is replaced; an existing directory at
// newPath fails with AlreadyExists.
func (s *Store) Rename(ctx context.Context, oldPath, newPath string) error {
	if oldPath == fspath.Root || newPath == fspath.Root {
		return fmt.Errorf("cannot rename the root directory")
	}
	if oldPath == newPath {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		oldEntry, found, err := entryAt(tx, oldPath)
		if err != nil {
			return err
		}
		if !found {
			return fserrors.NewNotFound(oldPath)
		}

		if oldEntry.Kind == KindDirectory && fspath.IsAncestor(oldPath, newPath) {
			return fmt.Errorf("cannot move directory %s into its own subtree %s", oldPath, newPath)
		}

		newParent, _ := fspath.Parent(newPath)
		if err := requireDirectory(tx, newParent, newPath); err != nil {
			return err
		}

		destEntry, destFound, err := entryAt(tx, newPath)
		if err != nil {
			return err
		}
		if destFound {
			if destEntry.Kind == KindDirectory {
				return fserrors.NewAlreadyExists(newPath)
			}
			if oldEntry.Kind == KindDirectory {
				return fserrors.NewNotADirectory(newPath)
			}
			if err := tx.Where("path = ?", newPath).Delete(&Entry{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&Entry{}).
			Where("path = ?", oldPath).
			Updates(map[string]any{
				"path":        newPath,
				"parent_path": newParent,
				"name":        fspath.Name(newPath),
				"mtime":       s.now(),
			}).Error; err != nil {
			return err
		}

		if oldEntry.Kind != KindDirectory {
			return nil
		}

		// Rewrite every descendant by substituting the old prefix. The cut
		// offset is computed with SQL LENGTH so it counts characters the
		// same way SUBSTR does; a Go byte length would cut mid-rune for
		// multibyte directory names. Direct children have parent_path equal
		// to oldPath, so the same substitution covers both columns: SUBSTR
		// past the prefix yields "" for them and the "/..." remainder for
		// deeper rows.
		return tx.Exec(
			fmt.Sprintf(
				"UPDATE %s SET path = ? || SUBSTR(path, LENGTH(?) + 1), parent_path = ? || SUBSTR(parent_path, LENGTH(?) + 1) WHERE path LIKE ? ESCAPE '\\'",
				s.table,
			),
			newPath, oldPath, newPath, oldPath, subtreePattern(oldPath),
		).Error
	})
}

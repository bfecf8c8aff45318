package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fspath"
)

// CopyFlag modifies copy behavior.
type CopyFlag uint32

const (
	// CopyExcl makes the copy fail with AlreadyExists when the
	// destination is already present instead of overwriting it.
	CopyExcl CopyFlag = 1 << iota
)

// CopyFile copies the file at src to dest within this shard, with
// insert-or-replace semantics at the destination. Content, size, mode and
// ownership are taken from the source; all three timestamps are fresh.
func (s *Store) CopyFile(ctx context.Context, src, dest string, flags CopyFlag) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.copyFileTx(tx, src, dest, flags)
	})
}

func (s *Store) copyFileTx(tx *gorm.DB, src, dest string, flags CopyFlag) error {
	srcEntry, found, err := entryAt(tx, src)
	if err != nil {
		return err
	}
	if !found {
		return fserrors.NewNotFound(src)
	}
	if srcEntry.Kind != KindFile {
		return fserrors.NewNotAFile(src)
	}

	if src == dest {
		return nil
	}

	destEntry, destFound, err := entryAt(tx, dest)
	if err != nil {
		return err
	}
	if destFound {
		if flags&CopyExcl != 0 {
			return fserrors.NewAlreadyExists(dest)
		}
		if destEntry.Kind != KindFile {
			return fserrors.NewNotAFile(dest)
		}
	}

	parent, _ := fspath.Parent(dest)
	if err := requireDirectory(tx, parent, dest); err != nil {
		return err
	}

	if destFound {
		if err := tx.Where("path = ?", dest).Delete(&Entry{}).Error; err != nil {
			return err
		}
	}

	now := s.now()
	return tx.Create(&Entry{
		Path:       dest,
		ParentPath: parent,
		Name:       fspath.Name(dest),
		Kind:       KindFile,
		Content:    append([]byte(nil), srcEntry.Content...),
		Size:       srcEntry.Size,
		Mode:       srcEntry.Mode,
		UID:        srcEntry.UID,
		GID:        srcEntry.GID,
		Mtime:      now,
		Ctime:      now,
		Atime:      now,
	}).Error
}

// CopyTree copies src to dest within this shard. A file source behaves
// exactly like CopyFile. A directory source requires recursive
// (RecursionRequired otherwise): the destination directory chain is
// created first, then every direct child is copied depth-first, preserving
// relative subtree structure. The whole copy is one transaction; flags
// apply to every file copied.
func (s *Store) CopyTree(ctx context.Context, src, dest string, recursive bool, flags CopyFlag) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.copyTreeTx(tx, src, dest, recursive, flags)
	})
}

func (s *Store) copyTreeTx(tx *gorm.DB, src, dest string, recursive bool, flags CopyFlag) error {
	srcEntry, found, err := entryAt(tx, src)
	if err != nil {
		return err
	}
	if !found {
		return fserrors.NewNotFound(src)
	}

	if srcEntry.Kind == KindFile {
		return s.copyFileTx(tx, src, dest, flags)
	}

	if !recursive {
		return fserrors.NewRecursionRequired(src)
	}
	if src == dest || fspath.IsAncestor(src, dest) {
		return fmt.Errorf("cannot copy directory %s into its own subtree %s", src, dest)
	}

	if _, err := s.mkdirTx(tx, dest, true, srcEntry.Mode); err != nil {
		return err
	}

	var children []Entry
	if err := tx.Select("name").
		Where("parent_path = ?", src).
		Order("name ASC").
		Find(&children).Error; err != nil {
		return err
	}

	for _, child := range children {
		if err := s.copyTreeTx(tx, fspath.Join(src, child.Name), fspath.Join(dest, child.Name), true, flags); err != nil {
			return err
		}
	}
	return nil
}

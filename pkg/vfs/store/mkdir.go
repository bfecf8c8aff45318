package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fserrors"
	"github.com/janwilmake/cloudflare-fs/pkg/vfs/fspath"
)

// Mkdir creates the directory at path. Creating an existing directory is a
// no-op success; a file occupying path fails with AlreadyExists. When the
// immediate parent is absent the call fails with ParentMissing unless
// recursive, in which case the whole missing ancestor chain is created with
// the same mode inside one transaction.
//
// The returned string is the shallowest directory actually created, or ""
// when nothing new was created.
func (s *Store) Mkdir(ctx context.Context, path string, recursive bool, mode uint32) (string, error) {
	if mode == 0 {
		mode = DefaultDirMode
	}
	if path == fspath.Root {
		// Root is implicit and always exists.
		return "", nil
	}

	var created string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = s.mkdirTx(tx, path, recursive, mode)
		return err
	})
	return created, err
}

func (s *Store) mkdirTx(tx *gorm.DB, path string, recursive bool, mode uint32) (string, error) {
	if path == fspath.Root {
		return "", nil
	}

	entry, found, err := entryAt(tx, path)
	if err != nil {
		return "", err
	}
	if found {
		if entry.Kind == KindDirectory {
			return "", nil
		}
		return "", fserrors.NewAlreadyExists(path)
	}

	parent, _ := fspath.Parent(path)
	created := ""

	if parent != fspath.Root {
		parentEntry, parentFound, err := entryAt(tx, parent)
		if err != nil {
			return "", err
		}
		switch {
		case !parentFound && !recursive:
			return "", fserrors.NewParentMissing(path)
		case !parentFound:
			created, err = s.mkdirTx(tx, parent, recursive, mode)
			if err != nil {
				return "", err
			}
		case parentEntry.Kind != KindDirectory:
			return "", fserrors.NewParentMissing(path)
		}
	}

	now := s.now()
	row := &Entry{
		Path:       path,
		ParentPath: parent,
		Name:       fspath.Name(path),
		Kind:       KindDirectory,
		Mode:       mode,
		Mtime:      now,
		Ctime:      now,
		Atime:      now,
	}
	if err := tx.Create(row).Error; err != nil {
		return "", err
	}

	if created == "" {
		created = path
	}
	return created, nil
}

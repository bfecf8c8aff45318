package store

// EntryKind distinguishes files from directories.
type EntryKind string

const (
	// KindFile is a regular file entry.
	KindFile EntryKind = "file"

	// KindDirectory is a directory entry.
	KindDirectory EntryKind = "directory"
)

// Default permission modes applied when the caller passes zero.
const (
	DefaultFileMode uint32 = 0o644
	DefaultDirMode  uint32 = 0o777
)

// Entry is the sole persisted entity: one row per file or directory.
//
// The hierarchy is emulated on this flat table. ParentPath is denormalized
// so readdir is a single indexed equality query, and subtree scans for
// recursive copy/rename/remove are prefix-range queries on Path. The root
// directory is implicit and never stored; its children carry ParentPath "/".
//
// Referential integrity (every non-root entry's parent existing as a
// directory at creation time) is enforced procedurally by the operations in
// this package, not by a foreign key, because recursive mkdir auto-creates
// missing parents inside the same transaction.
type Entry struct {
	Path       string    `gorm:"primaryKey;size:4096"`
	ParentPath string    `gorm:"size:4096;index:idx_entries_parent_name,priority:1"`
	Name       string    `gorm:"size:255;index:idx_entries_parent_name,priority:2"`
	Kind       EntryKind `gorm:"size:16;index;not null"`
	Content    []byte    `gorm:"type:blob"` // always nil for directories
	Size       int64     `gorm:"not null;default:0"`
	Mode       uint32    `gorm:"not null"`
	UID        uint32    `gorm:"column:uid;not null;default:0"`
	GID        uint32    `gorm:"column:gid;not null;default:0"`
	Mtime      int64     `gorm:"not null"`
	Ctime      int64     `gorm:"not null"`
	Atime      int64     `gorm:"not null"`
}

// Info is a point-in-time metadata snapshot returned by Stat.
type Info struct {
	Path  string    `json:"path"`
	Name  string    `json:"name"`
	Kind  EntryKind `json:"kind"`
	Size  int64     `json:"size"`
	Mode  uint32    `json:"mode"`
	UID   uint32    `json:"uid"`
	GID   uint32    `json:"gid"`
	Mtime int64     `json:"mtime"`
	Ctime int64     `json:"ctime"`
	Atime int64     `json:"atime"`
}

// IsDir reports whether the entry is a directory.
func (i *Info) IsDir() bool {
	return i.Kind == KindDirectory
}

// IsFile reports whether the entry is a regular file.
func (i *Info) IsFile() bool {
	return i.Kind == KindFile
}

// DirEntry is one readdir result: a child name plus its kind.
type DirEntry struct {
	Name string    `json:"name"`
	Kind EntryKind `json:"kind"`
}

// IsDir reports whether the child is a directory.
func (d DirEntry) IsDir() bool {
	return d.Kind == KindDirectory
}

func (e *Entry) toInfo() *Info {
	return &Info{
		Path:  e.Path,
		Name:  e.Name,
		Kind:  e.Kind,
		Size:  e.Size,
		Mode:  e.Mode,
		UID:   e.UID,
		GID:   e.GID,
		Mtime: e.Mtime,
		Ctime: e.Ctime,
		Atime: e.Atime,
	}
}

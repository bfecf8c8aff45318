package vfs

// MkdirOptions controls Mkdir.
type MkdirOptions struct {
	// Recursive creates missing ancestors as well.
	Recursive bool
	// Mode is the permission mode for created directories; zero means the
	// directory default.
	Mode uint32
}

// WriteOptions controls WriteFileString.
type WriteOptions struct {
	// Encoding names how the string payload is turned into bytes:
	// "utf8" (default), "base64" or "hex".
	Encoding string
	// Mode is the permission mode for the file; zero means the file default.
	Mode uint32
}

// CpOptions controls Cp.
type CpOptions struct {
	// Recursive is required to copy directories.
	Recursive bool
	// Force overwrites existing destination files. Without it an existing
	// destination fails with AlreadyExists.
	Force bool
}

// RmOptions controls Rm.
type RmOptions struct {
	// Recursive is required to remove non-empty directories.
	Recursive bool
	// Force turns removal of a missing path into a silent success.
	Force bool
}

package vfs

// constErr is a string that satisfies error, giving cheap comparable
// sentinel values (`err == vfs.ErrNoSpace`, `errors.Is(err, vfs.ErrNoSpace)`)
// without an allocation per instance.
type constErr string

func (e constErr) Error() string { return string(e) }

// Error taxonomy from the on-disk engine's contract. These are kinds, not
// concrete types: callers compare against these sentinels with errors.Is,
// and every wrapping site uses fmt.Errorf's %w so the chain survives.
const (
	// ErrIOError is a host-file read/write/seek failure.
	ErrIOError = constErr("io error")
	// ErrBadMagic is a superblock magic-number mismatch.
	ErrBadMagic = constErr("bad magic number")
	// ErrCorrupt covers bitmap/inode-count disagreement and unreadable
	// indirect blocks referenced by a live inode.
	ErrCorrupt = constErr("corrupt filesystem state")
	// ErrNoSpace is raised when no free inode or free block remains.
	ErrNoSpace = constErr("no space left")
	// ErrOutOfRange is a block id, inode id, or logical block index beyond
	// the current layout.
	ErrOutOfRange = constErr("out of range")
	// ErrInvalidArgument covers negative offsets, zero-size budgets, etc.
	ErrInvalidArgument = constErr("invalid argument")

	// The following are never raised by the core itself; they exist so
	// external collaborators (directory manager, permission predicate) can
	// surface consistent, comparable errors through the same taxonomy.
	ErrNotFound         = constErr("not found")
	ErrAlreadyExists    = constErr("already exists")
	ErrNotADirectory    = constErr("not a directory")
	ErrPermissionDenied = constErr("permission denied")
)

package vfs

import "fmt"

const ErrNotRegular constErr = "not a regular file"

// FileHandle is a thin reference to an open regular-file inode. Resource
// handle lifecycle (open-file tables, descriptor reference counting) is
// explicitly the caller's responsibility (spec.md §5); this type is just
// enough for a caller to check the file-type invariant before handing an
// inode id to DataIO.
type FileHandle Ino

// OpenFile checks that ino names a regular file and returns a handle to
// it. The core never opens directories through this path.
func OpenFile(table *InodeTable, ino Ino) (FileHandle, error) {
	inode, err := table.Read(ino)
	if err != nil {
		return 0, fmt.Errorf("opening file for ino `%d`: %w", ino, err)
	}
	if inode.FileType != FileTypeRegular {
		return 0, fmt.Errorf("opening file for ino `%d`: %w", ino, ErrNotRegular)
	}
	return FileHandle(inode.InodeID), nil
}

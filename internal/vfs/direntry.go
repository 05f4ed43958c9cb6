package vfs

// DirEntry is the fixed-size on-disk directory record sketched in
// spec.md §6: a filename followed by an inode id, InodeID == INVALID
// marking a free slot. Directory storage, path resolution, and slot
// reclamation are explicitly out of scope for this engine (spec.md §1);
// this type and its codec exist only so the record contract is
// discoverable by an external DirectoryManager.
type DirEntry struct {
	Name    []byte
	InodeID Ino
}

// DirEntrySize is the fixed record size: MAX_FILENAME_LENGTH bytes of name
// followed by a 4-byte inode id.
const DirEntrySize = MaxFilenameLength + 4

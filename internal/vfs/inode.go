package vfs

// FileType is the type tag stored in an inode (spec.md §3): only regular
// files and directories are modeled by this engine.
type FileType int16

const (
	FileTypeRegular FileType = iota
	FileTypeDirectory
)

// Inode is the fixed-size on-disk metadata record for one file or
// directory (spec.md §3, field layout in §6). INVALID (-1) marks an
// unused direct slot or an absent indirect block.
type Inode struct {
	InodeID        Ino
	FileType       FileType
	Permissions    int16 // 9-bit permission mask
	Owner          int16
	LinkCount      int16
	FileSize       Byte
	CTime          int64
	MTime          int64
	ATime          int64
	Direct         [NumDirectBlocks]Block
	SingleIndirect Block
	DoubleIndirect Block
}

// NewInode builds a freshly allocated inode with all block pointers set to
// INVALID, ready to be persisted by InodeTable.Write.
func NewInode(id Ino, fileType FileType, permissions, owner int16, now int64) Inode {
	inode := Inode{
		InodeID:        id,
		FileType:       fileType,
		Permissions:    permissions,
		Owner:          owner,
		LinkCount:      1,
		CTime:          now,
		MTime:          now,
		ATime:          now,
		SingleIndirect: InvalidBlock,
		DoubleIndirect: InvalidBlock,
	}
	for i := range inode.Direct {
		inode.Direct[i] = InvalidBlock
	}
	return inode
}

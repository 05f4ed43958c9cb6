package vfs

import "fmt"

// DecodeSuperblock reverses EncodeSuperblock, validating the magic number
// first (spec.md §4.2 load()).
func DecodeSuperblock(buf []byte) (Superblock, error) {
	magic := getU32(buf, 0)
	if magic != FilesystemMagic {
		return Superblock{}, fmt.Errorf("%w: found `%#x`, want `%#x`", ErrBadMagic, magic, FilesystemMagic)
	}
	return Superblock{
		Magic:             magic,
		BlockSize:         Byte(getI32(buf, 4)),
		InodeSize:         Byte(getI32(buf, 8)),
		TotalBlocks:       getBlock(buf, 12),
		FreeBlocksCount:   getBlock(buf, 16),
		TotalInodes:       getIno(buf, 20),
		FreeInodesCount:   getIno(buf, 24),
		InodeBitmapStart:  getBlock(buf, 28),
		InodeBitmapSpan:   getBlock(buf, 32),
		InodeTableStart:   getBlock(buf, 36),
		FirstDataBlock:    getBlock(buf, 40),
		RootInodeID:       getIno(buf, 44),
		StackTop:          getBlock(buf, 48),
		MaxFilenameLength: getI32(buf, 52),
		MaxPathLength:     getI32(buf, 56),
	}, nil
}

// DecodeInode reverses EncodeInode. inode.InodeID is filled from the
// decoded bytes; callers that know the slot index independently may want
// to cross-check it against that index.
func DecodeInode(buf []byte) Inode {
	var inode Inode
	off := 0
	inode.InodeID = getIno(buf, off)
	off += 4
	inode.FileType = FileType(getI16(buf, off))
	off += 2
	inode.Permissions = getI16(buf, off)
	off += 2
	inode.Owner = getI16(buf, off)
	off += 2
	inode.LinkCount = getI16(buf, off)
	off += 2
	inode.FileSize = Byte(getI64(buf, off))
	off += 8
	inode.CTime = getI64(buf, off)
	off += 8
	inode.MTime = getI64(buf, off)
	off += 8
	inode.ATime = getI64(buf, off)
	off += 8
	for i := range inode.Direct {
		inode.Direct[i] = getBlock(buf, off)
		off += 4
	}
	inode.SingleIndirect = getBlock(buf, off)
	off += 4
	inode.DoubleIndirect = getBlock(buf, off)
	off += 4
	return inode
}

// DecodeGroupBlock reverses EncodeGroupBlock for a group whose ids array
// has capacity N = (B/4)-1.
func DecodeGroupBlock(buf []byte, capacity int32) (count int32, ids []int32) {
	count = getI32(buf, 0)
	ids = make([]int32, capacity)
	off := 4
	for i := int32(0); i < capacity; i++ {
		ids[i] = getI32(buf, off)
		off += 4
	}
	return count, ids
}

// DecodeDirEntry reverses EncodeDirEntry.
func DecodeDirEntry(buf []byte) DirEntry {
	end := 0
	for end < MaxFilenameLength && buf[end] != 0 {
		end++
	}
	name := make([]byte, end)
	copy(name, buf[:end])
	return DirEntry{Name: name, InodeID: getIno(buf, MaxFilenameLength)}
}

package vfs

// SuperblockEncodedSize is the number of bytes the superblock struct
// occupies at the front of block 0; the remainder of the block is zero
// (spec.md §6, "unused tail of block 0 is zero").
const SuperblockEncodedSize = 4 + 14*4

// EncodeSuperblock serialises sb into a buffer of at least blockSize bytes,
// field order exactly as declared in spec.md §3, little-endian throughout.
func EncodeSuperblock(sb *Superblock, blockSize Byte) []byte {
	buf := make([]byte, blockSize)
	putU32(buf, 0, sb.Magic)
	putI32(buf, 4, int32(sb.BlockSize))
	putI32(buf, 8, int32(sb.InodeSize))
	putBlock(buf, 12, sb.TotalBlocks)
	putBlock(buf, 16, sb.FreeBlocksCount)
	putIno(buf, 20, sb.TotalInodes)
	putIno(buf, 24, sb.FreeInodesCount)
	putBlock(buf, 28, sb.InodeBitmapStart)
	putBlock(buf, 32, sb.InodeBitmapSpan)
	putBlock(buf, 36, sb.InodeTableStart)
	putBlock(buf, 40, sb.FirstDataBlock)
	putIno(buf, 44, sb.RootInodeID)
	putBlock(buf, 48, sb.StackTop)
	putI32(buf, 52, sb.MaxFilenameLength)
	putI32(buf, 56, sb.MaxPathLength)
	return buf
}

// InodeEncodedSize is the fixed on-disk inode record size (spec.md §6).
const InodeEncodedSize = 4 + 2 + 2 + 2 + 2 + 8 + 8 + 8 + 8 + NumDirectBlocks*4 + 4 + 4

// EncodeInode serialises inode into a buffer sized inodeSize, in
// declaration order per spec.md §6; the reserved tail is left zero.
func EncodeInode(inode *Inode, inodeSize Byte) []byte {
	buf := make([]byte, inodeSize)
	off := 0
	putIno(buf, off, inode.InodeID)
	off += 4
	putI16(buf, off, int16(inode.FileType))
	off += 2
	putI16(buf, off, inode.Permissions)
	off += 2
	putI16(buf, off, inode.Owner)
	off += 2
	putI16(buf, off, inode.LinkCount)
	off += 2
	putI64(buf, off, int64(inode.FileSize))
	off += 8
	putI64(buf, off, inode.CTime)
	off += 8
	putI64(buf, off, inode.MTime)
	off += 8
	putI64(buf, off, inode.ATime)
	off += 8
	for _, b := range inode.Direct {
		putBlock(buf, off, b)
		off += 4
	}
	putBlock(buf, off, inode.SingleIndirect)
	off += 4
	putBlock(buf, off, inode.DoubleIndirect)
	off += 4
	return buf
}

// EncodeGroupBlock serialises a free group block: count followed by
// ids[N], N = (B/4)-1 (spec.md §6, "Grouped free-list block").
func EncodeGroupBlock(count int32, ids []int32, blockSize Byte) []byte {
	buf := make([]byte, blockSize)
	putI32(buf, 0, count)
	off := 4
	for _, id := range ids {
		putI32(buf, off, id)
		off += 4
	}
	return buf
}

// EncodeDirEntry serialises the fixed-size directory record sketched in
// spec.md §6: `filename[MAX_FILENAME_LENGTH]` followed by `inode_id: i32`.
// Directory-entry storage and path resolution are out of scope for this
// engine (spec.md §1); this codec exists only so the on-disk record
// contract is discoverable by an external DirectoryManager.
func EncodeDirEntry(e *DirEntry) []byte {
	buf := make([]byte, MaxFilenameLength+4)
	n := copy(buf, e.Name)
	for i := n; i < MaxFilenameLength; i++ {
		buf[i] = 0
	}
	putIno(buf, MaxFilenameLength, e.InodeID)
	return buf
}

package vfs

import "testing"

func newTestBlockMap(t *testing.T, start, end Block) (*BlockMap, *BlockAllocator, *Superblock) {
	t.Helper()
	sb := NewSuperblock(DefaultBlockSize, DefaultInodeSize, end, DefaultTotalInodes)
	// See the identical comment in newTestBlockAllocator: free_blocks_count
	// must match the [start, end) range InitFreeList is actually given, not
	// NewSuperblock's own metadata-region arithmetic.
	sb.FreeBlocksCount = end - start
	dev := NewBlockDevice(NewBuffer(nil), sb.BlockSize, sb.TotalBlocks)
	alloc := NewBlockAllocator(dev, &sb)
	if err := alloc.InitFreeList(start, end); err != nil {
		t.Fatalf("InitFreeList(): unexpected err: %v", err)
	}
	return NewBlockMap(dev, &sb, alloc), alloc, &sb
}

func TestBlockMap_ResolveAllocatesDirectBlock(t *testing.T) {
	bm, _, _ := newTestBlockMap(t, 20, 60)
	inode := NewInode(1, FileTypeRegular, 0o644, 0, 1)

	phys, err := bm.Resolve(&inode, 0, true)
	if err != nil {
		t.Fatalf("Resolve(): unexpected err: %v", err)
	}
	if phys == InvalidBlock {
		t.Fatalf("Resolve(): wanted an allocated block; found `InvalidBlock`")
	}
	if inode.Direct[0] != phys {
		t.Fatalf("inode.Direct[0]: wanted `%d`; found `%d`", phys, inode.Direct[0])
	}

	// resolving the same logical block again (no allocation needed) must
	// return the same physical block.
	again, err := bm.Resolve(&inode, 0, false)
	if err != nil {
		t.Fatalf("Resolve() (read-only): unexpected err: %v", err)
	}
	if again != phys {
		t.Fatalf("Resolve() (read-only): wanted `%d`; found `%d`", phys, again)
	}
}

func TestBlockMap_ResolveReadOnlyMissingBlockReturnsInvalid(t *testing.T) {
	bm, _, _ := newTestBlockMap(t, 20, 60)
	inode := NewInode(1, FileTypeRegular, 0o644, 0, 1)

	phys, err := bm.Resolve(&inode, 0, false)
	if err != nil {
		t.Fatalf("Resolve(): unexpected err: %v", err)
	}
	if phys != InvalidBlock {
		t.Fatalf("Resolve(): wanted `InvalidBlock`; found `%d`", phys)
	}
}

func TestBlockMap_RollbackOnExhaustionLeavesNoTrace(t *testing.T) {
	// Only enough free blocks for the double-indirect root (the L1 pointer
	// block) and one L2 pointer block, none left for the terminal data
	// block: the whole chain must
	// roll back, leaving free_blocks_count and the inode's pointers as if
	// the call never happened.
	p := Block(DefaultBlockSize / 4)
	logicalBlock := Block(NumDirectBlocks) + p // first double-indirect-mapped block
	bm, _, sb := newTestBlockMap(t, 20, 22)     // only 2 free blocks available

	inode := NewInode(1, FileTypeRegular, 0o644, 0, 1)
	before := sb.FreeBlocksCount

	_, err := bm.Resolve(&inode, logicalBlock, true)
	if err == nil {
		t.Fatalf("Resolve(): wanted `ErrNoSpace`; found `nil`")
	}

	if wanted, found := before, sb.FreeBlocksCount; wanted != found {
		t.Fatalf("FreeBlocksCount after rollback: wanted `%d`; found `%d`", wanted, found)
	}
	if inode.DoubleIndirect != InvalidBlock {
		t.Fatalf("inode.DoubleIndirect after rollback: wanted `InvalidBlock`; found `%d`", inode.DoubleIndirect)
	}
	for i, d := range inode.Direct {
		if d != InvalidBlock {
			t.Fatalf("inode.Direct[%d] after rollback: wanted `InvalidBlock`; found `%d`", i, d)
		}
	}
}

package vfs

// BlockListIndex is an index within a pointer list: an inode's direct
// array, a single-indirect block's pointer array, or one level of a
// double-indirect block's pointer array.
type BlockListIndex int32

// InodeBlockDirection classifies where a logical block index resolves to
// per spec.md §4.5's address-space table.
type InodeBlockDirection int

const (
	InodeBlockDirect InodeBlockDirection = iota
	InodeBlockSinglyIndirect
	InodeBlockDoublyIndirect
	InodeBlockOutOfRange
)

// BlockPos is the resolved location of a logical block index against the
// direct / single-indirect / double-indirect address space. Only the
// fields relevant to Indirection are meaningful.
type BlockPos struct {
	Indirection InodeBlockDirection
	DirectIndex BlockListIndex
	L1Index     BlockListIndex // index into the single-indirect block, or into the double-indirect L1 block
	L2Index     BlockListIndex // index into the double-indirect L2 pointer block
}

func NewDirectBlockPos(directIndex BlockListIndex) BlockPos {
	return BlockPos{Indirection: InodeBlockDirect, DirectIndex: directIndex}
}

func NewSinglyIndirectBlockPos(l1Index BlockListIndex) BlockPos {
	return BlockPos{Indirection: InodeBlockSinglyIndirect, L1Index: l1Index}
}

func NewDoublyIndirectBlockPos(l1Index, l2Index BlockListIndex) BlockPos {
	return BlockPos{
		Indirection: InodeBlockDoublyIndirect,
		L1Index:     l1Index,
		L2Index:     l2Index,
	}
}

func NewOutOfRangeBlockPos() BlockPos {
	return BlockPos{Indirection: InodeBlockOutOfRange}
}

// BlockPosFromLogicalBlock resolves a logical block index (a file offset
// divided by the block size) against spec.md §4.5's address table:
//
//	[0, 10)              -> direct[i]
//	[10, 10+P)           -> single_indirect -> ptrs[i-10]
//	[10+P, 10+P+P^2)     -> double_indirect -> l1[j/P] -> l2[j%P], j = i-10-P
//	beyond               -> out of range
func BlockPosFromLogicalBlock(pointersPerBlock Block, logicalBlock Block) BlockPos {
	p := pointersPerBlock
	direct := Block(NumDirectBlocks)
	switch {
	case logicalBlock < direct:
		return NewDirectBlockPos(BlockListIndex(logicalBlock))
	case logicalBlock < direct+p:
		return NewSinglyIndirectBlockPos(BlockListIndex(logicalBlock - direct))
	case logicalBlock < direct+p+p*p:
		j := logicalBlock - direct - p
		return NewDoublyIndirectBlockPos(
			BlockListIndex(j/p),
			BlockListIndex(j%p),
		)
	default:
		return NewOutOfRangeBlockPos()
	}
}

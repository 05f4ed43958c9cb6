package vfs

import "github.com/google/uuid"

// Block identifies a fixed-size block on the backing device. INVALID (-1) is
// the sentinel meaning "no block".
type Block int32

// Ino identifies an inode by its position in the inode table.
type Ino int32

// Byte is a byte offset or byte length, kept distinct from Block/Ino so a
// misplaced arithmetic mix (e.g. adding a block count to a byte offset)
// reads wrong at the call site instead of merely being wrong at runtime.
type Byte int64

const (
	// InvalidBlock is the INVALID sentinel for block pointers.
	InvalidBlock Block = -1
	// InvalidIno is the INVALID sentinel for inode references.
	InvalidIno Ino = -1

	// RootInodeID is fixed by the on-disk contract; it is never reassigned.
	RootInodeID Ino = 0

	// BlockIDSize is sizeof(block_id) on disk: a 32-bit little-endian
	// integer (spec.md §6 "Grouped free-list block" and inode direct[10]
	// fields are both i32).
	BlockIDSize Byte = 4

	DefaultBlockSize   Byte = 1024
	DefaultInodeSize   Byte = 128
	DefaultTotalInodes Ino  = 1024

	NumDirectBlocks = 10

	MaxFilenameLength = 255
	MaxPathLength     = 1024

	// FilesystemMagic is the canonical 32-bit magic number stamped into
	// block 0 by format() and checked by load().
	FilesystemMagic uint32 = 0xDA05F50A
)

// Superblock is the canonical in-memory image of block 0. Field order here
// matches the on-disk field order from spec.md §3 exactly; EncodeSuperblock
// and DecodeSuperblock (encode.go/decode.go) serialise them in this order,
// little-endian.
type Superblock struct {
	Magic             uint32
	BlockSize         Byte // B
	InodeSize         Byte // I
	TotalBlocks       Block
	FreeBlocksCount   Block
	TotalInodes       Ino
	FreeInodesCount   Ino
	InodeBitmapStart  Block
	InodeBitmapSpan   Block
	InodeTableStart   Block
	FirstDataBlock    Block
	RootInodeID       Ino
	StackTop          Block
	MaxFilenameLength int32
	MaxPathLength     int32

	// VolumeID never touches the on-disk image (spec.md §6 fixes the
	// superblock's byte layout exactly). It is a domain-stack enrichment
	// generated once at format() time and printed by `vfsctl format`; as it
	// is not stored, a volume opened with Load (as `vfsctl stat` does)
	// carries the zero UUID. See SPEC_FULL.md's DOMAIN STACK section.
	VolumeID uuid.UUID
}

// InodeBitmapSpanBlocks computes Bm = ceil(total_inodes / (B*8)).
func InodeBitmapSpanBlocks(blockSize Byte, totalInodes Ino) Block {
	bitsPerBlock := blockSize * 8
	return Block(DivCiel(Byte(totalInodes), bitsPerBlock))
}

// InodeTableSpanBlocks computes It = ceil(total_inodes * I / B).
func InodeTableSpanBlocks(blockSize, inodeSize Byte, totalInodes Ino) Block {
	return Block(DivCiel(Byte(totalInodes)*inodeSize, blockSize))
}

// NewSuperblock lays out a fresh superblock image per spec.md §3/§4.2 but
// does not touch any storage; format() uses this to derive geometry before
// it starts zeroing regions.
func NewSuperblock(blockSize, inodeSize Byte, totalBlocks Block, totalInodes Ino) Superblock {
	bm := InodeBitmapSpanBlocks(blockSize, totalInodes)
	it := InodeTableSpanBlocks(blockSize, inodeSize, totalInodes)
	tableStart := Block(1) + bm
	d := tableStart + it
	return Superblock{
		Magic:             FilesystemMagic,
		BlockSize:         blockSize,
		InodeSize:         inodeSize,
		TotalBlocks:       totalBlocks,
		FreeBlocksCount:   totalBlocks - d,
		TotalInodes:       totalInodes,
		FreeInodesCount:   totalInodes - 1, // root inode already allocated
		InodeBitmapStart:  1,
		InodeBitmapSpan:   bm,
		InodeTableStart:   tableStart,
		FirstDataBlock:    d,
		RootInodeID:       RootInodeID,
		StackTop:          InvalidBlock,
		MaxFilenameLength: MaxFilenameLength,
		MaxPathLength:     MaxPathLength,
	}
}

// InodesPerBlock returns ipb = B / I.
func (sb *Superblock) InodesPerBlock() Ino {
	return Ino(sb.BlockSize / sb.InodeSize)
}

// InodeLocation returns the table block holding inode i and the byte offset
// of its record within that block.
func (sb *Superblock) InodeLocation(i Ino) (Block, Byte) {
	ipb := sb.InodesPerBlock()
	return sb.InodeTableStart + Block(i/ipb), Byte(i%ipb) * sb.InodeSize
}

// PointersPerBlock returns P = B / sizeof(block_id), the fan-out of one
// indirect block.
func (sb *Superblock) PointersPerBlock() Block {
	return Block(sb.BlockSize / BlockIDSize)
}

// GroupCapacity returns N = (B/4) - 1, the total slot count of one free
// group block's ids array (spec.md §4.3). Slot 0 is always the chain
// link (to the previous group, or InvalidBlock if there is none); the
// remaining N-1 slots hold free data-block ids.
func (sb *Superblock) GroupCapacity() int32 {
	return int32(sb.BlockSize/BlockIDSize) - 1
}

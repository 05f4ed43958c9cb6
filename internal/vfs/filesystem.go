package vfs

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Volume wires together the device, superblock, and the allocator/table/
// block-map/data-io layers built on top of it (spec.md §4 in aggregate).
// It is the thing cmd/vfsctl and tests construct; nothing else in this
// package reaches back into Volume — each collaborator only knows the
// pieces spec.md says it needs.
type Volume struct {
	dev        *BlockDevice
	sb         Superblock
	inodeAlloc *InodeAllocator
	blockAlloc *BlockAllocator
	table      *InodeTable
	blockMap   *BlockMap
	dataIO     *DataIO
	clock      Clock
	logger     *slog.Logger
}

// newVolume wires a Volume's collaborators against a stable address for
// its embedded Superblock. v.sb must never be copied out and back in after
// this point — every collaborator holds &v.sb.
func newVolume(dev *BlockDevice, sb Superblock, clock Clock) *Volume {
	v := &Volume{dev: dev, sb: sb, clock: clock, logger: slog.Default().With("component", "volume")}
	v.inodeAlloc = NewInodeAllocator(dev, &v.sb)
	v.blockAlloc = NewBlockAllocator(dev, &v.sb)
	v.table = NewInodeTable(dev, &v.sb)
	v.blockMap = NewBlockMap(dev, &v.sb, v.blockAlloc)
	v.dataIO = NewDataIO(dev, &v.sb, v.blockMap, v.table, v.blockAlloc, clock)
	return v
}

// Format lays out a brand-new filesystem image over volume: computes the
// superblock geometry, zeroes the inode-bitmap and inode-table regions,
// reserves the root inode id, builds the initial free-block chain, writes
// the root directory inode, and saves the superblock exactly once at the
// end (spec.md §4.2 format()).
func Format(
	volume io.ReadWriteSeeker,
	blockSize, inodeSize Byte,
	totalBlocks Block,
	totalInodes Ino,
	clock Clock,
) (*Volume, error) {
	sb := NewSuperblock(blockSize, inodeSize, totalBlocks, totalInodes)
	if sb.FirstDataBlock >= sb.TotalBlocks {
		return nil, fmt.Errorf(
			"%w: metadata region (%d blocks) leaves no room for data in a %d-block volume",
			ErrNoSpace, sb.FirstDataBlock, sb.TotalBlocks,
		)
	}

	dev := NewBlockDevice(volume, blockSize, totalBlocks)

	zero := make([]byte, blockSize)
	for b := sb.InodeBitmapStart; b < sb.InodeBitmapStart+sb.InodeBitmapSpan; b++ {
		if err := dev.WriteBlock(b, zero); err != nil {
			return nil, fmt.Errorf("formatting: zeroing inode bitmap: %w", err)
		}
	}
	tableSpan := InodeTableSpanBlocks(blockSize, inodeSize, totalInodes)
	for b := sb.InodeTableStart; b < sb.InodeTableStart+tableSpan; b++ {
		if err := dev.WriteBlock(b, zero); err != nil {
			return nil, fmt.Errorf("formatting: zeroing inode table: %w", err)
		}
	}

	sb.VolumeID = uuid.New()
	v := newVolume(dev, sb, clock)

	if err := v.inodeAlloc.MarkReserved(RootInodeID); err != nil {
		return nil, fmt.Errorf("formatting: reserving root inode: %w", err)
	}
	if err := v.blockAlloc.InitFreeList(sb.FirstDataBlock, sb.TotalBlocks); err != nil {
		return nil, fmt.Errorf("formatting: building free list: %w", err)
	}

	root := NewInode(RootInodeID, FileTypeDirectory, 0o755, 0, clock.Now())
	root.LinkCount = 2
	if err := v.table.Write(&root); err != nil {
		return nil, fmt.Errorf("formatting: writing root inode: %w", err)
	}

	if err := SaveSuperblock(dev, &v.sb); err != nil {
		return nil, fmt.Errorf("formatting: %w", err)
	}
	return v, nil
}

// Load reads block 0 off volume, validates the magic number, and wires a
// Volume over the resulting geometry (spec.md §4.2 load()).
func Load(volume io.ReadWriteSeeker, clock Clock) (*Volume, error) {
	buf := make([]byte, SuperblockEncodedSize)
	if err := ReadAt(volume, 0, buf); err != nil {
		return nil, fmt.Errorf("%w: reading superblock: %v", ErrIOError, err)
	}
	sb, err := DecodeSuperblock(buf)
	if err != nil {
		return nil, fmt.Errorf("loading volume: %w", err)
	}
	dev := NewBlockDevice(volume, sb.BlockSize, sb.TotalBlocks)
	return newVolume(dev, sb, clock), nil
}

// Superblock returns a copy of the current in-memory superblock.
func (v *Volume) Superblock() Superblock { return v.sb }

// Device exposes the underlying BlockDevice.
func (v *Volume) Device() *BlockDevice { return v.dev }

// InodeTable exposes the inode table for direct inspection.
func (v *Volume) InodeTable() *InodeTable { return v.table }

// Close releases the backing device.
func (v *Volume) Close() error { return v.dev.Close() }

// AllocateInode reserves a free inode id, write-through (spec.md §4.4).
func (v *Volume) AllocateInode() (Ino, error) { return v.inodeAlloc.Allocate() }

// FreeInode releases inode id i back to the bitmap. Callers must reclaim
// the inode's data blocks first via RemoveInode or DataIO.ClearAllBlocks.
func (v *Volume) FreeInode(i Ino) error { return v.inodeAlloc.Free(i) }

// AllocateBlock reserves a free data block, write-through (spec.md §4.3).
func (v *Volume) AllocateBlock() (Block, error) { return v.blockAlloc.Allocate() }

// FreeBlock releases block id back to the grouped free list.
func (v *Volume) FreeBlock(id Block) error { return v.blockAlloc.Free(id) }

// ReadInode loads inode i's metadata.
func (v *Volume) ReadInode(i Ino) (Inode, error) { return v.table.Read(i) }

// WriteInode persists inode's current in-memory state.
func (v *Volume) WriteInode(inode *Inode) error { return v.table.Write(inode) }

// CreateInode allocates a fresh inode id, builds a new Inode record of the
// given type, and persists it.
func (v *Volume) CreateInode(fileType FileType, permissions, owner int16) (Inode, error) {
	id, err := v.inodeAlloc.Allocate()
	if err != nil {
		return Inode{}, fmt.Errorf("creating inode: %w", err)
	}
	inode := NewInode(id, fileType, permissions, owner, v.clock.Now())
	if fileType == FileTypeDirectory {
		inode.LinkCount = 2
	}
	if err := v.table.Write(&inode); err != nil {
		return Inode{}, fmt.Errorf("creating inode: %w", err)
	}
	return inode, nil
}

// RemoveInode reclaims every data block reachable from inode and then
// frees the inode id itself (spec.md §4.4's ordering requirement: data
// blocks before the inode bit).
func (v *Volume) RemoveInode(inode *Inode) error {
	if err := v.dataIO.ClearAllBlocks(inode); err != nil {
		return fmt.Errorf("removing inode `%d`: %w", inode.InodeID, err)
	}
	if err := v.inodeAlloc.Free(inode.InodeID); err != nil {
		return fmt.Errorf("removing inode `%d`: %w", inode.InodeID, err)
	}
	return nil
}

// Read reads up to len(buf) bytes from inode starting at offset, stopping
// early at the first sparse hole or at file_size (spec.md §4.6).
func (v *Volume) Read(inode *Inode, offset Byte, buf []byte) (int, error) {
	return v.dataIO.Read(inode, offset, buf)
}

// Write writes buf into inode at offset, allocating blocks as needed. The
// second return reports whether file_size grew.
func (v *Volume) Write(inode *Inode, offset Byte, buf []byte) (int, bool, error) {
	return v.dataIO.Write(inode, offset, buf)
}

// Truncate reclaims every block owned by inode and resets file_size to 0.
func (v *Volume) Truncate(inode *Inode) error {
	return v.dataIO.ClearAllBlocks(inode)
}

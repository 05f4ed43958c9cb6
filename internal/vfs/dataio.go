package vfs

import (
	"fmt"
	"log/slog"
)

// DataIO is the partial-block-aware read/write/reclaim path (spec.md
// §4.6). It owns the inode writeback that BlockMap deliberately does not,
// breaking the cyclic ownership called out in spec.md §9.
type DataIO struct {
	dev    *BlockDevice
	sb     *Superblock
	bm     *BlockMap
	table  *InodeTable
	alloc  *BlockAllocator
	clock  Clock
	logger *slog.Logger
}

func NewDataIO(dev *BlockDevice, sb *Superblock, bm *BlockMap, table *InodeTable, alloc *BlockAllocator, clock Clock) *DataIO {
	return &DataIO{
		dev:    dev,
		sb:     sb,
		bm:     bm,
		table:  table,
		alloc:  alloc,
		clock:  clock,
		logger: slog.Default().With("component", "dataio"),
	}
}

// Read implements spec.md §4.6's read(): partial-block-aware, stopping at
// the first sparse hole encountered within [0, file_size) rather than
// zero-filling past it (the "stop" resolution to the open question in
// spec.md §9).
func (d *DataIO) Read(inode *Inode, offset Byte, buf []byte) (int, error) {
	if offset >= inode.FileSize || len(buf) == 0 {
		return 0, nil
	}

	length := Min(Byte(len(buf)), inode.FileSize-offset)
	blockSize := d.sb.BlockSize
	var n Byte

	for n < length {
		cur := offset + n
		logicalBlock := Block(cur / blockSize)
		blockOffset := cur % blockSize

		phys, err := d.bm.Resolve(inode, logicalBlock, false)
		if err != nil {
			return int(n), fmt.Errorf("reading inode `%d`: %w", inode.InodeID, err)
		}
		if phys == InvalidBlock {
			break // sparse hole or truncation race: stop, return what we have
		}

		block := make([]byte, blockSize)
		if err := d.dev.ReadBlock(phys, block); err != nil {
			return int(n), fmt.Errorf("reading inode `%d`: %w", inode.InodeID, err)
		}

		chunk := Min(blockSize-blockOffset, length-n)
		copy(buf[n:n+chunk], block[blockOffset:blockOffset+chunk])
		n += chunk
	}

	if n > 0 {
		inode.ATime = d.clock.Now()
		if err := d.table.Write(inode); err != nil {
			d.logger.Warn("failed to flush inode after read", "inode_id", inode.InodeID, "err", err)
		}
	}
	return int(n), nil
}

// Write implements spec.md §4.6's write(): allocate-on-demand via
// BlockMap, read-modify-write unless the write covers a full block from
// offset 0, size growth tracked via sizeChanged. A data-block write
// failure aborts the loop and returns bytes already written — those bytes
// are not rolled back; only the per-call allocation chain is (spec.md
// §4.5, §7).
func (d *DataIO) Write(inode *Inode, offset Byte, buf []byte) (int, bool, error) {
	if offset < 0 {
		return 0, false, fmt.Errorf("%w: negative offset `%d`", ErrInvalidArgument, offset)
	}
	if len(buf) == 0 {
		return 0, false, nil
	}

	blockSize := d.sb.BlockSize
	length := Byte(len(buf))
	var n Byte
	sizeChanged := false
	pointersChanged := false

	for n < length {
		cur := offset + n
		logicalBlock := Block(cur / blockSize)
		blockOffset := cur % blockSize
		chunk := Min(blockSize-blockOffset, length-n)

		beforeDirect := inode.Direct
		beforeSingle := inode.SingleIndirect
		beforeDouble := inode.DoubleIndirect

		phys, err := d.bm.Resolve(inode, logicalBlock, true)
		if err != nil {
			return int(n), sizeChanged, fmt.Errorf("writing inode `%d`: %w", inode.InodeID, err)
		}
		if beforeDirect != inode.Direct || beforeSingle != inode.SingleIndirect || beforeDouble != inode.DoubleIndirect {
			pointersChanged = true
		}

		var block []byte
		if blockOffset == 0 && chunk == blockSize {
			block = make([]byte, blockSize)
			copy(block, buf[n:n+chunk])
		} else {
			block = make([]byte, blockSize)
			if err := d.dev.ReadBlock(phys, block); err != nil {
				return int(n), sizeChanged, fmt.Errorf("writing inode `%d`: %w", inode.InodeID, err)
			}
			copy(block[blockOffset:blockOffset+chunk], buf[n:n+chunk])
		}

		if err := d.dev.WriteBlock(phys, block); err != nil {
			return int(n), sizeChanged, fmt.Errorf("writing inode `%d`: %w", inode.InodeID, err)
		}
		n += chunk

		if after := cur + chunk; after > inode.FileSize {
			inode.FileSize = after
			sizeChanged = true
		}
	}

	if n > 0 || sizeChanged || pointersChanged {
		now := d.clock.Now()
		inode.MTime = now
		inode.ATime = now
		if err := d.table.Write(inode); err != nil {
			d.logger.Warn("failed to flush inode after write", "inode_id", inode.InodeID, "err", err)
		}
	}
	return int(n), sizeChanged, nil
}

// ClearAllBlocks frees every block reachable from inode (direct, single
// indirect, double indirect, plus their own indirect-metadata blocks),
// resets every top-level pointer to INVALID, and zeroes file_size
// (spec.md §4.6 clear_all_blocks / truncate_to_zero). If an indirect block
// read fails mid-traversal, whatever is reachable is still freed and the
// top-level pointer is still cleared; the failure is logged, not fatal.
func (d *DataIO) ClearAllBlocks(inode *Inode) error {
	for i, b := range inode.Direct {
		if b != InvalidBlock {
			if err := d.alloc.Free(b); err != nil {
				return fmt.Errorf("clearing inode `%d`: %w", inode.InodeID, err)
			}
			inode.Direct[i] = InvalidBlock
		}
	}

	if inode.SingleIndirect != InvalidBlock {
		root := inode.SingleIndirect
		if ptrs, err := d.bm.readPointerBlock(root); err != nil {
			d.logger.Warn("failed to read single-indirect block during clear", "inode_id", inode.InodeID, "block_id", root, "err", err)
		} else {
			for _, p := range ptrs {
				if p != InvalidBlock {
					if err := d.alloc.Free(p); err != nil {
						return fmt.Errorf("clearing inode `%d`: %w", inode.InodeID, err)
					}
				}
			}
		}
		if err := d.alloc.Free(root); err != nil {
			return fmt.Errorf("clearing inode `%d`: %w", inode.InodeID, err)
		}
		inode.SingleIndirect = InvalidBlock
	}

	if inode.DoubleIndirect != InvalidBlock {
		l1Root := inode.DoubleIndirect
		if l1Ptrs, err := d.bm.readPointerBlock(l1Root); err != nil {
			d.logger.Warn("failed to read double-indirect L1 block during clear", "inode_id", inode.InodeID, "block_id", l1Root, "err", err)
		} else {
			for _, l2 := range l1Ptrs {
				if l2 == InvalidBlock {
					continue
				}
				if l2Ptrs, err := d.bm.readPointerBlock(l2); err != nil {
					d.logger.Warn("failed to read double-indirect L2 block during clear", "inode_id", inode.InodeID, "block_id", l2, "err", err)
				} else {
					for _, p := range l2Ptrs {
						if p != InvalidBlock {
							if err := d.alloc.Free(p); err != nil {
								return fmt.Errorf("clearing inode `%d`: %w", inode.InodeID, err)
							}
						}
					}
				}
				if err := d.alloc.Free(l2); err != nil {
					return fmt.Errorf("clearing inode `%d`: %w", inode.InodeID, err)
				}
			}
		}
		if err := d.alloc.Free(l1Root); err != nil {
			return fmt.Errorf("clearing inode `%d`: %w", inode.InodeID, err)
		}
		inode.DoubleIndirect = InvalidBlock
	}

	inode.FileSize = 0
	now := d.clock.Now()
	inode.MTime = now
	inode.ATime = now
	if err := d.table.Write(inode); err != nil {
		return fmt.Errorf("clearing inode `%d`: %w", inode.InodeID, err)
	}
	return nil
}

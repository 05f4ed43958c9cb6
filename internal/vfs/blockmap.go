package vfs

import "fmt"

// BlockMap translates a logical block index within a file into a physical
// block id, optionally allocating along the way (spec.md §4.5). It is a
// pure function over an inode value plus the allocator/device
// capabilities — it owns no state of its own and holds no reference back
// to DataIO, breaking the cyclic ownership the original design fell into
// (spec.md §9).
type BlockMap struct {
	dev   *BlockDevice
	sb    *Superblock
	alloc *BlockAllocator
}

func NewBlockMap(dev *BlockDevice, sb *Superblock, alloc *BlockAllocator) *BlockMap {
	return &BlockMap{dev: dev, sb: sb, alloc: alloc}
}

func (m *BlockMap) readPointerBlock(id Block) ([]Block, error) {
	buf := make([]byte, m.sb.BlockSize)
	if err := m.dev.ReadBlock(id, buf); err != nil {
		return nil, fmt.Errorf("reading indirect block `%d`: %w", id, err)
	}
	p := m.sb.PointersPerBlock()
	ptrs := make([]Block, p)
	off := 0
	for i := range ptrs {
		ptrs[i] = getBlock(buf, off)
		off += 4
	}
	return ptrs, nil
}

func (m *BlockMap) writePointerBlock(id Block, ptrs []Block) error {
	buf := make([]byte, m.sb.BlockSize)
	off := 0
	for _, b := range ptrs {
		putBlock(buf, off, b)
		off += 4
	}
	if err := m.dev.WriteBlock(id, buf); err != nil {
		return fmt.Errorf("writing indirect block `%d`: %w", id, err)
	}
	return nil
}

// pointerFixup records that slot `index` of indirect block `parent` was
// set to a new child pointer during the current call, so rollback can
// restore it to INVALID if something later fails.
type pointerFixup struct {
	parent Block
	index  BlockListIndex
}

// allocTxn accumulates the state Resolve needs to roll back an in-progress
// allocation (spec.md §9: "prefer building each operation as an explicit
// list of allocated-this-call block IDs, freed on the error path").
type allocTxn struct {
	allocated []Block
	fixups    []pointerFixup
}

func (t *allocTxn) alloc(a *BlockAllocator) (Block, error) {
	id, err := a.Allocate()
	if err != nil {
		return InvalidBlock, err
	}
	t.allocated = append(t.allocated, id)
	return id, nil
}

func (t *allocTxn) freshlyAllocated(id Block) bool {
	for _, a := range t.allocated {
		if a == id {
			return true
		}
	}
	return false
}

func (m *BlockMap) rollback(t *allocTxn, inode *Inode, origDirect [NumDirectBlocks]Block, origSingle, origDouble Block) {
	for i := len(t.fixups) - 1; i >= 0; i-- {
		f := t.fixups[i]
		if t.freshlyAllocated(f.parent) {
			continue // parent itself is about to be freed; its content is moot
		}
		if ptrs, err := m.readPointerBlock(f.parent); err == nil {
			ptrs[f.index] = InvalidBlock
			m.writePointerBlock(f.parent, ptrs)
		}
	}
	for i := len(t.allocated) - 1; i >= 0; i-- {
		m.alloc.Free(t.allocated[i])
	}
	inode.Direct = origDirect
	inode.SingleIndirect = origSingle
	inode.DoubleIndirect = origDouble
}

// ensureIndirectRoot returns *ptr, allocating and zero/INVALID-initialising
// a fresh indirect block if *ptr is currently INVALID. The new block is
// fully initialised and written before *ptr is mutated in memory, so a
// reader can never observe a pointer to a half-initialised block.
func (m *BlockMap) ensureIndirectRoot(ptr *Block, t *allocTxn) (Block, error) {
	if *ptr != InvalidBlock {
		return *ptr, nil
	}
	id, err := t.alloc(m.alloc)
	if err != nil {
		return InvalidBlock, err
	}
	p := m.sb.PointersPerBlock()
	blank := make([]Block, p)
	for i := range blank {
		blank[i] = InvalidBlock
	}
	if err := m.writePointerBlock(id, blank); err != nil {
		return InvalidBlock, err
	}
	*ptr = id
	return id, nil
}

// ensurePointerSlot resolves slot `index` of pointer block `parent`,
// allocating and initialising a fresh indirect block if the slot is
// INVALID.
func (m *BlockMap) ensurePointerSlot(parent Block, index BlockListIndex, t *allocTxn) (Block, error) {
	ptrs, err := m.readPointerBlock(parent)
	if err != nil {
		return InvalidBlock, err
	}
	if ptrs[index] != InvalidBlock {
		return ptrs[index], nil
	}
	child, err := t.alloc(m.alloc)
	if err != nil {
		return InvalidBlock, err
	}
	p := m.sb.PointersPerBlock()
	blank := make([]Block, p)
	for i := range blank {
		blank[i] = InvalidBlock
	}
	if err := m.writePointerBlock(child, blank); err != nil {
		return InvalidBlock, err
	}
	ptrs[index] = child
	if err := m.writePointerBlock(parent, ptrs); err != nil {
		return InvalidBlock, err
	}
	t.fixups = append(t.fixups, pointerFixup{parent: parent, index: index})
	return child, nil
}

// ensureDataSlot resolves slot `index` of pointer block `parent` to a
// terminal data block, allocating one if the slot is INVALID.
func (m *BlockMap) ensureDataSlot(parent Block, index BlockListIndex, t *allocTxn) (Block, error) {
	ptrs, err := m.readPointerBlock(parent)
	if err != nil {
		return InvalidBlock, err
	}
	if ptrs[index] != InvalidBlock {
		return ptrs[index], nil
	}
	id, err := t.alloc(m.alloc)
	if err != nil {
		return InvalidBlock, err
	}
	ptrs[index] = id
	if err := m.writePointerBlock(parent, ptrs); err != nil {
		return InvalidBlock, err
	}
	t.fixups = append(t.fixups, pointerFixup{parent: parent, index: index})
	return id, nil
}

// Resolve translates a logical block index to a physical block id. With
// allocate=false, any INVALID pointer along the chain yields (INVALID,
// nil) — the caller infers a sparse hole or EOF. With allocate=true,
// missing blocks are allocated and written top-down, from the inode's
// root pointer toward the data block, which is allocated last; each new
// pointer block is written with every slot INVALID before its parent slot
// or the inode pointer refers to it. Any failure rolls back every block
// allocated during this call and restores the inode's in-memory pointers.
func (m *BlockMap) Resolve(inode *Inode, logicalBlock Block, allocate bool) (Block, error) {
	pos := BlockPosFromLogicalBlock(m.sb.PointersPerBlock(), logicalBlock)
	if pos.Indirection == InodeBlockOutOfRange {
		return InvalidBlock, fmt.Errorf("%w: logical block `%d`", ErrOutOfRange, logicalBlock)
	}

	if !allocate {
		return m.resolveReadOnly(inode, pos)
	}

	origDirect := inode.Direct
	origSingle := inode.SingleIndirect
	origDouble := inode.DoubleIndirect
	t := &allocTxn{}

	var result Block
	var err error
	switch pos.Indirection {
	case InodeBlockDirect:
		if inode.Direct[pos.DirectIndex] == InvalidBlock {
			var id Block
			if id, err = t.alloc(m.alloc); err == nil {
				inode.Direct[pos.DirectIndex] = id
			}
		}
		result = inode.Direct[pos.DirectIndex]
	case InodeBlockSinglyIndirect:
		var root Block
		if root, err = m.ensureIndirectRoot(&inode.SingleIndirect, t); err == nil {
			result, err = m.ensureDataSlot(root, pos.L1Index, t)
		}
	case InodeBlockDoublyIndirect:
		var l1Root, l2Root Block
		if l1Root, err = m.ensureIndirectRoot(&inode.DoubleIndirect, t); err == nil {
			if l2Root, err = m.ensurePointerSlot(l1Root, pos.L1Index, t); err == nil {
				result, err = m.ensureDataSlot(l2Root, pos.L2Index, t)
			}
		}
	}

	if err != nil {
		m.rollback(t, inode, origDirect, origSingle, origDouble)
		return InvalidBlock, err
	}
	return result, nil
}

func (m *BlockMap) resolveReadOnly(inode *Inode, pos BlockPos) (Block, error) {
	switch pos.Indirection {
	case InodeBlockDirect:
		return inode.Direct[pos.DirectIndex], nil
	case InodeBlockSinglyIndirect:
		if inode.SingleIndirect == InvalidBlock {
			return InvalidBlock, nil
		}
		ptrs, err := m.readPointerBlock(inode.SingleIndirect)
		if err != nil {
			return InvalidBlock, err
		}
		return ptrs[pos.L1Index], nil
	case InodeBlockDoublyIndirect:
		if inode.DoubleIndirect == InvalidBlock {
			return InvalidBlock, nil
		}
		l1ptrs, err := m.readPointerBlock(inode.DoubleIndirect)
		if err != nil {
			return InvalidBlock, err
		}
		l2 := l1ptrs[pos.L1Index]
		if l2 == InvalidBlock {
			return InvalidBlock, nil
		}
		l2ptrs, err := m.readPointerBlock(l2)
		if err != nil {
			return InvalidBlock, err
		}
		return l2ptrs[pos.L2Index], nil
	default:
		return InvalidBlock, fmt.Errorf("%w: unresolved position", ErrOutOfRange)
	}
}

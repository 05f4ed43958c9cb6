package vfs

import "fmt"

// BlockAllocator manages the data-block region via a grouped free list
// (spec.md §4.3): a chain of group blocks, each with an N = (B/4)-1 slot
// ids array whose slot 0 is a link to the next group (InvalidBlock for
// the bottommost group) and whose remaining N-1 slots hold free data
// block ids. The global head is the superblock's StackTop.
type BlockAllocator struct {
	dev *BlockDevice
	sb  *Superblock
}

func NewBlockAllocator(dev *BlockDevice, sb *Superblock) *BlockAllocator {
	return &BlockAllocator{dev: dev, sb: sb}
}

func (a *BlockAllocator) readGroup(id Block) (count int32, ids []int32, err error) {
	buf := make([]byte, a.sb.BlockSize)
	if err := a.dev.ReadBlock(id, buf); err != nil {
		return 0, nil, fmt.Errorf("reading free group block `%d`: %w", id, err)
	}
	count, ids = DecodeGroupBlock(buf, a.sb.GroupCapacity())
	return count, ids, nil
}

func (a *BlockAllocator) writeGroup(id Block, count int32, ids []int32) error {
	buf := EncodeGroupBlock(count, ids, a.sb.BlockSize)
	if err := a.dev.WriteBlock(id, buf); err != nil {
		return fmt.Errorf("writing free group block `%d`: %w", id, err)
	}
	return nil
}

// Allocate implements spec.md §4.3's pop algorithm, including the k==1
// tie-break: once a group block's payload is exhausted down to its single
// chain-link entry, the group block itself is recycled as the allocated
// block and stack_top advances to the link.
func (a *BlockAllocator) Allocate() (Block, error) {
	if a.sb.FreeBlocksCount <= 0 || a.sb.StackTop == InvalidBlock {
		return InvalidBlock, fmt.Errorf("%w: no free blocks", ErrNoSpace)
	}

	top := a.sb.StackTop
	count, ids, err := a.readGroup(top)
	if err != nil {
		return InvalidBlock, err
	}

	var result Block
	switch {
	case count > 1:
		count--
		result = Block(ids[count])
		if err := a.writeGroup(top, count, ids); err != nil {
			return InvalidBlock, err
		}
		a.sb.FreeBlocksCount--
	case count == 1:
		link := Block(ids[0])
		a.sb.StackTop = link
		a.sb.FreeBlocksCount--
		result = top
	default:
		return InvalidBlock, fmt.Errorf(
			"%w: group block `%d` has count `0` but is stack_top",
			ErrCorrupt, top,
		)
	}

	if err := SaveSuperblock(a.dev, a.sb); err != nil {
		return InvalidBlock, err
	}
	return result, nil
}

// Free implements spec.md §4.3's push algorithm: append to the current
// stack-top group unless it is full or absent, in which case the freed
// block itself becomes the new group header.
func (a *BlockAllocator) Free(id Block) error {
	oldTop := a.sb.StackTop
	capacity := a.sb.GroupCapacity()

	var count int32
	var ids []int32
	full := true
	if oldTop != InvalidBlock {
		c, i, err := a.readGroup(oldTop)
		if err != nil {
			return err
		}
		count, ids = c, i
		full = count >= capacity
	}

	if oldTop == InvalidBlock || full {
		newIds := make([]int32, capacity)
		newIds[0] = int32(oldTop)
		if err := a.writeGroup(id, 1, newIds); err != nil {
			return err
		}
		a.sb.StackTop = id
	} else {
		ids[count] = int32(id)
		count++
		if err := a.writeGroup(oldTop, count, ids); err != nil {
			return err
		}
	}

	a.sb.FreeBlocksCount++
	return SaveSuperblock(a.dev, a.sb)
}

// InitFreeList builds the initial chain of group blocks over [start, end)
// during format (spec.md §4.3 "Initialisation during format"): iterating
// from the highest block id to the lowest, the first group block grabbed
// becomes the terminal (bottom) group, and every subsequent group's
// ids[0] links back to the previous top. The last constructed group
// becomes stack_top.
//
// Every group, terminal included, reserves ids[0] as its chain link
// (InvalidBlock for the terminal group, since there is nothing below it)
// and packs real data-block ids starting at ids[1]. Allocate's count==1
// branch relies on this: ids[0] is either a live group to chain to, or
// InvalidBlock marking "this was the last free block".
func (a *BlockAllocator) InitFreeList(start, end Block) error {
	if start >= end {
		a.sb.StackTop = InvalidBlock
		return nil
	}

	capacity := a.sb.GroupCapacity()
	remaining := make([]Block, 0, int(end-start))
	for id := end - 1; id >= start; id-- {
		remaining = append(remaining, id)
	}

	terminal := remaining[0]
	remaining = remaining[1:]
	ids := make([]int32, capacity)
	ids[0] = int32(InvalidBlock)
	fillCount := Min(int(capacity)-1, len(remaining))
	for k := 0; k < fillCount; k++ {
		ids[1+k] = int32(remaining[k])
	}
	remaining = remaining[fillCount:]
	if err := a.writeGroup(terminal, int32(1+fillCount), ids); err != nil {
		return err
	}
	stackTop := terminal

	for len(remaining) > 0 {
		next := remaining[0]
		remaining = remaining[1:]
		ids := make([]int32, capacity)
		ids[0] = int32(stackTop)
		fillCount := Min(int(capacity)-1, len(remaining))
		for k := 0; k < fillCount; k++ {
			ids[1+k] = int32(remaining[k])
		}
		remaining = remaining[fillCount:]
		if err := a.writeGroup(next, int32(1+fillCount), ids); err != nil {
			return err
		}
		stackTop = next
	}

	a.sb.StackTop = stackTop
	return nil
}

package vfs

import "testing"

func newTestBlockAllocator(t *testing.T, start, end Block) (*BlockAllocator, *Superblock) {
	t.Helper()
	sb := NewSuperblock(DefaultBlockSize, DefaultInodeSize, end, DefaultTotalInodes)
	// NewSuperblock sizes free_blocks_count off its own metadata-region
	// geometry, which has nothing to do with the arbitrary [start, end)
	// range a test picks; set it to match the region InitFreeList actually
	// builds the chain over.
	sb.FreeBlocksCount = end - start
	dev := NewBlockDevice(NewBuffer(nil), sb.BlockSize, sb.TotalBlocks)
	alloc := NewBlockAllocator(dev, &sb)
	if err := alloc.InitFreeList(start, end); err != nil {
		t.Fatalf("InitFreeList(): unexpected err: %v", err)
	}
	return alloc, &sb
}

func TestBlockAllocator_AllocateDecrementsFreeCount(t *testing.T) {
	alloc, sb := newTestBlockAllocator(t, 20, 40)
	before := sb.FreeBlocksCount

	id, err := alloc.Allocate()
	if err != nil {
		t.Fatalf("Allocate(): unexpected err: %v", err)
	}
	if id < 20 || id >= 40 {
		t.Fatalf("Allocate(): wanted block in `[20, 40)`; found `%d`", id)
	}
	if wanted, found := before-1, sb.FreeBlocksCount; wanted != found {
		t.Fatalf("FreeBlocksCount: wanted `%d`; found `%d`", wanted, found)
	}
}

func TestBlockAllocator_AllocateFreeRoundTrip(t *testing.T) {
	alloc, sb := newTestBlockAllocator(t, 20, 40)
	before := sb.FreeBlocksCount

	id, err := alloc.Allocate()
	if err != nil {
		t.Fatalf("Allocate(): unexpected err: %v", err)
	}
	if err := alloc.Free(id); err != nil {
		t.Fatalf("Free(): unexpected err: %v", err)
	}
	if wanted, found := before, sb.FreeBlocksCount; wanted != found {
		t.Fatalf("FreeBlocksCount after round trip: wanted `%d`; found `%d`", wanted, found)
	}

	id2, err := alloc.Allocate()
	if err != nil {
		t.Fatalf("Allocate() (2nd): unexpected err: %v", err)
	}
	if id2 != id {
		t.Fatalf("Allocate() (2nd): wanted freed block `%d` to be reused; found `%d`", id, id2)
	}
}

func TestBlockAllocator_ExhaustsFreeList(t *testing.T) {
	alloc, sb := newTestBlockAllocator(t, 20, 24)
	n := int(sb.FreeBlocksCount)

	for i := 0; i < n; i++ {
		if _, err := alloc.Allocate(); err != nil {
			t.Fatalf("Allocate() (%d/%d): unexpected err: %v", i+1, n, err)
		}
	}
	if _, err := alloc.Allocate(); err == nil {
		t.Fatalf("Allocate(): wanted `ErrNoSpace` once exhausted; found `nil`")
	}
}

func TestBlockAllocator_GroupHeaderRecycledOnLastAlloc(t *testing.T) {
	// a small region forces the tie-break: once a group's payload drains to
	// its single chain-link entry, the group block itself becomes the
	// allocated block (spec.md §4.3).
	alloc, sb := newTestBlockAllocator(t, 20, 40)
	n := int(sb.FreeBlocksCount)
	seen := make(map[Block]bool, n)
	for i := 0; i < n; i++ {
		id, err := alloc.Allocate()
		if err != nil {
			t.Fatalf("Allocate() (%d/%d): unexpected err: %v", i+1, n, err)
		}
		if seen[id] {
			t.Fatalf("Allocate(): block `%d` allocated twice", id)
		}
		seen[id] = true
	}
	if wanted, found := 0, int(sb.FreeBlocksCount); wanted != found {
		t.Fatalf("FreeBlocksCount after draining: wanted `%d`; found `%d`", wanted, found)
	}
}

package vfs

import "fmt"

// SaveSuperblock rewrites block 0 from the in-memory image (spec.md §4.2
// save()). Every allocator mutation that changes the superblock's counts
// or its grouped-free-list chain head calls this before reporting success
// — the write-through discipline spec.md §4.2/§5 mandates.
func SaveSuperblock(dev *BlockDevice, sb *Superblock) error {
	buf := EncodeSuperblock(sb, sb.BlockSize)
	if err := dev.WriteBlock(0, buf); err != nil {
		return fmt.Errorf("saving superblock: %w", err)
	}
	return nil
}

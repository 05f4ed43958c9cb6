package vfs

import "fmt"

// InodeTable serialises/deserialises inodes packed into the inode-table
// region (spec.md §4.5). Reads and writes are read-modify-write at block
// granularity: ipb = B/I inodes share a block, so writing one inode means
// reading its block, splicing the encoded record in, and writing the
// block back whole.
type InodeTable struct {
	dev *BlockDevice
	sb  *Superblock
}

func NewInodeTable(dev *BlockDevice, sb *Superblock) *InodeTable {
	return &InodeTable{dev: dev, sb: sb}
}

func (t *InodeTable) checkRange(i Ino) error {
	if i < 0 || i >= t.sb.TotalInodes {
		return fmt.Errorf("%w: inode id `%d` (total inodes `%d`)", ErrOutOfRange, i, t.sb.TotalInodes)
	}
	return nil
}

// Read loads inode i from the table.
func (t *InodeTable) Read(i Ino) (Inode, error) {
	if err := t.checkRange(i); err != nil {
		return Inode{}, err
	}
	block, off := t.sb.InodeLocation(i)
	buf := make([]byte, t.sb.BlockSize)
	if err := t.dev.ReadBlock(block, buf); err != nil {
		return Inode{}, fmt.Errorf("reading inode `%d`: %w", i, err)
	}
	return DecodeInode(buf[off : off+t.sb.InodeSize]), nil
}

// Write persists inode into its slot, read-modify-write at block
// granularity so sibling inodes packed into the same block are untouched.
func (t *InodeTable) Write(inode *Inode) error {
	if err := t.checkRange(inode.InodeID); err != nil {
		return err
	}
	block, off := t.sb.InodeLocation(inode.InodeID)
	buf := make([]byte, t.sb.BlockSize)
	if err := t.dev.ReadBlock(block, buf); err != nil {
		return fmt.Errorf("writing inode `%d`: %w", inode.InodeID, err)
	}
	copy(buf[off:off+t.sb.InodeSize], EncodeInode(inode, t.sb.InodeSize))
	if err := t.dev.WriteBlock(block, buf); err != nil {
		return fmt.Errorf("writing inode `%d`: %w", inode.InodeID, err)
	}
	return nil
}

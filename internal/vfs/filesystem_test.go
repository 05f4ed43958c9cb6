package vfs

import "testing"

func formatTestVolume(t *testing.T, totalBlocks Block) *Volume {
	t.Helper()
	volume, err := Format(
		NewBuffer(nil),
		DefaultBlockSize,
		DefaultInodeSize,
		totalBlocks,
		DefaultTotalInodes,
		FixedClock(1000),
	)
	if err != nil {
		t.Fatalf("Format(): unexpected err: %v", err)
	}
	return volume
}

func TestFormat_ReservesRootInode(t *testing.T) {
	volume := formatTestVolume(t, 256)

	allocated, err := volume.inodeAlloc.IsAllocated(RootInodeID)
	if err != nil {
		t.Fatalf("IsAllocated(): unexpected err: %v", err)
	}
	if !allocated {
		t.Fatalf("IsAllocated(root): wanted `true`; found `false`")
	}

	root, err := volume.ReadInode(RootInodeID)
	if err != nil {
		t.Fatalf("ReadInode(root): unexpected err: %v", err)
	}
	if wanted, found := FileTypeDirectory, root.FileType; wanted != found {
		t.Fatalf("root.FileType: wanted `%v`; found `%v`", wanted, found)
	}
	if wanted, found := int16(2), root.LinkCount; wanted != found {
		t.Fatalf("root.LinkCount: wanted `%d`; found `%d`", wanted, found)
	}
}

func TestFormat_AllDataBlocksFree(t *testing.T) {
	volume := formatTestVolume(t, 256)
	sb := volume.Superblock()
	wanted := sb.TotalBlocks - sb.FirstDataBlock
	if found := sb.FreeBlocksCount; wanted != found {
		t.Fatalf("FreeBlocksCount: wanted `%d`; found `%d`", wanted, found)
	}
}

func TestLoad_RoundTripsThroughBackingVolume(t *testing.T) {
	backing := NewBuffer(nil)
	formatted, err := Format(backing, DefaultBlockSize, DefaultInodeSize, 256, DefaultTotalInodes, FixedClock(1000))
	if err != nil {
		t.Fatalf("Format(): unexpected err: %v", err)
	}
	wantSB := formatted.Superblock()

	loaded, err := Load(backing, FixedClock(2000))
	if err != nil {
		t.Fatalf("Load(): unexpected err: %v", err)
	}
	foundSB := loaded.Superblock()
	foundSB.VolumeID = wantSB.VolumeID
	if wantSB != foundSB {
		t.Fatalf("Load(): wanted `%+v`; found `%+v`", wantSB, foundSB)
	}
}

func TestCreateRemoveInode(t *testing.T) {
	volume := formatTestVolume(t, 256)

	inode, err := volume.CreateInode(FileTypeRegular, 0o644, 0)
	if err != nil {
		t.Fatalf("CreateInode(): unexpected err: %v", err)
	}
	if inode.InodeID == RootInodeID {
		t.Fatalf("CreateInode(): wanted a non-root inode id; found `%d`", inode.InodeID)
	}

	buf := []byte("hello, file")
	if _, _, err := volume.Write(&inode, 0, buf); err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}

	freeBeforeRemove := volume.Superblock().FreeBlocksCount
	if err := volume.RemoveInode(&inode); err != nil {
		t.Fatalf("RemoveInode(): unexpected err: %v", err)
	}
	if found := volume.Superblock().FreeBlocksCount; found <= freeBeforeRemove {
		t.Fatalf("FreeBlocksCount after RemoveInode(): wanted growth from `%d`; found `%d`", freeBeforeRemove, found)
	}

	allocated, err := volume.inodeAlloc.IsAllocated(inode.InodeID)
	if err != nil {
		t.Fatalf("IsAllocated(): unexpected err: %v", err)
	}
	if allocated {
		t.Fatalf("IsAllocated() after RemoveInode(): wanted `false`; found `true`")
	}
}

package vfs

import "testing"

func TestEncodeDecodeSuperblock_RoundTrips(t *testing.T) {
	sb := NewSuperblock(DefaultBlockSize, DefaultInodeSize, 256, DefaultTotalInodes)
	sb.FreeBlocksCount = 100
	sb.StackTop = 42

	buf := EncodeSuperblock(&sb, sb.BlockSize)
	found, err := DecodeSuperblock(buf)
	if err != nil {
		t.Fatalf("DecodeSuperblock(): unexpected err: %v", err)
	}

	// VolumeID never touches the wire format; zero it on both sides before
	// comparing the rest field-by-field.
	found.VolumeID = sb.VolumeID

	if found != sb {
		t.Fatalf("DecodeSuperblock(): wanted `%+v`; found `%+v`", sb, found)
	}
}

func TestDecodeSuperblock_RejectsBadMagic(t *testing.T) {
	sb := NewSuperblock(DefaultBlockSize, DefaultInodeSize, 256, DefaultTotalInodes)
	buf := EncodeSuperblock(&sb, sb.BlockSize)
	buf[0] ^= 0xff

	if _, err := DecodeSuperblock(buf); err == nil {
		t.Fatalf("DecodeSuperblock(): wanted `ErrBadMagic`; found `nil`")
	}
}

func TestEncodeDecodeInode_RoundTrips(t *testing.T) {
	inode := NewInode(7, FileTypeRegular, 0o644, 1, 1000)
	inode.FileSize = 4096
	inode.Direct[0] = 50
	inode.SingleIndirect = 99

	buf := EncodeInode(&inode, DefaultInodeSize)
	found := DecodeInode(buf[:InodeEncodedSize])

	if found != inode {
		t.Fatalf("DecodeInode(): wanted `%+v`; found `%+v`", inode, found)
	}
}

func TestGroupCapacity(t *testing.T) {
	sb := NewSuperblock(1024, DefaultInodeSize, 256, DefaultTotalInodes)
	if wanted, found := int32(1024/4-1), sb.GroupCapacity(); wanted != found {
		t.Fatalf("GroupCapacity(): wanted `%d`; found `%d`", wanted, found)
	}
}

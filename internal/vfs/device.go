package vfs

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// BlockDevice treats a backing io.ReadWriteSeeker as an array of
// fixed-size blocks (spec.md §4.1). It performs no caching: every call is
// a seek+syscall against the underlying volume, by design — higher layers
// own the write schedule.
type BlockDevice struct {
	volume      io.ReadWriteSeeker
	blockSize   Byte
	totalBlocks Block
	logger      *slog.Logger
}

// NewBlockDevice wraps an already-open volume (a real file or, in tests,
// an in-memory Buffer) without touching its contents.
func NewBlockDevice(volume io.ReadWriteSeeker, blockSize Byte, totalBlocks Block) *BlockDevice {
	return &BlockDevice{
		volume:      volume,
		blockSize:   blockSize,
		totalBlocks: totalBlocks,
		logger:      slog.Default().With("component", "blockdevice"),
	}
}

// OpenBlockDevice opens (or creates) the host file backing the device. If
// the file already exists and is non-empty, its actual size is adopted
// (spec.md §4.1) even if it disagrees with the requested size, and a
// warning is logged; otherwise the file is created and zero-filled to
// exactly requestedSize.
func OpenBlockDevice(path string, blockSize Byte, requestedSize Byte) (*BlockDevice, error) {
	if requestedSize < blockSize {
		return nil, fmt.Errorf("%w: requested size `%d` smaller than block size `%d`", ErrInvalidArgument, requestedSize, blockSize)
	}

	logger := slog.Default().With("component", "blockdevice", "path", path)

	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	switch {
	case err == nil:
		info, statErr := f.Stat()
		if statErr != nil {
			f.Close()
			return nil, fmt.Errorf("%w: stat `%s`: %v", ErrIOError, path, statErr)
		}
		actualSize := Byte(info.Size())
		if actualSize == 0 {
			if err := f.Truncate(int64(requestedSize)); err != nil {
				f.Close()
				return nil, fmt.Errorf("%w: sizing `%s` to `%d`: %v", ErrIOError, path, requestedSize, err)
			}
		} else if actualSize != requestedSize {
			logger.Warn(
				"adopting existing file size instead of requested size",
				"requested_size", requestedSize,
				"actual_size", actualSize,
			)
			requestedSize = actualSize
		}
	case errors.Is(err, os.ErrNotExist):
		f, err = os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("%w: creating `%s`: %v", ErrIOError, path, err)
		}
		if err := f.Truncate(int64(requestedSize)); err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: sizing `%s` to `%d`: %v", ErrIOError, path, requestedSize, err)
		}
	default:
		return nil, fmt.Errorf("%w: opening `%s`: %v", ErrIOError, path, err)
	}

	totalBlocks := Block(requestedSize / blockSize)
	return NewBlockDevice(f, blockSize, totalBlocks), nil
}

func (d *BlockDevice) BlockSize() Byte     { return d.blockSize }
func (d *BlockDevice) TotalBlocks() Block  { return d.totalBlocks }

func (d *BlockDevice) checkRange(id Block) error {
	if id < 0 || id >= d.totalBlocks {
		return fmt.Errorf("%w: block id `%d` (total blocks `%d`)", ErrOutOfRange, id, d.totalBlocks)
	}
	return nil
}

// ReadBlock copies exactly BlockSize() bytes at offset id*BlockSize().
func (d *BlockDevice) ReadBlock(id Block, buf []byte) error {
	if err := d.checkRange(id); err != nil {
		return err
	}
	if err := ReadAt(d.volume, Byte(id)*d.blockSize, buf[:d.blockSize]); err != nil {
		return fmt.Errorf("%w: reading block `%d`: %v", ErrIOError, id, err)
	}
	return nil
}

// WriteBlock writes up to BlockSize() bytes at offset id*BlockSize().
func (d *BlockDevice) WriteBlock(id Block, buf []byte) error {
	if err := d.checkRange(id); err != nil {
		return err
	}
	if err := WriteAt(d.volume, Byte(id)*d.blockSize, buf); err != nil {
		return fmt.Errorf("%w: writing block `%d`: %v", ErrIOError, id, err)
	}
	return nil
}

// Close releases the underlying file handle, if the volume has one.
func (d *BlockDevice) Close() error {
	if closer, ok := d.volume.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

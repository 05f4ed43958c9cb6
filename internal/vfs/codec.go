package vfs

import "encoding/binary"

// Every on-disk multi-byte integer in this engine is little-endian
// (spec.md §6).
var byteOrder = binary.LittleEndian

func putU32(buf []byte, off int, v uint32) { byteOrder.PutUint32(buf[off:], v) }
func getU32(buf []byte, off int) uint32    { return byteOrder.Uint32(buf[off:]) }

func putI32(buf []byte, off int, v int32) { putU32(buf, off, uint32(v)) }
func getI32(buf []byte, off int) int32    { return int32(getU32(buf, off)) }

func putI16(buf []byte, off int, v int16) { byteOrder.PutUint16(buf[off:], uint16(v)) }
func getI16(buf []byte, off int) int16    { return int16(byteOrder.Uint16(buf[off:])) }

func putI64(buf []byte, off int, v int64) { byteOrder.PutUint64(buf[off:], uint64(v)) }
func getI64(buf []byte, off int) int64    { return int64(byteOrder.Uint64(buf[off:])) }

func putBlock(buf []byte, off int, b Block) { putI32(buf, off, int32(b)) }
func getBlock(buf []byte, off int) Block    { return Block(getI32(buf, off)) }

func putIno(buf []byte, off int, i Ino) { putI32(buf, off, int32(i)) }
func getIno(buf []byte, off int) Ino    { return Ino(getI32(buf, off)) }

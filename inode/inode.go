// Package inode defines the 32-byte on-disk inode record and the geometry
// of the inode table. 128 records fit in one block; inode numbers are
// 1-based and the table starts at block 1.
package inode

import (
	"github.com/tchajed/goose/machine/disk"
	"github.com/tchajed/marshal"

	"github.com/mit-pdos/simple-fs/common"
)

// Inode mirrors the on-disk record: little-endian 32-bit fields, in order
// Valid, Size, Direct[5], Indirect. A zero block pointer means the slot is
// unallocated; Indirect of 0 means no indirect block.
type Inode struct {
	Valid    uint32
	Size     uint32
	Direct   [common.PointersPerInode]uint32
	Indirect uint32
}

// BlockNum gives the inode-table block holding inum.
func BlockNum(inum common.Inum) common.Bnum {
	return 1 + (uint64(inum)-1)/common.InodesPerBlock
}

// SlotNum gives the record index of inum within its block.
func SlotNum(inum common.Inum) uint64 {
	return (uint64(inum) - 1) % common.InodesPerBlock
}

// Decode reads the record at slot out of an inode-table block.
func Decode(blk disk.Block, slot uint64) Inode {
	off := slot * common.InodeSz
	dec := marshal.NewDec(blk[off : off+common.InodeSz])
	ino := Inode{}
	ino.Valid = dec.GetInt32()
	ino.Size = dec.GetInt32()
	for i := range ino.Direct {
		ino.Direct[i] = dec.GetInt32()
	}
	ino.Indirect = dec.GetInt32()
	return ino
}

// Encode overwrites the record at slot in an inode-table block. The caller
// is responsible for writing the block back to disk.
func (ino Inode) Encode(blk disk.Block, slot uint64) {
	enc := marshal.NewEnc(common.InodeSz)
	enc.PutInt32(ino.Valid)
	enc.PutInt32(ino.Size)
	for _, p := range ino.Direct {
		enc.PutInt32(p)
	}
	enc.PutInt32(ino.Indirect)
	off := slot * common.InodeSz
	copy(blk[off:off+common.InodeSz], enc.Finish())
}

package fs

import (
	"github.com/tchajed/goose/machine/disk"
	"github.com/tchajed/marshal"

	"github.com/mit-pdos/simple-fs/common"
	"github.com/mit-pdos/simple-fs/util"
)

// Superblock is the decoded form of block 0: the magic identifier and the
// volume geometry. Blocks 1..NInodeBlocks hold the inode table; everything
// after that is the data region.
type Superblock struct {
	Magic        uint32
	NBlocks      uint32
	NInodeBlocks uint32
	NInodes      uint32
}

// MkSuperblock derives the geometry from the device size: one tenth of the
// blocks (rounded up) are reserved for the inode table.
func MkSuperblock(nblocks uint64) Superblock {
	ninodeblocks := util.RoundUp(nblocks, 10)
	return Superblock{
		Magic:        common.FsMagic,
		NBlocks:      uint32(nblocks),
		NInodeBlocks: uint32(ninodeblocks),
		NInodes:      uint32(ninodeblocks * common.InodesPerBlock),
	}
}

func encodeSuper(super Superblock) disk.Block {
	enc := marshal.NewEnc(disk.BlockSize)
	enc.PutInt32(super.Magic)
	enc.PutInt32(super.NBlocks)
	enc.PutInt32(super.NInodeBlocks)
	enc.PutInt32(super.NInodes)
	return enc.Finish()
}

func decodeSuper(blk disk.Block) Superblock {
	dec := marshal.NewDec(blk)
	return Superblock{
		Magic:        dec.GetInt32(),
		NBlocks:      dec.GetInt32(),
		NInodeBlocks: dec.GetInt32(),
		NInodes:      dec.GetInt32(),
	}
}

package inode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/simple-fs/common"
)

func TestGeometry(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint64(1), BlockNum(1))
	assert.Equal(uint64(0), SlotNum(1))
	assert.Equal(uint64(1), BlockNum(128), "inode 128 is the last record of block 1")
	assert.Equal(uint64(127), SlotNum(128))
	assert.Equal(uint64(2), BlockNum(129))
	assert.Equal(uint64(0), SlotNum(129))
}

func TestEncodeDecode(t *testing.T) {
	assert := assert.New(t)
	blk := make(disk.Block, disk.BlockSize)

	ino := Inode{Valid: 1, Size: 24576, Indirect: 99}
	ino.Direct = [common.PointersPerInode]uint32{21, 22, 0, 24, 25}
	ino.Encode(blk, 7)

	assert.Equal(ino, Decode(blk, 7))
	assert.Equal(Inode{}, Decode(blk, 6), "neighboring slots should stay zero")
	assert.Equal(Inode{}, Decode(blk, 8))
}

func TestEncodeLayout(t *testing.T) {
	assert := assert.New(t)
	blk := make(disk.Block, disk.BlockSize)
	ino := Inode{Valid: 1, Size: 0x01020304}
	ino.Encode(blk, 0)

	assert.Equal([]byte{1, 0, 0, 0}, []byte(blk[0:4]), "isvalid is a little-endian i32")
	assert.Equal([]byte{4, 3, 2, 1}, []byte(blk[4:8]), "size is a little-endian i32")
}

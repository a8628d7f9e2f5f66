package common

import (
	"github.com/tchajed/goose/machine/disk"
)

const (
	// FsMagic identifies block 0 as a formatted volume.
	FsMagic uint32 = 0xf0f03410

	InodeSz uint64 = 32 // on-disk size

	InodesPerBlock   uint64 = disk.BlockSize / InodeSz
	PointersPerInode uint64 = 5
	PointersPerBlock uint64 = disk.BlockSize / 4

	// MaxFileSize is the largest file size, in bytes, addressable through
	// the direct pointers plus one singly-indirect block.
	MaxFileSize uint64 = disk.BlockSize * (PointersPerInode + PointersPerBlock)
)

type Inum uint64
type Bnum = uint64

const (
	NULLINUM Inum = 0
	NULLBNUM Bnum = 0
)

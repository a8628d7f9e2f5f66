// Package fs implements a small inode file system over a fixed-size block
// device. Files are anonymous, addressed by 1-based inode number, and laid
// out through five direct pointers plus one singly-indirect block. The
// free-block map is volatile: it is reconstructed from the inode table on
// every mount and never written to disk.
//
// All operations are synchronous and write-through; no state is buffered
// across calls. The handle supports exactly one caller at a time.
package fs

import (
	"github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/simple-fs/alloc"
	"github.com/mit-pdos/simple-fs/common"
	"github.com/mit-pdos/simple-fs/inode"
	"github.com/mit-pdos/simple-fs/util"
)

// FileSys is a handle on one volume. The disk is borrowed: the handle
// never closes it.
type FileSys struct {
	d       disk.Disk
	super   Superblock
	mounted bool
	free    *alloc.Alloc
}

func MkFileSys(d disk.Disk) *FileSys {
	return &FileSys{d: d}
}

// Format writes a fresh superblock and a zeroed inode table, discarding
// whatever the volume held. It refuses on a mounted volume and does not
// mount the result. Returns 1 on success, 0 on failure.
func (fs *FileSys) Format() int {
	if fs.mounted {
		util.DPrintf(5, "Format: volume is mounted\n")
		return 0
	}
	super := MkSuperblock(fs.d.Size())
	zero := make(disk.Block, disk.BlockSize)
	for b := uint64(1); b <= uint64(super.NInodeBlocks); b++ {
		fs.d.Write(b, zero)
	}
	// the superblock goes last so a half-formatted volume never mounts
	fs.d.Write(0, encodeSuper(super))
	fs.super = super
	return 1
}

// Mount validates the superblock and rebuilds the free-block map: block 0,
// the inode-table blocks, every block referenced by a valid inode, and
// every allocated indirect block (plus the pointers it holds) are marked
// used. Returns 1 on success, 0 on a bad magic or if already mounted.
func (fs *FileSys) Mount() int {
	if fs.mounted {
		util.DPrintf(5, "Mount: volume is mounted\n")
		return 0
	}
	super := decodeSuper(fs.d.Read(0))
	if super.Magic != common.FsMagic {
		util.DPrintf(5, "Mount: invalid magic number\n")
		return 0
	}
	free := alloc.MkAlloc(uint64(super.NInodeBlocks)+1, uint64(super.NBlocks))
	for b := uint64(1); b <= uint64(super.NInodeBlocks); b++ {
		blk := fs.d.Read(b)
		for slot := uint64(0); slot < common.InodesPerBlock; slot++ {
			ino := inode.Decode(blk, slot)
			if ino.Valid == 0 {
				continue
			}
			for _, p := range ino.Direct {
				if p != 0 {
					free.MarkUsed(uint64(p))
				}
			}
			if ino.Indirect != 0 {
				free.MarkUsed(uint64(ino.Indirect))
				for _, p := range decodePointers(fs.d.Read(uint64(ino.Indirect))) {
					if p != 0 {
						free.MarkUsed(uint64(p))
					}
				}
			}
		}
	}
	fs.super = super
	fs.free = free
	fs.mounted = true
	return 1
}

// Unmount drops the free-block map. Every mutation is written through, so
// there is nothing to flush.
func (fs *FileSys) Unmount() int {
	if !fs.mounted {
		util.DPrintf(5, "Unmount: volume is not mounted\n")
		return 0
	}
	fs.free = nil
	fs.mounted = false
	return 1
}

func (fs *FileSys) inumOk(inumber int) bool {
	return inumber >= 1 && inumber <= int(fs.super.NInodes)
}

func (fs *FileSys) readInode(inum common.Inum) (disk.Block, inode.Inode) {
	blk := fs.d.Read(inode.BlockNum(inum))
	return blk, inode.Decode(blk, inode.SlotNum(inum))
}

func (fs *FileSys) writeInode(inum common.Inum, blk disk.Block, ino inode.Inode) {
	ino.Encode(blk, inode.SlotNum(inum))
	fs.d.Write(inode.BlockNum(inum), blk)
}

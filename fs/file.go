package fs

import (
	"github.com/mit-pdos/simple-fs/common"
	"github.com/mit-pdos/simple-fs/inode"
	"github.com/mit-pdos/simple-fs/util"
)

// Create claims the first free inode, persists it as a zero-length file,
// and returns its 1-based number. Returns 0 when the table is full or the
// volume is not mounted.
func (fs *FileSys) Create() int {
	if !fs.mounted {
		util.DPrintf(5, "Create: volume is not mounted\n")
		return 0
	}
	for b := uint64(1); b <= uint64(fs.super.NInodeBlocks); b++ {
		blk := fs.d.Read(b)
		for slot := uint64(0); slot < common.InodesPerBlock; slot++ {
			if inode.Decode(blk, slot).Valid != 0 {
				continue
			}
			ino := inode.Inode{Valid: 1}
			ino.Encode(blk, slot)
			fs.d.Write(b, blk)
			return int((b-1)*common.InodesPerBlock + slot + 1)
		}
	}
	util.DPrintf(5, "Create: no free inodes\n")
	return 0
}

// Delete returns the inode's data blocks and its indirect block to the
// free map and invalidates the inode. Block contents are not scrubbed.
// Returns 1 on success, 0 on a precondition failure.
func (fs *FileSys) Delete(inumber int) int {
	if !fs.mounted {
		util.DPrintf(5, "Delete: volume is not mounted\n")
		return 0
	}
	if !fs.inumOk(inumber) {
		util.DPrintf(5, "Delete: invalid inode number %d\n", inumber)
		return 0
	}
	inum := common.Inum(inumber)
	blk, ino := fs.readInode(inum)
	if ino.Valid == 0 {
		util.DPrintf(5, "Delete: inode %d is not valid\n", inumber)
		return 0
	}
	for _, p := range ino.Direct {
		if p != 0 {
			fs.free.FreeNum(uint64(p))
		}
	}
	if ino.Indirect != 0 {
		for _, p := range decodePointers(fs.d.Read(uint64(ino.Indirect))) {
			if p != 0 {
				fs.free.FreeNum(uint64(p))
			}
		}
		fs.free.FreeNum(uint64(ino.Indirect))
	}
	fs.writeInode(inum, blk, inode.Inode{})
	return 1
}

// GetSize reports the file's size in bytes. It returns -1 when the volume
// is not mounted and 0 for an out-of-range inumber or an invalid inode.
func (fs *FileSys) GetSize(inumber int) int {
	if !fs.mounted {
		util.DPrintf(5, "GetSize: volume is not mounted\n")
		return -1
	}
	if !fs.inumOk(inumber) {
		util.DPrintf(5, "GetSize: invalid inode number %d\n", inumber)
		return 0
	}
	_, ino := fs.readInode(common.Inum(inumber))
	if ino.Valid == 0 {
		util.DPrintf(5, "GetSize: inode %d is not valid\n", inumber)
		return 0
	}
	return int(ino.Size)
}

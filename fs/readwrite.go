package fs

import (
	"github.com/tchajed/goose/machine/disk"
	"github.com/tchajed/marshal"

	"github.com/mit-pdos/simple-fs/common"
	"github.com/mit-pdos/simple-fs/util"
)

func decodePointers(blk disk.Block) []uint32 {
	dec := marshal.NewDec(blk)
	ptrs := make([]uint32, common.PointersPerBlock)
	for i := range ptrs {
		ptrs[i] = dec.GetInt32()
	}
	return ptrs
}

func encodePointers(ptrs []uint32) disk.Block {
	enc := marshal.NewEnc(disk.BlockSize)
	for _, p := range ptrs {
		enc.PutInt32(p)
	}
	return enc.Finish()
}

// Read copies up to length bytes of the file into data, starting at the
// byte offset. It returns the number of bytes copied: the requested amount
// clamped to end of file, or 0 on a precondition failure (not mounted, bad
// inumber, invalid inode, offset outside the file).
func (fs *FileSys) Read(inumber int, data []byte, length int, offset int) int {
	if !fs.mounted {
		util.DPrintf(5, "Read: volume is not mounted\n")
		return 0
	}
	if !fs.inumOk(inumber) {
		util.DPrintf(5, "Read: invalid inode number %d\n", inumber)
		return 0
	}
	_, ino := fs.readInode(common.Inum(inumber))
	if ino.Valid == 0 {
		util.DPrintf(5, "Read: inode %d is not valid\n", inumber)
		return 0
	}
	if offset < 0 || offset >= int(ino.Size) {
		util.DPrintf(5, "Read: offset %d outside inode %d\n", offset, inumber)
		return 0
	}
	n := length
	if n > len(data) {
		n = len(data)
	}
	if n > int(ino.Size)-offset {
		n = int(ino.Size) - offset
	}
	if n <= 0 {
		return 0
	}

	var ptrs []uint32 // the indirect block is read at most once per call
	done := 0
	for done < n {
		pos := uint64(offset + done)
		bidx := pos / disk.BlockSize
		boff := pos % disk.BlockSize
		span := util.Min(uint64(n-done), disk.BlockSize-boff)

		var pblk uint32
		if bidx < common.PointersPerInode {
			pblk = ino.Direct[bidx]
		} else {
			if ino.Indirect == 0 {
				break
			}
			if ptrs == nil {
				ptrs = decodePointers(fs.d.Read(uint64(ino.Indirect)))
			}
			pblk = ptrs[bidx-common.PointersPerInode]
		}
		if pblk == 0 {
			// size never extends past the allocated blocks, so an
			// unmapped index inside the file means a corrupt volume
			break
		}
		blk := fs.d.Read(uint64(pblk))
		copy(data[uint64(done):uint64(done)+span], blk[boff:boff+span])
		done += int(span)
	}
	return done
}

// Write copies up to length bytes from data into the file at the byte
// offset, allocating data blocks and the indirect block on demand.
// Appending at exactly end of file is allowed; writing past it is not.
// When the disk fills up mid-write the inode and indirect block are
// flushed as-is and the short byte count is returned.
func (fs *FileSys) Write(inumber int, data []byte, length int, offset int) int {
	if !fs.mounted {
		util.DPrintf(5, "Write: volume is not mounted\n")
		return 0
	}
	if !fs.inumOk(inumber) {
		util.DPrintf(5, "Write: invalid inode number %d\n", inumber)
		return 0
	}
	inum := common.Inum(inumber)
	iblk, ino := fs.readInode(inum)
	if ino.Valid == 0 {
		util.DPrintf(5, "Write: inode %d is not valid\n", inumber)
		return 0
	}
	if offset < 0 || offset > int(ino.Size) {
		util.DPrintf(5, "Write: offset %d outside inode %d\n", offset, inumber)
		return 0
	}
	n := length
	if n > len(data) {
		n = len(data)
	}
	if n <= 0 {
		return 0
	}
	if uint64(n) > common.MaxFileSize-uint64(offset) {
		n = int(common.MaxFileSize) - offset
	}

	// the indirect block is read or allocated at most once, updated in
	// memory, and flushed once after the loop
	var ptrs []uint32
	ptrsDirty := false
	inoDirty := false
	done := 0
	for done < n {
		pos := uint64(offset + done)
		bidx := pos / disk.BlockSize
		boff := pos % disk.BlockSize
		span := util.Min(uint64(n-done), disk.BlockSize-boff)

		var pblk uint32
		fresh := false
		if bidx < common.PointersPerInode {
			pblk = ino.Direct[bidx]
			if pblk == 0 {
				b := fs.free.AllocNum()
				if b == 0 {
					break
				}
				pblk = uint32(b)
				ino.Direct[bidx] = pblk
				inoDirty = true
				fresh = true
			}
		} else {
			if ino.Indirect == 0 {
				b := fs.free.AllocNum()
				if b == 0 {
					break
				}
				ino.Indirect = uint32(b)
				inoDirty = true
				ptrs = make([]uint32, common.PointersPerBlock)
				ptrsDirty = true
			} else if ptrs == nil {
				ptrs = decodePointers(fs.d.Read(uint64(ino.Indirect)))
			}
			k := bidx - common.PointersPerInode
			pblk = ptrs[k]
			if pblk == 0 {
				b := fs.free.AllocNum()
				if b == 0 {
					break
				}
				pblk = uint32(b)
				ptrs[k] = pblk
				ptrsDirty = true
				fresh = true
			}
		}

		var blk disk.Block
		if fresh || span == disk.BlockSize {
			// nothing worth preserving: fully overwritten, or a fresh
			// block whose tail must read back as zeros
			blk = make(disk.Block, disk.BlockSize)
		} else {
			blk = fs.d.Read(uint64(pblk))
		}
		copy(blk[boff:boff+span], data[uint64(done):uint64(done)+span])
		fs.d.Write(uint64(pblk), blk)
		done += int(span)
	}

	if offset+done > int(ino.Size) {
		ino.Size = uint32(offset + done)
		inoDirty = true
	}
	if ptrsDirty {
		fs.d.Write(uint64(ino.Indirect), encodePointers(ptrs))
	}
	if inoDirty {
		fs.writeInode(inum, iblk, ino)
	}
	if done < n {
		util.DPrintf(5, "Write: volume full after %d bytes\n", done)
	}
	return done
}

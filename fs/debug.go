package fs

import (
	"fmt"
	"io"
	"os"

	"github.com/mit-pdos/simple-fs/common"
	"github.com/mit-pdos/simple-fs/inode"
)

// Debug dumps the on-disk state to stdout. It is best-effort and works on
// an unmounted volume: geometry comes from the superblock on disk, not the
// cached copy.
func (fs *FileSys) Debug() {
	fs.DebugTo(os.Stdout)
}

func (fs *FileSys) DebugTo(w io.Writer) {
	super := decodeSuper(fs.d.Read(0))

	fmt.Fprintf(w, "superblock:\n")
	if super.Magic == common.FsMagic {
		fmt.Fprintf(w, "    magic number is valid\n")
	} else {
		fmt.Fprintf(w, "    magic number is invalid\n")
	}
	fmt.Fprintf(w, "    %d blocks\n", super.NBlocks)
	fmt.Fprintf(w, "    %d inode blocks\n", super.NInodeBlocks)
	fmt.Fprintf(w, "    %d inodes\n", super.NInodes)
	if super.Magic != common.FsMagic {
		return
	}

	for b := uint64(1); b <= uint64(super.NInodeBlocks); b++ {
		blk := fs.d.Read(b)
		for slot := uint64(0); slot < common.InodesPerBlock; slot++ {
			ino := inode.Decode(blk, slot)
			if ino.Valid == 0 {
				continue
			}
			fmt.Fprintf(w, "inode %d:\n", (b-1)*common.InodesPerBlock+slot+1)
			fmt.Fprintf(w, "    size: %d bytes\n", ino.Size)
			fmt.Fprintf(w, "    direct blocks:")
			for _, p := range ino.Direct {
				if p != 0 {
					fmt.Fprintf(w, " %d", p)
				}
			}
			fmt.Fprintf(w, "\n")
			if ino.Indirect == 0 {
				fmt.Fprintf(w, "    indirect block: -\n")
				fmt.Fprintf(w, "    indirect data blocks: -\n")
				continue
			}
			fmt.Fprintf(w, "    indirect block: %d\n", ino.Indirect)
			fmt.Fprintf(w, "    indirect data blocks:")
			for _, p := range decodePointers(fs.d.Read(uint64(ino.Indirect))) {
				if p != 0 {
					fmt.Fprintf(w, " %d", p)
				}
			}
			fmt.Fprintf(w, "\n")
		}
	}
}

// Package disk provides block devices backed by a file or by memory.
//
// Both implementations satisfy the machine/disk Disk interface that the
// file-system core is written against. The devices are assumed infallible
// for in-range addresses; once a device exists, syscall failures panic
// rather than surface as errors. Only NewFileDisk returns an error, for a
// failed open, stat or truncate of the image file.
package disk

import (
	"fmt"
	"sync"

	"github.com/tchajed/goose/machine/disk"

	"golang.org/x/sys/unix"
)

var _ disk.Disk = FileDisk{}

// FileDisk is a disk backed by a file (or a raw device node), accessed
// through pread/pwrite at block granularity.
type FileDisk struct {
	fd        int
	numBlocks uint64
}

func NewFileDisk(path string, numBlocks uint64) (FileDisk, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT, 0666)
	if err != nil {
		return FileDisk{}, err
	}
	var stat unix.Stat_t
	err = unix.Fstat(fd, &stat)
	if err != nil {
		return FileDisk{}, err
	}
	if (stat.Mode&unix.S_IFREG) != 0 && uint64(stat.Size) != numBlocks*disk.BlockSize {
		err = unix.Ftruncate(fd, int64(numBlocks*disk.BlockSize))
		if err != nil {
			return FileDisk{}, err
		}
	}
	return FileDisk{fd, numBlocks}, nil
}

func (d FileDisk) Read(a uint64) disk.Block {
	if a >= d.numBlocks {
		panic(fmt.Errorf("out-of-bounds read at %v", a))
	}
	buf := make([]byte, disk.BlockSize)
	_, err := unix.Pread(d.fd, buf, int64(a*disk.BlockSize))
	if err != nil {
		panic("read failed: " + err.Error())
	}
	return buf
}

func (d FileDisk) ReadTo(a uint64, b disk.Block) {
	if a >= d.numBlocks {
		panic(fmt.Errorf("out-of-bounds read at %v", a))
	}
	_, err := unix.Pread(d.fd, b, int64(a*disk.BlockSize))
	if err != nil {
		panic("read failed: " + err.Error())
	}
}

func (d FileDisk) Write(a uint64, v disk.Block) {
	if uint64(len(v)) != disk.BlockSize {
		panic(fmt.Errorf("v is not block sized (%d bytes)", len(v)))
	}
	if a >= d.numBlocks {
		panic(fmt.Errorf("out-of-bounds write at %v", a))
	}
	_, err := unix.Pwrite(d.fd, v, int64(a*disk.BlockSize))
	if err != nil {
		panic("write failed: " + err.Error())
	}
}

func (d FileDisk) Size() uint64 {
	return d.numBlocks
}

func (d FileDisk) Barrier() {
	// NOTE: on macOS, this flushes to the drive but doesn't actually issue a
	// disk barrier; see https://golang.org/src/internal/poll/fd_fsync_darwin.go
	// for more details. The correct replacement is to issue a fcntl syscall with
	// cmd F_FULLFSYNC.
	err := unix.Fsync(d.fd)
	if err != nil {
		panic("file sync failed: " + err.Error())
	}
}

func (d FileDisk) Close() {
	err := unix.Close(d.fd)
	if err != nil {
		panic(err)
	}
}

var _ disk.Disk = MemDisk{}

// MemDisk keeps all blocks in memory and is the device of choice for tests.
type MemDisk struct {
	l      *sync.RWMutex
	blocks [][disk.BlockSize]byte
}

func NewMemDisk(numBlocks uint64) MemDisk {
	blocks := make([][disk.BlockSize]byte, numBlocks)
	return MemDisk{l: new(sync.RWMutex), blocks: blocks}
}

func (d MemDisk) Read(a uint64) disk.Block {
	d.l.RLock()
	defer d.l.RUnlock()
	if a >= uint64(len(d.blocks)) {
		panic(fmt.Errorf("out-of-bounds read at %v", a))
	}
	buf := make(disk.Block, disk.BlockSize)
	copy(buf, d.blocks[a][:])
	return buf
}

func (d MemDisk) ReadTo(a uint64, b disk.Block) {
	d.l.RLock()
	defer d.l.RUnlock()
	if a >= uint64(len(d.blocks)) {
		panic(fmt.Errorf("out-of-bounds read at %v", a))
	}
	copy(b, d.blocks[a][:])
}

func (d MemDisk) Write(a uint64, v disk.Block) {
	if uint64(len(v)) != disk.BlockSize {
		panic(fmt.Errorf("v is not block-sized (%d bytes)", len(v)))
	}
	d.l.Lock()
	defer d.l.Unlock()
	if a >= uint64(len(d.blocks)) {
		panic(fmt.Errorf("out-of-bounds write at %v", a))
	}
	copy(d.blocks[a][:], v)
}

func (d MemDisk) Size() uint64 {
	// this never changes so we assume it's safe to run lock-free
	return uint64(len(d.blocks))
}

func (d MemDisk) Barrier() {}

func (d MemDisk) Close() {}

package alloc

import (
	"math/bits"

	"github.com/mit-pdos/simple-fs/util"
)

// Alloc tracks which block numbers are in use with an in-memory bit map.
// Bit bn set means bn is allocated. The map is rebuilt from the inode
// table on every mount and is never written to disk.
type Alloc struct {
	start  uint64 // first allocatable number
	max    uint64 // numbers range over [0, max)
	bitmap []byte
}

// MkAlloc makes an allocator over [start, max) with [0, start) permanently
// reserved.
func MkAlloc(start uint64, max uint64) *Alloc {
	a := &Alloc{
		start:  start,
		max:    max,
		bitmap: make([]byte, util.RoundUp(max, 8)),
	}
	for n := uint64(0); n < start; n++ {
		a.MarkUsed(n)
	}
	return a
}

// MkMaxAlloc makes an allocator over [1, max) with only 0 reserved.
func MkMaxAlloc(max uint64) *Alloc {
	return MkAlloc(1, max)
}

func popCnt(b byte) uint64 {
	return uint64(bits.OnesCount8(b))
}

// AllocNum returns the smallest free number, marking it used. Returns 0
// when every number is taken.
func (a *Alloc) AllocNum() uint64 {
	for n := a.start; n < a.max; n++ {
		if !a.Used(n) {
			a.MarkUsed(n)
			return n
		}
	}
	return 0
}

func (a *Alloc) MarkUsed(n uint64) {
	if n >= a.max {
		panic("MarkUsed")
	}
	a.bitmap[n/8] |= 1 << (n % 8)
}

func (a *Alloc) FreeNum(n uint64) {
	if n == 0 || n >= a.max {
		panic("FreeNum")
	}
	a.bitmap[n/8] &= ^(byte(1) << (n % 8))
}

func (a *Alloc) Used(n uint64) bool {
	if n >= a.max {
		panic("Used")
	}
	return a.bitmap[n/8]&(1<<(n%8)) != 0
}

// NumFree counts the numbers not currently allocated.
func (a *Alloc) NumFree() uint64 {
	used := uint64(0)
	for _, b := range a.bitmap {
		used += popCnt(b)
	}
	return a.max - used
}

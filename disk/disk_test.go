package disk

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tchajed/goose/machine/disk"
)

func mkBlock(b byte) disk.Block {
	blk := make(disk.Block, disk.BlockSize)
	for i := range blk {
		blk[i] = b
	}
	return blk
}

func TestMemDisk(t *testing.T) {
	assert := assert.New(t)
	d := NewMemDisk(10)
	assert.Equal(uint64(10), d.Size())

	assert.Equal(mkBlock(0), d.Read(3), "unwritten blocks should read as zeros")

	d.Write(3, mkBlock(0xa5))
	assert.Equal(mkBlock(0xa5), d.Read(3))
	assert.Equal(mkBlock(0), d.Read(4), "writes should not leak into other blocks")
}

func TestMemDiskReadCopies(t *testing.T) {
	assert := assert.New(t)
	d := NewMemDisk(4)
	d.Write(0, mkBlock(1))
	blk := d.Read(0)
	blk[0] = 2
	assert.Equal(mkBlock(1), d.Read(0), "mutating a read buffer should not affect the disk")
}

func TestFileDisk(t *testing.T) {
	assert := assert.New(t)
	f, err := ioutil.TempFile("", "disk.img")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	require.NoError(t, f.Close())

	d, err := NewFileDisk(f.Name(), 10)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(uint64(10), d.Size())
	d.Write(0, mkBlock(1))
	d.Write(9, mkBlock(2))
	d.Barrier()
	assert.Equal(mkBlock(1), d.Read(0))
	assert.Equal(mkBlock(2), d.Read(9))

	// re-open and make sure the data persisted
	d2, err := NewFileDisk(f.Name(), 10)
	require.NoError(t, err)
	defer d2.Close()
	assert.Equal(mkBlock(2), d2.Read(9))
}

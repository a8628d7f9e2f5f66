package fs

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsdisk "github.com/mit-pdos/simple-fs/disk"
)

func TestVolumeSurvivesReopen(t *testing.T) {
	assert := assert.New(t)
	f, err := ioutil.TempFile("", "volume.img")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	require.NoError(t, f.Close())

	data := pattern(6 * bs)

	d, err := fsdisk.NewFileDisk(f.Name(), 2000)
	require.NoError(t, err)
	fs := MkFileSys(d)
	require.Equal(t, 1, fs.Format())
	require.Equal(t, 1, fs.Mount())
	require.Equal(t, 1, fs.Create())
	require.Equal(t, len(data), fs.Write(1, data, len(data), 0))
	require.Equal(t, 1, fs.Unmount())
	d.Barrier()
	d.Close()

	d2, err := fsdisk.NewFileDisk(f.Name(), 2000)
	require.NoError(t, err)
	defer d2.Close()
	fs2 := MkFileSys(d2)
	assert.Equal(1, fs2.Mount(), "the image should mount from scratch")
	assert.Equal(len(data), fs2.GetSize(1))

	buf := make([]byte, len(data))
	assert.Equal(len(data), fs2.Read(1, buf, len(buf), 0))
	assert.Equal(data, buf)
}

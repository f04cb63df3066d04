package mindless

import (
	"bufio"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testMolecule() *Molecule {
	return &Molecule{
		Numbers: []int{6, 8, 1, 1},
		Coords: mat.NewDense(4, 3, []float64{
			0.0, 0.0, 0.0,
			1.215, 0.0, 0.0,
			-0.54, 0.93, 0.0,
			-0.54, -0.93, 0.0,
		}),
		Charge: 0,
		Energy: -114.50123456,
	}
}

func TestXYZRoundTrip(t *testing.T) {
	name := filepath.Join(t.TempDir(), "mol.xyz")
	mol := testMolecule()
	require.NoError(t, XYZWrite(name, mol))
	back, err := XYZRead(name)
	require.NoError(t, err)
	require.Equal(t, mol.Numbers, back.Numbers)
	for i := 0; i < mol.Len(); i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, mol.Coords.At(i, j), back.Coords.At(i, j), 1e-6)
		}
	}
}

func TestXYZReadBadFiles(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"badcount.xyz": "nope\ncomment\n",
		"badsym.xyz":   "1\ncomment\nXx 0.0 0.0 0.0\n",
		"short.xyz":    "2\ncomment\nC 0.0 0.0 0.0\nO 1.0\n",
	} {
		full := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
		_, err := XYZRead(full)
		assert.Error(t, err, "file %s", name)
	}
}

func TestTrajWriterPlain(t *testing.T) {
	name := filepath.Join(t.TempDir(), "batch.xyz")
	traj, err := NewTrajWriter(name)
	require.NoError(t, err)
	mol := testMolecule()
	require.NoError(t, traj.WNext(mol))
	require.NoError(t, traj.WNext(mol))
	assert.Equal(t, 2, traj.Len())
	require.NoError(t, traj.Close())
	assert.Error(t, traj.WNext(mol), "write after close must fail")
	require.NoError(t, traj.Close(), "double close is harmless")

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	r := bufio.NewReader(f)
	for frame := 0; frame < 2; frame++ {
		back, err := readXYZFrame(r)
		require.NoError(t, err, "frame %d", frame)
		assert.Equal(t, mol.Numbers, back.Numbers)
	}
}

func TestTrajWriterZstd(t *testing.T) {
	name := filepath.Join(t.TempDir(), "batch.xyz.zst")
	traj, err := NewTrajWriter(name)
	require.NoError(t, err)
	mol := testMolecule()
	require.NoError(t, traj.WNext(mol))
	require.NoError(t, traj.Close())

	f, err := os.Open(name)
	require.NoError(t, err)
	defer f.Close()
	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()
	back, err := readXYZFrame(bufio.NewReader(dec))
	require.NoError(t, err)
	assert.Equal(t, mol.Numbers, back.Numbers)
	assert.InDelta(t, mol.Coords.At(1, 0), back.Coords.At(1, 0), 1e-6)
}

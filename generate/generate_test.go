package generate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/goqm/mindless"
)

func baseConfig() *mindless.RunConfig {
	cfg := mindless.DefaultConfig()
	cfg.MinAtoms = 2
	cfg.MaxAtoms = 10
	return cfg
}

//Scenario: C:2-4 and H:4-8 with exactly six atoms. Every draw must
//honor both bounds and place nothing else.
func TestGenerateHonorsBounds(t *testing.T) {
	cfg := baseConfig()
	cfg.MinAtoms, cfg.MaxAtoms = 6, 6
	var err error
	cfg.Composition, err = mindless.ParseComposition("C:2-4, H:4-8")
	require.NoError(t, err)
	for seed := int64(0); seed < 50; seed++ {
		mol, err := New(cfg, seed).Generate(1.0)
		require.NoError(t, err, "seed %d", seed)
		counts := mol.Counts()
		assert.Equal(t, 6, mol.Len(), "seed %d", seed)
		assert.GreaterOrEqual(t, counts[6], 2, "seed %d", seed)
		assert.LessOrEqual(t, counts[6], 4, "seed %d", seed)
		assert.GreaterOrEqual(t, counts[1], 4, "seed %d", seed)
		assert.LessOrEqual(t, counts[1], 8, "seed %d", seed)
		assert.Equal(t, counts[6]+counts[1], mol.Len(), "seed %d: only C and H may appear", seed)
	}
}

//Scenario: N:1-* with everything else forbidden. Only nitrogen may
//ever be placed, and at least one of it.
func TestGenerateWildcardOnlyNitrogen(t *testing.T) {
	cfg := baseConfig()
	var err error
	cfg.Composition, err = mindless.ParseComposition("N:1-*")
	require.NoError(t, err)
	cfg.Forbidden, err = mindless.ParseForbidden("1-6, 8-*")
	require.NoError(t, err)
	for seed := int64(0); seed < 30; seed++ {
		mol, err := New(cfg, seed).Generate(1.0)
		require.NoError(t, err, "seed %d", seed)
		counts := mol.Counts()
		assert.GreaterOrEqual(t, counts[7], 1, "seed %d", seed)
		assert.Equal(t, counts[7], mol.Len(), "seed %d: nitrogen only", seed)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := baseConfig()
	var err error
	cfg.Composition, err = mindless.ParseComposition("C:1-3")
	require.NoError(t, err)
	a, err := New(cfg, 42).Generate(1.0)
	require.NoError(t, err)
	b, err := New(cfg, 42).Generate(1.0)
	require.NoError(t, err)
	assert.Equal(t, a.Numbers, b.Numbers)
	assert.Equal(t, a.Charge, b.Charge)
	assert.True(t, mat.Equal(a.Coords, b.Coords), "same seed must give the same coordinates")
}

func TestGenerateUnsatisfiableMinimums(t *testing.T) {
	cfg := baseConfig()
	cfg.MinAtoms, cfg.MaxAtoms = 4, 4
	cfg.Composition = mindless.Composition{6: {Min: 6, Max: 6}}
	_, err := New(cfg, 1).Generate(1.0)
	require.Error(t, err)
	var gerr GenerationError
	assert.True(t, errors.As(err, &gerr))
}

func TestGenerateNoEligibleElement(t *testing.T) {
	cfg := baseConfig()
	cfg.MinAtoms, cfg.MaxAtoms = 6, 6
	var err error
	cfg.Composition, err = mindless.ParseComposition("C:2")
	require.NoError(t, err)
	cfg.Forbidden, err = mindless.ParseForbidden("1-*")
	require.NoError(t, err)
	_, err = New(cfg, 1).Generate(1.0)
	var gerr GenerationError
	assert.True(t, errors.As(err, &gerr), "got %v", err)
}

func TestGenerateEvenElectrons(t *testing.T) {
	cfg := baseConfig()
	for seed := int64(0); seed < 40; seed++ {
		mol, err := New(cfg, seed).Generate(1.0)
		require.NoError(t, err)
		assert.Zero(t, mol.Electrons()%2, "seed %d: odd electron count", seed)
		assert.LessOrEqual(t, mol.Charge, 1, "seed %d", seed)
		assert.GreaterOrEqual(t, mol.Charge, -1, "seed %d", seed)
	}
}

func TestGenerateMetalCap(t *testing.T) {
	cfg := baseConfig()
	cfg.MinAtoms, cfg.MaxAtoms = 5, 5
	var err error
	cfg.Forbidden, err = mindless.ParseForbidden("1-10, 12-*") //only Na left
	require.NoError(t, err)
	_, err = New(cfg, 1).Generate(1.0)
	var gerr GenerationError
	assert.True(t, errors.As(err, &gerr), "the cap leaves no eligible element after 3 Na")

	cfg.CapMetals = false
	mol, err := New(cfg, 1).Generate(1.0)
	require.NoError(t, err)
	assert.Equal(t, 5, mol.Counts()[11])
}

func TestGenerateHydrogenEnrichment(t *testing.T) {
	cfg := baseConfig()
	cfg.MinAtoms, cfg.MaxAtoms = 4, 8
	var err error
	cfg.Forbidden, err = mindless.ParseForbidden("2-5, 7-*") //C and H only
	require.NoError(t, err)
	for seed := int64(0); seed < 30; seed++ {
		mol, err := New(cfg, seed).Generate(1.0)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, mol.Counts()[1], 1, "seed %d: hydrogen should be drawn or enriched", seed)
	}
}

func TestCoordinateSpread(t *testing.T) {
	cfg := baseConfig()
	cfg.InitScaling = 3.0
	mol, err := New(cfg, 7).Generate(2.0)
	require.NoError(t, err)
	limit := 1.5 * cfg.InitScaling * 2.0 //widest box is hydrogen's
	for i := 0; i < mol.Len(); i++ {
		for j := 0; j < 3; j++ {
			assert.LessOrEqual(t, mol.Coords.At(i, j), limit)
			assert.GreaterOrEqual(t, mol.Coords.At(i, j), -limit)
		}
	}
}

func TestRecoordinateKeepsComposition(t *testing.T) {
	cfg := baseConfig()
	G := New(cfg, 3)
	mol, err := G.Generate(1.0)
	require.NoError(t, err)
	before := append([]int(nil), mol.Numbers...)
	old := mat.DenseCopyOf(mol.Coords)
	G.Recoordinate(mol, 2.0)
	assert.Equal(t, before, mol.Numbers)
	assert.Equal(t, 2.0, mol.Scaling)
	assert.False(t, mat.Equal(old, mol.Coords), "coordinates should be redrawn")
}

func TestCheckDistancesFixed(t *testing.T) {
	cfg := baseConfig()
	cfg.DistMode = mindless.DistFixed
	cfg.DistThreshold = 1.2
	mol := &mindless.Molecule{
		Numbers: []int{6, 6},
		Coords:  mat.NewDense(2, 3, []float64{0, 0, 0, 1.0, 0, 0}),
	}
	assert.False(t, CheckDistances(mol, cfg))
	mol.Coords.Set(1, 0, 2.0)
	assert.True(t, CheckDistances(mol, cfg))
}

func TestCheckDistancesCovalent(t *testing.T) {
	cfg := baseConfig()
	cfg.DistMode = mindless.DistCovalent
	cfg.DistTolerance = 0.9
	//two carbons: minimum is 0.9*(0.76+0.76) = 1.368
	mol := &mindless.Molecule{
		Numbers: []int{6, 6},
		Coords:  mat.NewDense(2, 3, []float64{0, 0, 0, 1.2, 0, 0}),
	}
	assert.False(t, CheckDistances(mol, cfg))
	mol.Coords.Set(1, 0, 1.5)
	assert.True(t, CheckDistances(mol, cfg))
}

func TestCheckDistancesSingleAtom(t *testing.T) {
	cfg := baseConfig()
	mol := &mindless.Molecule{Numbers: []int{2}, Coords: mat.NewDense(1, 3, nil)}
	assert.True(t, CheckDistances(mol, cfg), "a lone atom has no pair to clash")
}

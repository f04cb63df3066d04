package mindless

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComposition(t *testing.T) {
	comp, err := ParseComposition("C:2-4, H:4-8, N:1-*")
	require.NoError(t, err)
	assert.Equal(t, Bound{2, 4}, comp[6])
	assert.Equal(t, Bound{4, 8}, comp[1])
	assert.Equal(t, Bound{1, Unbounded}, comp[7])
	assert.Len(t, comp, 3)
}

func TestParseCompositionExactCount(t *testing.T) {
	comp, err := ParseComposition("O:3")
	require.NoError(t, err)
	assert.Equal(t, Bound{3, 3}, comp[8])
}

func TestParseCompositionEmpty(t *testing.T) {
	comp, err := ParseComposition("   ")
	require.NoError(t, err)
	assert.Empty(t, comp)
}

func TestParseCompositionErrors(t *testing.T) {
	var cerr ConfigError
	for _, bad := range []string{"Xx:1-2", "C:4-2", "C:2-4, H", "C:-1-2", "C:a-b"} {
		_, err := ParseComposition(bad)
		require.Error(t, err, "input %q", bad)
		assert.True(t, errors.As(err, &cerr), "input %q should give a ConfigError, got %v", bad, err)
	}
}

func TestCompositionRoundTrip(t *testing.T) {
	comp, err := ParseComposition("N:1-*, C:2-4, H:4-8, O:3")
	require.NoError(t, err)
	again, err := ParseComposition(comp.String())
	require.NoError(t, err)
	assert.Equal(t, comp, again)
	//and the formatting itself is stable
	assert.Equal(t, comp.String(), again.String())
}

func TestCompositionMinTotal(t *testing.T) {
	comp, err := ParseComposition("C:2-4, H:4-8")
	require.NoError(t, err)
	assert.Equal(t, 6, comp.MinTotal())
}

func TestParseForbidden(t *testing.T) {
	set, err := ParseForbidden("Na, 57-71, 84-*")
	require.NoError(t, err)
	assert.True(t, set[11])
	for z := 57; z <= 71; z++ {
		assert.True(t, set[z], "lanthanide %d should be forbidden", z)
	}
	assert.True(t, set[84])
	assert.True(t, set[MaxElement])
	assert.False(t, set[56])
	assert.False(t, set[6])
}

func TestParseForbiddenErrors(t *testing.T) {
	for _, bad := range []string{"Xx", "0", "99", "71-57"} {
		_, err := ParseForbidden(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestForbiddenOverriddenByComposition(t *testing.T) {
	set, err := ParseForbidden("N, O")
	require.NoError(t, err)
	comp, err := ParseComposition("N:1-*, O:0")
	require.NoError(t, err)
	assert.True(t, set.Allowed(7, comp), "explicit bound with room should win over the forbidden set")
	assert.False(t, set.Allowed(8, comp), "a zero upper bound keeps the element forbidden")
	assert.False(t, set.Allowed(7, Composition{}))
	assert.True(t, set.Allowed(6, Composition{}))
}

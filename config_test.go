package mindless

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*RunConfig){
		"zero min atoms":       func(c *RunConfig) { c.MinAtoms = 0 },
		"inverted atom bounds": func(c *RunConfig) { c.MinAtoms = 10; c.MaxAtoms = 5 },
		"zero init scaling":    func(c *RunConfig) { c.InitScaling = 0 },
		"shrinking rescale":    func(c *RunConfig) { c.IncreaseScaling = 1.0 },
		"zero cycles":          func(c *RunConfig) { c.MaxCycles = 0 },
		"zero frag cycles":     func(c *RunConfig) { c.MaxFragCycles = 0 },
		"zero molecules":       func(c *RunConfig) { c.NumMolecules = 0 },
		"zero workers":         func(c *RunConfig) { c.Parallel = 0 },
		"bad distance mode":    func(c *RunConfig) { c.DistMode = "sometimes" },
		"zero threshold":       func(c *RunConfig) { c.DistThreshold = 0 },
		"inverted bound":       func(c *RunConfig) { c.Composition = Composition{6: {4, 2}} },
		"impossible minimums": func(c *RunConfig) {
			c.MaxAtoms = 3
			c.Composition = Composition{6: {4, 8}}
		},
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		err := cfg.Validate()
		assert.Error(t, err, name)
		assert.IsType(t, ConfigError(""), err, name)
	}
}

func TestValidateAcceptsUnboundedComposition(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Composition = Composition{7: {1, Unbounded}}
	require.NoError(t, cfg.Validate())
}

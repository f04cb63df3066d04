/*
 * config.go, part of mindless.
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 */

package mindless

import "fmt"

//Distance-check modes.
const (
	DistFixed    = "fixed"    //scalar threshold for every pair
	DistCovalent = "covalent" //scaled sum of covalent radii per pair
)

//RunConfig is the validated parameter structure a run consumes.
//It is immutable once the orchestrator starts.
type RunConfig struct {
	MinAtoms int
	MaxAtoms int

	InitScaling     float64 //base coordinate spread
	IncreaseScaling float64 //multiplicative growth per rescale

	MaxCycles     int //whole-pipeline retry budget per molecule
	MaxFragCycles int //optimizer sub-iteration budget

	NumMolecules int //target accepted count
	Parallel     int //worker pool size

	PostProcess bool
	MinGap      float64 //eV, post-processing acceptance threshold

	DistMode      string
	DistThreshold float64 //A, used in fixed mode
	DistTolerance float64 //scale on the radius sum in covalent mode

	Composition Composition
	Forbidden   ForbiddenSet

	//Generation heuristics carried over from the reference generator.
	CapMetals      bool
	EnrichHydrogen bool

	Seed int64
}

//DefaultConfig returns a RunConfig with the defaults of the reference
//generator: 2-15 atoms, spread 3.0 growing by 1.3, distance threshold
//1.2 A, ten cycles.
func DefaultConfig() *RunConfig {
	return &RunConfig{
		MinAtoms:        2,
		MaxAtoms:        15,
		InitScaling:     3.0,
		IncreaseScaling: 1.3,
		MaxCycles:       10,
		MaxFragCycles:   10,
		NumMolecules:    1,
		Parallel:        1,
		MinGap:          0.5,
		DistMode:        DistFixed,
		DistThreshold:   1.2,
		DistTolerance:   0.9,
		Composition:     Composition{},
		Forbidden:       ForbiddenSet{},
		CapMetals:       true,
		EnrichHydrogen:  true,
		Seed:            1,
	}
}

//Validate checks the whole configuration and returns a ConfigError on
//the first contradiction found. A run must not start otherwise.
func (c *RunConfig) Validate() error {
	switch {
	case c.MinAtoms < 1:
		return ConfigError(fmt.Sprintf("min_num_atoms must be at least 1, got %d", c.MinAtoms))
	case c.MaxAtoms < c.MinAtoms:
		return ConfigError(fmt.Sprintf("max_num_atoms (%d) below min_num_atoms (%d)", c.MaxAtoms, c.MinAtoms))
	case c.InitScaling <= 0:
		return ConfigError(fmt.Sprintf("init_scaling must be positive, got %g", c.InitScaling))
	case c.IncreaseScaling <= 1:
		return ConfigError(fmt.Sprintf("increase_scaling_factor must exceed 1, got %g", c.IncreaseScaling))
	case c.MaxCycles < 1:
		return ConfigError(fmt.Sprintf("max_cycles must be at least 1, got %d", c.MaxCycles))
	case c.MaxFragCycles < 1:
		return ConfigError(fmt.Sprintf("max_frag_cycles must be at least 1, got %d", c.MaxFragCycles))
	case c.NumMolecules < 1:
		return ConfigError(fmt.Sprintf("num_molecules must be at least 1, got %d", c.NumMolecules))
	case c.Parallel < 1:
		return ConfigError(fmt.Sprintf("parallel must be at least 1, got %d", c.Parallel))
	case c.DistMode != DistFixed && c.DistMode != DistCovalent:
		return ConfigError(fmt.Sprintf("unknown distance mode %q", c.DistMode))
	case c.DistMode == DistFixed && c.DistThreshold <= 0:
		return ConfigError(fmt.Sprintf("dist_threshold must be positive, got %g", c.DistThreshold))
	case c.DistMode == DistCovalent && c.DistTolerance <= 0:
		return ConfigError(fmt.Sprintf("dist_tolerance must be positive, got %g", c.DistTolerance))
	}
	for z, b := range c.Composition {
		if b.Min < 0 {
			return ConfigError(fmt.Sprintf("negative minimum for %s", SymbolOf(z)))
		}
		if b.Max != Unbounded && b.Min > b.Max {
			return ConfigError(fmt.Sprintf("inverted bound %d-%d for %s", b.Min, b.Max, SymbolOf(z)))
		}
	}
	if c.Composition.MinTotal() > c.MaxAtoms {
		return ConfigError(fmt.Sprintf("mandatory composition needs %d atoms but max_num_atoms is %d",
			c.Composition.MinTotal(), c.MaxAtoms))
	}
	return nil
}

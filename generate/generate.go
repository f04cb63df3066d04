/*
 * generate.go, part of mindless.
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

//Package generate builds random candidate molecules under composition
//constraints, and checks their geometric sanity. All randomness goes
//through an explicit, seedable source so runs are reproducible.
package generate

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/goqm/mindless"
)

//Per-molecule caps on metals, from the reference generator. They only
//apply to elements the user did not bound explicitly.
const (
	maxGroupOneTwo = 3
	maxDFBlock     = 3
)

//GenerationError means the constraints could not be satisfied for one
//particular atom-count draw. The caller may re-draw; the constraints
//themselves are not necessarily contradictory.
type GenerationError string

func (e GenerationError) Error() string {
	return "generate: " + string(e)
}

//Generator produces random candidates for one job. It owns its random
//source and is not safe for concurrent use; every worker gets its own.
type Generator struct {
	cfg *mindless.RunConfig
	rng *rand.Rand
}

//New returns a Generator over cfg with its own source seeded with seed.
func New(cfg *mindless.RunConfig, seed int64) *Generator {
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

//Generate builds a fresh candidate: random composition within the
//constraints, random coordinates spread by scaling*InitScaling, and a
//random even-electron charge. The returned molecule has
//StatusGenerating; its distances are not yet checked.
func (G *Generator) Generate(scaling float64) (*mindless.Molecule, error) {
	total := G.cfg.MinAtoms + G.rng.Intn(G.cfg.MaxAtoms-G.cfg.MinAtoms+1)
	numbers, err := G.atomList(total)
	if err != nil {
		return nil, err
	}
	mol := &mindless.Molecule{
		Numbers: numbers,
		Status:  mindless.StatusGenerating,
		Scaling: scaling,
	}
	mol.Coords = G.coordinates(numbers, scaling)
	mol.Charge = G.charge(numbers)
	return mol, nil
}

//Recoordinate replaces the coordinates of mol with a fresh random set
//at the given scaling, keeping its composition. Used when the engine
//failed to converge and only the geometry needs a retry.
func (G *Generator) Recoordinate(mol *mindless.Molecule, scaling float64) {
	mol.Coords = G.coordinates(mol.Numbers, scaling)
	mol.Scaling = scaling
}

//atomList draws a composition with exactly total atoms. Mandatory
//minimums go in first; the rest is uniform over the eligible elements.
func (G *Generator) atomList(total int) ([]int, error) {
	counts := make(map[int]int)
	placed := 0
	for z, b := range G.cfg.Composition {
		counts[z] = b.Min
		placed += b.Min
	}
	if placed > total {
		return nil, GenerationError("mandatory composition alone exceeds the drawn atom count")
	}
	metals12, metalsDF := 0, 0
	for z, n := range counts {
		if _, bounded := G.cfg.Composition[z]; bounded {
			continue //explicit bounds win over the caps
		}
		if mindless.IsGroupOneTwo(z) {
			metals12 += n
		} else if mindless.IsDFBlock(z) {
			metalsDF += n
		}
	}
	for placed < total {
		pool := G.eligible(counts, metals12, metalsDF)
		if len(pool) == 0 {
			return nil, GenerationError("no eligible element left before all slots were filled")
		}
		z := pool[G.rng.Intn(len(pool))]
		counts[z]++
		placed++
		if _, bounded := G.cfg.Composition[z]; !bounded {
			if mindless.IsGroupOneTwo(z) {
				metals12++
			} else if mindless.IsDFBlock(z) {
				metalsDF++
			}
		}
	}
	if G.cfg.EnrichHydrogen {
		G.ensureHydrogen(counts, total)
	}
	return expand(counts), nil
}

//eligible lists every element that may take one more slot.
func (G *Generator) eligible(counts map[int]int, metals12, metalsDF int) []int {
	var pool []int
	for z := 1; z <= mindless.MaxElement; z++ {
		if !G.cfg.Forbidden.Allowed(z, G.cfg.Composition) {
			continue
		}
		if b, ok := G.cfg.Composition[z]; ok {
			if b.Max != mindless.Unbounded && counts[z] >= b.Max {
				continue
			}
		} else if G.cfg.CapMetals {
			if mindless.IsGroupOneTwo(z) && metals12 >= maxGroupOneTwo {
				continue
			}
			if mindless.IsDFBlock(z) && metalsDF >= maxDFBlock {
				continue
			}
		}
		pool = append(pool, z)
	}
	return pool
}

//ensureHydrogen converts a few heavy atoms to hydrogen when none was
//drawn, as the reference generator does. It never touches elements with
//explicit bounds and it stays away when the user constrained or forbade
//hydrogen.
func (G *Generator) ensureHydrogen(counts map[int]int, total int) {
	if counts[1] > 0 || G.cfg.Forbidden[1] {
		return
	}
	if _, bounded := G.cfg.Composition[1]; bounded {
		return
	}
	limit := total
	if limit > 10 {
		limit = 10
	}
	want := 1 + G.rng.Intn(limit)
	for i := 0; i < want; i++ {
		var donors []int
		for z, n := range counts {
			if z == 1 || n == 0 {
				continue
			}
			if _, bounded := G.cfg.Composition[z]; bounded {
				continue
			}
			donors = append(donors, z)
		}
		if len(donors) == 0 {
			return
		}
		sort.Ints(donors) //map order must not leak into the draw
		z := donors[G.rng.Intn(len(donors))]
		counts[z]--
		counts[1]++
	}
}

//expand turns per-element counts into the atom list, ordered by
//atomic number.
func expand(counts map[int]int) []int {
	zs := make([]int, 0, len(counts))
	for z, n := range counts {
		if n > 0 {
			zs = append(zs, z)
		}
	}
	sort.Ints(zs)
	var numbers []int
	for _, z := range zs {
		for i := 0; i < counts[z]; i++ {
			numbers = append(numbers, z)
		}
	}
	return numbers
}

//coordinates draws one random point per atom. Hydrogen gets a wider
//box than heavier elements, as in the reference generator; the whole
//cloud is then spread by scaling*InitScaling.
func (G *Generator) coordinates(numbers []int, scaling float64) *mat.Dense {
	eff := scaling * G.cfg.InitScaling
	c := mat.NewDense(len(numbers), 3, nil)
	for i, z := range numbers {
		span, off := 2.0, 1.0
		if z == 1 {
			span, off = 3.0, 1.5
		}
		for j := 0; j < 3; j++ {
			c.Set(i, j, (G.rng.Float64()*span-off)*eff)
		}
	}
	return c
}

//charge picks a total charge that leaves an even electron count:
//zero when the neutral molecule is already even, otherwise +1 or -1
//at random.
func (G *Generator) charge(numbers []int) int {
	electrons := 0
	for _, z := range numbers {
		electrons += z
	}
	if electrons%2 == 0 {
		return 0
	}
	if G.rng.Intn(2) == 0 {
		return 1
	}
	return -1
}

//CheckDistances reports whether every atom pair in mol is separated by
//at least the configured minimum. Pure: it touches nothing. In fixed
//mode the minimum is DistThreshold for every pair; in covalent mode it
//is DistTolerance times the covalent radius sum of the pair.
func CheckDistances(mol *mindless.Molecule, cfg *mindless.RunConfig) bool {
	n := mol.Len()
	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			dx := mol.Coords.At(i, 0) - mol.Coords.At(j, 0)
			dy := mol.Coords.At(i, 1) - mol.Coords.At(j, 1)
			dz := mol.Coords.At(i, 2) - mol.Coords.At(j, 2)
			r := math.Sqrt(dx*dx + dy*dy + dz*dz)
			min := cfg.DistThreshold
			if cfg.DistMode == mindless.DistCovalent {
				min = cfg.DistTolerance *
					(mindless.CovalentRadius(mol.Numbers[i]) + mindless.CovalentRadius(mol.Numbers[j]))
			}
			if r < min {
				return false
			}
		}
	}
	return true
}
